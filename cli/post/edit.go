package post

import (
	"context"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Trung-Hieu-Le/forum-cli/client"
	"github.com/Trung-Hieu-Le/forum-cli/configuration"
	"github.com/Trung-Hieu-Le/forum-cli/messages"
	"github.com/Trung-Hieu-Le/forum-cli/model"
)

func initEditCommand() *cobra.Command {
	editCommand := &cobra.Command{
		Use:   "edit <thread_id>",
		Short: "Edits an existing post",
		Long: "Edits an existing post. Omitted flags keep the post's current " +
			"values, fetched from the server before submitting.",
		Args: cobra.ExactArgs(1),
		Run:  runEditCommand,
	}

	editCommand.Flags().StringVar(&title, "title", "", "New title")
	editCommand.Flags().Int64Var(&topicID, "topic", 0, "New topic id")
	editCommand.Flags().StringVar(&content, "content", "", "New body")
	return editCommand
}

func runEditCommand(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		log.Fatalf("Bad thread id %q: %v", args[0], err)
	}

	pageContext := configuration.NewPageContext()
	forumClient, err := configuration.NewClient(pageContext)
	if err != nil {
		log.Fatal(err)
	}

	// Start from the post as it stands so partial edits work.
	current, err := forumClient.FetchThread(context.Background(), model.ThreadID(id))
	if err != nil {
		log.Fatal(err)
	}
	if title == "" {
		title = current.Title
	}
	if topicID == 0 {
		topicID = int64(current.Topic.ID)
	}
	if content == "" {
		content = current.Content
	}

	if errors := validateLocally(pageContext, title, topicID, content); errors != nil {
		os.Exit(reportResult(client.SubmissionResult{
			Kind:     client.ResultFieldErrors,
			Severity: model.SeverityError,
			Message:  pageContext.Messages.Get(messages.ValidationFailed),
			Fields:   errors,
		}))
	}

	result := forumClient.UpdateThread(context.Background(), model.ThreadID(id), title, content, model.TopicID(topicID))
	if result.Kind == client.ResultSuccess && result.Message == "" {
		result.Message = pageContext.Messages.Get(messages.PostUpdateSuccess)
	}
	os.Exit(reportResult(result))
}
