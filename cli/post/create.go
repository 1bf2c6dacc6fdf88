package post

import (
	"context"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Trung-Hieu-Le/forum-cli/client"
	"github.com/Trung-Hieu-Le/forum-cli/configuration"
	"github.com/Trung-Hieu-Le/forum-cli/messages"
	"github.com/Trung-Hieu-Le/forum-cli/model"
)

var (
	title   string
	topicID int64
	content string
)

func initCreateCommand() *cobra.Command {
	createCommand := &cobra.Command{
		Use:   "create",
		Short: "Creates a new post",
		Long:  "Creates a new post. Content comes from --content, or from stdin when the flag is omitted.",
		Run:   runCreateCommand,
	}

	createCommand.Flags().StringVar(&title, "title", "", "Post title")
	createCommand.Flags().Int64Var(&topicID, "topic", 0, "Topic id")
	createCommand.Flags().StringVar(&content, "content", "", "Post body (default: read from stdin)")
	return createCommand
}

// readContent resolves the post body: the flag wins, stdin otherwise.
func readContent() string {
	if content != "" {
		return content
	}
	body, err := io.ReadAll(os.Stdin)
	if err != nil {
		log.Fatal(err)
	}
	return strings.TrimSpace(string(body))
}

// validateLocally mirrors the server's required-field checks so an
// obviously incomplete post never generates a request.
func validateLocally(pageContext *model.PageContext, title string, topicID int64, body string) map[string]string {
	msgs := pageContext.Messages
	errors := make(map[string]string)
	if strings.TrimSpace(title) == "" {
		errors["title"] = msgs.Get(messages.TitleRequired)
	}
	if topicID == 0 {
		errors["topicId"] = msgs.Get(messages.TopicRequired)
	}
	if strings.TrimSpace(body) == "" {
		errors["content"] = msgs.Get(messages.ContentRequired)
	}
	if len(errors) == 0 {
		return nil
	}
	return errors
}

func runCreateCommand(cmd *cobra.Command, args []string) {
	pageContext := configuration.NewPageContext()
	body := readContent()

	if errors := validateLocally(pageContext, title, topicID, body); errors != nil {
		os.Exit(reportResult(client.SubmissionResult{
			Kind:     client.ResultFieldErrors,
			Severity: model.SeverityError,
			Message:  pageContext.Messages.Get(messages.ValidationFailed),
			Fields:   errors,
		}))
	}

	forumClient, err := configuration.NewClient(pageContext)
	if err != nil {
		log.Fatal(err)
	}

	result := forumClient.CreateThread(context.Background(), title, body, model.TopicID(topicID))
	if result.Kind == client.ResultSuccess && result.Message == "" {
		result.Message = pageContext.Messages.Get(messages.PostSuccess)
	}
	os.Exit(reportResult(result))
}
