package feed

import (
	"log"
	"strconv"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/Trung-Hieu-Le/forum-cli/configuration"
	"github.com/Trung-Hieu-Le/forum-cli/model"
)

func initOpenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "open <thread_id>",
		Short: "Opens a thread in a browser.",
		Args:  cobra.ExactArgs(1),
		Run:   runOpenCommand,
	}
}

func runOpenCommand(cmd *cobra.Command, args []string) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		log.Fatalf("Bad thread id %q: %v", args[0], err)
	}

	pageContext := configuration.NewPageContext()
	forumClient, err := configuration.NewClient(pageContext)
	if err != nil {
		log.Fatal(err)
	}

	if err := browser.OpenURL(forumClient.ThreadWebURL(model.ThreadID(id))); err != nil {
		log.Fatal(err)
	}
}
