package feed

import (
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/Trung-Hieu-Le/forum-cli/configuration"
	"github.com/Trung-Hieu-Le/forum-cli/feedview"
)

func initBrowseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the feed interactively",
		Run:   runBrowseCommand,
	}
}

func runBrowseCommand(cmd *cobra.Command, args []string) {
	pageContext := configuration.NewPageContext()

	forumClient, err := configuration.NewClient(pageContext)
	if err != nil {
		log.Fatal(err)
	}

	// Browsing works without the read-state database, just with no
	// unread highlighting.
	var readState feedview.ReadMarker
	if rdb, err := configuration.OpenReadState(); err == nil {
		defer rdb.Close()
		readState = rdb
	}

	model := feedview.NewModel(forumClient, pageContext, readState)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatal(err)
	}
}
