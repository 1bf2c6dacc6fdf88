package feed

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/bit101/go-ansi"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Trung-Hieu-Le/forum-cli/configuration"
	"github.com/Trung-Hieu-Le/forum-cli/model"
	"github.com/Trung-Hieu-Le/forum-cli/store"
)

var (
	pageIndex int
	markRead  bool
)

func initListCommand() *cobra.Command {
	listCommand := &cobra.Command{
		Use:   "list",
		Short: "Prints one page of the thread feed",
		Run:   runListCommand,
	}

	listCommand.Flags().IntVar(&pageIndex, "page", 0, "Zero-based page index")
	listCommand.Flags().BoolVar(&markRead, "mark-read", false, "Mark the listed threads as read")
	return listCommand
}

func runListCommand(cmd *cobra.Command, args []string) {
	pageContext := configuration.NewPageContext()

	forumClient, err := configuration.NewClient(pageContext)
	if err != nil {
		log.Fatal(err)
	}

	feedPage, err := forumClient.FetchPage(context.Background(), pageIndex)
	if err != nil {
		log.Fatal(err)
	}

	readState, _ := configuration.OpenReadState()
	if readState != nil {
		defer readState.Close()
	}

	isTty := term.IsTerminal(int(os.Stdout.Fd()))
	if isTty {
		printColored(feedPage, readState)
	} else {
		printPlain(feedPage)
	}

	if markRead && readState != nil {
		for _, thread := range feedPage.Content {
			if err := readState.MarkRead(thread.ID, time.Now()); err != nil {
				log.Fatal(err)
			}
		}
	}

	fmt.Printf("page %d of %d\n", pageIndex+1, feedPage.TotalPages)
}

func printColored(feedPage model.FeedPage, readState *store.ReadStateDB) {
	for _, thread := range feedPage.Content {
		marker := " "
		if unread(readState, thread.ID) {
			marker = "*"
		}
		ansi.Fprintf(os.Stdout, ansi.Yellow, "%s%d: ", marker, thread.ID)
		ansi.Fprintf(os.Stdout, ansi.Default, "%s", thread.Title)
		ansi.Fprintf(os.Stdout, ansi.Red, " by %s", thread.User.Username)
		ansi.Fprintf(os.Stdout, ansi.Cyan, " #%s", thread.Topic.Name)
		ansi.Fprintf(os.Stdout, ansi.Default, " (%s)\n", thread.CreatedAt.Format("02/01/2006 15:04"))
	}
}

func printPlain(feedPage model.FeedPage) {
	for _, thread := range feedPage.Content {
		fmt.Printf("%d: %s by %s #%s (%s)\n",
			thread.ID, thread.Title, thread.User.Username,
			thread.Topic.Name, thread.CreatedAt.Format("02/01/2006 15:04"))
	}
}

func unread(readState *store.ReadStateDB, id model.ThreadID) bool {
	if readState == nil {
		return false
	}
	read, err := readState.IsRead(id)
	return err == nil && !read
}
