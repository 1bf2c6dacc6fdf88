package feed

import (
	"os"

	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	feedCommand := &cobra.Command{
		Use:   "feed",
		Short: "Commands for reading the thread feed",
		Example: "  # Browse the feed interactively\n" +
			"  " + os.Args[0] + " feed browse\n" +
			"  # Print one page of the feed\n" +
			"  " + os.Args[0] + " feed list --page 2",
	}

	feedCommand.AddCommand(initBrowseCommand())
	feedCommand.AddCommand(initListCommand())
	feedCommand.AddCommand(initOpenCommand())

	return feedCommand
}
