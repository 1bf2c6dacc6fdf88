package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Trung-Hieu-Le/forum-cli/cli/feed"
	"github.com/Trung-Hieu-Le/forum-cli/cli/post"
	"github.com/Trung-Hieu-Le/forum-cli/configuration"
)

var (
	serverURL string
	dbPath    string
	token     string
)

func NewCommand() *cobra.Command {
	forumCli := &cobra.Command{
		Use:     "forum",
		Short:   "Forum CLI",
		Long:    "Terminal client for the forum server",
		Example: fmt.Sprintf("  %s <command> [flags...]", os.Args[0]),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			readConfigFile()
		},
	}

	forumCli.PersistentFlags().StringVar(&serverURL, "server", "", "Forum server base URL")
	forumCli.PersistentFlags().StringVar(&dbPath, "database", "forum.db", "Read-state database filename")
	forumCli.PersistentFlags().StringVar(&token, "token", "", "Bearer token for authenticated requests")
	viper.BindPFlag("server", forumCli.PersistentFlags().Lookup("server"))
	viper.BindPFlag("database", forumCli.PersistentFlags().Lookup("database"))
	viper.BindPFlag("token", forumCli.PersistentFlags().Lookup("token"))

	configuration.SetDefaults()

	forumCli.AddCommand(feed.NewCommand())
	forumCli.AddCommand(post.NewCommand())

	return forumCli
}

// readConfigFile layers an optional forum.yaml (current directory or
// ~/.config/forum) under the flags. A missing file is fine; a broken
// one is not.
func readConfigFile() {
	viper.SetConfigName("forum")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home + "/.config/forum")
	}
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}
}
