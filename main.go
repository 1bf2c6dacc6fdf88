package main

import (
	"log"

	"github.com/Trung-Hieu-Le/forum-cli/cli"
)

func main() {
	forumCmd := cli.NewCommand()
	if err := forumCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
