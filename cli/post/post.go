package post

import (
	"os"

	"github.com/bit101/go-ansi"
	"github.com/spf13/cobra"

	"github.com/Trung-Hieu-Le/forum-cli/client"
	"github.com/Trung-Hieu-Le/forum-cli/model"
)

func NewCommand() *cobra.Command {
	postCommand := &cobra.Command{
		Use:   "post",
		Short: "Commands for creating and editing posts",
		Example: "  # Create a post\n" +
			"  " + os.Args[0] + " post create --title 'Hello' --topic 5 --content 'First post'\n" +
			"  # Edit post 42\n" +
			"  " + os.Args[0] + " post edit 42 --title 'Hello again' --topic 5 --content 'Edited'",
	}

	postCommand.AddCommand(initCreateCommand())
	postCommand.AddCommand(initEditCommand())

	return postCommand
}

func severityColor(severity model.Severity) ansi.AnsiColor {
	switch severity {
	case model.SeveritySuccess:
		return ansi.Green
	case model.SeverityWarning:
		return ansi.Yellow
	case model.SeverityError:
		return ansi.Red
	default:
		return ansi.Cyan
	}
}

// reportResult prints a classified submission outcome, one
// severity-tagged line plus any per-field messages, and returns the
// process exit code.
func reportResult(result client.SubmissionResult) int {
	ansi.Fprintf(os.Stdout, severityColor(result.Severity), "%s: ", result.Severity)
	ansi.Fprintf(os.Stdout, ansi.Default, "%s\n", result.Message)

	for field, message := range result.Fields {
		ansi.Fprintf(os.Stdout, ansi.Red, "  %s: ", field)
		ansi.Fprintf(os.Stdout, ansi.Default, "%s\n", message)
	}

	if result.Kind == client.ResultSuccess {
		if result.RedirectURL != "" {
			ansi.Fprintf(os.Stdout, ansi.Cyan, "-> %s\n", result.RedirectURL)
		}
		return 0
	}
	return 1
}
