package feedview

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/Trung-Hieu-Le/forum-cli/model"
)

// Theme defines the color palette for the feed TUI. ANSI 256-color
// codes for broad terminal compatibility.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	SelectedBackground lipgloss.Color
	SelectedForeground lipgloss.Color

	TitleText   lipgloss.Color
	UnreadText  lipgloss.Color
	TopicBadge  lipgloss.Color
	AuthorText  lipgloss.Color
	BorderColor lipgloss.Color
	HelpText    lipgloss.Color

	// Toast severity colors (border and header of each entry).
	ToastInfo    lipgloss.Color
	ToastSuccess lipgloss.Color
	ToastWarning lipgloss.Color
	ToastError   lipgloss.Color

	// Inline field error messages in the compose form.
	FieldErrorText lipgloss.Color
}

// SeverityColor returns the accent color for a toast severity.
func (theme Theme) SeverityColor(severity model.Severity) lipgloss.Color {
	switch severity {
	case model.SeveritySuccess:
		return theme.ToastSuccess
	case model.SeverityWarning:
		return theme.ToastWarning
	case model.SeverityError:
		return theme.ToastError
	default:
		return theme.ToastInfo
	}
}

// DefaultTheme is the built-in dark-terminal color scheme.
var DefaultTheme = Theme{
	NormalText: lipgloss.Color("252"),
	FaintText:  lipgloss.Color("245"),

	SelectedBackground: lipgloss.Color("236"),
	SelectedForeground: lipgloss.Color("255"),

	TitleText:   lipgloss.Color("255"),
	UnreadText:  lipgloss.Color("220"), // amber
	TopicBadge:  lipgloss.Color("141"), // light purple
	AuthorText:  lipgloss.Color("114"), // green
	BorderColor: lipgloss.Color("240"),
	HelpText:    lipgloss.Color("241"),

	ToastInfo:    lipgloss.Color("75"),  // blue
	ToastSuccess: lipgloss.Color("114"), // green
	ToastWarning: lipgloss.Color("220"), // amber
	ToastError:   lipgloss.Color("196"), // red

	FieldErrorText: lipgloss.Color("203"), // soft red
}
