package feedview

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/lipgloss"

	"github.com/Trung-Hieu-Le/forum-cli/messages"
	"github.com/Trung-Hieu-Le/forum-cli/model"
)

func trimmed(s string) string { return strings.TrimSpace(s) }

// htmlToText flattens a thread's HTML body to plain text for terminal
// display. Block-level tags become line breaks; everything else is
// stripped to its text. Input that fails to parse is returned as-is
// rather than lost.
func htmlToText(html string) string {
	document, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	document.Find("br").Each(func(_ int, selection *goquery.Selection) {
		selection.ReplaceWithHtml("\n")
	})
	document.Find("p, div, li, h1, h2, h3, h4, h5, h6, blockquote").Each(func(_ int, selection *goquery.Selection) {
		selection.AppendHtml("\n")
	})
	text := document.Text()

	// Collapse runs of blank lines left behind by nested blocks.
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// RenderThread draws one feed item. Used by page-append and full-reload
// alike so the same item always renders identically. The edit marker
// appears only on the viewer's own posts.
func RenderThread(thread model.Thread, theme Theme, msgs *messages.Bundle, viewer model.Viewer, width int, selected, unread bool) string {
	if width < 20 {
		width = 20
	}

	titleStyle := lipgloss.NewStyle().Foreground(theme.TitleText).Bold(true)
	if unread {
		titleStyle = titleStyle.Foreground(theme.UnreadText)
	}
	authorStyle := lipgloss.NewStyle().Foreground(theme.AuthorText)
	faintStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	topicStyle := lipgloss.NewStyle().Foreground(theme.TopicBadge)

	header := authorStyle.Render(thread.User.Username)
	if !thread.CreatedAt.IsZero() {
		header += faintStyle.Render(" · " + thread.CreatedAt.Format("02/01/2006 15:04"))
	}
	if thread.User.ID != 0 && thread.User.ID == viewer.ID {
		header += faintStyle.Render(" [" + msgs.Get(messages.PostEdit) + "]")
	}

	body := htmlToText(thread.Content)
	if maxBody := 3; strings.Count(body, "\n") >= maxBody {
		body = strings.Join(strings.SplitN(body, "\n", maxBody+1)[:maxBody], "\n") + " …"
	}

	footer := topicStyle.Render("#" + thread.Topic.Name)

	card := lipgloss.JoinVertical(lipgloss.Left,
		header,
		titleStyle.Render(thread.Title),
		body,
		footer,
	)

	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(0, 1).
		Width(width - 2)
	if selected {
		border = border.BorderForeground(theme.SelectedForeground).
			Background(theme.SelectedBackground)
	}
	return border.Render(card)
}
