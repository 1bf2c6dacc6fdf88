package feedview

import (
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Trung-Hieu-Le/forum-cli/model"
)

// Toast is one transient notice. Error toasts stay until dismissed by
// hand; everything else expires on its own timer.
type Toast struct {
	ID        int
	Severity  model.Severity
	Message   string
	CreatedAt time.Time
}

// AutoDismiss reports whether this toast expires on a timer.
func (t Toast) AutoDismiss() bool {
	return t.Severity != model.SeverityError
}

// ToastStack is the notification queue: notices stack in arrival
// order, never coalesce, and dismiss independently of one another.
type ToastStack struct {
	entries []Toast
	nextID  int
}

// Push appends a notice and returns it (the caller schedules the
// expiry timer for auto-dismissing severities using the returned ID).
func (s *ToastStack) Push(severity model.Severity, message string, now time.Time) Toast {
	s.nextID++
	toast := Toast{
		ID:        s.nextID,
		Severity:  severity,
		Message:   message,
		CreatedAt: now,
	}
	s.entries = append(s.entries, toast)
	return toast
}

// Dismiss removes exactly the entry with the given id. Unknown ids
// are a no-op: a timer may fire after a manual dismissal already
// removed its toast.
func (s *ToastStack) Dismiss(id int) {
	for i, toast := range s.entries {
		if toast.ID == id {
			s.entries = append(s.entries[:i], s.entries[i+1:]...)
			return
		}
	}
}

// DismissNewest removes the most recent entry, if any. Bound to the
// dismiss key so sticky error toasts can be cleared by hand.
func (s *ToastStack) DismissNewest() {
	if len(s.entries) > 0 {
		s.entries = s.entries[:len(s.entries)-1]
	}
}

// Entries returns the visible toasts in arrival order.
func (s *ToastStack) Entries() []Toast {
	return s.entries
}

// Len returns the number of visible toasts.
func (s *ToastStack) Len() int { return len(s.entries) }

// renderToasts draws the stacked notices, one bordered line each, in
// arrival order.
func renderToasts(stack *ToastStack, theme Theme, width int) string {
	if stack.Len() == 0 {
		return ""
	}
	lines := make([]string, 0, stack.Len())
	for _, toast := range stack.Entries() {
		color := theme.SeverityColor(toast.Severity)
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Foreground(theme.NormalText).
			Padding(0, 1).
			MaxWidth(width)
		label := lipgloss.NewStyle().Foreground(color).Bold(true).
			Render(toast.Severity.String() + ": ")
		lines = append(lines, style.Render(label+toast.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
