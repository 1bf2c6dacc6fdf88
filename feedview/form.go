package feedview

import (
	"fmt"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Trung-Hieu-Le/forum-cli/messages"
	"github.com/Trung-Hieu-Le/forum-cli/model"
)

type FormMode int

const (
	FormCreate FormMode = iota
	FormEdit
)

// Form field focus order.
const (
	fieldTitle = iota
	fieldTopic
	fieldContent
	fieldCount
)

// formFieldNames are the wire names this form can show errors for.
// Server errors for any other field are silently dropped: the server
// may validate fields this view doesn't render.
var formFieldNames = map[string]bool{
	"title":   true,
	"content": true,
	"topicId": true,
}

// ComposeForm is the new-post / edit-post form. It owns its field
// error set: the set is replaced wholesale on every validation pass,
// never merged, so one message at most renders per field.
type ComposeForm struct {
	Mode     FormMode
	ThreadID model.ThreadID

	title      textinput.Model
	content    textarea.Model
	topics     []model.Topic
	topicIndex int // Index into topics; -1 when nothing selected.

	focus       int
	fieldErrors map[string]string
	submitting  bool
}

// NewComposeForm creates an empty form for a new post.
func NewComposeForm(topics []model.Topic) *ComposeForm {
	title := textinput.New()
	title.Placeholder = "Title"
	title.CharLimit = 200
	title.Focus()

	content := textarea.New()
	content.Placeholder = "Write something..."

	return &ComposeForm{
		Mode:       FormCreate,
		title:      title,
		content:    content,
		topics:     topics,
		topicIndex: -1,
	}
}

// NewEditForm creates a form pre-filled from an existing thread.
func NewEditForm(thread model.Thread, topics []model.Topic) *ComposeForm {
	form := NewComposeForm(topics)
	form.Mode = FormEdit
	form.ThreadID = thread.ID
	form.title.SetValue(thread.Title)
	form.content.SetValue(htmlToText(thread.Content))
	for i, topic := range topics {
		if topic.ID == thread.Topic.ID {
			form.topicIndex = i
			break
		}
	}
	return form
}

// SetSize adjusts the embedded widgets to the available width.
func (f *ComposeForm) SetSize(width, height int) {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}
	f.title.Width = inner
	f.content.SetWidth(inner)
	contentHeight := height - 10
	if contentHeight < 3 {
		contentHeight = 3
	}
	f.content.SetHeight(contentHeight)
}

// Submitting reports whether this form has a request in flight. While
// true, further submits from this form are dropped and input is
// locked.
func (f *ComposeForm) Submitting() bool { return f.submitting }

// SetSubmitting flips the in-flight flag. Cleared unconditionally
// when the result arrives, success or failure.
func (f *ComposeForm) SetSubmitting(submitting bool) { f.submitting = submitting }

// Values returns the current field values. An unselected topic
// reports a zero TopicID.
func (f *ComposeForm) Values() (title, content string, topicID model.TopicID) {
	title = f.title.Value()
	content = f.content.Value()
	if f.topicIndex >= 0 && f.topicIndex < len(f.topics) {
		topicID = f.topics[f.topicIndex].ID
	}
	return
}

// ClearFieldErrors drops every field error. Idempotent; called at the
// start of each validation pass so stale messages never linger.
func (f *ComposeForm) ClearFieldErrors() {
	f.fieldErrors = nil
}

// SetFieldErrors replaces the error set with the entries naming
// fields this form renders. Unknown names are dropped without
// complaint. Keyed by field name, so applying twice cannot duplicate
// a message.
func (f *ComposeForm) SetFieldErrors(errors map[string]string) {
	f.fieldErrors = nil
	for name, message := range errors {
		if !formFieldNames[name] {
			continue
		}
		if f.fieldErrors == nil {
			f.fieldErrors = make(map[string]string)
		}
		f.fieldErrors[name] = message
	}
}

// FieldError returns the message for a field, or "" when the field is
// valid.
func (f *ComposeForm) FieldError(name string) string {
	return f.fieldErrors[name]
}

// Validate runs the client-side checks the server would reject anyway
// (required title, topic, content). Returns the error set; empty
// means the form may be submitted. Replaces the current field errors
// either way.
func (f *ComposeForm) Validate(msgs *messages.Bundle) map[string]string {
	f.ClearFieldErrors()
	errors := make(map[string]string)

	title, content, topicID := f.Values()
	if trimmed(title) == "" {
		errors["title"] = msgs.Get(messages.TitleRequired)
	}
	if topicID == 0 {
		errors["topicId"] = msgs.Get(messages.TopicRequired)
	}
	if trimmed(content) == "" {
		errors["content"] = msgs.Get(messages.ContentRequired)
	}

	if len(errors) > 0 {
		f.SetFieldErrors(errors)
		return errors
	}
	return nil
}

// FocusNext moves focus to the next field, wrapping around.
func (f *ComposeForm) FocusNext() {
	f.setFocus((f.focus + 1) % fieldCount)
}

// FocusPrev moves focus to the previous field, wrapping around.
func (f *ComposeForm) FocusPrev() {
	f.setFocus((f.focus + fieldCount - 1) % fieldCount)
}

func (f *ComposeForm) setFocus(focus int) {
	f.focus = focus
	f.title.Blur()
	f.content.Blur()
	switch focus {
	case fieldTitle:
		f.title.Focus()
	case fieldContent:
		f.content.Focus()
	}
}

// Update routes input to the focused widget. The topic field is a
// left/right selector rather than a text input. Input is ignored
// while a submit is in flight.
func (f *ComposeForm) Update(message tea.Msg) tea.Cmd {
	if f.submitting {
		return nil
	}

	if keyMessage, isKey := message.(tea.KeyMsg); isKey && f.focus == fieldTopic {
		switch keyMessage.String() {
		case "left", "h":
			if f.topicIndex > 0 {
				f.topicIndex--
			} else if f.topicIndex < 0 && len(f.topics) > 0 {
				f.topicIndex = 0
			}
		case "right", "l", " ":
			if f.topicIndex+1 < len(f.topics) {
				f.topicIndex++
			}
		}
		return nil
	}

	var command tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, command = f.title.Update(message)
	case fieldContent:
		f.content, command = f.content.Update(message)
	}
	return command
}

// View renders the form with any field errors adjacent to their
// fields.
func (f *ComposeForm) View(theme Theme, msgs *messages.Bundle, width int) string {
	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText)
	focusStyle := lipgloss.NewStyle().Foreground(theme.TitleText).Bold(true)
	errorStyle := lipgloss.NewStyle().Foreground(theme.FieldErrorText)

	label := func(index int, text string) string {
		if f.focus == index {
			return focusStyle.Render("> " + text)
		}
		return labelStyle.Render("  " + text)
	}

	sections := []string{}

	heading := msgs.Get(messages.PostSubmit)
	if f.Mode == FormEdit {
		heading = msgs.Get(messages.PostEdit)
	}
	sections = append(sections, focusStyle.Render(heading))

	sections = append(sections, label(fieldTitle, "Title"), f.title.View())
	if message := f.FieldError("title"); message != "" {
		sections = append(sections, errorStyle.Render("  ✗ "+message))
	}

	sections = append(sections, label(fieldTopic, "Topic"), "  "+f.topicView(theme))
	if message := f.FieldError("topicId"); message != "" {
		sections = append(sections, errorStyle.Render("  ✗ "+message))
	}

	sections = append(sections, label(fieldContent, "Content"), f.content.View())
	if message := f.FieldError("content"); message != "" {
		sections = append(sections, errorStyle.Render("  ✗ "+message))
	}

	status := "C-s submit · Tab next field · Esc cancel"
	if f.submitting {
		status = msgs.Get(messages.PostSubmitLoading)
	}
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.HelpText).Render(status))

	return lipgloss.NewStyle().MaxWidth(width).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (f *ComposeForm) topicView(theme Theme) string {
	if len(f.topics) == 0 {
		return lipgloss.NewStyle().Foreground(theme.FaintText).Render("(no topics)")
	}
	if f.topicIndex < 0 {
		return lipgloss.NewStyle().Foreground(theme.FaintText).
			Render(fmt.Sprintf("← select → (%d topics)", len(f.topics)))
	}
	selected := f.topics[f.topicIndex]
	return lipgloss.NewStyle().Foreground(theme.TopicBadge).
		Render(fmt.Sprintf("← %s → (%d/%d)", selected.Name, f.topicIndex+1, len(f.topics)))
}
