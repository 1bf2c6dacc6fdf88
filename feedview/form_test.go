package feedview

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Trung-Hieu-Le/forum-cli/messages"
	"github.com/Trung-Hieu-Le/forum-cli/model"
)

var testTopics = []model.Topic{
	{ID: 1, Name: "general"},
	{ID: 2, Name: "help"},
}

func TestFormValidateRequiredFields(t *testing.T) {
	msgs := messages.NewBundle(nil)
	form := NewComposeForm(testTopics)

	errors := form.Validate(msgs)
	require.Len(t, errors, 3)
	require.Equal(t, msgs.Get(messages.TitleRequired), form.FieldError("title"))
	require.Equal(t, msgs.Get(messages.TopicRequired), form.FieldError("topicId"))
	require.Equal(t, msgs.Get(messages.ContentRequired), form.FieldError("content"))
}

func TestFormValidatePassesWhenComplete(t *testing.T) {
	msgs := messages.NewBundle(nil)
	form := NewComposeForm(testTopics)
	form.title.SetValue("A title")
	form.content.SetValue("Some words")
	form.topicIndex = 1

	require.Nil(t, form.Validate(msgs))
	require.Equal(t, "", form.FieldError("title"))

	title, content, topicID := form.Values()
	require.Equal(t, "A title", title)
	require.Equal(t, "Some words", content)
	require.Equal(t, model.TopicID(2), topicID)
}

func TestFormSetFieldErrorsDropsUnknownFields(t *testing.T) {
	form := NewComposeForm(testTopics)
	form.SetFieldErrors(map[string]string{
		"title":      "Required",
		"slug":       "not rendered here",
		"moderation": "neither is this",
	})
	require.Equal(t, "Required", form.FieldError("title"))
	require.Equal(t, "", form.FieldError("slug"))
	require.Equal(t, "", form.FieldError("moderation"))
}

func TestFormErrorsReplaceNotMerge(t *testing.T) {
	form := NewComposeForm(testTopics)
	form.SetFieldErrors(map[string]string{"title": "first", "content": "stale"})
	form.SetFieldErrors(map[string]string{"title": "second"})

	// One message per field, and the content error is gone.
	require.Equal(t, "second", form.FieldError("title"))
	require.Equal(t, "", form.FieldError("content"))
}

func TestFormClearErrorsIdempotent(t *testing.T) {
	form := NewComposeForm(testTopics)
	form.SetFieldErrors(map[string]string{"title": "Required"})
	form.ClearFieldErrors()
	form.ClearFieldErrors()
	require.Equal(t, "", form.FieldError("title"))
}

func TestEditFormPrefill(t *testing.T) {
	thread := model.Thread{
		ID:      42,
		Title:   "Hello",
		Content: "<p>first line</p><p>second line</p>",
		Topic:   model.Topic{ID: 2, Name: "help"},
	}
	form := NewEditForm(thread, testTopics)

	require.Equal(t, FormEdit, form.Mode)
	require.Equal(t, model.ThreadID(42), form.ThreadID)

	title, content, topicID := form.Values()
	require.Equal(t, "Hello", title)
	require.Equal(t, "first line\nsecond line", content)
	require.Equal(t, model.TopicID(2), topicID)
}

func TestFormSubmittingLocksInput(t *testing.T) {
	form := NewComposeForm(testTopics)
	require.False(t, form.Submitting())
	form.SetSubmitting(true)
	require.True(t, form.Submitting())
	form.SetSubmitting(false)
	require.False(t, form.Submitting())
}
