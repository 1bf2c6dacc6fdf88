// Package messages holds the user-facing strings bundle. Defaults are
// English; a deployment overrides individual keys through the
// "messages" section of the config file. The bundle is assembled once
// at startup and read-only afterwards.
package messages

// Keys used across the client.
const (
	PostSuccess           = "post.success"
	PostUpdateSuccess     = "post.update.success"
	PostErrorCreate       = "post.error.create"
	PostErrorLoad         = "post.error.load"
	PostEmpty             = "post.empty"
	PostSubmit            = "post.submit"
	PostSubmitLoading     = "post.submit.loading"
	PostEdit              = "post.edit"
	ValidationFailed      = "validation.failed"
	TitleRequired         = "validation.title.required"
	TopicRequired         = "validation.topic.required"
	ContentRequired       = "validation.content.required"
	TransportFailure      = "error.transport"
	FeedLoadFailure       = "feed.error.load"
	RedirectNotice        = "redirect.notice"
)

var defaults = map[string]string{
	PostSuccess:       "Post created successfully",
	PostUpdateSuccess: "Post updated successfully",
	PostErrorCreate:   "An error occurred while creating the post",
	PostErrorLoad:     "Unable to load post",
	PostEmpty:         "No posts yet",
	PostSubmit:        "Post",
	PostSubmitLoading: "Posting...",
	PostEdit:          "Edit",
	ValidationFailed:  "Please correct the highlighted fields",
	TitleRequired:     "Please enter a post title",
	TopicRequired:     "Please select a topic",
	ContentRequired:   "Please enter some content",
	TransportFailure:  "Unknown error, please try again",
	FeedLoadFailure:   "Unable to load the post list",
	RedirectNotice:    "Opening %s",
}

// Bundle resolves message keys to display strings.
type Bundle struct {
	overrides map[string]string
}

// NewBundle creates a bundle with the given per-key overrides layered
// over the built-in defaults. A nil map is valid.
func NewBundle(overrides map[string]string) *Bundle {
	return &Bundle{overrides: overrides}
}

// Get returns the string for key, preferring an override, then the
// default, then the key itself so a missing entry stays visible
// instead of rendering blank.
func (b *Bundle) Get(key string) string {
	if b != nil && b.overrides != nil {
		if s, ok := b.overrides[key]; ok {
			return s
		}
	}
	if s, ok := defaults[key]; ok {
		return s
	}
	return key
}
