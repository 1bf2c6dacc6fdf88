package model

import (
	"time"

	"github.com/Trung-Hieu-Le/forum-cli/messages"
)

type ThreadID int64
type TopicID int64
type UserID int64

// Timestamp wraps time.Time to accept the server's createdAt encoding,
// which may or may not carry a zone offset.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
}

func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" || s == `""` {
		ts.Time = time.Time{}
		return nil
	}
	if len(s) >= 2 && s[0] == '"' {
		s = s[1 : len(s)-1]
	}
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return err
}

type Topic struct {
	ID   TopicID `json:"id"`
	Name string  `json:"name"`
}

type Author struct {
	ID       UserID `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar"`
}

// Thread is one feed item as the server serializes it. Immutable once
// rendered; the feed only changes items through a full page reload.
type Thread struct {
	ID        ThreadID  `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"` // HTML body
	Topic     Topic     `json:"topic"`
	User      Author    `json:"user"`
	CreatedAt Timestamp `json:"createdAt"`
}

// FeedPage is one server-produced slice of the feed.
type FeedPage struct {
	Content    []Thread `json:"content"`
	TotalPages int      `json:"totalPages"`
}

// Viewer is the identity of the person running the client, supplied
// once at startup. A zero ID means browsing anonymously.
type Viewer struct {
	ID       UserID
	Username string
}

// PageContext carries the read-only inputs every component needs:
// who is looking, which strings to show, and the tunables that vary
// per deployment. Assembled once by the CLI layer and passed by
// reference instead of rediscovered ad hoc.
type PageContext struct {
	Viewer   Viewer
	Messages *messages.Bundle

	// ToastTimeout is the auto-dismiss delay for non-error toasts.
	ToastTimeout time.Duration
	// ScrollMargin is how many rows from the bottom of the feed count
	// as "near bottom" for triggering the next page fetch.
	ScrollMargin int
	// NavigateDelay is how long a success toast stays readable before
	// a redirect target is opened.
	NavigateDelay time.Duration
}
