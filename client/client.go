// Package client speaks the forum server's JSON API: the paged thread
// feed, single-thread lookup, topics, and the uniform submission
// envelope for mutations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/Trung-Hieu-Le/forum-cli/messages"
	"github.com/Trung-Hieu-Le/forum-cli/model"
	"github.com/Trung-Hieu-Le/forum-cli/utils"
)

const defaultTimeout = 15 * time.Second

type Client struct {
	baseURL *url.URL
	token   string
	msgs    *messages.Bundle
	http    *http.Client
}

// NewClient builds a client for the server at base. The token, when
// non-empty, is sent as a bearer Authorization header on every
// request; session management itself is the server's business.
func NewClient(base string, token string, msgs *messages.Bundle) (c *Client, err error) {
	var parsed *url.URL
	if parsed, err = url.Parse(base); err == nil {
		if parsed.Scheme == "" || parsed.Host == "" {
			err = fmt.Errorf("server URL %q has no scheme or host", base)
		} else {
			c = &Client{
				baseURL: utils.TrimmedURL(parsed),
				token:   token,
				msgs:    msgs,
				http:    &http.Client{Timeout: defaultTimeout},
			}
		}
	}
	return
}

// ThreadWebURL returns the address a browser would use for a thread.
func (c *Client) ThreadWebURL(id model.ThreadID) string {
	return fmt.Sprintf("%s/threads/%d", c.baseURL, id)
}

// ResolveRedirect turns a server-relative redirect target into an
// absolute URL against the client's base. Absolute targets pass
// through unchanged.
func (c *Client) ResolveRedirect(target string) string {
	parsed, err := url.Parse(target)
	if err != nil {
		return target
	}
	return c.baseURL.ResolveReference(parsed).String()
}

func (c *Client) endpoint(path string) string {
	return c.baseURL.String() + path
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), body)
	if err != nil {
		return nil, err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.http.Do(request)
}

// FetchPage retrieves one slice of the feed. Pages are zero-indexed;
// the server reports totalPages on every response.
func (c *Client) FetchPage(ctx context.Context, page int) (feedPage model.FeedPage, err error) {
	var response *http.Response
	if response, err = c.do(ctx, http.MethodGet, fmt.Sprintf("/api/threads?page=%d", page), nil); err != nil {
		return
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		err = fmt.Errorf("feed page %d: server returned %s", page, response.Status)
		return
	}
	err = json.NewDecoder(response.Body).Decode(&feedPage)
	return
}

// FetchThread retrieves a single thread, used to populate the edit
// form. The payload rides inside the envelope's data.thread.
func (c *Client) FetchThread(ctx context.Context, id model.ThreadID) (thread model.Thread, err error) {
	var env envelope
	if env, err = c.fetchEnvelope(ctx, fmt.Sprintf("/api/threads/%d", id)); err == nil {
		raw, ok := env.Data["thread"]
		if !ok {
			err = fmt.Errorf("thread %d: response has no thread payload", id)
		} else {
			err = json.Unmarshal(raw, &thread)
		}
	}
	return
}

// FetchTopics retrieves the topic list for the compose form, sorted by
// the server (name ascending).
func (c *Client) FetchTopics(ctx context.Context) (topics []model.Topic, err error) {
	var env envelope
	if env, err = c.fetchEnvelope(ctx, "/api/topics"); err == nil {
		raw, ok := env.Data["topics"]
		if !ok {
			err = fmt.Errorf("topics: response has no topics payload")
		} else {
			err = json.Unmarshal(raw, &topics)
		}
	}
	return
}

func (c *Client) fetchEnvelope(ctx context.Context, path string) (env envelope, err error) {
	var response *http.Response
	if response, err = c.do(ctx, http.MethodGet, path, nil); err != nil {
		return
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		err = fmt.Errorf("%s: server returned %s", path, response.Status)
		return
	}
	if err = json.NewDecoder(response.Body).Decode(&env); err != nil {
		return
	}
	if env.Status != "ok" {
		message := env.Message
		if message == "" {
			message = "request rejected"
		}
		err = fmt.Errorf("%s: %s", path, message)
	}
	return
}

// Submit sends one form's fields to the server and classifies whatever
// comes back. It never returns a transport error: every outcome,
// including a dead network, is a SubmissionResult the UI can dispatch
// on. Unnamed fields are dropped during serialization.
func (c *Client) Submit(ctx context.Context, method, path string, fields map[string]any) SubmissionResult {
	payload := make(map[string]any, len(fields))
	for name, value := range fields {
		if name == "" || value == nil {
			continue
		}
		payload[name] = value
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Classify(0, nil, err, c.msgs)
	}

	response, err := c.do(ctx, method, path, bytes.NewReader(body))
	if err != nil {
		return Classify(0, nil, err, c.msgs)
	}
	defer response.Body.Close()

	responseBody, err := io.ReadAll(response.Body)
	return Classify(response.StatusCode, responseBody, err, c.msgs)
}

// CreateThread submits a new thread.
func (c *Client) CreateThread(ctx context.Context, title, content string, topicID model.TopicID) SubmissionResult {
	return c.Submit(ctx, http.MethodPost, "/api/threads", map[string]any{
		"title":   title,
		"content": content,
		"topicId": int64(topicID),
	})
}

// UpdateThread submits changes to an existing thread.
func (c *Client) UpdateThread(ctx context.Context, id model.ThreadID, title, content string, topicID model.TopicID) SubmissionResult {
	return c.Submit(ctx, http.MethodPut, fmt.Sprintf("/api/threads/%d", id), map[string]any{
		"title":   title,
		"content": content,
		"topicId": int64(topicID),
	})
}
