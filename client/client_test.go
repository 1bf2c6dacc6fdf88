package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Trung-Hieu-Le/forum-cli/model"
)

func TestNewClientRejectsBareHost(t *testing.T) {
	_, err := NewClient("not-a-url", "", testBundle())
	require.Error(t, err)
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	c, err := NewClient("https://forum.example.com/", "", testBundle())
	require.NoError(t, err)
	require.Equal(t, "https://forum.example.com/threads/7", c.ThreadWebURL(model.ThreadID(7)))
}

func TestResolveRedirect(t *testing.T) {
	c, err := NewClient("https://forum.example.com", "", testBundle())
	require.NoError(t, err)
	require.Equal(t, "https://forum.example.com/login", c.ResolveRedirect("/login"))
	require.Equal(t, "https://other.example.com/x", c.ResolveRedirect("https://other.example.com/x"))
}

func TestFetchPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/threads", r.URL.Path)
		require.Equal(t, "1", r.URL.Query().Get("page"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"content": [
				{"id": 10, "title": "First", "content": "<p>hi</p>",
				 "topic": {"id": 5, "name": "general"},
				 "user": {"id": 3, "username": "ben", "avatar": "a.png"},
				 "createdAt": "2026-08-30T10:11:12"}
			],
			"totalPages": 4
		}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "", testBundle())
	require.NoError(t, err)

	page, err := c.FetchPage(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 4, page.TotalPages)
	require.Len(t, page.Content, 1)
	require.Equal(t, model.ThreadID(10), page.Content[0].ID)
	require.Equal(t, "general", page.Content[0].Topic.Name)
	require.Equal(t, "ben", page.Content[0].User.Username)
	require.Equal(t, 2026, page.Content[0].CreatedAt.Year())
}

func TestFetchPageServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "", testBundle())
	require.NoError(t, err)

	_, err = c.FetchPage(context.Background(), 0)
	require.Error(t, err)
}

func TestFetchThread(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/threads/42", r.URL.Path)
		w.Write([]byte(`{"status":"ok","type":"success","data":{"thread":
			{"id":42,"title":"Hello","content":"<p>body</p>",
			 "topic":{"id":1,"name":"general"},
			 "user":{"id":9,"username":"zoe"},
			 "createdAt":"2026-08-30T10:11:12Z"}}}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "", testBundle())
	require.NoError(t, err)

	thread, err := c.FetchThread(context.Background(), model.ThreadID(42))
	require.NoError(t, err)
	require.Equal(t, "Hello", thread.Title)
	require.Equal(t, model.UserID(9), thread.User.ID)
}

func TestFetchTopics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/topics", r.URL.Path)
		w.Write([]byte(`{"status":"ok","type":"success","data":{"topics":
			[{"id":1,"name":"general"},{"id":2,"name":"help"}]}}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "", testBundle())
	require.NoError(t, err)

	topics, err := c.FetchTopics(context.Background())
	require.NoError(t, err)
	require.Len(t, topics, 2)
	require.Equal(t, "help", topics[1].Name)
}

func TestSubmitSerialization(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.Equal(t, "Bearer sekrit", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"status":"ok","type":"success","message":"created"}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "sekrit", testBundle())
	require.NoError(t, err)

	result := c.CreateThread(context.Background(), "Hi", "<p>body</p>", model.TopicID(5))
	require.Equal(t, ResultSuccess, result.Kind)
	require.Equal(t, "created", result.Message)

	require.Equal(t, "Hi", received["title"])
	require.Equal(t, "<p>body</p>", received["content"])
	// topicId travels as a number, the way the server's DTO expects.
	require.Equal(t, float64(5), received["topicId"])
}

func TestSubmitDropsUnnamedFields(t *testing.T) {
	var received map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Write([]byte(`{"status":"ok","type":"success","message":"ok"}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "", testBundle())
	require.NoError(t, err)

	result := c.Submit(context.Background(), http.MethodPost, "/api/threads", map[string]any{
		"":      "dropped",
		"title": "kept",
		"nil":   nil,
	})
	require.Equal(t, ResultSuccess, result.Kind)
	require.Equal(t, map[string]any{"title": "kept"}, received)
}

func TestSubmitUpdateUsesPut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/threads/42", r.URL.Path)
		w.Write([]byte(`{"status":"ok","type":"success","message":"updated"}`))
	}))
	defer server.Close()

	c, err := NewClient(server.URL, "", testBundle())
	require.NoError(t, err)

	result := c.UpdateThread(context.Background(), model.ThreadID(42), "T", "B", model.TopicID(1))
	require.Equal(t, ResultSuccess, result.Kind)
}

func TestSubmitDeadServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Shut down before use.

	c, err := NewClient(server.URL, "", testBundle())
	require.NoError(t, err)

	result := c.CreateThread(context.Background(), "T", "B", model.TopicID(1))
	require.Equal(t, ResultFailure, result.Kind)
	require.NotContains(t, result.Message, "refused")
}
