package feedview

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/Trung-Hieu-Le/forum-cli/client"
	"github.com/Trung-Hieu-Le/forum-cli/messages"
	"github.com/Trung-Hieu-Le/forum-cli/model"
)

// fakeSource satisfies Source with canned responses and records every
// call the view makes.
type fakeSource struct {
	pages        map[int]model.FeedPage
	pageErr      error
	fetchCalls   []int
	topics       []model.Topic
	threads      map[model.ThreadID]model.Thread
	createResult client.SubmissionResult
	createCalls  int
	updateResult client.SubmissionResult
	updateCalls  int
}

func (s *fakeSource) FetchPage(_ context.Context, page int) (model.FeedPage, error) {
	s.fetchCalls = append(s.fetchCalls, page)
	if s.pageErr != nil {
		return model.FeedPage{}, s.pageErr
	}
	return s.pages[page], nil
}

func (s *fakeSource) FetchThread(_ context.Context, id model.ThreadID) (model.Thread, error) {
	thread, found := s.threads[id]
	if !found {
		return model.Thread{}, errors.New("no such thread")
	}
	return thread, nil
}

func (s *fakeSource) FetchTopics(context.Context) ([]model.Topic, error) {
	return s.topics, nil
}

func (s *fakeSource) CreateThread(context.Context, string, string, model.TopicID) client.SubmissionResult {
	s.createCalls++
	return s.createResult
}

func (s *fakeSource) UpdateThread(context.Context, model.ThreadID, string, string, model.TopicID) client.SubmissionResult {
	s.updateCalls++
	return s.updateResult
}

func (s *fakeSource) ResolveRedirect(target string) string {
	return "http://forum.test" + target
}

func (s *fakeSource) ThreadWebURL(id model.ThreadID) string {
	return fmt.Sprintf("http://forum.test/threads/%d", id)
}

func testPageContext() *model.PageContext {
	return &model.PageContext{
		Viewer:        model.Viewer{ID: 7, Username: "alice"},
		Messages:      messages.NewBundle(nil),
		ToastTimeout:  10 * time.Millisecond,
		ScrollMargin:  2,
		NavigateDelay: time.Millisecond,
	}
}

func feedOf(first, count int) []model.Thread {
	threads := make([]model.Thread, 0, count)
	for i := 0; i < count; i++ {
		threads = append(threads, model.Thread{
			ID:    model.ThreadID(first + i),
			Title: fmt.Sprintf("thread %d", first+i),
			User:  model.Author{ID: 99, Username: "bob"},
		})
	}
	return threads
}

// loadedModel builds a model with page 0 already applied, the way it
// looks after Init's fetch settles.
func loadedModel(t *testing.T, source *fakeSource) Model {
	t.Helper()
	m := NewModel(source, testPageContext(), nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})
	m = updated.(Model)

	command := m.Init()
	require.NotNil(t, command)
	updated, _ = m.Update(command())
	return updated.(Model)
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInitialLoadFillsFeed(t *testing.T) {
	source := &fakeSource{pages: map[int]model.FeedPage{
		0: {Content: feedOf(1, 5), TotalPages: 2},
	}}
	m := loadedModel(t, source)

	require.Equal(t, []int{0}, source.fetchCalls)
	require.Len(t, m.pager.Items(), 5)
	require.False(t, m.pager.Loading())
	require.Equal(t, 0, m.cursor)
}

func TestScrollNearBottomFetchesNextPage(t *testing.T) {
	source := &fakeSource{pages: map[int]model.FeedPage{
		0: {Content: feedOf(1, 5), TotalPages: 2},
		1: {Content: feedOf(6, 5), TotalPages: 2},
	}}
	m := loadedModel(t, source)

	// Move to within the scroll margin of the end.
	var command tea.Cmd
	for i := 0; i < 3; i++ {
		updated, c := m.Update(keyRune('j'))
		m = updated.(Model)
		command = c
	}
	require.NotNil(t, command)
	require.True(t, m.pager.Loading())

	updated, _ := m.Update(command())
	m = updated.(Model)
	require.Equal(t, []int{0, 1}, source.fetchCalls)
	require.Len(t, m.pager.Items(), 10)
	require.False(t, m.pager.Loading())
}

func TestNoSecondFetchWhileLoading(t *testing.T) {
	source := &fakeSource{pages: map[int]model.FeedPage{
		0: {Content: feedOf(1, 5), TotalPages: 3},
		1: {Content: feedOf(6, 5), TotalPages: 3},
	}}
	m := loadedModel(t, source)

	updated, first := m.Update(keyRune('G'))
	m = updated.(Model)
	require.NotNil(t, first)

	// Still loading: further cursor movement must not issue a fetch.
	updated, second := m.Update(keyRune('j'))
	m = updated.(Model)
	require.Nil(t, second)
	require.Equal(t, []int{0}, source.fetchCalls)
}

func TestReloadWhileFetchInFlightIsDeferred(t *testing.T) {
	source := &fakeSource{pages: map[int]model.FeedPage{
		0: {Content: feedOf(1, 5), TotalPages: 2},
		1: {Content: feedOf(6, 5), TotalPages: 2},
	}}
	m := loadedModel(t, source)

	updated, fetch := m.Update(keyRune('G'))
	m = updated.(Model)
	require.NotNil(t, fetch)

	// Reload lands mid-fetch: remembered, not issued.
	updated, reload := m.Update(keyRune('r'))
	m = updated.(Model)
	require.Nil(t, reload)

	// The in-flight fetch settles; the deferred reload starts now.
	updated, settled := m.Update(fetch())
	m = updated.(Model)
	require.Equal(t, []int{0, 1}, source.fetchCalls)
	require.True(t, m.pager.Loading())
	require.NotNil(t, settled)
}

func TestReloadAfterSettlementReplacesFeed(t *testing.T) {
	source := &fakeSource{pages: map[int]model.FeedPage{
		0: {Content: feedOf(1, 3), TotalPages: 1},
	}}
	m := loadedModel(t, source)

	updated, _ := m.Update(keyRune('j'))
	m = updated.(Model)
	require.Equal(t, 1, m.cursor)

	source.pages[0] = model.FeedPage{Content: feedOf(100, 4), TotalPages: 1}
	updated, command := m.Update(keyRune('r'))
	m = updated.(Model)
	require.NotNil(t, command)

	updated, _ = m.Update(command())
	m = updated.(Model)
	require.Len(t, m.pager.Items(), 4)
	require.Equal(t, model.ThreadID(100), m.pager.Items()[0].ID)
	require.Equal(t, 0, m.cursor)
}

func TestPageLoadFailureKeepsItemsAndToasts(t *testing.T) {
	source := &fakeSource{pages: map[int]model.FeedPage{
		0: {Content: feedOf(1, 5), TotalPages: 2},
	}}
	m := loadedModel(t, source)

	source.pageErr = errors.New("dial tcp: connection refused")
	updated, fetch := m.Update(keyRune('G'))
	m = updated.(Model)
	require.NotNil(t, fetch)

	updated, _ = m.Update(fetch())
	m = updated.(Model)
	require.False(t, m.pager.Loading())
	require.Len(t, m.pager.Items(), 5)
	require.Equal(t, 1, m.toasts.Len())

	toast := m.toasts.Entries()[0]
	require.Equal(t, model.SeverityError, toast.Severity)
	require.Equal(t, "Unable to load the post list", toast.Message)
	require.NotContains(t, toast.Message, "refused")
}

func composeOpen(t *testing.T, m Model) Model {
	t.Helper()
	updated, command := m.Update(keyRune('c'))
	m = updated.(Model)
	require.NotNil(t, command)
	updated, _ = m.Update(command())
	m = updated.(Model)
	require.NotNil(t, m.form)
	require.Equal(t, FocusForm, m.focus)
	return m
}

func TestSubmitEmptyFormSendsNothing(t *testing.T) {
	source := &fakeSource{
		pages:  map[int]model.FeedPage{0: {TotalPages: 1}},
		topics: []model.Topic{{ID: 1, Name: "general"}},
	}
	m := composeOpen(t, loadedModel(t, source))

	updated, command := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = updated.(Model)

	require.Equal(t, 0, source.createCalls)
	require.Nil(t, command) // No request, and error toasts have no expiry tick.
	require.Equal(t, "Please enter a post title", m.form.FieldError("title"))
	require.Equal(t, 1, m.toasts.Len())
	require.Equal(t, model.SeverityError, m.toasts.Entries()[0].Severity)
}

func TestSubmitWhileInFlightIsDropped(t *testing.T) {
	source := &fakeSource{
		pages:  map[int]model.FeedPage{0: {TotalPages: 1}},
		topics: []model.Topic{{ID: 1, Name: "general"}},
	}
	m := composeOpen(t, loadedModel(t, source))
	m.form.title.SetValue("A title")
	m.form.content.SetValue("Words")
	m.form.topicIndex = 0

	updated, first := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = updated.(Model)
	require.NotNil(t, first)
	require.True(t, m.form.Submitting())

	updated, second := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	m = updated.(Model)
	require.Nil(t, second)

	// Only the first submit reaches the source.
	require.IsType(t, submitDoneMsg{}, first())
	require.Equal(t, 1, source.createCalls)
}

func TestSubmitFieldErrorsReenableForm(t *testing.T) {
	source := &fakeSource{pages: map[int]model.FeedPage{0: {TotalPages: 1}},
		topics: []model.Topic{{ID: 1, Name: "general"}}}
	m := composeOpen(t, loadedModel(t, source))
	m.form.SetSubmitting(true)

	updated, _ := m.Update(submitDoneMsg{result: client.SubmissionResult{
		Kind:     client.ResultFieldErrors,
		Severity: model.SeverityError,
		Fields:   map[string]string{"title": "Title is taken"},
	}})
	m = updated.(Model)

	require.NotNil(t, m.form)
	require.False(t, m.form.Submitting())
	require.Equal(t, "Title is taken", m.form.FieldError("title"))
	require.Equal(t, 1, m.toasts.Len())
}

func TestSubmitSuccessWithoutRedirectReloadsFeed(t *testing.T) {
	source := &fakeSource{pages: map[int]model.FeedPage{0: {TotalPages: 1}},
		topics: []model.Topic{{ID: 1, Name: "general"}}}
	m := composeOpen(t, loadedModel(t, source))
	m.form.SetSubmitting(true)

	updated, _ := m.Update(submitDoneMsg{result: client.SubmissionResult{
		Kind:     client.ResultSuccess,
		Severity: model.SeveritySuccess,
		Message:  "Post created successfully",
	}})
	m = updated.(Model)

	require.Nil(t, m.form)
	require.Equal(t, FocusFeed, m.focus)
	require.True(t, m.pager.Loading()) // Reload from top underway.
	require.Equal(t, 1, m.toasts.Len())
	require.Equal(t, model.SeveritySuccess, m.toasts.Entries()[0].Severity)
}

func TestSubmitSuccessWithRedirectNavigatesAfterDelay(t *testing.T) {
	source := &fakeSource{pages: map[int]model.FeedPage{0: {TotalPages: 1}},
		topics: []model.Topic{{ID: 1, Name: "general"}}}
	m := composeOpen(t, loadedModel(t, source))

	var opened []string
	m.navigate = func(url string) error {
		opened = append(opened, url)
		return nil
	}

	updated, _ := m.Update(submitDoneMsg{result: client.SubmissionResult{
		Kind:        client.ResultSuccess,
		Severity:    model.SeveritySuccess,
		RedirectURL: "/threads/42",
	}})
	m = updated.(Model)

	// The toast is up but nothing opens until the delayed message.
	require.Empty(t, opened)
	require.Equal(t, 1, m.toasts.Len())
	require.False(t, m.pager.Loading()) // Redirect suppresses the reload.

	updated, _ = m.Update(navigateMsg{url: "http://forum.test/threads/42"})
	_ = updated.(Model)
	require.Equal(t, []string{"http://forum.test/threads/42"}, opened)
}

func TestToastExpiryDismissesExactly(t *testing.T) {
	source := &fakeSource{pages: map[int]model.FeedPage{0: {TotalPages: 1}}}
	m := loadedModel(t, source)

	first := m.toasts.Push(model.SeverityInfo, "one", time.Now())
	m.toasts.Push(model.SeverityInfo, "two", time.Now())

	updated, _ := m.Update(toastExpireMsg{id: first.ID})
	m = updated.(Model)
	require.Equal(t, 1, m.toasts.Len())
	require.Equal(t, "two", m.toasts.Entries()[0].Message)
}

func TestEditOnlyOffersOwnThreads(t *testing.T) {
	mine := model.Thread{ID: 1, Title: "mine", User: model.Author{ID: 7, Username: "alice"}}
	theirs := model.Thread{ID: 2, Title: "theirs", User: model.Author{ID: 99, Username: "bob"}}
	source := &fakeSource{
		pages:   map[int]model.FeedPage{0: {Content: []model.Thread{theirs, mine}, TotalPages: 1}},
		topics:  []model.Topic{{ID: 1, Name: "general"}},
		threads: map[model.ThreadID]model.Thread{1: mine, 2: theirs},
	}
	m := loadedModel(t, source)

	// Cursor on someone else's thread: edit is a no-op.
	updated, command := m.Update(keyRune('e'))
	m = updated.(Model)
	require.Nil(t, command)

	updated, _ = m.Update(keyRune('j'))
	m = updated.(Model)
	updated, command = m.Update(keyRune('e'))
	m = updated.(Model)
	require.NotNil(t, command)

	updated, _ = m.Update(command())
	m = updated.(Model)
	require.NotNil(t, m.form)
	require.Equal(t, FormEdit, m.form.Mode)
	require.Equal(t, model.ThreadID(1), m.form.ThreadID)
}
