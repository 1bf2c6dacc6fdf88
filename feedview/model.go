// Package feedview implements the interactive feed TUI: the
// incrementally-paginated thread list, the compose/edit form, and the
// transient notification stack. Built on bubbletea; the [Source]
// interface decouples the view from the network client so the model
// is testable with a fake.
package feedview

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/browser"

	"github.com/Trung-Hieu-Le/forum-cli/client"
	"github.com/Trung-Hieu-Le/forum-cli/messages"
	"github.com/Trung-Hieu-Le/forum-cli/model"
)

// Source is what the feed view needs from the forum server.
// *client.Client implements it; tests substitute a fake.
type Source interface {
	FetchPage(ctx context.Context, page int) (model.FeedPage, error)
	FetchThread(ctx context.Context, id model.ThreadID) (model.Thread, error)
	FetchTopics(ctx context.Context) ([]model.Topic, error)
	CreateThread(ctx context.Context, title, content string, topicID model.TopicID) client.SubmissionResult
	UpdateThread(ctx context.Context, id model.ThreadID, title, content string, topicID model.TopicID) client.SubmissionResult
	ResolveRedirect(target string) string
	ThreadWebURL(id model.ThreadID) string
}

// ReadMarker is the slice of the read-state store the view uses.
// May be absent (nil) when no local database is configured.
type ReadMarker interface {
	MarkRead(id model.ThreadID, when time.Time) error
	IsRead(id model.ThreadID) (bool, error)
}

// FocusRegion identifies where keyboard input routes.
type FocusRegion int

const (
	// FocusFeed means keys navigate the thread list.
	FocusFeed FocusRegion = iota
	// FocusForm means keys go to the compose/edit form.
	FocusForm
)

// Rough height of one rendered card, used to keep the cursor inside
// the window without measuring every card.
const cardEstimatedHeight = 8

// pageLoadedMsg delivers a settled page fetch, success or failure.
type pageLoadedMsg struct {
	requested int
	reload    bool
	page      model.FeedPage
	err       error
}

// composeReadyMsg delivers the topics (and, for edits, the thread
// body) needed to open the form.
type composeReadyMsg struct {
	topics     []model.Topic
	editThread *model.Thread
	err        error
}

// submitDoneMsg delivers the classified outcome of a form submission.
type submitDoneMsg struct {
	result client.SubmissionResult
	edit   bool
}

// toastExpireMsg fires when an auto-dismissing toast's timer runs out.
type toastExpireMsg struct {
	id int
}

// navigateMsg fires after the post-success delay, carrying the
// absolute URL to open.
type navigateMsg struct {
	url string
}

// Model is the top-level bubbletea model for the feed viewer.
type Model struct {
	source      Source
	pageContext *model.PageContext
	readState   ReadMarker
	theme       Theme
	keys        KeyMap

	// navigate opens a URL in the user's browser. Swappable in tests.
	navigate func(url string) error

	width  int
	height int
	ready  bool

	pager        Pager
	cursor       int
	scrollOffset int
	readCache    map[model.ThreadID]bool

	toasts ToastStack
	form   *ComposeForm
	focus  FocusRegion
}

// NewModel creates the feed viewer. readState may be nil. The pager
// starts in Loading: the initial page-0 fetch is issued by Init and
// nothing else may fetch until it settles.
func NewModel(source Source, pageContext *model.PageContext, readState ReadMarker) Model {
	m := Model{
		source:      source,
		pageContext: pageContext,
		readState:   readState,
		theme:       DefaultTheme,
		keys:        DefaultKeyMap,
		navigate:    browser.OpenURL,
		pager:       NewPager(),
		readCache:   make(map[model.ThreadID]bool),
	}
	m.pager.StartReload()
	return m
}

// Init implements tea.Model: the initial load is a reload-from-top of
// page 0, already granted by NewModel.
func (m Model) Init() tea.Cmd {
	return fetchPageCmd(m.source, 0, true)
}

func fetchPageCmd(source Source, page int, reload bool) tea.Cmd {
	return func() tea.Msg {
		feedPage, err := source.FetchPage(context.Background(), page)
		return pageLoadedMsg{requested: page, reload: reload, page: feedPage, err: err}
	}
}

func loadComposeCmd(source Source) tea.Cmd {
	return func() tea.Msg {
		topics, err := source.FetchTopics(context.Background())
		return composeReadyMsg{topics: topics, err: err}
	}
}

func loadEditCmd(source Source, id model.ThreadID) tea.Cmd {
	return func() tea.Msg {
		topics, err := source.FetchTopics(context.Background())
		if err != nil {
			return composeReadyMsg{err: err}
		}
		thread, err := source.FetchThread(context.Background(), id)
		if err != nil {
			return composeReadyMsg{err: err}
		}
		return composeReadyMsg{topics: topics, editThread: &thread}
	}
}

func submitCmd(source Source, form *ComposeForm) tea.Cmd {
	title, content, topicID := form.Values()
	mode, threadID := form.Mode, form.ThreadID
	return func() tea.Msg {
		if mode == FormEdit {
			return submitDoneMsg{result: source.UpdateThread(context.Background(), threadID, title, content, topicID), edit: true}
		}
		return submitDoneMsg{result: source.CreateThread(context.Background(), title, content, topicID)}
	}
}

// notify pushes a toast and, for auto-dismissing severities, returns
// the command that expires it.
func (m *Model) notify(severity model.Severity, message string) tea.Cmd {
	toast := m.toasts.Push(severity, message, time.Now())
	if !toast.AutoDismiss() {
		return nil
	}
	timeout := m.pageContext.ToastTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	id := toast.ID
	return tea.Tick(timeout, func(time.Time) tea.Msg {
		return toastExpireMsg{id: id}
	})
}

// reloadFromTop starts a full reload if the pager grants it. When a
// fetch is in flight the pager remembers the request instead.
func (m *Model) reloadFromTop() tea.Cmd {
	if m.pager.StartReload() {
		return fetchPageCmd(m.source, 0, true)
	}
	return nil
}

// maybeFetchNext issues the next page fetch when the cursor is near
// the bottom of the loaded list and the pager is idle with pages
// remaining.
func (m *Model) maybeFetchNext() tea.Cmd {
	margin := m.pageContext.ScrollMargin
	if margin <= 0 {
		margin = 1
	}
	if m.cursor < len(m.pager.Items())-margin {
		return nil
	}
	if page, ok := m.pager.StartNext(); ok {
		return fetchPageCmd(m.source, page, false)
	}
	return nil
}

func (m *Model) markSelectedRead() {
	items := m.pager.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return
	}
	id := items[m.cursor].ID
	if m.readCache[id] {
		return
	}
	m.readCache[id] = true
	if m.readState != nil {
		// Best effort: a read-state write failure never disturbs browsing.
		_ = m.readState.MarkRead(id, time.Now())
	}
}

func (m *Model) moveCursor(delta int) tea.Cmd {
	count := len(m.pager.Items())
	if count == 0 {
		return nil
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= count {
		m.cursor = count - 1
	}
	m.clampScroll()
	m.markSelectedRead()
	return m.maybeFetchNext()
}

func (m *Model) clampScroll() {
	maxVisible := m.visibleCards()
	if m.cursor < m.scrollOffset {
		m.scrollOffset = m.cursor
	}
	if m.cursor >= m.scrollOffset+maxVisible {
		m.scrollOffset = m.cursor - maxVisible + 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m *Model) visibleCards() int {
	usable := m.height - 4 - m.toasts.Len()*3
	cards := usable / cardEstimatedHeight
	if cards < 1 {
		cards = 1
	}
	return cards
}

// Update implements tea.Model.
func (m Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		m.width = message.Width
		m.height = message.Height
		m.ready = true
		if m.form != nil {
			m.form.SetSize(m.width, m.height)
		}
		return m, nil

	case tea.KeyMsg:
		if m.focus == FocusForm && m.form != nil {
			return m.handleFormKeys(message)
		}
		return m.handleFeedKeys(message)

	case pageLoadedMsg:
		return m.handlePageLoaded(message)

	case composeReadyMsg:
		return m.handleComposeReady(message)

	case submitDoneMsg:
		return m.handleSubmitDone(message)

	case toastExpireMsg:
		m.toasts.Dismiss(message.id)
		return m, nil

	case navigateMsg:
		if err := m.navigate(message.url); err != nil {
			return m, m.notify(model.SeverityError, m.pageContext.Messages.Get(messages.TransportFailure))
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleFeedKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	msgs := m.pageContext.Messages
	switch {
	case key.Matches(message, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(message, m.keys.Down):
		return m, m.moveCursor(1)

	case key.Matches(message, m.keys.Up):
		return m, m.moveCursor(-1)

	case key.Matches(message, m.keys.PageDown):
		return m, m.moveCursor(m.visibleCards())

	case key.Matches(message, m.keys.PageUp):
		return m, m.moveCursor(-m.visibleCards())

	case key.Matches(message, m.keys.Home):
		return m, m.moveCursor(-len(m.pager.Items()))

	case key.Matches(message, m.keys.End):
		return m, m.moveCursor(len(m.pager.Items()))

	case key.Matches(message, m.keys.Reload):
		return m, m.reloadFromTop()

	case key.Matches(message, m.keys.Dismiss):
		m.toasts.DismissNewest()
		return m, nil

	case key.Matches(message, m.keys.Compose):
		return m, loadComposeCmd(m.source)

	case key.Matches(message, m.keys.Edit):
		items := m.pager.Items()
		if m.cursor >= 0 && m.cursor < len(items) {
			thread := items[m.cursor]
			if thread.User.ID != 0 && thread.User.ID == m.pageContext.Viewer.ID {
				return m, loadEditCmd(m.source, thread.ID)
			}
		}
		return m, nil

	case key.Matches(message, m.keys.Open):
		items := m.pager.Items()
		if m.cursor >= 0 && m.cursor < len(items) {
			if err := m.navigate(m.source.ThreadWebURL(items[m.cursor].ID)); err != nil {
				return m, m.notify(model.SeverityError, msgs.Get(messages.TransportFailure))
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	msgs := m.pageContext.Messages
	switch {
	case key.Matches(message, m.keys.Cancel):
		m.form = nil
		m.focus = FocusFeed
		return m, nil

	case key.Matches(message, m.keys.NextField):
		m.form.FocusNext()
		return m, nil

	case key.Matches(message, m.keys.PrevField):
		m.form.FocusPrev()
		return m, nil

	case key.Matches(message, m.keys.Submit):
		// A submit while this form's request is outstanding is dropped.
		if m.form.Submitting() {
			return m, nil
		}
		if errors := m.form.Validate(msgs); len(errors) > 0 {
			// Rejected locally: field errors only, no network traffic.
			return m, m.notify(model.SeverityError, msgs.Get(messages.ValidationFailed))
		}
		m.form.SetSubmitting(true)
		return m, submitCmd(m.source, m.form)
	}
	return m, m.form.Update(message)
}

func (m Model) handlePageLoaded(message pageLoadedMsg) (tea.Model, tea.Cmd) {
	var commands []tea.Cmd

	if message.err != nil {
		// Failure settles back to Idle with the rendered items intact.
		m.pager.Fail()
		commands = append(commands, m.notify(model.SeverityError,
			m.pageContext.Messages.Get(messages.FeedLoadFailure)))
	} else if message.reload {
		m.pager.ApplyReload(message.page)
		m.cursor = 0
		m.scrollOffset = 0
		m.markSelectedRead()
	} else {
		m.pager.ApplyPage(message.requested, message.page)
	}

	// A reload requested mid-fetch runs now that the fetch settled.
	if m.pager.TakePendingReload() {
		if m.pager.StartReload() {
			commands = append(commands, fetchPageCmd(m.source, 0, true))
		}
	}
	return m, tea.Batch(commands...)
}

func (m Model) handleComposeReady(message composeReadyMsg) (tea.Model, tea.Cmd) {
	if message.err != nil {
		return m, m.notify(model.SeverityError,
			m.pageContext.Messages.Get(messages.PostErrorLoad))
	}
	if message.editThread != nil {
		m.form = NewEditForm(*message.editThread, message.topics)
	} else {
		m.form = NewComposeForm(message.topics)
	}
	if m.ready {
		m.form.SetSize(m.width, m.height)
	}
	m.focus = FocusForm
	return m, nil
}

func (m Model) handleSubmitDone(message submitDoneMsg) (tea.Model, tea.Cmd) {
	msgs := m.pageContext.Messages

	// The form re-enables unconditionally, whatever the outcome.
	if m.form != nil {
		m.form.SetSubmitting(false)
	}

	result := message.result
	switch result.Kind {
	case client.ResultFieldErrors:
		if m.form != nil {
			m.form.SetFieldErrors(result.Fields)
		}
		toastMessage := result.Message
		if toastMessage == "" {
			toastMessage = msgs.Get(messages.ValidationFailed)
		}
		return m, m.notify(result.Severity, toastMessage)

	case client.ResultFailure:
		toastMessage := result.Message
		if toastMessage == "" {
			toastMessage = msgs.Get(messages.TransportFailure)
		}
		return m, m.notify(model.SeverityError, toastMessage)
	}

	// Success. Toast first, then either navigate after the read delay
	// or refresh the feed in place.
	toastMessage := result.Message
	if toastMessage == "" {
		if message.edit {
			toastMessage = msgs.Get(messages.PostUpdateSuccess)
		} else {
			toastMessage = msgs.Get(messages.PostSuccess)
		}
	}
	commands := []tea.Cmd{m.notify(model.SeveritySuccess, toastMessage)}

	m.form = nil
	m.focus = FocusFeed

	if result.RedirectURL != "" {
		target := m.source.ResolveRedirect(result.RedirectURL)
		delay := m.pageContext.NavigateDelay
		if delay <= 0 {
			delay = 800 * time.Millisecond
		}
		commands = append(commands, tea.Tick(delay, func(time.Time) tea.Msg {
			return navigateMsg{url: target}
		}))
	} else if command := m.reloadFromTop(); command != nil {
		commands = append(commands, command)
	}
	return m, tea.Batch(commands...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}
	msgs := m.pageContext.Messages

	sections := []string{m.headerView()}
	if toasts := renderToasts(&m.toasts, m.theme, m.width); toasts != "" {
		sections = append(sections, toasts)
	}

	if m.form != nil {
		sections = append(sections, m.form.View(m.theme, msgs, m.width))
	} else {
		sections = append(sections, m.feedView())
	}

	sections = append(sections, m.helpView())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) headerView() string {
	title := lipgloss.NewStyle().Foreground(m.theme.TitleText).Bold(true).Render("forum")
	status := ""
	if m.pager.TotalPages() >= 0 {
		status = fmt.Sprintf(" page %d/%d", m.pager.Page()+1, m.pager.TotalPages())
	}
	if m.pager.Loading() {
		status += " · loading…"
	}
	return title + lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(status)
}

func (m Model) feedView() string {
	msgs := m.pageContext.Messages
	items := m.pager.Items()

	if m.pager.Empty() {
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).Padding(1, 2).
			Render(msgs.Get(messages.PostEmpty))
	}

	end := m.scrollOffset + m.visibleCards()
	if end > len(items) {
		end = len(items)
	}
	cards := make([]string, 0, end-m.scrollOffset)
	for index := m.scrollOffset; index < end; index++ {
		thread := items[index]
		cards = append(cards, RenderThread(
			thread, m.theme, msgs, m.pageContext.Viewer, m.width,
			index == m.cursor, !m.isRead(thread.ID)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func (m Model) isRead(id model.ThreadID) bool {
	if m.readCache[id] {
		return true
	}
	if m.readState == nil {
		return true // No store: don't mark everything unread.
	}
	read, err := m.readState.IsRead(id)
	return err == nil && read
}

func (m Model) helpView() string {
	help := "j/k move · c new post · e edit · r reload · o open · x dismiss · q quit"
	if m.form != nil {
		help = "Tab fields · C-s submit · Esc cancel"
	}
	return lipgloss.NewStyle().Foreground(m.theme.HelpText).Render(help)
}
