package tui

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/mapping-lia/internal/api"
	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/review"
	"github.com/Veraticus/mapping-lia/internal/session"
	"github.com/Veraticus/mapping-lia/internal/tui/components"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reviewCall struct {
	ID     model.ID
	Action api.Action
	Notes  string
}

type fakeBackend struct {
	data    map[model.ReviewStatus][]model.Competence
	fetches []model.ReviewStatus
	reviews []reviewCall
	mu      sync.Mutex
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		data: map[model.ReviewStatus][]model.Competence{
			model.StatusPendingReview: {
				{CompetenceID: "1", Name: "Go", AreaName: "IT"},
				{CompetenceID: "2", Name: "Rust", AreaName: "IT"},
			},
			model.StatusApproved: {
				{CompetenceID: "7", Name: "Python", AreaName: "IT", ReviewNotes: "fine"},
			},
		},
	}
}

func (f *fakeBackend) FetchAll(_ context.Context, status model.ReviewStatus, _ api.PageFunc) ([]model.Competence, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches = append(f.fetches, status)
	return append([]model.Competence(nil), f.data[status]...), nil
}

func (f *fakeBackend) Review(_ context.Context, id model.ID, action api.Action, notes string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reviews = append(f.reviews, reviewCall{ID: id, Action: action, Notes: notes})
	return nil
}

func (f *fakeBackend) UpdateCategorization(context.Context, model.ID, api.Categorization) error {
	return nil
}

func (f *fakeBackend) GetMetadata(context.Context) (model.Metadata, error) {
	return model.Metadata{}, nil
}

type fakeAuth struct {
	err error
}

func (f fakeAuth) Login(_ context.Context, username, _ string) (model.Session, error) {
	if f.err != nil {
		return model.Session{}, f.err
	}
	return model.Session{Token: "tok", Username: username}, nil
}

type fakeMapper struct {
	batch model.BatchMapping
	err   error
	lines []string
}

func (f *fakeMapper) MapLines(_ context.Context, lines []string) (model.BatchMapping, error) {
	f.lines = lines
	return f.batch, f.err
}

type fakeSessions struct {
	state   session.State
	logouts int
}

func (f *fakeSessions) State() session.State { return f.state }

func (f *fakeSessions) Login(_ context.Context, s model.Session) error {
	f.state = session.State{Username: s.Username, IsAuthenticated: true}
	return nil
}

func (f *fakeSessions) Logout(context.Context) error {
	f.logouts++
	f.state = session.State{}
	return nil
}

type harness struct {
	backend  *fakeBackend
	mapper   *fakeMapper
	sessions *fakeSessions
	queue    *feedback.Queue
	list     *review.List
}

func newHarness(authenticated bool) *harness {
	h := &harness{
		backend:  newFakeBackend(),
		mapper:   &fakeMapper{},
		sessions: &fakeSessions{},
		queue:    &feedback.Queue{},
	}
	if authenticated {
		h.sessions.state = session.State{Username: "alice", IsAuthenticated: true}
	}
	h.list = review.NewList(h.backend, h.queue)
	return h
}

func (h *harness) model(t *testing.T, auth Authenticator) Model {
	t.Helper()
	if auth == nil {
		auth = fakeAuth{}
	}
	m, err := NewModel(context.Background(), Config{
		Auth:          auth,
		Mapper:        h.mapper,
		Sessions:      h.sessions,
		List:          h.list,
		Notifications: h.queue,
	})
	require.NoError(t, err)
	return m
}

// exec runs cmd and gives up on commands that wait, such as cursor blinks.
func exec(cmd tea.Cmd) tea.Msg {
	out := make(chan tea.Msg, 1)
	go func() { out <- cmd() }()
	select {
	case msg := <-out:
		return msg
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// send feeds msg to the model and runs the returned command, feeding its
// result back when it is a message the console handles.
func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	if cmd == nil {
		return m
	}
	switch out := exec(cmd).(type) {
	case loginResultMsg, reloadedMsg, mutationDoneMsg, metadataLoadedMsg, mapResultMsg, loggedOutMsg,
		components.LoginSubmittedMsg, components.NotesSubmittedMsg, components.ModalClosedMsg,
		components.MapSubmittedMsg, components.CategorizationSubmittedMsg:
		return send(t, m, out)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func loaded(t *testing.T, h *harness) Model {
	t.Helper()
	m := h.model(t, nil)
	require.NoError(t, h.list.Reload(context.Background()))
	m = send(t, m, reloadedMsg{})
	h.queue.Drain()
	return m
}

func TestNewModel_RequiresDependencies(t *testing.T) {
	_, err := NewModel(context.Background(), Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authenticator")
}

func TestNewModel_StartScreen(t *testing.T) {
	tests := []struct {
		name          string
		authenticated bool
		want          Screen
	}{
		{name: "logged out", authenticated: false, want: ScreenLogin},
		{name: "logged in", authenticated: true, want: ScreenReview},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newHarness(tt.authenticated).model(t, nil)
			assert.Equal(t, tt.want, m.Screen())
		})
	}
}

func TestModel_LoginSuccess(t *testing.T) {
	h := newHarness(false)
	m := h.model(t, nil)

	m = send(t, m, runes("alice"))
	m = send(t, m, keyOf(tea.KeyTab))
	m = send(t, m, runes("secret"))
	m = send(t, m, keyOf(tea.KeyEnter))

	assert.Equal(t, ScreenReview, m.Screen())
	assert.Equal(t, "alice", m.username)
	assert.True(t, h.sessions.state.IsAuthenticated)
	assert.Equal(t, []feedback.Toast{{Text: feedback.LoginSucceeded, Level: feedback.LevelSuccess}}, h.queue.Drain())
	assert.Equal(t, []model.ReviewStatus{model.StatusPendingReview}, h.backend.fetches)
	assert.Len(t, m.view.Page.Items, 2)
}

func TestModel_LoginFailure(t *testing.T) {
	h := newHarness(false)
	m := h.model(t, fakeAuth{err: errors.New("boom")})

	m = send(t, m, runes("alice"))
	m = send(t, m, keyOf(tea.KeyTab))
	m = send(t, m, runes("wrong"))
	m = send(t, m, keyOf(tea.KeyEnter))

	assert.Equal(t, ScreenLogin, m.Screen())
	assert.False(t, m.loginForm.Submitting())
	assert.False(t, h.sessions.state.IsAuthenticated)
	assert.Equal(t, []feedback.Toast{{Text: feedback.LoginFailed, Level: feedback.LevelError}}, h.queue.Drain())
}

func TestModel_RejectOpensNotes(t *testing.T) {
	h := newHarness(true)
	m := loaded(t, h)

	m = send(t, m, runes("r"))
	require.Equal(t, ModeNotes, m.Mode())
	require.NotNil(t, m.notes)
	assert.Empty(t, h.backend.reviews)

	// Empty notes are refused inside the modal.
	m = send(t, m, keyOf(tea.KeyCtrlS))
	assert.Equal(t, ModeNotes, m.Mode())
	assert.Equal(t, components.NotesRequiredMessage, m.notes.Err())

	m.notes.SetValue("too generic")
	m = send(t, m, keyOf(tea.KeyCtrlS))

	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Nil(t, m.notes)
	assert.Equal(t, []reviewCall{{ID: "1", Action: api.ActionReject, Notes: "too generic"}}, h.backend.reviews)
}

func TestModel_BulkApproveUsesDefaultNotes(t *testing.T) {
	h := newHarness(true)
	m := loaded(t, h)

	m = send(t, m, keyOf(tea.KeyCtrlA))
	assert.Equal(t, 2, m.view.Selected.Len())

	m = send(t, m, runes("a"))

	assert.ElementsMatch(t, []reviewCall{
		{ID: "1", Action: api.ActionApprove, Notes: review.DefaultApproveNotes},
		{ID: "2", Action: api.ActionApprove, Notes: review.DefaultApproveNotes},
	}, h.backend.reviews)
	assert.Zero(t, m.view.Selected.Len())
}

func TestModel_ReviewOnlyOnPendingTab(t *testing.T) {
	h := newHarness(true)
	m := loaded(t, h)

	m = send(t, m, keyOf(tea.KeyTab))
	require.Equal(t, review.TabApproved, m.view.Tab)
	assert.Len(t, m.view.Page.Items, 1)

	m = send(t, m, runes("a"))
	assert.Empty(t, h.backend.reviews)
	assert.Equal(t, ModeBrowse, m.Mode())
}

func TestModel_NoSelection(t *testing.T) {
	h := newHarness(true)
	h.backend.data[model.StatusPendingReview] = nil
	m := loaded(t, h)

	m = send(t, m, runes("o"))

	assert.Empty(t, h.backend.reviews)
	assert.Equal(t, []feedback.Toast{{Text: NoSelectionMessage, Level: feedback.LevelInfo}}, h.queue.Drain())
}

func TestModel_CursorAndSelection(t *testing.T) {
	h := newHarness(true)
	m := loaded(t, h)

	m = send(t, m, runes("j"))
	m = send(t, m, runes("j"))
	assert.Equal(t, 1, m.cursor)

	m = send(t, m, runes("x"))
	assert.True(t, m.view.Selected.Has("2"))

	m = send(t, m, keyOf(tea.KeyCtrlD))
	assert.Zero(t, m.view.Selected.Len())
}

func TestModel_Search(t *testing.T) {
	h := newHarness(true)
	m := loaded(t, h)

	m = send(t, m, runes("/"))
	require.Equal(t, ModeSearch, m.Mode())
	m = send(t, m, runes("rus"))
	assert.Equal(t, "rus", m.view.Filter.Search)
	assert.Len(t, m.view.Page.Items, 1)

	m = send(t, m, keyOf(tea.KeyEsc))
	assert.Equal(t, ModeBrowse, m.Mode())
	assert.Empty(t, m.view.Filter.Search)
	assert.Len(t, m.view.Page.Items, 2)
}

func TestModel_NavigateLogin(t *testing.T) {
	h := newHarness(true)
	m := loaded(t, h)
	m.nav = NewNavigator()
	m.nav.setOnLogin(false)

	m = send(t, m, navigateLoginMsg{})

	assert.Equal(t, ScreenLogin, m.Screen())
	assert.Empty(t, m.username)
	assert.True(t, m.nav.OnLogin())
}

func TestModel_Logout(t *testing.T) {
	h := newHarness(true)
	m := loaded(t, h)

	m = send(t, m, runes("L"))

	assert.Equal(t, 1, h.sessions.logouts)
	assert.Equal(t, ScreenLogin, m.Screen())
}

func TestModel_MapResults(t *testing.T) {
	tests := []struct {
		name  string
		batch model.BatchMapping
		err   error
		want  feedback.Toast
	}{
		{
			name:  "all mapped",
			batch: model.BatchMapping{Results: []model.MappingResult{{Input: "Go"}, {Input: "C#"}}},
			want:  feedback.Toast{Text: "2 competences mapped successfully", Level: feedback.LevelSuccess},
		},
		{
			name: "partial",
			batch: model.BatchMapping{
				Results: []model.MappingResult{{Input: "Go"}},
				Errors:  []string{"x: failed"},
			},
			want: feedback.Toast{Text: "1 competences mapped successfully, but 1 failed", Level: feedback.LevelSuccess},
		},
		{
			name:  "nothing mapped",
			batch: model.BatchMapping{Errors: []string{"x: failed", "y: failed"}},
			want:  feedback.Toast{Text: "2 competences failed to map", Level: feedback.LevelError},
		},
		{
			name: "request failed",
			err:  errors.New("boom"),
			want: feedback.Toast{Text: feedback.Message(errors.New("boom")), Level: feedback.LevelError},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(true)
			h.mapper.batch, h.mapper.err = tt.batch, tt.err
			m := loaded(t, h)

			m = send(t, m, runes("m"))
			require.Equal(t, ScreenMap, m.Screen())
			m = send(t, m, runes("Go"))
			m = send(t, m, keyOf(tea.KeyCtrlS))

			assert.Equal(t, []string{"Go"}, h.mapper.lines)
			assert.False(t, m.mapper.Loading())
			assert.Equal(t, []feedback.Toast{tt.want}, h.queue.Drain())

			m = send(t, m, keyOf(tea.KeyEsc))
			assert.Equal(t, ScreenReview, m.Screen())
		})
	}
}

func TestModel_TickDrainsQueue(t *testing.T) {
	h := newHarness(true)
	m := loaded(t, h)
	h.queue.Success("saved")
	h.queue.Error("failed")

	now := time.Now()
	next, cmd := m.Update(tickMsg(now))
	m = next.(Model)

	assert.NotNil(t, cmd)
	assert.Zero(t, h.queue.Len())
	assert.Equal(t, 2, m.toasts.Len())
	assert.Contains(t, m.View(), "saved")

	next, _ = m.Update(tickMsg(now.Add(components.SuccessToastTTL)))
	m = next.(Model)
	assert.Equal(t, 1, m.toasts.Len())

	next, _ = m.Update(tickMsg(now.Add(components.ErrorToastTTL)))
	m = next.(Model)
	assert.Zero(t, m.toasts.Len())
}

func TestModel_ViewByScreen(t *testing.T) {
	h := newHarness(true)
	m := loaded(t, h)

	out := m.View()
	assert.Contains(t, out, "PENDING")
	assert.Contains(t, out, "Rust")
	assert.Contains(t, out, "Page 1 of 1")

	m = send(t, m, keyOf(tea.KeyTab))
	out = m.View()
	assert.Contains(t, out, "Review Notes")
	assert.Contains(t, out, "Python")

	m = send(t, m, navigateLoginMsg{})
	assert.Contains(t, m.View(), "Login")
}

func TestNextPageSize(t *testing.T) {
	tests := []struct {
		current int
		want    int
	}{
		{current: 5, want: 10},
		{current: 50, want: 100},
		{current: 100, want: 5},
		{current: 7, want: 5},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, nextPageSize(tt.current))
	}
}
