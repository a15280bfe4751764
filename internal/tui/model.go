package tui

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/Veraticus/mapping-lia/internal/api"
	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/review"
	"github.com/Veraticus/mapping-lia/internal/tui/components"
	"github.com/Veraticus/mapping-lia/internal/tui/themes"
	"github.com/Veraticus/mapping-lia/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// NoSelectionMessage is shown when an action has nothing to act on.
const NoSelectionMessage = "No competences selected"

// Model holds the console state.
type Model struct {
	ctx        context.Context
	theme      themes.Theme
	nav        *Navigator
	notes      *components.NotesModel
	categorize *components.CategorizeModel
	view       review.View
	help       help.Model
	config     Config
	username   string
	loginForm  components.LoginModel
	mapper     components.MapperModel
	toasts     components.ToastsModel
	search     textinput.Model
	keymap     KeyMap
	screen     Screen
	mode       Mode
	cursor     int
	width      int
	height     int
	showHelp   bool
	quitting   bool
}

// NewModel creates the console model. Zero config values take their defaults.
func NewModel(ctx context.Context, cfg Config, opts ...Option) (Model, error) {
	def := defaultConfig()
	if cfg.Logger == nil {
		cfg.Logger = def.Logger
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		cfg.Width, cfg.Height = def.Width, def.Height
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = def.RequestTimeout
	}
	if cfg.MaxToasts <= 0 {
		cfg.MaxToasts = def.MaxToasts
	}
	if cfg.Theme.Primary == "" {
		cfg.Theme = def.Theme
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	switch {
	case cfg.Auth == nil:
		return Model{}, errors.New("console: authenticator is required")
	case cfg.Mapper == nil:
		return Model{}, errors.New("console: mapper is required")
	case cfg.Sessions == nil:
		return Model{}, errors.New("console: session store is required")
	case cfg.List == nil:
		return Model{}, errors.New("console: review list is required")
	case cfg.Notifications == nil:
		return Model{}, errors.New("console: notification queue is required")
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search competences"
	search.CharLimit = 100

	m := Model{
		ctx:       ctx,
		config:    cfg,
		theme:     cfg.Theme,
		keymap:    DefaultKeyMap(),
		help:      help.New(),
		loginForm: components.NewLoginModel(cfg.Theme),
		mapper:    components.NewMapperModel(cfg.Theme),
		toasts:    components.NewToastsModel(cfg.Theme, cfg.MaxToasts),
		search:    search,
		width:     cfg.Width,
		height:    cfg.Height,
		view:      cfg.List.View(),
	}

	st := cfg.Sessions.State()
	if st.IsAuthenticated {
		m.screen = ScreenReview
		m.username = st.Username
	}
	m.resize()
	return m, nil
}

// Screen returns the active screen.
func (m Model) Screen() Screen {
	return m.screen
}

// Mode returns the review screen mode.
func (m Model) Mode() Mode {
	return m.mode
}

// Init starts the toast ticker and loads the review list when already logged in.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tick()}
	if m.screen == ScreenReview {
		cmds = append(cmds, m.reload())
	} else {
		cmds = append(cmds, m.loginForm.Init())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m, cmd := m.update(msg)
	m.view = m.config.List.View()
	m.clampCursor()
	m.nav.setOnLogin(m.screen == ScreenLogin)
	return m, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		m.toasts = m.toasts.Push(now, m.config.Notifications.Drain()...).Expire(now)
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case navigateLoginMsg:
		m.toLogin()
		return m, m.loginForm.Init()

	case components.LoginSubmittedMsg:
		return m, m.login(msg.Username, msg.Password)

	case loginResultMsg:
		if msg.err != nil {
			m.config.Logger.Debug("Login failed", "error", msg.err)
			m.loginForm = m.loginForm.Failed()
			m.config.Notifications.Error(feedback.LoginMessage(msg.err))
			return m, nil
		}
		m.config.Notifications.Success(feedback.LoginSucceeded)
		m.username = msg.session.Username
		m.screen = ScreenReview
		m.mode = ModeBrowse
		return m, m.reload()

	case loggedOutMsg:
		if msg.err != nil {
			m.config.Logger.Warn("Failed to clear session", "error", msg.err)
		}
		m.toLogin()
		return m, m.loginForm.Init()

	case reloadedMsg:
		if msg.err != nil {
			m.config.Logger.Debug("Review load failed", "error", msg.err)
		}
		return m, nil

	case mutationDoneMsg:
		if msg.err != nil {
			m.config.Logger.Debug("Review action failed", "error", msg.err)
		}
		return m, nil

	case metadataLoadedMsg:
		if msg.err != nil {
			return m, nil
		}
		modal := components.NewCategorizeModel(msg.competence, msg.metadata, m.theme)
		m.categorize = &modal
		m.mode = ModeCategorize
		return m, nil

	case components.NotesSubmittedMsg:
		m.closeModals()
		return m, m.review(msg.Action, msg.IDs, msg.Notes)

	case components.CategorizationSubmittedMsg:
		m.closeModals()
		return m, m.recategorize(msg.ID, msg.Draft)

	case components.ModalClosedMsg:
		m.closeModals()
		return m, nil

	case components.MapSubmittedMsg:
		return m, m.mapLines(msg.Lines)

	case mapResultMsg:
		return m.handleMapResult(msg), nil
	}

	return m.forward(msg)
}

// forward hands non-key messages such as cursor blinks to the focused input.
func (m Model) forward(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.screen == ScreenLogin:
		m.loginForm, cmd = m.loginForm.Update(msg)
	case m.screen == ScreenMap:
		m.mapper, cmd = m.mapper.Update(msg)
	case m.mode == ModeNotes && m.notes != nil:
		var notes components.NotesModel
		notes, cmd = m.notes.Update(msg)
		m.notes = &notes
	case m.mode == ModeSearch:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keymap.ForceQuit) {
		m.quitting = true
		return m, tea.Quit
	}

	switch m.screen {
	case ScreenLogin:
		var cmd tea.Cmd
		m.loginForm, cmd = m.loginForm.Update(msg)
		return m, cmd

	case ScreenMap:
		if key.Matches(msg, m.keymap.Review) {
			m.screen = ScreenReview
			return m, nil
		}
		var cmd tea.Cmd
		m.mapper, cmd = m.mapper.Update(msg)
		return m, cmd
	}

	switch m.mode {
	case ModeNotes:
		if m.notes == nil {
			m.mode = ModeBrowse
			return m, nil
		}
		notes, cmd := m.notes.Update(msg)
		m.notes = &notes
		return m, cmd

	case ModeCategorize:
		if m.categorize == nil {
			m.mode = ModeBrowse
			return m, nil
		}
		modal, cmd := m.categorize.Update(msg)
		m.categorize = &modal
		return m, cmd

	case ModeSearch:
		return m.handleSearchKey(msg)
	}

	return m.handleBrowseKey(msg)
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.search.Blur()
		m.mode = ModeBrowse
		return m, nil
	case "esc":
		m.search.SetValue("")
		m.search.Blur()
		m.config.List.SetSearch("")
		m.mode = ModeBrowse
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.config.List.SetSearch(m.search.Value())
	m.cursor = 0
	return m, cmd
}

func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	list := m.config.List
	v := list.View()
	km := m.keymap

	switch {
	case key.Matches(msg, km.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, km.Help):
		m.showHelp = !m.showHelp
	case key.Matches(msg, km.Map):
		m.screen = ScreenMap
		return m, m.mapper.Init()
	case key.Matches(msg, km.Logout):
		return m, m.logout()
	case key.Matches(msg, km.Refresh):
		return m, m.reload()

	case key.Matches(msg, km.NextTab):
		m.cursor = 0
		return m, m.switchTab(v.Tab.Next())
	case key.Matches(msg, km.Up):
		m.cursor = max(m.cursor-1, 0)
	case key.Matches(msg, km.Down):
		m.cursor = min(m.cursor+1, max(len(v.Page.Items)-1, 0))
	case key.Matches(msg, km.PrevPage):
		list.PrevPage()
		m.cursor = 0
	case key.Matches(msg, km.NextPage):
		list.NextPage()
		m.cursor = 0
	case key.Matches(msg, km.PageSize):
		list.SetPageSize(m.ctx, nextPageSize(v.Page.Size))
		m.cursor = 0

	case key.Matches(msg, km.SortName):
		list.ToggleSort(m.ctx, review.SortName)
	case key.Matches(msg, km.SortArea):
		list.ToggleSort(m.ctx, review.SortArea)
	case key.Matches(msg, km.SortConfidence):
		list.ToggleSort(m.ctx, review.SortConfidence)
	case key.Matches(msg, km.SortCreated):
		list.ToggleSort(m.ctx, review.SortCreatedAt)

	case key.Matches(msg, km.Search):
		m.mode = ModeSearch
		return m, m.search.Focus()
	case key.Matches(msg, km.FilterArea):
		f := v.Filter
		f.Area = review.Cycle(v.Options.Areas, f.Area)
		f.Category, f.Subcategory = "", ""
		list.SetFilter(f)
		m.cursor = 0
	case key.Matches(msg, km.FilterCategory):
		f := v.Filter
		f.Category = review.Cycle(v.Options.Categories, f.Category)
		f.Subcategory = ""
		list.SetFilter(f)
		m.cursor = 0
	case key.Matches(msg, km.FilterSub):
		f := v.Filter
		f.Subcategory = review.Cycle(v.Options.Subcategories, f.Subcategory)
		list.SetFilter(f)
		m.cursor = 0
	case key.Matches(msg, km.FilterType):
		f := v.Filter
		f.MatchedType = review.Cycle(v.Options.MatchedTypes, f.MatchedType)
		list.SetFilter(f)
		m.cursor = 0
	case key.Matches(msg, km.ClearFilters):
		list.ClearFilters()
		m.search.SetValue("")
		m.cursor = 0

	case key.Matches(msg, km.ToggleSelect):
		if c, ok := m.focused(v); ok {
			list.ToggleSelected(c.CompetenceID)
		}
	case key.Matches(msg, km.SelectAll):
		list.ToggleSelectAll()
	case key.Matches(msg, km.DeselectAll):
		list.ClearSelection()
	case key.Matches(msg, km.Expand):
		if c, ok := m.focused(v); ok {
			list.ToggleExpanded(c.CompetenceID)
		}

	case key.Matches(msg, km.Approve):
		return m.startReview(v, api.ActionApprove)
	case key.Matches(msg, km.Reject):
		return m.startReview(v, api.ActionReject)
	case key.Matches(msg, km.AssignOther):
		return m.startReview(v, api.ActionAssignOther)
	case key.Matches(msg, km.Categorize):
		if v.Busy {
			return m, nil
		}
		if c, ok := m.focused(v); ok {
			return m, m.loadMetadata(c)
		}
	}
	return m, nil
}

// startReview acts on the selection, or the focused competence when nothing
// is selected. Reject asks for notes first; review actions exist only on the
// pending tab.
func (m Model) startReview(v review.View, action api.Action) (Model, tea.Cmd) {
	if v.Tab != review.TabPending || v.Busy {
		return m, nil
	}

	ids := v.Selected.IDs()
	if len(ids) == 0 {
		c, ok := m.focused(v)
		if !ok {
			m.config.Notifications.Info(NoSelectionMessage)
			return m, nil
		}
		ids = []model.ID{c.CompetenceID}
	}

	if action == api.ActionReject {
		modal := components.NewNotesModel(action, ids, m.theme)
		m.notes = &modal
		m.mode = ModeNotes
		return m, modal.Init()
	}
	return m, m.review(action, ids, "")
}

// handleMapResult shows the batch and sends one notification: success for a
// full or partial batch, error when nothing was mapped.
func (m Model) handleMapResult(msg mapResultMsg) Model {
	if msg.err != nil {
		errs := feedback.MappingErrors(msg.err)
		m.mapper = m.mapper.SetErrors(errs)
		m.config.Notifications.Error(feedback.Summary(errs))
		return m
	}

	m.mapper = m.mapper.SetResult(msg.batch)
	text, ok := viewmodel.Batch(msg.batch).Outcome()
	if ok {
		m.config.Notifications.Success(text)
	} else {
		m.config.Notifications.Error(text)
	}
	return m
}

func (m Model) focused(v review.View) (model.Competence, bool) {
	if m.cursor < 0 || m.cursor >= len(v.Page.Items) {
		return model.Competence{}, false
	}
	return v.Page.Items[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.view.Page.Items)
	m.cursor = min(m.cursor, max(n-1, 0))
}

func (m *Model) closeModals() {
	m.notes = nil
	m.categorize = nil
	m.mode = ModeBrowse
}

func (m *Model) toLogin() {
	m.closeModals()
	m.screen = ScreenLogin
	m.username = ""
	m.cursor = 0
	m.search.SetValue("")
	m.loginForm = components.NewLoginModel(m.theme)
	m.loginForm.Resize(m.width)
}

func (m *Model) resize() {
	m.loginForm.Resize(m.width)
	m.mapper.Resize(m.width)
	m.help.Width = m.width
}

func nextPageSize(current int) int {
	i := slices.Index(review.PageSizes, current)
	return review.PageSizes[(i+1)%len(review.PageSizes)]
}
