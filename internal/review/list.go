package review

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/Veraticus/mapping-lia/internal/api"
	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/service"
)

// Backend is the part of the API the review list uses.
type Backend interface {
	FetchAll(ctx context.Context, status model.ReviewStatus, onPage api.PageFunc) ([]model.Competence, error)
	Review(ctx context.Context, id model.ID, action api.Action, notes string) error
	UpdateCategorization(ctx context.Context, id model.ID, c api.Categorization) error
	GetMetadata(ctx context.Context) (model.Metadata, error)
}

// Reloader refetches the active tab. Every successful mutation ends with a
// Reload, so the cached collection is always one backend snapshot.
type Reloader interface {
	Reload(ctx context.Context) error
}

var _ Reloader = (*List)(nil)

// View is a consistent snapshot of everything the presentation renders.
type View struct {
	Err      error
	Page     Page
	Options  FilterOptions
	Selected IDSet
	Expanded IDSet
	Filter   Filter
	Sort     Sort
	Tab      Tab
	Loaded   int
	Loading  bool
	Busy     bool
}

// AllVisibleSelected reports whether every row on the page is selected.
func (v View) AllVisibleSelected() bool {
	return v.Selected.ContainsAll(IDsOf(v.Page.Items))
}

// List is the review list state. It is safe for concurrent use: the console
// runs loads and mutations off the UI goroutine and renders from View.
type List struct {
	backend  Backend
	notify   service.Notifier
	prefs    service.KeyValueStore
	logger   *slog.Logger
	loadErr  error
	metadata *model.Metadata
	selected IDSet
	expanded IDSet
	filter   Filter
	sort     Sort
	tab      Tab
	items    []model.Competence
	page     int
	pageSize int
	gen      uint64
	mu       sync.Mutex
	loading  bool
	busy     bool
	noReload bool
}

// Option configures a List.
type Option func(*List)

// WithPreferences persists tab, page size and sort in kv.
func WithPreferences(kv service.KeyValueStore) Option {
	return func(l *List) { l.prefs = kv }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *List) { l.logger = logger }
}

// WithoutReload keeps successful mutations from reloading the active tab.
// One-shot commands that never render the list use it.
func WithoutReload() Option {
	return func(l *List) { l.noReload = true }
}

// NewList creates a list on the pending tab with default preferences.
func NewList(backend Backend, notify service.Notifier, opts ...Option) *List {
	p := DefaultPrefs()
	l := &List{
		backend:  backend,
		notify:   notify,
		logger:   slog.Default(),
		tab:      p.Tab,
		sort:     p.Sort,
		pageSize: p.PageSize,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Restore applies the stored preferences. It does not load data.
func (l *List) Restore(ctx context.Context) error {
	p, err := LoadPrefs(ctx, l.prefs)
	l.mu.Lock()
	l.tab, l.sort, l.pageSize = p.Tab, p.Sort, p.PageSize
	l.mu.Unlock()
	return err
}

func (l *List) savePrefs(ctx context.Context) {
	l.mu.Lock()
	p := Prefs{Tab: l.tab, Sort: l.sort, PageSize: l.pageSize}
	l.mu.Unlock()
	if err := SavePrefs(ctx, l.prefs, p); err != nil {
		l.logger.Warn("Failed to save review preferences", "error", err)
	}
}

// Reload fetches the whole data set of the active tab. A result that arrives
// after a newer reload or tab switch has started is discarded.
func (l *List) Reload(ctx context.Context) error {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	tab := l.tab
	l.loading = true
	l.mu.Unlock()

	items, err := l.backend.FetchAll(ctx, tab.Status(), nil)

	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		l.logger.Debug("Discarding stale review load", "tab", tab, "generation", gen)
		return nil
	}
	l.loading = false
	if err != nil {
		l.loadErr = err
		l.mu.Unlock()
		l.notify.Error(fmt.Sprintf("Failed to load %s competences: %s", tab, feedback.Message(err)))
		return err
	}
	l.loadErr = nil
	l.items = items
	l.clampPageLocked()
	l.mu.Unlock()

	l.logger.Debug("Loaded review tab", "tab", tab, "count", len(items))
	return nil
}

// SwitchTab activates tab, resets page, selection and expanded rows, and reloads.
func (l *List) SwitchTab(ctx context.Context, tab Tab) error {
	l.mu.Lock()
	l.tab = tab
	l.items = nil
	l.resetLocked()
	l.expanded = IDSet{}
	l.mu.Unlock()

	l.savePrefs(ctx)
	return l.Reload(ctx)
}

// Tab returns the active tab.
func (l *List) Tab() Tab {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tab
}

func (l *List) resetLocked() {
	l.page = 0
	l.selected = IDSet{}
}

// SetSearch changes the search text.
func (l *List) SetSearch(q string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.filter.Search == q {
		return
	}
	l.filter.Search = q
	l.resetLocked()
}

// SetFilter replaces all filter values, keeping the search text.
func (l *List) SetFilter(f Filter) {
	l.mu.Lock()
	defer l.mu.Unlock()
	f.Search = l.filter.Search
	if l.filter == f {
		return
	}
	l.filter = f
	l.resetLocked()
}

// ClearFilters removes search and filter values.
func (l *List) ClearFilters() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.filter = Filter{}
	l.resetLocked()
}

// ToggleSort applies Sort.Toggle and persists the result.
func (l *List) ToggleSort(ctx context.Context, field SortField) {
	l.mu.Lock()
	l.sort = l.sort.Toggle(field)
	l.mu.Unlock()
	l.savePrefs(ctx)
}

// SetPageSize changes the window size, returns to the first page and persists it.
func (l *List) SetPageSize(ctx context.Context, size int) {
	if size <= 0 {
		return
	}
	l.mu.Lock()
	l.pageSize = size
	l.page = 0
	l.mu.Unlock()
	l.savePrefs(ctx)
}

// NextPage advances when more records follow.
func (l *List) NextPage() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.derivedLocked().HasMore {
		l.page++
	}
}

// PrevPage goes back one page.
func (l *List) PrevPage() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.page > 0 {
		l.page--
	}
}

func (l *List) clampPageLocked() {
	p := l.derivedLocked()
	if last := p.Count() - 1; l.page > last {
		l.page = last
	}
}

// ToggleSelected flips the selection of id.
func (l *List) ToggleSelected(id model.ID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = l.selected.Toggle(id)
}

// ToggleSelectAll selects every visible row, or clears them when all are selected.
func (l *List) ToggleSelectAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = l.selected.ToggleAll(IDsOf(l.derivedLocked().Items))
}

// ClearSelection empties the selection.
func (l *List) ClearSelection() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.selected = IDSet{}
}

// Selected returns the selected ids in sorted order.
func (l *List) Selected() []model.ID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected.IDs()
}

// ToggleExpanded shows or hides the full notes of id.
func (l *List) ToggleExpanded(id model.ID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.expanded = l.expanded.Toggle(id)
}

func (l *List) derivedLocked() Page {
	return Derive(l.items, l.filter, l.sort, l.page, l.pageSize)
}

// View returns the current snapshot.
func (l *List) View() View {
	l.mu.Lock()
	defer l.mu.Unlock()
	return View{
		Tab:      l.tab,
		Page:     l.derivedLocked(),
		Options:  OptionsFrom(l.items, l.filter),
		Selected: l.selected,
		Expanded: l.expanded,
		Filter:   l.filter,
		Sort:     l.sort,
		Loaded:   len(l.items),
		Loading:  l.loading,
		Busy:     l.busy,
		Err:      l.loadErr,
	}
}

// Find returns the loaded competence with id.
func (l *List) Find(id model.ID) (model.Competence, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, c := range l.items {
		if c.CompetenceID == id {
			return c, true
		}
	}
	return model.Competence{}, false
}

// Metadata returns the area/category/subcategory collections, fetching them
// on first use.
func (l *List) Metadata(ctx context.Context) (model.Metadata, error) {
	l.mu.Lock()
	if l.metadata != nil {
		m := *l.metadata
		l.mu.Unlock()
		return m, nil
	}
	l.mu.Unlock()

	m, err := l.backend.GetMetadata(ctx)
	if err != nil {
		l.notify.Error("Failed to load categories: " + feedback.Message(err))
		return model.Metadata{}, err
	}

	l.mu.Lock()
	l.metadata = &m
	l.mu.Unlock()
	return m, nil
}
