package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the review console shortcuts.
type KeyMap struct {
	// Navigation
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	NextTab  key.Binding
	PageSize key.Binding

	// Review actions
	Approve     key.Binding
	Reject      key.Binding
	AssignOther key.Binding
	Categorize  key.Binding
	Expand      key.Binding

	// Selection
	ToggleSelect key.Binding
	SelectAll    key.Binding
	DeselectAll  key.Binding

	// Search and sort
	Search         key.Binding
	FilterArea     key.Binding
	FilterCategory key.Binding
	FilterSub      key.Binding
	FilterType     key.Binding
	ClearFilters   key.Binding
	SortName       key.Binding
	SortArea       key.Binding
	SortConfidence key.Binding
	SortCreated    key.Binding

	// Application
	Map       key.Binding
	Review    key.Binding
	Refresh   key.Binding
	Logout    key.Binding
	Help      key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("h", "left", "pgup"),
			key.WithHelp("←/h", "prev page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("l", "right", "pgdown"),
			key.WithHelp("→/l", "next page"),
		),
		NextTab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("Tab", "next tab"),
		),
		PageSize: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "page size"),
		),

		Approve: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "approve"),
		),
		Reject: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reject"),
		),
		AssignOther: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "assign other"),
		),
		Categorize: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit category"),
		),
		Expand: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "expand notes"),
		),

		ToggleSelect: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("Space/x", "select"),
		),
		SelectAll: key.NewBinding(
			key.WithKeys("ctrl+a"),
			key.WithHelp("Ctrl+A", "select page"),
		),
		DeselectAll: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("Ctrl+D", "deselect all"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		FilterArea: key.NewBinding(
			key.WithKeys("A"),
			key.WithHelp("A", "filter area"),
		),
		FilterCategory: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "filter category"),
		),
		FilterSub: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "filter subcategory"),
		),
		FilterType: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "filter type"),
		),
		ClearFilters: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("Backspace", "clear filters"),
		),
		SortName: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "sort name"),
		),
		SortArea: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "sort area"),
		),
		SortConfidence: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "sort confidence"),
		),
		SortCreated: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "sort created"),
		),

		Map: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "map"),
		),
		Review: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "back to review"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("Ctrl+R", "refresh"),
		),
		Logout: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "logout"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("Ctrl+C", "force quit"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Approve, k.Reject, k.AssignOther, k.ToggleSelect, k.Search, k.Help, k.Quit}
}

// FullHelp returns all key bindings for the full help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.NextTab, k.PageSize},
		{k.Approve, k.Reject, k.AssignOther, k.Categorize, k.Expand},
		{k.ToggleSelect, k.SelectAll, k.DeselectAll, k.Refresh},
		{k.Search, k.FilterArea, k.FilterCategory, k.FilterSub, k.FilterType, k.ClearFilters},
		{k.SortName, k.SortArea, k.SortConfidence, k.SortCreated},
		{k.Map, k.Review, k.Logout, k.Help, k.Quit},
	}
}
