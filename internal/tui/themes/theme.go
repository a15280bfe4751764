package themes

import "github.com/charmbracelet/lipgloss"

// Theme defines the visual style for the console.
type Theme struct {
	Title          lipgloss.Style
	Subtitle       lipgloss.Style
	Normal         lipgloss.Style
	Bold           lipgloss.Style
	Faint          lipgloss.Style
	Selected       lipgloss.Style
	Highlighted    lipgloss.Style
	RoundedBox     lipgloss.Style
	BorderedBox    lipgloss.Style
	Modal          lipgloss.Style
	TabActive      lipgloss.Style
	TabInactive    lipgloss.Style
	Skeleton       lipgloss.Style
	FieldError     lipgloss.Style
	StatusSuccess  lipgloss.Style
	StatusWarning  lipgloss.Style
	StatusError    lipgloss.Style
	StatusInfo     lipgloss.Style
	ConfidenceHigh lipgloss.Style
	ConfidenceMid  lipgloss.Style
	ConfidenceLow  lipgloss.Style
	Primary        lipgloss.Color
	Secondary      lipgloss.Color
	Success        lipgloss.Color
	Warning        lipgloss.Color
	Error          lipgloss.Color
	Info           lipgloss.Color
	Foreground     lipgloss.Color
	Border         lipgloss.Color
	Muted          lipgloss.Color
}

type palette struct {
	primary, secondary                 lipgloss.Color
	success, warning, errorC, info     lipgloss.Color
	foreground, subtle                 lipgloss.Color
	border, muted, surface, onSelected lipgloss.Color
}

func build(p palette) Theme {
	return Theme{
		Primary:    p.primary,
		Secondary:  p.secondary,
		Success:    p.success,
		Warning:    p.warning,
		Error:      p.errorC,
		Info:       p.info,
		Foreground: p.foreground,
		Border:     p.border,
		Muted:      p.muted,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground).
			MarginBottom(1),
		Subtitle: lipgloss.NewStyle().
			Foreground(p.subtle),
		Normal: lipgloss.NewStyle().
			Foreground(p.foreground),
		Bold: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.foreground),
		Faint: lipgloss.NewStyle().
			Foreground(p.muted),
		Selected: lipgloss.NewStyle().
			Background(p.primary).
			Foreground(p.onSelected).
			Bold(true),
		Highlighted: lipgloss.NewStyle().
			Background(p.border).
			Foreground(p.foreground),

		RoundedBox: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		BorderedBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(p.border).
			Padding(0, 1),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(p.primary).
			Padding(1, 2),

		TabActive: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.onSelected).
			Background(p.primary).
			Padding(0, 2),
		TabInactive: lipgloss.NewStyle().
			Foreground(p.muted).
			Background(p.surface).
			Padding(0, 2),
		Skeleton: lipgloss.NewStyle().
			Foreground(p.border),
		FieldError: lipgloss.NewStyle().
			Foreground(p.errorC),

		StatusSuccess: lipgloss.NewStyle().
			Foreground(p.success).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(p.warning).
			Bold(true),
		StatusError: lipgloss.NewStyle().
			Foreground(p.errorC).
			Bold(true),
		StatusInfo: lipgloss.NewStyle().
			Foreground(p.info).
			Bold(true),

		ConfidenceHigh: lipgloss.NewStyle().Foreground(p.success),
		ConfidenceMid:  lipgloss.NewStyle().Foreground(p.warning),
		ConfidenceLow:  lipgloss.NewStyle().Foreground(p.errorC),
	}
}

// Default is the default theme.
var Default = build(palette{
	primary:    lipgloss.Color("#7c3aed"),
	secondary:  lipgloss.Color("#a78bfa"),
	success:    lipgloss.Color("#10b981"),
	warning:    lipgloss.Color("#f59e0b"),
	errorC:     lipgloss.Color("#ef4444"),
	info:       lipgloss.Color("#3b82f6"),
	foreground: lipgloss.Color("#fafafa"),
	subtle:     lipgloss.Color("#a3a3a3"),
	border:     lipgloss.Color("#404040"),
	muted:      lipgloss.Color("#737373"),
	surface:    lipgloss.Color("#262626"),
	onSelected: lipgloss.Color("#fafafa"),
})

// CatppuccinMocha is the Catppuccin Mocha theme.
var CatppuccinMocha = build(palette{
	primary:    lipgloss.Color("#cba6f7"),
	secondary:  lipgloss.Color("#f5c2e7"),
	success:    lipgloss.Color("#a6e3a1"),
	warning:    lipgloss.Color("#f9e2af"),
	errorC:     lipgloss.Color("#f38ba8"),
	info:       lipgloss.Color("#89dceb"),
	foreground: lipgloss.Color("#cdd6f4"),
	subtle:     lipgloss.Color("#a6adc8"),
	border:     lipgloss.Color("#45475a"),
	muted:      lipgloss.Color("#6c7086"),
	surface:    lipgloss.Color("#313244"),
	onSelected: lipgloss.Color("#1e1e2e"),
})

// GetTheme returns a theme by name.
func GetTheme(name string) Theme {
	switch name {
	case "catppuccin-mocha":
		return CatppuccinMocha
	default:
		return Default
	}
}

// Names lists the selectable theme names.
var Names = []string{"default", "catppuccin-mocha"}
