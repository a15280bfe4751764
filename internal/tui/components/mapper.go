package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/tui/themes"
	"github.com/Veraticus/mapping-lia/internal/tui/viewmodel"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// MapperModel is the batch mapping screen: a textarea of competences, one
// per line, and the results of the last submission.
type MapperModel struct {
	theme   themes.Theme
	result  *viewmodel.BatchView
	errors  []string
	input   textarea.Model
	width   int
	loading bool
}

// NewMapperModel creates an empty mapper.
func NewMapperModel(theme themes.Theme) MapperModel {
	ta := textarea.New()
	ta.Placeholder = "One competence per line…\n.NET\nC#\nProject Management\n…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(8)
	ta.Focus()

	return MapperModel{theme: theme, input: ta}
}

// Init returns the cursor blink.
func (m MapperModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages. Ctrl+S submits; blank input is ignored.
func (m MapperModel) Update(msg tea.Msg) (MapperModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+s" {
		if m.loading || strings.TrimSpace(m.input.Value()) == "" {
			return m, nil
		}
		m.loading = true
		m.errors = nil
		m.result = nil
		lines := strings.Split(m.input.Value(), "\n")
		return m, func() tea.Msg { return MapSubmittedMsg{Lines: lines} }
	}

	if m.loading {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// SetResult shows a finished batch. Per-line errors of a partial batch are
// listed above the results.
func (m MapperModel) SetResult(b model.BatchMapping) MapperModel {
	view := viewmodel.Batch(b)
	m.loading = false
	m.result = &view
	m.errors = view.Errors
	return m
}

// SetErrors shows a failed submission.
func (m MapperModel) SetErrors(errs []string) MapperModel {
	m.loading = false
	m.result = nil
	m.errors = errs
	return m
}

// Loading reports whether a submission is in flight.
func (m MapperModel) Loading() bool {
	return m.loading
}

// Result returns the last batch view, if any.
func (m MapperModel) Result() *viewmodel.BatchView {
	return m.result
}

// Errors returns the errors on display.
func (m MapperModel) Errors() []string {
	return m.errors
}

// Resize fits the textarea to width.
func (m *MapperModel) Resize(width int) {
	m.width = width
	m.input.SetWidth(max(width-6, 20))
}

// View renders the screen.
func (m MapperModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Map competences"))
	b.WriteString("\n")

	if len(m.errors) > 0 {
		b.WriteString(m.renderErrors())
		b.WriteString("\n")
	}

	b.WriteString(m.theme.Subtitle.Render("Map competences (one per line)"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")

	button := "Map competences"
	if m.loading {
		button = "Mapping…"
	}
	b.WriteString(m.theme.TabActive.Render(button))
	b.WriteString("  ")
	b.WriteString(m.theme.Faint.Render("ctrl+s submit"))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString(m.theme.Faint.Render("Running LLM mapping for all lines..."))
		b.WriteString("\n")
		b.WriteString(SkeletonCard(m.theme, max(m.width/2, 20)))
	case m.result != nil && len(m.result.Results) > 0:
		b.WriteString(m.renderResults())
	}

	return b.String()
}

func (m MapperModel) renderErrors() string {
	title := "Error"
	if len(m.errors) > 1 {
		title = "Errors"
	}
	var b strings.Builder
	b.WriteString(m.theme.StatusError.Render(title))
	for _, e := range m.errors {
		b.WriteString("\n")
		if len(m.errors) > 1 {
			b.WriteString("• ")
		}
		b.WriteString(m.theme.Faint.Render(e))
	}
	return m.theme.RoundedBox.Render(b.String())
}

func (m MapperModel) renderResults() string {
	var b strings.Builder
	b.WriteString(m.theme.Bold.Render("Batch results"))
	for _, r := range m.result.Results {
		b.WriteString("\n")
		b.WriteString(m.theme.Bold.Render(r.Input))
		b.WriteString("\n  ")
		b.WriteString(m.theme.Faint.Render(fmt.Sprintf("Normalized: %s  Area: %s", r.Normalized, r.Area)))
		b.WriteString("\n  ")
		b.WriteString(m.bandStyle(r.Band).Render(
			fmt.Sprintf("%s %3d%%", viewmodel.ConfidenceBar(r.Percentage, 20), r.Percentage)))
	}
	return m.theme.RoundedBox.Render(b.String())
}

func (m MapperModel) bandStyle(band model.ConfidenceBand) lipgloss.Style {
	switch band {
	case model.ConfidenceHigh:
		return m.theme.ConfidenceHigh
	case model.ConfidenceMedium:
		return m.theme.ConfidenceMid
	default:
		return m.theme.ConfidenceLow
	}
}
