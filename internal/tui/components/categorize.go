package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/review"
	"github.com/Veraticus/mapping-lia/internal/tui/themes"
	tea "github.com/charmbracelet/bubbletea"
)

// Categorization levels, top to bottom.
const (
	LevelArea = iota
	LevelCategory
	LevelSubcategory
)

// CategorizeModel edits the area, category and subcategory of one competence.
type CategorizeModel struct {
	theme      themes.Theme
	metadata   model.Metadata
	competence model.Competence
	draft      review.Draft
	err        string
	level      int
}

// NewCategorizeModel starts from the competence's current categorization.
func NewCategorizeModel(c model.Competence, metadata model.Metadata, theme themes.Theme) CategorizeModel {
	return CategorizeModel{
		theme:      theme,
		metadata:   metadata,
		competence: c,
		draft:      review.DraftFrom(c),
	}
}

// Init implements the component contract.
func (m CategorizeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages. Up and down pick a level, left and right cycle
// its value, backspace clears it, enter saves.
func (m CategorizeModel) Update(msg tea.Msg) (CategorizeModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "esc":
		return m, func() tea.Msg { return ModalClosedMsg{} }
	case "up", "k":
		m.level = max(m.level-1, LevelArea)
	case "down", "j", "tab":
		m.level = min(m.level+1, LevelSubcategory)
	case "right", "l", " ":
		m.draft = m.cycle()
		m.err = ""
	case "backspace", "delete":
		m.draft = m.clear()
		m.err = ""
	case "enter":
		if err := m.draft.Validate(m.metadata); err != nil {
			m.err = err.Error()
			return m, nil
		}
		out := CategorizationSubmittedMsg{ID: m.competence.CompetenceID, Draft: m.draft}
		return m, func() tea.Msg { return out }
	}
	return m, nil
}

func (m CategorizeModel) cycle() review.Draft {
	switch m.level {
	case LevelArea:
		return m.draft.CycleArea(m.metadata)
	case LevelCategory:
		return m.draft.CycleCategory(m.metadata)
	default:
		return m.draft.CycleSubcategory(m.metadata)
	}
}

func (m CategorizeModel) clear() review.Draft {
	switch m.level {
	case LevelArea:
		return m.draft.WithArea(nil)
	case LevelCategory:
		return m.draft.WithCategory(nil)
	default:
		return m.draft.WithSubcategory(nil)
	}
}

// Draft returns the current draft.
func (m CategorizeModel) Draft() review.Draft {
	return m.draft
}

// Err returns the validation message, if any.
func (m CategorizeModel) Err() string {
	return m.err
}

func (m CategorizeModel) names() [3]string {
	out := [3]string{"—", "—", "—"}
	d := m.draft
	if d.AreaID != nil {
		if a, ok := m.metadata.AreaByID(*d.AreaID); ok {
			out[LevelArea] = a.Name
		}
	}
	if d.CategoryID != nil {
		if c, ok := m.metadata.CategoryByID(*d.CategoryID); ok {
			out[LevelCategory] = c.Name
		}
	}
	if d.SubcategoryID != nil {
		if s, ok := m.metadata.SubcategoryByID(*d.SubcategoryID); ok {
			out[LevelSubcategory] = s.Name
		}
	}
	return out
}

// View renders the modal.
func (m CategorizeModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Categorize " + m.competence.Name))
	b.WriteString("\n")

	labels := [3]string{"Area", "Category", "Subcategory"}
	names := m.names()
	for i, label := range labels {
		line := fmt.Sprintf("%-12s ‹ %s ›", label, names[i])
		if i == m.level {
			b.WriteString(m.theme.Selected.Render(line))
		} else {
			b.WriteString(m.theme.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	if m.err != "" {
		b.WriteString("\n")
		b.WriteString(m.theme.FieldError.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.theme.Faint.Render("↑/↓ level • →/space next value • backspace clear • enter save • esc cancel"))
	return m.theme.Modal.Render(b.String())
}
