package tui

import (
	"fmt"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/cli"
	"github.com/Veraticus/mapping-lia/internal/review"
	"github.com/Veraticus/mapping-lia/internal/tui/components"
	"github.com/Veraticus/mapping-lia/internal/tui/viewmodel"
	"github.com/charmbracelet/lipgloss"
)

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.screen {
	case ScreenLogin:
		body = lipgloss.Place(m.width, max(m.height-m.toasts.Len()-1, 0),
			lipgloss.Center, lipgloss.Center, m.loginForm.View())
	case ScreenMap:
		body = lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			m.mapper.View(),
			m.theme.Faint.Render("esc back to review"),
		)
	default:
		body = m.renderReview()
	}

	if toasts := m.toasts.View(); toasts != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, toasts, body)
	}
	return body
}

func (m Model) renderHeader() string {
	title := m.theme.Title.Render("Mapping LIA")
	if m.username == "" {
		return title
	}
	user := m.theme.Faint.Render("  signed in as " + m.username)
	return lipgloss.JoinHorizontal(lipgloss.Top, title, user)
}

func (m Model) renderReview() string {
	lv := viewmodel.List(m.view, m.cursor)

	sections := []string{
		m.renderHeader(),
		m.theme.Subtitle.Render("Review competences"),
		m.renderTabs(lv),
		m.renderToolbar(lv),
	}

	switch m.mode {
	case ModeNotes:
		if m.notes != nil {
			sections = append(sections, m.notes.View())
		}
	case ModeCategorize:
		if m.categorize != nil {
			sections = append(sections, m.categorize.View())
		}
	default:
		sections = append(sections, m.renderList(lv), m.renderPager(lv))
	}

	h := m.help
	h.ShowAll = m.showHelp
	sections = append(sections, h.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderTabs(lv viewmodel.ListView) string {
	tabs := make([]string, 0, len(review.Tabs))
	for _, t := range review.Tabs {
		label := strings.ToUpper(string(t))
		if t == lv.Tab {
			tabs = append(tabs, m.theme.TabActive.Render(label))
		} else {
			tabs = append(tabs, m.theme.TabInactive.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...) + "\n"
}

func (m Model) renderToolbar(lv viewmodel.ListView) string {
	var parts []string
	if m.mode == ModeSearch {
		parts = append(parts, m.search.View())
	}
	if lv.HasFilter() {
		parts = append(parts, m.theme.StatusInfo.Render(strings.Join(lv.Filters, " · ")))
	}
	parts = append(parts, m.theme.Faint.Render("sort: "+lv.Sort))
	if sel := viewmodel.Selection(lv.SelectedCount); sel != "" {
		parts = append(parts, m.theme.StatusWarning.Render(sel))
	}
	if lv.Busy {
		parts = append(parts, m.theme.StatusInfo.Render("working…"))
	}
	return strings.Join(parts, "   ")
}

func (m Model) renderList(lv viewmodel.ListView) string {
	if lv.Loading {
		return m.renderSkeleton(lv)
	}
	if lv.Failed && lv.IsEmpty() {
		return m.theme.StatusError.Render("Failed to load competences")
	}
	if lv.IsEmpty() {
		return m.theme.RoundedBox.Render("No competences found.")
	}
	if lv.Tab == review.TabPending {
		cards := make([]string, 0, len(lv.Cards))
		for _, c := range lv.Cards {
			cards = append(cards, m.renderCard(c))
		}
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return m.renderTable(lv)
}

func (m Model) renderSkeleton(lv viewmodel.ListView) string {
	rows := max(m.view.Page.Size, 1)
	if lv.Tab == review.TabPending {
		cards := make([]string, 0, rows)
		for range min(rows, 3) {
			cards = append(cards, components.SkeletonCard(m.theme, m.width/3))
		}
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return components.SkeletonTable(m.theme, rows, len(viewmodel.TableHeader), max(m.width/8, 4))
}

func checkbox(selected bool) string {
	if selected {
		return "[x]"
	}
	return "[ ]"
}

func (m Model) renderCard(c viewmodel.CardView) string {
	left := strings.Join([]string{
		checkbox(c.Selected) + " " + m.theme.Bold.Render(c.Name),
		m.theme.Faint.Render("Area: ") + c.Area,
		m.theme.Faint.Render("Category: ") + c.Category,
		m.theme.Faint.Render("Subcategory: ") + c.Subcategory,
		m.theme.Faint.Render("Confidence: ") + c.Confidence,
	}, "\n")

	notesWidth := max(m.width/2-4, 20)
	notes := lipgloss.NewStyle().Width(notesWidth).Render(m.theme.Faint.Render(c.Notes))
	if c.Truncated {
		notes += "\n" + m.theme.Faint.Render("enter to expand")
	}

	box := m.theme.RoundedBox
	if c.Focused {
		box = box.BorderForeground(m.theme.Primary)
	}
	return box.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(max(m.width/2-4, 30)).Render(left),
		notes,
	))
}

func (m Model) renderTable(lv viewmodel.ListView) string {
	header := append([]string{""}, viewmodel.TableHeader...)
	rows := make([][]string, 0, len(lv.Rows))
	expanded := ""
	for _, r := range lv.Rows {
		marker := " "
		if r.Selected {
			marker = "✓"
		}
		if r.Focused {
			marker = "›" + marker
			if r.Expanded {
				expanded = r.Cells[2]
			}
		}
		rows = append(rows, append([]string{marker}, r.Cells...))
	}

	out := cli.RenderTable(header, rows, viewmodel.TableNotesLimit+1)
	if expanded != "" {
		out += m.theme.RoundedBox.Width(max(m.width-4, 20)).Render(expanded) + "\n"
	}
	return out
}

func (m Model) renderPager(lv viewmodel.ListView) string {
	prev, next := m.theme.Faint.Render("‹ prev"), m.theme.Faint.Render("next ›")
	if lv.HasPrev {
		prev = m.theme.Bold.Render("‹ prev")
	}
	if lv.HasMore {
		next = m.theme.Bold.Render("next ›")
	}
	return fmt.Sprintf("%s  %s  %s   %s",
		prev,
		m.theme.Faint.Render(lv.PageLabel),
		next,
		m.theme.Faint.Render(fmt.Sprintf("Per page: %d · %d total", m.view.Page.Size, lv.Total)),
	)
}
