package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RenderTable lays out rows under a header with columns padded to their
// widest cell. Cells wider than maxWidth are truncated with an ellipsis.
func RenderTable(header []string, rows [][]string, maxWidth int) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := range widths {
			if i < len(row) {
				widths[i] = max(widths[i], lipgloss.Width(Truncate(row[i], maxWidth)))
			}
		}
	}

	var b strings.Builder
	cells := make([]string, len(header))
	for i, h := range header {
		cells[i] = TableCellStyle.Width(widths[i] + 2).Render(h)
	}
	b.WriteString(TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, cells...)))
	b.WriteString("\n")

	for _, row := range rows {
		for i := range header {
			cell := ""
			if i < len(row) {
				cell = Truncate(row[i], maxWidth)
			}
			cells[i] = TableCellStyle.Width(widths[i] + 2).Render(cell)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cells...))
		b.WriteString("\n")
	}

	return b.String()
}

// Truncate shortens s to at most width runes, ending in an ellipsis.
func Truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
