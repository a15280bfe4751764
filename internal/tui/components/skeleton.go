package components

import (
	"strings"

	"github.com/Veraticus/mapping-lia/internal/tui/themes"
)

// SkeletonCard renders the placeholder of one card while data loads.
func SkeletonCard(theme themes.Theme, width int) string {
	width = max(width, 12)
	lines := []string{
		strings.Repeat("▆", width/2),
		strings.Repeat("▂", width),
		strings.Repeat("▂", width*2/3),
		strings.Repeat("▂", width),
	}
	return theme.RoundedBox.Render(theme.Skeleton.Render(strings.Join(lines, "\n")))
}

// SkeletonTable renders rows placeholder rows of columns cells.
func SkeletonTable(theme themes.Theme, rows, columns, cellWidth int) string {
	cellWidth = max(cellWidth, 4)
	cell := strings.Repeat("▂", cellWidth)
	header := strings.Repeat("▆", cellWidth)

	row := func(c string) string {
		cells := make([]string, columns)
		for i := range cells {
			cells[i] = c
		}
		return strings.Join(cells, "  ")
	}

	out := []string{row(header)}
	for range rows {
		out = append(out, row(cell))
	}
	return theme.Skeleton.Render(strings.Join(out, "\n"))
}
