// Package viewmodel projects domain state into display-ready values. Nothing
// here renders; the console styles these values.
package viewmodel

import (
	"fmt"

	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/review"
)

// Placeholder stands in for absent values.
const Placeholder = "—"

// Notes are shortened to these many characters unless the row is expanded.
const (
	CardNotesLimit  = 300
	TableNotesLimit = 140
)

// TableHeader is the column order of the approved and rejected tables.
var TableHeader = []string{"Name", "Area", "Review Notes", "Category", "Subcategory", "Confidence"}

// CardView is one pending competence.
type CardView struct {
	ID          model.ID
	Name        string
	Area        string
	Category    string
	Subcategory string
	Confidence  string
	Notes       string
	Truncated   bool
	Selected    bool
	Expanded    bool
	Focused     bool
}

// RowView is one approved or rejected competence.
type RowView struct {
	ID        model.ID
	Cells     []string
	Truncated bool
	Selected  bool
	Expanded  bool
	Focused   bool
}

// Card builds the card of a pending competence.
func Card(c model.Competence, selected, expanded bool) CardView {
	notes, truncated := notesFor(c.ReviewNotes, CardNotesLimit, expanded)
	return CardView{
		ID:          c.CompetenceID,
		Name:        c.Name,
		Area:        orPlaceholder(c.AreaName),
		Category:    orPlaceholder(c.CategoryName),
		Subcategory: orPlaceholder(c.SubcategoryName),
		Confidence:  orPlaceholder(FormatConfidence(c.Confidence)),
		Notes:       notes,
		Truncated:   truncated,
		Selected:    selected,
		Expanded:    expanded,
	}
}

// Row builds the table row of a reviewed competence. Area, category and
// confidence stay blank when absent; notes and subcategory show the placeholder.
func Row(c model.Competence, selected, expanded bool) RowView {
	notes, truncated := notesFor(c.ReviewNotes, TableNotesLimit, expanded)
	return RowView{
		ID: c.CompetenceID,
		Cells: []string{
			c.Name,
			c.AreaName,
			notes,
			c.CategoryName,
			orPlaceholder(c.SubcategoryName),
			FormatConfidence(c.Confidence),
		},
		Truncated: truncated,
		Selected:  selected,
		Expanded:  expanded,
	}
}

// FormatConfidence renders a confidence with two decimals, or "" when absent.
func FormatConfidence(c *float64) string {
	if c == nil {
		return ""
	}
	return fmt.Sprintf("%.2f", *c)
}

// ShortNotes keeps the first limit characters of notes and appends an
// ellipsis when anything was cut.
func ShortNotes(notes string, limit int) (string, bool) {
	r := []rune(notes)
	if limit <= 0 || len(r) <= limit {
		return notes, false
	}
	return string(r[:limit]) + "…", true
}

func notesFor(notes string, limit int, expanded bool) (string, bool) {
	if notes == "" {
		return Placeholder, false
	}
	if expanded {
		return notes, false
	}
	short, truncated := ShortNotes(SanitizeForDisplay(notes), limit)
	return short, truncated
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

// ListView is the review screen's list area.
type ListView struct {
	Tab           review.Tab
	Cards         []CardView
	Rows          []RowView
	Filters       []string
	Sort          string
	PageLabel     string
	Total         int
	Loaded        int
	SelectedCount int
	AllSelected   bool
	HasPrev       bool
	HasMore       bool
	Loading       bool
	Busy          bool
	Failed        bool
}

// List projects a review snapshot. cursor is the focused row on the page.
func List(v review.View, cursor int) ListView {
	lv := ListView{
		Tab:           v.Tab,
		Sort:          SortLabel(v.Sort),
		Filters:       FilterLabels(v.Filter),
		PageLabel:     fmt.Sprintf("Page %d of %d", v.Page.Index+1, v.Page.Count()),
		Total:         v.Page.Total,
		Loaded:        v.Loaded,
		SelectedCount: v.Selected.Len(),
		AllSelected:   len(v.Page.Items) > 0 && v.AllVisibleSelected(),
		HasPrev:       v.Page.Index > 0,
		HasMore:       v.Page.HasMore,
		Loading:       v.Loading,
		Busy:          v.Busy,
		Failed:        v.Err != nil,
	}

	for i, c := range v.Page.Items {
		selected, expanded := v.Selected.Has(c.CompetenceID), v.Expanded.Has(c.CompetenceID)
		if v.Tab == review.TabPending {
			card := Card(c, selected, expanded)
			card.Focused = i == cursor
			lv.Cards = append(lv.Cards, card)
			continue
		}
		row := Row(c, selected, expanded)
		row.Focused = i == cursor
		lv.Rows = append(lv.Rows, row)
	}
	return lv
}

// IsEmpty reports whether the page has nothing to show.
func (lv ListView) IsEmpty() bool {
	return len(lv.Cards) == 0 && len(lv.Rows) == 0
}

// HasFilter reports whether search or a filter narrows the list.
func (lv ListView) HasFilter() bool {
	return len(lv.Filters) > 0
}

// SortLabel renders a sort as "field ↑" or "field ↓".
func SortLabel(s review.Sort) string {
	arrow := "↑"
	if s.Direction == review.Descending {
		arrow = "↓"
	}
	return fmt.Sprintf("%s %s", s.Field, arrow)
}

// FilterLabels lists the active criteria in display order.
func FilterLabels(f review.Filter) []string {
	var out []string
	add := func(label, value string) {
		if value != "" {
			out = append(out, fmt.Sprintf("%s: %s", label, value))
		}
	}
	add("search", f.Search)
	add("area", f.Area)
	add("category", f.Category)
	add("subcategory", f.Subcategory)
	add("type", f.MatchedType)
	return out
}
