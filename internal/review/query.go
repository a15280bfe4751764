// Package review derives the visible review list from loaded competences and
// drives the review mutations. The derivation order is fixed: filter, sort,
// paginate, then selection.
package review

import (
	"cmp"
	"slices"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/model"
)

// Filter narrows the loaded records. Empty fields match everything.
type Filter struct {
	Search      string
	Area        string
	Category    string
	Subcategory string
	MatchedType string
}

// IsZero reports whether no filter value is set.
func (f Filter) IsZero() bool {
	return f == Filter{}
}

// Matches reports whether c passes every set criterion.
func (f Filter) Matches(c model.Competence) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(c.Name), q) &&
			!strings.Contains(strings.ToLower(c.Normalized), q) {
			return false
		}
	}
	if f.Area != "" && c.AreaName != f.Area {
		return false
	}
	if f.Category != "" && c.CategoryName != f.Category {
		return false
	}
	if f.Subcategory != "" && c.SubcategoryName != f.Subcategory {
		return false
	}
	if f.MatchedType != "" && c.MatchedType != f.MatchedType {
		return false
	}
	return true
}

// ApplyFilter returns the records that match f, in their original order.
func ApplyFilter(items []model.Competence, f Filter) []model.Competence {
	out := make([]model.Competence, 0, len(items))
	for _, c := range items {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

// SortField names a sortable column.
type SortField string

// Sortable fields.
const (
	SortName       SortField = "name"
	SortArea       SortField = "area"
	SortConfidence SortField = "confidence"
	SortCreatedAt  SortField = "createdAt"
)

// SortFields lists the fields in display order.
var SortFields = []SortField{SortName, SortArea, SortConfidence, SortCreatedAt}

// Valid reports whether f is a known field.
func (f SortField) Valid() bool {
	return slices.Contains(SortFields, f)
}

// SortDirection is ascending or descending.
type SortDirection string

// Directions.
const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// Sort is a field and direction.
type Sort struct {
	Field     SortField
	Direction SortDirection
}

// DefaultSort orders by name, ascending.
var DefaultSort = Sort{Field: SortName, Direction: Ascending}

// Toggle returns the sort after the user picks field: the same field flips
// direction, a different field starts ascending.
func (s Sort) Toggle(field SortField) Sort {
	if s.Field == field {
		if s.Direction == Ascending {
			return Sort{Field: field, Direction: Descending}
		}
		return Sort{Field: field, Direction: Ascending}
	}
	return Sort{Field: field, Direction: Ascending}
}

func compareBy(field SortField) func(a, b model.Competence) int {
	switch field {
	case SortArea:
		return func(a, b model.Competence) int {
			return cmp.Compare(strings.ToLower(a.AreaName), strings.ToLower(b.AreaName))
		}
	case SortConfidence:
		return func(a, b model.Competence) int {
			return cmp.Compare(a.ConfidenceValue(), b.ConfidenceValue())
		}
	case SortCreatedAt:
		return func(a, b model.Competence) int {
			return a.CreatedAtValue().Compare(b.CreatedAtValue())
		}
	default:
		return func(a, b model.Competence) int {
			return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	}
}

// ApplySort returns a sorted copy. Records with equal keys keep their
// relative order in both directions.
func ApplySort(items []model.Competence, s Sort) []model.Competence {
	out := slices.Clone(items)
	compare := compareBy(s.Field)
	if s.Direction == Descending {
		slices.SortStableFunc(out, func(a, b model.Competence) int { return compare(b, a) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}

// Page is one window of the filtered and sorted list.
type Page struct {
	Items   []model.Competence
	Total   int
	Index   int
	Size    int
	HasMore bool
}

// Count returns the number of pages, at least one.
func (p Page) Count() int {
	if p.Size <= 0 || p.Total == 0 {
		return 1
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Paginate returns the window [page*size, page*size+size). HasMore is true
// while the window ends before the last record.
func Paginate(items []model.Competence, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	page = max(page, 0)

	total := len(items)
	start := min(page*size, total)
	end := min(start+size, total)

	return Page{
		Items:   items[start:end],
		Total:   total,
		Index:   page,
		Size:    size,
		HasMore: page*size+size < total,
	}
}

// Derive runs filter, sort and paginate in order.
func Derive(items []model.Competence, f Filter, s Sort, page, size int) Page {
	return Paginate(ApplySort(ApplyFilter(items, f), s), page, size)
}
