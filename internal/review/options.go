package review

import (
	"slices"

	"github.com/Veraticus/mapping-lia/internal/model"
)

// FilterOptions are the distinct values present in the loaded records.
type FilterOptions struct {
	Areas         []string
	Categories    []string
	Subcategories []string
	MatchedTypes  []string
}

// OptionsFrom collects sorted distinct non-empty values from items. Category
// and subcategory choices narrow to the selected area and category.
func OptionsFrom(items []model.Competence, f Filter) FilterOptions {
	var opts FilterOptions
	for _, c := range items {
		opts.Areas = append(opts.Areas, c.AreaName)
		opts.MatchedTypes = append(opts.MatchedTypes, c.MatchedType)
		if f.Area != "" && c.AreaName != f.Area {
			continue
		}
		opts.Categories = append(opts.Categories, c.CategoryName)
		if f.Category != "" && c.CategoryName != f.Category {
			continue
		}
		opts.Subcategories = append(opts.Subcategories, c.SubcategoryName)
	}

	opts.Areas = distinct(opts.Areas)
	opts.Categories = distinct(opts.Categories)
	opts.Subcategories = distinct(opts.Subcategories)
	opts.MatchedTypes = distinct(opts.MatchedTypes)
	return opts
}

func distinct(values []string) []string {
	values = slices.DeleteFunc(values, func(s string) bool { return s == "" })
	slices.Sort(values)
	return slices.Compact(values)
}

// Cycle returns the value after current in options, wrapping to "" (no filter).
func Cycle(options []string, current string) string {
	if len(options) == 0 {
		return ""
	}
	if current == "" {
		return options[0]
	}
	i := slices.Index(options, current)
	if i < 0 || i == len(options)-1 {
		return ""
	}
	return options[i+1]
}
