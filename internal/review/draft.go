package review

import (
	"fmt"

	"github.com/Veraticus/mapping-lia/internal/api"
	"github.com/Veraticus/mapping-lia/internal/model"
)

// Draft is an in-progress categorization edit. Changing a level clears the
// levels below it, so a draft never holds a category without its area or a
// subcategory without its category.
type Draft struct {
	AreaID        *int
	CategoryID    *int
	SubcategoryID *int
}

// DraftFrom starts a draft from a competence's current categorization.
func DraftFrom(c model.Competence) Draft {
	return Draft{
		AreaID:        copyInt(c.AreaID),
		CategoryID:    copyInt(c.CategoryID),
		SubcategoryID: copyInt(c.SubcategoryID),
	}
}

// WithArea sets the area and clears category and subcategory.
func (d Draft) WithArea(id *int) Draft {
	return Draft{AreaID: copyInt(id)}
}

// WithCategory sets the category and clears the subcategory.
func (d Draft) WithCategory(id *int) Draft {
	return Draft{AreaID: d.AreaID, CategoryID: copyInt(id)}
}

// WithSubcategory sets the subcategory.
func (d Draft) WithSubcategory(id *int) Draft {
	d.SubcategoryID = copyInt(id)
	return d
}

// Validate checks every set level exists in m and belongs to its parent.
func (d Draft) Validate(m model.Metadata) error {
	if d.CategoryID != nil && d.AreaID == nil {
		return fmt.Errorf("category requires an area")
	}
	if d.SubcategoryID != nil && d.CategoryID == nil {
		return fmt.Errorf("subcategory requires a category")
	}
	if d.AreaID != nil {
		if _, ok := m.AreaByID(*d.AreaID); !ok {
			return fmt.Errorf("unknown area %d", *d.AreaID)
		}
	}
	if d.CategoryID != nil {
		c, ok := m.CategoryByID(*d.CategoryID)
		if !ok {
			return fmt.Errorf("unknown category %d", *d.CategoryID)
		}
		if c.AreaID != *d.AreaID {
			return fmt.Errorf("category %q is not in the selected area", c.Name)
		}
	}
	if d.SubcategoryID != nil {
		s, ok := m.SubcategoryByID(*d.SubcategoryID)
		if !ok {
			return fmt.Errorf("unknown subcategory %d", *d.SubcategoryID)
		}
		if s.CategoryID != *d.CategoryID {
			return fmt.Errorf("subcategory %q is not in the selected category", s.Name)
		}
	}
	return nil
}

// Categorization converts the draft into the request body.
func (d Draft) Categorization() api.Categorization {
	return api.Categorization{
		AreaID:        d.AreaID,
		CategoryID:    d.CategoryID,
		SubcategoryID: d.SubcategoryID,
	}
}

// CycleArea moves to the next area in m, wrapping to none.
func (d Draft) CycleArea(m model.Metadata) Draft {
	ids := make([]int, len(m.Areas))
	for i, a := range m.Areas {
		ids[i] = a.ID
	}
	return d.WithArea(nextID(ids, d.AreaID))
}

// CycleCategory moves to the next category of the draft's area.
func (d Draft) CycleCategory(m model.Metadata) Draft {
	if d.AreaID == nil {
		return d
	}
	cats := m.CategoriesOf(*d.AreaID)
	ids := make([]int, len(cats))
	for i, c := range cats {
		ids[i] = c.ID
	}
	return d.WithCategory(nextID(ids, d.CategoryID))
}

// CycleSubcategory moves to the next subcategory of the draft's category.
func (d Draft) CycleSubcategory(m model.Metadata) Draft {
	if d.CategoryID == nil {
		return d
	}
	subs := m.SubcategoriesOf(*d.CategoryID)
	ids := make([]int, len(subs))
	for i, s := range subs {
		ids[i] = s.ID
	}
	return d.WithSubcategory(nextID(ids, d.SubcategoryID))
}

func nextID(ids []int, current *int) *int {
	if len(ids) == 0 {
		return nil
	}
	if current == nil {
		return &ids[0]
	}
	for i, id := range ids {
		if id == *current {
			if i == len(ids)-1 {
				return nil
			}
			return &ids[i+1]
		}
	}
	return &ids[0]
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
