package model

// Area is the top level of the classification hierarchy.
type Area struct {
	Name string `json:"name"`
	ID   int    `json:"id"`
}

// Category belongs to an area.
type Category struct {
	Name   string `json:"name"`
	ID     int    `json:"id"`
	AreaID int    `json:"areaId"`
}

// Subcategory belongs to a category.
type Subcategory struct {
	Name       string `json:"name"`
	ID         int    `json:"id"`
	CategoryID int    `json:"categoryId"`
}

// Metadata holds the flat collections used to populate cascading pickers.
type Metadata struct {
	Areas         []Area        `json:"areas"`
	Categories    []Category    `json:"categories"`
	Subcategories []Subcategory `json:"subcategories"`
}

// CategoriesOf returns the categories that belong to the given area.
func (m Metadata) CategoriesOf(areaID int) []Category {
	var out []Category
	for _, c := range m.Categories {
		if c.AreaID == areaID {
			out = append(out, c)
		}
	}
	return out
}

// SubcategoriesOf returns the subcategories that belong to the given category.
func (m Metadata) SubcategoriesOf(categoryID int) []Subcategory {
	var out []Subcategory
	for _, s := range m.Subcategories {
		if s.CategoryID == categoryID {
			out = append(out, s)
		}
	}
	return out
}

// AreaByID looks up an area.
func (m Metadata) AreaByID(id int) (Area, bool) {
	for _, a := range m.Areas {
		if a.ID == id {
			return a, true
		}
	}
	return Area{}, false
}

// CategoryByID looks up a category.
func (m Metadata) CategoryByID(id int) (Category, bool) {
	for _, c := range m.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// SubcategoryByID looks up a subcategory.
func (m Metadata) SubcategoryByID(id int) (Subcategory, bool) {
	for _, s := range m.Subcategories {
		if s.ID == id {
			return s, true
		}
	}
	return Subcategory{}, false
}
