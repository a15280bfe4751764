package review

import (
	"testing"

	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/stretchr/testify/assert"
)

var testMetadata = model.Metadata{
	Areas:      []model.Area{{ID: 1, Name: "IT"}, {ID: 2, Name: "Industry"}},
	Categories: []model.Category{{ID: 10, AreaID: 1, Name: "Programming"}, {ID: 11, AreaID: 1, Name: "Networks"}, {ID: 20, AreaID: 2, Name: "Metal"}},
	Subcategories: []model.Subcategory{
		{ID: 100, CategoryID: 10, Name: "Go"},
		{ID: 101, CategoryID: 10, Name: "Rust"},
		{ID: 200, CategoryID: 20, Name: "Welding"},
	},
}

func TestDraft_Cascade(t *testing.T) {
	d := DraftFrom(model.Competence{AreaID: ptr(1), CategoryID: ptr(10), SubcategoryID: ptr(100)})

	withCat := d.WithCategory(ptr(11))
	assert.Equal(t, 1, *withCat.AreaID)
	assert.Equal(t, 11, *withCat.CategoryID)
	assert.Nil(t, withCat.SubcategoryID)

	withArea := d.WithArea(ptr(2))
	assert.Equal(t, 2, *withArea.AreaID)
	assert.Nil(t, withArea.CategoryID)
	assert.Nil(t, withArea.SubcategoryID)

	// the source draft is untouched
	assert.Equal(t, 100, *d.SubcategoryID)
}

func TestDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		draft   Draft
		wantErr string
	}{
		{name: "empty", draft: Draft{}},
		{name: "full", draft: Draft{AreaID: ptr(1), CategoryID: ptr(10), SubcategoryID: ptr(101)}},
		{name: "category without area", draft: Draft{CategoryID: ptr(10)}, wantErr: "requires an area"},
		{name: "foreign category", draft: Draft{AreaID: ptr(2), CategoryID: ptr(10)}, wantErr: "not in the selected area"},
		{name: "foreign subcategory", draft: Draft{AreaID: ptr(1), CategoryID: ptr(10), SubcategoryID: ptr(200)}, wantErr: "not in the selected category"},
		{name: "unknown area", draft: Draft{AreaID: ptr(9)}, wantErr: "unknown area"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.draft.Validate(testMetadata)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestDraft_Cycle(t *testing.T) {
	d := Draft{}.CycleArea(testMetadata)
	assert.Equal(t, 1, *d.AreaID)

	d = d.CycleCategory(testMetadata)
	assert.Equal(t, 10, *d.CategoryID)
	d = d.CycleSubcategory(testMetadata).CycleSubcategory(testMetadata)
	assert.Equal(t, 101, *d.SubcategoryID)

	d = d.CycleArea(testMetadata)
	assert.Equal(t, 2, *d.AreaID)
	assert.Nil(t, d.CategoryID)
	assert.Nil(t, d.SubcategoryID)

	d = d.CycleArea(testMetadata)
	assert.Nil(t, d.AreaID)
	assert.Equal(t, Draft{}, Draft{}.CycleCategory(testMetadata))
	assert.NoError(t, d.Validate(testMetadata))
}
