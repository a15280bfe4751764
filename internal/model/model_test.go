package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestID_UnmarshalJSON(t *testing.T) {
	var c Competence
	require.NoError(t, json.Unmarshal([]byte(`{"competenceId":42,"name":"Go"}`), &c))
	assert.Equal(t, ID("42"), c.CompetenceID)

	require.NoError(t, json.Unmarshal([]byte(`{"competenceId":"a-1"}`), &c))
	assert.Equal(t, ID("a-1"), c.CompetenceID)

	out, err := json.Marshal(ID("42"))
	require.NoError(t, err)
	assert.Equal(t, "42", string(out))
}

func TestCompetence_AbsentValues(t *testing.T) {
	var c Competence
	assert.Zero(t, c.ConfidenceValue())
	assert.True(t, c.CreatedAtValue().IsZero())
	assert.False(t, c.IsReviewed())

	c.ReviewedAt = &Timestamp{Time: time.Now()}
	assert.True(t, c.IsReviewed())
}

func TestTimestamp_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		json string
		want time.Time
	}{
		{
			name: "rfc3339 with offset",
			json: `{"competenceId":1,"createdAt":"2024-01-15T10:30:00+02:00"}`,
			want: time.Date(2024, 1, 15, 8, 30, 0, 0, time.UTC),
		},
		{
			name: "utc designator",
			json: `{"competenceId":1,"createdAt":"2024-01-15T10:30:00.5Z"}`,
			want: time.Date(2024, 1, 15, 10, 30, 0, 500000000, time.UTC),
		},
		{
			name: "no offset",
			json: `{"competenceId":1,"createdAt":"2024-01-15T10:30:00.1234567"}`,
			want: time.Date(2024, 1, 15, 10, 30, 0, 123456700, time.UTC),
		},
		{
			name: "no offset no fraction",
			json: `{"competenceId":1,"createdAt":"2024-01-15T10:30:00"}`,
			want: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Competence
			require.NoError(t, json.Unmarshal([]byte(tt.json), &c))
			assert.True(t, tt.want.Equal(c.CreatedAtValue()), "got %s", c.CreatedAtValue())
		})
	}
}

func TestTimestamp_PageWithMixedForms(t *testing.T) {
	var page []Competence
	require.NoError(t, json.Unmarshal([]byte(`[
		{"competenceId":1,"name":"Go","createdAt":"2024-01-15T10:30:00.1234567","reviewedAt":null},
		{"competenceId":2,"name":"Rust","createdAt":"2024-01-16T08:00:00Z","reviewedAt":"2024-01-17T09:00:00"}
	]`), &page))

	require.Len(t, page, 2)
	assert.True(t, page[0].CreatedAtValue().Before(page[1].CreatedAtValue()))
	assert.True(t, page[1].IsReviewed())

	var c Competence
	assert.Error(t, json.Unmarshal([]byte(`{"createdAt":"15/01/2024"}`), &c))
}

func TestCompetence_HasConsistentCategorization(t *testing.T) {
	one := 1
	tests := []struct {
		name string
		c    Competence
		want bool
	}{
		{name: "empty", c: Competence{}, want: true},
		{name: "full", c: Competence{AreaID: &one, CategoryID: &one, SubcategoryID: &one}, want: true},
		{name: "area only", c: Competence{AreaID: &one}, want: true},
		{name: "category without area", c: Competence{CategoryID: &one}, want: false},
		{name: "subcategory without category", c: Competence{AreaID: &one, SubcategoryID: &one}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.c.HasConsistentCategorization())
		})
	}
}

func TestBatchMapping_UnmarshalJSON(t *testing.T) {
	var b BatchMapping
	require.NoError(t, json.Unmarshal([]byte(`[{"input":"Go"}]`), &b))
	assert.Len(t, b.Results, 1)
	assert.False(t, b.IsPartial())

	require.NoError(t, json.Unmarshal([]byte(`{"results":[{"input":"Go"}],"Errors":["x: Validation failed"]}`), &b))
	assert.Len(t, b.Results, 1)
	assert.Equal(t, []string{"x: Validation failed"}, b.Errors)
	assert.True(t, b.IsPartial())
}

func TestBandFor(t *testing.T) {
	assert.Equal(t, ConfidenceHigh, BandFor(0.7))
	assert.Equal(t, ConfidenceMedium, BandFor(0.69))
	assert.Equal(t, ConfidenceMedium, BandFor(0.4))
	assert.Equal(t, ConfidenceLow, BandFor(0.39))
}

func TestMetadata_Cascade(t *testing.T) {
	m := Metadata{
		Areas:         []Area{{ID: 1, Name: "IT"}, {ID: 2, Name: "Industry"}},
		Categories:    []Category{{ID: 10, AreaID: 1, Name: "Programming"}, {ID: 20, AreaID: 2, Name: "Metal"}},
		Subcategories: []Subcategory{{ID: 100, CategoryID: 10, Name: "Go"}, {ID: 200, CategoryID: 20, Name: "Welding"}},
	}

	assert.Equal(t, []Category{{ID: 10, AreaID: 1, Name: "Programming"}}, m.CategoriesOf(1))
	assert.Equal(t, []Subcategory{{ID: 200, CategoryID: 20, Name: "Welding"}}, m.SubcategoriesOf(20))
	a, ok := m.AreaByID(2)
	assert.True(t, ok)
	assert.Equal(t, "Industry", a.Name)
	_, ok = m.CategoryByID(99)
	assert.False(t, ok)
}
