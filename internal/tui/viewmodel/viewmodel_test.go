package viewmodel

import (
	"strings"
	"testing"

	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/review"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestShortNotes(t *testing.T) {
	tests := []struct {
		name          string
		notes         string
		want          string
		limit         int
		wantTruncated bool
	}{
		{name: "short", notes: "ok", limit: 5, want: "ok"},
		{name: "exact", notes: "12345", limit: 5, want: "12345"},
		{name: "cut", notes: "123456", limit: 5, want: "12345…", wantTruncated: true},
		{name: "runes", notes: "ååååå", limit: 2, want: "åå…", wantTruncated: true},
		{name: "no limit", notes: "anything", limit: 0, want: "anything"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, truncated := ShortNotes(tt.notes, tt.limit)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantTruncated, truncated)
		})
	}
}

func TestCard(t *testing.T) {
	long := strings.Repeat("n", CardNotesLimit+10)
	c := model.Competence{
		CompetenceID: "7",
		Name:         "Go",
		AreaName:     "IT",
		Confidence:   ptr(0.876),
		ReviewNotes:  long,
	}

	card := Card(c, true, false)
	assert.Equal(t, model.ID("7"), card.ID)
	assert.Equal(t, "IT", card.Area)
	assert.Equal(t, Placeholder, card.Category)
	assert.Equal(t, Placeholder, card.Subcategory)
	assert.Equal(t, "0.88", card.Confidence)
	assert.True(t, card.Truncated)
	assert.Len(t, []rune(card.Notes), CardNotesLimit+1)
	assert.True(t, card.Selected)

	expanded := Card(c, false, true)
	assert.Equal(t, long, expanded.Notes)
	assert.False(t, expanded.Truncated)

	bare := Card(model.Competence{Name: "x"}, false, false)
	assert.Equal(t, Placeholder, bare.Confidence)
	assert.Equal(t, Placeholder, bare.Notes)
}

func TestRow(t *testing.T) {
	c := model.Competence{
		Name:         "Welding",
		AreaName:     "Craft",
		CategoryName: "Metal",
		ReviewNotes:  "line one\nline two",
	}

	row := Row(c, false, false)
	require.Len(t, row.Cells, len(TableHeader))
	assert.Equal(t, []string{"Welding", "Craft", "line one line two", "Metal", Placeholder, ""}, row.Cells)

	row = Row(model.Competence{ReviewNotes: strings.Repeat("x", 200)}, false, false)
	assert.True(t, row.Truncated)
	assert.Len(t, []rune(row.Cells[2]), TableNotesLimit+1)
}

func TestList(t *testing.T) {
	items := []model.Competence{
		{CompetenceID: "1", Name: "a"},
		{CompetenceID: "2", Name: "b"},
		{CompetenceID: "3", Name: "c"},
	}
	v := review.View{
		Tab:      review.TabPending,
		Page:     review.Paginate(items, 0, 2),
		Selected: review.NewIDSet("1", "2"),
		Sort:     review.Sort{Field: review.SortConfidence, Direction: review.Descending},
		Filter:   review.Filter{Search: "go", Area: "IT"},
		Loaded:   3,
	}

	lv := List(v, 1)
	require.Len(t, lv.Cards, 2)
	assert.Empty(t, lv.Rows)
	assert.True(t, lv.Cards[1].Focused)
	assert.True(t, lv.AllSelected)
	assert.Equal(t, 2, lv.SelectedCount)
	assert.Equal(t, "Page 1 of 2", lv.PageLabel)
	assert.True(t, lv.HasMore)
	assert.False(t, lv.HasPrev)
	assert.Equal(t, "confidence ↓", lv.Sort)
	assert.Equal(t, []string{"search: go", "area: IT"}, lv.Filters)
	assert.True(t, lv.HasFilter())

	v.Tab = review.TabApproved
	v.Page = review.Paginate(nil, 0, 5)
	lv = List(v, 0)
	assert.True(t, lv.IsEmpty())
	assert.False(t, lv.AllSelected)
	assert.Equal(t, "Page 1 of 1", lv.PageLabel)
}

func TestBatch(t *testing.T) {
	tests := []struct {
		name        string
		batch       model.BatchMapping
		wantText    string
		wantSuccess bool
	}{
		{
			name:        "all mapped",
			batch:       model.BatchMapping{Results: []model.MappingResult{{Input: "Go"}, {Input: "C#"}}},
			wantText:    "2 competences mapped successfully",
			wantSuccess: true,
		},
		{
			name: "partial",
			batch: model.BatchMapping{
				Results: []model.MappingResult{{Input: "Go"}},
				Errors:  []string{"xyz: failed"},
			},
			wantText:    "1 competences mapped successfully, but 1 failed",
			wantSuccess: true,
		},
		{
			name:     "all failed",
			batch:    model.BatchMapping{Errors: []string{"a: x", "b: y"}},
			wantText: "2 competences failed to map",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, ok := Batch(tt.batch).Outcome()
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantSuccess, ok)
		})
	}
}

func TestMapping(t *testing.T) {
	tests := []struct {
		confidence *float64
		name       string
		wantBand   model.ConfidenceBand
		wantPct    int
	}{
		{name: "high", confidence: ptr(0.912), wantBand: model.ConfidenceHigh, wantPct: 91},
		{name: "medium", confidence: ptr(0.4), wantBand: model.ConfidenceMedium, wantPct: 40},
		{name: "low", confidence: ptr(0.125), wantBand: model.ConfidenceLow, wantPct: 13},
		{name: "absent", wantBand: model.ConfidenceLow, wantPct: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mv := Mapping(model.MappingResult{Input: "x", Confidence: tt.confidence})
			assert.Equal(t, tt.wantBand, mv.Band)
			assert.Equal(t, tt.wantPct, mv.Percentage)
			assert.Equal(t, Placeholder, mv.Area)
		})
	}
}

func TestConfidenceBar(t *testing.T) {
	assert.Equal(t, "█████░░░░░", ConfidenceBar(50, 10))
	assert.Equal(t, "░░░░", ConfidenceBar(-5, 4))
	assert.Equal(t, "████", ConfidenceBar(150, 4))
	assert.Empty(t, ConfidenceBar(50, 0))
}

func TestSelection(t *testing.T) {
	assert.Empty(t, Selection(0))
	assert.Equal(t, "3 selected", Selection(3))
}
