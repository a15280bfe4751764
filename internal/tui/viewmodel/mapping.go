package viewmodel

import (
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/model"
)

// MappingView is one mapped competence.
type MappingView struct {
	Input      string
	Normalized string
	Area       string
	Band       model.ConfidenceBand
	Percentage int
}

// BatchView is the outcome of a batch mapping.
type BatchView struct {
	Results []MappingView
	Errors  []string
}

// Mapping builds the view of a single mapping result.
func Mapping(r model.MappingResult) MappingView {
	c := 0.0
	if r.Confidence != nil {
		c = *r.Confidence
	}
	return MappingView{
		Input:      r.Input,
		Normalized: orPlaceholder(r.Normalized),
		Area:       orPlaceholder(r.Area),
		Band:       model.BandFor(c),
		Percentage: Percentage(c),
	}
}

// Batch builds the view of a batch mapping; per-line errors are made friendly.
func Batch(b model.BatchMapping) BatchView {
	out := BatchView{Errors: feedback.BatchErrors(b)}
	for _, r := range b.Results {
		out.Results = append(out.Results, Mapping(r))
	}
	return out
}

// IsEmpty reports whether there is neither a result nor an error.
func (b BatchView) IsEmpty() bool {
	return len(b.Results) == 0 && len(b.Errors) == 0
}

// Outcome is the notification text for a finished batch and whether it
// counts as a success.
func (b BatchView) Outcome() (string, bool) {
	switch {
	case len(b.Errors) == 0:
		return fmt.Sprintf("%d competences mapped successfully", len(b.Results)), true
	case len(b.Results) > 0:
		return fmt.Sprintf("%d competences mapped successfully, but %d failed", len(b.Results), len(b.Errors)), true
	default:
		return fmt.Sprintf("%d competences failed to map", len(b.Errors)), false
	}
}

// Percentage converts a 0..1 confidence to a rounded percentage.
func Percentage(confidence float64) int {
	return int(math.Round(confidence * 100))
}

// ConfidenceBar returns a text bar of width cells filled to percentage.
func ConfidenceBar(percentage, width int) string {
	if width <= 0 {
		return ""
	}
	percentage = min(max(percentage, 0), 100)
	filled := percentage * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
