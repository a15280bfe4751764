package model

import (
	"bytes"
	"encoding/json"
)

// MappingResult is the backend's classification of a single competence string.
type MappingResult struct {
	Confidence  *float64 `json:"confidence,omitempty"`
	Input       string   `json:"input"`
	Normalized  string   `json:"normalized,omitempty"`
	Area        string   `json:"area,omitempty"`
	Category    string   `json:"category,omitempty"`
	Subcategory string   `json:"subcategory,omitempty"`
	MatchedType string   `json:"matchedType,omitempty"`
}

// SingleMapping wraps the result of mapping one competence. ErrorMessage is set
// when the backend could not map the input.
type SingleMapping struct {
	Response     *MappingResult `json:"response,omitempty"`
	ErrorMessage string         `json:"errorMessage,omitempty"`
}

// BatchMapping is the result of mapping many lines at once. Errors carries
// per-line failures in "competence: message" form when only part of the batch succeeded.
type BatchMapping struct {
	Results []MappingResult `json:"results"`
	Errors  []string        `json:"errors"`
}

// UnmarshalJSON accepts either the {results, errors} object or a bare array of results.
func (b *BatchMapping) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var results []MappingResult
		if err := json.Unmarshal(data, &results); err != nil {
			return err
		}
		*b = BatchMapping{Results: results}
		return nil
	}
	type plain BatchMapping
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*b = BatchMapping(p)
	return nil
}

// IsPartial reports whether some lines failed while others succeeded.
func (b BatchMapping) IsPartial() bool {
	return len(b.Errors) > 0 && len(b.Results) > 0
}

// ConfidenceBand buckets a confidence value for display.
type ConfidenceBand string

// Confidence bands.
const (
	ConfidenceHigh   ConfidenceBand = "high"
	ConfidenceMedium ConfidenceBand = "medium"
	ConfidenceLow    ConfidenceBand = "low"
)

// BandFor returns the display band of a confidence value.
func BandFor(confidence float64) ConfidenceBand {
	switch {
	case confidence >= 0.7:
		return ConfidenceHigh
	case confidence >= 0.4:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Session is the persisted credential of a logged-in user.
type Session struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}
