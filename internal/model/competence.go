// Package model defines the core domain models used throughout the application.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ReviewStatus is the backend-owned lifecycle state of a competence.
type ReviewStatus string

// Review status constants.
const (
	StatusPendingReview ReviewStatus = "PendingReview"
	StatusApproved      ReviewStatus = "Approved"
	StatusRejected      ReviewStatus = "Rejected"
)

// ID identifies a competence. The backend sends either a string or an integer,
// both are kept in their textual form.
type ID string

// UnmarshalJSON accepts JSON strings and numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("competence id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes numeric ids as numbers so they round-trip with the backend.
func (id ID) MarshalJSON() ([]byte, error) {
	if _, err := strconv.ParseInt(string(id), 10, 64); err == nil {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

// String returns the textual id.
func (id ID) String() string {
	return string(id)
}

// Timestamp is a backend time. Values without a zone offset are read as UTC.
type Timestamp struct {
	time.Time
}

// localLayout is the offset-less form the backend emits for unspecified times.
const localLayout = "2006-01-02T15:04:05.9999999"

// UnmarshalJSON accepts RFC 3339 and the offset-less layout.
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		ts.Time = t
		return nil
	}
	t, err := time.ParseInLocation(localLayout, s, time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp %q: %w", s, err)
	}
	ts.Time = t
	return nil
}

// Competence is a free-text skill string together with the backend's categorization.
type Competence struct {
	CreatedAt       *Timestamp   `json:"createdAt,omitempty"`
	ReviewedAt      *Timestamp   `json:"reviewedAt,omitempty"`
	Confidence      *float64     `json:"confidence,omitempty"`
	AreaID          *int         `json:"areaId,omitempty"`
	CategoryID      *int         `json:"categoryId,omitempty"`
	SubcategoryID   *int         `json:"subcategoryId,omitempty"`
	CompetenceID    ID           `json:"competenceId"`
	Name            string       `json:"name"`
	Normalized      string       `json:"normalized,omitempty"`
	AreaName        string       `json:"areaName,omitempty"`
	CategoryName    string       `json:"categoryName,omitempty"`
	SubcategoryName string       `json:"subcategoryName,omitempty"`
	MatchedType     string       `json:"matchedType,omitempty"`
	Status          ReviewStatus `json:"status,omitempty"`
	ReviewNotes     string       `json:"reviewNotes,omitempty"`
}

// ConfidenceValue returns the confidence, treating an absent value as 0.
func (c Competence) ConfidenceValue() float64 {
	if c.Confidence == nil {
		return 0
	}
	return *c.Confidence
}

// CreatedAtValue returns the creation time, treating an absent value as the zero time.
func (c Competence) CreatedAtValue() time.Time {
	if c.CreatedAt == nil {
		return time.Time{}
	}
	return c.CreatedAt.Time
}

// IsReviewed reports whether the backend has recorded a review.
func (c Competence) IsReviewed() bool {
	return c.ReviewedAt != nil
}

// HasConsistentCategorization reports whether the hierarchy invariant holds:
// a subcategory requires a category and a category requires an area.
func (c Competence) HasConsistentCategorization() bool {
	if c.SubcategoryID != nil && c.CategoryID == nil {
		return false
	}
	if c.CategoryID != nil && c.AreaID == nil {
		return false
	}
	return true
}
