package components

import (
	"github.com/Veraticus/mapping-lia/internal/api"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/review"
)

// LoginSubmittedMsg is sent when the login form passes validation.
type LoginSubmittedMsg struct {
	Username string
	Password string
}

// NotesSubmittedMsg carries the notes of a review action.
type NotesSubmittedMsg struct {
	Action api.Action
	Notes  string
	IDs    []model.ID
}

// CategorizationSubmittedMsg carries a validated categorization draft.
type CategorizationSubmittedMsg struct {
	ID    model.ID
	Draft review.Draft
}

// MapSubmittedMsg carries the lines to map.
type MapSubmittedMsg struct {
	Lines []string
}

// ModalClosedMsg is sent when a modal is dismissed without submitting.
type ModalClosedMsg struct{}
