package tui

import (
	"time"

	"github.com/Veraticus/mapping-lia/internal/model"
)

// Screen is the active view.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenReview
	ScreenMap
)

// String returns the screen name.
func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenReview:
		return "review"
	case ScreenMap:
		return "map"
	default:
		return "unknown"
	}
}

// Mode is what the review screen's keys currently drive.
type Mode int

const (
	ModeBrowse Mode = iota
	ModeSearch
	ModeNotes
	ModeCategorize
)

// Backend results.
type loginResultMsg struct {
	err     error
	session model.Session
}

type reloadedMsg struct {
	err error
}

type mutationDoneMsg struct {
	err error
}

type metadataLoadedMsg struct {
	err        error
	metadata   model.Metadata
	competence model.Competence
}

type mapResultMsg struct {
	err   error
	batch model.BatchMapping
}

type loggedOutMsg struct {
	err error
}

// navigateLoginMsg is sent from outside the program when the credential is
// rejected or expired.
type navigateLoginMsg struct{}

type tickMsg time.Time
