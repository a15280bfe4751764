package components

import (
	"strings"
	"time"

	"github.com/Veraticus/mapping-lia/internal/cli"
	"github.com/Veraticus/mapping-lia/internal/feedback"
	"github.com/Veraticus/mapping-lia/internal/tui/themes"
)

// Toast lifetimes. Errors stay longer than successes.
const (
	SuccessToastTTL = 3 * time.Second
	ErrorToastTTL   = 5 * time.Second
)

type shownToast struct {
	expires time.Time
	toast   feedback.Toast
}

// ToastsModel holds the notifications currently on screen.
type ToastsModel struct {
	theme themes.Theme
	shown []shownToast
	limit int
}

// NewToastsModel shows at most limit toasts at a time.
func NewToastsModel(theme themes.Theme, limit int) ToastsModel {
	return ToastsModel{theme: theme, limit: max(limit, 1)}
}

// Push adds toasts shown from now.
func (m ToastsModel) Push(now time.Time, toasts ...feedback.Toast) ToastsModel {
	shown := append([]shownToast(nil), m.shown...)
	for _, t := range toasts {
		ttl := SuccessToastTTL
		if t.Level == feedback.LevelError {
			ttl = ErrorToastTTL
		}
		shown = append(shown, shownToast{toast: t, expires: now.Add(ttl)})
	}
	if over := len(shown) - m.limit; over > 0 {
		shown = shown[over:]
	}
	m.shown = shown
	return m
}

// Expire drops toasts whose time has passed.
func (m ToastsModel) Expire(now time.Time) ToastsModel {
	var kept []shownToast
	for _, s := range m.shown {
		if now.Before(s.expires) {
			kept = append(kept, s)
		}
	}
	m.shown = kept
	return m
}

// Toasts returns the visible toasts, oldest first.
func (m ToastsModel) Toasts() []feedback.Toast {
	out := make([]feedback.Toast, len(m.shown))
	for i, s := range m.shown {
		out[i] = s.toast
	}
	return out
}

// Len returns the number of visible toasts.
func (m ToastsModel) Len() int {
	return len(m.shown)
}

// View renders the visible toasts, one per line.
func (m ToastsModel) View() string {
	lines := make([]string, 0, len(m.shown))
	for _, s := range m.shown {
		switch s.toast.Level {
		case feedback.LevelSuccess:
			lines = append(lines, m.theme.StatusSuccess.Render(cli.SuccessIcon+" "+s.toast.Text))
		case feedback.LevelError:
			lines = append(lines, m.theme.StatusError.Render(cli.ErrorIcon+" "+s.toast.Text))
		default:
			lines = append(lines, m.theme.StatusInfo.Render(cli.InfoIcon+" "+s.toast.Text))
		}
	}
	return strings.Join(lines, "\n")
}
