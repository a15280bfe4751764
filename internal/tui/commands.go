package tui

import (
	"context"
	"time"

	"github.com/Veraticus/mapping-lia/internal/api"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/review"
	tea "github.com/charmbracelet/bubbletea"
)

const tickInterval = 250 * time.Millisecond

func (m Model) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(m.ctx, m.config.RequestTimeout)
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// login authenticates and persists the session.
func (m Model) login(username, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		s, err := m.config.Auth.Login(ctx, username, password)
		if err != nil {
			return loginResultMsg{err: err}
		}
		if err := m.config.Sessions.Login(ctx, s); err != nil {
			return loginResultMsg{err: err}
		}
		return loginResultMsg{session: s}
	}
}

func (m Model) logout() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return loggedOutMsg{err: m.config.Sessions.Logout(ctx)}
	}
}

// reload refetches the active tab.
func (m Model) reload() tea.Cmd {
	list := m.config.List
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return reloadedMsg{err: list.Reload(ctx)}
	}
}

func (m Model) switchTab(tab review.Tab) tea.Cmd {
	list := m.config.List
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return reloadedMsg{err: list.SwitchTab(ctx, tab)}
	}
}

// review runs a review action on ids. The list reports the outcome through
// the notification queue and reloads on success.
func (m Model) review(action api.Action, ids []model.ID, notes string) tea.Cmd {
	list := m.config.List
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()

		var err error
		switch action {
		case api.ActionApprove:
			err = list.Approve(ctx, ids, notes)
		case api.ActionReject:
			err = list.Reject(ctx, ids, notes)
		case api.ActionAssignOther:
			err = list.AssignOther(ctx, ids, notes)
		}
		return mutationDoneMsg{err: err}
	}
}

func (m Model) recategorize(id model.ID, d review.Draft) tea.Cmd {
	list := m.config.List
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		return mutationDoneMsg{err: list.Recategorize(ctx, id, d)}
	}
}

func (m Model) loadMetadata(c model.Competence) tea.Cmd {
	list := m.config.List
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		md, err := list.Metadata(ctx)
		return metadataLoadedMsg{competence: c, metadata: md, err: err}
	}
}

func (m Model) mapLines(lines []string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := m.requestContext()
		defer cancel()
		b, err := m.config.Mapper.MapLines(ctx, lines)
		return mapResultMsg{batch: b, err: err}
	}
}
