package components

import (
	"fmt"
	"strings"

	"github.com/Veraticus/mapping-lia/internal/api"
	"github.com/Veraticus/mapping-lia/internal/model"
	"github.com/Veraticus/mapping-lia/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// NotesRequiredMessage is shown when a reject is submitted without notes.
const NotesRequiredMessage = "Rejection notes are required"

// NotesModel is the modal that collects review notes for one or many competences.
type NotesModel struct {
	theme    themes.Theme
	title    string
	label    string
	err      string
	action   api.Action
	ids      []model.ID
	input    textarea.Model
	required bool
}

// NewNotesModel creates the modal for action on ids. Reject requires notes;
// other actions fall back to their default notes when left empty.
func NewNotesModel(action api.Action, ids []model.ID, theme themes.Theme) NotesModel {
	label := "Review notes (optional):"
	if action == api.ActionReject {
		label = "Rejection notes:"
	}

	ta := textarea.New()
	ta.Placeholder = "Notes..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 2000
	ta.SetWidth(60)
	ta.SetHeight(5)
	ta.Focus()

	return NotesModel{
		theme:    theme,
		title:    notesTitle(action, len(ids)),
		label:    label,
		action:   action,
		ids:      ids,
		input:    ta,
		required: action == api.ActionReject,
	}
}

func notesTitle(action api.Action, n int) string {
	verb := "Reject"
	switch action {
	case api.ActionApprove:
		verb = "Approve"
	case api.ActionAssignOther:
		verb = "Assign to Other"
	}
	if n == 1 {
		return verb + " competence"
	}
	return fmt.Sprintf("%s %d competences", verb, n)
}

// Init returns the cursor blink.
func (m NotesModel) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles messages. Ctrl+S submits, Esc cancels.
func (m NotesModel) Update(msg tea.Msg) (NotesModel, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return m, func() tea.Msg { return ModalClosedMsg{} }
		case "ctrl+s":
			notes := strings.TrimSpace(m.input.Value())
			if m.required && notes == "" {
				m.err = NotesRequiredMessage
				return m, nil
			}
			out := NotesSubmittedMsg{Action: m.action, IDs: m.ids, Notes: notes}
			return m, func() tea.Msg { return out }
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.err != "" && strings.TrimSpace(m.input.Value()) != "" {
		m.err = ""
	}
	return m, cmd
}

// SetValue replaces the notes text.
func (m *NotesModel) SetValue(s string) {
	m.input.SetValue(s)
}

// Err returns the validation message, if any.
func (m NotesModel) Err() string {
	return m.err
}

// View renders the modal.
func (m NotesModel) View() string {
	var b strings.Builder
	b.WriteString(m.theme.Title.Render(m.title))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render(m.label))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.err != "" {
		b.WriteString(m.theme.FieldError.Render(m.err))
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Faint.Render("ctrl+s submit • esc cancel"))
	return m.theme.Modal.Render(b.String())
}
