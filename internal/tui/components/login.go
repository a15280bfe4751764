package components

import (
	"strings"

	"github.com/Veraticus/mapping-lia/internal/api"
	"github.com/Veraticus/mapping-lia/internal/tui/themes"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Login form fields.
const (
	FieldUsername = "username"
	FieldPassword = "password"
)

var loginFields = []string{FieldUsername, FieldPassword}

// LoginModel is the username and password form.
type LoginModel struct {
	theme      themes.Theme
	errors     map[string]string
	inputs     [2]textinput.Model
	focus      int
	width      int
	submitting bool
}

// NewLoginModel creates an empty form with the username focused.
func NewLoginModel(theme themes.Theme) LoginModel {
	username := textinput.New()
	username.Prompt = ""
	username.Placeholder = "Username"
	username.CharLimit = 200
	username.Focus()

	password := textinput.New()
	password.Prompt = ""
	password.Placeholder = "Password"
	password.CharLimit = 400
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return LoginModel{
		theme:  theme,
		errors: map[string]string{},
		inputs: [2]textinput.Model{username, password},
	}
}

// Init returns the cursor blink.
func (m LoginModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	if m.submitting {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "down":
			return m.moveFocus(1), nil
		case "shift+tab", "up":
			return m.moveFocus(-1), nil
		case "enter":
			if loginFields[m.focus] == FieldUsername {
				return m.moveFocus(1), nil
			}
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// moveFocus validates the field being left, the way a form validates on blur.
func (m LoginModel) moveFocus(delta int) LoginModel {
	left := loginFields[m.focus]
	m.errors = m.withError(left, m.request().FieldErrors()[left])

	m.focus = (m.focus + delta + len(loginFields)) % len(loginFields)
	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return m
}

func (m LoginModel) submit() (LoginModel, tea.Cmd) {
	req := m.request()
	m.errors = req.FieldErrors()
	if len(m.errors) > 0 {
		return m, nil
	}
	m.submitting = true
	return m, func() tea.Msg {
		return LoginSubmittedMsg{Username: req.Username, Password: req.Password}
	}
}

func (m LoginModel) request() api.LoginRequest {
	return api.LoginRequest{
		Username: m.inputs[0].Value(),
		Password: m.inputs[1].Value(),
	}
}

func (m LoginModel) withError(name, msg string) map[string]string {
	out := make(map[string]string, len(m.errors))
	for k, v := range m.errors {
		out[k] = v
	}
	if msg == "" {
		delete(out, name)
	} else {
		out[name] = msg
	}
	return out
}

// Failed re-enables the form after a rejected login and clears the password.
func (m LoginModel) Failed() LoginModel {
	m.submitting = false
	m.inputs[1].SetValue("")
	return m
}

// Submitting reports whether a login request is in flight.
func (m LoginModel) Submitting() bool {
	return m.submitting
}

// Errors returns the current field errors.
func (m LoginModel) Errors() map[string]string {
	return m.errors
}

// Focused returns the focused field name.
func (m LoginModel) Focused() string {
	return loginFields[m.focus]
}

// Resize sets the form width.
func (m *LoginModel) Resize(width int) {
	m.width = width
}

// View renders the form.
func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(m.theme.Title.Render("Mapping LIA"))
	b.WriteString("\n")
	b.WriteString(m.theme.Subtitle.Render("Login"))
	b.WriteString("\n\n")

	for i, name := range loginFields {
		label := "Username"
		if name == FieldPassword {
			label = "Password"
		}
		style := m.theme.Faint
		if i == m.focus {
			style = m.theme.Bold
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
		b.WriteString(m.theme.BorderedBox.Width(max(m.width/2, 30)).Render(m.inputs[i].View()))
		b.WriteString("\n")
		if msg := m.errors[name]; msg != "" {
			b.WriteString(m.theme.FieldError.Render(msg))
			b.WriteString("\n")
		}
	}

	button := "Login"
	if m.submitting {
		button = "Logging in..."
	}
	b.WriteString("\n")
	b.WriteString(m.theme.TabActive.Render(button))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
