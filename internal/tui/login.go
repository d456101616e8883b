package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naai-app/naai/internal/core/domain"
)

type loginScreen struct {
	session    sessionController
	inputs     []textinput.Model
	focus      int
	submitting bool
	errMsg     string
}

func newLoginScreen(session sessionController) *loginScreen {
	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.CharLimit = 120

	return &loginScreen{
		session: session,
		inputs:  []textinput.Model{email, password},
	}
}

func (s *loginScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *loginScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus(s.focus + 1)
		case "shift+tab", "up":
			return s, s.setFocus(s.focus - 1)
		case "enter":
			if s.focus < len(s.inputs)-1 {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.submit()
		case "esc":
			return s, Navigate("/")
		}

	case loginResultMsg:
		s.submitting = false
		if msg.err != nil && !errors.Is(msg.err, domain.ErrSuperseded) {
			s.errMsg = msg.err.Error()
		}
		// On success the session transition redirects this screen away.
		return s, nil
	}

	var cmd tea.Cmd
	s.inputs[s.focus], cmd = s.inputs[s.focus].Update(msg)
	return s, cmd
}

func (s *loginScreen) setFocus(i int) tea.Cmd {
	if i < 0 {
		i = len(s.inputs) - 1
	}
	if i >= len(s.inputs) {
		i = 0
	}
	s.inputs[s.focus].Blur()
	s.focus = i
	return s.inputs[s.focus].Focus()
}

func (s *loginScreen) submit() tea.Cmd {
	if s.submitting {
		return nil
	}
	email := s.inputs[0].Value()
	password := s.inputs[1].Value()
	s.submitting = true
	s.errMsg = ""
	session := s.session
	return func() tea.Msg {
		return loginResultMsg{err: session.Login(context.Background(), email, password)}
	}
}

func (s *loginScreen) View() string {
	v := titleStyle.Render("Login") + "\n"
	v += labelStyle.Render("Email") + "\n" + s.inputs[0].View() + "\n\n"
	v += labelStyle.Render("Password") + "\n" + s.inputs[1].View() + "\n"
	if s.errMsg != "" {
		v += "\n" + errorStyle.Render(s.errMsg) + "\n"
	}
	if s.submitting {
		v += "\n" + labelStyle.Render("Logging in...") + "\n"
	}
	v += helpStyle.Render("enter submit · tab next field · esc back")
	return v
}
