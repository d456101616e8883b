package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/ports"
)

const (
	signupFieldName = iota
	signupFieldEmail
	signupFieldRole
	signupFieldPassword
	signupFieldConfirm
	signupFieldCount
)

type signupScreen struct {
	session    sessionController
	inputs     map[int]*textinput.Model
	focus      int
	role       domain.Role
	submitting bool
	errMsg     string
}

func newSignupScreen(session sessionController) *signupScreen {
	mk := func(placeholder string, password bool) *textinput.Model {
		ti := textinput.New()
		ti.Placeholder = placeholder
		ti.CharLimit = 120
		if password {
			ti.EchoMode = textinput.EchoPassword
		}
		return &ti
	}

	s := &signupScreen{
		session: session,
		role:    domain.RoleCustomer,
		inputs: map[int]*textinput.Model{
			signupFieldName:     mk("name (optional)", false),
			signupFieldEmail:    mk("email", false),
			signupFieldPassword: mk("password (min. 6 characters)", true),
			signupFieldConfirm:  mk("confirm password", true),
		},
	}
	s.inputs[signupFieldName].Focus()
	return s
}

func (s *signupScreen) Init() tea.Cmd {
	return textinput.Blink
}

func (s *signupScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "tab", "down":
			return s, s.setFocus(s.focus + 1)
		case "shift+tab", "up":
			return s, s.setFocus(s.focus - 1)
		case "left", "right", " ":
			if s.focus == signupFieldRole {
				s.toggleRole()
				return s, nil
			}
		case "enter":
			if s.focus < signupFieldCount-1 {
				return s, s.setFocus(s.focus + 1)
			}
			return s, s.submit()
		case "esc":
			return s, Navigate("/")
		}

	case signupResultMsg:
		s.submitting = false
		if msg.err != nil && !errors.Is(msg.err, domain.ErrSuperseded) {
			s.errMsg = msg.err.Error()
		}
		return s, nil
	}

	if in, ok := s.inputs[s.focus]; ok {
		var cmd tea.Cmd
		*in, cmd = in.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *signupScreen) toggleRole() {
	if s.role == domain.RoleCustomer {
		s.role = domain.RoleBarber
	} else {
		s.role = domain.RoleCustomer
	}
}

func (s *signupScreen) setFocus(i int) tea.Cmd {
	if i < 0 {
		i = signupFieldCount - 1
	}
	if i >= signupFieldCount {
		i = 0
	}
	if in, ok := s.inputs[s.focus]; ok {
		in.Blur()
	}
	s.focus = i
	if in, ok := s.inputs[s.focus]; ok {
		return in.Focus()
	}
	return nil
}

func (s *signupScreen) submit() tea.Cmd {
	if s.submitting {
		return nil
	}
	input := ports.SignupInput{
		Name:            s.inputs[signupFieldName].Value(),
		Email:           s.inputs[signupFieldEmail].Value(),
		Password:        s.inputs[signupFieldPassword].Value(),
		ConfirmPassword: s.inputs[signupFieldConfirm].Value(),
		Role:            s.role,
	}
	s.submitting = true
	s.errMsg = ""
	session := s.session
	return func() tea.Msg {
		return signupResultMsg{err: session.Signup(context.Background(), input)}
	}
}

func (s *signupScreen) View() string {
	v := titleStyle.Render("Sign Up") + "\n"
	v += labelStyle.Render("Name") + "\n" + s.inputs[signupFieldName].View() + "\n\n"
	v += labelStyle.Render("Email") + "\n" + s.inputs[signupFieldEmail].View() + "\n\n"
	v += labelStyle.Render("Register as") + "\n" + s.roleView() + "\n\n"
	v += labelStyle.Render("Password") + "\n" + s.inputs[signupFieldPassword].View() + "\n\n"
	v += labelStyle.Render("Confirm password") + "\n" + s.inputs[signupFieldConfirm].View() + "\n"
	if s.errMsg != "" {
		v += "\n" + errorStyle.Render(s.errMsg) + "\n"
	}
	if s.submitting {
		v += "\n" + labelStyle.Render("Creating account...") + "\n"
	}
	v += helpStyle.Render("enter submit · tab next field · ←/→ switch role · esc back")
	return v
}

func (s *signupScreen) roleView() string {
	customer := "( ) customer"
	barber := "( ) barber"
	if s.role == domain.RoleCustomer {
		customer = "(•) customer"
	} else {
		barber = "(•) barber"
	}
	line := customer + "   " + barber
	if s.focus == signupFieldRole {
		return navActiveStyle.Render(line)
	}
	return line
}
