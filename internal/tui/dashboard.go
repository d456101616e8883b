package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/route"
)

// dashboardScreen shows the authenticated user's profile. It re-fetches
// /auth/me on entry so the displayed profile is never stale.
type dashboardScreen struct {
	session sessionController
	api     backendAPI
	user    domain.User
	loading bool
	errMsg  string
}

func newDashboardScreen(session sessionController, api backendAPI) *dashboardScreen {
	s := &dashboardScreen{session: session, api: api, loading: true}
	if st := session.State(); st.User != nil {
		s.user = *st.User
	}
	return s
}

func (s *dashboardScreen) Init() tea.Cmd {
	api := s.api
	return func() tea.Msg {
		user, err := api.Me(context.Background())
		return profileLoadedMsg{user: user, err: err}
	}
}

func (s *dashboardScreen) Update(msg tea.Msg) (screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "o":
			session := s.session
			return s, func() tea.Msg {
				session.Logout()
				return NavigateMsg{To: route.Landing}
			}
		case "m":
			return s, Navigate(route.BarberDashboard)
		case "esc":
			return s, Navigate(route.Landing)
		case "q":
			return s, tea.Quit
		}

	case profileLoadedMsg:
		s.loading = false
		if msg.err != nil {
			// A 401 already invalidated the session; the router redirects
			// on the resulting transition. Anything else stays visible.
			s.errMsg = msg.err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.user = msg.user
		return s, nil
	}

	return s, nil
}

func (s *dashboardScreen) View() string {
	v := titleStyle.Render("Your Dashboard") + "\n"
	if s.loading {
		v += "Loading profile...\n"
		return v
	}
	if s.errMsg != "" {
		v += errorStyle.Render(s.errMsg) + "\n"
	}

	name := s.user.Name
	if name == "" {
		name = "Not provided"
	}
	v += fmt.Sprintf("%s %s\n", labelStyle.Render("Name:     "), name)
	v += fmt.Sprintf("%s %s\n", labelStyle.Render("Email:    "), s.user.Email)
	v += fmt.Sprintf("%s %s\n", labelStyle.Render("User ID:  "), s.user.ID)
	v += fmt.Sprintf("%s %s\n", labelStyle.Render("Role:     "), string(s.user.Role))
	if !s.user.CreatedAt.IsZero() {
		v += fmt.Sprintf("%s %s\n", labelStyle.Render("Member since:"), s.user.CreatedAt.Format("Jan 2, 2006"))
	}

	help := "o logout · esc home · q quit"
	if s.user.Role == domain.RoleBarber {
		help = "m my shop · " + help
	}
	v += helpStyle.Render(help)
	return v
}
