// Package tui renders the NAAI screens in the terminal. The bubbletea
// program loop is the application's single cooperative event loop: session
// operations and backend fetches run as commands, their completions come
// back as messages, and the router re-evaluates the route guards on every
// session transition.
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/ports"
	"github.com/naai-app/naai/internal/core/route"
)

// sessionController is the slice of the session manager the screens use.
type sessionController interface {
	Initialize(ctx context.Context)
	Login(ctx context.Context, email, password string) error
	Signup(ctx context.Context, input ports.SignupInput) error
	Logout()
	State() domain.SessionState
}

// backendAPI is everything the screens fetch from the server.
type backendAPI interface {
	ports.AuthAPI
	ports.ShopAPI
}

// screen is one renderable view. Screens are rebuilt on navigation, so each
// entry starts fresh the way a remounted component would.
type screen interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (screen, tea.Cmd)
	View() string
}

// App is the root model: it owns the current route, the latest session
// state, and the active screen, and applies guard decisions on every
// navigation request and session transition.
type App struct {
	session sessionController
	api     backendAPI
	log     zerolog.Logger

	state    domain.SessionState
	route    route.Route
	decision route.Decision
	screen   screen

	width  int
	height int
}

// New builds the root model starting on the landing screen. Session state
// starts as whatever the manager currently reports (unknown before
// Initialize completes).
func New(session sessionController, api backendAPI, log zerolog.Logger) *App {
	a := &App{
		session: session,
		api:     api,
		log:     log,
		state:   session.State(),
	}
	a.route = route.Landing
	a.decision = route.Resolve(a.route, a.state)
	a.screen = a.buildScreen(a.route)
	return a
}

// Route returns the route the router currently resolves to. Exposed for
// tests.
func (a *App) Route() route.Route { return a.route }

func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{a.initializeCmd()}
	if a.decision.Action == route.Render && a.screen != nil {
		cmds = append(cmds, a.screen.Init())
	}
	return tea.Batch(cmds...)
}

// initializeCmd runs startup session recovery exactly once. Its transitions
// arrive through SessionMsg; the returned message only marks completion.
func (a *App) initializeCmd() tea.Cmd {
	return func() tea.Msg {
		a.session.Initialize(context.Background())
		return initializedMsg{}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}

	case SessionMsg:
		a.state = msg.State
		// Re-run the guard for the current route: a transition can turn a
		// rendered screen into a redirect (logout, 401) or resolve the
		// startup placeholder.
		return a, a.goTo(a.route)

	case NavigateMsg:
		return a, a.goTo(msg.To)

	case initializedMsg:
		a.log.Debug().Msg("session recovery finished")
		return a, nil
	}

	if a.screen != nil {
		var cmd tea.Cmd
		a.screen, cmd = a.screen.Update(msg)
		return a, cmd
	}
	return a, nil
}

// goTo resolves the guard table for the requested route and applies the
// decision. Redirects are followed to a terminal Render/Loading decision
// and replace the current route: the discarded request is not kept in any
// history.
func (a *App) goTo(r route.Route) tea.Cmd {
	decision := route.Resolve(r, a.state)
	for decision.Action == route.Redirect {
		r = decision.Target
		decision = route.Resolve(r, a.state)
	}

	sameScreen := r == a.route && a.screen != nil && a.decision.Action == route.Render
	a.decision = decision
	if decision.Action == route.Loading {
		a.route = r
		return nil
	}
	a.route = r
	if sameScreen {
		return nil
	}
	a.screen = a.buildScreen(r)
	return a.screen.Init()
}

func (a *App) buildScreen(r route.Route) screen {
	switch r {
	case route.Login:
		return newLoginScreen(a.session)
	case route.Signup:
		return newSignupScreen(a.session)
	case route.Dashboard:
		return newDashboardScreen(a.session, a.api)
	case route.BarberDashboard:
		return newBarberScreen(a.api)
	default:
		return newLandingScreen(a.api)
	}
}

func (a *App) View() string {
	if a.decision.Action == route.Loading {
		return a.centered("Loading...")
	}
	body := ""
	if a.screen != nil {
		body = a.screen.View()
	}
	return screenStyle.Render(a.navbar() + "\n" + body)
}

// navbar mirrors the original application's header: brand, the links that
// make sense for the current session state, and the signed-in identity.
func (a *App) navbar() string {
	brand := navActiveStyle.Render("✂ NAAI")
	links := "  home"
	if a.state.Authenticated() {
		if a.state.User != nil && a.state.User.Role == domain.RoleBarber {
			links += " · my shop"
		}
		links += " · dashboard · logout"
		if a.state.User != nil {
			links += "   " + labelStyle.Render(a.state.User.Email)
		}
	} else {
		links += " · login · sign up"
	}
	return navStyle.Render(brand + links)
}

func (a *App) centered(s string) string {
	if a.width == 0 || a.height == 0 {
		return s
	}
	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, s)
}
