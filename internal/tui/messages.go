package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/route"
)

// SessionMsg delivers a session state transition into the program loop. The
// composition root bridges the session manager's observer callback to
// Program.Send with this type.
type SessionMsg struct {
	State domain.SessionState
}

// NavigateMsg asks the router to move to another screen. The route guards
// decide what actually renders.
type NavigateMsg struct {
	To route.Route
}

// Navigate builds a command that requests navigation to the given route.
func Navigate(to route.Route) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{To: to} }
}

// initializedMsg marks the completion of startup session recovery. The
// resulting state arrives separately through SessionMsg.
type initializedMsg struct{}

// --- Screen completion messages ---

type shopsLoadedMsg struct {
	shops []domain.Shop
	err   error
}

type loginResultMsg struct {
	err error
}

type signupResultMsg struct {
	err error
}

type profileLoadedMsg struct {
	user domain.User
	err  error
}

type myShopLoadedMsg struct {
	shop domain.Shop
	err  error
}

type shopSavedMsg struct {
	shop domain.Shop
	err  error
}

type serviceAddedMsg struct {
	shop domain.Shop
	err  error
}
