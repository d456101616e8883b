// Package route decides which screen a navigation request resolves to,
// given the current session state. Guard policies are pure functions so the
// TUI router can re-evaluate them on every session transition.
package route

// Route identifies a navigable screen by its path.
type Route string

const (
	Landing         Route = "/"
	Login           Route = "/login"
	Signup          Route = "/signup"
	Dashboard       Route = "/dashboard"
	BarberDashboard Route = "/barber/dashboard"
)

// Known reports whether r names an existing screen.
func Known(r Route) bool {
	switch r {
	case Landing, Login, Signup, Dashboard, BarberDashboard:
		return true
	}
	return false
}

// Action is what the router should do with a navigation request.
type Action int

const (
	// Render shows the requested screen.
	Render Action = iota
	// Redirect replaces the requested route with Target. The discarded
	// navigation is not pushed onto history, so back-navigation cannot
	// return to the guarded screen.
	Redirect
	// Loading shows the neutral placeholder while session recovery is in
	// flight. Never a redirect, to avoid flicker during startup.
	Loading
)

// Decision is the outcome of resolving a route against the session state.
type Decision struct {
	Action Action
	Target Route
}

func render() Decision           { return Decision{Action: Render} }
func redirect(to Route) Decision { return Decision{Action: Redirect, Target: to} }
func loading() Decision          { return Decision{Action: Loading} }
