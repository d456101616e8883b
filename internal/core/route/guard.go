package route

import "github.com/naai-app/naai/internal/core/domain"

// RequireSession guards screens that need an authenticated user.
func RequireSession(s domain.SessionState) Decision {
	switch s.Phase {
	case domain.PhaseUnknown:
		return loading()
	case domain.PhaseAuthenticated:
		return render()
	default:
		return redirect(Login)
	}
}

// RequireNoSession guards entry screens (login/signup) that make no sense
// for an authenticated user.
func RequireNoSession(s domain.SessionState) Decision {
	switch s.Phase {
	case domain.PhaseUnknown:
		return loading()
	case domain.PhaseAuthenticated:
		return redirect(Dashboard)
	default:
		return render()
	}
}

// Resolve applies the full guard table for a navigation request. Unknown
// routes redirect to the landing screen regardless of session state. The
// barber dashboard additionally requires the barber role; a mismatch
// redirects to the landing screen rather than to login, because the user is
// authenticated, just not authorized for that screen.
func Resolve(r Route, s domain.SessionState) Decision {
	switch r {
	case Landing:
		return render()
	case Login, Signup:
		return RequireNoSession(s)
	case Dashboard:
		return RequireSession(s)
	case BarberDashboard:
		d := RequireSession(s)
		if d.Action != Render {
			return d
		}
		if s.User == nil || s.User.Role != domain.RoleBarber {
			return redirect(Landing)
		}
		return d
	default:
		return redirect(Landing)
	}
}
