package domain

// Session is an authenticated session: the opaque bearer token plus the
// profile the server returned alongside it. The client never looks inside
// the token.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Phase is the lifecycle position of the client's session.
type Phase int

const (
	// PhaseUnknown means session recovery is still in flight. Screens must
	// show a neutral placeholder instead of redirecting.
	PhaseUnknown Phase = iota
	// PhaseAuthenticated means a valid session exists.
	PhaseAuthenticated
	// PhaseUnauthenticated means there is no session.
	PhaseUnauthenticated
)

func (p Phase) String() string {
	switch p {
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// SessionState is the single source of truth consumed by route guards and
// screens. User is non-nil exactly when Phase is PhaseAuthenticated.
type SessionState struct {
	Phase Phase
	User  *User
}

func (s SessionState) Authenticated() bool { return s.Phase == PhaseAuthenticated }
