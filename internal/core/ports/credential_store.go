package ports

// CredentialStore holds exactly one opaque session token across process
// restarts. Implementations treat the token as an opaque string and never
// validate its contents.
type CredentialStore interface {
	// Save persists the token, replacing any previous value.
	Save(token string) error
	// Load returns the stored token. ok is false when no token is stored;
	// a read failure is reported alongside ok=false so callers can treat
	// it as absence.
	Load() (token string, ok bool, err error)
	// Clear removes the stored token. Clearing an empty store is a no-op.
	Clear() error
}
