package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthorized means the server rejected the credentials or the
	// bearer token. The API client raises it after invoking the session
	// invalidation hook.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetwork means no response was received at all (transport failure,
	// timeout, connection refused). Never retried automatically.
	ErrNetwork = errors.New("no response from server")

	// ErrShopNotFound means the authenticated barber has no shop yet.
	ErrShopNotFound = errors.New("shop not found")

	// ErrSuperseded means a session operation completed after a newer one
	// was issued; its result was discarded and observable state is
	// unaffected.
	ErrSuperseded = errors.New("operation superseded")
)

// APIError is any non-2xx response that is not an authorization failure.
// Message carries the server-provided error text when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed (status %d)", e.Status)
	}
	return e.Message
}

// ValidationError is a client-side precondition failure. It never reaches
// the network and is resolved locally by the calling screen.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Problems, "; ")
}
