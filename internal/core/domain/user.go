package domain

import (
	"fmt"
	"time"
)

// Role is the closed set of account roles the service knows about.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleBarber   Role = "barber"
)

// ParseRole converts a raw string into a Role, rejecting anything outside
// the closed set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleBarber:
		return RoleBarber, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is the read-mostly copy of an account held by the client. The server
// is the source of truth; the client never mutates it locally.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}
