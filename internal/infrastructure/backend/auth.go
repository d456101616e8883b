package backend

import (
	"context"
	"net/http"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/ports"
)

type signupRequest struct {
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Name     string      `json:"name,omitempty"`
	Role     domain.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type userResponse struct {
	User domain.User `json:"user"`
}

// Signup registers a new account and returns the freshly issued session.
func (c *Client) Signup(ctx context.Context, input ports.SignupInput) (domain.Session, error) {
	req := signupRequest{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
		Role:     input.Role,
	}
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: resp.Token, User: resp.User}, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Session, error) {
	var resp sessionResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return domain.Session{}, err
	}
	return domain.Session{Token: resp.Token, User: resp.User}, nil
}

// Me returns the profile behind the current bearer token.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.User, nil
}
