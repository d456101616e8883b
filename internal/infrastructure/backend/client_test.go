package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/naai-app/naai/internal/core/domain"
)

// staticHook always serves the same token and counts invalidations.
type staticHook struct {
	mu          sync.Mutex
	token       string
	invalidated int
}

func (h *staticHook) Token() (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.token, h.token != ""
}

func (h *staticHook) Invalidate() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.invalidated++
	h.token = ""
}

func (h *staticHook) invalidations() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.invalidated
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, nil, zerolog.Nop()), srv
}

func TestDoAttachesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotRequestID, gotAccept string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	})
	client.BindSession(&staticHook{token: "tok-1"})

	if err := client.do(context.Background(), http.MethodGet, "/auth/me", nil, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if gotAuth != "Bearer tok-1" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotRequestID == "" {
		t.Fatalf("expected an X-Request-ID header")
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q", gotAccept)
	}
}

func TestDoWithoutTokenSendsNoAuthHeader(t *testing.T) {
	var gotAuth string
	sent := false
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		sent = true
		w.Write([]byte(`{}`))
	})
	client.BindSession(&staticHook{})

	if err := client.do(context.Background(), http.MethodGet, "/shops", nil, nil); err != nil {
		t.Fatalf("do: %v", err)
	}
	if !sent {
		t.Fatalf("request never reached the server")
	}
	if gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestDoUnauthorizedInvalidatesBeforeReturning(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "token expired"})
	})
	hook := &staticHook{token: "stale"}
	client.BindSession(hook)

	err := client.do(context.Background(), http.MethodGet, "/auth/me", nil, nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if !strings.Contains(err.Error(), "token expired") {
		t.Fatalf("expected the server's message, got %q", err.Error())
	}
	if hook.invalidations() != 1 {
		t.Fatalf("expected exactly one invalidation, got %d", hook.invalidations())
	}
}

func TestDoUnauthorizedWithoutBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	hook := &staticHook{token: "stale"}
	client.BindSession(hook)

	err := client.do(context.Background(), http.MethodGet, "/auth/me", nil, nil)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if hook.invalidations() != 1 {
		t.Fatalf("expected one invalidation, got %d", hook.invalidations())
	}
}

func TestDoMapsServerErrors(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"error": "name is required"})
	})

	err := client.do(context.Background(), http.MethodPost, "/shops", map[string]string{}, nil)
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != 422 || apiErr.Message != "name is required" {
		t.Fatalf("unexpected APIError: %+v", apiErr)
	}
	if apiErr.Error() != "name is required" {
		t.Fatalf("Error() = %q", apiErr.Error())
	}
}

func TestDoServerErrorWithoutMessage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	err := client.do(context.Background(), http.MethodGet, "/shops", nil, nil)
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Error() != "request failed (status 500)" {
		t.Fatalf("Error() = %q", apiErr.Error())
	}
}

func TestDoNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(srv.URL, nil, zerolog.Nop())
	srv.Close()

	err := client.do(context.Background(), http.MethodGet, "/shops", nil, nil)
	if !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected ErrNetwork, got %v", err)
	}
}

func TestDoDecodesResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token": "tok-9"})
	})

	var out struct {
		Token string `json:"token"`
	}
	if err := client.do(context.Background(), http.MethodPost, "/auth/login", map[string]string{}, &out); err != nil {
		t.Fatalf("do: %v", err)
	}
	if out.Token != "tok-9" {
		t.Fatalf("token = %q", out.Token)
	}
}

func TestPathLabel(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/shops", "/shops"},
		{"/shops?search=fade&city=nyc", "/shops"},
		{"/shops/s_12", "/shops/:id"},
		{"/shops/s_12/services", "/shops/:id/services"},
		{"/auth/me", "/auth/me"},
	}
	for _, tc := range cases {
		if got := pathLabel(tc.in); got != tc.want {
			t.Fatalf("pathLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
