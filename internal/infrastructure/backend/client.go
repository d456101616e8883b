// Package backend is the single chokepoint for all HTTP calls to the NAAI
// service. It attaches the current session token as a bearer credential,
// normalizes every failure into the domain error taxonomy, and invokes the
// session-invalidation hook on any 401 before surfacing the error.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/naai-app/naai/internal/core/domain"
	"github.com/naai-app/naai/internal/core/ports"
	"github.com/naai-app/naai/internal/metrics"
)

const (
	defaultTimeout  = 15 * time.Second
	maxResponseBody = 1 << 20
)

// Client performs authenticated requests against the backend. It holds no
// session state itself: the token is read from the bound SessionHook on
// every call, so a rotation is honoured immediately.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger

	// hook is bound once by the session manager at composition time,
	// before any request is issued.
	hook ports.SessionHook
}

// NewClient builds a Client for the given base URL. A nil httpClient gets a
// default with a request timeout.
func NewClient(baseURL string, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     log,
	}
}

// BindSession registers the session manager as the token source and
// 401-invalidation hook. Satisfies ports.SessionBinder.
func (c *Client) BindSession(h ports.SessionHook) {
	c.hook = h
}

// errorEnvelope is the canonical error body returned by the backend.
type errorEnvelope struct {
	Error string `json:"error"`
}

// do executes one request. A non-nil body is JSON-encoded; a non-nil out
// receives the decoded 2xx response body.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.hook != nil {
		if token, ok := c.hook.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.ClientRequestsTotal.WithLabelValues(method, pathLabel(path), "network_error").Inc()
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("transport failure")
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrNetwork)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		metrics.ClientRequestsTotal.WithLabelValues(method, pathLabel(path), "network_error").Inc()
		return fmt.Errorf("%s %s: %w", method, path, domain.ErrNetwork)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("backend request")

	if resp.StatusCode == http.StatusUnauthorized {
		metrics.ClientRequestsTotal.WithLabelValues(method, pathLabel(path), "unauthorized").Inc()
		// Invalidate the session before the caller sees the error, so the
		// next render already reflects the logged-out state.
		if c.hook != nil {
			c.hook.Invalidate()
		}
		if msg := serverMessage(data); msg != "" {
			return fmt.Errorf("%s: %w", msg, domain.ErrUnauthorized)
		}
		return domain.ErrUnauthorized
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ClientRequestsTotal.WithLabelValues(method, pathLabel(path), "server_error").Inc()
		return &domain.APIError{Status: resp.StatusCode, Message: serverMessage(data)}
	}

	metrics.ClientRequestsTotal.WithLabelValues(method, pathLabel(path), "ok").Inc()
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// serverMessage extracts the {"error": msg} body, if any.
func serverMessage(data []byte) string {
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return ""
	}
	return env.Error
}

// pathLabel collapses identifier segments so metric label cardinality stays
// bounded.
func pathLabel(p string) string {
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	if strings.HasPrefix(p, "/shops/") {
		if strings.HasSuffix(p, "/services") {
			return "/shops/:id/services"
		}
		return "/shops/:id"
	}
	return p
}
