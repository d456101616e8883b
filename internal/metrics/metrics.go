// Package metrics defines and registers all custom Prometheus metrics for
// the NAAI client. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default registry at package init; expose them
// by mounting promhttp on the configured metrics address.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "naai"

// ClientRequestsTotal counts backend calls made through the API client.
// Labels:
//   - method: HTTP method
//   - path: request path template (e.g. "/auth/login")
//   - outcome: "ok", "unauthorized", "server_error", or "network_error"
var ClientRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "client_requests_total",
		Help:      "Total number of backend requests, by method, path, and outcome.",
	},
	[]string{"method", "path", "outcome"},
)

// SessionTransitionsTotal counts session state transitions.
// Label:
//   - to: the phase entered ("authenticated", "unauthenticated", "unknown")
var SessionTransitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Total number of session state transitions, by resulting phase.",
	},
	[]string{"to"},
)

// AuthFailuresTotal counts failed login/signup attempts as seen by the
// session manager (server rejections, not client-side validation).
// Label:
//   - op: "login" or "signup"
var AuthFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of rejected login and signup attempts.",
	},
	[]string{"op"},
)
