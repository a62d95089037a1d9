// Package metrics defines the custom Prometheus metrics of the SADI web
// BFF. It is the single source of truth for metric names, labels, and help
// strings; the HTTP client's own counters live next to the client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "sadi_bff"

// SignInsTotal counts sign-in attempts that reached the backend.
// Label:
//   - result: "success", "bad_credentials", "role_mismatch", "denied", "error"
var SignInsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signins_total",
		Help:      "Total number of sign-in attempts forwarded to the backend, by outcome.",
	},
	[]string{"result"},
)

// LockoutRefusalsTotal counts attempts refused client-side by the lockout
// window, before any network call.
var LockoutRefusalsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lockout_refusals_total",
		Help:      "Total number of sign-in attempts refused by the local lockout window.",
	},
)

// GuardRedirectsTotal counts route-guard redirects.
// Label:
//   - reason: "unauthenticated" or "role_mismatch"
var GuardRedirectsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Total number of navigations redirected by the route guard.",
	},
	[]string{"reason"},
)
