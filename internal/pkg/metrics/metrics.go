// Package metrics defines and registers all custom Prometheus metrics for the
// marketplace accounts API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics register with the default Prometheus registry on package init via
// promauto; /metrics serves them alongside the echo request metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "marketplace"

// ── Sign-up metrics ───────────────────────────────────────────────────────────

// SignupsTotal counts committed registrations.
// Label:
//   - role: "customer" or "company"
var SignupsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts registered, by role.",
	},
	[]string{"role"},
)

// SignupValidationErrorsTotal counts rejected sign-up fields.
// Labels:
//   - role: "customer" or "company"
//   - field: the form field that failed (e.g. "email", "password2")
var SignupValidationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signup_validation_errors_total",
		Help:      "Total number of sign-up field validation failures.",
	},
	[]string{"role", "field"},
)

// ── Login metrics ─────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid" or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsTotal counts account events written to the audit trail.
// Labels:
//   - type: the account event type (e.g. "customer_registered")
//   - result: "ok" or "error"
var AuditEventsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_total",
		Help:      "Total number of account events processed by the audit pipeline.",
	},
	[]string{"type", "result"},
)

// AuditQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of events pending in each audit worker channel.",
	},
	[]string{"worker_id"},
)
