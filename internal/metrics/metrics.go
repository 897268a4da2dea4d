// Package metrics defines and registers all custom Prometheus metrics for the
// platform. It is the single source of truth for metric names, labels, and
// help strings; promauto registers everything with the default registry at
// init time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "streamflow"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginsTotal counts login attempts at the gateway.
// Label:
//   - result: "ok", "invalid_credentials", "not_found", "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenVerificationsTotal counts bearer token verifications at the edge.
// Label:
//   - outcome: "ok", "invalid", "expired", "revoked", "missing"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by outcome.",
	},
	[]string{"outcome"},
)

// TokensRevokedTotal counts logout-driven revocations.
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of session tokens revoked.",
	},
)

// ── Event pipeline metrics ────────────────────────────────────────────────────

// EventsPublishedTotal counts event publications.
// Labels:
//   - topic: event topic (e.g. "account_created")
//   - result: "ok" or "error"
var EventsPublishedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Total number of domain events published, by topic and result.",
	},
	[]string{"topic", "result"},
)

// EventsConsumedTotal counts notifier deliveries.
// Labels:
//   - topic: event topic
//   - result: "ok", "error", "duplicate", "malformed"
var EventsConsumedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_consumed_total",
		Help:      "Total number of event deliveries handled by the notifier, by topic and result.",
	},
	[]string{"topic", "result"},
)

// UpstreamErrorsTotal counts internal RPC failures observed by the gateway.
// Labels:
//   - service: "users" or "billing"
//   - code: protocol error code
var UpstreamErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_errors_total",
		Help:      "Total number of internal RPC failures seen at the gateway, by service and code.",
	},
	[]string{"service", "code"},
)
