// Package metrics defines and registers all custom Prometheus metrics for
// the contacts API. It is the single source of truth for metric names,
// labels, and help strings.
//
// Metrics are registered with the default Prometheus registry via promauto
// at package import time.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contacts"

// ── Token metrics ─────────────────────────────────────────────────────────────

// TokensIssuedTotal counts tokens issued per kind.
// Label:
//   - kind: "access", "refresh", "verification", or "reset"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of tokens issued, by kind.",
	},
	[]string{"kind"},
)

// TokenRejectionsTotal counts tokens that failed validation (malformed,
// expired, bad signature, wrong kind, or consumed reset token).
var TokenRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of tokens rejected during validation, by kind.",
	},
	[]string{"kind"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// SessionCacheTotal counts session cache lookups.
// Label:
//   - result: "hit" or "miss"
var SessionCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_cache_total",
		Help:      "Total number of session cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ContactCacheTotal counts contact page cache lookups.
// Label:
//   - result: "hit" or "miss"
var ContactCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_cache_total",
		Help:      "Total number of contact page cache lookups, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// ContactCacheInvalidationsTotal counts namespace invalidations triggered by
// contact mutations.
var ContactCacheInvalidationsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_cache_invalidations_total",
		Help:      "Total number of per-user contact cache invalidations.",
	},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// SignupsTotal counts successfully created accounts.
var SignupsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "signups_total",
		Help:      "Total number of accounts created.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials", or "not_confirmed"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ── Mail metrics ──────────────────────────────────────────────────────────────

// EmailsDispatchedTotal counts emails delivered by the background dispatcher.
// Label:
//   - kind: "verification" or "password_reset"
var EmailsDispatchedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_dispatched_total",
		Help:      "Total number of emails successfully delivered, by kind.",
	},
	[]string{"kind"},
)

// EmailErrorsTotal counts emails that failed delivery.
var EmailErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "email_errors_total",
		Help:      "Total number of email delivery failures, by kind.",
	},
	[]string{"kind"},
)
