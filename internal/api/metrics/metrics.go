// Package metrics defines and registers the custom Prometheus metrics of the
// customer authentication API. It is the single source of truth for metric
// names, labels, and help strings.
//
// Metrics are registered with the default Prometheus registry on import.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "customer_auth"

// ── Authentication metrics ────────────────────────────────────────────────────

// AuthAttemptsTotal counts authentication attempts by outcome.
// Label:
//   - outcome: "authenticated", "invalid_document", "customer_not_found" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of authentication attempts, by outcome.",
	},
	[]string{"outcome"},
)

// AuthDuration measures the authentication pipeline end-to-end.
// Label:
//   - outcome: same values as AuthAttemptsTotal
var AuthDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_duration_seconds",
		Help:      "Duration of the authentication pipeline.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"outcome"},
)

// TokenVerificationsTotal counts bearer token checks done by the auth middleware.
// Label:
//   - result: "valid", "expired" or "invalid"
var TokenVerificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_verifications_total",
		Help:      "Total number of bearer token verifications, by result.",
	},
	[]string{"result"},
)

// ── Cache metrics ─────────────────────────────────────────────────────────────

// CustomerCacheTotal counts customer cache lookups.
// Label:
//   - result: "hit", "miss" or "error"
var CustomerCacheTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "customer_cache_total",
		Help:      "Total number of customer cache lookups, by result.",
	},
	[]string{"result"},
)

// CacheRecorder feeds CustomerCacheTotal from the Redis customer cache.
type CacheRecorder struct{}

func (CacheRecorder) Record(result string) {
	CustomerCacheTotal.WithLabelValues(result).Inc()
}
