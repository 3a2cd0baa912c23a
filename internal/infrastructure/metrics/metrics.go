// Package metrics provides Prometheus metrics for helpdesk-gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AuthorizationsTotal counts bearer gate decisions by outcome.
	AuthorizationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helpdesk",
			Name:      "authorizations_total",
			Help:      "Total number of bearer gate decisions",
		},
		[]string{"outcome"},
	)

	// VerificationCacheLookups counts verification cache lookups by result.
	VerificationCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helpdesk",
			Name:      "verification_cache_lookups_total",
			Help:      "Total number of verification cache lookups",
		},
		[]string{"result"},
	)

	// OdooCallsTotal counts ERP calls by model, method and status.
	OdooCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helpdesk",
			Name:      "odoo_calls_total",
			Help:      "Total number of Odoo XML-RPC calls",
		},
		[]string{"model", "method", "status"},
	)

	// OdooCallDuration measures ERP call duration.
	OdooCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "helpdesk",
			Name:      "odoo_call_duration_seconds",
			Help:      "Duration of Odoo XML-RPC calls in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"model", "method"},
	)

	// RateLimitRejections counts requests refused by the per-IP limiter.
	RateLimitRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "helpdesk",
			Name:      "rate_limit_rejections_total",
			Help:      "Total number of requests refused by the rate limiter",
		},
		[]string{"group"},
	)
)

// RecordAuthorization records one bearer gate decision.
func RecordAuthorization(outcome string) {
	AuthorizationsTotal.WithLabelValues(outcome).Inc()
}

// RecordCacheLookup records one verification cache lookup.
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	VerificationCacheLookups.WithLabelValues(result).Inc()
}

// RecordOdooCall records one ERP call with its duration.
func RecordOdooCall(model, method, status string, seconds float64) {
	OdooCallsTotal.WithLabelValues(model, method, status).Inc()
	OdooCallDuration.WithLabelValues(model, method).Observe(seconds)
}

// RecordRateLimitRejection records one refused request for a limiter group.
func RecordRateLimitRejection(group string) {
	RateLimitRejections.WithLabelValues(group).Inc()
}
