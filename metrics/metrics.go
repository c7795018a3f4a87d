// Package metrics provides Prometheus metrics collection for the medsafe API.
// It tracks HTTP request performance plus AI provider behavior:
//   - http_request_total / http_request_duration_seconds / http_request_in_flight
//   - ai_provider_requests_total: Counter with provider and outcome labels
//   - ai_provider_request_duration_seconds: Histogram per provider
//   - ai_failover_total: Counter of attempts that advanced past a provider
//   - ai_degraded_fallback_total: Counter of canned offline responses served
//
// All metrics are registered with the Prometheus default registry during
// package initialization.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen recently)",
		},
	)

	ProviderRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_provider_requests_total",
			Help: "Total AI provider attempts by outcome (success, timeout, overloaded, quota, error)",
		},
		[]string{"provider", "outcome"},
	)

	ProviderRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_provider_request_duration_seconds",
			Help:    "AI provider attempt latency",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 15, 25, 30},
		},
		[]string{"provider"},
	)

	FailoverTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_failover_total",
			Help: "Attempts that failed and advanced to the next provider",
		},
	)

	DegradedFallbackTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "ai_degraded_fallback_total",
			Help: "Requests answered from the offline degraded fallback",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(ProviderRequestTotals)
	prometheus.MustRegister(ProviderRequestDuration)
	prometheus.MustRegister(FailoverTotal)
	prometheus.MustRegister(DegradedFallbackTotal)
}
