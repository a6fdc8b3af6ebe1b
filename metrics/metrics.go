// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Persistence
	StoreFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_fallback_operations_total",
			Help: "Operations served by the in-memory store because MongoDB failed",
		},
		[]string{"collection", "operation"},
	)

	StoreSynced = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_synced_documents_total",
			Help: "Documents copied from the in-memory store into MongoDB by data sync",
		},
		[]string{"collection"},
	)

	// Geocoding
	GeocodeCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_cache_hits_total",
			Help: "Reverse geocode lookups answered from cache",
		},
	)

	GeocodeCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_cache_misses_total",
			Help: "Reverse geocode lookups that went upstream",
		},
	)

	GeocodeFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "geocode_upstream_failures_total",
			Help: "Reverse geocode requests that failed or timed out",
		},
	)

	// External directory
	UserDirectoryRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "user_directory_requests_total",
			Help: "Requests made to the external user directory",
		},
		[]string{"result"}, // success, failure, rejected
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// HTTP
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Requests rejected by the per-IP rate limiter",
		},
		[]string{"endpoint"},
	)

	// Websocket
	WebSocketClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_clients",
			Help: "Currently connected live-location subscribers",
		},
	)
)
