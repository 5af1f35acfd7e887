// Package metrics defines the Prometheus collectors for the ingestion
// layer. All collectors are registered via promauto and exposed at
// /metrics by the server.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Fetch and source metrics.
var (
	FetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crypto_analyzer",
		Subsystem: "fetch",
		Name:      "total",
		Help:      "Terminal fetch outcomes per source.",
	}, []string{"source", "outcome"})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crypto_analyzer",
		Subsystem: "fetch",
		Name:      "duration_seconds",
		Help:      "Duration of one source fetch including retries.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	}, []string{"source"})

	BreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "crypto_analyzer",
		Subsystem: "breaker",
		Name:      "state",
		Help:      "Circuit breaker state per source (0=closed, 1=open, 2=half-open).",
	}, []string{"source"})

	CacheReads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crypto_analyzer",
		Subsystem: "lkg_cache",
		Name:      "reads_total",
		Help:      "Last-known-good cache reads by result (hit, miss).",
	}, []string{"result"})
)

// Outcome labels for FetchTotal.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeInvalid = "invalid"
	OutcomeSkipped = "skipped"
)

// HTTP request metrics.
var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "crypto_analyzer",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"method", "path", "status_code"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "crypto_analyzer",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPRequestsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "crypto_analyzer",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Number of HTTP requests currently being processed.",
	})
)
