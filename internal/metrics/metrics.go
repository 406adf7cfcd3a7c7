package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Remote API metrics
var (
	// APIRequestsTotal counts calls to the recruitment API by operation and outcome
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_api_requests_total",
			Help: "Total recruitment API calls by operation and status class",
		},
		[]string{"operation", "status"},
	)

	// APIRequestDuration tracks recruitment API latency in seconds
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portal_api_request_duration_seconds",
			Help:    "Recruitment API call duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)

// Session and routing metrics
var (
	GuardDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_guard_decisions_total",
			Help: "Route guard outcomes by guard and outcome",
		},
		[]string{"guard", "outcome"},
	)

	// LoaderFallbacksTotal counts listing loaders that substituted an empty result
	LoaderFallbacksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_loader_fallbacks_total",
			Help: "Listing loaders that degraded to an empty result",
		},
		[]string{"loader"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "portal_sessions_active",
			Help: "Browser sessions currently held in memory",
		},
	)

	SessionValidationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portal_session_validations_total",
			Help: "Cached-session validations against the API by result",
		},
		[]string{"result"},
	)
)
