package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	loginAttemptsTotal  *prometheus.CounterVec
	activityEventsTotal prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors exposed on /metrics.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edutrack_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "edutrack_http_request_duration_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		loginAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "edutrack_login_attempts_total",
			Help: "Login attempts by role and outcome.",
		}, []string{"role", "outcome"})

		activityEventsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "edutrack_activity_events_total",
			Help: "Activity entries recorded for the admin dashboard.",
		})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, loginAttemptsTotal, activityEventsTotal)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// LoginAttempts exposes the login counter.
func LoginAttempts() *prometheus.CounterVec {
	RegisterMetrics()
	return loginAttemptsTotal
}

// ActivityEvents exposes the activity counter.
func ActivityEvents() prometheus.Counter {
	RegisterMetrics()
	return activityEventsTotal
}
