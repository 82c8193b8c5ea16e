// Package metrics defines Prometheus metrics for the time log service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "timelog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timelog_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	TimeLogMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timelog_mutations_total",
			Help: "Time log mutations by action and outcome",
		},
		[]string{"action", "outcome"},
	)

	StaleResponses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "timelog_stale_responses_total",
			Help: "Reads discarded because a newer read of the same category was issued",
		},
		[]string{"category"},
	)

	ProfilesCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "timelog_profiles_created_total",
			Help: "Profiles created on first access",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration,
		RequestsTotal,
		TimeLogMutations,
		StaleResponses,
		ProfilesCreated,
	)
}
