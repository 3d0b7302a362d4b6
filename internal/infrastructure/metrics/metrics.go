package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "serviceapp_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "serviceapp_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	guardDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "serviceapp_auth_guard_decisions_total",
		Help: "Auth guard outcomes by result kind",
	}, []string{"outcome"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "serviceapp_auth_attempts_total",
		Help: "Login and registration attempts by operation and result",
	}, []string{"operation", "result"})

	listingMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "serviceapp_listing_mutations_total",
		Help: "Listing create/update/deactivate operations by result",
	}, []string{"operation", "result"})

	rateLimited = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "serviceapp_rate_limited_total",
		Help: "Requests rejected by the rate limiter, by route",
	}, []string{"path"})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveGuardDecision counts one guard outcome: "admitted" or an error kind.
func ObserveGuardDecision(outcome string) {
	guardDecisions.WithLabelValues(outcome).Inc()
}

func ObserveAuthAttempt(operation, result string) {
	authAttempts.WithLabelValues(operation, result).Inc()
}

func ObserveListingMutation(operation, result string) {
	listingMutations.WithLabelValues(operation, result).Inc()
}

func ObserveRateLimited(path string) {
	rateLimited.WithLabelValues(path).Inc()
}
