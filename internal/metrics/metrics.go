package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/whisperbox/whisperbox/internal/health"
)

var (
	// Inbox metrics

	MessagesSentTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "whisperbox",
		Name:      "messages_sent_total",
		Help:      "Total anonymous messages accepted into inboxes.",
	})

	MessagesDeletedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "whisperbox",
		Name:      "messages_deleted_total",
		Help:      "Total messages deleted by their owners.",
	})

	// Verification metrics

	VerificationAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "whisperbox",
		Name:      "verification_attempts_total",
		Help:      "Total verify-code attempts, by outcome.",
	}, []string{"outcome"})

	// Suggestion proxy metrics

	SuggestionRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "whisperbox",
		Name:      "suggestion_requests_total",
		Help:      "Total upstream suggestion calls, by outcome.",
	}, []string{"outcome"})

	// Maintenance metrics

	PrunedAccountsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "whisperbox",
		Name:      "pruned_accounts_total",
		Help:      "Stale unverified accounts removed by the pruner.",
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "whisperbox",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "whisperbox",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		MessagesSentTotal,
		MessagesDeletedTotal,
		VerificationAttemptsTotal,
		SuggestionRequestsTotal,
		PrunedAccountsTotal,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer exposes Prometheus metrics and the health endpoints on a
// side port, away from the public API.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeHealth(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeHealth(w http.ResponseWriter, status int, result health.HealthResult) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}
