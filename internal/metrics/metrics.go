package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "authshell"

var (
	// Session metrics

	SessionTransitionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_transitions_total",
		Help:      "Auth status changes, by previous and new status.",
	}, []string{"from", "to"})

	SessionStatus = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "session_status",
		Help:      "1 for the current auth status, 0 for the others.",
	}, []string{"status"})

	// Remote auth service metrics

	AuthRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "auth_request_duration_seconds",
		Help:      "Latency of calls to the remote auth service.",
		Buckets:   []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"operation", "outcome"})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})

	GuardRedirectsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_redirects_total",
		Help:      "Navigations denied by a route guard, by guard.",
	}, []string{"guard"})
)

func Register() {
	prometheus.MustRegister(
		SessionTransitionsTotal,
		SessionStatus,
		AuthRequestDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
		GuardRedirectsTotal,
	)
}

// Prober is implemented by *health.Checker.
type Prober interface {
	LivenessHandler() http.HandlerFunc
	ReadinessHandler() http.HandlerFunc
}

// NewServer serves /metrics and, when a prober is given, /healthz and /readyz.
func NewServer(addr string, prober Prober) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if prober != nil {
		mux.HandleFunc("/healthz", prober.LivenessHandler())
		mux.HandleFunc("/readyz", prober.ReadinessHandler())
	}
	return &http.Server{Addr: addr, Handler: mux}
}
