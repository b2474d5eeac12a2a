package http

import (
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cobit_admin_ui_http_requests_total",
			Help: "Total HTTP requests handled by this app.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "cobit_admin_ui_http_request_duration_seconds",
			Help: "Duration of handled HTTP requests in seconds.",
		},
		[]string{"method", "path"},
	)

	httpInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cobit_admin_ui_http_in_flight_requests",
			Help: "In-flight HTTP requests currently served by this app.",
		},
	)

	backendCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cobit_admin_ui_backend_calls_total",
			Help: "Total calls to the Supabase backend by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	backendCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "cobit_admin_ui_backend_call_duration_seconds",
			Help: "Duration of Supabase backend calls in seconds.",
		},
		[]string{"operation"},
	)
)

func metricsHandler() nethttp.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	nethttp.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func observabilityMiddleware(next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: nethttp.StatusOK}
		next.ServeHTTP(rec, r)

		path := metricPath(r.URL.Path)
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}

// metricPath collapses per-record ids so the path label stays bounded.
func metricPath(path string) string {
	const prefix = "/api/v1/responses/"
	if strings.HasPrefix(path, prefix) {
		rest := strings.Trim(strings.TrimPrefix(path, prefix), "/")
		switch rest {
		case "refresh", "select", "clear", "":
			return path
		default:
			return prefix + ":id"
		}
	}
	return path
}

func recordBackendCall(operation string, seconds float64, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	backendCallsTotal.WithLabelValues(operation, outcome).Inc()
	backendCallDuration.WithLabelValues(operation).Observe(seconds)
}
