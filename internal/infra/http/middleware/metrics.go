package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_captured_total",
			Help: "Total number of leads captured, by origin",
		},
		[]string{"origin"},
	)

	leadTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_transitions_total",
			Help: "Total number of lead status changes",
		},
		[]string{"from", "to"},
	)

	trackingFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_failures_total",
			Help: "Total number of analytics events that failed to persist",
		},
		[]string{"type"},
	)

	pipelinesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "pipelines_deleted_total",
			Help: "Total number of pipelines deleted",
		},
	)

	leadsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_imported_total",
			Help: "Total number of leads created through CSV import",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics rotula pelo pattern do chi (/api/leads/{id}) para não explodir a
// cardinalidade com ids.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func RecordLeadCaptured(origin string) {
	if origin == "" {
		origin = "direct"
	}
	leadsCaptured.WithLabelValues(origin).Inc()
}

func RecordLeadTransition(from, to string) {
	leadTransitions.WithLabelValues(from, to).Inc()
}

func RecordTrackingFailure(eventType string) {
	trackingFailures.WithLabelValues(eventType).Inc()
}

func RecordPipelineDeleted() {
	pipelinesDeleted.Inc()
}

func RecordLeadsImported(n int) {
	leadsImported.Add(float64(n))
}
