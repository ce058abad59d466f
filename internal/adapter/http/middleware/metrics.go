package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/moneta-app/moneta/internal/infrastructure/metrics"
)

// MetricsMiddleware records HTTP metrics.
type MetricsMiddleware struct {
	metrics *metrics.Metrics
}

// NewMetricsMiddleware creates a new MetricsMiddleware.
func NewMetricsMiddleware(m *metrics.Metrics) *MetricsMiddleware {
	return &MetricsMiddleware{metrics: m}
}

// Wrap wraps an http.Handler with request counting and timing.
func (m *MetricsMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		duration := time.Since(start).Seconds()
		path := normalizePath(r.URL.Path)

		m.metrics.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
		m.metrics.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// normalizePath replaces ID path segments with :id to keep label
// cardinality bounded.
// /api/v1/accounts/01ABC123/entries -> /api/v1/accounts/:id/entries
func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		switch parts[i-1] {
		case "accounts", "expenses", "transfers", "trades", "budgets", "liabilities", "payments":
			if parts[i] != "" && !isVerb(parts[i]) {
				parts[i] = ":id"
			}
		}
	}

	return strings.Join(parts, "/")
}

func isVerb(segment string) bool {
	switch segment {
	case "summary", "reconcile", "entries", "transfers", "holdings",
		"payments", "complete", "cancel", "logs":
		return true
	}

	return false
}
