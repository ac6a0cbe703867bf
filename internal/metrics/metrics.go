// Package metrics provides Prometheus metrics for the MCP tool servers.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	toolCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpkit_tool_calls_total",
			Help: "Total number of MCP tool calls",
		},
		[]string{"server", "tool", "result"},
	)

	toolCallDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mcpkit_tool_call_duration_seconds",
			Help:    "MCP tool call duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"server", "tool"},
	)

	activeSessions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mcpkit_active_sessions",
			Help: "Number of live streamable HTTP sessions",
		},
		[]string{"server"},
	)

	openStreams = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mcpkit_open_streams",
			Help: "Number of connected client streams (stdio or HTTP GET)",
		},
		[]string{"server"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mcpkit_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
)

// RecordToolCall records one tool invocation.
func RecordToolCall(server, tool string, failed bool, d time.Duration) {
	result := ResultOK
	if failed {
		result = ResultError
	}
	toolCallsTotal.WithLabelValues(server, tool, result).Inc()
	toolCallDuration.WithLabelValues(server, tool).Observe(d.Seconds())
}

// SessionOpened increments the active session gauge.
func SessionOpened(server string) {
	activeSessions.WithLabelValues(server).Inc()
}

// SessionClosed decrements the active session gauge.
func SessionClosed(server string) {
	activeSessions.WithLabelValues(server).Dec()
}

// StreamOpened increments the open stream gauge.
func StreamOpened(server string) {
	openStreams.WithLabelValues(server).Inc()
}

// StreamClosed decrements the open stream gauge.
func StreamClosed(server string) {
	openStreams.WithLabelValues(server).Dec()
}

// OpenStreams returns the current open stream count of server.
func OpenStreams(server string) float64 {
	m := &dto.Metric{}
	if err := openStreams.WithLabelValues(server).Write(m); err != nil {
		return 0
	}
	return m.GetGauge().GetValue()
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// OtherPath labels requests to paths outside the known routes.
const OtherPath = "other"

// Middleware counts HTTP requests by method, path and status. Paths not in
// routes are counted under OtherPath.
func Middleware(next http.Handler, routes ...string) http.Handler {
	known := make(map[string]bool, len(routes))
	for _, r := range routes {
		known[r] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		path := r.URL.Path
		if !known[path] {
			path = OtherPath
		}
		httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).Inc()
	})
}
