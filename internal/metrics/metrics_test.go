package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gotest.tools/v3/assert"
)

func TestRecordToolCall(t *testing.T) {
	before := testutil.ToFloat64(toolCallsTotal.WithLabelValues("test", "read_file", ResultError))
	RecordToolCall("test", "read_file", true, 5*time.Millisecond)
	after := testutil.ToFloat64(toolCallsTotal.WithLabelValues("test", "read_file", ResultError))
	assert.Equal(t, after-before, 1.0)
}

func TestSessionGauge(t *testing.T) {
	SessionOpened("gauge")
	SessionOpened("gauge")
	SessionClosed("gauge")
	assert.Equal(t, testutil.ToFloat64(activeSessions.WithLabelValues("gauge")), 1.0)
}

func TestStreamGauge(t *testing.T) {
	StreamOpened("streams")
	assert.Equal(t, OpenStreams("streams"), 1.0)
	StreamClosed("streams")
	assert.Equal(t, OpenStreams("streams"), 0.0)
}

func TestMiddlewareCountsStatus(t *testing.T) {
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), "/mcp")
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/mcp", nil))
	assert.Equal(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", "/mcp", "418")), 1.0)
}

func TestMiddlewareFoldsUnknownPaths(t *testing.T) {
	h := Middleware(http.NotFoundHandler(), "/mcp", "/healthz")
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", OtherPath, "404"))
	for _, p := range []string{"/wp-admin", "/a/b/c", "/.env"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}
	assert.Equal(t, testutil.ToFloat64(httpRequestsTotal.WithLabelValues("GET", OtherPath, "404")), before+3)
}
