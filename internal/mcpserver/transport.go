package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mcpkit-labs/mcpkit/internal/logging"
	"github.com/mcpkit-labs/mcpkit/internal/metrics"
)

// Transport names accepted by Serve.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	requestIDHeader = "X-Request-ID"
	metricsPath     = "/metrics"
	healthPath      = "/healthz"
)

// HTTPOptions configures the streamable HTTP transport.
type HTTPOptions struct {
	Addr     string
	Endpoint string
	// Metrics mounts the Prometheus handler at /metrics.
	Metrics bool
}

// ServeStdio serves s on stdin/stdout until the client disconnects.
func ServeStdio(s *Server) error {
	logging.L().Info("serving MCP over stdio")
	return server.ServeStdio(s.MCPServer)
}

// Handler returns the HTTP handler for s: the MCP endpoint, an optional
// /metrics endpoint, request ids, access logging and request counting.
// Session state is released when the client sends DELETE to the endpoint.
func Handler(s *Server, opts HTTPOptions) http.Handler {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = "/mcp"
	}

	streamable := server.NewStreamableHTTPServer(s.MCPServer,
		server.WithEndpointPath(endpoint),
		server.WithSessionIdManager(newSessionManager(s)),
		server.WithHTTPContextFunc(func(ctx context.Context, r *http.Request) context.Context {
			return logging.WithRequestID(ctx, r.Header.Get(requestIDHeader))
		}),
	)

	mux := http.NewServeMux()
	mux.Handle(endpoint, streamable)
	if opts.Metrics {
		mux.Handle(metricsPath, metrics.Handler())
	}
	mux.HandleFunc(healthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	})

	return withRequestID(logging.Middleware(metrics.Middleware(mux, endpoint, metricsPath, healthPath)))
}

// withRequestID ensures every request carries an id, reusing the client's
// X-Request-ID when present.
func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(logging.WithRequestID(r.Context(), id)))
	})
}

// ServeHTTP listens on opts.Addr and serves until ctx is canceled.
func ServeHTTP(ctx context.Context, s *Server, opts HTTPOptions) error {
	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", opts.Addr, err)
	}
	return serveListener(ctx, ln, Handler(s, opts))
}

func serveListener(ctx context.Context, ln net.Listener, h http.Handler) error {
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		logging.L().Info("serving MCP over HTTP", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serving HTTP: %w", err)
		}
		return nil
	})
	return g.Wait()
}
