package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
)

// DefaultMCPEndpoint is the path of the streamable HTTP MCP endpoint.
const DefaultMCPEndpoint = "/mcp"

// HTTPServer serves the MCP streamable HTTP transport and health endpoints.
type HTTPServer struct {
	addr       string
	handler    http.Handler
	health     *HealthChecker
	sc         *ServerContext
	httpServer *http.Server
}

// NewHTTPServer mounts mcpSrv at DefaultMCPEndpoint next to the health
// endpoints. Requests are recorded in the HTTP metrics of sc.
func NewHTTPServer(mcpSrv *mcpserver.MCPServer, sc *ServerContext, addr string) *HTTPServer {
	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithEndpointPath(DefaultMCPEndpoint),
	)

	health := NewHealthChecker(sc)

	mux := http.NewServeMux()
	health.RegisterHealthEndpoints(mux)
	mux.Handle(DefaultMCPEndpoint, streamable)

	s := &HTTPServer{
		addr:   addr,
		health: health,
		sc:     sc,
	}
	s.handler = s.recordRequests(mux)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Handler returns the root HTTP handler.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Health returns the health checker of the server.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Addr returns the listen address.
func (s *HTTPServer) Addr() string {
	return s.addr
}

// Start listens on the configured address and blocks until the server stops.
// It returns nil after a graceful Shutdown, including one that happened
// before Start.
func (s *HTTPServer) Start() error {
	slog.Info("starting streamable HTTP server", "addr", s.addr, "endpoint", DefaultMCPEndpoint)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown marks the server as not ready and stops accepting requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	slog.Info("shutting down streamable HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// recordRequests wraps next with the http_requests_total metric.
func (s *HTTPServer) recordRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics := s.sc.Metrics()
		if metrics == nil {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		metrics.RecordHTTPRequest(r.Context(), r.Method, routeLabel(r.URL.Path), rec.status, time.Since(start))
	})
}

// routeLabel keeps unknown paths out of the metric labels.
func routeLabel(path string) string {
	switch path {
	case DefaultMCPEndpoint, "/healthz", "/readyz", "/healthz/detailed":
		return path
	default:
		return "other"
	}
}

// statusRecorder captures the response status. It forwards Flush so SSE
// streams keep working.
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

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}
