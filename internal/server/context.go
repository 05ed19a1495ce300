package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/teemow/trellomcp/internal/config"
	"github.com/teemow/trellomcp/internal/host"
	"github.com/teemow/trellomcp/internal/instrumentation"
	"github.com/teemow/trellomcp/internal/trello"
)

// ServerContext holds the dependencies shared by all tool invocations.
// Nothing in it is specific to one invocation: configuration is resolved and
// a Trello client is built per call.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	host        *host.Host
	httpClient  *http.Client
	apiBaseURL  string
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithHTTPClient sets the HTTP client used for Trello requests.
func WithHTTPClient(c *http.Client) Option {
	return func(sc *ServerContext) {
		sc.httpClient = c
	}
}

// WithAPIBaseURL overrides the Trello API root. An empty URL keeps the default.
func WithAPIBaseURL(baseURL string) Option {
	return func(sc *ServerContext) {
		if baseURL != "" {
			sc.apiBaseURL = baseURL
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) {
		if logger != nil {
			sc.logger = logger
		}
	}
}

// NewServerContext creates a new server context. A nil host reads no
// settings and discards messages.
func NewServerContext(ctx context.Context, h *host.Host, opts ...Option) (*ServerContext, error) {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if h == nil {
		h = host.New(nil, nil)
	}

	sc := &ServerContext{
		ctx:        shutdownCtx,
		cancel:     cancel,
		host:       h,
		apiBaseURL: trello.DefaultBaseURL,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(sc)
	}
	return sc, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Host returns the settings and notifier of the embedding application.
func (sc *ServerContext) Host() *host.Host {
	return sc.host
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// APIBaseURL returns the Trello API root.
func (sc *ServerContext) APIBaseURL() string {
	return sc.apiBaseURL
}

// ResolveConfig reads the Trello configuration from the host settings.
func (sc *ServerContext) ResolveConfig() (config.Config, error) {
	return config.Resolve(sc.host.Settings)
}

// TrelloClient returns a client authenticated with cfg's key and token.
func (sc *ServerContext) TrelloClient(cfg config.Config) *trello.Client {
	return trello.NewClient(cfg.APIKey, cfg.APIToken,
		trello.WithBaseURL(sc.apiBaseURL),
		trello.WithHTTPClient(sc.httpClient),
		trello.WithMetrics(sc.Metrics()),
		trello.WithLogger(sc.logger),
	)
}

// SetMetrics sets the metrics recorder for tool and API metrics.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger for tool invocations.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger, or nil when audit logging is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
