package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/trellomcp/internal/host"
	"github.com/teemow/trellomcp/internal/instrumentation"
	"github.com/teemow/trellomcp/internal/logging"
	"github.com/teemow/trellomcp/internal/server"
	"github.com/teemow/trellomcp/internal/tools/trello_tools"
)

// Transport types
const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

// defaultHTTPAddr only accepts local connections. The MCP endpoint has no
// authentication.
const defaultHTTPAddr = "127.0.0.1:8080"

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// serveOptions collects the serve flags.
type serveOptions struct {
	debug     bool
	transport string
	httpAddr  string
	readOnly  bool
	host      hostOptions
	metrics   MetricsConfig
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Trello tools
for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport

Configuration:
  TRELLO_API_KEY, TRELLO_API_TOKEN and TRELLO_BOARD_ID are required,
  TRELLO_DEFAULT_LIST_ID is optional. They are read from the --config file,
  the environment or a .env file. The configuration is read on every tool
  call, so the server starts without it and the trello_setup tool explains
  how to obtain the values.

Safety Mode:
  Use --read-only to register only the tools that do not modify Trello.

  The streamable-http endpoint has no authentication: anyone who can reach
  --http-addr can call every registered tool with the configured Trello
  token. It listens on 127.0.0.1 by default. Combine a non-loopback address
  with --read-only or put an authenticating reverse proxy in front of it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", defaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "Only register tools that do not modify Trello data")
	opts.host.addFlags(cmd)

	// Metrics server flags
	cmd.Flags().BoolVar(&opts.metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port (streamable-http only). Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

func validateTransport(transport string) error {
	switch transport {
	case transportStdio, transportStreamableHTTP:
		return nil
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, streamable-http)", transport)
	}
}

// isLoopbackAddr reports whether a listen address only accepts local
// connections. An empty host listens on every interface.
func isLoopbackAddr(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil || host == "" {
		return false
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// applyMetricsEnv lets METRICS_ENABLED and METRICS_ADDR override the flag
// defaults when the flags were not given.
func applyMetricsEnv(cmd *cobra.Command, cfg *MetricsConfig) {
	if !cmd.Flags().Changed("metrics-enabled") {
		if v := os.Getenv("METRICS_ENABLED"); v != "" {
			cfg.Enabled = v == "true"
		}
	}
	if !cmd.Flags().Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			cfg.Addr = addr
		}
	}
}

func runServe(cmd *cobra.Command, opts serveOptions) error {
	// Setup graceful shutdown
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Logs always go to stderr so stdout stays free for the stdio transport.
	logger := logging.NewLogger(os.Stderr, opts.debug)
	slog.SetDefault(logger)

	applyMetricsEnv(cmd, &opts.metrics)

	settings, err := opts.host.settings()
	if err != nil {
		return err
	}

	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	if err := validateTransport(opts.transport); err != nil {
		return err
	}

	provider, err := instrumentation.NewProvider(shutdownCtx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(context.Background()); err != nil {
			logger.Warn("error during instrumentation shutdown", logging.Err(err))
		}
	}()

	h := host.New(settings, host.NewMCPNotifier("trellomcp"))
	serverContext, err := server.NewServerContext(shutdownCtx, h,
		server.WithLogger(logger),
		server.WithAPIBaseURL(opts.host.baseURL()),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("error during server context shutdown", logging.Err(err))
		}
	}()

	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}

	if _, err := serverContext.ResolveConfig(); err != nil {
		logger.Warn("Trello is not configured yet; tools will report setup instructions", logging.Err(err))
	}

	mcpSrv := mcpserver.NewMCPServer("trellomcp", version,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithLogging(),
	)

	if opts.readOnly {
		logger.Info("starting server in read-only mode")
	}
	if err := trello_tools.RegisterTrelloTools(mcpSrv, serverContext, opts.readOnly); err != nil {
		return fmt.Errorf("failed to register Trello tools: %w", err)
	}

	switch opts.transport {
	case transportStdio:
		return runStdioServer(mcpSrv)
	default:
		return runStreamableHTTPServer(shutdownCtx, mcpSrv, serverContext, opts, provider, instrConfig)
	}
}

func runStdioServer(mcpSrv *mcpserver.MCPServer) error {
	if err := mcpserver.ServeStdio(mcpSrv); err != nil {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, sc *server.ServerContext, opts serveOptions, provider *instrumentation.Provider, instrConfig instrumentation.Config) error {
	logger := sc.Logger()

	var metricsServer *server.MetricsServer
	if opts.metrics.Enabled && provider.Enabled() && instrConfig.MetricsExporter == instrumentation.ExporterPrometheus {
		var err error
		metricsServer, err = server.NewMetricsServer(server.MetricsServerConfig{
			Addr:                    opts.metrics.Addr,
			Path:                    instrConfig.PrometheusEndpoint,
			InstrumentationProvider: provider,
		})
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	if !isLoopbackAddr(opts.httpAddr) && !opts.readOnly {
		logger.Warn("streamable HTTP endpoint is unauthenticated and reachable from the network; write tools are exposed",
			"addr", opts.httpAddr)
	}

	httpServer := server.NewHTTPServer(mcpSrv, sc, opts.httpAddr)

	errCh := make(chan error, 2)
	if metricsServer != nil {
		go func() {
			if err := metricsServer.Start(); err != nil {
				errCh <- fmt.Errorf("metrics server failed: %w", err)
			}
		}()
		logger.Info("metrics server started", "addr", metricsServer.Addr())
	}
	go func() {
		if err := httpServer.Start(); err != nil {
			errCh <- fmt.Errorf("HTTP server failed: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case runErr = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("error during HTTP server shutdown", logging.Err(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("error during metrics server shutdown", logging.Err(err))
		}
	}
	return runErr
}
