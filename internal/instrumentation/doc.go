// Package instrumentation provides OpenTelemetry instrumentation for the
// trellomcp MCP server.
//
// # Metrics
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Trello API Metrics:
//   - api_operations_total: Counter of Trello API calls by service, operation, status
//   - api_operation_duration_seconds: Histogram of Trello API call durations
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>) and Trello API
// calls (trello.<operation>).
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, none, default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: trellomcp)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordAPIOperation(ctx, instrumentation.ServiceTrello, "list_cards", instrumentation.StatusSuccess, time.Since(start))
//	recorder.RecordToolInvocationWithBoard(ctx, "trello_list_cards", instrumentation.StatusSuccess, boardID, time.Since(start))
package instrumentation
