// Package server provides the MCP server context and the HTTP plumbing of
// the trellomcp application.
//
// # Key Components
//
// ServerContext carries what tool invocations share: the host settings and
// notifier, the outbound HTTP client, the Trello API root, and the metrics
// and audit recorders. Each invocation resolves its own configuration and
// builds its own Trello client from it.
//
// HTTPServer serves the MCP streamable HTTP transport together with the
// health endpoints (/healthz, /readyz, /healthz/detailed).
//
// MetricsServer exposes Prometheus metrics on a dedicated port.
package server
