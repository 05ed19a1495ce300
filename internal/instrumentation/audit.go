package instrumentation

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"go.opentelemetry.io/otel/trace"
)

// ToolInvocation captures one MCP tool call for audit logging.
//
// Argument values may contain card names and descriptions. LogAttrs only
// records argument names; LogAuditAttrs records the values too.
type ToolInvocation struct {
	Tool string

	// Target information
	BoardID     string
	ServiceName string
	Operation   string
	Arguments   map[string]any

	// Execution details
	StartTime time.Time
	Duration  time.Duration
	Success   bool
	Error     string

	// Tracing context
	TraceID string
	SpanID  string
}

// NewToolInvocation creates a new ToolInvocation with timing started.
// Call Complete when the tool finishes.
func NewToolInvocation(tool string) *ToolInvocation {
	return &ToolInvocation{
		Tool:      tool,
		StartTime: time.Now(),
	}
}

// WithBoard sets the configured board.
func (ti *ToolInvocation) WithBoard(boardID string) *ToolInvocation {
	ti.BoardID = boardID
	return ti
}

// WithService sets the remote service and operation.
func (ti *ToolInvocation) WithService(serviceName, operation string) *ToolInvocation {
	ti.ServiceName = serviceName
	ti.Operation = operation
	return ti
}

// WithArguments records the raw tool arguments.
func (ti *ToolInvocation) WithArguments(args map[string]any) *ToolInvocation {
	ti.Arguments = args
	return ti
}

// WithSpanContext extracts trace context from the current span.
func (ti *ToolInvocation) WithSpanContext(ctx context.Context) *ToolInvocation {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		ti.TraceID = span.SpanContext().TraceID().String()
		ti.SpanID = span.SpanContext().SpanID().String()
	}
	return ti
}

// Complete marks the invocation as completed and calculates duration.
func (ti *ToolInvocation) Complete(success bool, err error) *ToolInvocation {
	ti.Duration = time.Since(ti.StartTime)
	ti.Success = success
	if err != nil {
		ti.Error = err.Error()
	}
	return ti
}

// CompleteWithError marks the invocation as failed with the given error.
func (ti *ToolInvocation) CompleteWithError(err error) *ToolInvocation {
	return ti.Complete(false, err)
}

// CompleteSuccess marks the invocation as successful.
func (ti *ToolInvocation) CompleteSuccess() *ToolInvocation {
	return ti.Complete(true, nil)
}

// Status returns StatusSuccess or StatusError.
func (ti *ToolInvocation) Status() string {
	if ti.Success {
		return StatusSuccess
	}
	return StatusError
}

// ArgumentNames returns the sorted argument names.
func (ti *ToolInvocation) ArgumentNames() []string {
	names := make([]string, 0, len(ti.Arguments))
	for name := range ti.Arguments {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (ti *ToolInvocation) baseAttrs() []slog.Attr {
	attrs := []slog.Attr{
		slog.String("tool", ti.Tool),
		slog.Duration("duration", ti.Duration),
		slog.Bool("success", ti.Success),
	}

	if ti.BoardID != "" {
		attrs = append(attrs, slog.String("board_id", ti.BoardID))
	}
	if ti.ServiceName != "" {
		attrs = append(attrs, slog.String("service", ti.ServiceName))
	}
	if ti.Operation != "" {
		attrs = append(attrs, slog.String("operation", ti.Operation))
	}
	if ti.TraceID != "" {
		attrs = append(attrs, slog.String("trace_id", ti.TraceID))
	}
	return attrs
}

// LogAttrs returns slog attributes for operational logging. Argument values
// are left out.
func (ti *ToolInvocation) LogAttrs() []slog.Attr {
	attrs := ti.baseAttrs()
	if len(ti.Arguments) > 0 {
		attrs = append(attrs, slog.Any("arguments", ti.ArgumentNames()))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// LogAuditAttrs returns slog attributes including argument values.
func (ti *ToolInvocation) LogAuditAttrs() []slog.Attr {
	attrs := ti.baseAttrs()
	if ti.SpanID != "" {
		attrs = append(attrs, slog.String("span_id", ti.SpanID))
	}
	if len(ti.Arguments) > 0 {
		args := make([]any, 0, len(ti.Arguments))
		for _, name := range ti.ArgumentNames() {
			args = append(args, slog.String(name, fmt.Sprint(ti.Arguments[name])))
		}
		attrs = append(attrs, slog.Group("arguments", args...))
	}
	if ti.Error != "" {
		attrs = append(attrs, slog.String("error", ti.Error))
	}
	return attrs
}

// AuditLogger provides structured audit logging for tool invocations.
type AuditLogger struct {
	logger           *slog.Logger
	includeArguments bool
	enabled          bool
}

// NewAuditLoggerWithConfig creates a new AuditLogger with the given configuration.
func NewAuditLoggerWithConfig(logger *slog.Logger, config AuditLoggingConfig) *AuditLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger:           logger,
		includeArguments: config.IncludeArguments,
		enabled:          config.Enabled,
	}
}

// LogToolInvocation logs a finished tool invocation. Successful calls are
// logged at info level, failed calls at warn level.
func (al *AuditLogger) LogToolInvocation(ti *ToolInvocation) {
	if al == nil || !al.enabled {
		return
	}

	var attrs []slog.Attr
	if al.includeArguments {
		attrs = ti.LogAuditAttrs()
	} else {
		attrs = ti.LogAttrs()
	}

	level := slog.LevelInfo
	msg := "tool_executed"
	if !ti.Success {
		level = slog.LevelWarn
		msg = "tool_failed"
	}

	al.logger.LogAttrs(context.Background(), level, msg, attrs...)
}
