package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/trellomcp/internal/instrumentation"
	"github.com/teemow/trellomcp/internal/server"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// InstrumentedToolHandlerWithService wraps a tool handler with a tool span,
// metrics and audit logging. The remote service and operation are recorded
// in the audit log when serviceName is set. API call metrics are recorded by
// the Trello client itself.
//
//	s.AddTool(tool, common.InstrumentedToolHandlerWithService("trello_list_cards",
//		instrumentation.ServiceTrello, instrumentation.OperationListBoardCards, sc, handler))
func InstrumentedToolHandlerWithService(toolName, serviceName, operation string, sc *server.ServerContext, handler ToolHandler) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		metrics := sc.Metrics()
		auditLogger := sc.AuditLogger()

		if metrics == nil && auditLogger == nil {
			return handler(ctx, request)
		}

		boardID := BoardID(sc)
		ctx, span := instrumentation.StartToolSpan(ctx,
			toolName,
			instrumentation.NewSpanAttributeBuilder().WithBoard(boardID).Build()...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithSpanContext(ctx).
			WithBoard(boardID).
			WithArguments(request.GetArguments())
		if serviceName != "" {
			invocation.WithService(serviceName, operation)
		}

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			invocation.CompleteWithError(err)
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
			invocation.Error = resultText(result)
		default:
			invocation.CompleteSuccess()
			instrumentation.SetSpanSuccess(span)
		}

		metrics.RecordToolInvocationWithBoard(ctx, toolName, status, boardID, duration)
		auditLogger.LogToolInvocation(invocation)

		return result, err
	}
}

// resultText returns the first text content of a result.
func resultText(result *mcp.CallToolResult) string {
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	return ""
}
