package host

import (
	"context"
	"log/slog"
	"sync"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/trellomcp/internal/logging"
)

// SlogNotifier writes host messages to a structured logger.
type SlogNotifier struct {
	logger logging.Logger
}

// NewSlogNotifier creates a notifier on top of logger. A nil logger uses
// slog.Default().
func NewSlogNotifier(logger *slog.Logger) *SlogNotifier {
	return &SlogNotifier{logger: logging.NewSlogAdapter(logger)}
}

// Notify implements Notifier.
func (n *SlogNotifier) Notify(_ context.Context, level Level, message string) {
	switch level {
	case LevelDebug:
		n.logger.Debug(message)
	case LevelWarning:
		n.logger.Warn(message)
	case LevelError:
		n.logger.Error(message)
	default:
		n.logger.Info(message)
	}
}

// MCPNotifier sends host messages to the MCP client that issued the current
// request as notifications/message. Outside of an MCP request it falls back
// to the wrapped notifier.
type MCPNotifier struct {
	Logger   string
	Fallback Notifier
}

// NewMCPNotifier creates an MCPNotifier that logs to slog when no client
// session is attached to the context.
func NewMCPNotifier(loggerName string) *MCPNotifier {
	return &MCPNotifier{
		Logger:   loggerName,
		Fallback: NewSlogNotifier(nil),
	}
}

// Notify implements Notifier.
func (n *MCPNotifier) Notify(ctx context.Context, level Level, message string) {
	srv := mcpserver.ServerFromContext(ctx)
	if srv == nil {
		if n.Fallback != nil {
			n.Fallback.Notify(ctx, level, message)
		}
		return
	}

	err := srv.SendNotificationToClient(ctx, "notifications/message", map[string]any{
		"level":  string(level),
		"logger": n.Logger,
		"data":   message,
	})
	if err != nil {
		slog.Debug("failed to deliver host notification", logging.Err(err))
		if n.Fallback != nil {
			n.Fallback.Notify(ctx, level, message)
		}
	}
}

// Message is a notification captured by Recorder.
type Message struct {
	Level Level
	Text  string
}

// Recorder keeps every message it receives.
type Recorder struct {
	mu       sync.Mutex
	messages []Message
}

// Notify implements Notifier.
func (r *Recorder) Notify(_ context.Context, level Level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: message})
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}
