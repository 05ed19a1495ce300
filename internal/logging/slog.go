package logging

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
)

// Common log attribute keys.
const (
	KeyOperation = "operation"
	KeyBoard     = "board_id"
	KeyList      = "list_id"
	KeyCard      = "card_id"
	KeyError     = "error"
	KeyTool      = "tool"
)

// Query parameters that carry Trello credentials.
var secretParams = []string{"key", "token"}

// NewLogger returns a text logger writing to w. Debug enables debug level.
func NewLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// WithTool returns a logger with the tool attribute set.
func WithTool(logger *slog.Logger, tool string) *slog.Logger {
	return logger.With(slog.String(KeyTool, tool))
}

// WithBoard returns a logger with the board attribute set.
func WithBoard(logger *slog.Logger, boardID string) *slog.Logger {
	return logger.With(slog.String(KeyBoard, boardID))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// List returns a slog attribute for a list ID.
func List(id string) slog.Attr {
	return slog.String(KeyList, id)
}

// Card returns a slog attribute for a card ID.
func Card(id string) slog.Attr {
	return slog.String(KeyCard, id)
}

// Err returns a slog attribute for an error.
// A nil error yields an empty group, which slog omits.
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeToken returns a length indicator for a secret without exposing
// any of its content.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}

// SanitizeURL masks the key and token query parameters of a Trello URL.
// Unparseable input is replaced entirely.
func SanitizeURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}

	q := u.Query()
	for _, name := range secretParams {
		if v := q.Get(name); v != "" {
			q.Set(name, SanitizeToken(v))
		}
	}
	u.RawQuery = q.Encode()
	return u.String()
}
