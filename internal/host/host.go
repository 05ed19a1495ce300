package host

import "context"

// Level is the severity of a host message.
type Level string

// Message levels, named after the MCP logging levels they map to.
const (
	LevelDebug   Level = "debug"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Settings reads a configuration value by its canonical key
// (e.g. "api_key", "board_id").
type Settings interface {
	Lookup(key string) (string, bool)
}

// Notifier emits a message to the host.
type Notifier interface {
	Notify(ctx context.Context, level Level, message string)
}

// Host is the dependency bundle handed to every tool invocation.
type Host struct {
	Settings
	Notifier
}

// New creates a Host. A nil notifier discards messages.
func New(settings Settings, notifier Notifier) *Host {
	if settings == nil {
		settings = MapSettings{}
	}
	if notifier == nil {
		notifier = discard{}
	}
	return &Host{Settings: settings, Notifier: notifier}
}

type discard struct{}

func (discard) Notify(context.Context, Level, string) {}
