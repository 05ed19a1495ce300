package config

import (
	"fmt"
	"strings"

	"github.com/teemow/trellomcp/internal/host"
)

// Canonical setting keys.
const (
	KeyAPIKey        = "api_key"
	KeyAPIToken      = "api_token"
	KeyBoardID       = "board_id"
	KeyDefaultListID = "default_list_id"
)

// SetupToolName is the tool users are pointed at when configuration is missing.
const SetupToolName = "trello_setup"

// Config holds the settings of one tool invocation.
type Config struct {
	APIKey        string
	APIToken      string
	BoardID       string
	DefaultListID string // optional
}

// HasDefaultList reports whether a default list is configured.
func (c Config) HasDefaultList() bool {
	return c.DefaultListID != ""
}

// Error is returned when required settings are missing.
type Error struct {
	// Missing holds the canonical keys of the missing settings.
	Missing []string
}

// Error implements the error interface
func (e *Error) Error() string {
	names := make([]string, len(e.Missing))
	for i, key := range e.Missing {
		names[i] = host.EnvName(key)
	}
	return fmt.Sprintf("Trello is not configured: missing %s. Run the %s tool for setup instructions.",
		strings.Join(names, ", "), SetupToolName)
}

// Resolve reads the configuration from settings. It fails when the API key,
// API token or board ID is missing; the default list is optional.
func Resolve(settings host.Settings) (Config, error) {
	if settings == nil {
		settings = host.MapSettings{}
	}

	var cfg Config
	var missing []string

	required := []struct {
		key string
		dst *string
	}{
		{KeyAPIKey, &cfg.APIKey},
		{KeyAPIToken, &cfg.APIToken},
		{KeyBoardID, &cfg.BoardID},
	}
	for _, r := range required {
		v, ok := settings.Lookup(r.key)
		if !ok {
			missing = append(missing, r.key)
			continue
		}
		*r.dst = v
	}

	if len(missing) > 0 {
		return Config{}, &Error{Missing: missing}
	}

	if v, ok := settings.Lookup(KeyDefaultListID); ok {
		cfg.DefaultListID = v
	}

	return cfg, nil
}
