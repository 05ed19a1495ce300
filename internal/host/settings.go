package host

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to the upper-cased canonical key to form the
// environment variable name.
const EnvPrefix = "TRELLO_"

// EnvName returns the environment variable that carries key,
// e.g. "api_key" -> "TRELLO_API_KEY".
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(key)
}

// EnvSettings reads settings from the process environment.
type EnvSettings struct{}

// Lookup implements Settings.
func (EnvSettings) Lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvName(key))
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// MapSettings is an in-memory settings source keyed by canonical key.
type MapSettings map[string]string

// Lookup implements Settings.
func (m MapSettings) Lookup(key string) (string, bool) {
	v, ok := m[key]
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Layered consults each source in order and returns the first non-empty value.
type Layered []Settings

// Lookup implements Settings.
func (l Layered) Lookup(key string) (string, bool) {
	for _, s := range l {
		if s == nil {
			continue
		}
		if v, ok := s.Lookup(key); ok {
			return v, true
		}
	}
	return "", false
}

// LoadFileSettings reads a YAML settings file of the form
//
//	api_key: ...
//	api_token: ...
//	board_id: ...
//	default_list_id: ...
func LoadFileSettings(path string) (MapSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	settings := MapSettings{}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	return settings, nil
}

// LoadDotEnv loads variables from the given .env files into the process
// environment without overriding variables that are already set.
// A missing file is not an error.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}
