// Package host defines the capabilities the tools receive from whatever is
// hosting them: reading settings and emitting messages.
//
// Tools never read the process environment or write to a terminal directly.
// They get a *Host, which bundles a Settings source and a Notifier, so the
// same operations run unchanged behind the MCP server, the CLI and tests.
//
// # Settings sources
//
//   - EnvSettings: TRELLO_* environment variables (optionally seeded from a
//     .env file with LoadDotEnv)
//   - MapSettings: an in-memory map, also produced by LoadFileSettings from
//     a YAML settings file
//   - Layered: the first source with a non-empty value wins
//
// # Notifiers
//
//   - SlogNotifier: writes messages to a slog.Logger (CLI)
//   - MCPNotifier: sends notifications/message to the calling MCP client
//   - Recorder: keeps messages in memory (tests)
package host
