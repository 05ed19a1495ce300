// Package trello_tools provides the Trello MCP tools.
//
// The tools are declared in an ordered operation table. Each operation
// lists its parameters once; the table generates the MCP input schema,
// validates arguments and decodes them into a typed parameter struct before
// the handler runs.
//
// Every operation resolves the configuration, performs at most one Trello
// request and renders the response as text. Failures are rendered as a
// single line and returned as an error result, never as a Go error.
package trello_tools
