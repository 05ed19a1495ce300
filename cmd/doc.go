// Package cmd implements the command-line interface for trellomcp.
//
// This package provides the following commands:
//   - serve: Start the MCP server exposing the Trello tools
//   - call: Run a single Trello tool from the command line
//   - tools: List the available tools
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
package cmd
