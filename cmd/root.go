package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the trellomcp application
var rootCmd = &cobra.Command{
	Use:   "trellomcp",
	Short: "Trello board, list and card tools for AI assistants",
	Long: `trellomcp exposes a Trello board to AI assistants. It lists, creates,
updates, archives and deletes cards and lists boards and lists.

It can run as:
  - An MCP (Model Context Protocol) server (serve)
  - A one-shot command line tool (call)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// errToolFailed is returned by commands that already printed their failure.
var errToolFailed = errors.New("tool failed")

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "trellomcp version %s\n" .Version}}`)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newCallCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
