package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/trellomcp/internal/host"
	"github.com/teemow/trellomcp/internal/logging"
	"github.com/teemow/trellomcp/internal/server"
	"github.com/teemow/trellomcp/internal/tools/trello_tools"
)

// callOptions collects the call flags.
type callOptions struct {
	debug    bool
	argsJSON string
	host     hostOptions
}

func newCallCmd() *cobra.Command {
	var opts callOptions

	cmd := &cobra.Command{
		Use:   "call <tool> [key=value ...]",
		Short: "Run a single Trello tool",
		Long: `Run one Trello tool and print its text result.

Arguments are given as key=value pairs or as a JSON object with --args.
Pairs override keys from --args.

Examples:
  trellomcp call trello_list_cards
  trellomcp call trello_add_card name="Buy milk" due=2024-03-15
  trellomcp call trello_update_card --args '{"card_id":"abc","closed":true}'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runCall(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), opts, args[0], args[1:])
			if errors.Is(err, errToolFailed) {
				// The result text already describes the failure.
				cmd.SilenceErrors = true
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.Flags().StringVar(&opts.argsJSON, "args", "", "Tool arguments as a JSON object")
	opts.host.addFlags(cmd)

	return cmd
}

// parseCallArgs merges a JSON object with key=value pairs.
func parseCallArgs(argsJSON string, pairs []string) (map[string]any, error) {
	args := map[string]any{}
	if strings.TrimSpace(argsJSON) != "" {
		if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
			return nil, fmt.Errorf("invalid --args: %w", err)
		}
	}

	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", pair)
		}
		args[key] = value
	}
	return args, nil
}

func runCall(ctx context.Context, out, errOut io.Writer, opts callOptions, tool string, pairs []string) error {
	if ctx == nil {
		ctx = context.Background()
	}

	args, err := parseCallArgs(opts.argsJSON, pairs)
	if err != nil {
		return err
	}

	settings, err := opts.host.settings()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(errOut, opts.debug)
	h := host.New(settings, host.NewSlogNotifier(logger))

	sc, err := server.NewServerContext(ctx, h,
		server.WithLogger(logger),
		server.WithAPIBaseURL(opts.host.baseURL()),
	)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() { _ = sc.Shutdown() }()

	result := trello_tools.NewExecutor(sc, false).Execute(ctx, tool, args)
	fmt.Fprintln(out, result.Text)
	if result.IsError {
		return errToolFailed
	}
	return nil
}
