package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/trellomcp/internal/tools/trello_tools"
)

func newToolsCmd() *cobra.Command {
	var readOnly bool

	cmd := &cobra.Command{
		Use:   "tools",
		Short: "List the available tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printTools(cmd.OutOrStdout(), readOnly)
		},
	}

	cmd.Flags().BoolVar(&readOnly, "read-only", false, "Only list tools that do not modify Trello data")
	return cmd
}

func printTools(w io.Writer, readOnly bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "TOOL\tMODE\tARGUMENTS\tDESCRIPTION")

	for _, op := range trello_tools.Operations() {
		if readOnly && !op.ReadOnly {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", op.Name, operationMode(op), paramSummary(op.Params), op.Description)
	}
	return tw.Flush()
}

func operationMode(op trello_tools.Operation) string {
	switch {
	case op.ReadOnly:
		return "read"
	case op.Destructive:
		return "delete"
	default:
		return "write"
	}
}

// paramSummary renders parameters like "card_id [name]", optional ones in brackets.
func paramSummary(params []trello_tools.Param) string {
	if len(params) == 0 {
		return "-"
	}

	parts := make([]string, len(params))
	for i, p := range params {
		if p.Required {
			parts[i] = p.Name
		} else {
			parts[i] = "[" + p.Name + "]"
		}
	}
	return strings.Join(parts, " ")
}
