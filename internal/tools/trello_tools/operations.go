package trello_tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/trellomcp/internal/config"
	"github.com/teemow/trellomcp/internal/host"
	"github.com/teemow/trellomcp/internal/instrumentation"
	"github.com/teemow/trellomcp/internal/logging"
	"github.com/teemow/trellomcp/internal/server"
	"github.com/teemow/trellomcp/internal/tools/common"
	"github.com/teemow/trellomcp/internal/trello"
)

// Tool names.
const (
	ToolListCards  = "trello_list_cards"
	ToolAddCard    = "trello_add_card"
	ToolUpdateCard = "trello_update_card"
	ToolDeleteCard = "trello_delete_card"
	ToolListBoards = "trello_list_boards"
	ToolListLists  = "trello_list_lists"
	ToolMarkDone   = "trello_mark_done"
	ToolSetup      = config.SetupToolName
)

// Precondition failures. They are rendered as warnings.
var (
	ErrNoTargetList    = errors.New("no list specified")
	ErrNothingToUpdate = errors.New("nothing to update")
)

const (
	msgNoTargetList    = "No list specified. Pass list_id or set TRELLO_DEFAULT_LIST_ID. Use trello_list_lists to find list IDs."
	msgNothingToUpdate = "Nothing to update. Pass at least one of name, description, due, list_id or closed."
)

// invocation is what a handler gets to work with.
type invocation struct {
	args   map[string]any
	cfg    config.Config
	client *trello.Client
	loc    *time.Location
	logger *slog.Logger
}

// decode decodes the invocation arguments into out.
func (inv *invocation) decode(out any) error {
	return decodeArgs(inv.args, out)
}

type handlerFunc func(ctx context.Context, inv *invocation) (string, error)

// Operation is one entry of the operation table.
type Operation struct {
	Name        string
	Description string
	// ReadOnly operations never modify Trello data.
	ReadOnly bool
	// Destructive operations delete data.
	Destructive bool
	// NeedsConfig operations resolve the configuration and talk to Trello.
	NeedsConfig bool
	// APIOperation labels the audit log entry.
	APIOperation string
	Params       []Param

	handler handlerFunc
}

// Tool returns the MCP tool declaration of the operation.
func (op Operation) Tool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(op.Description),
		mcp.WithReadOnlyHintAnnotation(op.ReadOnly),
		mcp.WithDestructiveHintAnnotation(op.Destructive),
	}
	for _, p := range op.Params {
		opts = append(opts, p.option())
	}
	return mcp.NewTool(op.Name, opts...)
}

// Operations returns the operation table in registration order.
func Operations() []Operation {
	return []Operation{
		{
			Name:         ToolListCards,
			Description:  "List the cards of the configured Trello board, or of a single list",
			ReadOnly:     true,
			NeedsConfig:  true,
			APIOperation: instrumentation.OperationListBoardCards,
			Params: []Param{
				{Name: "list_id", Type: ParamString, Description: "Only list the cards of this list"},
			},
			handler: handleListCards,
		},
		{
			Name:         ToolAddCard,
			Description:  "Create a card. Without list_id the card goes to the configured default list",
			NeedsConfig:  true,
			APIOperation: instrumentation.OperationCreateCard,
			Params: []Param{
				{Name: "name", Type: ParamString, Required: true, Description: "Card title"},
				{Name: "description", Type: ParamString, Description: "Card description"},
				{Name: "list_id", Type: ParamString, Description: "List to create the card in (default: TRELLO_DEFAULT_LIST_ID)"},
				{Name: "due", Type: ParamString, Description: "Due date, e.g. 2024-03-15 or 2024-03-15T17:00:00Z"},
			},
			handler: handleAddCard,
		},
		{
			Name:         ToolUpdateCard,
			Description:  "Update a card. Only the given fields are changed",
			NeedsConfig:  true,
			APIOperation: instrumentation.OperationUpdateCard,
			Params: []Param{
				{Name: "card_id", Type: ParamString, Required: true, Description: "ID of the card to update"},
				{Name: "name", Type: ParamString, Description: "New title"},
				{Name: "description", Type: ParamString, Description: "New description"},
				{Name: "due", Type: ParamString, Description: "New due date"},
				{Name: "list_id", Type: ParamString, Description: "Move the card to this list"},
				{Name: "closed", Type: ParamBoolean, Description: "Archive (true) or restore (false) the card"},
			},
			handler: handleUpdateCard,
		},
		{
			Name:         ToolDeleteCard,
			Description:  "Permanently delete a card. Use trello_mark_done to archive instead",
			Destructive:  true,
			NeedsConfig:  true,
			APIOperation: instrumentation.OperationDeleteCard,
			Params: []Param{
				{Name: "card_id", Type: ParamString, Required: true, Description: "ID of the card to delete"},
			},
			handler: handleDeleteCard,
		},
		{
			Name:         ToolListBoards,
			Description:  "List the open boards of the Trello account",
			ReadOnly:     true,
			NeedsConfig:  true,
			APIOperation: instrumentation.OperationListBoards,
			handler:      handleListBoards,
		},
		{
			Name:         ToolListLists,
			Description:  "List the lists of the configured Trello board",
			ReadOnly:     true,
			NeedsConfig:  true,
			APIOperation: instrumentation.OperationListLists,
			Params: []Param{
				{Name: "include_closed", Type: ParamBoolean, Description: "Include archived lists (default: false)"},
			},
			handler: handleListLists,
		},
		{
			Name:         ToolMarkDone,
			Description:  "Mark a card as done by archiving it",
			NeedsConfig:  true,
			APIOperation: instrumentation.OperationUpdateCard,
			Params: []Param{
				{Name: "card_id", Type: ParamString, Required: true, Description: "ID of the card to mark as done"},
			},
			handler: handleMarkDone,
		},
		{
			Name:        ToolSetup,
			Description: "Show how to configure the Trello API key, token, board and default list",
			ReadOnly:    true,
			handler:     handleSetup,
		},
	}
}

// Result is the text outcome of an operation.
type Result struct {
	Text    string
	IsError bool
}

// Executor runs operations against a server context.
type Executor struct {
	sc  *server.ServerContext
	ops []Operation
	loc *time.Location
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithLocation sets the time zone due dates are rendered in (default: local).
func WithLocation(loc *time.Location) ExecutorOption {
	return func(e *Executor) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// NewExecutor creates an executor. In read-only mode only read-only
// operations are available.
func NewExecutor(sc *server.ServerContext, readOnly bool, opts ...ExecutorOption) *Executor {
	e := &Executor{sc: sc, loc: time.Local}
	for _, op := range Operations() {
		if readOnly && !op.ReadOnly {
			continue
		}
		e.ops = append(e.ops, op)
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Operations returns the operations available on this executor.
func (e *Executor) Operations() []Operation {
	return e.ops
}

// Lookup returns the operation with the given name.
func (e *Executor) Lookup(name string) (Operation, bool) {
	for _, op := range e.ops {
		if op.Name == name {
			return op, true
		}
	}
	return Operation{}, false
}

// Execute runs the named operation. Failures are rendered into the result
// text and sent to the host notifier.
func (e *Executor) Execute(ctx context.Context, name string, args map[string]any) Result {
	logger := logging.WithTool(e.sc.Logger(), name)

	text, err := e.run(ctx, name, args)
	if err == nil {
		logger.Debug("tool succeeded")
		return Result{Text: text}
	}

	level, line := renderFailure(err)
	logger.Info("tool failed", logging.Err(err))
	e.sc.Host().Notify(ctx, level, line)
	return Result{Text: line, IsError: true}
}

func (e *Executor) run(ctx context.Context, name string, args map[string]any) (string, error) {
	op, ok := e.Lookup(name)
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}

	if args == nil {
		args = map[string]any{}
	}
	if err := validateArgs(op.Params, args); err != nil {
		return "", err
	}

	inv := &invocation{
		args:   args,
		loc:    e.loc,
		logger: logging.WithTool(e.sc.Logger(), name),
	}

	if op.NeedsConfig {
		cfg, err := e.sc.ResolveConfig()
		if err != nil {
			return "", err
		}
		inv.cfg = cfg
		inv.client = e.sc.TrelloClient(cfg)
		inv.logger = logging.WithBoard(inv.logger, cfg.BoardID)
	}

	return op.handler(ctx, inv)
}

// Register adds the executor's operations to the MCP server.
func (e *Executor) Register(s *mcpserver.MCPServer) {
	for _, op := range e.ops {
		s.AddTool(op.Tool(), common.InstrumentedToolHandlerWithService(
			op.Name, instrumentation.ServiceTrello, op.APIOperation, e.sc, e.mcpHandler(op.Name)))
	}
}

func (e *Executor) mcpHandler(name string) common.ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := e.Execute(ctx, name, request.GetArguments())
		if result.IsError {
			return mcp.NewToolResultError(result.Text), nil
		}
		return mcp.NewToolResultText(result.Text), nil
	}
}

// RegisterTrelloTools registers the Trello tools with the MCP server.
func RegisterTrelloTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if sc == nil {
		return errors.New("server context is required")
	}
	NewExecutor(sc, readOnly).Register(s)
	return nil
}

// renderFailure turns an operation error into one line of text.
func renderFailure(err error) (host.Level, string) {
	var cfgErr *config.Error
	switch {
	case errors.Is(err, ErrNoTargetList):
		return host.LevelWarning, glyphWarning + " " + msgNoTargetList
	case errors.Is(err, ErrNothingToUpdate):
		return host.LevelWarning, glyphWarning + " " + msgNothingToUpdate
	case errors.As(err, &cfgErr):
		return host.LevelError, glyphFailure + " " + cfgErr.Error()
	default:
		return host.LevelError, glyphFailure + " " + capitalize(err.Error())
	}
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
