package trello_tools

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/trellomcp/internal/config"
	"github.com/teemow/trellomcp/internal/host"
	"github.com/teemow/trellomcp/internal/server"
)

// cannedResponse is what the fake API answers on one route.
type cannedResponse struct {
	status int
	body   string
}

// fakeTrello routes "METHOD /path" to canned responses and records requests.
type fakeTrello struct {
	server *httptest.Server
	calls  atomic.Int32

	mu       sync.Mutex
	routes   map[string]cannedResponse
	fallback cannedResponse
	requests []*http.Request
	bodies   []map[string]any
}

func newFakeTrello(t *testing.T) *fakeTrello {
	t.Helper()

	f := &fakeTrello{
		routes:   map[string]cannedResponse{},
		fallback: cannedResponse{status: http.StatusNotFound, body: "route not found"},
	}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.calls.Add(1)

		var body map[string]any
		if data, _ := io.ReadAll(r.Body); len(data) > 0 {
			_ = json.Unmarshal(data, &body)
		}

		f.mu.Lock()
		f.requests = append(f.requests, r)
		f.bodies = append(f.bodies, body)
		resp, ok := f.routes[r.Method+" "+r.URL.Path]
		if !ok {
			resp = f.fallback
		}
		f.mu.Unlock()

		w.WriteHeader(resp.status)
		_, _ = io.WriteString(w, resp.body)
	}))
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeTrello) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = cannedResponse{status: status, body: body}
}

// otherwise answers every unregistered route.
func (f *fakeTrello) otherwise(status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fallback = cannedResponse{status: status, body: body}
}

func (f *fakeTrello) lastRequest(t *testing.T) (*http.Request, map[string]any) {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1], f.bodies[len(f.bodies)-1]
}

func fullSettings() host.MapSettings {
	return host.MapSettings{
		config.KeyAPIKey:   "k",
		config.KeyAPIToken: "t",
		config.KeyBoardID:  "b1",
	}
}

// testEnv bundles an executor with its fake API and notification recorder.
type testEnv struct {
	api      *fakeTrello
	recorder *host.Recorder
	sc       *server.ServerContext
	exec     *Executor
}

func newTestEnv(t *testing.T, settings host.MapSettings, readOnly bool, opts ...server.Option) *testEnv {
	t.Helper()

	api := newFakeTrello(t)
	recorder := &host.Recorder{}
	opts = append([]server.Option{
		server.WithAPIBaseURL(api.server.URL),
		server.WithHTTPClient(api.server.Client()),
	}, opts...)
	sc, err := server.NewServerContext(context.Background(), host.New(settings, recorder), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	return &testEnv{
		api:      api,
		recorder: recorder,
		sc:       sc,
		exec:     NewExecutor(sc, readOnly, WithLocation(time.UTC)),
	}
}

func (e *testEnv) run(name string, args map[string]any) Result {
	return e.exec.Execute(context.Background(), name, args)
}

func TestOperations_Table(t *testing.T) {
	ops := Operations()

	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.Name
		assert.NotEmpty(t, op.Description, op.Name)
		assert.NotNil(t, op.handler, op.Name)
	}

	assert.Equal(t, []string{
		ToolListCards, ToolAddCard, ToolUpdateCard, ToolDeleteCard,
		ToolListBoards, ToolListLists, ToolMarkDone, ToolSetup,
	}, names)
}

func TestOperation_ToolSchema(t *testing.T) {
	tools := map[string]mcp.Tool{}
	for _, op := range Operations() {
		tools[op.Name] = op.Tool()
	}

	tests := []struct {
		tool       string
		required   []string
		properties []string
	}{
		{tool: ToolListCards, properties: []string{"list_id"}},
		{tool: ToolAddCard, required: []string{"name"}, properties: []string{"name", "description", "list_id", "due"}},
		{tool: ToolUpdateCard, required: []string{"card_id"}, properties: []string{"card_id", "name", "description", "due", "list_id", "closed"}},
		{tool: ToolDeleteCard, required: []string{"card_id"}, properties: []string{"card_id"}},
		{tool: ToolListBoards},
		{tool: ToolListLists, properties: []string{"include_closed"}},
		{tool: ToolMarkDone, required: []string{"card_id"}, properties: []string{"card_id"}},
		{tool: ToolSetup},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			tool := tools[tt.tool]
			assert.ElementsMatch(t, tt.required, tool.InputSchema.Required)
			assert.Len(t, tool.InputSchema.Properties, len(tt.properties))
			for _, p := range tt.properties {
				assert.Contains(t, tool.InputSchema.Properties, p)
			}
		})
	}

	closed, ok := tools[ToolUpdateCard].InputSchema.Properties["closed"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boolean", closed["type"])
}

func TestOperation_ToolAnnotations(t *testing.T) {
	for _, op := range Operations() {
		tool := op.Tool()
		require.NotNil(t, tool.Annotations.ReadOnlyHint, op.Name)
		assert.Equal(t, op.ReadOnly, *tool.Annotations.ReadOnlyHint, op.Name)
	}

	del := Operations()[3].Tool()
	require.NotNil(t, del.Annotations.DestructiveHint)
	assert.True(t, *del.Annotations.DestructiveHint)
}

func TestRegisterTrelloTools(t *testing.T) {
	tests := []struct {
		name     string
		readOnly bool
		want     []string
	}{
		{
			name: "all tools",
			want: []string{
				ToolListCards, ToolAddCard, ToolUpdateCard, ToolDeleteCard,
				ToolListBoards, ToolListLists, ToolMarkDone, ToolSetup,
			},
		},
		{
			name:     "read-only",
			readOnly: true,
			want:     []string{ToolListCards, ToolListBoards, ToolListLists, ToolSetup},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, fullSettings(), false)
			s := mcpserver.NewMCPServer("test", "0.0.0", mcpserver.WithToolCapabilities(true))

			require.NoError(t, RegisterTrelloTools(s, env.sc, tt.readOnly))

			var got []string
			for name := range s.ListTools() {
				got = append(got, name)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestRegisterTrelloTools_NilContext(t *testing.T) {
	s := mcpserver.NewMCPServer("test", "0.0.0")
	assert.Error(t, RegisterTrelloTools(s, nil, false))
}

func TestExecute_MissingConfigMakesNoRequest(t *testing.T) {
	for _, op := range Operations() {
		if !op.NeedsConfig {
			continue
		}
		t.Run(op.Name, func(t *testing.T) {
			env := newTestEnv(t, host.MapSettings{}, false)

			result := env.run(op.Name, map[string]any{"name": "x", "card_id": "c1"})

			assert.True(t, result.IsError)
			assert.True(t, strings.HasPrefix(result.Text, "❌ Trello is not configured"), result.Text)
			assert.Contains(t, result.Text, "TRELLO_API_KEY")
			assert.Contains(t, result.Text, "trello_setup")
			assert.Equal(t, int32(0), env.api.calls.Load())

			msgs := env.recorder.Messages()
			require.Len(t, msgs, 1)
			assert.Equal(t, host.LevelError, msgs[0].Level)
			assert.Equal(t, result.Text, msgs[0].Text)
		})
	}
}

func TestExecute_Setup(t *testing.T) {
	env := newTestEnv(t, host.MapSettings{}, false)

	result := env.run(ToolSetup, nil)

	assert.False(t, result.IsError)
	assert.Contains(t, result.Text, "https://trello.com/app-key")
	assert.Contains(t, result.Text, "TRELLO_DEFAULT_LIST_ID")
	assert.Equal(t, int32(0), env.api.calls.Load())
	assert.Empty(t, env.recorder.Messages())
}

func TestExecute_UnknownTool(t *testing.T) {
	env := newTestEnv(t, fullSettings(), true)

	result := env.run(ToolDeleteCard, map[string]any{"card_id": "c1"})

	assert.True(t, result.IsError)
	assert.Equal(t, `❌ Unknown tool "trello_delete_card"`, result.Text)
	assert.Equal(t, int32(0), env.api.calls.Load())
}

func TestExecute_InvalidArguments(t *testing.T) {
	env := newTestEnv(t, fullSettings(), false)

	result := env.run(ToolDeleteCard, map[string]any{})

	assert.True(t, result.IsError)
	assert.Equal(t, `❌ Invalid arguments: missing required parameter "card_id"`, result.Text)
	assert.Equal(t, int32(0), env.api.calls.Load())
}

func TestExecute_ListCards(t *testing.T) {
	env := newTestEnv(t, fullSettings(), false)
	env.api.on(http.MethodGet, "/boards/b1/cards", http.StatusOK,
		`[{"id":"c1","name":"Buy milk","idList":"l1","closed":false,"due":"2024-03-15T12:00:00.000Z","labels":[{"name":"urgent","color":"red"}]}]`)

	result := env.run(ToolListCards, nil)

	require.False(t, result.IsError, result.Text)
	assert.Equal(t, "Found 1 card(s):\n\n1. ⬜ Buy milk (Due: 3/15/2024) [urgent]\n   ID: c1 | List: l1", result.Text)

	req, _ := env.api.lastRequest(t)
	assert.Equal(t, "k", req.URL.Query().Get("key"))
	assert.Equal(t, "t", req.URL.Query().Get("token"))
}

func TestExecute_ListCardsOfList(t *testing.T) {
	env := newTestEnv(t, fullSettings(), false)
	env.api.on(http.MethodGet, "/lists/l9/cards", http.StatusOK, `[]`)

	result := env.run(ToolListCards, map[string]any{"list_id": "l9"})

	assert.False(t, result.IsError)
	assert.Equal(t, "No cards found.", result.Text)
	assert.Equal(t, int32(1), env.api.calls.Load())
}

func TestExecute_AddCard(t *testing.T) {
	settings := fullSettings()
	settings[config.KeyDefaultListID] = "l-default"

	tests := []struct {
		name       string
		args       map[string]any
		wantListID string
	}{
		{name: "default list", args: map[string]any{"name": "Buy milk"}, wantListID: "l-default"},
		{name: "explicit list", args: map[string]any{"name": "Buy milk", "list_id": "l2"}, wantListID: "l2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, settings, false)
			env.api.on(http.MethodPost, "/cards", http.StatusOK,
				`{"id":"c1","name":"Buy milk","url":"https://trello.com/c/c1","idList":"`+tt.wantListID+`"}`)

			result := env.run(ToolAddCard, tt.args)

			require.False(t, result.IsError, result.Text)
			assert.Equal(t, "✅ Card created: Buy milk\n   ID: c1\n   URL: https://trello.com/c/c1", result.Text)

			_, body := env.api.lastRequest(t)
			assert.Equal(t, "Buy milk", body["name"])
			assert.Equal(t, tt.wantListID, body["idList"])
			assert.NotContains(t, body, "desc")
			assert.NotContains(t, body, "due")
		})
	}
}

func TestExecute_AddCardWithoutList(t *testing.T) {
	env := newTestEnv(t, fullSettings(), false)

	result := env.run(ToolAddCard, map[string]any{"name": "Buy milk"})

	assert.True(t, result.IsError)
	assert.True(t, strings.HasPrefix(result.Text, "⚠️ No list specified"), result.Text)
	assert.Equal(t, int32(0), env.api.calls.Load())

	msgs := env.recorder.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, host.LevelWarning, msgs[0].Level)
}

func TestExecute_AddCardLogsBoard(t *testing.T) {
	settings := fullSettings()
	settings[config.KeyDefaultListID] = "l-default"

	var buf bytes.Buffer
	env := newTestEnv(t, settings, false, server.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	env.api.on(http.MethodPost, "/cards", http.StatusOK, `{"id":"c1","name":"Buy milk","idList":"l-default"}`)

	result := env.run(ToolAddCard, map[string]any{"name": "Buy milk"})

	require.False(t, result.IsError, result.Text)
	out := buf.String()
	assert.Contains(t, out, "card created")
	assert.Contains(t, out, "tool="+ToolAddCard)
	assert.Contains(t, out, "board_id=b1")
	assert.Contains(t, out, "list_id=l-default")
}

func TestExecute_UpdateCardSendsOnlyGivenFields(t *testing.T) {
	env := newTestEnv(t, fullSettings(), false)
	env.api.on(http.MethodPut, "/cards/c1", http.StatusOK, `{"id":"c1","name":"Renamed"}`)

	result := env.run(ToolUpdateCard, map[string]any{"card_id": "c1", "name": "Renamed", "closed": false})

	require.False(t, result.IsError, result.Text)
	assert.Equal(t, "✅ Card updated: Renamed\n   ID: c1", result.Text)

	_, body := env.api.lastRequest(t)
	assert.Equal(t, map[string]any{"name": "Renamed", "closed": false}, body)
}

func TestExecute_UpdateCardWithoutFields(t *testing.T) {
	env := newTestEnv(t, fullSettings(), false)

	result := env.run(ToolUpdateCard, map[string]any{"card_id": "c1"})

	assert.True(t, result.IsError)
	assert.True(t, strings.HasPrefix(result.Text, "⚠️ Nothing to update"), result.Text)
	assert.Equal(t, int32(0), env.api.calls.Load())
}

func TestExecute_MarkDone(t *testing.T) {
	env := newTestEnv(t, fullSettings(), false)
	env.api.on(http.MethodPut, "/cards/c1", http.StatusOK, `{"id":"c1","name":"Buy milk","closed":true}`)

	result := env.run(ToolMarkDone, map[string]any{"card_id": "c1"})

	require.False(t, result.IsError, result.Text)
	assert.Equal(t, "✅ Card marked as done: Buy milk\n   ID: c1", result.Text)

	req, body := env.api.lastRequest(t)
	assert.Equal(t, http.MethodPut, req.Method)
	assert.Equal(t, map[string]any{"closed": true}, body)
}

func TestExecute_DeleteCard(t *testing.T) {
	env := newTestEnv(t, fullSettings(), false)
	env.api.on(http.MethodDelete, "/cards/c1", http.StatusOK, `{"limits":{}}`)

	result := env.run(ToolDeleteCard, map[string]any{"card_id": "c1"})

	require.False(t, result.IsError, result.Text)
	assert.Equal(t, "🗑️ Card deleted (ID: c1)", result.Text)
}

func TestExecute_DeleteMissingCard(t *testing.T) {
	env := newTestEnv(t, fullSettings(), false)
	env.api.on(http.MethodDelete, "/cards/nope", http.StatusNotFound, "card not found")

	result := env.run(ToolDeleteCard, map[string]any{"card_id": "nope"})

	assert.True(t, result.IsError)
	assert.Equal(t, "❌ Failed to delete card: Trello API error 404: card not found", result.Text)
	assert.Equal(t, int32(1), env.api.calls.Load())

	msgs := env.recorder.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, host.LevelError, msgs[0].Level)
	assert.Equal(t, result.Text, msgs[0].Text)
}

func TestExecute_NotFoundOnEveryRemoteOperation(t *testing.T) {
	tests := []struct {
		tool       string
		args       map[string]any
		wantPrefix string
	}{
		{ToolListCards, nil, "❌ Failed to list cards: "},
		{ToolAddCard, map[string]any{"name": "Buy milk", "list_id": "l1"}, "❌ Failed to create card: "},
		{ToolUpdateCard, map[string]any{"card_id": "c1", "name": "Renamed"}, "❌ Failed to update card: "},
		{ToolDeleteCard, map[string]any{"card_id": "c1"}, "❌ Failed to delete card: "},
		{ToolListBoards, nil, "❌ Failed to list boards: "},
		{ToolListLists, nil, "❌ Failed to list lists: "},
		{ToolMarkDone, map[string]any{"card_id": "c1"}, "❌ Failed to mark card as done: "},
	}

	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			env := newTestEnv(t, fullSettings(), false)
			env.api.otherwise(http.StatusNotFound, "card not found")

			result := env.run(tt.tool, tt.args)

			assert.True(t, result.IsError)
			assert.True(t, strings.HasPrefix(result.Text, tt.wantPrefix), result.Text)
			assert.Contains(t, result.Text, "404")
			assert.Contains(t, result.Text, "card not found")
			assert.Equal(t, int32(1), env.api.calls.Load())
		})
	}
}

func TestExecute_ListBoards(t *testing.T) {
	env := newTestEnv(t, fullSettings(), false)
	env.api.on(http.MethodGet, "/members/me/boards", http.StatusOK,
		`[{"id":"b1","name":"Home","url":"https://trello.com/b/b1/home"}]`)

	result := env.run(ToolListBoards, nil)

	require.False(t, result.IsError, result.Text)
	assert.Equal(t, "Found 1 board(s):\n\n1. Home\n   ID: b1\n   URL: https://trello.com/b/b1/home", result.Text)

	req, _ := env.api.lastRequest(t)
	assert.Equal(t, "open", req.URL.Query().Get("filter"))
	assert.Equal(t, "name,url", req.URL.Query().Get("fields"))
}

func TestExecute_ListLists(t *testing.T) {
	tests := []struct {
		name       string
		args       map[string]any
		wantFilter string
	}{
		{name: "open only", args: nil, wantFilter: "open"},
		{name: "include closed", args: map[string]any{"include_closed": true}, wantFilter: "all"},
		{name: "include closed as string", args: map[string]any{"include_closed": "true"}, wantFilter: "all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, fullSettings(), false)
			env.api.on(http.MethodGet, "/boards/b1/lists", http.StatusOK,
				`[{"id":"l1","name":"To Do","closed":false},{"id":"l2","name":"Old","closed":true}]`)

			result := env.run(ToolListLists, tt.args)

			require.False(t, result.IsError, result.Text)
			assert.Equal(t, "Found 2 list(s):\n\n1. 📋 To Do (ID: l1)\n2. 🗄️ Old (ID: l2)", result.Text)

			req, _ := env.api.lastRequest(t)
			assert.Equal(t, tt.wantFilter, req.URL.Query().Get("filter"))
		})
	}
}

func TestExecute_EmptyResults(t *testing.T) {
	env := newTestEnv(t, fullSettings(), false)
	env.api.on(http.MethodGet, "/boards/b1/cards", http.StatusOK, `[]`)
	env.api.on(http.MethodGet, "/boards/b1/lists", http.StatusOK, `[]`)
	env.api.on(http.MethodGet, "/members/me/boards", http.StatusOK, `[]`)

	assert.Equal(t, "No cards found.", env.run(ToolListCards, nil).Text)
	assert.Equal(t, "No lists found.", env.run(ToolListLists, nil).Text)
	assert.Equal(t, "No boards found.", env.run(ToolListBoards, nil).Text)
	assert.Empty(t, env.recorder.Messages())
}

func TestMCPHandler_ReturnsErrorResult(t *testing.T) {
	env := newTestEnv(t, host.MapSettings{}, false)

	handler := env.exec.mcpHandler(ToolListCards)
	result, err := handler(context.Background(), mcp.CallToolRequest{
		Params: mcp.CallToolParams{Name: ToolListCards},
	})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.IsError)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Trello is not configured")
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Failed", capitalize("failed"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "Äpfel", capitalize("äpfel"))
}
