package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallArgs(t *testing.T) {
	tests := []struct {
		name        string
		json        string
		pairs       []string
		want        map[string]any
		errContains string
	}{
		{
			name: "no arguments",
			want: map[string]any{},
		},
		{
			name:  "pairs",
			pairs: []string{"name=Buy milk", "due=2024-03-15"},
			want:  map[string]any{"name": "Buy milk", "due": "2024-03-15"},
		},
		{
			name:  "value containing equals sign",
			pairs: []string{"description=a=b"},
			want:  map[string]any{"description": "a=b"},
		},
		{
			name:  "pairs override json",
			json:  `{"card_id":"c1","closed":true}`,
			pairs: []string{"card_id=c2"},
			want:  map[string]any{"card_id": "c2", "closed": true},
		},
		{
			name:        "missing equals sign",
			pairs:       []string{"name"},
			errContains: "expected key=value",
		},
		{
			name:        "empty key",
			pairs:       []string{"=value"},
			errContains: "expected key=value",
		},
		{
			name:        "invalid json",
			json:        `{"card_id":`,
			errContains: "invalid --args",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseCallArgs(tt.json, tt.pairs)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func setTrelloEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TRELLO_API_KEY", "k")
	t.Setenv("TRELLO_API_TOKEN", "t")
	t.Setenv("TRELLO_BOARD_ID", "b1")
	t.Setenv("TRELLO_DEFAULT_LIST_ID", "")
}

func TestRunCall_Success(t *testing.T) {
	setTrelloEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/boards/b1/lists", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id":"l1","name":"To Do"}]`)
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	opts := callOptions{host: hostOptions{apiBaseURL: srv.URL}}

	err := runCall(context.Background(), &out, &errOut, opts, "trello_list_lists", nil)

	require.NoError(t, err)
	assert.Equal(t, "Found 1 list(s):\n\n1. 📋 To Do (ID: l1)\n", out.String())
}

func TestRunCall_ToolFailure(t *testing.T) {
	setTrelloEnv(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected")
	}))
	defer srv.Close()

	var out, errOut bytes.Buffer
	opts := callOptions{host: hostOptions{apiBaseURL: srv.URL}}

	err := runCall(context.Background(), &out, &errOut, opts, "trello_add_card", []string{"name=Buy milk"})

	assert.ErrorIs(t, err, errToolFailed)
	assert.Contains(t, out.String(), "⚠️ No list specified")
	assert.Contains(t, errOut.String(), "No list specified")
}

func TestRunCall_InvalidArguments(t *testing.T) {
	var out, errOut bytes.Buffer

	err := runCall(context.Background(), &out, &errOut, callOptions{}, "trello_list_cards", []string{"oops"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, errToolFailed)
	assert.Empty(t, out.String())
}
