package trello_tools

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateArgs(t *testing.T) {
	params := []Param{
		{Name: "card_id", Type: ParamString, Required: true},
		{Name: "name", Type: ParamString},
		{Name: "closed", Type: ParamBoolean},
	}

	tests := []struct {
		name     string
		args     map[string]any
		problems []string
	}{
		{
			name: "valid",
			args: map[string]any{"card_id": "c1", "name": "x", "closed": true},
		},
		{
			name: "boolean as string",
			args: map[string]any{"card_id": "c1", "closed": "false"},
		},
		{
			name: "unknown arguments are ignored",
			args: map[string]any{"card_id": "c1", "color": 7},
		},
		{
			name: "null optional value",
			args: map[string]any{"card_id": "c1", "name": nil},
		},
		{
			name:     "missing required",
			args:     map[string]any{},
			problems: []string{`missing required parameter "card_id"`},
		},
		{
			name:     "blank required",
			args:     map[string]any{"card_id": "  "},
			problems: []string{`missing required parameter "card_id"`},
		},
		{
			name: "wrong types",
			args: map[string]any{"card_id": 42, "closed": "maybe"},
			problems: []string{
				`parameter "card_id" must be a string`,
				`parameter "closed" must be a boolean`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateArgs(params, tt.args)
			if tt.problems == nil {
				assert.NoError(t, err)
				return
			}

			var argErr *ArgumentError
			require.True(t, errors.As(err, &argErr))
			assert.Equal(t, tt.problems, argErr.Problems)
		})
	}
}

func TestArgumentError_Error(t *testing.T) {
	err := &ArgumentError{Problems: []string{"a", "b"}}
	assert.Equal(t, "invalid arguments: a; b", err.Error())
}

func TestDecodeArgs_Update(t *testing.T) {
	var p updateCardParams
	require.NoError(t, decodeArgs(map[string]any{
		"card_id": "c1",
		"name":    "New name",
		"closed":  "true",
		"due":     nil,
	}, &p))

	assert.Equal(t, "c1", p.CardID)
	require.NotNil(t, p.Name)
	assert.Equal(t, "New name", *p.Name)
	require.NotNil(t, p.Closed)
	assert.True(t, *p.Closed)
	assert.Nil(t, p.Description)
	assert.Nil(t, p.Due)
	assert.Nil(t, p.ListID)
}

func TestDecodeArgs_Defaults(t *testing.T) {
	var p listListsParams
	require.NoError(t, decodeArgs(map[string]any{}, &p))
	assert.False(t, p.IncludeClosed)
}
