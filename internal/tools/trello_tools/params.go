package trello_tools

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/mark3labs/mcp-go/mcp"
)

// ParamType is the JSON type of a tool parameter.
type ParamType string

const (
	ParamString  ParamType = "string"
	ParamBoolean ParamType = "boolean"
)

// Param declares one tool parameter.
type Param struct {
	Name        string
	Type        ParamType
	Required    bool
	Description string
}

// option returns the mcp-go tool option declaring p.
func (p Param) option() mcp.ToolOption {
	propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
	if p.Required {
		propOpts = append(propOpts, mcp.Required())
	}

	if p.Type == ParamBoolean {
		return mcp.WithBoolean(p.Name, propOpts...)
	}
	return mcp.WithString(p.Name, propOpts...)
}

// ArgumentError reports invalid tool arguments.
type ArgumentError struct {
	Problems []string
}

// Error implements the error interface
func (e *ArgumentError) Error() string {
	return "invalid arguments: " + strings.Join(e.Problems, "; ")
}

// validateArgs checks args against params. Required string parameters must
// be non-blank. Booleans may be given as JSON booleans or as strings such as
// "true". Unknown arguments are ignored.
func validateArgs(params []Param, args map[string]any) error {
	var problems []string

	for _, p := range params {
		v, present := args[p.Name]
		if !present || v == nil {
			if p.Required {
				problems = append(problems, fmt.Sprintf("missing required parameter %q", p.Name))
			}
			continue
		}

		switch p.Type {
		case ParamString:
			s, ok := v.(string)
			if !ok {
				problems = append(problems, fmt.Sprintf("parameter %q must be a string", p.Name))
				continue
			}
			if p.Required && strings.TrimSpace(s) == "" {
				problems = append(problems, fmt.Sprintf("missing required parameter %q", p.Name))
			}
		case ParamBoolean:
			switch b := v.(type) {
			case bool:
			case string:
				if _, err := strconv.ParseBool(b); err != nil {
					problems = append(problems, fmt.Sprintf("parameter %q must be a boolean", p.Name))
				}
			default:
				problems = append(problems, fmt.Sprintf("parameter %q must be a boolean", p.Name))
			}
		}
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return &ArgumentError{Problems: problems}
	}
	return nil
}

// decodeArgs decodes validated arguments into out, a pointer to a struct
// with mapstructure tags. Absent arguments leave pointer fields nil.
func decodeArgs(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create argument decoder: %w", err)
	}

	clean := make(map[string]any, len(args))
	for k, v := range args {
		if v != nil {
			clean[k] = v
		}
	}

	if err := dec.Decode(clean); err != nil {
		return &ArgumentError{Problems: []string{err.Error()}}
	}
	return nil
}
