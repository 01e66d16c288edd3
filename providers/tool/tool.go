package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leofalp/toolagent/core/parse"
	"github.com/leofalp/toolagent/internal/jsonschema"
	"github.com/leofalp/toolagent/providers/ai"
	"github.com/leofalp/toolagent/providers/observability"
)

// GenericTool is the type-erased contract every registered tool satisfies.
type GenericTool interface {
	// ToolInfo returns the definition advertised to the model.
	ToolInfo() ai.ToolDescription

	// Call runs the tool on JSON-encoded arguments and returns its
	// JSON-encoded output. Argument problems are reported wrapping
	// ErrArgumentParse; any other error is an execution failure.
	Call(ctx context.Context, inputJson string) (string, error)
}

// Tool binds a name and description to a typed function. The parameter
// schema is derived from I.
type Tool[I, O any] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)
}

type funcToolOptions struct {
	Description string
}

// WithDescription sets the description shown to the model.
func WithDescription(description string) func(tool *funcToolOptions) {
	return func(o *funcToolOptions) {
		o.Description = description
	}
}

// NewTool creates a Tool from a typed function.
//
//	calc := tool.NewTool("calculator", evaluate,
//	    tool.WithDescription("Evaluates a two-operand arithmetic expression"),
//	)
//
// NewTool panics if I cannot be described as a JSON schema; argument types
// are fixed at compile time, so this is a programming error.
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...func(tool *funcToolOptions)) *Tool[I, O] {
	opts := &funcToolOptions{}
	for _, option := range options {
		option(opts)
	}

	parameters, err := jsonschema.GenerateJSONSchema[I]()
	if err != nil {
		panic(fmt.Sprintf("tool %q: %v", name, err))
	}

	return &Tool[I, O]{
		Name:        name,
		Description: opts.Description,
		Parameters:  parameters,
		Function:    function,
	}
}

func (t *Tool[I, O]) ToolInfo() ai.ToolDescription {
	return ai.ToolDescription{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
	}
}

// Call decodes inputJson into I, runs the function and marshals its output.
// Empty input is treated as an empty object. Required properties of the
// schema must be present and non-null.
func (t *Tool[I, O]) Call(ctx context.Context, inputJson string) (string, error) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolName, t.Name),
			observability.String(observability.AttrToolInput, observability.TruncateString(inputJson, 0)),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd)
	}

	if strings.TrimSpace(inputJson) == "" {
		inputJson = "{}"
	}

	input, err := t.decode(inputJson)
	if err != nil {
		return "", err
	}

	output, err := t.Function(ctx, input)
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(output)
	if err != nil {
		return "", fmt.Errorf("tool %s: marshal output: %w", t.Name, err)
	}
	return string(raw), nil
}

func (t *Tool[I, O]) decode(inputJson string) (I, error) {
	var zero I

	if t.Parameters != nil && t.Parameters.Type == "object" {
		missing, err := parse.MissingFields(inputJson, t.Parameters.Required)
		if err != nil {
			return zero, fmt.Errorf("%w: %v", ErrArgumentParse, err)
		}
		if len(missing) > 0 {
			return zero, fmt.Errorf("%w: missing required field(s) %s", ErrArgumentParse, strings.Join(missing, ", "))
		}
	}

	input, err := parse.ParseStringAs[I](inputJson)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrArgumentParse, err)
	}
	return input, nil
}
