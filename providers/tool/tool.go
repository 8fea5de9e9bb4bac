package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/leofalp/mathagent/core/cost"
	"github.com/leofalp/mathagent/core/parse"
	"github.com/leofalp/mathagent/internal/jsonschema"
	"github.com/leofalp/mathagent/providers/ai"
	"github.com/leofalp/mathagent/providers/observability"
)

// ErrInvalidInput marks a tool call whose arguments do not fit the tool's
// input shape. Validation errors returned by tool functions should match it
// with errors.Is as well.
var ErrInvalidInput = errors.New("invalid tool input")

// Tool is a typed, callable tool. Use [NewTool] to construct one.
type Tool[I, O any] struct {
	Name        string
	Description string
	Parameters  *jsonschema.Schema
	Output      *jsonschema.Schema
	Function    func(ctx context.Context, input I) (O, error)
	Metrics     *cost.ToolMetrics
}

// GenericTool is the type-erased view of a [Tool] used by catalogs and runners.
type GenericTool interface {
	// ToolInfo returns the metadata advertised to the model.
	ToolInfo() ai.ToolDescription

	// Call runs the tool on JSON-encoded arguments and returns JSON output.
	Call(ctx context.Context, inputJSON string) (string, error)

	// GetMetrics returns the tool's cost metadata, or nil.
	GetMetrics() *cost.ToolMetrics
}

type funcToolOptions struct {
	description string
	metrics     *cost.ToolMetrics
	parameters  []func(*jsonschema.Schema)
}

// Option configures a tool built by [NewTool].
type Option func(*funcToolOptions)

// WithDescription sets the description the model sees.
func WithDescription(description string) Option {
	return func(o *funcToolOptions) {
		o.description = description
	}
}

// WithMetrics sets the cost metadata of one call.
func WithMetrics(metrics cost.ToolMetrics) Option {
	return func(o *funcToolOptions) {
		o.metrics = &metrics
	}
}

// WithParameters adjusts the generated parameter schema, e.g. to fill an
// enum from the values the function actually accepts.
func WithParameters(customize func(schema *jsonschema.Schema)) Option {
	return func(o *funcToolOptions) {
		o.parameters = append(o.parameters, customize)
	}
}

// NewTool builds a Tool around function. Schemas are derived from I and O; it
// panics if either type cannot be described (see [jsonschema.GenerateJSONSchema]).
//
//	calc := tool.NewTool("basic_calculator", Calculate,
//	    tool.WithDescription("Performs basic arithmetic."),
//	)
func NewTool[I, O any](name string, function func(ctx context.Context, input I) (O, error), options ...Option) *Tool[I, O] {
	opts := &funcToolOptions{}
	for _, option := range options {
		option(opts)
	}

	parameters := jsonschema.MustGenerateJSONSchema[I]()
	for _, customize := range opts.parameters {
		customize(parameters)
	}

	return &Tool[I, O]{
		Name:        name,
		Description: opts.description,
		Parameters:  parameters,
		Output:      jsonschema.MustGenerateJSONSchema[O](),
		Function:    function,
		Metrics:     opts.metrics,
	}
}

func (t *Tool[I, O]) ToolInfo() ai.ToolDescription {
	return ai.ToolDescription{
		Name:        t.Name,
		Description: t.Description,
		Parameters:  t.Parameters,
		Output:      t.Output,
	}
}

func (t *Tool[I, O]) GetMetrics() *cost.ToolMetrics {
	return t.Metrics
}

// Call decodes inputJSON into I, runs the function and encodes its output.
// Decoding failures wrap [ErrInvalidInput]; function errors are returned
// unchanged. Execution is recorded on the span found in ctx, if any.
func (t *Tool[I, O]) Call(ctx context.Context, inputJSON string) (string, error) {
	span := observability.SpanFromContext(ctx)
	if span != nil {
		span.AddEvent(observability.EventToolExecutionStart,
			observability.String(observability.AttrToolName, t.Name),
			observability.String(observability.AttrToolInput, observability.TruncateString(inputJSON, 0)),
		)
		defer span.AddEvent(observability.EventToolExecutionEnd)
	}

	start := time.Now()
	fail := func(err error) (string, error) {
		if span != nil {
			span.RecordError(err)
			span.SetAttributes(
				observability.String(observability.AttrToolError, err.Error()),
				observability.Duration(observability.AttrToolDuration, time.Since(start)),
			)
		}
		return "", err
	}

	input, err := parse.ParseStringAs[I](inputJSON)
	if err != nil {
		return fail(fmt.Errorf("%w: %s: %v", ErrInvalidInput, t.Name, err))
	}

	output, err := t.Function(ctx, input)
	if err != nil {
		return fail(err)
	}

	encoded, err := json.Marshal(output)
	if err != nil {
		return fail(fmt.Errorf("%s: encoding output: %w", t.Name, err))
	}

	if span != nil {
		span.SetAttributes(
			observability.String(observability.AttrToolOutput, observability.TruncateString(string(encoded), 0)),
			observability.Duration(observability.AttrToolDuration, time.Since(start)),
		)
	}
	return string(encoded), nil
}
