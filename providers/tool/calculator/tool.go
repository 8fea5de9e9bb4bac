package calculator

import (
	"context"
	"errors"
	"strings"

	"github.com/leofalp/mathagent/core/cost"
	"github.com/leofalp/mathagent/internal/jsonschema"
	"github.com/leofalp/mathagent/providers/tool"
)

// ToolName is the name the agent runtime binds the calculator to.
const ToolName = "basic_calculator"

// Input is the tool call payload. Operands are pointers so that a missing
// field is told apart from an explicit zero.
type Input struct {
	A         *float64 `json:"a"         jsonschema:"description=The first number,required"`
	B         *float64 `json:"b"         jsonschema:"description=The second number,required"`
	Operation string   `json:"operation" jsonschema:"description=The operation to perform,required"`
}

// Output is the tool response. Exactly one of Result and Error is set.
type Output struct {
	Success bool     `json:"success"          jsonschema:"description=Whether the calculation succeeded"`
	Result  *float64 `json:"result,omitempty" jsonschema:"description=The result of the calculation"`
	Error   string   `json:"error,omitempty"  jsonschema:"description=Why the calculation failed"`
}

// Issue is one rejected field of a tool call.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every problem found in a tool call. It matches
// [tool.ErrInvalidInput] with errors.Is.
type ValidationError struct {
	Issues []Issue
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.Field + ": " + issue.Message
	}
	return "invalid calculator input: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == tool.ErrInvalidInput
}

// Request validates the payload. All issues are reported at once.
func (in Input) Request() (Request, error) {
	var issues []Issue
	if in.A == nil {
		issues = append(issues, Issue{Field: "a", Message: "Field required"})
	} else {
		issues = appendOperandIssue(issues, "a", *in.A)
	}
	if in.B == nil {
		issues = append(issues, Issue{Field: "b", Message: "Field required"})
	} else {
		issues = appendOperandIssue(issues, "b", *in.B)
	}

	var op Operation
	if in.Operation == "" {
		issues = append(issues, Issue{Field: "operation", Message: "Field required"})
	} else if parsed, err := ParseOperation(in.Operation); err != nil {
		issues = append(issues, Issue{Field: "operation", Message: "Input should be " + joinOperations()})
	} else {
		op = parsed
	}

	if len(issues) > 0 {
		return Request{}, &ValidationError{Issues: issues}
	}
	return Request{a: *in.A, b: *in.B, op: op}, nil
}

// Outcome projects a Result onto the wire shape.
func Outcome(result Result) Output {
	switch r := result.(type) {
	case Success:
		value := r.Value
		return Output{Success: true, Result: &value}
	case Failure:
		return Output{Success: false, Error: r.Message}
	default:
		panic("calculator: unknown result type")
	}
}

// Calculate is the tool function: it validates in, computes and returns the
// outcome. Division by zero is reported in the Output, not as an error.
//
//	a, b := 15.5, 4.0
//	out, err := calculator.Calculate(ctx, calculator.Input{A: &a, B: &b, Operation: "multiply"})
//	// out.Success == true, *out.Result == 62
func Calculate(ctx context.Context, in Input) (Output, error) {
	req, err := in.Request()
	if err != nil {
		return Output{}, err
	}
	return Outcome(Compute(req)), nil
}

// NewCalculatorTool returns the basic_calculator tool with zero-cost local
// metrics and the operation enum filled from [Operations].
func NewCalculatorTool() *tool.Tool[Input, Output] {
	return tool.NewTool(
		ToolName,
		Calculate,
		tool.WithDescription("Performs basic arithmetic: add, subtract, multiply or divide two numbers. "+
			"Returns success with the result, or success=false with an error message."),
		tool.WithMetrics(cost.ToolMetrics{
			Amount:                  0,
			Currency:                "USD",
			CostDescription:         "local computation",
			Accuracy:                1.0,
			AverageDurationInMillis: 1,
		}),
		tool.WithParameters(func(schema *jsonschema.Schema) {
			operation := schema.Property("operation")
			if operation == nil {
				return
			}
			operation.Enum = operation.Enum[:0]
			for _, op := range Operations() {
				operation.Enum = append(operation.Enum, string(op))
			}
		}),
	)
}

// IsValidationError reports whether err rejected a malformed call.
func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}
