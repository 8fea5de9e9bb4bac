// Package calculator provides the basic_calculator tool: a pure arithmetic
// function over two finite operands and one of four operations.
//
// The package separates two failure modes. A malformed call (missing field,
// non-finite operand, unknown operation token) is rejected by [Input.Request]
// with a [*ValidationError] before anything is computed. A well-formed call
// that cannot be computed, which today is only division by zero, is a normal
// [Failure] result that the model can read and relay to the user.
//
// [Compute] works on validated [Request] values and returns a [Result], which
// is either [Success] or [Failure]. [Calculate] is the JSON-facing tool
// function and [NewCalculatorTool] registers it for use by an agent.
package calculator
