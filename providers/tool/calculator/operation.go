package calculator

import (
	"fmt"
	"strings"
)

// Operation names one of the supported arithmetic operations. Its value is
// the token used on the wire.
type Operation string

const (
	Add      Operation = "add"
	Subtract Operation = "subtract"
	Multiply Operation = "multiply"
	Divide   Operation = "divide"
)

// DivisionByZeroMessage is the error reported when dividing by zero.
const DivisionByZeroMessage = "Cannot divide by zero"

// dispatch is the closed set of operations. An operation is valid exactly
// when it has an entry here, so there is no way to accept an operation that
// cannot be computed.
var dispatch = []struct {
	op    Operation
	apply func(a, b float64) Result
}{
	{Add, func(a, b float64) Result { return Success{Value: a + b} }},
	{Subtract, func(a, b float64) Result { return Success{Value: a - b} }},
	{Multiply, func(a, b float64) Result { return Success{Value: a * b} }},
	{Divide, func(a, b float64) Result {
		if b == 0 {
			return Failure{Message: DivisionByZeroMessage}
		}
		return Success{Value: a / b}
	}},
}

// Operations lists the canonical operation tokens in declaration order.
func Operations() []Operation {
	ops := make([]Operation, len(dispatch))
	for i, entry := range dispatch {
		ops[i] = entry.op
	}
	return ops
}

// Valid reports whether op is one of the supported operations.
func (op Operation) Valid() bool {
	_, ok := lookup(op)
	return ok
}

func (op Operation) String() string {
	return string(op)
}

// ParseOperation resolves a wire token. Only the exact lowercase names
// returned by [Operations] are accepted.
func ParseOperation(token string) (Operation, error) {
	if op := Operation(token); op.Valid() {
		return op, nil
	}
	return "", fmt.Errorf("unsupported operation %q, expected one of %s", token, joinOperations())
}

func lookup(op Operation) (func(a, b float64) Result, bool) {
	for _, entry := range dispatch {
		if entry.op == op {
			return entry.apply, true
		}
	}
	return nil, false
}

func joinOperations() string {
	names := make([]string, len(dispatch))
	for i, entry := range dispatch {
		names[i] = string(entry.op)
	}
	return strings.Join(names, ", ")
}
