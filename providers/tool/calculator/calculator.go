package calculator

import (
	"fmt"
	"math"
)

// Request is a validated calculation: two finite operands and a supported
// operation. The zero value is not a valid request; build one with
// [NewRequest] or [Input.Request].
type Request struct {
	a, b float64
	op   Operation
}

// NewRequest validates its arguments and returns the corresponding Request.
// The error is a [*ValidationError].
func NewRequest(a, b float64, op Operation) (Request, error) {
	var issues []Issue
	issues = appendOperandIssue(issues, "a", a)
	issues = appendOperandIssue(issues, "b", b)
	if !op.Valid() {
		issues = append(issues, Issue{Field: "operation", Message: fmt.Sprintf("Input should be %s", joinOperations())})
	}
	if len(issues) > 0 {
		return Request{}, &ValidationError{Issues: issues}
	}
	return Request{a: a, b: b, op: op}, nil
}

func (r Request) A() float64 { return r.a }

func (r Request) B() float64 { return r.b }

func (r Request) Operation() Operation { return r.op }

func (r Request) String() string {
	return fmt.Sprintf("%g %s %g", r.a, r.op, r.b)
}

// Result is the outcome of [Compute]: either [Success] or [Failure].
type Result interface {
	isResult()
}

// Success carries the computed value.
type Success struct {
	Value float64
}

// Failure carries the reason a well-formed request could not be computed.
type Failure struct {
	Message string
}

func (Success) isResult() {}

func (Failure) isResult() {}

// Compute applies the request's operation. It has no side effects and is safe
// for concurrent use. Division by zero yields a [Failure], never an error.
//
// Compute panics if req was not built by [NewRequest] or [Input.Request].
func Compute(req Request) Result {
	apply, ok := lookup(req.op)
	if !ok {
		panic(fmt.Sprintf("calculator: Compute called with unvalidated request (operation %q)", req.op))
	}
	return apply(req.a, req.b)
}

func appendOperandIssue(issues []Issue, field string, v float64) []Issue {
	switch {
	case math.IsNaN(v):
		return append(issues, Issue{Field: field, Message: "Input should be a finite number, got NaN"})
	case math.IsInf(v, 0):
		return append(issues, Issue{Field: field, Message: "Input should be a finite number, got infinity"})
	}
	return issues
}
