package calculator

import (
	"fmt"
	"strconv"
	"strings"
)

// InterpretError is an error indicating a literal token that no interpreter
// in the chain accepts.
type InterpretError struct {
	// Token is the token that could not be interpreted.
	Token Token
	// Cause is the reason from the interpreter, if any.
	Cause error
}

func (err *InterpretError) Error() string {
	return "cannot interpret " + strconv.Quote(string(err.Token))
}

func (err *InterpretError) Unwrap() error {
	return err.Cause
}

// OperatorError is an error indicating a token for which no operator applies
// given the current number of pending values.
type OperatorError struct {
	// Token is the token that was not understood.
	Token Token
	// Pending is the number of values pending when the token was read.
	Pending int
}

func (err *OperatorError) Error() string {
	if err.Token == End {
		return "unexpected end of input"
	}
	s := "no operator takes " + strconv.Quote(string(err.Token)) + " with " + strconv.Itoa(err.Pending) + " pending value"
	if err.Pending != 1 {
		s += "s"
	}
	return s
}

// GroupError is an error indicating that a closing delimiter did not match
// the opening operator's expectation.
type GroupError struct {
	// Open is the token that opened the group.
	Open Token
	// Want is the expected closing token.
	Want Token
	// Got is the token found instead.
	Got Token
}

func (err *GroupError) Error() string {
	got := strconv.Quote(string(err.Got))
	if err.Got == End {
		got = "end of input"
	}
	return "mismatched group: " + string(err.Open) + "..." + got + " != " + strconv.Quote(string(err.Want))
}

// ArityError is an error indicating that a sub-evaluation ended with other
// than exactly one pending value.
type ArityError struct {
	// Token is the token that ended the sub-evaluation.
	Token Token
	// Count is the number of pending values.
	Count int
}

func (err *ArityError) Error() string {
	at := "at " + strconv.Quote(string(err.Token))
	if err.Token == End {
		at = "at end of input"
	}
	if err.Count == 0 {
		return "no value " + at
	}
	return strconv.Itoa(err.Count) + " values left " + at
}

// CandidateError is an error indicating that every operator tried for a
// token failed. It aggregates the reason from each rejected candidate. The
// evaluator returns the underlying reason directly when only one candidate
// was tried.
type CandidateError struct {
	// Token is the token whose candidates all failed.
	Token Token
	// Reasons holds the failure from each candidate, in trial order.
	Reasons []error
}

func (err *CandidateError) Error() string {
	var b strings.Builder
	b.WriteString("no operator applies to ")
	b.WriteString(strconv.Quote(string(err.Token)))
	b.WriteString(":")
	for _, r := range err.Reasons {
		b.WriteString("\n\t")
		b.WriteString(r.Error())
	}
	return b.String()
}

func (err *CandidateError) Unwrap() []error {
	return err.Reasons
}

// DepthError is an error indicating that an expression nests more deeply
// than the evaluator's recursion limit.
type DepthError struct {
	// Limit is the configured maximum recursion depth.
	Limit int
}

func (err *DepthError) Error() string {
	return "expression nesting exceeds depth limit " + strconv.Itoa(err.Limit)
}

// DomainError is an error returned when an action is applied to arguments
// outside its domain, e.g. 0/0 or the square root of a negative number.
type DomainError struct {
	// X is the out-of-domain argument.
	X Value
	// Func is a name identifying the operator or function.
	Func string
}

func (err *DomainError) Error() string {
	r := fmt.Sprintf("%v outside domain", err.X)
	if err.Func != "" {
		r += " of " + err.Func
	}
	return r
}

// TypeError is an error returned when an action receives a value of a kind
// it cannot operate on.
type TypeError struct {
	// Op is a name identifying the operator.
	Op string
	// X is the offending value.
	X Value
}

func (err *TypeError) Error() string {
	return fmt.Sprintf("cannot apply %s to %v (%T)", err.Op, err.X, err.X)
}

var (
	_ error = (*LexError)(nil)
	_ error = (*InterpretError)(nil)
	_ error = (*OperatorError)(nil)
	_ error = (*GroupError)(nil)
	_ error = (*ArityError)(nil)
	_ error = (*CandidateError)(nil)
	_ error = (*DepthError)(nil)
	_ error = (*DomainError)(nil)
	_ error = (*TypeError)(nil)
)
