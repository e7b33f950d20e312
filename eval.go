package calculator

import (
	"errors"
	"io"
	"strings"
)

// Calculator evaluates expressions against a fixed operator table and
// interpreter chain. It is not safe to use a Calculator concurrently, and a
// token source has exactly one owner for the lifetime of one evaluation.
type Calculator struct {
	chain []Interpreter
	ops   []Operator
	table *table
	depth int
}

// DefaultMaxDepth is the default recursion depth limit. Recursion depth
// equals the nesting depth of the input expression.
const DefaultMaxDepth = 1000

// Option is an option used when creating a Calculator.
type Option interface {
	option(*Calculator)
}

type (
	interpOpt []Interpreter
	opsOpt    []Operator
	depthOpt  int
)

func (o interpOpt) option(c *Calculator) { c.chain = o }
func (o opsOpt) option(c *Calculator)    { c.ops = o }
func (o depthOpt) option(c *Calculator)  { c.depth = int(o) }

// WithInterpreters replaces the interpreter chain. Interpreters are tried in
// the given order.
func WithInterpreters(fns ...Interpreter) Option {
	return interpOpt(fns)
}

// WithOperators replaces the operator set.
func WithOperators(ops ...Operator) Option {
	return opsOpt(ops)
}

// MaxDepth sets the recursion depth limit.
func MaxDepth(n int) Option {
	return depthOpt(n)
}

// New creates a Calculator. With no options it evaluates the default numeric
// operator set with the default interpreter chain.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		chain: DefaultInterpreters(),
		ops:   DefaultOperators(),
		depth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.option(c)
	}
	c.table = buildTable(c.ops, c.chain)
	return c
}

// EvalString evaluates a string expression.
func (c *Calculator) EvalString(src string) (Value, error) {
	return c.Eval(strings.NewReader(src))
}

// Eval tokenizes src and performs one top-level evaluation, reading to the
// end of the input.
func (c *Calculator) Eval(src io.RuneScanner) (Value, error) {
	ts := Lex(src)
	v, err := c.evaluate(ts, End, 0, 0)
	if err != nil {
		return nil, err
	}
	// The evaluation pushed its final token back; anything but End here is
	// input the table gave no operator a chance to consume.
	tok, err := ts.Next()
	if err != nil {
		return nil, err
	}
	if tok != End {
		return nil, &OperatorError{Token: tok, Pending: 1}
	}
	return v, nil
}

// Evaluate performs one sub-evaluation on a caller-owned token source,
// consuming tokens until stop or until every remaining candidate operator is
// outranked by floor. The stop token, or the first outranked token, is
// pushed back before returning.
func (c *Calculator) Evaluate(ts TokenSource, stop Token, floor float64) (Value, error) {
	return c.evaluate(ts, stop, floor, 0)
}

// EvalString evaluates a string expression with a Calculator built from
// opts.
func EvalString(src string, opts ...Option) (Value, error) {
	return New(opts...).EvalString(src)
}

// evaluate is the core loop. It accumulates pending values, resolving each
// token through the candidate operators in table order. A candidate whose
// trump is below floor ends the sub-evaluation: all weaker candidates belong
// to the caller. This comparison is the entire precedence-climbing
// mechanism.
func (c *Calculator) evaluate(ts TokenSource, stop Token, floor float64, depth int) (Value, error) {
	if depth > c.depth {
		return nil, &DepthError{Limit: c.depth}
	}
	var pending []Value
	var tok Token
	for {
		var err error
		tok, err = ts.Next()
		if err != nil {
			return nil, err
		}
		if tok == stop {
			break
		}
		cands := c.table.candidates(tok, len(pending))
		if len(cands) == 0 {
			return nil, &OperatorError{Token: tok, Pending: len(pending)}
		}
		var (
			tried    []error
			matched  bool
			finished bool
		)
		for _, op := range cands {
			if op.Trump < floor {
				// Outranked, and every remaining candidate is weaker still.
				finished = true
				break
			}
			v, rejected, err := c.apply(op, tok, stop, ts, pending, depth)
			if err != nil {
				if !rejected {
					return nil, err
				}
				tried = append(tried, err)
				continue
			}
			pending = append(pending[:len(pending)-op.Precount], v)
			matched = true
			break
		}
		if matched {
			continue
		}
		if finished {
			break
		}
		if len(tried) == 1 {
			return nil, tried[0]
		}
		return nil, &CandidateError{Token: tok, Reasons: tried}
	}
	ts.Back(tok)
	if len(pending) != 1 {
		return nil, &ArityError{Token: tok, Count: len(pending)}
	}
	return pending[0], nil
}

// apply attempts one candidate operator: it runs the continuation steps
// against the token source and combines the operands with the action.
// Failures are rejections, reported with rejected true, only while the
// source can still be restored for the next candidate: an interpret failure
// on the candidate's first step, or an action failure when there are no
// steps. Once a step has consumed part of the stream the failure is final,
// because a one-token pushback cannot rewind a sub-evaluation.
func (c *Calculator) apply(op *Operator, tok, stop Token, ts TokenSource, pending []Value, depth int) (v Value, rejected bool, err error) {
	pushed := false
	if op.Ident.kind != identLit {
		// The token belongs to the operand, not to this operator.
		ts.Back(tok)
		pushed = true
	}
	var args []Value
	if op.Precount > 0 {
		args = append(args, pending[len(pending)-op.Precount:]...)
	}
	for i, st := range op.Steps {
		switch st.kind {
		case stepRecurse:
			v, err := c.evaluate(ts, stop, st.floor, depth+1)
			if err != nil {
				return nil, false, err
			}
			args = append(args, v)
		case stepGroup:
			v, err := c.evaluate(ts, st.close, 0, depth+1)
			if err != nil {
				return nil, false, err
			}
			end, err := ts.Next()
			if err != nil {
				return nil, false, err
			}
			if end != st.close {
				return nil, false, &GroupError{Open: tok, Want: st.close, Got: end}
			}
			args = append(args, v)
		case stepInterpret:
			raw, err := ts.Next()
			if err != nil {
				return nil, false, err
			}
			v, err := st.interp(raw)
			if err != nil {
				if i == 0 && !pushed {
					ts.Back(raw)
				}
				var ie *InterpretError
				if !errors.As(err, &ie) {
					err = &InterpretError{Token: raw, Cause: err}
				}
				return nil, i == 0, err
			}
			args = append(args, v)
		}
	}
	if op.Do == nil {
		return args[len(args)-1], false, nil
	}
	v, err = op.Do(args)
	if err != nil {
		return nil, len(op.Steps) == 0, err
	}
	return v, false, nil
}
