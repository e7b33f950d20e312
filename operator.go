package calculator

import (
	"math"
	"sort"
)

// Value is an arbitrary domain value produced by interpreters and actions.
type Value = any

// Action combines an operator's resolved operands into a value. The operands
// are the pending values the operator consumed followed by the results of its
// continuation steps, in order.
type Action func(args []Value) (Value, error)

type identKind int8

const (
	identLit identKind = iota
	identWild
	identAdj
)

// Identity names the token an operator matches. It is one of a literal
// token, the Wildcard identity, or the Adjacent identity.
type Identity struct {
	kind identKind
	tok  Token
}

// Lit is the identity matching exactly tok.
func Lit(tok Token) Identity {
	return Identity{identLit, tok}
}

var (
	// Wildcard is the identity matching any token that no literal identity
	// matches. The table synthesizes one wildcard operator per interpreter in
	// the chain, which is how plain literals enter the resolution path.
	Wildcard = Identity{kind: identWild}
	// Adjacent is the identity matching any token read while a value is
	// already pending and no literal identity matches. It implements implicit
	// multiplication and application.
	Adjacent = Identity{kind: identAdj}
)

type stepKind int8

const (
	stepRecurse stepKind = iota
	stepGroup
	stepInterpret
)

// Step is one continuation an operator performs to gather an operand after
// its token matches. A step either recursively evaluates a sub-expression
// bounded by a precedence floor, evaluates up to a closing delimiter and
// verifies it, or consumes a single raw token and interprets it directly.
type Step struct {
	kind   stepKind
	floor  float64
	close  Token
	interp Interpreter
}

// Recurse is a step that evaluates a sub-expression in which only operators
// with binding power at least floor may apply, and appends the result.
func Recurse(floor float64) Step {
	return Step{kind: stepRecurse, floor: floor}
}

// Group is a step that evaluates a sub-expression up to the token close,
// then consumes and verifies close, and appends the sub-result.
func Group(close Token) Step {
	return Step{kind: stepGroup, close: close}
}

// Interpret is a step that consumes exactly one raw token and interprets it
// with fn, without consulting the operator table.
func Interpret(fn Interpreter) Step {
	return Step{kind: stepInterpret, interp: fn}
}

// Operator is one resolution rule for a token. An Operator is immutable once
// it has been handed to a Calculator.
type Operator struct {
	// Ident is the token identity this operator matches.
	Ident Identity
	// Trump is the operator's binding power. Leaf and prefix forms, which
	// never contend with an operator to their left, have infinite trump.
	Trump float64
	// Precount is the number of pending values the operator requires before
	// it may be attempted: 0 for leaf and prefix forms, 1 for infix and
	// postfix forms.
	Precount int
	// Steps are the continuations run in order to gather the remaining
	// operands.
	Steps []Step
	// Do combines the operands. A nil Do returns the last operand unchanged.
	Do Action
}

// Infix returns a binary operator. Its right operand is evaluated with floor
// right; right > trump makes the operator left-associative, right < trump
// right-associative.
func Infix(trump float64, tok Token, right float64, do func(l, r Value) (Value, error)) Operator {
	return Operator{
		Ident:    Lit(tok),
		Trump:    trump,
		Precount: 1,
		Steps:    []Step{Recurse(right)},
		Do: func(args []Value) (Value, error) {
			return do(args[0], args[1])
		},
	}
}

// Prefix returns a unary prefix operator evaluating its operand with floor
// operand. Prefix operators have infinite trump: they produce a value and
// never face contention from the left.
func Prefix(tok Token, operand float64, do func(v Value) (Value, error)) Operator {
	return Operator{
		Ident: Lit(tok),
		Trump: math.Inf(1),
		Steps: []Step{Recurse(operand)},
		Do: func(args []Value) (Value, error) {
			return do(args[0])
		},
	}
}

// Postfix returns a unary postfix operator: it requires a pending value and
// has no continuation steps.
func Postfix(trump float64, tok Token, do func(v Value) (Value, error)) Operator {
	return Operator{
		Ident:    Lit(tok),
		Trump:    trump,
		Precount: 1,
		Do: func(args []Value) (Value, error) {
			return do(args[0])
		},
	}
}

// Brackets returns a grouping operator: open starts a sub-expression that
// runs to close, and the group's value is the sub-expression's value.
func Brackets(open, close Token) Operator {
	return Operator{
		Ident: Lit(open),
		Trump: math.Inf(1),
		Steps: []Step{Group(close)},
	}
}

// Index returns a call-bracket operator: with a value pending, open starts a
// sub-expression that runs to close, and do combines the pending value with
// the bracketed one.
func Index(trump float64, open, close Token, do func(l, sub Value) (Value, error)) Operator {
	return Operator{
		Ident:    Lit(open),
		Trump:    trump,
		Precount: 1,
		Steps:    []Step{Group(close)},
		Do: func(args []Value) (Value, error) {
			return do(args[0], args[1])
		},
	}
}

// Adjacency returns the operator applied when a value is pending and the
// next token matches no literal identity. The token is pushed back and the
// operand evaluated with floor operand, then do combines the pending value
// with it.
func Adjacency(trump, operand float64, do func(l, r Value) (Value, error)) Operator {
	return Operator{
		Ident:    Adjacent,
		Trump:    trump,
		Precount: 1,
		Steps:    []Step{Recurse(operand)},
		Do: func(args []Value) (Value, error) {
			return do(args[0], args[1])
		},
	}
}

// table resolves (token, pending count) to the ordered list of candidate
// operators. It is built once at Calculator construction.
type table struct {
	lits map[Token]map[int][]*Operator
	// wilds buckets the Wildcard and Adjacent operators by precount. They are
	// consulted only when no literal bucket exists for a token, never for End.
	wilds map[int][]*Operator
}

func buildTable(ops []Operator, chain []Interpreter) *table {
	t := &table{
		lits:  make(map[Token]map[int][]*Operator),
		wilds: make(map[int][]*Operator),
	}
	all := make([]Operator, 0, len(ops)+len(chain))
	all = append(all, ops...)
	// One synthesized leaf operator per interpreter. Literals resolve through
	// the same path as everything else, and chain order becomes trial order.
	for _, fn := range chain {
		all = append(all, Operator{
			Ident: Wildcard,
			Trump: math.Inf(1),
			Steps: []Step{Interpret(fn)},
		})
	}
	for i := range all {
		op := &all[i]
		switch op.Ident.kind {
		case identLit:
			m := t.lits[op.Ident.tok]
			if m == nil {
				m = make(map[int][]*Operator)
				t.lits[op.Ident.tok] = m
			}
			m[op.Precount] = append(m[op.Precount], op)
		default:
			t.wilds[op.Precount] = append(t.wilds[op.Precount], op)
		}
	}
	for _, m := range t.lits {
		for _, b := range m {
			sortBucket(b)
		}
	}
	for _, b := range t.wilds {
		sortBucket(b)
	}
	return t
}

// sortBucket orders candidates by descending trump, keeping configuration
// order on ties so that interpreter chain order survives.
func sortBucket(b []*Operator) {
	sort.SliceStable(b, func(i, j int) bool {
		return b[i].Trump > b[j].Trump
	})
}

// candidates returns the ordered candidate list for a token read with
// pending values already accumulated: the bucket for the concrete token
// first, then the wildcard bucket. End never matches a wildcard.
func (t *table) candidates(tok Token, pending int) []*Operator {
	lit := t.lits[tok][pending]
	if tok == End {
		return lit
	}
	wild := t.wilds[pending]
	if len(lit) == 0 {
		return wild
	}
	if len(wild) == 0 {
		return lit
	}
	out := make([]*Operator, 0, len(lit)+len(wild))
	out = append(out, lit...)
	return append(out, wild...)
}
