package calculator

import "math"

// Applier is implemented by values that can be applied to an argument, e.g.
// functions installed in a symbol table. The adjacency operator applies a
// pending Applier to the operand on its right; any other pending value
// multiplies instead.
type Applier interface {
	Apply(arg Value) (Value, error)
}

// Valuer is implemented by values that stand for another value, e.g. Var
// cells. Numeric actions resolve Valuers before operating.
type Valuer interface {
	Value() Value
}

// Assigner is implemented by values that can be assigned to. The default "="
// operator requires its left operand to be an Assigner.
type Assigner interface {
	Assign(Value) (Value, error)
}

type monadic struct {
	name string
	f    func(float64) float64
}

func (m monadic) Apply(arg Value) (Value, error) {
	x, ok := number(deref(arg))
	if !ok {
		return nil, &TypeError{Op: m.name, X: arg}
	}
	r := m.f(x)
	if math.IsNaN(r) {
		return nil, &DomainError{X: arg, Func: m.name}
	}
	return r, nil
}

// Monadic wraps a function of one float64 into an Applier. A NaN result is
// reported as a DomainError under the given name.
func Monadic(name string, f func(float64) float64) Applier {
	return monadic{name, f}
}

// Var is an assignable cell. Storing Vars in a symbol table makes "a = 1"
// work: the symbol interpreter produces the cell, assignment stores through
// it, and numeric actions read through it.
type Var struct {
	v Value
}

// NewVar creates a Var holding v.
func NewVar(v Value) *Var {
	return &Var{v: v}
}

func (v *Var) Value() Value {
	return v.v
}

func (v *Var) Assign(x Value) (Value, error) {
	v.v = deref(x)
	return v.v, nil
}

// deref resolves Valuer indirection.
func deref(v Value) Value {
	for {
		r, ok := v.(Valuer)
		if !ok {
			return v
		}
		v = r.Value()
	}
}

var (
	_ Applier  = monadic{}
	_ Valuer   = (*Var)(nil)
	_ Assigner = (*Var)(nil)
)
