package calculator

import (
	"math/big"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// BigInterpreter returns an interpreter producing *big.Float literals at the
// given precision.
func BigInterpreter(prec uint) Interpreter {
	return func(tok Token) (Value, error) {
		s := string(tok)
		if strings.EqualFold(s, "inf") {
			return new(big.Float).SetPrec(prec).SetInf(false), nil
		}
		f, _, err := new(big.Float).SetPrec(prec).Parse(s, 0)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
}

// BigOperators returns an operator set over *big.Float values at the given
// precision: comparisons, arithmetic, exponentiation, percent, unary plus
// and minus, grouping, and implicit application/multiplication. Trumps match
// the default set so the two configurations resolve identically.
func BigOperators(prec uint) []Operator {
	cmp := func(test func(int) bool) func(l, r Value) (Value, error) {
		return func(l, r Value) (Value, error) {
			lf, rf, err := bigPair("compare", l, r)
			if err != nil {
				return nil, err
			}
			return test(lf.Cmp(rf)), nil
		}
	}
	return []Operator{
		Infix(1090, "==", 1100, cmp(func(c int) bool { return c == 0 })),
		Infix(1090, "<=", 1100, cmp(func(c int) bool { return c <= 0 })),
		Infix(1090, ">=", 1100, cmp(func(c int) bool { return c >= 0 })),
		Infix(1090, "!=", 1100, cmp(func(c int) bool { return c != 0 })),
		Infix(1090, "<", 1100, cmp(func(c int) bool { return c < 0 })),
		Infix(1090, ">", 1100, cmp(func(c int) bool { return c > 0 })),
		Infix(2090, "+", 2100, bigOp("+", prec, (*big.Float).Add)),
		Infix(2090, "-", 2100, bigOp("-", prec, (*big.Float).Sub)),
		Infix(2190, "*", 2200, bigOp("*", prec, (*big.Float).Mul)),
		Infix(2190, "/", 2200, bigDiv(prec)),
		Infix(2310, "^", 2300, bigPow(prec)),
		Adjacency(2390, 2400, bigApplyOrMul(prec)),
		Postfix(2295, "%", bigPercent(prec)),
		Prefix("+", 2305, func(v Value) (Value, error) {
			f, err := bigVal("+", v)
			if err != nil {
				return nil, err
			}
			return f, nil
		}),
		Prefix("-", 2305, func(v Value) (Value, error) {
			f, err := bigVal("-", v)
			if err != nil {
				return nil, err
			}
			return new(big.Float).SetPrec(prec).Neg(f), nil
		}),
		Brackets("(", ")"),
	}
}

// BigSymbols returns default symbols for the big configuration: sqrt, exp,
// ln, and log as callables, and the constants pi and e.
func BigSymbols(prec uint) map[string]Value {
	var one big.Float
	one.SetPrec(prec).SetInt64(1)
	return map[string]Value{
		"sqrt": BigMonadic("sqrt", prec, func(out, in *big.Float) *big.Float { return out.Sqrt(in) }),
		"exp":  BigMonadic("exp", prec, bigfloat.Exp),
		"ln":   BigMonadic("ln", prec, bigfloat.Log),
		"log": BigMonadic("log", prec, func(out, in *big.Float) *big.Float {
			bigfloat.Log(out, in)
			den := bigfloat.Log(new(big.Float).SetPrec(out.Prec()), big.NewFloat(10).SetPrec(out.Prec()))
			return out.Quo(out, den)
		}),
		"pi": bigfloat.Pi(new(big.Float).SetPrec(prec)),
		"e":  bigfloat.Exp(new(big.Float).SetPrec(prec), &one),
	}
}

type bigMonadic struct {
	name string
	prec uint
	f    func(out, in *big.Float) *big.Float
}

func (m bigMonadic) Apply(arg Value) (v Value, err error) {
	in, err := bigVal(m.name, arg)
	if err != nil {
		return nil, err
	}
	// big.Float panics with ErrNaN on arguments outside a function's domain,
	// e.g. the square root of a negative number.
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(big.ErrNaN); ok {
				err = &DomainError{X: arg, Func: m.name}
				return
			}
			panic(r)
		}
	}()
	out := new(big.Float).SetPrec(m.prec)
	return m.f(out, in), nil
}

// BigMonadic wraps a function of one *big.Float into an Applier. f must set
// out to its result.
func BigMonadic(name string, prec uint, f func(out, in *big.Float) *big.Float) Applier {
	return bigMonadic{name, prec, f}
}

func bigVal(op string, v Value) (*big.Float, error) {
	f, ok := deref(v).(*big.Float)
	if !ok {
		return nil, &TypeError{Op: op, X: v}
	}
	return f, nil
}

func bigPair(op string, l, r Value) (*big.Float, *big.Float, error) {
	lf, err := bigVal(op, l)
	if err != nil {
		return nil, nil, err
	}
	rf, err := bigVal(op, r)
	if err != nil {
		return nil, nil, err
	}
	return lf, rf, nil
}

// catchNaN converts big.Float's ErrNaN panics, e.g. from inf-inf or 0*inf,
// into domain errors.
func catchNaN(op string, x Value, err *error) {
	if r := recover(); r != nil {
		if _, ok := r.(big.ErrNaN); ok {
			*err = &DomainError{X: x, Func: op}
			return
		}
		panic(r)
	}
}

func bigOp(op string, prec uint, f func(z, x, y *big.Float) *big.Float) func(l, r Value) (Value, error) {
	return func(l, r Value) (v Value, err error) {
		lf, rf, err := bigPair(op, l, r)
		if err != nil {
			return nil, err
		}
		defer catchNaN(op, r, &err)
		return f(new(big.Float).SetPrec(prec), lf, rf), nil
	}
}

func bigDiv(prec uint) func(l, r Value) (Value, error) {
	return func(l, r Value) (v Value, err error) {
		lf, rf, err := bigPair("/", l, r)
		if err != nil {
			return nil, err
		}
		// Guard against invalid divisions, 0/0 or inf/inf.
		if lf.Sign() == 0 && rf.Sign() == 0 || lf.IsInf() && rf.IsInf() {
			return nil, &DomainError{X: r, Func: "/"}
		}
		defer catchNaN("/", r, &err)
		return new(big.Float).SetPrec(prec).Quo(lf, rf), nil
	}
}

func bigPow(prec uint) func(l, r Value) (Value, error) {
	return func(l, r Value) (v Value, err error) {
		lf, rf, err := bigPair("^", l, r)
		if err != nil {
			return nil, err
		}
		// bigfloat.Pow requires a non-negative base.
		if lf.Signbit() {
			return nil, &DomainError{X: l, Func: "^"}
		}
		defer catchNaN("^", l, &err)
		return bigfloat.Pow(new(big.Float).SetPrec(prec), lf, rf), nil
	}
}

func bigApplyOrMul(prec uint) func(l, r Value) (Value, error) {
	mul := bigOp("*", prec, (*big.Float).Mul)
	return func(l, r Value) (Value, error) {
		if ap, ok := deref(l).(Applier); ok {
			return ap.Apply(deref(r))
		}
		return mul(l, r)
	}
}

func bigPercent(prec uint) func(v Value) (Value, error) {
	hundredth := big.NewFloat(0.01).SetPrec(prec)
	return func(v Value) (Value, error) {
		f, err := bigVal("%", v)
		if err != nil {
			return nil, err
		}
		return new(big.Float).SetPrec(prec).Mul(f, hundredth), nil
	}
}
