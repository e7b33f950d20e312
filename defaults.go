package calculator

import "math"

// DefaultOperators returns the default operator set: assignment,
// comparisons, additive and multiplicative arithmetic, right-associative
// exponentiation, implicit application/multiplication, index brackets,
// postfix percent, unary plus and minus, and round-bracket grouping.
//
// Trump values leave room between tiers for operators slotted in by callers.
// Exponentiation recurses on its right side with a floor looser than its own
// trump, which is what makes it right-associative; the additive and
// multiplicative tiers do the opposite.
func DefaultOperators() []Operator {
	return []Operator{
		Infix(510, "=", 500, assign),
		Infix(1090, "==", 1100, compare("==")),
		Infix(1090, "<=", 1100, compare("<=")),
		Infix(1090, ">=", 1100, compare(">=")),
		Infix(1090, "!=", 1100, compare("!=")),
		Infix(1090, "<", 1100, compare("<")),
		Infix(1090, ">", 1100, compare(">")),
		Infix(2090, "+", 2100, add),
		Infix(2090, "-", 2100, sub),
		Infix(2190, "*", 2200, mul),
		Infix(2190, "/", 2200, div),
		Infix(2310, "^", 2300, pow),
		Adjacency(2390, 2400, applyOrMul),
		Index(3000, "[", "]", index),
		Postfix(2295, "%", percent),
		Prefix("+", 2305, pos),
		Prefix("-", 2305, neg),
		Brackets("(", ")"),
	}
}

// integer reports a value as an int64 if it is one.
func integer(v Value) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}

// number reports a value as a float64 if it is numeric.
func number(v Value) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// arith dispatches a binary numeric action, keeping int64 results when both
// operands are integers.
func arith(op string, ints func(l, r int64) (Value, error), floats func(l, r float64) (Value, error)) func(l, r Value) (Value, error) {
	return func(l, r Value) (Value, error) {
		l, r = deref(l), deref(r)
		if li, ok := integer(l); ok {
			if ri, ok := integer(r); ok {
				return ints(li, ri)
			}
		}
		lf, ok := number(l)
		if !ok {
			return nil, &TypeError{Op: op, X: l}
		}
		rf, ok := number(r)
		if !ok {
			return nil, &TypeError{Op: op, X: r}
		}
		return floats(lf, rf)
	}
}

var (
	add = arith("+",
		func(l, r int64) (Value, error) { return l + r, nil },
		func(l, r float64) (Value, error) { return l + r, nil })
	sub = arith("-",
		func(l, r int64) (Value, error) { return l - r, nil },
		func(l, r float64) (Value, error) { return l - r, nil })
	mul = arith("*",
		func(l, r int64) (Value, error) { return l * r, nil },
		func(l, r float64) (Value, error) { return l * r, nil })
)

// div is true division: the result is a float64 even for integer operands.
func div(l, r Value) (Value, error) {
	l, r = deref(l), deref(r)
	lf, ok := number(l)
	if !ok {
		return nil, &TypeError{Op: "/", X: l}
	}
	rf, ok := number(r)
	if !ok {
		return nil, &TypeError{Op: "/", X: r}
	}
	if rf == 0 {
		return nil, &DomainError{X: r, Func: "/"}
	}
	return lf / rf, nil
}

func pow(l, r Value) (Value, error) {
	l, r = deref(l), deref(r)
	if li, ok := integer(l); ok {
		if ri, ok := integer(r); ok && ri >= 0 {
			if n, ok := ipow(li, ri); ok {
				return n, nil
			}
			// Fall through to the float path on overflow.
		}
	}
	lf, ok := number(l)
	if !ok {
		return nil, &TypeError{Op: "^", X: l}
	}
	rf, ok := number(r)
	if !ok {
		return nil, &TypeError{Op: "^", X: r}
	}
	v := math.Pow(lf, rf)
	if math.IsNaN(v) {
		return nil, &DomainError{X: l, Func: "^"}
	}
	return v, nil
}

// ipow is exponentiation by squaring for non-negative integer exponents.
// It reports false if the result does not fit in an int64.
func ipow(base, exp int64) (int64, bool) {
	r := int64(1)
	for exp > 0 {
		if exp&1 != 0 {
			var ok bool
			r, ok = mulInt64(r, base)
			if !ok {
				return 0, false
			}
		}
		exp >>= 1
		if exp == 0 {
			break
		}
		var ok bool
		base, ok = mulInt64(base, base)
		if !ok {
			return 0, false
		}
	}
	return r, true
}

func mulInt64(a, b int64) (int64, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a == math.MinInt64 && b == -1 || b == math.MinInt64 && a == -1 {
		return 0, false
	}
	c := a * b
	if c/b != a {
		return 0, false
	}
	return c, true
}

func compare(op string) func(l, r Value) (Value, error) {
	return func(l, r Value) (Value, error) {
		l, r = deref(l), deref(r)
		c, err := cmp(op, l, r)
		if err != nil {
			return nil, err
		}
		switch op {
		case "==":
			return c == 0, nil
		case "!=":
			return c != 0, nil
		case "<":
			return c < 0, nil
		case "<=":
			return c <= 0, nil
		case ">":
			return c > 0, nil
		case ">=":
			return c >= 0, nil
		}
		return nil, &TypeError{Op: op, X: l}
	}
}

func cmp(op string, l, r Value) (int, error) {
	if lf, ok := number(l); ok {
		rf, ok := number(r)
		if !ok {
			return 0, &TypeError{Op: op, X: r}
		}
		switch {
		case lf < rf:
			return -1, nil
		case lf > rf:
			return 1, nil
		}
		return 0, nil
	}
	if ls, ok := l.(string); ok {
		rs, ok := r.(string)
		if !ok {
			return 0, &TypeError{Op: op, X: r}
		}
		switch {
		case ls < rs:
			return -1, nil
		case ls > rs:
			return 1, nil
		}
		return 0, nil
	}
	return 0, &TypeError{Op: op, X: l}
}

// applyOrMul resolves adjacency: apply when the left value is callable,
// multiply otherwise. "sqrt 4" is a call; "3(5)" is a product.
func applyOrMul(l, r Value) (Value, error) {
	if ap, ok := deref(l).(Applier); ok {
		return ap.Apply(deref(r))
	}
	return mul(l, r)
}

// index subscripts slices, strings, and string-keyed maps. Negative indices
// count from the end.
func index(l, sub Value) (Value, error) {
	l, sub = deref(l), deref(sub)
	switch seq := l.(type) {
	case []Value:
		i, ok := indexIn(sub, len(seq))
		if !ok {
			return nil, &DomainError{X: sub, Func: "index"}
		}
		return seq[i], nil
	case string:
		rs := []rune(seq)
		i, ok := indexIn(sub, len(rs))
		if !ok {
			return nil, &DomainError{X: sub, Func: "index"}
		}
		return string(rs[i]), nil
	case map[string]Value:
		k, ok := sub.(string)
		if !ok {
			return nil, &TypeError{Op: "index", X: sub}
		}
		v, ok := seq[k]
		if !ok {
			return nil, &DomainError{X: sub, Func: "index"}
		}
		return v, nil
	}
	return nil, &TypeError{Op: "index", X: l}
}

func indexIn(sub Value, n int) (int, bool) {
	i, ok := integer(sub)
	if !ok {
		return 0, false
	}
	if i < 0 {
		i += int64(n)
	}
	if i < 0 || i >= int64(n) {
		return 0, false
	}
	return int(i), true
}

func percent(v Value) (Value, error) {
	f, ok := number(deref(v))
	if !ok {
		return nil, &TypeError{Op: "%", X: v}
	}
	return f * 0.01, nil
}

func pos(v Value) (Value, error) {
	d := deref(v)
	if _, ok := number(d); !ok {
		return nil, &TypeError{Op: "+", X: v}
	}
	return d, nil
}

func neg(v Value) (Value, error) {
	d := deref(v)
	if i, ok := integer(d); ok {
		return -i, nil
	}
	f, ok := number(d)
	if !ok {
		return nil, &TypeError{Op: "-", X: v}
	}
	return -f, nil
}

// assign stores through the left operand, which must expose assignment. The
// result is the assigned value.
func assign(l, r Value) (Value, error) {
	a, ok := l.(Assigner)
	if !ok {
		return nil, &TypeError{Op: "=", X: l}
	}
	return a.Assign(r)
}
