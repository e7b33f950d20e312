package calculator_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/kcsaff/calculator"
)

// num converts any numeric result to float64 for comparison.
func num(t *testing.T, v calculator.Value) float64 {
	t.Helper()
	switch n := v.(type) {
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case float64:
		return n
	}
	t.Fatalf("result %#v is not numeric", v)
	return 0
}

func TestEval(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"num", "1", 1},
		{"add", "1+1", 2},
		{"group", "1+(1)", 2},
		{"groups", "(((1))+(2))", 3},
		{"prec", "2+3*4^2", 50},
		{"prec2", "2^3*4+5*6", 62},
		{"pow-right", "2^2^2", 16},
		{"neg-chain", "---3", -3},
		{"neg-pow", "-3^2", -9},
		{"neg-pow-neg", "-3^-2", -1.0 / 9},
		{"neg-chain-add", "---1 + 1", 0},
		{"percent-add", "5%+7%", 0.12},
		{"percent-chain", "1%%%", 1e-06},
		{"adjacent-group", "3(5)", 15},
		{"adjacent-nums", "2 5", 10},
		{"div", "5/2", 2.5},
		{"sub-chain", "4-5-6", -7},
		{"spaces", " 2 + 3 * 4 ", 14},
	}
	c := calculator.New()
	for _, cs := range cases {
		t.Run(cs.name, func(t *testing.T) {
			v, err := c.EvalString(cs.src)
			if err != nil {
				t.Fatalf("%q failed to evaluate: %v", cs.src, err)
			}
			if got := num(t, v); math.Abs(got-cs.r) > 1e-9 {
				t.Errorf("%q: want %g, got %g", cs.src, cs.r, got)
			}
		})
	}
}

func TestGroupingIdempotent(t *testing.T) {
	exprs := []string{
		"1", "2+3*4^2", "-3^-2", "5%+7%", "3(5)", "---1 + 1", "2^2^2",
	}
	c := calculator.New()
	for _, e := range exprs {
		bare, err := c.EvalString(e)
		if err != nil {
			t.Fatalf("%q failed to evaluate: %v", e, err)
		}
		grouped, err := c.EvalString("(" + e + ")")
		if err != nil {
			t.Fatalf("(%s) failed to evaluate: %v", e, err)
		}
		if num(t, bare) != num(t, grouped) {
			t.Errorf("grouping changed %q: %v != %v", e, bare, grouped)
		}
	}
}

func TestComparisons(t *testing.T) {
	cases := []struct {
		src string
		r   bool
	}{
		{"1 < 2", true},
		{"2 < 1", false},
		{"1 <= 1", true},
		{"2 >= 3", false},
		{"1+1 == 2", true},
		{"1 != 1", false},
		{"2*3 > 5", true},
	}
	c := calculator.New()
	for _, cs := range cases {
		v, err := c.EvalString(cs.src)
		if err != nil {
			t.Fatalf("%q failed to evaluate: %v", cs.src, err)
		}
		b, ok := v.(bool)
		if !ok {
			t.Fatalf("%q gave %#v, not bool", cs.src, v)
		}
		if b != cs.r {
			t.Errorf("%q: want %v, got %v", cs.src, cs.r, b)
		}
	}
}

func TestSymbols(t *testing.T) {
	values := map[string]calculator.Value{"a": 1, "b": 2, "c": 3}
	c := calculator.New(calculator.WithInterpreters(
		calculator.ParseInt,
		calculator.ParseFloat,
		calculator.Symbols(values),
	))
	v, err := c.EvalString("a+b*c")
	if err != nil {
		t.Fatalf("a+b*c failed to evaluate: %v", err)
	}
	if got := num(t, v); got != 7 {
		t.Errorf("a+b*c: want 7, got %g", got)
	}

	values["sqrt"] = calculator.Monadic("sqrt", math.Sqrt)
	for src, want := range map[string]float64{
		"sqrt(4)":    2,
		"sqrt 4 + 1": 3,
	} {
		v, err := c.EvalString(src)
		if err != nil {
			t.Fatalf("%q failed to evaluate: %v", src, err)
		}
		if got := num(t, v); math.Abs(got-want) > 1e-9 {
			t.Errorf("%q: want %g, got %g", src, want, got)
		}
	}

	values["hello"] = []calculator.Value{1, 2, 3}
	v, err = c.EvalString("hello[-1]+1")
	if err != nil {
		t.Fatalf("hello[-1]+1 failed to evaluate: %v", err)
	}
	if got := num(t, v); got != 4 {
		t.Errorf("hello[-1]+1: want 4, got %g", got)
	}
}

func TestAssignment(t *testing.T) {
	var (
		a = calculator.NewVar(nil)
		b = calculator.NewVar(nil)
	)
	c := calculator.New(calculator.WithInterpreters(
		calculator.ParseInt,
		calculator.ParseFloat,
		calculator.Symbols(map[string]calculator.Value{"a": a, "b": b}),
	))
	v, err := c.EvalString("a = 3")
	if err != nil {
		t.Fatalf("a = 3 failed to evaluate: %v", err)
	}
	if got := num(t, v); got != 3 {
		t.Errorf("a = 3: want 3, got %g", got)
	}
	if got := num(t, a.Value()); got != 3 {
		t.Errorf("a holds %v after assignment", a.Value())
	}
	v, err = c.EvalString("a + 1")
	if err != nil {
		t.Fatalf("a + 1 failed to evaluate: %v", err)
	}
	if got := num(t, v); got != 4 {
		t.Errorf("a + 1: want 4, got %g", got)
	}
	// Assignment is right-associative.
	if _, err := c.EvalString("a = b = 7"); err != nil {
		t.Fatalf("a = b = 7 failed to evaluate: %v", err)
	}
	if num(t, a.Value()) != 7 || num(t, b.Value()) != 7 {
		t.Errorf("chained assignment left a=%v b=%v", a.Value(), b.Value())
	}
	// Only assignable values accept assignment.
	if _, err := c.EvalString("2 = 3"); err == nil {
		t.Error("2 = 3 evaluated without error")
	}
}

func TestOverloadByPendingCount(t *testing.T) {
	// "-" is both subtraction and negation, selected only by whether a value
	// is pending, never by lookahead.
	cases := []struct {
		src string
		r   float64
	}{
		{"5-3", 2},
		{"-5+3", -2},
		{"5--3", 8},
		{"5- -3", 8},
		{"5+-3", 2},
	}
	c := calculator.New()
	for _, cs := range cases {
		v, err := c.EvalString(cs.src)
		if err != nil {
			t.Fatalf("%q failed to evaluate: %v", cs.src, err)
		}
		if got := num(t, v); got != cs.r {
			t.Errorf("%q: want %g, got %g", cs.src, cs.r, got)
		}
	}
	if _, err := c.EvalString("-"); err == nil {
		t.Error("bare - evaluated without error")
	}
}

func TestTrailingOperator(t *testing.T) {
	// An infix operator at the end of the input finds nothing for its right
	// operand. The sub-evaluation's failure fails the whole expression; no
	// later candidate gets to run against the exhausted stream.
	c := calculator.New()
	for _, src := range []string{"1+", "2*", "5-", "1+2*", "(1+)", "1^"} {
		v, err := c.EvalString(src)
		if err == nil {
			t.Errorf("%q evaluated to %v; want an error", src, v)
		}
	}
}

func TestDanglingInfix(t *testing.T) {
	// An operator token where an operand belongs is consumed by the infix
	// candidate's sub-evaluation before failing. That consumption cannot be
	// rewound, so the expression must error rather than fall through to
	// adjacency against a shifted stream.
	c := calculator.New()
	for _, src := range []string{"1+*2", "5-*3", "2**3", "1+/2"} {
		v, err := c.EvalString(src)
		if err == nil {
			t.Errorf("%q evaluated to %v; want an error", src, v)
		}
	}
}

func TestTrailingToken(t *testing.T) {
	// An operator outranked at the top level leaves its token unconsumed
	// after a complete evaluation, which is reported against the one value
	// already computed.
	weak := calculator.Postfix(-1, "!", func(v calculator.Value) (calculator.Value, error) {
		return v, nil
	})
	ops := append(calculator.DefaultOperators(), weak)
	c := calculator.New(calculator.WithOperators(ops...))
	_, err := c.EvalString("1!")
	if err == nil {
		t.Fatal("1! evaluated without error")
	}
	var oe *calculator.OperatorError
	if !errors.As(err, &oe) {
		t.Fatalf("error is %#v, not OperatorError", err)
	}
	if oe.Token != "!" || oe.Pending != 1 {
		t.Errorf("wrong OperatorError: %+v", oe)
	}
	if strings.Contains(oe.Error(), "values") {
		t.Errorf("plural message for one pending value: %q", oe.Error())
	}
}

func TestIntPowOverflow(t *testing.T) {
	c := calculator.New()
	v, err := c.EvalString("2^62")
	if err != nil {
		t.Fatalf("2^62 failed to evaluate: %v", err)
	}
	if v != int64(1)<<62 {
		t.Errorf("2^62: want %d, got %v", int64(1)<<62, v)
	}
	// Past the int64 range the result promotes to float instead of
	// wrapping.
	for src, want := range map[string]float64{
		"2^63":  math.Pow(2, 63),
		"2^64":  math.Pow(2, 64),
		"10^19": 1e19,
	} {
		v, err := c.EvalString(src)
		if err != nil {
			t.Fatalf("%q failed to evaluate: %v", src, err)
		}
		f, ok := v.(float64)
		if !ok {
			t.Fatalf("%q gave %T %v, not float64", src, v, v)
		}
		if f != want {
			t.Errorf("%q: want %g, got %g", src, want, f)
		}
	}
}

func TestMalformedGroup(t *testing.T) {
	srcs := []string{"(1", "(((", "2*(3+4", "1)", "(", "()"}
	c := calculator.New()
	for _, src := range srcs {
		v, err := c.EvalString(src)
		if err == nil {
			t.Errorf("%q evaluated to %v; want an error", src, v)
		}
	}
}

func TestMismatchedGroup(t *testing.T) {
	// An operator outranked at floor 0 ends the bracketed sub-evaluation
	// before its closing token, so verification sees the wrong token.
	weak := calculator.Postfix(-1, "!", func(v calculator.Value) (calculator.Value, error) {
		return v, nil
	})
	ops := append(calculator.DefaultOperators(), weak)
	c := calculator.New(calculator.WithOperators(ops...))
	_, err := c.EvalString("(1!)")
	if err == nil {
		t.Fatal("(1!) evaluated without error")
	}
	var ge *calculator.GroupError
	if !errors.As(err, &ge) {
		t.Fatalf("error is %#v, not GroupError", err)
	}
	if ge.Open != "(" || ge.Want != ")" || ge.Got != "!" {
		t.Errorf("wrong GroupError: %+v", ge)
	}
}

func TestArity(t *testing.T) {
	c := calculator.New()
	for _, src := range []string{""} {
		_, err := c.EvalString(src)
		if err == nil {
			t.Fatalf("%q evaluated without error", src)
		}
		var ae *calculator.ArityError
		if !errors.As(err, &ae) {
			t.Errorf("error for %q is %#v, not ArityError", src, err)
		}
	}
}

func TestUninterpretable(t *testing.T) {
	c := calculator.New()
	_, err := c.EvalString("2+spam")
	if err == nil {
		t.Fatal("2+spam evaluated without error")
	}
	var ie *calculator.InterpretError
	if !errors.As(err, &ie) {
		t.Fatalf("error is %#v, not InterpretError", err)
	}
	if ie.Token != "spam" {
		t.Errorf("error names %q, not the uninterpretable token", ie.Token)
	}
}

func TestCandidateBacktracking(t *testing.T) {
	// Two operators share one identity and pending count; they are tried in
	// order until one succeeds, so which applies is decided by trial, not
	// lookahead.
	reject := errors.New("not this one")
	ops := append(calculator.DefaultOperators(),
		calculator.Postfix(2295, "!", func(calculator.Value) (calculator.Value, error) {
			return nil, reject
		}),
		calculator.Postfix(2295, "!", func(v calculator.Value) (calculator.Value, error) {
			n, ok := v.(int64)
			if !ok {
				return nil, reject
			}
			return n + 1, nil
		}),
	)
	c := calculator.New(calculator.WithOperators(ops...))
	v, err := c.EvalString("3!*2")
	if err != nil {
		t.Fatalf("3!*2 failed to evaluate: %v", err)
	}
	if got := num(t, v); got != 8 {
		t.Errorf("3!*2: want 8, got %g", got)
	}

	// When every candidate fails, the aggregate carries all reasons. The
	// table holds only the overloads so no fallback operator joins them.
	c = calculator.New(calculator.WithOperators(
		calculator.Postfix(2295, "!", func(calculator.Value) (calculator.Value, error) {
			return nil, reject
		}),
		calculator.Postfix(2295, "!", func(calculator.Value) (calculator.Value, error) {
			return nil, reject
		}),
	))
	_, err = c.EvalString("3!")
	if err == nil {
		t.Fatal("3! evaluated without error")
	}
	var ce *calculator.CandidateError
	if !errors.As(err, &ce) {
		t.Fatalf("error is %#v, not CandidateError", err)
	}
	if len(ce.Reasons) != 2 {
		t.Errorf("aggregate carries %d reasons, want 2", len(ce.Reasons))
	}
	if !errors.Is(err, reject) {
		t.Error("aggregate does not unwrap to the underlying reason")
	}
}

func TestSingleReasonSurfacedDirectly(t *testing.T) {
	c := calculator.New(calculator.WithInterpreters(calculator.ParseInt))
	_, err := c.EvalString("1.5")
	if err == nil {
		t.Fatal("1.5 evaluated without error with an integer-only chain")
	}
	var ce *calculator.CandidateError
	if errors.As(err, &ce) {
		t.Errorf("single candidate failure surfaced as aggregate: %v", err)
	}
	var ie *calculator.InterpretError
	if !errors.As(err, &ie) {
		t.Errorf("error is %#v, not InterpretError", err)
	}
}

func TestDepthLimit(t *testing.T) {
	c := calculator.New(calculator.MaxDepth(8))
	deep := strings.Repeat("(", 20) + "1" + strings.Repeat(")", 20)
	_, err := c.EvalString(deep)
	if err == nil {
		t.Fatal("deeply nested expression evaluated without error")
	}
	var de *calculator.DepthError
	if !errors.As(err, &de) {
		t.Fatalf("error is %#v, not DepthError", err)
	}
	if _, err := c.EvalString("((1))"); err != nil {
		t.Errorf("shallow expression failed under depth limit: %v", err)
	}
}

func TestEvaluateSub(t *testing.T) {
	// Evaluate works on a caller-owned source and pushes the stop token
	// back.
	c := calculator.New()
	ts := calculator.Lex(strings.NewReader("1+2)"))
	v, err := c.Evaluate(ts, ")", 0)
	if err != nil {
		t.Fatalf("sub-evaluation failed: %v", err)
	}
	if got := num(t, v); got != 3 {
		t.Errorf("sub-evaluation: want 3, got %g", got)
	}
	tok, err := ts.Next()
	if err != nil {
		t.Fatalf("reading stop token: %v", err)
	}
	if tok != ")" {
		t.Errorf("stop token not restored: got %q", tok)
	}
}

func TestDomainErrors(t *testing.T) {
	c := calculator.New()
	for _, src := range []string{"1/0", "0/0"} {
		_, err := c.EvalString(src)
		if err == nil {
			t.Fatalf("%q evaluated without error", src)
		}
		var de *calculator.DomainError
		if !errors.As(err, &de) {
			t.Errorf("error for %q is %#v, not DomainError", src, err)
		}
	}
}

func TestLexErrors(t *testing.T) {
	c := calculator.New()
	for _, src := range []string{"2 $ 2", "1.2.3", "1e"} {
		_, err := c.EvalString(src)
		if err == nil {
			t.Fatalf("%q evaluated without error", src)
		}
		var le *calculator.LexError
		if !errors.As(err, &le) {
			t.Errorf("error for %q is %#v, not LexError", src, err)
		}
	}
}

func BenchmarkEval(b *testing.B) {
	c := calculator.New()
	b.Run("nums", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			c.EvalString("2+3+4")
		}
	})
	b.Run("nested", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			c.EvalString("2+3*4^2-(5/2)%")
		}
	})
}
