package calculator

import (
	"math"
	"testing"
)

func TestTableBucketOrder(t *testing.T) {
	mk := func(trump float64, tag string) Operator {
		return Operator{
			Ident:    Lit("!"),
			Trump:    trump,
			Precount: 1,
			Do: func([]Value) (Value, error) {
				return tag, nil
			},
		}
	}
	// Configured out of trump order, with a tie between b and c.
	tab := buildTable([]Operator{
		mk(100, "b"),
		mk(100, "c"),
		mk(200, "a"),
		mk(50, "d"),
	}, nil)
	cands := tab.candidates("!", 1)
	if len(cands) != 4 {
		t.Fatalf("want 4 candidates, got %d", len(cands))
	}
	want := []string{"a", "b", "c", "d"}
	for i, op := range cands {
		tag, _ := op.Do(nil)
		if tag != want[i] {
			t.Errorf("candidate %d: want %q, got %v", i, want[i], tag)
		}
	}
}

func TestTableLiteralBeforeWildcard(t *testing.T) {
	lit := Infix(100, "+", 101, func(l, r Value) (Value, error) { return nil, nil })
	adj := Adjacency(900, 1000, func(l, r Value) (Value, error) { return nil, nil })
	tab := buildTable([]Operator{adj, lit}, nil)
	cands := tab.candidates("+", 1)
	if len(cands) != 2 {
		t.Fatalf("want 2 candidates, got %d", len(cands))
	}
	// The concrete bucket comes entirely before the fallback bucket, even
	// though the adjacency's trump is larger.
	if cands[0].Ident.kind != identLit {
		t.Errorf("first candidate is not the literal operator")
	}
	if cands[1].Ident.kind != identAdj {
		t.Errorf("second candidate is not the adjacency operator")
	}
}

func TestTableWildcardFallback(t *testing.T) {
	tab := buildTable(nil, DefaultInterpreters())
	cands := tab.candidates("37", 0)
	if len(cands) != 2 {
		t.Fatalf("want 2 interpreter candidates, got %d", len(cands))
	}
	for i, op := range cands {
		if op.Ident.kind != identWild {
			t.Errorf("candidate %d is not synthesized from the chain", i)
		}
		if !math.IsInf(op.Trump, 1) {
			t.Errorf("candidate %d trump is %v, want +Inf", i, op.Trump)
		}
	}
	// The chain matches tokens with no pending value only.
	if got := tab.candidates("37", 1); len(got) != 0 {
		t.Errorf("pending=1 candidates for a literal: got %d, want 0", len(got))
	}
}

func TestTableEndNeverWild(t *testing.T) {
	tab := buildTable([]Operator{
		Adjacency(900, 1000, func(l, r Value) (Value, error) { return nil, nil }),
	}, DefaultInterpreters())
	if got := tab.candidates(End, 0); len(got) != 0 {
		t.Errorf("End matched %d wildcard candidates with no pending value", len(got))
	}
	if got := tab.candidates(End, 1); len(got) != 0 {
		t.Errorf("End matched %d wildcard candidates with a pending value", len(got))
	}
}
