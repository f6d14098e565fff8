package grammar

import "testing"

// arithGrammar builds the "arith" fixture used throughout the test
// suite and referenced by spec.md §8: start = expr; expr = num | expr
// op expr; op = + | * | -; num = 1|2|3.
func arithGrammar(t *testing.T) *Grammar {
	t.Helper()

	b := NewBuilder("start")
	b.Add("start", NewRef("expr"))
	b.Add("expr",
		NewRef("num"),
		NewAnd(NewRef("expr"), NewRef("op"), NewRef("expr")),
	)
	b.Add("op", NewOr(
		NewTerminal("+"),
		NewTerminal("*"),
		NewTerminal("-"),
	))
	b.Add("num", NewRange(1, 3))

	g, err := b.Build()
	if err != nil {
		t.Fatalf("arithGrammar: unexpected error: %v", err)
	}
	return g
}

func TestMinDepthWellFormed(t *testing.T) {
	g := arithGrammar(t)

	if g.MinDepth("start") <= 0 {
		t.Fatalf("expected positive min depth for start, got %d", g.MinDepth("start"))
	}
	// num (Range, depth 1) <- Ref (depth 2) <- expr's Or node (depth 3) <- start's Ref (depth 4).
	if got, want := g.MinDepth("start"), 4; got != want {
		t.Fatalf("MinDepth(start) = %d, want %d", got, want)
	}
	if got, want := g.MinDepth("expr"), 3; got != want {
		t.Fatalf("MinDepth(expr) = %d, want %d", got, want)
	}
	if got, want := g.MinDepth("num"), 1; got != want {
		t.Fatalf("MinDepth(num) = %d, want %d", got, want)
	}
}

func TestMinDepthByAction(t *testing.T) {
	g := arithGrammar(t)

	exprRule := g.Rule("expr")
	// expr is an implicit Or over [num-ref, and(expr,op,expr)].
	if !IsDecision(exprRule) {
		t.Fatalf("expected expr to be a decision rule")
	}
	if got, want := g.MinDepthAction(exprRule, 1), 3; got != want {
		t.Fatalf("MinDepthAction(expr, 1) = %d, want %d", got, want)
	}
	// second option recurses through expr again, so its depth must
	// exceed the first option's.
	if g.MinDepthAction(exprRule, 2) <= g.MinDepthAction(exprRule, 1) {
		t.Fatalf("expected recursive option to need more depth")
	}
}

func TestUnproductiveGrammar(t *testing.T) {
	// S6: a pathological grammar with only recursive references.
	b := NewBuilder("start")
	b.Add("start", NewRef("loop"))
	b.Add("loop", NewRef("start"))

	_, err := b.Build()
	if err == nil {
		t.Fatalf("expected UnproductiveGrammar error")
	}
}

func TestRangeActions(t *testing.T) {
	r := NewRange(1, 3)
	if got, want := NumActions(r), 3; got != want {
		t.Fatalf("NumActions = %d, want %d", got, want)
	}
	for a := 1; a <= 3; a++ {
		if got, want := r.RangeValue(a), a; got != want {
			t.Fatalf("RangeValue(%d) = %d, want %d", a, got, want)
		}
	}
}
