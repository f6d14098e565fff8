package dtree

import (
	"math/rand"
	"testing"

	"github.com/exprsearch/go-exprsearch/pkg/grammar"
)

// arithGrammar mirrors the fixture in pkg/grammar's test suite (spec.md
// §8): start = expr; expr = num | expr op expr; op = + | * | -; num = 1..3.
func arithGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()

	b := grammar.NewBuilder("start")
	b.Add("start", grammar.NewRef("expr"))
	b.Add("expr",
		grammar.NewRef("num"),
		grammar.NewAnd(grammar.NewRef("expr"), grammar.NewRef("op"), grammar.NewRef("expr")),
	)
	b.Add("op", grammar.NewOr(
		grammar.NewTerminal("+"),
		grammar.NewTerminal("*"),
		grammar.NewTerminal("-"),
	))
	b.Add("num", grammar.NewRange(1, 3))

	g, err := b.Build()
	if err != nil {
		t.Fatalf("arithGrammar: unexpected error: %v", err)
	}
	return g
}

func TestInitializeLeavesOnlyDecisionsOpen(t *testing.T) {
	g := arithGrammar(t)
	tr := New(g, 6)
	tr.Initialize()

	if tr.NumOpen() == 0 {
		t.Fatalf("expected at least one pending decision after Initialize")
	}
	for _, n := range tr.Open() {
		if !grammar.IsDecision(tr.Rule(n)) {
			t.Fatalf("node %d in open frontier is not a decision rule", n)
		}
	}
}

func TestRandWithRetryCompletesWithinDepth(t *testing.T) {
	g := arithGrammar(t)
	tr := New(g, 6)
	rng := rand.New(rand.NewSource(1))

	if err := tr.RandWithRetry(rng, 6, 50); err != nil {
		t.Fatalf("RandWithRetry: %v", err)
	}
	if !tr.Complete() {
		t.Fatalf("expected a complete tree")
	}
	if got := tr.MaxDepth(); got > 6 {
		t.Fatalf("MaxDepth() = %d, exceeds target depth 6", got)
	}
}

func TestRandWithRetryExhausted(t *testing.T) {
	g := arithGrammar(t)
	tr := New(g, 6)
	rng := rand.New(rand.NewSource(1))

	// start needs min depth 4 (see pkg/grammar tests); depth 2 can never
	// be satisfied, so every attempt must hit ErrIncompleteExpansion.
	err := tr.RandWithRetry(rng, 2, 5)
	if err != ErrSamplingExhausted {
		t.Fatalf("expected ErrSamplingExhausted, got %v", err)
	}
}

func TestActionReplayIsDeterministic(t *testing.T) {
	g := arithGrammar(t)

	src := New(g, 8)
	rng := rand.New(rand.NewSource(42))
	if err := src.RandWithRetry(rng, 8, 50); err != nil {
		t.Fatalf("RandWithRetry: %v", err)
	}
	actions := src.Actions()

	replay := New(g, 8)
	replay.Initialize()
	for _, a := range replay.Open() {
		_ = a // first decision consumed in the loop below
	}
	for _, action := range actions {
		open := replay.Open()
		if len(open) == 0 {
			t.Fatalf("replay ran out of open decisions early")
		}
		if err := replay.ExpandNodeAction(open[0], action); err != nil {
			t.Fatalf("ExpandNodeAction: %v", err)
		}
	}

	if !replay.Complete() {
		t.Fatalf("replay did not complete")
	}
	if got, want := replay.GetExpr().String(), src.GetExpr().String(); got != want {
		t.Fatalf("replay produced a different expression: got %q, want %q", got, want)
	}
	if got, want := replay.MaxDepth(), src.MaxDepth(); got != want {
		t.Fatalf("replay MaxDepth = %d, want %d", got, want)
	}
}

func TestCopyIsIndependent(t *testing.T) {
	g := arithGrammar(t)
	tr := New(g, 6)
	rng := rand.New(rand.NewSource(7))
	if err := tr.RandWithRetry(rng, 6, 50); err != nil {
		t.Fatalf("RandWithRetry: %v", err)
	}

	cp := tr.Copy()
	if cp.GetExpr().String() != tr.GetExpr().String() {
		t.Fatalf("copy diverged from source immediately after Copy")
	}

	// mutate the copy's root in place and confirm the source is untouched.
	root := cp.Root()
	before := tr.GetExpr().String()
	rng2 := rand.New(rand.NewSource(99))
	if err := cp.ResampleAt(rng2, root, cp.MaxSteps()); err != nil {
		t.Fatalf("ResampleAt: %v", err)
	}
	if tr.GetExpr().String() != before {
		t.Fatalf("mutating the copy affected the source tree")
	}
}

func TestNodesWithSymbolFindsMatches(t *testing.T) {
	g := arithGrammar(t)
	tr := New(g, 8)
	rng := rand.New(rand.NewSource(3))
	if err := tr.RandWithRetry(rng, 8, 50); err != nil {
		t.Fatalf("RandWithRetry: %v", err)
	}

	matches := tr.NodesWithSymbol("expr")
	if len(matches) == 0 {
		t.Fatalf("expected at least one node tagged with symbol %q", "expr")
	}
	for _, n := range matches {
		if tr.Symbol(n) != "expr" {
			t.Fatalf("NodesWithSymbol returned a node with symbol %q", tr.Symbol(n))
		}
	}
}

func TestGraftProducesWellFormedTree(t *testing.T) {
	g := arithGrammar(t)

	p1 := New(g, 8)
	p2 := New(g, 8)
	rng := rand.New(rand.NewSource(11))
	if err := p1.RandWithRetry(rng, 8, 50); err != nil {
		t.Fatalf("RandWithRetry p1: %v", err)
	}
	if err := p2.RandWithRetry(rng, 8, 50); err != nil {
		t.Fatalf("RandWithRetry p2: %v", err)
	}

	exprNodes1 := p1.NodesWithSymbol("expr")
	exprNodes2 := p2.NodesWithSymbol("expr")
	if len(exprNodes1) == 0 || len(exprNodes2) == 0 {
		t.Skip("fixture did not produce matching symbol nodes this run")
	}

	child := p1.Copy()
	at := exprNodes1[0]
	wantDepth := p1.Depth(at)
	newAt := child.Graft(at, p2, exprNodes2[0])

	if !child.Complete() {
		t.Fatalf("grafted tree has pending decisions")
	}
	if got := child.Depth(newAt); got != wantDepth {
		t.Fatalf("graft point depth changed: got %d, want %d", got, wantDepth)
	}
}

// TestGraftCompactsOrphanedSubtree confirms a graft doesn't leak the
// subtree it replaces: the arena shrinks back to exactly the live
// tree's node count instead of accumulating the discarded nodes.
func TestGraftCompactsOrphanedSubtree(t *testing.T) {
	g := arithGrammar(t)

	p1 := New(g, 8)
	p2 := New(g, 8)
	rng := rand.New(rand.NewSource(23))
	if err := p1.RandWithRetry(rng, 8, 50); err != nil {
		t.Fatalf("RandWithRetry p1: %v", err)
	}
	if err := p2.RandWithRetry(rng, 8, 50); err != nil {
		t.Fatalf("RandWithRetry p2: %v", err)
	}

	exprNodes1 := p1.NodesWithSymbol("expr")
	exprNodes2 := p2.NodesWithSymbol("expr")
	if len(exprNodes1) == 0 || len(exprNodes2) == 0 {
		t.Skip("fixture did not produce matching symbol nodes this run")
	}

	child := p1.Copy()
	child.Graft(exprNodes1[0], p2, exprNodes2[0])

	if got, want := child.NumNodes(), len(child.AllNodes()); got != want {
		t.Fatalf("NumNodes() = %d, AllNodes() returned %d entries", got, want)
	}
	for _, n := range child.AllNodes() {
		if !reachableFromRoot(child, n) {
			t.Fatalf("AllNodes returned an unreachable node %d after compaction", n)
		}
	}
}

// reachableFromRoot confirms n is reachable from t's root by walking
// children; used only to assert compaction left no orphans behind.
func reachableFromRoot(t *DerivationTree, n NodeRef) bool {
	if n == t.Root() {
		return true
	}
	for _, c := range t.Children(t.Root()) {
		if n == c || nodeInSubtree(t, c, n) {
			return true
		}
	}
	return false
}

func nodeInSubtree(t *DerivationTree, root, n NodeRef) bool {
	if root == n {
		return true
	}
	for _, c := range t.Children(root) {
		if nodeInSubtree(t, c, n) {
			return true
		}
	}
	return false
}
