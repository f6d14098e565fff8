package dtree

import (
	"math/rand"

	"github.com/exprsearch/go-exprsearch/pkg/grammar"
)

// randCompleteOpen drains the tree's open frontier under a legality
// filter derived from targetDepth (spec.md §4.3): at each pending
// decision node, the legal actions are those whose min depth (from
// the grammar's min-depth-by-action table) fits within targetDepth,
// measured against the node's own (absolute, root = 1) depth. The
// table's value counts the decision node itself, so a subtree of min
// depth m rooted at depth d has its deepest leaf at d+m-1. Nodes
// are popped FIFO so that, given the same sequence of random draws,
// two trees expanded in the same order reach the same structure
// (needed for action replay, spec.md §8 property 3).
//
// This always terminates in finitely many steps: every resolved
// decision either produces no further decisions, or produces ones
// strictly deeper, and min_depth_action can never be satisfied past
// targetDepth, so the frontier shrinks to empty or hits
// ErrIncompleteExpansion.
func (t *DerivationTree) randCompleteOpen(rng *rand.Rand, targetDepth int) error {
	g := t.g

	for len(t.open) > 0 {
		idx := t.open[0]
		nd := t.a.get(idx)

		budget := targetDepth - nd.depth + 1
		n := grammar.NumActions(nd.rule)
		legal := make([]int, 0, n)
		for a := 1; a <= n; a++ {
			if g.MinDepthAction(nd.rule, a) <= budget {
				legal = append(legal, a)
			}
		}

		if len(legal) == 0 {
			return ErrIncompleteExpansion
		}

		action := legal[rng.Intn(len(legal))]
		if err := t.ExpandNodeAction(NodeRef(idx), action); err != nil {
			return err
		}
	}

	return nil
}

// CompleteRandomly finishes an already partially-expanded tree from
// its current state (no reset), applying the same depth-bounded random
// policy as RandWithRetry. It is the rollout primitive MCTS uses after
// its tree policy reaches a node still short of a complete expression.
func (t *DerivationTree) CompleteRandomly(rng *rand.Rand, targetDepth int) error {
	return t.randCompleteOpen(rng, targetDepth)
}

// RandWithRetry repeatedly attempts uniform depth-bounded expansion
// (Initialize + randCompleteOpen) starting from a fresh tree; on
// ErrIncompleteExpansion it resets and retries, failing after retries
// attempts with ErrSamplingExhausted (spec.md §4.2).
func (t *DerivationTree) RandWithRetry(rng *rand.Rand, targetDepth, retries int) error {
	for attempt := 0; attempt < retries; attempt++ {
		t.Initialize()
		err := t.randCompleteOpen(rng, targetDepth)
		if err == nil {
			return nil
		}
		if err != ErrIncompleteExpansion {
			return err
		}
	}
	return ErrSamplingExhausted
}

// ResampleAt regenerates the subtree rooted at an existing node,
// reusing the node's current position and absolute depth (so its
// parent's child pointer stays valid without rewiring). It is the
// mutation-time subtree resampling of spec.md §4.5, expressed in this
// package's absolute-depth convention: targetDepth is the same
// absolute bound used for the whole tree (equivalent to the spec's
// maxdepth - node.depth once depths are taken as relative to the
// mutation point). On success the old subtree `at` held is orphaned
// by the resample, so the arena is compacted to release it; on
// failure the tree is left in a partial state and the caller is
// expected to discard it, so no compaction runs.
func (t *DerivationTree) ResampleAt(rng *rand.Rand, at NodeRef, targetDepth int) error {
	idx := int32(at)
	nd := t.a.get(idx)
	symbol := nd.symbol
	depth := nd.depth

	rule := nd.rule
	if symbol != "" {
		rule = t.g.Rule(symbol)
	}

	t.reopenAt(idx, rule, symbol, depth)

	if err := t.randCompleteOpen(rng, targetDepth); err != nil {
		return err
	}
	t.compact()
	return nil
}

// reopenAt overwrites an existing arena slot with a freshly-minted
// node for rule, in place: decision rules are pushed back onto the
// open frontier, non-decision rules are expanded immediately by
// allocating new children (the node's own index, and so its parent's
// pointer to it, never changes).
func (t *DerivationTree) reopenAt(idx int32, rule grammar.Rule, symbol string, depth int) {
	*t.a.get(idx) = node{rule: rule, symbol: symbol, depth: depth}

	if grammar.IsDecision(rule) {
		t.open = append(t.open, idx)
		return
	}

	switch rr := rule.(type) {
	case *grammar.Terminal:
		t.a.get(idx).expanded = true
	case *grammar.Ref:
		child := t.materialize(t.g.Rule(rr.Name), rr.Name, depth+1, idx)
		t.a.get(idx).children = []int32{child}
		t.a.get(idx).expanded = true
	case *grammar.And:
		children := make([]int32, len(rr.Items))
		for i, item := range rr.Items {
			children[i] = t.materialize(item, "", depth+1, idx)
		}
		t.a.get(idx).children = children
		t.a.get(idx).expanded = true
	case *grammar.Or:
		t.a.get(idx).action = 1
		child := t.materialize(rr.Options[0], "", depth+1, idx)
		t.a.get(idx).children = []int32{child}
		t.a.get(idx).expanded = true
	case *grammar.Range:
		t.a.get(idx).action = 1
		t.a.get(idx).expanded = true
	}
}
