package gp

import (
	"math/rand"

	"github.com/exprsearch/go-exprsearch/pkg/dtree"
	"github.com/exprsearch/go-exprsearch/pkg/search"
)

// crossover performs single-point rule-matched subtree crossover
// (spec.md §4.5): pick a uniformly random non-root node n1 in p1,
// collect every node in p2 sharing n1's symbol, pick a uniformly
// random one of them as n2, then swap the two subtrees -- c1 is a
// copy of p1 with n1's subtree replaced by (a copy of) p2's subtree at
// n2, and c2 is a copy of p2 with n2's subtree replaced by (a copy of)
// p1's subtree at n1. Both children are returned. Each child keeps its
// parent's action log (Graft does not rewrite it), so replaying a
// child's Actions() does not reproduce the child.
//
// If no node in p2 shares a symbol with n1, ErrRuleNotFound is
// returned and the caller should fall back to the parents unmodified
// rather than treat this as fatal (a non-terminal with only one
// production anywhere in the tree, or a shallow random n1, make this a
// routine occurrence, not an error worth aborting a generation over).
func crossover(rng *rand.Rand, p1, p2 *dtree.DerivationTree, maxDepth int) (*dtree.DerivationTree, *dtree.DerivationTree, error) {
	n1 := p1.RandomNode(rng, true)
	symbol := p1.Symbol(n1)
	if symbol == "" {
		// anonymous nodes (And hops) carry no rule identity to match
		// against; simply report no match, same as a genuinely absent
		// symbol, and let the caller retry a different node or accept
		// the parents unchanged.
		return nil, nil, search.ErrRuleNotFound
	}

	candidates := p2.NodesWithSymbol(symbol)
	if len(candidates) == 0 {
		return nil, nil, search.ErrRuleNotFound
	}
	n2 := candidates[rng.Intn(len(candidates))]

	c1 := p1.Copy()
	c1.Graft(n1, p2, n2)

	c2 := p2.Copy()
	c2.Graft(n2, p1, n1)

	if maxDepth > 0 && (c1.MaxDepth() > maxDepth || c2.MaxDepth() > maxDepth) {
		return nil, nil, search.ErrDepthExceeded
	}
	return c1, c2, nil
}
