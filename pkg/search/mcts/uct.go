package mcts

import (
	"math"
	"math/rand"
)

// selectUCT returns the 1-based action of a fully-expanded node's
// child maximizing Q(s,a) + C*sqrt(ln N(s) / N(s,a)), the UCT rule
// (spec.md §4.6), grounded on the teacher's UCB1.Select but without
// its unvisited-first early return (every child here is guaranteed
// visited at least once by the time a node is fully expanded).
func selectUCT(n *node, explorationC float64, maxmod bool) int {
	lnN := math.Log(float64(n.visits))
	best := 1
	bestScore := math.Inf(-1)

	for i, c := range n.children {
		score := c.value(maxmod) + explorationC*math.Sqrt(lnN/float64(c.visits))
		if score > bestScore {
			bestScore = score
			best = i + 1
		}
	}
	return best
}

// expandAction picks a uniformly random untried action at n.
func expandAction(rng *rand.Rand, n *node) int {
	candidates := n.untried()
	return candidates[rng.Intn(len(candidates))]
}
