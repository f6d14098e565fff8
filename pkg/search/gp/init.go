package gp

import (
	"math/rand"

	"github.com/exprsearch/go-exprsearch/pkg/dtree"
	"github.com/exprsearch/go-exprsearch/pkg/grammar"
)

// ramped builds popSize individuals with target depths spread evenly
// across [minDepth(start), maxDepth] (ramped half-and-half, generalized
// from the usual two-bucket grow/full split to a linear ramp across the
// whole range, since this grammar model has no separate "full" mode):
// individual i is grown against a target depth of
// minDepth + i*(maxDepth-minDepth)/(popSize-1), so the population spans
// the whole size range rather than clustering at one depth.
func ramped(rng *rand.Rand, g *grammar.Grammar, popSize, maxDepth, retries int) (Population, error) {
	minDepth := g.MinDepth(g.Start)
	if maxDepth < minDepth {
		maxDepth = minDepth
	}

	pop := make(Population, 0, popSize)
	span := maxDepth - minDepth

	for i := 0; i < popSize; i++ {
		target := minDepth
		if popSize > 1 && span > 0 {
			target = minDepth + i*span/(popSize-1)
		}

		tree := dtree.New(g, maxDepth)
		if err := tree.RandWithRetry(rng, target, retries); err != nil {
			return nil, err
		}
		pop = append(pop, &Individual{Tree: tree})
	}

	return pop, nil
}
