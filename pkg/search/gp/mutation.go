package gp

import (
	"math/rand"

	"github.com/exprsearch/go-exprsearch/pkg/dtree"
)

// mutate copies parent and resamples a uniformly random node's subtree
// in place (spec.md §4.5), retrying with a fresh random node if the
// grammar's depth bound makes that particular node unsatisfiable
// (dtree.ErrIncompleteExpansion); after retries attempts it gives up
// and returns the unmutated copy rather than propagating the error,
// since a parent surviving unmutated into the next generation is
// always a valid outcome.
func mutate(rng *rand.Rand, parent *dtree.DerivationTree, maxDepth, retries int) *dtree.DerivationTree {
	child := parent.Copy()

	for attempt := 0; attempt < retries; attempt++ {
		at := child.RandomNode(rng, true)
		trial := child.Copy()
		if err := trial.ResampleAt(rng, at, maxDepth); err == nil {
			return trial
		}
	}

	return child
}
