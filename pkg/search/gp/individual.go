// Package gp implements grammar-based genetic programming over a
// grammar.Grammar (spec.md §4.5): ramped initialization, tournament
// selection, rule-matched subtree crossover, subtree mutation, and
// elitism, driven to n_generations with a population of pop_size
// individuals.
package gp

import (
	"github.com/exprsearch/go-exprsearch/pkg/dtree"
)

// Individual pairs a complete derivation tree with its cached fitness
// and rendered expression; fitness is computed once per individual
// (by Evaluate/ParallelEvaluate, which skip Scored individuals) and
// reused by selection, elitism, and reporting in later generations.
type Individual struct {
	Tree     *dtree.DerivationTree
	Fitness  float64
	Expr     string
	Scored   bool
}

// Population is an ordered slice of individuals; sort.Sort (via its
// sort.Interface methods) puts the best (lowest fitness) first.
type Population []*Individual

func (p Population) Len() int      { return len(p) }
func (p Population) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p Population) Less(i, j int) bool {
	return p[i].Fitness < p[j].Fitness
}

// Best returns the lowest-fitness individual in a non-empty, scored population.
func (p Population) Best() *Individual {
	best := p[0]
	for _, ind := range p[1:] {
		if ind.Fitness < best.Fitness {
			best = ind
		}
	}
	return best
}
