// Package search holds the types shared by every expression-search
// driver (pkg/search/mc, pkg/search/gp, pkg/search/mcts): the Problem
// contract a caller implements, the Sink a caller observes progress
// through, and the cooperative stop/limit machinery all three drivers
// use to bound a run.
package search

import (
	"github.com/exprsearch/go-exprsearch/pkg/dtree"
	"github.com/exprsearch/go-exprsearch/pkg/grammar"
)

// Expr is dtree.Expr, re-exported so callers implementing Problem
// never need to import pkg/dtree directly.
type Expr = dtree.Expr

// Problem is what a caller implements to search a grammar for an
// expression minimizing (or maximizing, by the sign of the returned
// fitness) some objective. It deliberately says nothing about what an
// expression means: Fitness receives the folded Expr value and
// returns a single float, lower-is-better by convention across every
// driver in this module.
type Problem interface {
	// Grammar returns the grammar every derivation tree is drawn from.
	Grammar() *grammar.Grammar

	// Fitness scores a complete expression. Implementations are free
	// to be expensive; GP's ParallelEvaluate exists for exactly this.
	Fitness(e *Expr) float64
}

// InitHook is implemented optionally by a Problem that wants to
// observe or reject a freshly sampled tree before it is scored (e.g.
// to reject expressions that are syntactically valid but semantically
// degenerate for the problem at hand). The mc, gp and mcts drivers do
// not call Init.
type InitHook interface {
	Init(e *Expr) error
}
