// Package mc implements uniform Monte Carlo sampling over a grammar
// (spec.md §4.4): repeatedly draw a depth-bounded random complete
// tree, score it, and keep the best. PMC is the embarrassingly
// parallel variant that fans the same loop out across n_threads
// independent workers.
package mc

import (
	"math/rand"
	"time"

	"github.com/exprsearch/go-exprsearch/pkg/dtree"
	"github.com/exprsearch/go-exprsearch/pkg/search"
)

// Params configures a Run; zero-valued fields fall back to the
// defaults below (mirrors the teacher's Limits/DefaultLimits pattern).
type Params struct {
	NSamples  int
	MaxDepth  int
	Retries   int // RandWithRetry's retry budget per sample
	Seed      int64
	Movetime  time.Duration // <=0: unbounded by time
	Sink      search.Sink
}

const (
	DefaultNSamples = 1000
	DefaultMaxDepth = 10
	DefaultRetries  = 20
)

func (p *Params) fillDefaults() {
	if p.NSamples <= 0 {
		p.NSamples = DefaultNSamples
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = DefaultMaxDepth
	}
	if p.Retries <= 0 {
		p.Retries = DefaultRetries
	}
	if p.Sink == nil {
		p.Sink = search.NopSink{}
	}
}

// Run performs n_samples independent draws, tracking the best fitness
// found, and reports a Result consistent with TotalEvals == the number
// of samples actually scored (spec.md §8 property 8).
func Run(problem search.Problem, params Params) search.Result {
	params.fillDefaults()
	sink := params.Sink

	limiter := search.NewLimiter()
	if params.Movetime > 0 {
		limiter.SetMovetime(params.Movetime)
	}
	limiter.Reset()

	rng := rand.New(rand.NewSource(params.Seed))
	g := problem.Grammar()
	tree := dtree.New(g, params.MaxDepth)

	best := Best{Fitness: 0, Found: false}
	evals := 0

	for evals < params.NSamples && limiter.Ok(evals) {
		if err := tree.RandWithRetry(rng, params.MaxDepth, params.Retries); err != nil {
			// sampling failure does not count as an evaluation.
			continue
		}

		expr := tree.GetExpr()
		fitness := problem.Fitness(expr)
		evals++

		sink.Iteration(evals)
		sink.Fitness(fitness)
		sink.Code(expr.String())

		if !best.Found || fitness < best.Fitness {
			best = Best{Fitness: fitness, Expr: expr.String(), AtEval: evals, Found: true}
		}
		sink.CurrentBest(best.Fitness, best.AtEval)
	}

	reason := search.StopBudgetExhausted
	if !limiter.Ok(evals) && evals < params.NSamples {
		reason = limiter.Reason(evals)
	}

	result := search.Result{
		BestExpr:    best.Expr,
		BestFitness: best.Fitness,
		BestAtEval:  best.AtEval,
		TotalEvals:  evals,
		StopReason:  reason,
		ElapsedMs:   limiter.Elapsed().Milliseconds(),
	}
	sink.Result(result)
	return result
}

// Best tracks the running best sample; Found distinguishes "no sample
// has ever been scored" from a genuine zero-fitness result.
type Best struct {
	Fitness float64
	Expr    string
	AtEval  int
	Found   bool
}
