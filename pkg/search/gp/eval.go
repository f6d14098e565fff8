package gp

import (
	"math"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"

	"github.com/exprsearch/go-exprsearch/pkg/search"
)

// Evaluate scores every unscored individual sequentially, caching
// Fitness/Expr/Scored so a later generation's surviving elites are
// never rescored.
func Evaluate(pop Population, problem search.Problem, defaultExpr string) {
	for _, ind := range pop {
		scoreOne(ind, problem, defaultExpr)
	}
}

// ParallelEvaluate scores every unscored individual across a worker
// pool (grounded on the teacher's pkg/infra/pool wrapping
// github.com/panjf2000/ants/v2): a fixed-size ants.Pool, one Submit per
// individual, a WaitGroup to block until the generation's scoring
// completes. workers <= 1 runs sequential Evaluate without a pool, and
// it also falls back to sequential Evaluate if the pool fails to start.
func ParallelEvaluate(pop Population, problem search.Problem, workers int, defaultExpr string) {
	if workers <= 1 {
		Evaluate(pop, problem, defaultExpr)
		return
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		Evaluate(pop, problem, defaultExpr)
		return
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for _, ind := range pop {
		if ind.Scored {
			continue
		}
		ind := ind
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			scoreOne(ind, problem, defaultExpr)
		})
		if submitErr != nil {
			wg.Done()
			scoreOne(ind, problem, defaultExpr)
		}
	}
	wg.Wait()
}

// scoreOne scores a single individual, mapping EvaluationFailed
// (spec.md §4.5 step 1, §7) onto the individual surviving with +Inf
// fitness and defaultExpr as its recorded expression, instead of
// propagating a Problem.Fitness panic or an invalid (NaN/Inf) score
// out of the generation.
func scoreOne(ind *Individual, problem search.Problem, defaultExpr string) {
	if ind.Scored {
		return
	}
	expr := ind.Tree.GetExpr()
	fitness, err := safeFitness(problem, expr)
	if err != nil {
		ind.Fitness = math.Inf(1)
		ind.Expr = defaultExpr
	} else {
		ind.Fitness = fitness
		ind.Expr = expr.String()
	}
	ind.Scored = true
}

// safeFitness calls problem.Fitness, converting a panic or an invalid
// (NaN/Inf) result into search.ErrEvaluationFailed rather than letting
// either crash or silently corrupt the generation's best-so-far
// tracking.
func safeFitness(problem search.Problem, expr *search.Expr) (fitness float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(search.ErrEvaluationFailed, "Problem.Fitness panicked: %v", r)
		}
	}()

	fitness = problem.Fitness(expr)
	if math.IsNaN(fitness) || math.IsInf(fitness, 0) {
		return 0, errors.Wrap(search.ErrEvaluationFailed, "Problem.Fitness returned a NaN/Inf score")
	}
	return fitness, nil
}
