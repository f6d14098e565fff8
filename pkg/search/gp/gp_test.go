package gp

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exprsearch/go-exprsearch/pkg/search"
	"github.com/exprsearch/go-exprsearch/pkg/search/searchtest"
)

// panicProblem wraps a Problem and panics on every other Fitness call,
// exercising scoreOne's recover path.
type panicProblem struct {
	search.Problem
	calls int
}

func (p *panicProblem) Fitness(e *search.Expr) float64 {
	p.calls++
	if p.calls%2 == 0 {
		panic("boom")
	}
	return p.Problem.Fitness(e)
}

func TestEvaluationFailureSurvivesWithDefaultExpr(t *testing.T) {
	problem := &panicProblem{Problem: searchtest.NewArith(5)}
	rng := rand.New(rand.NewSource(6))

	pop, err := ramped(rng, problem.Grammar(), 10, 8, 20)
	require.NoError(t, err)

	Evaluate(pop, problem, "<default>")

	sawFailure := false
	for _, ind := range pop {
		require.True(t, ind.Scored)
		if math.IsInf(ind.Fitness, 1) {
			sawFailure = true
			require.Equal(t, "<default>", ind.Expr)
		}
	}
	require.True(t, sawFailure, "expected at least one individual to hit the panicking Fitness call")
}

func TestRunCountsEvalsAndKeepsFitnessNonNegative(t *testing.T) {
	problem := searchtest.NewArith(37)

	result := Run(problem, Params{
		PopSize:      80,
		NGenerations: 15,
		MaxDepth:     8,
		Seed:         1,
	})

	require.Positive(t, result.TotalEvals)
	require.GreaterOrEqual(t, result.BestFitness, 0.0, "BestFitness should never be negative for this fixture")
}

func TestElitismNeverRegressesBest(t *testing.T) {
	problem := searchtest.NewArith(100)
	rng := rand.New(rand.NewSource(2))

	pop, err := ramped(rng, problem.Grammar(), 40, 8, 20)
	require.NoError(t, err)
	Evaluate(pop, problem, "")

	bestBefore := pop.Best().Fitness

	result := Run(problem, Params{PopSize: 40, NGenerations: 10, MaxDepth: 8, Seed: 2})
	require.LessOrEqualf(t, result.BestFitness, bestBefore, "best fitness regressed across generations: %v -> %v", bestBefore, result.BestFitness)
}

func TestCrossoverProducesCompleteOffspring(t *testing.T) {
	g := searchtest.NewArith(5).Grammar()
	rng := rand.New(rand.NewSource(3))

	pop, err := ramped(rng, g, 10, 8, 20)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		p1, p2 := pop[rng.Intn(len(pop))], pop[rng.Intn(len(pop))]
		c1, c2, err := crossover(rng, p1.Tree, p2.Tree, 8)
		if err != nil {
			continue
		}
		require.True(t, c1.Complete(), "first crossover child is not a complete, well-formed tree")
		require.True(t, c2.Complete(), "second crossover child is not a complete, well-formed tree")
	}
}

func TestMutationProducesCompleteOffspring(t *testing.T) {
	g := searchtest.NewArith(5).Grammar()
	rng := rand.New(rand.NewSource(4))

	pop, err := ramped(rng, g, 5, 8, 20)
	require.NoError(t, err)

	for _, ind := range pop {
		child := mutate(rng, ind.Tree, 8, 20)
		require.True(t, child.Complete(), "mutated child is not a complete, well-formed tree")
	}
}

func TestParallelEvaluateMatchesSequential(t *testing.T) {
	problem := searchtest.NewArith(12)
	rng := rand.New(rand.NewSource(5))

	popSeq, err := ramped(rng, problem.Grammar(), 30, 8, 20)
	require.NoError(t, err)
	popPar := make(Population, len(popSeq))
	for i, ind := range popSeq {
		popPar[i] = &Individual{Tree: ind.Tree.Copy()}
	}

	Evaluate(popSeq, problem, "")
	ParallelEvaluate(popPar, problem, 4, "")

	for i := range popSeq {
		require.Equalf(t, popSeq[i].Fitness, popPar[i].Fitness, "sequential and parallel evaluation disagree at %d", i)
	}
}
