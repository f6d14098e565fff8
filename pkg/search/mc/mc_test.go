package mc

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exprsearch/go-exprsearch/pkg/search/searchtest"
)

func TestRunFindsExactTarget(t *testing.T) {
	problem := searchtest.NewArith(6)

	result := Run(problem, Params{NSamples: 500, MaxDepth: 6, Seed: 1})

	require.Equal(t, 500, result.TotalEvals)
	require.InDeltaf(t, 0, result.BestFitness, 0.0001, "expected to find target 6 exactly within 500 samples at depth 6, got %v", result.BestFitness)
	require.Positive(t, result.BestAtEval)
}

func TestRunDeterministicGivenSeed(t *testing.T) {
	problem := searchtest.NewArith(17)

	a := Run(problem, Params{NSamples: 200, MaxDepth: 6, Seed: 99})
	b := Run(problem, Params{NSamples: 200, MaxDepth: 6, Seed: 99})

	require.Equal(t, a.BestFitness, b.BestFitness, "same seed must produce the same best fitness")
	require.Equal(t, a.BestExpr, b.BestExpr, "same seed must produce the same best expression")
}

func TestParallelRunAccountsAllEvals(t *testing.T) {
	problem := searchtest.NewArith(9)

	result := ParallelRun(problem, PMCParams{NSamples: 400, NThreads: 4, MaxDepth: 6, Seed: 5})

	require.Equal(t, 400, result.TotalEvals)
	require.Zero(t, result.BestAtEval, "PMC cannot attribute a global eval order across workers")
}
