package mcts

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/exprsearch/go-exprsearch/pkg/search/searchtest"
)

func TestRunFindsLowFitnessExpression(t *testing.T) {
	problem := searchtest.NewArith(6)

	result := Run(problem, Params{NIters: 3000, SearchDepth: 6, MaxDepth: 8, Seed: 1})

	require.NotZero(t, result.TotalEvals, "expected at least one scored rollout")
	require.LessOrEqualf(t, result.BestFitness, 0.5, "expected MCTS to get reasonably close to target 6 within 3000 iterations, got %v", result.BestFitness)
}

func TestRunAccountsEvalsWithinBudget(t *testing.T) {
	problem := searchtest.NewArith(20)

	result := Run(problem, Params{NIters: 500, SearchDepth: 5, MaxDepth: 8, Seed: 2})

	require.LessOrEqual(t, result.TotalEvals, 500, "TotalEvals cannot exceed NIters")
}

func TestMaxModVariantRuns(t *testing.T) {
	problem := searchtest.NewArith(3)

	result := Run(problem, Params{NIters: 500, SearchDepth: 5, MaxDepth: 8, Seed: 3, MaxMod: true})
	require.NotZero(t, result.TotalEvals, "expected at least one scored rollout under the maxmod variant")
}
