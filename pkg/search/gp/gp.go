package gp

import (
	"math/rand"
	"sort"

	"github.com/exprsearch/go-exprsearch/pkg/search"
)

// Params configures Run; zero-valued numeric fields fall back to the
// defaults below.
type Params struct {
	PopSize        int
	NGenerations   int
	MaxDepth       int
	Retries        int
	TournamentSize int

	// ElitismFrac, CrossoverFrac, MutateFrac, RandFrac partition each
	// new generation's population (spec.md §4.5); they are normalized
	// to sum to 1 if they do not already.
	ElitismFrac   float64
	CrossoverFrac float64
	MutateFrac    float64
	RandFrac      float64

	// DefaultExpr is the expression recorded for an individual whose
	// Problem.Fitness call fails (spec.md §4.5 step 1, §7
	// EvaluationFailed): its fitness is set to +Inf and its expression
	// to DefaultExpr, so it survives selection but is always dominated.
	DefaultExpr string

	Seed    int64
	Workers int // 1 = sequential Evaluate, >1 = ParallelEvaluate
	Sink    search.Sink
}

const (
	DefaultPopSize        = 200
	DefaultNGenerations    = 50
	DefaultMaxDepth       = 10
	DefaultRetries        = 20
	DefaultTournamentSize = 4
)

func (p *Params) fillDefaults() {
	if p.PopSize <= 0 {
		p.PopSize = DefaultPopSize
	}
	if p.NGenerations <= 0 {
		p.NGenerations = DefaultNGenerations
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = DefaultMaxDepth
	}
	if p.Retries <= 0 {
		p.Retries = DefaultRetries
	}
	if p.TournamentSize <= 0 {
		p.TournamentSize = DefaultTournamentSize
	}
	if p.ElitismFrac == 0 && p.CrossoverFrac == 0 && p.MutateFrac == 0 && p.RandFrac == 0 {
		p.ElitismFrac, p.CrossoverFrac, p.MutateFrac, p.RandFrac = 0.05, 0.7, 0.2, 0.05
	}
	total := p.ElitismFrac + p.CrossoverFrac + p.MutateFrac + p.RandFrac
	if total > 0 {
		p.ElitismFrac /= total
		p.CrossoverFrac /= total
		p.MutateFrac /= total
		p.RandFrac /= total
	}
	if p.Workers <= 0 {
		p.Workers = 1
	}
	if p.Sink == nil {
		p.Sink = search.NopSink{}
	}
}

// Run executes n_generations of the GP loop (spec.md §4.5): ramped
// initialization, evaluation, elitism + crossover + mutation + fresh
// random fill to repopulate, evaluation of the new arrivals, repeat.
// TotalEvals in the returned Result counts every individual scored
// across every generation (initial population plus each generation's
// non-elite arrivals), matching property 8's accounting requirement.
func Run(problem search.Problem, params Params) search.Result {
	params.fillDefaults()
	sink := params.Sink
	sink.Parameters(paramsString(params))

	rng := rand.New(rand.NewSource(params.Seed))
	g := problem.Grammar()

	pop, err := ramped(rng, g, params.PopSize, params.MaxDepth, params.Retries)
	if err != nil {
		return search.Result{StopReason: search.StopErrored}
	}

	evaluate(pop, problem, params.Workers, params.DefaultExpr)
	totalEvals := len(pop)
	sort.Sort(pop)

	best := *pop.Best()
	bestAtEval := totalEvals
	reportGeneration(sink, 0, pop, best)

	nElite := roundFrac(params.ElitismFrac, params.PopSize)
	nCrossover := roundFrac(params.CrossoverFrac, params.PopSize)
	nMutate := roundFrac(params.MutateFrac, params.PopSize)
	nRand := params.PopSize - nElite - nCrossover - nMutate
	if nRand < 0 {
		nRand = 0
	}

	for gen := 1; gen <= params.NGenerations; gen++ {
		next := make(Population, 0, params.PopSize)

		for i := 0; i < nElite && i < len(pop); i++ {
			next = append(next, pop[i])
		}

		for i := 0; i < nCrossover; i += 2 {
			p1 := tournament(rng, pop, params.TournamentSize)
			p2 := tournament(rng, pop, params.TournamentSize)
			c1, c2, err := crossover(rng, p1.Tree, p2.Tree, params.MaxDepth)
			if err != nil {
				c1, c2 = p1.Tree.Copy(), p2.Tree.Copy()
			}
			next = append(next, &Individual{Tree: c1})
			if i+1 < nCrossover {
				next = append(next, &Individual{Tree: c2})
			}
		}

		for i := 0; i < nMutate; i++ {
			p := tournament(rng, pop, params.TournamentSize)
			next = append(next, &Individual{Tree: mutate(rng, p.Tree, params.MaxDepth, params.Retries)})
		}

		fresh, err := ramped(rng, g, nRand, params.MaxDepth, params.Retries)
		if err == nil {
			next = append(next, fresh...)
		}

		// top up to PopSize if crossover/mutation fell short.
		for len(next) < params.PopSize {
			next = append(next, &Individual{Tree: pop[rng.Intn(len(pop))].Tree.Copy()})
		}
		if len(next) > params.PopSize {
			next = next[:params.PopSize]
		}

		newArrivals := 0
		for _, ind := range next {
			if !ind.Scored {
				newArrivals++
			}
		}
		evaluate(next, problem, params.Workers, params.DefaultExpr)
		totalEvals += newArrivals

		sort.Sort(next)
		pop = next

		if pop.Best().Fitness < best.Fitness {
			best = *pop.Best()
			bestAtEval = totalEvals
		}
		sink.CurrentBest(best.Fitness, bestAtEval)
		reportGeneration(sink, gen, pop, best)
	}

	result := search.Result{
		BestExpr:    best.Expr,
		BestFitness: best.Fitness,
		BestAtEval:  bestAtEval,
		TotalEvals:  totalEvals,
		StopReason:  search.StopBudgetExhausted,
	}
	sink.Result(result)
	return result
}

func evaluate(pop Population, problem search.Problem, workers int, defaultExpr string) {
	if workers > 1 {
		ParallelEvaluate(pop, problem, workers, defaultExpr)
	} else {
		Evaluate(pop, problem, defaultExpr)
	}
}

func reportGeneration(sink search.Sink, gen int, pop Population, best Individual) {
	sink.Iteration(gen)
	fitnesses := make([]float64, len(pop))
	for i, ind := range pop {
		fitnesses[i] = ind.Fitness
	}
	sink.Population(gen, fitnesses)
	sink.Code(best.Expr)
}

func roundFrac(frac float64, n int) int {
	v := int(frac*float64(n) + 0.5)
	if v < 0 {
		return 0
	}
	if v > n {
		return n
	}
	return v
}
