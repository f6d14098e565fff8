package search

// Sink observes a driver's progress. Every method is one event family
// from the external-interfaces catalog; a driver calls whichever ones
// apply to it (MC never calls Population, GP never calls MCTSTree) and
// is otherwise indifferent to what the Sink does with them -- logging,
// metrics, a TUI, or nothing (NopSink).
//
// Methods are called synchronously on the driver's main goroutine
// (ParallelEvaluate's workers never call the Sink); a Sink that fans
// out to something slow should buffer internally rather than block the
// search.
type Sink interface {
	// Verbose1 carries a free-form diagnostic line, the lowest-priority
	// event family; most Sinks drop it outside of debugging.
	Verbose1(msg string)

	// Iteration fires once per driver iteration (an MC sample, a GP
	// generation, an MCTS selection/expansion/rollout/backup cycle).
	Iteration(n int)

	// ElapsedCPUSeconds reports wall-clock time spent so far.
	ElapsedCPUSeconds(s float64)

	// CurrentBest reports the best fitness seen so far and the
	// evaluation count it was found at (0 from PMC).
	CurrentBest(fitness float64, foundAt int)

	// Fitness reports one individual's raw fitness score, regardless of
	// whether it became the new best (MC samples, MCTS rollouts).
	Fitness(fitness float64)

	// Code reports the rendered expression for a scored individual.
	Code(expr string)

	// Population reports a generation snapshot (GP only): the fitness
	// of every individual, worst to best is not implied by the order.
	Population(gen int, fitnesses []float64)

	// Result reports the final outcome of a run.
	Result(r Result)

	// ComputeInfo reports how much of the iteration/evaluation budget
	// has been consumed (for progress reporting under a time limit).
	ComputeInfo(evalsUsed, evalsTotal int)

	// Parameters reports the resolved parameter set a driver started
	// with, once, before its first iteration.
	Parameters(desc string)

	// MCTSTree reports a textual snapshot of the search tree (MCTS
	// only); expensive, intended for verbose/debug runs.
	MCTSTree(desc string)
}

// NopSink implements Sink with no-ops; the default when a caller does
// not supply one.
type NopSink struct{}

func (NopSink) Verbose1(string)                  {}
func (NopSink) Iteration(int)                    {}
func (NopSink) ElapsedCPUSeconds(float64)        {}
func (NopSink) CurrentBest(float64, int)         {}
func (NopSink) Fitness(float64)                  {}
func (NopSink) Code(string)                      {}
func (NopSink) Population(int, []float64)        {}
func (NopSink) Result(Result)                    {}
func (NopSink) ComputeInfo(int, int)             {}
func (NopSink) Parameters(string)                {}
func (NopSink) MCTSTree(string)                  {}

var _ Sink = NopSink{}
