package mcts

import (
	"math/rand"

	"github.com/exprsearch/go-exprsearch/pkg/dtree"
	"github.com/exprsearch/go-exprsearch/pkg/grammar"
	"github.com/exprsearch/go-exprsearch/pkg/search"
)

// Params configures Run.
type Params struct {
	NIters      int
	SearchDepth int // how many decisions deep the tree policy (selection+expansion) explores before rollout takes over
	MaxDepth    int // derivation-tree depth bound, as in pkg/dtree
	Exploration float64
	// StepReward is added once per decision taken, tree-policy or
	// rollout alike (spec.md §4.6); a small negative value biases the
	// search toward shorter derivations among otherwise similar
	// fitness outcomes.
	StepReward float64
	// MaxNegReward is the reward assigned when a rollout or tree-policy
	// path cannot complete within MaxDepth (an "illegal
	// terminal"): deliberately worse than any real -fitness outcome
	// this problem is expected to produce.
	MaxNegReward float64
	// Discount multiplies the backpropagated reward once per step of
	// distance from the leaf where it originated, so earlier ancestors
	// see a progressively damped signal from deep, uncertain rollouts.
	Discount float64
	// MaxMod switches a node's UCT value estimate from the running
	// mean to the running max (spec.md §4.6's maxmod variant).
	MaxMod bool

	Seed int64
	Sink search.Sink
}

const (
	DefaultNIters       = 2000
	DefaultSearchDepth  = 6
	DefaultMaxDepth     = 10
	DefaultExploration  = 1.41421356 // sqrt(2)
	DefaultStepReward   = -0.01
	DefaultMaxNegReward = -1e6
	DefaultDiscount     = 0.99
)

func (p *Params) fillDefaults() {
	if p.NIters <= 0 {
		p.NIters = DefaultNIters
	}
	if p.SearchDepth <= 0 {
		p.SearchDepth = DefaultSearchDepth
	}
	if p.MaxDepth <= 0 {
		p.MaxDepth = DefaultMaxDepth
	}
	if p.Exploration == 0 {
		p.Exploration = DefaultExploration
	}
	if p.StepReward == 0 {
		p.StepReward = DefaultStepReward
	}
	if p.MaxNegReward == 0 {
		p.MaxNegReward = DefaultMaxNegReward
	}
	if p.Discount == 0 {
		p.Discount = DefaultDiscount
	}
	if p.Sink == nil {
		p.Sink = search.NopSink{}
	}
}

// Run performs n_iters selection/expansion/rollout/backup cycles
// (spec.md §4.6) and returns the best complete expression found across
// every rollout and tree-policy completion.
func Run(problem search.Problem, params Params) search.Result {
	params.fillDefaults()
	sink := params.Sink
	sink.Parameters(paramsString(params))

	g := problem.Grammar()
	rng := rand.New(rand.NewSource(params.Seed))
	root := newNode(nil)

	var bestExpr string
	var bestFitness float64
	var bestFound bool
	bestAtEval := 0
	evals := 0

	for iter := 1; iter <= params.NIters; iter++ {
		expr, fitness, ok := iterate(rng, g, root, problem, params)
		if ok {
			evals++
			sink.Fitness(fitness)
			if !bestFound || fitness < bestFitness {
				bestFitness, bestExpr, bestFound = fitness, expr, true
				bestAtEval = evals
				sink.CurrentBest(fitness, bestAtEval)
			}
		}
		sink.Iteration(iter)
	}

	sink.MCTSTree(treeSummary(root))

	result := search.Result{
		BestExpr:    bestExpr,
		BestFitness: bestFitness,
		BestAtEval:  bestAtEval,
		TotalEvals:  evals,
		StopReason:  search.StopBudgetExhausted,
	}
	sink.Result(result)
	return result
}

// iterate runs one selection/expansion/rollout/backup cycle starting
// from root, mutating the MCTS tree in place. It reports ok=false when
// the cycle never reached a scoreable complete expression (an illegal
// terminal), in which case expr is "" and fitness is 0; the penalty
// goes only into the backed-up reward.
func iterate(rng *rand.Rand, g *grammar.Grammar, root *node, problem search.Problem, params Params) (expr string, fitness float64, ok bool) {
	tree := dtree.New(g, params.MaxDepth)
	tree.Initialize()

	path := []*node{root}
	cur := root
	depth := 0
	reward := 0.0
	needsRollout := false

	for {
		if tree.NumOpen() == 0 {
			break
		}
		if depth >= params.SearchDepth {
			needsRollout = true
			break
		}

		openNode := tree.Open()[0]
		rule := tree.Rule(openNode)
		cur.ensureSized(grammar.NumActions(rule))

		var action int
		if !cur.fullyExpanded() {
			action = expandAction(rng, cur)
		} else {
			action = selectUCT(cur, params.Exploration, params.MaxMod)
		}

		if err := tree.ExpandNodeAction(openNode, action); err != nil {
			reward = params.MaxNegReward
			break
		}
		reward += params.StepReward

		child := cur.children[action-1]
		firstVisit := child == nil
		if firstVisit {
			child = newNode(cur)
			cur.children[action-1] = child
		}
		cur = child
		path = append(path, cur)
		depth++

		if firstVisit && tree.NumOpen() > 0 {
			needsRollout = true
			break
		}
	}

	if needsRollout {
		before := len(tree.Actions())
		err := tree.CompleteRandomly(rng, params.MaxDepth)
		reward += params.StepReward * float64(len(tree.Actions())-before)
		if err != nil {
			reward += params.MaxNegReward
		} else {
			e := tree.GetExpr()
			fitness = problem.Fitness(e)
			reward += -fitness
			expr, ok = e.String(), true
		}
	} else if tree.NumOpen() == 0 {
		e := tree.GetExpr()
		fitness = problem.Fitness(e)
		reward += -fitness
		expr, ok = e.String(), true
	}

	backprop(path, reward, params.Discount)
	return expr, fitness, ok
}

func backprop(path []*node, reward float64, discount float64) {
	r := reward
	for i := len(path) - 1; i >= 0; i-- {
		path[i].update(r)
		r *= discount
	}
}
