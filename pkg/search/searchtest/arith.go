// Package searchtest provides a fixed, internal-only grammar and
// fitness function (the "arith" fixture used throughout this module's
// tests) so pkg/search/mc, pkg/search/gp and pkg/search/mcts can all
// test against a concrete search.Problem without each reinventing one.
// It is deliberately not a shipped ExprProblem: evaluation is a naive
// recursive interpreter over dtree.Expr, adequate for test fixtures
// but not for a real grammar's semantics.
package searchtest

import (
	"math"
	"strconv"

	"github.com/exprsearch/go-exprsearch/pkg/grammar"
	"github.com/exprsearch/go-exprsearch/pkg/search"
)

// Arith is the standard "target number" fixture: expr = num | expr op
// expr; op = + | * | -; num = 1..9. Fitness is the absolute distance
// from a target value, so the global optimum is 0.
type Arith struct {
	g      *grammar.Grammar
	Target float64
}

// NewArith builds the fixture grammar once and binds it to target.
func NewArith(target float64) *Arith {
	b := grammar.NewBuilder("start")
	b.Add("start", grammar.NewRef("expr"))
	b.Add("expr",
		grammar.NewRef("num"),
		grammar.NewAnd(grammar.NewRef("expr"), grammar.NewRef("op"), grammar.NewRef("expr")),
	)
	b.Add("op", grammar.NewOr(
		grammar.NewTerminal("+"),
		grammar.NewTerminal("*"),
		grammar.NewTerminal("-"),
	))
	b.Add("num", grammar.NewRange(1, 9))

	g, err := b.Build()
	if err != nil {
		// the fixture grammar is fixed and known-productive; a build
		// failure here means the fixture itself is broken.
		panic(err)
	}

	return &Arith{g: g, Target: target}
}

func (a *Arith) Grammar() *grammar.Grammar { return a.g }

// Fitness folds the expression to a float via a tiny recursive
// evaluator and returns |value - Target|.
func (a *Arith) Fitness(e *search.Expr) float64 {
	v, ok := evaluate(e)
	if !ok {
		return math.Inf(1)
	}
	return math.Abs(v - a.Target)
}

func evaluate(e *search.Expr) (float64, bool) {
	if e.Leaf() {
		n, err := strconv.ParseFloat(e.Value, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}

	if len(e.Children) != 3 {
		return 0, false
	}
	lhs, ok := evaluate(e.Children[0])
	if !ok {
		return 0, false
	}
	op := e.Children[1]
	rhs, ok := evaluate(e.Children[2])
	if !ok {
		return 0, false
	}

	switch op.Value {
	case "+":
		return lhs + rhs, true
	case "*":
		return lhs * rhs, true
	case "-":
		return lhs - rhs, true
	default:
		return 0, false
	}
}
