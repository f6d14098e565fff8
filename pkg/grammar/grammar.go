// Package grammar represents BNF grammars as a set of named
// non-terminals, each owning one or more productions, and precomputes
// the min-depth tables that bound random generation and mutation.
package grammar

import (
	"github.com/cockroachdb/errors"
)

// ErrUnproductiveGrammar is raised when the min-depth fixpoint never
// stabilizes for some non-terminal, i.e. it cannot be completed in any
// finite number of derivation steps. Fatal at startup.
var ErrUnproductiveGrammar = errors.New("grammar: unproductive, min-depth fixpoint did not converge")

// NonTerminal owns one or more productions. With exactly one
// production, that production governs every node for this symbol.
// With more than one, the symbol behaves like an implicit Or across
// them (the usual `sym = alt1 | alt2 | ...` BNF shorthand).
type NonTerminal struct {
	Name        string
	Productions []Rule

	effective Rule // cached by EffectiveRule; see its comment
}

// EffectiveRule returns the single Rule that governs this symbol. For
// a multi-production non-terminal this synthesizes an *Or the first
// time it is called and caches it, rather than allocating a fresh one
// per call: callers compare Rule values by identity (the min-depth
// tables and the derivation tree's node.rule field are both keyed this
// way), so every call for the same non-terminal must return the exact
// same Rule value.
func (nt *NonTerminal) EffectiveRule() Rule {
	if nt.effective != nil {
		return nt.effective
	}
	if len(nt.Productions) == 1 {
		nt.effective = nt.Productions[0]
	} else {
		nt.effective = &Or{Options: nt.Productions}
	}
	return nt.effective
}

// Grammar is a read-only (after New) set of named non-terminals plus
// the precomputed min-depth tables used to bound generation.
type Grammar struct {
	Start       string
	NonTerminal map[string]*NonTerminal

	minDepthByRule   map[string]int // keyed by non-terminal name
	minDepthByAction map[Rule][]int // keyed by decision rule identity
}

// Builder accumulates non-terminals before New finalizes the grammar.
type Builder struct {
	start string
	nts   map[string]*NonTerminal
}

// NewBuilder creates an empty grammar builder for the given start symbol.
func NewBuilder(start string) *Builder {
	return &Builder{start: start, nts: map[string]*NonTerminal{}}
}

// Add registers a non-terminal with one or more productions.
func (b *Builder) Add(name string, productions ...Rule) *Builder {
	b.nts[name] = &NonTerminal{Name: name, Productions: productions}
	return b
}

// Build finalizes the grammar: computes the min-depth fixpoint and
// derives the per-action min-depth table. Returns ErrUnproductiveGrammar
// if any non-terminal's min depth never converges to a finite value.
func (b *Builder) Build() (*Grammar, error) {
	g := &Grammar{
		Start:       b.start,
		NonTerminal: b.nts,
	}

	depths, err := fixpointMinDepth(g)
	if err != nil {
		return nil, err
	}
	g.minDepthByRule = depths
	g.minDepthByAction = deriveMinDepthByAction(g, depths)

	return g, nil
}

// Rule looks up the effective production for a non-terminal name.
func (g *Grammar) Rule(name string) Rule {
	nt, ok := g.NonTerminal[name]
	if !ok {
		return nil
	}
	return nt.EffectiveRule()
}

// MinDepth returns the minimum tree depth needed to complete a subtree
// rooted at the named non-terminal.
func (g *Grammar) MinDepth(name string) int {
	return g.minDepthByRule[name]
}

// MinDepthAction returns the minimum depth needed if action (1-based)
// is taken at a decision governed by r.
func (g *Grammar) MinDepthAction(r Rule, action int) int {
	table := g.minDepthByAction[r]
	if action < 1 || action > len(table) {
		return maxDepth
	}
	return table[action-1]
}
