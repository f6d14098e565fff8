// Package dtree implements the derivation-tree data structure: a
// mutable, arena-backed tree representing partial and complete parses
// of a grammar.Grammar, plus depth-bounded random generation.
//
// Nodes live in a slab (arena) addressed by index rather than as a
// web of pointers (spec.md §9): a DerivationTree value is an arena
// plus a root index, so Copy is a memcpy of the node slice and
// crossover is an index splice. No back-pointers are stored; every
// algorithm here walks top-down and depth is stored on the node, not
// derived by walking up to the root.
package dtree

import "github.com/exprsearch/go-exprsearch/pkg/grammar"

// node is one arena slot. cmd is a short label used only by external
// pretty-printers (spec.md §3) and is otherwise opaque to this package.
type node struct {
	rule     grammar.Rule
	symbol   string // grammar non-terminal this node represents, "" if anonymous
	cmd      string
	depth    int
	action   int // 1-based chosen action (1 for a single-option Or/Range), 0 for Terminal/Ref/And or a decision not yet expanded
	expanded bool
	children []int32
}

// arena is the slab of nodes backing one DerivationTree.
type arena struct {
	nodes []node
}

func newArena() *arena {
	return &arena{}
}

func (a *arena) alloc(n node) int32 {
	a.nodes = append(a.nodes, n)
	return int32(len(a.nodes) - 1)
}

func (a *arena) get(i int32) *node {
	return &a.nodes[i]
}

// clone deep-copies the arena: same length, same rule pointers (the
// grammar is immutable and shared), independent children slices so
// later mutation (Graft, ResampleAt) never aliases the source arena.
func (a *arena) clone() *arena {
	out := &arena{nodes: make([]node, len(a.nodes))}
	for i := range a.nodes {
		out.nodes[i] = a.nodes[i]
		if a.nodes[i].children != nil {
			out.nodes[i].children = append([]int32(nil), a.nodes[i].children...)
		}
	}
	return out
}

// reset truncates the arena to empty, retaining its backing array so
// the next generation's allocations reuse the same memory instead of
// growing a fresh slice (spec.md §9's "discarding a generation resets
// the arena's high-water mark").
func (a *arena) reset() {
	a.nodes = a.nodes[:0]
}
