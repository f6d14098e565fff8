package dtree

import (
	"math/rand"

	"github.com/exprsearch/go-exprsearch/pkg/grammar"
)

// NodeRef identifies one node of a DerivationTree. It is only valid
// for the tree that produced it.
type NodeRef int32

// DerivationTree owns a root node, an open-frontier of pending
// decision nodes, the grammar reference, and maxsteps (spec.md §3).
type DerivationTree struct {
	g        *grammar.Grammar
	a        *arena
	root     int32
	maxsteps int
	open     []int32 // pending decision node indices, FIFO order
	actions  []int   // resolved actions, in visitation order (LinearDerivTree)
}

// New creates an empty, uninitialized derivation tree bound to g,
// recording maxsteps as its depth budget (reported by MaxSteps). The
// tree does not enforce it: ExpandNodeAction takes any in-range action,
// and random generation is bounded only by the targetDepth passed to
// RandWithRetry, CompleteRandomly or ResampleAt.
func New(g *grammar.Grammar, maxsteps int) *DerivationTree {
	return &DerivationTree{g: g, a: newArena(), maxsteps: maxsteps, root: -1}
}

// Grammar returns the grammar this tree is bound to.
func (t *DerivationTree) Grammar() *grammar.Grammar { return t.g }

// MaxSteps returns the tree's depth budget.
func (t *DerivationTree) MaxSteps() int { return t.maxsteps }

// Root returns the tree's root node reference.
func (t *DerivationTree) Root() NodeRef { return NodeRef(t.root) }

// Initialize installs a root node for the grammar's start symbol and
// recursively auto-expands every non-decision node reached from it,
// so that Open() holds exactly the decision nodes pending a choice
// (spec.md §4.2).
func (t *DerivationTree) Initialize() {
	t.a.reset()
	t.open = t.open[:0]
	t.actions = t.actions[:0]
	t.root = t.materialize(t.g.Rule(t.g.Start), t.g.Start, 1, -1)
}

// materialize allocates a node for rule at depth, symbol-tagged (the
// grammar non-terminal it represents, "" if anonymous), and eagerly
// resolves it if it is not a decision: Terminal nodes need nothing
// further, Ref nodes gain exactly one child (the referent's effective
// rule), And nodes gain one child per item. Decision nodes (Or, Range)
// are left unexpanded and appended to the open frontier.
func (t *DerivationTree) materialize(rule grammar.Rule, symbol string, depth int, parent int32) int32 {
	idx := t.a.alloc(node{rule: rule, symbol: symbol, depth: depth})

	if grammar.IsDecision(rule) {
		t.open = append(t.open, idx)
		return idx
	}

	switch rr := rule.(type) {
	case *grammar.Terminal:
		t.a.get(idx).expanded = true
	case *grammar.Ref:
		child := t.materialize(t.g.Rule(rr.Name), rr.Name, depth+1, idx)
		t.a.get(idx).children = []int32{child}
		t.a.get(idx).expanded = true
	case *grammar.And:
		children := make([]int32, len(rr.Items))
		for i, item := range rr.Items {
			children[i] = t.materialize(item, "", depth+1, idx)
		}
		t.a.get(idx).children = children
		t.a.get(idx).expanded = true
	case *grammar.Or:
		// single-option Or: NumActions == 1, so IsDecision is false
		// above, but it still resolves to one action and one child.
		t.a.get(idx).action = 1
		child := t.materialize(rr.Options[0], "", depth+1, idx)
		t.a.get(idx).children = []int32{child}
		t.a.get(idx).expanded = true
	case *grammar.Range:
		// single-value Range: likewise not a decision, but still picks
		// its one action so Action() reports it consistently.
		t.a.get(idx).action = 1
		t.a.get(idx).expanded = true
	}

	return idx
}

// Open returns the node references of pending decision nodes, in
// visitation order (oldest pending first).
func (t *DerivationTree) Open() []NodeRef {
	out := make([]NodeRef, len(t.open))
	for i, idx := range t.open {
		out[i] = NodeRef(idx)
	}
	return out
}

// NumOpen is spec.md's `nopen`: the count of unexpanded decision
// nodes. The tree is complete iff NumOpen() == 0.
func (t *DerivationTree) NumOpen() int { return len(t.open) }

// Complete reports whether every decision node has been resolved.
func (t *DerivationTree) Complete() bool { return len(t.open) == 0 }

// Depth returns a node's distance from the root (root = 1).
func (t *DerivationTree) Depth(n NodeRef) int { return t.a.get(int32(n)).depth }

// Rule returns the production governing a node.
func (t *DerivationTree) Rule(n NodeRef) grammar.Rule { return t.a.get(int32(n)).rule }

// Symbol returns the grammar non-terminal a node represents, or "" if
// the node is an anonymous nested rule (e.g. an And that is itself an
// Or's option, never reached through a named Ref).
func (t *DerivationTree) Symbol(n NodeRef) string { return t.a.get(int32(n)).symbol }

// Action returns the 1-based action chosen at a decision node, or 0
// if unresolved.
func (t *DerivationTree) Action(n NodeRef) int { return t.a.get(int32(n)).action }

// Children returns a node's ordered children.
func (t *DerivationTree) Children(n NodeRef) []NodeRef {
	idx := t.a.get(int32(n)).children
	out := make([]NodeRef, len(idx))
	for i, c := range idx {
		out[i] = NodeRef(c)
	}
	return out
}

// SetCmd attaches the external-pretty-printer label to a node.
func (t *DerivationTree) SetCmd(n NodeRef, cmd string) { t.a.get(int32(n)).cmd = cmd }

// Cmd returns a node's pretty-printer label.
func (t *DerivationTree) Cmd(n NodeRef) string { return t.a.get(int32(n)).cmd }

// ExpandNode resolves a non-decision node in place; it is a no-op if
// the node is already expanded (it always is, immediately after
// materialize), kept for API parity with spec.md §4.2.
func (t *DerivationTree) ExpandNode(n NodeRef) {
	nd := t.a.get(int32(n))
	if nd.expanded || grammar.IsDecision(nd.rule) {
		return
	}
	nd.expanded = true
}

// ExpandNodeAction resolves a decision node (Or or Range) by taking
// action (1-based): it records the action, materializes the chosen
// branch's children, and updates the open frontier and action log
// (spec.md §4.2). Returns ErrIncompleteExpansion if action is out of
// range for the node's production.
func (t *DerivationTree) ExpandNodeAction(n NodeRef, action int) error {
	idx := int32(n)
	nd := t.a.get(idx)

	if action < 1 || action > grammar.NumActions(nd.rule) {
		return ErrIncompleteExpansion
	}

	nd.action = action
	nd.expanded = true
	t.removeOpen(idx)
	t.actions = append(t.actions, action)

	switch rr := nd.rule.(type) {
	case *grammar.Or:
		branch := rr.Options[action-1]
		child := t.materialize(branch, "", nd.depth+1, idx)
		t.a.get(idx).children = []int32{child}
	case *grammar.Range:
		// Terminal-like: the chosen integer is the node's value, no children.
	}

	return nil
}

func (t *DerivationTree) removeOpen(idx int32) {
	for i, v := range t.open {
		if v == idx {
			t.open = append(t.open[:i], t.open[i+1:]...)
			return
		}
	}
}

// Actions returns the resolved actions in visitation order (the
// LinearDerivTree view, spec.md §3): every ExpandNodeAction since the
// last Initialize. Graft leaves this log unchanged and ResampleAt
// appends the resampled subtree's actions after the old ones, so after
// either splice the log does not replay to the current tree.
func (t *DerivationTree) Actions() []int {
	return append([]int(nil), t.actions...)
}

// MaxDepth returns the maximum leaf depth in the tree.
func (t *DerivationTree) MaxDepth() int {
	best := 0
	for i := range t.a.nodes {
		nd := &t.a.nodes[i]
		if len(nd.children) == 0 && nd.depth > best {
			best = nd.depth
		}
	}
	return best
}

// Copy deep-copies src into a brand new DerivationTree that shares the
// same grammar handle (spec.md §4.2's `copy(src -> dst)`).
func (src *DerivationTree) Copy() *DerivationTree {
	dst := &DerivationTree{
		g:        src.g,
		a:        src.a.clone(),
		root:     src.root,
		maxsteps: src.maxsteps,
		open:     append([]int32(nil), src.open...),
		actions:  append([]int(nil), src.actions...),
	}
	return dst
}

// RmTree releases every node in the tree. In a managed-memory runtime
// this is a no-op beyond dropping references; exposed so ownership
// stays explicit, per spec.md §4.2.
func (t *DerivationTree) RmTree() {
	t.a.reset()
	t.open = t.open[:0]
	t.actions = t.actions[:0]
	t.root = -1
}

// RmNode releases a single subtree's arena slots. It clears the node's
// children (and so its references) without compacting the slab; the
// orphaned slots stay allocated until the next Graft or successful
// ResampleAt compacts the arena, or RmTree/Initialize resets it.
func (t *DerivationTree) RmNode(n NodeRef) {
	nd := t.a.get(int32(n))
	nd.children = nil
}

// NumNodes returns the number of nodes currently allocated in the tree.
func (t *DerivationTree) NumNodes() int { return len(t.a.nodes) }

// AllNodes returns every node currently allocated, in arena order
// (root first, since materialize always allocates a parent before its
// children).
func (t *DerivationTree) AllNodes() []NodeRef {
	out := make([]NodeRef, len(t.a.nodes))
	for i := range t.a.nodes {
		out[i] = NodeRef(i)
	}
	return out
}

// NodesWithSymbol returns every node representing the named grammar
// non-terminal, used by GP crossover to find a matching graft point in
// the other parent (spec.md §4.5: "collect all nodes in the copy of P2
// with the same rule name").
func (t *DerivationTree) NodesWithSymbol(symbol string) []NodeRef {
	var out []NodeRef
	for i := range t.a.nodes {
		if t.a.nodes[i].symbol == symbol {
			out = append(out, NodeRef(i))
		}
	}
	return out
}

// RandomNode returns a uniformly random node from a complete tree,
// excluding the root when excludeRoot is set (crossover typically
// swaps proper subtrees, not whole individuals).
func (t *DerivationTree) RandomNode(rng *rand.Rand, excludeRoot bool) NodeRef {
	lo := 0
	if excludeRoot {
		lo = 1
	}
	n := len(t.a.nodes)
	if n <= lo {
		return NodeRef(t.root)
	}
	return NodeRef(lo + rng.Intn(n-lo))
}

// Graft replaces the subtree at `at` with a deep copy of src's
// subtree rooted at srcNode, shifting every copied node's depth so the
// graft lands consistently at `at`'s existing position (spec.md §4.5
// crossover: "swap the two subtrees"). `at`'s own arena slot is reused
// for the splice itself, so no parent pointer needs rewiring; src is
// read-only. The subtree `at` previously held is orphaned by the
// splice, so Graft compacts the arena afterward to release it -- which
// renumbers every surviving node, `at` included, so Graft returns
// `at`'s new NodeRef for callers that still need to address it.
func (t *DerivationTree) Graft(at NodeRef, src *DerivationTree, srcNode NodeRef) NodeRef {
	delta := t.a.get(int32(at)).depth - src.a.get(int32(srcNode)).depth
	t.cloneInto(int32(at), src, int32(srcNode), delta)
	remap := t.compact()
	return NodeRef(remap[int32(at)])
}

// cloneInto copies the subtree rooted at srcIdx (in src's arena) into
// dstIdx (in t's arena), recursively allocating fresh children in t
// and shifting every copied node's depth by delta. dstIdx's own slot
// is overwritten in place; its descendants are freshly allocated.
func (t *DerivationTree) cloneInto(dstIdx int32, src *DerivationTree, srcIdx int32, delta int) {
	s := src.a.get(srcIdx)

	children := make([]int32, len(s.children))
	for i, c := range s.children {
		childIdx := t.a.alloc(node{})
		t.cloneInto(childIdx, src, c, delta)
		children[i] = childIdx
	}

	*t.a.get(dstIdx) = node{
		rule:     s.rule,
		symbol:   s.symbol,
		cmd:      s.cmd,
		depth:    s.depth + delta,
		action:   s.action,
		expanded: s.expanded,
		children: children,
	}
}

// compact rebuilds the arena keeping only nodes reachable from root,
// in preorder, discarding whatever a splice (Graft, ResampleAt) left
// orphaned, and returns the old->new index remap it applied. Without
// this, AllNodes/RandomNode/NodesWithSymbol would keep surfacing dead
// nodes from every prior generation's discarded subtrees, and a
// repeatedly-bred lineage would accumulate them indefinitely -- the
// arena's "reset is a slab reset" design (spec.md §9) only holds
// per-splice if every splice compacts in turn.
func (t *DerivationTree) compact() map[int32]int32 {
	if t.root < 0 {
		return nil
	}

	out := &arena{nodes: make([]node, 0, len(t.a.nodes))}
	remap := make(map[int32]int32, len(t.a.nodes))

	var walk func(old int32) int32
	walk = func(old int32) int32 {
		newIdx := int32(len(out.nodes))
		out.nodes = append(out.nodes, *t.a.get(old))
		remap[old] = newIdx

		children := make([]int32, len(out.nodes[newIdx].children))
		for i, c := range out.nodes[newIdx].children {
			children[i] = walk(c)
		}
		out.nodes[newIdx].children = children
		return newIdx
	}

	newRoot := walk(t.root)

	newOpen := make([]int32, 0, len(t.open))
	for _, idx := range t.open {
		if mapped, ok := remap[idx]; ok {
			newOpen = append(newOpen, mapped)
		}
	}

	t.a = out
	t.root = newRoot
	t.open = newOpen
	return remap
}
