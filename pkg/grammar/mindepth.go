package grammar

import "github.com/cockroachdb/errors"

// maxDepth stands in for "infinite" / "not yet known" during the
// min-depth fixpoint below. It is large enough that no legal
// target_depth comparison (§4.3) will ever mistake it for reachable.
const maxDepth = int(^uint(0) >> 1) // math.MaxInt, without importing math here

// fixpointMinDepth computes, for every non-terminal, the minimum tree
// depth needed to complete a subtree rooted there (spec.md §4.1):
// Terminal/Range base case is depth 1; And is 1+max(children); Or is
// 1+min(children); Ref is 1+its referent's depth. The computation
// iterates to a fixpoint rather than recursing, so that a grammar with
// only cyclic references (no terminal escape) is detected instead of
// overflowing the stack: such non-terminals simply never drop below
// maxDepth and the loop reports ErrUnproductiveGrammar once it can no
// longer make progress.
func fixpointMinDepth(g *Grammar) (map[string]int, error) {
	depth := make(map[string]int, len(g.NonTerminal))
	for name := range g.NonTerminal {
		depth[name] = maxDepth
	}

	for {
		changed := false
		for name, nt := range g.NonTerminal {
			candidate := ruleDepth(nt.EffectiveRule(), depth)
			if candidate < depth[name] {
				depth[name] = candidate
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for name, d := range depth {
		if d >= maxDepth {
			return nil, errors.Wrapf(ErrUnproductiveGrammar, "non-terminal %q never reaches a terminal", name)
		}
	}

	return depth, nil
}

// ruleDepth computes the candidate min depth of a single rule node,
// given the current (possibly still-converging) depth table.
func ruleDepth(r Rule, depth map[string]int) int {
	switch rr := r.(type) {
	case *Terminal:
		return 1
	case *Range:
		return 1
	case *Ref:
		d, ok := depth[rr.Name]
		if !ok || d >= maxDepth {
			return maxDepth
		}
		return 1 + d
	case *And:
		worst := 0
		for _, item := range rr.Items {
			d := ruleDepth(item, depth)
			if d >= maxDepth {
				return maxDepth
			}
			if d > worst {
				worst = d
			}
		}
		return 1 + worst
	case *Or:
		best := maxDepth
		for _, opt := range rr.Options {
			d := ruleDepth(opt, depth)
			if d < best {
				best = d
			}
		}
		if best >= maxDepth {
			return maxDepth
		}
		return 1 + best
	default:
		return maxDepth
	}
}

// deriveMinDepthByAction derives min_depth_action[rule][action] from
// the converged per-non-terminal table (spec.md §4.1): for every
// decision rule (Or, Range) reachable in the grammar, record the
// min depth incurred by taking each of its actions.
func deriveMinDepthByAction(g *Grammar, depth map[string]int) map[Rule][]int {
	table := make(map[Rule][]int)
	seen := make(map[Rule]bool)

	var walk func(r Rule)
	walk = func(r Rule) {
		if r == nil || seen[r] {
			return
		}
		seen[r] = true

		switch rr := r.(type) {
		case *Or:
			actions := make([]int, len(rr.Options))
			for i, opt := range rr.Options {
				actions[i] = 1 + ruleDepth(opt, depth)
				walk(opt)
			}
			table[r] = actions
		case *Range:
			n := rr.High - rr.Low + 1
			actions := make([]int, n)
			for i := range actions {
				actions[i] = 1 // range actions are always terminal-depth
			}
			table[r] = actions
		case *And:
			for _, item := range rr.Items {
				walk(item)
			}
		}
		// Terminal and Ref are never decisions and have no children to
		// walk into beyond what the referent's own non-terminal entry
		// already covers.
	}

	for _, nt := range g.NonTerminal {
		walk(nt.EffectiveRule())
	}

	return table
}
