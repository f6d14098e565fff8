package dtree

import "github.com/cockroachdb/errors"

// ErrIncompleteExpansion is raised when a decision node has no legal
// action under the remaining depth budget (spec.md §4.3 step 3).
// Recovered locally: callers retry with a fresh tree or at a fresh
// mutation point.
var ErrIncompleteExpansion = errors.New("dtree: no legal action under remaining depth budget")

// ErrSamplingExhausted is raised when RandWithRetry exhausts its retry
// budget without completing a tree. Typically fatal for the current
// iteration.
var ErrSamplingExhausted = errors.New("dtree: exhausted retries sampling a complete tree")
