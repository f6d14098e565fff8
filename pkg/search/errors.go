package search

import "github.com/cockroachdb/errors"

// ErrRuleNotFound is raised by GP crossover when no node in the second
// parent shares a symbol with the chosen crossover point in the first
// (spec.md §4.5): GP's Run then falls back to copies of both parents
// rather than treating this as fatal.
var ErrRuleNotFound = errors.New("search: no matching rule symbol found for crossover")

// ErrDepthExceeded is raised by GP crossover when a grafted subtree
// would push a child's max depth past its configured bound.
var ErrDepthExceeded = errors.New("search: operation would exceed the configured max depth")

// ErrEvaluationFailed wraps a Problem.Fitness panic or invalid score
// (NaN/Inf) so GP can score the individual +Inf with its default
// expression instead of corrupting its best-so-far tracking.
var ErrEvaluationFailed = errors.New("search: fitness evaluation failed")
