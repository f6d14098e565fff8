package search

import (
	"context"
	"sync/atomic"
	"time"
)

// Limiter is the cooperative stop/budget check every driver's main
// loop polls once per iteration, grounded on the teacher's
// mcts.Limiter/_Timer pair but generalized from game-tree node/depth
// counters to this module's iteration/eval/time budget.
type Limiter struct {
	ctx       context.Context
	start     time.Time
	movetime  time.Duration // <=0 means unset
	maxEvals  int           // <=0 means unset
	stop      atomic.Bool
}

// NewLimiter creates a Limiter with no time or eval bound set; Ok
// never returns false until SetStop, a movetime, or a max-eval bound is
// configured and reached, or ctx is canceled.
func NewLimiter() *Limiter {
	return &Limiter{ctx: context.Background()}
}

// SetContext attaches a context whose cancellation is polled on every Ok call.
func (l *Limiter) SetContext(ctx context.Context) { l.ctx = ctx }

// SetMovetime bounds the run by wall-clock duration; d <= 0 clears the bound.
func (l *Limiter) SetMovetime(d time.Duration) { l.movetime = d }

// SetMaxEvals bounds the run by evaluation count; n <= 0 clears the bound.
func (l *Limiter) SetMaxEvals(n int) { l.maxEvals = n }

// clock is a small seam so tests can stub elapsed-time reporting
// without sleeping; Limiter calls it instead of time.Now()/time.Since()
// directly.
var clock = time.Now

// Reset starts the clock; call once before a driver's main loop begins.
func (l *Limiter) Reset() {
	l.start = clock()
	l.stop.Store(false)
}

// SetStop requests the search end at the next Ok check.
func (l *Limiter) SetStop(v bool) { l.stop.Store(v) }

// Elapsed returns time since the last Reset.
func (l *Limiter) Elapsed() time.Duration { return clock().Sub(l.start) }

// Ok reports whether the search should continue, given evalsSoFar
// evaluations completed. It also absorbs context cancellation into the
// stop flag so a single atomic load covers every stop path after the
// first Ok call following cancellation.
func (l *Limiter) Ok(evalsSoFar int) bool {
	select {
	case <-l.ctx.Done():
		l.stop.Store(true)
	default:
	}

	if l.stop.Load() {
		return false
	}
	if l.movetime > 0 && l.Elapsed() >= l.movetime {
		return false
	}
	if l.maxEvals > 0 && evalsSoFar >= l.maxEvals {
		return false
	}
	return true
}

// Reason classifies why Ok most recently (or would currently) return
// false, for Result.StopReason reporting.
func (l *Limiter) Reason(evalsSoFar int) StopReason {
	select {
	case <-l.ctx.Done():
		return StopContextCanceled
	default:
	}
	if l.stop.Load() {
		return StopContextCanceled
	}
	return StopBudgetExhausted
}
