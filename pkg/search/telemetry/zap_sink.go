// Package telemetry adapts pkg/search.Sink onto structured logging, so
// a driver's progress reaches the same observability stack as the rest
// of an operator's Go services instead of writing to stdout directly.
package telemetry

import (
	"go.uber.org/zap"

	"github.com/exprsearch/go-exprsearch/pkg/search"
)

// ZapSink implements search.Sink by turning every event into one
// structured log line on an injected *zap.Logger. It never formats for
// a terminal or buffers; that is the logger's job, not this adapter's.
type ZapSink struct {
	log *zap.Logger
}

// NewZapSink wraps log, or zap.NewNop() if log is nil.
func NewZapSink(log *zap.Logger) *ZapSink {
	if log == nil {
		log = zap.NewNop()
	}
	return &ZapSink{log: log}
}

var _ search.Sink = (*ZapSink)(nil)

func (s *ZapSink) Verbose1(msg string) {
	s.log.Debug("search.verbose", zap.String("msg", msg))
}

func (s *ZapSink) Iteration(n int) {
	s.log.Debug("search.iteration", zap.Int("n", n))
}

func (s *ZapSink) ElapsedCPUSeconds(sec float64) {
	s.log.Info("search.elapsed_cpu_s", zap.Float64("seconds", sec))
}

func (s *ZapSink) CurrentBest(fitness float64, foundAt int) {
	s.log.Info("search.current_best", zap.Float64("fitness", fitness), zap.Int("found_at", foundAt))
}

func (s *ZapSink) Fitness(fitness float64) {
	s.log.Debug("search.fitness", zap.Float64("fitness", fitness))
}

func (s *ZapSink) Code(expr string) {
	s.log.Debug("search.code", zap.String("expr", expr))
}

func (s *ZapSink) Population(gen int, fitnesses []float64) {
	s.log.Info("search.population", zap.Int("generation", gen), zap.Int("size", len(fitnesses)))
}

func (s *ZapSink) Result(r search.Result) {
	s.log.Info("search.result",
		zap.String("best_expr", r.BestExpr),
		zap.Float64("best_fitness", r.BestFitness),
		zap.Int("best_at_eval", r.BestAtEval),
		zap.Int("total_evals", r.TotalEvals),
		zap.String("stop_reason", r.StopReason.String()),
		zap.Int64("elapsed_ms", r.ElapsedMs),
	)
}

func (s *ZapSink) ComputeInfo(evalsUsed, evalsTotal int) {
	s.log.Debug("search.computeinfo", zap.Int("evals_used", evalsUsed), zap.Int("evals_total", evalsTotal))
}

func (s *ZapSink) Parameters(desc string) {
	s.log.Info("search.parameters", zap.String("params", desc))
}

func (s *ZapSink) MCTSTree(desc string) {
	s.log.Debug("search.mcts_tree", zap.String("tree", desc))
}
