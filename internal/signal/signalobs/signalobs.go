package signalobs

import (
	"context"
	"time"

	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/logger"
	"signal-scanner/internal/trace"
	"signal-scanner/internal/types"
)

type observableEvaluator struct {
	inner interfaces.Evaluator
}

var _ interfaces.Evaluator = (*observableEvaluator)(nil)

func Wrap(ev interfaces.Evaluator) interfaces.Evaluator {
	return &observableEvaluator{inner: ev}
}

func (oe *observableEvaluator) Evaluate(ctx context.Context, snap types.MarketSnapshot, safety types.SafetyContext) types.SignalVerdict {
	ctx, span := trace.StartSpan(ctx, "signal.Evaluate")
	defer span.End()

	start := time.Now()
	verdict := oe.inner.Evaluate(ctx, snap, safety)

	logger.InfoSkip(ctx, 1, "Evaluation completed",
		"symbol", snap.Symbol,
		"signal", string(verdict.Signal),
		"confidence", string(verdict.Confidence),
		"bull_score", verdict.BullScore,
		"bear_score", verdict.BearScore,
		"vetoed", verdict.Vetoed,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return verdict
}
