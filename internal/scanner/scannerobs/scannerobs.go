package scannerobs

import (
	"context"
	"time"

	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/logger"
	"signal-scanner/internal/trace"
	"signal-scanner/internal/types"
)

type observableOrchestrator struct {
	inner interfaces.Orchestrator
}

var _ interfaces.Orchestrator = (*observableOrchestrator)(nil)

func Wrap(orch interfaces.Orchestrator) interfaces.Orchestrator {
	return &observableOrchestrator{inner: orch}
}

func (oo *observableOrchestrator) Start(ctx context.Context) types.StartStatus {
	ctx, span := trace.StartSpan(ctx, "scanner.Start")
	defer span.End()

	status := oo.inner.Start(ctx)
	logger.InfoSkip(ctx, 1, "Scan start requested",
		"started", status.Started,
		"state", string(status.State),
		"message", status.Message,
	)
	return status
}

func (oo *observableOrchestrator) Stop(ctx context.Context) {
	ctx, span := trace.StartSpan(ctx, "scanner.Stop")
	defer span.End()
	oo.inner.Stop(ctx)
}

func (oo *observableOrchestrator) Status() types.ScanState {
	return oo.inner.Status()
}

func (oo *observableOrchestrator) RunCycle(ctx context.Context) (*types.ScanResult, error) {
	ctx, span := trace.StartSpan(ctx, "scanner.RunCycle")
	defer span.End()

	start := time.Now()
	result, err := oo.inner.RunCycle(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Scan cycle failed", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		return nil, err
	}

	logger.InfoSkip(ctx, 1, "Scan cycle finished",
		"scanned", result.Scanned,
		"signals", len(result.Signals),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (oo *observableOrchestrator) CachedResult() *types.ScanResult {
	return oo.inner.CachedResult()
}
