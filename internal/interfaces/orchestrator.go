package interfaces

import (
	"context"

	"signal-scanner/internal/types"
)

// Orchestrator owns the singleton scan lifecycle. Start while a cycle chain
// is active is rejected with a StartStatus, not an error.
type Orchestrator interface {
	Start(ctx context.Context) types.StartStatus
	Stop(ctx context.Context)
	Status() types.ScanState
	RunCycle(ctx context.Context) (*types.ScanResult, error)
	CachedResult() *types.ScanResult
}
