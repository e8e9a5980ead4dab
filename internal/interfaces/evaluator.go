package interfaces

import (
	"context"

	"signal-scanner/internal/types"
)

// Evaluator turns one market snapshot into a signal verdict. Implementations
// must be pure with respect to the snapshot: no shared mutable state, safe
// for concurrent use across instruments.
type Evaluator interface {
	Evaluate(ctx context.Context, snap types.MarketSnapshot, safety types.SafetyContext) types.SignalVerdict
}
