package interfaces

import (
	"context"
	"time"

	"signal-scanner/internal/types"
)

// ContextScanner is an optional auxiliary signal source. Implementations
// that cannot produce a verdict return a neutral no-hit AuxVerdict; they
// never fail the pipeline.
type ContextScanner interface {
	Name() string
	Scan(snap types.MarketSnapshot) types.AuxVerdict
}

// VolatilityIndexProvider supplies the current volatility index reading.
type VolatilityIndexProvider interface {
	Current(ctx context.Context) (float64, error)
}

// EventCalendar answers market-calendar questions used by the safety
// overlay. Lookups degrade to false on upstream failure.
type EventCalendar interface {
	IsResultDay(ctx context.Context, symbol string, day time.Time) bool
	IsExpiryDay(day time.Time) bool
}

// SignalSummarizer writes end-of-day summaries of emitted signals.
type SignalSummarizer interface {
	SummarizeDay(t time.Time) (csvPath string, err error)
	SummarizeToday() (csvPath string, err error)
	ShouldRunNow() (shouldRun bool, csvPath string)
}
