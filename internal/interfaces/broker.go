package interfaces

import (
	"context"

	"signal-scanner/internal/types"
)

// MarketData is the broker-side market data surface consumed by the scan
// orchestrator. Order placement is deliberately absent; this system only
// observes the market.
type MarketData interface {
	// BatchQuotes fetches quotes for the given symbols in one call.
	// Per-symbol failures are reported by omission; a nil error with a
	// partial map is a normal outcome.
	BatchQuotes(ctx context.Context, symbols []string) (map[string]types.Quote, error)
	LTP(ctx context.Context, symbol string) (float64, error)
	RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error)
	Start(ctx context.Context, symbols []string) error
	Stop(ctx context.Context)
}
