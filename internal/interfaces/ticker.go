package interfaces

import (
	"context"

	"signal-scanner/internal/types"
)

type TickerManager interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context)
	Subscribe(ctx context.Context, symbols []string) error
	GetRecentCandles(symbol string, n int) ([]types.Candle, error)
	LastPrice(symbol string) (float64, bool)
	LatestQuote(symbol string) (types.Quote, bool)
}
