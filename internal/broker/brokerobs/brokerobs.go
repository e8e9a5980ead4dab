package brokerobs

import (
	"context"
	"fmt"

	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/logger"
	"signal-scanner/internal/trace"
	"signal-scanner/internal/types"
)

// observableMarketData wraps a MarketData source with observability (logging & tracing)
type observableMarketData struct {
	md interfaces.MarketData
}

// Compile-time interface check
var _ interfaces.MarketData = (*observableMarketData)(nil)

// Wrap wraps a market data source with observability middleware
func Wrap(md interfaces.MarketData) interfaces.MarketData {
	return &observableMarketData{
		md: md,
	}
}

// BatchQuotes fetches quotes for a symbol batch with observability
func (om *observableMarketData) BatchQuotes(ctx context.Context, symbols []string) (map[string]types.Quote, error) {
	ctx, span := trace.StartSpan(ctx, "broker.BatchQuotes")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching quote batch", "count", len(symbols))

	quotes, err := om.md.BatchQuotes(ctx, symbols)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch quote batch", err, "count", len(symbols))
		return nil, err
	}

	if len(quotes) < len(symbols) {
		logger.InfoSkip(ctx, 1, "Quote batch partially filled",
			"requested", len(symbols),
			"received", len(quotes),
		)
	} else {
		logger.DebugSkip(ctx, 1, "Quote batch fetched successfully", "count", len(quotes))
	}
	return quotes, nil
}

// LTP returns the last traded price with observability
func (om *observableMarketData) LTP(ctx context.Context, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "broker.LTP")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching LTP", "symbol", symbol)

	price, err := om.md.LTP(ctx, symbol)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch LTP", err, "symbol", symbol)
		return 0, err
	}

	logger.DebugSkip(ctx, 1, "LTP fetched successfully", "symbol", symbol, "price", price)
	return price, nil
}

// RecentCandles fetches candles with observability
func (om *observableMarketData) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	ctx, span := trace.StartSpan(ctx, "broker.RecentCandles")
	defer span.End()

	logger.DebugSkip(ctx, 1, "Fetching recent candles", "symbol", symbol, "count", n)

	candles, err := om.md.RecentCandles(ctx, symbol, n)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to fetch candles", err, "symbol", symbol, "count", n)
		return nil, err
	}

	logger.DebugSkip(ctx, 1, "Candles fetched successfully", "symbol", symbol, "count", len(candles))
	return candles, nil
}

// Start initializes the data source with observability
func (om *observableMarketData) Start(ctx context.Context, symbols []string) error {
	ctx, span := trace.StartSpan(ctx, "broker.Start")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Starting market data source", "symbols", symbols, "count", len(symbols))

	err := om.md.Start(ctx, symbols)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "Failed to start market data source", err, "symbols", symbols)
		return fmt.Errorf("market data start failed: %w", err)
	}

	logger.InfoSkip(ctx, 1, "Market data source started successfully", "symbols", symbols)
	return nil
}

// Stop shuts down the data source with observability
func (om *observableMarketData) Stop(ctx context.Context) {
	ctx, span := trace.StartSpan(ctx, "broker.Stop")
	defer span.End()

	logger.InfoSkip(ctx, 1, "Stopping market data source")
	om.md.Stop(ctx)
	logger.InfoSkip(ctx, 1, "Market data source stopped successfully")
}
