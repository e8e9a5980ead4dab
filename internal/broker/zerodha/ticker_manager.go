package zerodha

import (
	"context"
	"fmt"
	"sync"
	"time"

	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/logger"
	"signal-scanner/internal/types"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"
	"github.com/zerodha/gokiteconnect/v4/models"
	kiteticker "github.com/zerodha/gokiteconnect/v4/ticker"
)

const connectionWaitTime = 2 * time.Second

// tickerManager maintains the Kite WebSocket connection and the tick-fed
// quote and candle caches the data layer reads from.
type tickerManager struct {
	kc          *kiteconnect.Client
	ticker      *kiteticker.Ticker
	apiKey      string
	accessToken string
	exchange    string

	candles     *candleCache
	instruments *instrumentMapper

	quotesMu sync.RWMutex
	quotes   map[string]types.Quote
}

var _ interfaces.TickerManager = (*tickerManager)(nil)

func newTickerManager(apiKey, accessToken, exchange string) *tickerManager {
	return &tickerManager{
		apiKey:      apiKey,
		accessToken: accessToken,
		exchange:    exchange,
		candles:     newCandleCache(),
		instruments: newInstrumentMapper(),
		quotes:      make(map[string]types.Quote),
	}
}

func (tm *tickerManager) Start(ctx context.Context) error {
	tm.kc = kiteconnect.New(tm.apiKey)
	tm.kc.SetAccessToken(tm.accessToken)

	tm.ticker = kiteticker.New(tm.apiKey, tm.accessToken)

	tm.ticker.OnConnect(tm.onConnect)
	tm.ticker.OnError(tm.onError)
	tm.ticker.OnClose(tm.onClose)
	tm.ticker.OnReconnect(tm.onReconnect)
	tm.ticker.OnNoReconnect(tm.onNoReconnect)
	tm.ticker.OnTick(tm.onTick)

	go func() {
		logger.Info(ctx, "Starting Zerodha WebSocket ticker")
		tm.ticker.Serve()
	}()

	return nil
}

func (tm *tickerManager) Stop(ctx context.Context) {
	if tm.ticker != nil {
		logger.Info(ctx, "Stopping Zerodha WebSocket ticker")
		tm.ticker.Stop()
	}
}

func (tm *tickerManager) Subscribe(ctx context.Context, symbols []string) error {
	tokens := make([]uint32, 0, len(symbols))

	for _, symbol := range symbols {
		tokens = append(tokens, tm.instruments.register(symbol))
		tm.candles.ensure(symbol)
	}

	if err := tm.ticker.Subscribe(tokens); err != nil {
		return fmt.Errorf("failed to subscribe to symbols: %w", err)
	}

	// FULL mode so ticks carry OHLC and volume alongside the last price.
	if err := tm.ticker.SetMode(kiteticker.ModeFull, tokens); err != nil {
		return fmt.Errorf("failed to set ticker mode: %w", err)
	}

	logger.Info(ctx, "Subscribed to symbols for live data", "symbols", symbols, "count", len(symbols))
	return nil
}

func (tm *tickerManager) GetRecentCandles(symbol string, n int) ([]types.Candle, error) {
	return tm.candles.recent(symbol, n)
}

func (tm *tickerManager) LastPrice(symbol string) (float64, bool) {
	tm.quotesMu.RLock()
	defer tm.quotesMu.RUnlock()

	q, ok := tm.quotes[symbol]
	if !ok {
		return 0, false
	}
	return q.Close, true
}

func (tm *tickerManager) LatestQuote(symbol string) (types.Quote, bool) {
	tm.quotesMu.RLock()
	defer tm.quotesMu.RUnlock()

	q, ok := tm.quotes[symbol]
	return q, ok
}

// Event handlers

func (tm *tickerManager) onConnect() {
	logger.Info(context.Background(), "WebSocket connected")
}

func (tm *tickerManager) onError(err error) {
	logger.ErrorWithErr(context.Background(), "WebSocket error", err)
}

func (tm *tickerManager) onClose(code int, reason string) {
	logger.Warn(context.Background(), "WebSocket closed", "code", code, "reason", reason)
}

func (tm *tickerManager) onReconnect(attempt int, delay time.Duration) {
	logger.Info(context.Background(), "WebSocket reconnecting", "attempt", attempt, "delay", delay)
}

func (tm *tickerManager) onNoReconnect(attempt int) {
	logger.Warn(context.Background(), "WebSocket reconnection failed", "attempt", attempt)
}

func (tm *tickerManager) onTick(tick models.Tick) {
	symbol, ok := tm.instruments.symbol(tick.InstrumentToken)
	if !ok {
		return
	}

	// TODO: Aggregate ticks into 1-minute candles instead of one candle
	// point per tick.
	candle := types.Candle{
		Ts:    tick.Timestamp.Time.Unix(),
		Open:  tick.OHLC.Open,
		High:  tick.OHLC.High,
		Low:   tick.OHLC.Low,
		Close: tick.LastPrice,
		Vol:   float64(tick.VolumeTraded),
	}
	tm.candles.add(symbol, candle)

	// In FULL mode OHLC.Close carries the previous session close.
	quote := types.Quote{
		Symbol:    symbol,
		Ts:        tick.Timestamp.Time.Unix(),
		Open:      tick.OHLC.Open,
		High:      tick.OHLC.High,
		Low:       tick.OHLC.Low,
		Close:     tick.LastPrice,
		PrevClose: tick.OHLC.Close,
		Volume:    float64(tick.VolumeTraded),
		VWAP:      tick.AverageTradePrice,
	}

	tm.quotesMu.Lock()
	tm.quotes[symbol] = quote
	tm.quotesMu.Unlock()
}
