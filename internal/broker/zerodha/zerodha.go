package zerodha

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"time"

	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/types"
)

type Params struct {
	Mode        string
	APIKey      string
	AccessToken string
	Exchange    string
	DataSource  string
}

// Zerodha provides market data via Kite Connect. In STATIC mode it serves
// synthetic quotes and candles so the full pipeline can run without
// credentials or a market session.
type Zerodha struct {
	p            Params
	tickerMgr    interfaces.TickerManager
	isTickerInit bool
}

var _ interfaces.MarketData = (*Zerodha)(nil)

func NewZerodha(p Params) *Zerodha {
	z := &Zerodha{p: p}

	if p.DataSource == "LIVE" {
		z.tickerMgr = newTickerManager(p.APIKey, p.AccessToken, p.Exchange)
	}

	return z
}

func (z *Zerodha) BatchQuotes(ctx context.Context, symbols []string) (map[string]types.Quote, error) {
	quotes := make(map[string]types.Quote, len(symbols))

	if z.p.DataSource == "LIVE" && z.tickerMgr != nil {
		for _, symbol := range symbols {
			q, ok := z.tickerMgr.LatestQuote(symbol)
			if !ok {
				continue // no tick yet, report by omission
			}
			quotes[symbol] = q
		}
		return quotes, nil
	}

	for _, symbol := range symbols {
		quotes[symbol] = z.staticQuote(symbol)
	}
	return quotes, nil
}

func (z *Zerodha) LTP(ctx context.Context, symbol string) (float64, error) {
	if z.p.DataSource == "LIVE" && z.tickerMgr != nil {
		if price, ok := z.tickerMgr.LastPrice(symbol); ok {
			return price, nil
		}
		return 0, fmt.Errorf("no tick received yet for %s", symbol)
	}

	return basePrice(symbol) + rand.Float64()*10, nil
}

func (z *Zerodha) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	if z.p.DataSource == "LIVE" {
		return z.fetchLiveCandles(ctx, symbol, n)
	}

	return z.fetchStaticCandles(ctx, symbol, n)
}

func (z *Zerodha) fetchStaticCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	cs := make([]types.Candle, 0, n)
	base := basePrice(symbol)
	now := time.Now().Unix()

	for i := 1; i <= n; i++ {
		c := base + float64(i)*0.4 + (rand.Float64()-0.5)*base*0.004
		o := c - base*0.0005
		h := c + rand.Float64()*base*0.002
		l := c - rand.Float64()*base*0.002
		if l > o {
			l = o
		}
		cs = append(cs, types.Candle{
			Ts:    now - int64((n-i)*60),
			Open:  o,
			High:  h,
			Low:   l,
			Close: c,
			Vol:   50000 + rand.Float64()*150000,
		})
	}

	return cs, nil
}

func (z *Zerodha) fetchLiveCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	if z.tickerMgr == nil {
		return z.fetchStaticCandles(ctx, symbol, n)
	}

	candles, err := z.tickerMgr.GetRecentCandles(symbol, n)
	if err != nil {
		return z.fetchStaticCandles(ctx, symbol, n)
	}

	return candles, nil
}

// staticQuote fabricates a plausible intraday quote around the symbol's
// base price. Fields the builder can derive from candles are left zero.
func (z *Zerodha) staticQuote(symbol string) types.Quote {
	base := basePrice(symbol)
	open := base * (1 + (rand.Float64()-0.5)*0.01)
	close := open * (1 + (rand.Float64()-0.5)*0.02)
	high := close * (1 + rand.Float64()*0.005)
	low := open * (1 - rand.Float64()*0.005)
	if open > high {
		high = open
	}
	if close < low {
		low = close
	}

	return types.Quote{
		Symbol:    symbol,
		Ts:        time.Now().Unix(),
		Open:      open,
		High:      high,
		Low:       low,
		Close:     close,
		PrevClose: base,
		Volume:    500000 + rand.Float64()*2000000,
	}
}

// basePrice derives a stable per-symbol anchor so synthetic series do not
// all cluster around the same level.
func basePrice(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return 500 + float64(h.Sum32()%2500)
}

func (z *Zerodha) Start(ctx context.Context, symbols []string) error {
	if z.tickerMgr == nil {
		return nil // Not in live mode, nothing to start
	}

	if z.isTickerInit {
		return nil // Already started
	}

	if err := z.tickerMgr.Start(ctx); err != nil {
		return fmt.Errorf("failed to start ticker manager: %w", err)
	}

	time.Sleep(connectionWaitTime)

	if err := z.tickerMgr.Subscribe(ctx, symbols); err != nil {
		return fmt.Errorf("failed to subscribe to symbols: %w", err)
	}

	z.isTickerInit = true
	return nil
}

func (z *Zerodha) Stop(ctx context.Context) {
	if z.tickerMgr != nil {
		z.tickerMgr.Stop(ctx)
	}
	z.isTickerInit = false
}
