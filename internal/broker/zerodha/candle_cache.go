package zerodha

import (
	"fmt"
	"sync"

	"signal-scanner/internal/types"
)

const maxCandlesPerSymbol = 200

// candleCache keeps a bounded per-symbol history of tick-derived candles.
type candleCache struct {
	mu      sync.RWMutex
	buffers map[string]*candleBuffer
}

type candleBuffer struct {
	candles []types.Candle
	maxSize int
}

func newCandleCache() *candleCache {
	return &candleCache{buffers: make(map[string]*candleBuffer)}
}

// ensure registers a symbol so later ticks for it are retained.
func (c *candleCache) ensure(symbol string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.buffers[symbol]; !exists {
		c.buffers[symbol] = &candleBuffer{
			candles: make([]types.Candle, 0, maxCandlesPerSymbol),
			maxSize: maxCandlesPerSymbol,
		}
	}
}

func (c *candleCache) add(symbol string, candle types.Candle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	buffer, exists := c.buffers[symbol]
	if !exists {
		return
	}

	buffer.candles = append(buffer.candles, candle)
	if len(buffer.candles) > buffer.maxSize {
		buffer.candles = buffer.candles[1:]
	}
}

func (c *candleCache) recent(symbol string, n int) ([]types.Candle, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	buffer, exists := c.buffers[symbol]
	if !exists {
		return nil, fmt.Errorf("no candle data for symbol %s", symbol)
	}

	candles := buffer.candles
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles available for %s", symbol)
	}

	if len(candles) < n {
		out := make([]types.Candle, len(candles))
		copy(out, candles)
		return out, nil
	}

	out := make([]types.Candle, n)
	copy(out, candles[len(candles)-n:])
	return out, nil
}
