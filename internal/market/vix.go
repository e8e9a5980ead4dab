package market

import (
	"context"
	"fmt"

	"signal-scanner/internal/interfaces"
)

// vixSymbol is the index quoted by the exchange for implied volatility.
const vixSymbol = "INDIA VIX"

// StaticVIX serves a fixed volatility reading, used in DRY_RUN setups and
// whenever no live source is configured.
type StaticVIX struct {
	level float64
}

var _ interfaces.VolatilityIndexProvider = (*StaticVIX)(nil)

func NewStaticVIX(level float64) *StaticVIX {
	return &StaticVIX{level: level}
}

func (s *StaticVIX) Current(ctx context.Context) (float64, error) {
	return s.level, nil
}

// LiveVIX reads the volatility index off the market data feed.
type LiveVIX struct {
	md interfaces.MarketData
}

var _ interfaces.VolatilityIndexProvider = (*LiveVIX)(nil)

func NewLiveVIX(md interfaces.MarketData) *LiveVIX {
	return &LiveVIX{md: md}
}

func (l *LiveVIX) Current(ctx context.Context) (float64, error) {
	level, err := l.md.LTP(ctx, vixSymbol)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch volatility index: %w", err)
	}
	return level, nil
}

// NewVIXProvider picks the provider matching the configured source.
func NewVIXProvider(source string, staticLevel float64, md interfaces.MarketData) interfaces.VolatilityIndexProvider {
	if source == "LIVE" && md != nil {
		return NewLiveVIX(md)
	}
	return NewStaticVIX(staticLevel)
}
