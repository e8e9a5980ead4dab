package indicator

import (
	"signal-scanner/internal/ta"
	"signal-scanner/internal/types"
)

// Periods configures the indicator windows used when building snapshots.
type Periods struct {
	EMAFast   int
	EMASlow   int
	RSIPeriod int
	ATRPeriod int
	RangeBars int
}

// DefaultPeriods match the standard intraday setup.
func DefaultPeriods() Periods {
	return Periods{EMAFast: 20, EMASlow: 50, RSIPeriod: 14, ATRPeriod: 14, RangeBars: 20}
}

// Builder derives MarketSnapshots from raw quote and candle data. It holds
// no mutable state and is safe for concurrent use.
type Builder struct {
	periods Periods
}

func NewBuilder(p Periods) *Builder {
	if p.EMAFast <= 0 {
		p = DefaultPeriods()
	}
	return &Builder{periods: p}
}

// Build assembles a snapshot for one instrument. Indicators that cannot be
// computed from the available history come out as Absent; the classifiers
// decide whether they can proceed.
func (b *Builder) Build(q types.Quote, candles []types.Candle, vix float64) types.MarketSnapshot {
	snap := types.MarketSnapshot{
		Symbol:    q.Symbol,
		Ts:        q.Ts,
		Open:      q.Open,
		High:      q.High,
		Low:       q.Low,
		Close:     q.Close,
		PrevClose: q.PrevClose,
		PrevHigh:  q.PrevHigh,
		PrevLow:   q.PrevLow,
		Volume:    q.Volume,
		AvgVolume: q.AvgVolume,
		VWAP:      q.VWAP,

		VolatilityIndex: vix,

		OIChangePct:    types.Absent,
		PutCallRatio:   types.Absent,
		AdvanceDecline: types.Absent,
	}

	closes := make([]float64, len(candles))
	highs := make([]float64, len(candles))
	lows := make([]float64, len(candles))
	vols := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
		highs[i] = c.High
		lows[i] = c.Low
		vols[i] = c.Vol
	}

	snap.EMA20 = ta.EMA(closes, b.periods.EMAFast)
	snap.EMA50 = ta.EMA(closes, b.periods.EMASlow)
	snap.RSI = ta.RSI(closes, b.periods.RSIPeriod)
	snap.ATR = ta.ATR(highs, lows, closes, b.periods.ATRPeriod)

	// The rolling range excludes the current bar so a close beyond it is a
	// genuine breakout.
	if len(highs) > 1 {
		snap.RangeHigh = ta.HighestHigh(highs[:len(highs)-1], b.periods.RangeBars)
		snap.RangeLow = ta.LowestLow(lows[:len(lows)-1], b.periods.RangeBars)
	} else {
		snap.RangeHigh = types.Absent
		snap.RangeLow = types.Absent
	}

	if types.IsAbsent(snap.VWAP) || snap.VWAP == 0 {
		snap.VWAP = ta.VWAP(highs, lows, closes, vols, b.periods.RangeBars)
	}
	if snap.AvgVolume == 0 {
		snap.AvgVolume = ta.AvgVolume(vols, b.periods.RangeBars)
	}
	if (snap.PrevHigh == 0 || snap.PrevLow == 0) && len(candles) >= 2 {
		prev := candles[len(candles)-2]
		snap.PrevHigh = prev.High
		snap.PrevLow = prev.Low
		if snap.PrevClose == 0 {
			snap.PrevClose = prev.Close
		}
	}

	return snap
}

// WithHTF attaches a higher-timeframe sub-snapshot computed from coarser
// candles. Missing history leaves the snapshot without HTF context.
func (b *Builder) WithHTF(snap types.MarketSnapshot, htfCandles []types.Candle) types.MarketSnapshot {
	if len(htfCandles) == 0 {
		return snap
	}
	closes := make([]float64, len(htfCandles))
	for i, c := range htfCandles {
		closes[i] = c.Close
	}
	ema20 := ta.EMA(closes, b.periods.EMAFast)
	ema50 := ta.EMA(closes, b.periods.EMASlow)
	if types.IsAbsent(ema20) || types.IsAbsent(ema50) {
		return snap
	}
	snap.HTF = &types.HTFSnapshot{
		Close: closes[len(closes)-1],
		EMA20: ema20,
		EMA50: ema50,
	}
	return snap
}
