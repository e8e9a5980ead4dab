package signal

import (
	"fmt"
	"math"

	"signal-scanner/internal/types"
)

const (
	highRiskVIX        = 20.0
	sidewaysOverlapPct = 60.0
	sidewaysMovePct    = 0.15
	trendingMovePct    = 0.35
	trendingSizePct    = 0.25
)

// ClassifyRegime labels the broader tape state. A volatility index at or
// above the high-risk level overrides everything; ambiguous inputs land in
// NO_TRADE rather than an inferred direction.
func ClassifyRegime(snap types.MarketSnapshot) types.RegimeVerdict {
	if !types.IsAbsent(snap.VolatilityIndex) && snap.VolatilityIndex >= highRiskVIX {
		return types.RegimeVerdict{
			Regime: types.RegimeHighRisk,
			Reason: fmt.Sprintf("regime: volatility index %.1f >= %.0f", snap.VolatilityIndex, highRiskVIX),
		}
	}

	if types.IsAbsent(snap.Close) || types.IsAbsent(snap.PrevClose) || snap.PrevClose == 0 {
		return types.RegimeVerdict{Regime: types.RegimeNoTrade, Reason: "regime: price data unavailable"}
	}

	movePct := math.Abs(snap.Close-snap.PrevClose) / snap.PrevClose * 100.0
	sizePct := 0.0
	if !types.IsAbsent(snap.High) && !types.IsAbsent(snap.Low) {
		sizePct = (snap.High - snap.Low) / snap.PrevClose * 100.0
	}
	overlapPct := rangeOverlapPct(snap)

	if overlapPct >= sidewaysOverlapPct || movePct < sidewaysMovePct {
		return types.RegimeVerdict{
			Regime:    types.RegimeSideways,
			Tradeable: false,
			Reason:    fmt.Sprintf("regime: sideways (overlap %.0f%%, move %.2f%%)", overlapPct, movePct),
		}
	}

	if movePct >= trendingMovePct && sizePct >= trendingSizePct {
		if alignedUp(snap) {
			return types.RegimeVerdict{
				Regime:    types.RegimeTrendingUp,
				Tradeable: true,
				Reason:    fmt.Sprintf("regime: trending up (move %.2f%%, size %.2f%%)", movePct, sizePct),
			}
		}
		if alignedDown(snap) {
			return types.RegimeVerdict{
				Regime:    types.RegimeTrendingDown,
				Tradeable: true,
				Reason:    fmt.Sprintf("regime: trending down (move %.2f%%, size %.2f%%)", movePct, sizePct),
			}
		}
	}

	return types.RegimeVerdict{
		Regime: types.RegimeNoTrade,
		Reason: fmt.Sprintf("regime: unclear (move %.2f%%, size %.2f%%), protect capital", movePct, sizePct),
	}
}

func alignedUp(snap types.MarketSnapshot) bool {
	if types.IsAbsent(snap.EMA20) || types.IsAbsent(snap.EMA50) {
		return false
	}
	return snap.Close > snap.EMA20 && snap.EMA20 > snap.EMA50
}

func alignedDown(snap types.MarketSnapshot) bool {
	if types.IsAbsent(snap.EMA20) || types.IsAbsent(snap.EMA50) {
		return false
	}
	return snap.Close < snap.EMA20 && snap.EMA20 < snap.EMA50
}

// rangeOverlapPct measures how much of the current bar sits inside the
// previous bar's range, as a percentage of the current bar's own span.
func rangeOverlapPct(snap types.MarketSnapshot) float64 {
	if types.IsAbsent(snap.High) || types.IsAbsent(snap.Low) ||
		types.IsAbsent(snap.PrevHigh) || types.IsAbsent(snap.PrevLow) ||
		snap.PrevHigh == 0 || snap.PrevLow == 0 {
		return 0
	}
	span := snap.High - snap.Low
	if span <= 0 {
		return 100
	}
	overlap := math.Min(snap.High, snap.PrevHigh) - math.Max(snap.Low, snap.PrevLow)
	if overlap <= 0 {
		return 0
	}
	return overlap / span * 100.0
}
