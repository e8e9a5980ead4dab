package signal

import (
	"fmt"
	"math"

	"signal-scanner/internal/types"
)

// strongTrendSpreadPct is the EMA20/EMA50 separation above which a trend is
// graded STRONG.
const strongTrendSpreadPct = 1.0

// ClassifyTrend derives trend direction from price against the two EMAs.
// UPTREND requires close > EMA20 > EMA50, DOWNTREND the mirror ordering;
// everything else is SIDEWAYS. Missing inputs yield UNKNOWN, never a guess.
func ClassifyTrend(snap types.MarketSnapshot) types.TrendVerdict {
	if types.IsAbsent(snap.Close) || types.IsAbsent(snap.EMA20) || types.IsAbsent(snap.EMA50) {
		return types.TrendVerdict{
			Direction: types.TrendUnknown,
			Strength:  types.StrengthWeak,
			Reason:    "trend: EMA data unavailable",
		}
	}

	spreadPct := 0.0
	if snap.EMA50 != 0 {
		spreadPct = math.Abs(snap.EMA20-snap.EMA50) / snap.EMA50 * 100.0
	}

	strength := types.StrengthModerate
	if spreadPct > strongTrendSpreadPct {
		strength = types.StrengthStrong
	}

	switch {
	case snap.Close > snap.EMA20 && snap.EMA20 > snap.EMA50:
		return types.TrendVerdict{
			Direction: types.TrendUp,
			Strength:  strength,
			Reason:    fmt.Sprintf("uptrend: close %.2f > EMA20 %.2f > EMA50 %.2f (spread %.2f%%)", snap.Close, snap.EMA20, snap.EMA50, spreadPct),
		}
	case snap.Close < snap.EMA20 && snap.EMA20 < snap.EMA50:
		return types.TrendVerdict{
			Direction: types.TrendDown,
			Strength:  strength,
			Reason:    fmt.Sprintf("downtrend: close %.2f < EMA20 %.2f < EMA50 %.2f (spread %.2f%%)", snap.Close, snap.EMA20, snap.EMA50, spreadPct),
		}
	default:
		return types.TrendVerdict{
			Direction: types.TrendSideways,
			Strength:  types.StrengthWeak,
			Reason:    fmt.Sprintf("sideways: close %.2f vs EMA20 %.2f / EMA50 %.2f", snap.Close, snap.EMA20, snap.EMA50),
		}
	}
}
