package signal

import (
	"fmt"

	"signal-scanner/internal/types"
)

// softBreakoutPct is how close to the range edge a close must be (as a
// fraction of the edge) to count as an approaching breakout.
const softBreakoutPct = 0.002

// DetectBreakout classifies the close against the rolling high/low range.
// Hard tests run before soft tests so a hard breakout always wins; exactly
// one directional type is returned.
func DetectBreakout(snap types.MarketSnapshot) types.BreakoutVerdict {
	if types.IsAbsent(snap.Close) || types.IsAbsent(snap.RangeHigh) || types.IsAbsent(snap.RangeLow) {
		return types.BreakoutVerdict{Type: types.BreakoutNone, Reason: "breakout: range data unavailable"}
	}

	close, hi, lo := snap.Close, snap.RangeHigh, snap.RangeLow

	switch {
	case close > hi:
		return types.BreakoutVerdict{
			Type:   types.HardBreakout,
			Reason: fmt.Sprintf("breakout: close %.2f above range high %.2f", close, hi),
		}
	case close < lo:
		return types.BreakoutVerdict{
			Type:   types.HardBreakdown,
			Reason: fmt.Sprintf("breakdown: close %.2f below range low %.2f", close, lo),
		}
	case close >= hi*(1.0-softBreakoutPct):
		return types.BreakoutVerdict{
			Type:   types.SoftBreakout,
			Reason: fmt.Sprintf("soft breakout: close %.2f within %.1f%% of range high %.2f", close, softBreakoutPct*100, hi),
		}
	case close <= lo*(1.0+softBreakoutPct):
		return types.BreakoutVerdict{
			Type:   types.SoftBreakdown,
			Reason: fmt.Sprintf("soft breakdown: close %.2f within %.1f%% of range low %.2f", close, softBreakoutPct*100, lo),
		}
	default:
		return types.BreakoutVerdict{Type: types.BreakoutNone, Reason: "breakout: close inside range"}
	}
}
