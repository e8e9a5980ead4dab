package signal

import (
	"fmt"

	"signal-scanner/internal/types"
)

const (
	rsiOverbought = 75.0
	rsiOversold   = 25.0

	rsiBoostUpLow   = 50.0
	rsiBoostUpHigh  = 70.0
	rsiBoostDownLow = 30.0
)

// ValidateMomentum gates directional calls at extreme RSI readings and
// grants a confidence boost in aligned mid-zones. A missing RSI allows both
// directions without boost; the validator never manufactures a block from
// missing data.
func ValidateMomentum(snap types.MarketSnapshot) types.MomentumVerdict {
	if types.IsAbsent(snap.RSI) {
		return types.MomentumVerdict{
			Value:     types.Absent,
			AllowUp:   true,
			AllowDown: true,
			Reason:    "momentum: RSI unavailable, no block",
		}
	}

	rsi := snap.RSI
	v := types.MomentumVerdict{
		Value:     rsi,
		AllowUp:   rsi < rsiOverbought,
		AllowDown: rsi > rsiOversold,
		BoostUp:   rsi >= rsiBoostUpLow && rsi <= rsiBoostUpHigh,
		BoostDown: rsi >= rsiBoostDownLow && rsi <= rsiBoostUpLow,
	}

	switch {
	case !v.AllowUp:
		v.Reason = fmt.Sprintf("momentum: RSI %.1f overbought, long blocked", rsi)
	case !v.AllowDown:
		v.Reason = fmt.Sprintf("momentum: RSI %.1f oversold, short blocked", rsi)
	case v.BoostUp:
		v.Reason = fmt.Sprintf("momentum: RSI %.1f in bullish zone", rsi)
	case v.BoostDown:
		v.Reason = fmt.Sprintf("momentum: RSI %.1f in bearish zone", rsi)
	default:
		v.Reason = fmt.Sprintf("momentum: RSI %.1f neutral", rsi)
	}
	return v
}
