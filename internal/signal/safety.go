package signal

import (
	"fmt"

	"signal-scanner/internal/types"
)

// SafetyParams configures the safety overlay's warning and veto levels.
type SafetyParams struct {
	MaxTradesPerDay int
	VIXWarnLevel    float64
	VIXBlockLevel   float64
}

// DefaultSafetyParams: warn at 3 trades and VIX 20, hard veto at VIX 30.
func DefaultSafetyParams() SafetyParams {
	return SafetyParams{MaxTradesPerDay: 3, VIXWarnLevel: 20, VIXBlockLevel: 30}
}

// Apply runs the safety overlay. It annotates or vetoes, never originates:
// a WAIT stays a WAIT, and a directional signal can only be pulled back to
// WAIT under an explicit block condition. Runs last so its word is final.
func (p SafetyParams) Apply(v types.SignalVerdict, sc types.SafetyContext) types.SignalVerdict {
	var warnings []string
	var blocks []string

	if sc.IsResultDay {
		warnings = append(warnings, "result day: expect post-announcement volatility")
	}
	if sc.IsExpiryDay {
		warnings = append(warnings, "expiry day: expect rollover distortion")
	}
	if sc.TradeCountToday >= p.MaxTradesPerDay {
		warnings = append(warnings, fmt.Sprintf("overtrade: %d signals already today (limit %d)", sc.TradeCountToday, p.MaxTradesPerDay))
	}
	if !types.IsAbsent(sc.VolatilityIndex) && sc.VolatilityIndex >= p.VIXWarnLevel {
		warnings = append(warnings, fmt.Sprintf("elevated volatility index %.1f", sc.VolatilityIndex))
	}

	if sc.PanicState {
		blocks = append(blocks, "panic state active")
	}
	if !types.IsAbsent(sc.VolatilityIndex) && sc.VolatilityIndex >= p.VIXBlockLevel {
		blocks = append(blocks, fmt.Sprintf("volatility index %.1f >= block level %.1f", sc.VolatilityIndex, p.VIXBlockLevel))
	}

	v.Warnings = append(v.Warnings, warnings...)

	if len(blocks) > 0 && v.Signal.Directional() {
		original := v.Signal
		v.Signal = types.SignalWait
		v.Confidence = types.ConfidenceLow
		v.Vetoed = true
		v.Warnings = append(v.Warnings, blocks...)
		v.Reason = fmt.Sprintf("safety veto of %s: %s | %s", original, blocks[0], v.Reason)
	}

	return v
}
