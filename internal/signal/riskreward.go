package signal

import (
	"fmt"
	"math"

	"signal-scanner/internal/types"
)

// RiskParams defines the risk-reward gate's geometry and thresholds.
type RiskParams struct {
	TargetATRMult float64
	StopATRMult   float64
	MinRatio      float64
	StrongRatio   float64
}

// DefaultRiskParams: 2x ATR target, 1x ATR stop, accept at 1.2, upgrade at 2.0.
func DefaultRiskParams() RiskParams {
	return RiskParams{TargetATRMult: 2.0, StopATRMult: 1.0, MinRatio: 1.2, StrongRatio: 2.0}
}

// Compute synthesizes a target/stop pair from the entry, the ATR, and the
// chosen direction, then grades the reward-to-risk ratio. Zero risk is
// always unacceptable regardless of ratio.
func (p RiskParams) Compute(sig types.Signal, entry, atr float64) types.RiskRewardResult {
	r := types.RiskRewardResult{Entry: entry}
	if types.IsAbsent(atr) || atr <= 0 || types.IsAbsent(entry) {
		r.Grade = "INVALID"
		return r
	}

	if sig.Bullish() {
		r.Target = entry + p.TargetATRMult*atr
		r.StopLoss = entry - p.StopATRMult*atr
	} else {
		r.Target = entry - p.TargetATRMult*atr
		r.StopLoss = entry + p.StopATRMult*atr
	}

	risk := math.Abs(entry - r.StopLoss)
	if risk == 0 {
		r.Grade = "INVALID"
		return r
	}
	r.Ratio = math.Abs(r.Target-entry) / risk

	switch {
	case r.Ratio >= p.StrongRatio:
		r.Grade = "EXCELLENT"
	case r.Ratio >= 1.5:
		r.Grade = "GOOD"
	case r.Ratio >= p.MinRatio:
		r.Grade = "ACCEPTABLE"
	default:
		r.Grade = "POOR"
	}
	r.Acceptable = r.Ratio >= p.MinRatio
	return r
}

// Apply gates a verdict through the risk-reward check. It only ever moves a
// signal toward WAIT or toward its STRONG variant; it never invents a new
// direction. The original signal and ratio stay in the reason when rejected.
func (p RiskParams) Apply(v types.SignalVerdict, atr float64) types.SignalVerdict {
	if !v.Signal.Directional() {
		return v
	}

	rr := p.Compute(v.Signal, v.Price, atr)
	v.RiskReward = &rr

	if !rr.Acceptable {
		original := v.Signal
		v.Signal = types.SignalWait
		v.Confidence = types.ConfidenceLow
		v.Reason = fmt.Sprintf("risk-reward rejected %s: ratio %.2f < %.2f (%s) | %s", original, rr.Ratio, p.MinRatio, rr.Grade, v.Reason)
		return v
	}

	if rr.Ratio >= p.StrongRatio {
		switch v.Signal {
		case types.SignalBuy:
			v.Signal = types.SignalStrongBuy
			v.Confidence = types.ConfidenceHigh
			v.Reason = fmt.Sprintf("risk-reward upgrade: ratio %.2f >= %.2f | %s", rr.Ratio, p.StrongRatio, v.Reason)
		case types.SignalSell:
			v.Signal = types.SignalStrongSell
			v.Confidence = types.ConfidenceHigh
			v.Reason = fmt.Sprintf("risk-reward upgrade: ratio %.2f >= %.2f | %s", rr.Ratio, p.StrongRatio, v.Reason)
		}
	}
	return v
}
