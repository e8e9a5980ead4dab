package signal

import (
	"fmt"
	"math"

	"signal-scanner/internal/types"
)

const (
	strongBodyPct   = 60.0
	moderateBodyPct = 40.0
	strongChangePct = 0.5
)

// ClassifyCandle grades the bar's body-to-range ratio and bar-over-bar
// change. A zero range yields UNKNOWN.
func ClassifyCandle(snap types.MarketSnapshot) types.CandleVerdict {
	if types.IsAbsent(snap.Open) || types.IsAbsent(snap.High) || types.IsAbsent(snap.Low) || types.IsAbsent(snap.Close) {
		return types.CandleVerdict{Strength: types.StrengthUnknown, Reason: "candle: OHLC unavailable"}
	}

	barRange := snap.High - snap.Low
	if barRange <= 0 {
		return types.CandleVerdict{Strength: types.StrengthUnknown, Reason: "candle: zero range"}
	}

	bodyPct := math.Abs(snap.Close-snap.Open) / barRange * 100.0
	changePct := 0.0
	if !types.IsAbsent(snap.PrevClose) && snap.PrevClose != 0 {
		changePct = (snap.Close - snap.PrevClose) / snap.PrevClose * 100.0
	}

	v := types.CandleVerdict{BodyPct: bodyPct, ChangePct: changePct}
	switch {
	case bodyPct > strongBodyPct && math.Abs(changePct) > strongChangePct:
		v.Strength = types.StrengthStrong
	case bodyPct > moderateBodyPct:
		v.Strength = types.StrengthModerate
	default:
		v.Strength = types.StrengthWeak
	}
	v.Reason = fmt.Sprintf("candle: body %.1f%%, change %.2f%% (%s)", bodyPct, changePct, v.Strength)
	return v
}
