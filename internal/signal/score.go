package signal

import (
	"fmt"
	"strings"

	"signal-scanner/internal/types"
)

// Profile holds the scoring table as data: named point weights and decision
// thresholds. Variants are configuration, not forked logic.
type Profile struct {
	Name string

	TrendStrongPts   int
	TrendModeratePts int
	RSIBoostPts      int
	VolModeratePts   int
	VolStrongPts     int
	VolVeryStrongPts int
	BreakoutSoftPts  int
	BreakoutHardPts  int
	CandleStrongPts  int
	RegimeMatchPts   int

	// StrongScore is the plain STRONG-tier threshold; StrongWithHard and
	// StrongWithSoft lower it when a same-direction breakout confirms.
	StrongScore    int
	StrongWithHard int
	StrongWithSoft int
	MinScore       int
}

func baseProfile(name string) Profile {
	return Profile{
		Name:             name,
		TrendStrongPts:   3,
		TrendModeratePts: 2,
		RSIBoostPts:      1,
		VolModeratePts:   1,
		VolStrongPts:     2,
		VolVeryStrongPts: 3,
		BreakoutSoftPts:  1,
		BreakoutHardPts:  2,
		CandleStrongPts:  1,
		RegimeMatchPts:   2,
		StrongScore:      8,
		StrongWithHard:   6,
		StrongWithSoft:   5,
		MinScore:         3,
	}
}

// DefaultProfile is the system default: STRONG tier at 8 points.
func DefaultProfile() Profile { return baseProfile("default") }

// StrictProfile raises the standard-tier floor to 5 points.
func StrictProfile() Profile {
	p := baseProfile("strict")
	p.MinScore = 5
	return p
}

// AggressiveProfile lowers the plain STRONG-tier threshold to 6 points.
func AggressiveProfile() Profile {
	p := baseProfile("aggressive")
	p.StrongScore = 6
	return p
}

// ProfileByName resolves a configured profile name, falling back to the
// default for anything unrecognized.
func ProfileByName(name string) Profile {
	switch name {
	case "strict":
		return StrictProfile()
	case "aggressive":
		return AggressiveProfile()
	default:
		return DefaultProfile()
	}
}

// ScoreInputs bundles the classifier verdicts feeding one aggregation.
type ScoreInputs struct {
	Trend    types.TrendVerdict
	Momentum types.MomentumVerdict
	Volume   types.VolumeVerdict
	Breakout types.BreakoutVerdict
	Candle   types.CandleVerdict
	Regime   types.RegimeVerdict
	Aux      []types.AuxVerdict
}

// ScoreOutcome is the aggregator's decision before the risk-reward gate and
// safety overlay run.
type ScoreOutcome struct {
	Scores     types.ScoreState
	Signal     types.Signal
	Confidence types.Confidence
	Reason     string
}

// Aggregate runs the fixed additive scoring and selects a signal tier. Both
// scores stay non-negative; a tie resolves toward WAIT.
func (p Profile) Aggregate(in ScoreInputs) ScoreOutcome {
	var s types.ScoreState

	switch in.Trend.Direction {
	case types.TrendUp:
		pts := p.TrendModeratePts
		if in.Trend.Strength == types.StrengthStrong {
			pts = p.TrendStrongPts
		}
		s.AddBull(pts, in.Trend.Reason)
	case types.TrendDown:
		pts := p.TrendModeratePts
		if in.Trend.Strength == types.StrengthStrong {
			pts = p.TrendStrongPts
		}
		s.AddBear(pts, in.Trend.Reason)
	}

	if in.Momentum.BoostUp {
		s.AddBull(p.RSIBoostPts, in.Momentum.Reason)
	}
	if in.Momentum.BoostDown {
		s.AddBear(p.RSIBoostPts, in.Momentum.Reason)
	}

	if volPts := p.volumePoints(in.Volume.Tier); volPts > 0 {
		// Volume confirms the direction of the bar that produced it.
		if in.Candle.ChangePct >= 0 {
			s.AddBull(volPts, in.Volume.Reason)
		} else {
			s.AddBear(volPts, in.Volume.Reason)
		}
	}

	switch {
	case in.Breakout.Type == types.HardBreakout:
		s.AddBull(p.BreakoutHardPts, in.Breakout.Reason)
	case in.Breakout.Type == types.SoftBreakout:
		s.AddBull(p.BreakoutSoftPts, in.Breakout.Reason)
	case in.Breakout.Type == types.HardBreakdown:
		s.AddBear(p.BreakoutHardPts, in.Breakout.Reason)
	case in.Breakout.Type == types.SoftBreakdown:
		s.AddBear(p.BreakoutSoftPts, in.Breakout.Reason)
	}

	if in.Candle.Strength == types.StrengthStrong {
		if in.Candle.ChangePct >= 0 {
			s.AddBull(p.CandleStrongPts, in.Candle.Reason)
		} else {
			s.AddBear(p.CandleStrongPts, in.Candle.Reason)
		}
	}

	switch in.Regime.Regime {
	case types.RegimeTrendingUp:
		s.AddBull(p.RegimeMatchPts, in.Regime.Reason)
	case types.RegimeTrendingDown:
		s.AddBear(p.RegimeMatchPts, in.Regime.Reason)
	}

	for _, aux := range in.Aux {
		if !aux.Hit {
			continue
		}
		if aux.Direction.Bullish() {
			s.AddBull(aux.Points, aux.Reason)
		} else if aux.Direction.Directional() {
			s.AddBear(aux.Points, aux.Reason)
		}
	}

	return p.decide(s, in)
}

func (p Profile) volumePoints(tier types.VolumeTier) int {
	switch tier {
	case types.VolumeModerate:
		return p.VolModeratePts
	case types.VolumeStrong:
		return p.VolStrongPts
	case types.VolumeVeryStrong:
		return p.VolVeryStrongPts
	default:
		return 0
	}
}

func (p Profile) decide(s types.ScoreState, in ScoreInputs) ScoreOutcome {
	waitReason := fmt.Sprintf("wait: bull %d / bear %d below threshold", s.Bull, s.Bear)

	// Tie resolves toward WAIT: neither side may claim the signal.
	if s.Bull == s.Bear {
		return ScoreOutcome{
			Scores:     s,
			Signal:     types.SignalWait,
			Confidence: types.ConfidenceLow,
			Reason:     fmt.Sprintf("wait: scores tied at bull %d / bear %d", s.Bull, s.Bear),
		}
	}

	bullish := s.Bull > s.Bear
	score := s.Bull
	allowed := in.Momentum.AllowUp
	strongSignal, standardSignal := types.SignalStrongBuy, types.SignalBuy
	sameHard := in.Breakout.Type == types.HardBreakout
	sameSoft := in.Breakout.Type == types.SoftBreakout
	if !bullish {
		score = s.Bear
		allowed = in.Momentum.AllowDown
		strongSignal, standardSignal = types.SignalStrongSell, types.SignalSell
		sameHard = in.Breakout.Type == types.HardBreakdown
		sameSoft = in.Breakout.Type == types.SoftBreakdown
	}

	strong := score >= p.StrongScore ||
		(score >= p.StrongWithHard && sameHard) ||
		(score >= p.StrongWithSoft && sameSoft)

	if strong && allowed {
		return ScoreOutcome{
			Scores:     s,
			Signal:     strongSignal,
			Confidence: types.ConfidenceHigh,
			Reason:     summarize(s, fmt.Sprintf("score %d strong tier", score)),
		}
	}

	if score >= p.MinScore && allowed && in.Volume.Confirmed {
		return ScoreOutcome{
			Scores:     s,
			Signal:     standardSignal,
			Confidence: types.ConfidenceMedium,
			Reason:     summarize(s, fmt.Sprintf("score %d standard tier", score)),
		}
	}

	if !allowed {
		waitReason = fmt.Sprintf("wait: momentum block at RSI %.1f (bull %d / bear %d)", in.Momentum.Value, s.Bull, s.Bear)
	} else if score >= p.MinScore && !in.Volume.Confirmed {
		waitReason = fmt.Sprintf("wait: volume unconfirmed (bull %d / bear %d)", s.Bull, s.Bear)
	}

	return ScoreOutcome{
		Scores:     s,
		Signal:     types.SignalWait,
		Confidence: types.ConfidenceLow,
		Reason:     waitReason,
	}
}

func summarize(s types.ScoreState, head string) string {
	if len(s.Notes) == 0 {
		return head
	}
	return head + ": " + strings.Join(s.Notes, "; ")
}
