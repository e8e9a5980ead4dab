package signal

import (
	"strings"
	"testing"

	"signal-scanner/internal/types"
)

func allowBoth() types.MomentumVerdict {
	return types.MomentumVerdict{Value: 55, AllowUp: true, AllowDown: true}
}

func TestAggregateTieIsWait(t *testing.T) {
	out := DefaultProfile().Aggregate(ScoreInputs{Momentum: allowBoth()})

	if out.Signal != types.SignalWait {
		t.Errorf("Expected WAIT on a 0/0 tie, got %s", out.Signal)
	}
	if out.Scores.Bull != 0 || out.Scores.Bear != 0 {
		t.Errorf("Expected zero scores, got bull %d / bear %d", out.Scores.Bull, out.Scores.Bear)
	}
}

func TestAggregateStandardBuy(t *testing.T) {
	in := ScoreInputs{
		Trend:    types.TrendVerdict{Direction: types.TrendUp, Strength: types.StrengthModerate},
		Momentum: allowBoth(),
		Volume:   types.VolumeVerdict{Tier: types.VolumeModerate, Confirmed: true, Ratio: 1.2},
		Candle:   types.CandleVerdict{Strength: types.StrengthWeak, ChangePct: 0.3},
	}

	out := DefaultProfile().Aggregate(in)
	if out.Signal != types.SignalBuy {
		t.Fatalf("Expected BUY at score 3 with confirmed volume, got %s (%s)", out.Signal, out.Reason)
	}
	if out.Confidence != types.ConfidenceMedium {
		t.Errorf("Expected MEDIUM confidence, got %s", out.Confidence)
	}
	if out.Scores.Bull != 3 {
		t.Errorf("Expected bull score 3, got %d", out.Scores.Bull)
	}
}

func TestAggregateStrongTier(t *testing.T) {
	in := ScoreInputs{
		Trend:    types.TrendVerdict{Direction: types.TrendUp, Strength: types.StrengthStrong},
		Momentum: types.MomentumVerdict{Value: 60, AllowUp: true, AllowDown: true, BoostUp: true},
		Volume:   types.VolumeVerdict{Tier: types.VolumeVeryStrong, Confirmed: true, Ratio: 2.5},
		Candle:   types.CandleVerdict{Strength: types.StrengthStrong, ChangePct: 1.0},
	}

	// 3 trend + 1 boost + 3 volume + 1 candle = 8
	out := DefaultProfile().Aggregate(in)
	if out.Signal != types.SignalStrongBuy {
		t.Fatalf("Expected STRONG_BUY at score 8, got %s (%s)", out.Signal, out.Reason)
	}
	if out.Confidence != types.ConfidenceHigh {
		t.Errorf("Expected HIGH confidence, got %s", out.Confidence)
	}
}

func TestAggregateStrongWithHardBreakout(t *testing.T) {
	in := ScoreInputs{
		Trend:    types.TrendVerdict{Direction: types.TrendUp, Strength: types.StrengthStrong},
		Momentum: allowBoth(),
		Volume:   types.VolumeVerdict{Tier: types.VolumeModerate, Confirmed: true, Ratio: 1.3},
		Breakout: types.BreakoutVerdict{Type: types.HardBreakout},
		Candle:   types.CandleVerdict{ChangePct: 0.8},
	}

	// 3 trend + 1 volume + 2 hard breakout = 6, strong via the hard path.
	out := DefaultProfile().Aggregate(in)
	if out.Signal != types.SignalStrongBuy {
		t.Errorf("Expected STRONG_BUY at 6 with hard breakout, got %s (%s)", out.Signal, out.Reason)
	}
}

func TestAggregateMomentumBlock(t *testing.T) {
	in := ScoreInputs{
		Trend:    types.TrendVerdict{Direction: types.TrendUp, Strength: types.StrengthStrong},
		Momentum: types.MomentumVerdict{Value: 80, AllowUp: false, AllowDown: true},
		Volume:   types.VolumeVerdict{Tier: types.VolumeVeryStrong, Confirmed: true, Ratio: 3.0},
		Breakout: types.BreakoutVerdict{Type: types.HardBreakout},
		Candle:   types.CandleVerdict{Strength: types.StrengthStrong, ChangePct: 2.0},
	}

	out := DefaultProfile().Aggregate(in)
	if out.Signal != types.SignalWait {
		t.Fatalf("Expected WAIT under momentum block, got %s", out.Signal)
	}
	if !strings.Contains(out.Reason, "momentum block") {
		t.Errorf("Expected momentum block reason, got %q", out.Reason)
	}
}

func TestAggregateVolumeUnconfirmedWait(t *testing.T) {
	in := ScoreInputs{
		Trend:    types.TrendVerdict{Direction: types.TrendUp, Strength: types.StrengthStrong},
		Momentum: allowBoth(),
		Volume:   types.VolumeVerdict{Tier: types.VolumeWeak, Ratio: 0.8},
	}

	out := DefaultProfile().Aggregate(in)
	if out.Signal != types.SignalWait {
		t.Fatalf("Expected WAIT without volume confirmation, got %s", out.Signal)
	}
	if !strings.Contains(out.Reason, "volume unconfirmed") {
		t.Errorf("Expected volume unconfirmed reason, got %q", out.Reason)
	}
}

func TestStrictProfileRaisesFloor(t *testing.T) {
	in := ScoreInputs{
		Trend:    types.TrendVerdict{Direction: types.TrendUp, Strength: types.StrengthModerate},
		Momentum: allowBoth(),
		Volume:   types.VolumeVerdict{Tier: types.VolumeModerate, Confirmed: true, Ratio: 1.2},
		Candle:   types.CandleVerdict{ChangePct: 0.2},
	}

	if out := DefaultProfile().Aggregate(in); out.Signal != types.SignalBuy {
		t.Fatalf("Expected default profile to emit BUY at score 3, got %s", out.Signal)
	}
	if out := StrictProfile().Aggregate(in); out.Signal != types.SignalWait {
		t.Errorf("Expected strict profile to hold WAIT at score 3, got %s", out.Signal)
	}
}

func TestAggressiveProfileLowersStrongThreshold(t *testing.T) {
	in := ScoreInputs{
		Trend:    types.TrendVerdict{Direction: types.TrendUp, Strength: types.StrengthStrong},
		Momentum: allowBoth(),
		Volume:   types.VolumeVerdict{Tier: types.VolumeStrong, Confirmed: true, Ratio: 1.7},
		Candle:   types.CandleVerdict{Strength: types.StrengthStrong, ChangePct: 0.9},
	}

	// 3 trend + 2 volume + 1 candle = 6.
	if out := DefaultProfile().Aggregate(in); out.Signal != types.SignalBuy {
		t.Fatalf("Expected default profile to emit BUY at score 6, got %s", out.Signal)
	}
	if out := AggressiveProfile().Aggregate(in); out.Signal != types.SignalStrongBuy {
		t.Errorf("Expected aggressive profile to emit STRONG_BUY at score 6, got %s", out.Signal)
	}
}

func TestAggregateSellMirror(t *testing.T) {
	in := ScoreInputs{
		Trend:    types.TrendVerdict{Direction: types.TrendDown, Strength: types.StrengthStrong},
		Momentum: allowBoth(),
		Volume:   types.VolumeVerdict{Tier: types.VolumeStrong, Confirmed: true, Ratio: 1.8},
		Breakout: types.BreakoutVerdict{Type: types.HardBreakdown},
		Candle:   types.CandleVerdict{Strength: types.StrengthStrong, ChangePct: -1.2},
	}

	// 3 trend + 2 volume + 2 breakdown + 1 candle = 8 on the bear side.
	out := DefaultProfile().Aggregate(in)
	if out.Signal != types.SignalStrongSell {
		t.Fatalf("Expected STRONG_SELL, got %s (%s)", out.Signal, out.Reason)
	}
	if out.Scores.Bear != 8 {
		t.Errorf("Expected bear score 8, got %d", out.Scores.Bear)
	}
	if out.Scores.Bull != 0 {
		t.Errorf("Expected bull score 0, got %d", out.Scores.Bull)
	}
}

func TestProfileByName(t *testing.T) {
	if p := ProfileByName("strict"); p.MinScore != 5 {
		t.Errorf("Expected strict MinScore 5, got %d", p.MinScore)
	}
	if p := ProfileByName("aggressive"); p.StrongScore != 6 {
		t.Errorf("Expected aggressive StrongScore 6, got %d", p.StrongScore)
	}
	if p := ProfileByName("bogus"); p.Name != "default" {
		t.Errorf("Expected fallback to default, got %s", p.Name)
	}
}
