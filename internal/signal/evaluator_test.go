package signal

import (
	"context"
	"testing"

	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/types"
)

// bullishSnapshot satisfies every classifier on the long side.
func bullishSnapshot() types.MarketSnapshot {
	return types.MarketSnapshot{
		Symbol:    "RELIANCE",
		Open:      107.5,
		High:      110.2,
		Low:       107.4,
		Close:     110,
		PrevClose: 108,
		PrevHigh:  108.5,
		PrevLow:   107,
		Volume:    2500,
		AvgVolume: 1000,

		EMA20:     106,
		EMA50:     103,
		RSI:       60,
		ATR:       2,
		RangeHigh: 109,
		RangeLow:  104,
		VWAP:      108,

		VolatilityIndex: 14,
	}
}

func newTestEvaluator(opts ...Option) *Evaluator {
	base := []Option{WithScanners([]interfaces.ContextScanner{})}
	return NewEvaluator(append(base, opts...)...)
}

func TestEvaluateCoreDataMissing(t *testing.T) {
	snap := bullishSnapshot()
	snap.RSI = types.Absent

	v := newTestEvaluator().Evaluate(context.Background(), snap, types.SafetyContext{})
	if v.Signal != types.SignalWait {
		t.Fatalf("Expected WAIT with missing RSI, got %s", v.Signal)
	}
	if v.Reason != "core data missing" {
		t.Errorf("Expected core data missing reason, got %q", v.Reason)
	}
}

func TestEvaluateWeakContext(t *testing.T) {
	snap := types.MarketSnapshot{
		Symbol:    "ITC",
		Open:      100,
		High:      101,
		Low:       99,
		Close:     100,
		PrevClose: 100,
		Volume:    100,
		AvgVolume: 1000,

		EMA20:     101,
		EMA50:     100.5,
		RSI:       48,
		ATR:       1,
		RangeHigh: 105,
		RangeLow:  95,

		VolatilityIndex: 14,
	}

	v := newTestEvaluator().Evaluate(context.Background(), snap, types.SafetyContext{})
	if v.Signal != types.SignalWait {
		t.Fatalf("Expected WAIT in weak context, got %s", v.Signal)
	}
	if v.BullScore != 0 || v.BearScore != 0 {
		t.Errorf("Expected no scoring in weak context, got bull %d / bear %d", v.BullScore, v.BearScore)
	}
}

func TestEvaluateStrongBuyEndToEnd(t *testing.T) {
	v := newTestEvaluator().Evaluate(context.Background(), bullishSnapshot(), types.SafetyContext{VolatilityIndex: 14})

	if v.Signal != types.SignalStrongBuy {
		t.Fatalf("Expected STRONG_BUY, got %s (%s)", v.Signal, v.Reason)
	}
	if v.Confidence != types.ConfidenceHigh {
		t.Errorf("Expected HIGH confidence, got %s", v.Confidence)
	}
	if v.RiskReward == nil {
		t.Fatal("Expected risk-reward result attached")
	}
	if v.RiskReward.Target != 114 || v.RiskReward.StopLoss != 108 {
		t.Errorf("Expected target 114 / stop 108, got %.2f / %.2f", v.RiskReward.Target, v.RiskReward.StopLoss)
	}
	if v.BullScore <= v.BearScore {
		t.Errorf("Expected bull-dominated scoring, got bull %d / bear %d", v.BullScore, v.BearScore)
	}
}

func TestEvaluateSafetyVetoOverridesSignal(t *testing.T) {
	v := newTestEvaluator().Evaluate(context.Background(), bullishSnapshot(), types.SafetyContext{PanicState: true})

	if v.Signal != types.SignalWait {
		t.Fatalf("Expected safety veto to force WAIT, got %s", v.Signal)
	}
	if !v.Vetoed {
		t.Error("Expected verdict to carry the veto flag")
	}
}

func TestEvaluateOvertradeWarnsOnly(t *testing.T) {
	sc := types.SafetyContext{TradeCountToday: 5, VolatilityIndex: 14}
	v := newTestEvaluator().Evaluate(context.Background(), bullishSnapshot(), sc)

	if v.Signal != types.SignalStrongBuy {
		t.Fatalf("Expected overtrade to warn without veto, got %s", v.Signal)
	}
	if len(v.Warnings) == 0 {
		t.Error("Expected an overtrade warning")
	}
}

func TestEvaluateBlockedRSIProducesWait(t *testing.T) {
	snap := bullishSnapshot()
	snap.RSI = 80

	v := newTestEvaluator().Evaluate(context.Background(), snap, types.SafetyContext{})
	if v.Signal != types.SignalWait {
		t.Errorf("Expected WAIT at RSI 80, got %s", v.Signal)
	}
}
