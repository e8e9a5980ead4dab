package signal

import (
	"math"
	"strings"
	"testing"

	"signal-scanner/internal/types"
)

func TestComputeBullishGeometry(t *testing.T) {
	rr := DefaultRiskParams().Compute(types.SignalBuy, 100, 3)

	if rr.Target != 106 {
		t.Errorf("Expected target 106, got %.2f", rr.Target)
	}
	if rr.StopLoss != 97 {
		t.Errorf("Expected stop 97, got %.2f", rr.StopLoss)
	}
	if math.Abs(rr.Ratio-2.0) > 1e-9 {
		t.Errorf("Expected ratio 2.0, got %.2f", rr.Ratio)
	}
	if rr.Grade != "EXCELLENT" || !rr.Acceptable {
		t.Errorf("Expected acceptable EXCELLENT grade, got %s (acceptable=%v)", rr.Grade, rr.Acceptable)
	}
}

func TestComputeBearishGeometry(t *testing.T) {
	rr := DefaultRiskParams().Compute(types.SignalSell, 100, 2)

	if rr.Target != 96 {
		t.Errorf("Expected target 96, got %.2f", rr.Target)
	}
	if rr.StopLoss != 102 {
		t.Errorf("Expected stop 102, got %.2f", rr.StopLoss)
	}
}

func TestComputeInvalidATR(t *testing.T) {
	for _, atr := range []float64{0, -1, types.Absent} {
		rr := DefaultRiskParams().Compute(types.SignalBuy, 100, atr)
		if rr.Grade != "INVALID" {
			t.Errorf("ATR %.2f: expected INVALID, got %s", atr, rr.Grade)
		}
		if rr.Acceptable {
			t.Errorf("ATR %.2f: expected not acceptable", atr)
		}
	}
}

func TestApplyRejectsPoorRatio(t *testing.T) {
	// Inverted geometry: reward half the risk.
	p := RiskParams{TargetATRMult: 1.0, StopATRMult: 2.0, MinRatio: 1.2, StrongRatio: 2.0}
	v := types.SignalVerdict{Symbol: "TCS", Signal: types.SignalBuy, Confidence: types.ConfidenceMedium, Price: 100, Reason: "score 4 standard tier"}

	out := p.Apply(v, 2)
	if out.Signal != types.SignalWait {
		t.Fatalf("Expected rejection to WAIT, got %s", out.Signal)
	}
	if !strings.Contains(out.Reason, "rejected BUY") {
		t.Errorf("Expected original signal in reason, got %q", out.Reason)
	}
	if !strings.Contains(out.Reason, "score 4 standard tier") {
		t.Errorf("Expected original reason preserved, got %q", out.Reason)
	}
	if out.RiskReward == nil || out.RiskReward.Ratio != 0.5 {
		t.Error("Expected risk-reward result with ratio 0.5 attached")
	}
}

func TestApplyUpgradesAtStrongRatio(t *testing.T) {
	v := types.SignalVerdict{Symbol: "TCS", Signal: types.SignalBuy, Confidence: types.ConfidenceMedium, Price: 100, Reason: "score 5"}

	out := DefaultRiskParams().Apply(v, 2)
	if out.Signal != types.SignalStrongBuy {
		t.Fatalf("Expected upgrade to STRONG_BUY at ratio 2.0, got %s", out.Signal)
	}
	if out.Confidence != types.ConfidenceHigh {
		t.Errorf("Expected HIGH confidence after upgrade, got %s", out.Confidence)
	}
}

func TestApplySkipsWait(t *testing.T) {
	v := types.SignalVerdict{Symbol: "TCS", Signal: types.SignalWait, Price: 100}

	out := DefaultRiskParams().Apply(v, 2)
	if out.Signal != types.SignalWait {
		t.Errorf("Expected WAIT to pass through, got %s", out.Signal)
	}
	if out.RiskReward != nil {
		t.Error("Expected no risk-reward computed for WAIT")
	}
}

func TestApplyMissingATRRejects(t *testing.T) {
	v := types.SignalVerdict{Symbol: "TCS", Signal: types.SignalSell, Price: 100}

	out := DefaultRiskParams().Apply(v, types.Absent)
	if out.Signal != types.SignalWait {
		t.Errorf("Expected WAIT when ATR is unavailable, got %s", out.Signal)
	}
}
