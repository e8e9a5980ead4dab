package signal

import (
	"testing"

	"signal-scanner/internal/types"
)

func TestClassifyTrendStrongUp(t *testing.T) {
	snap := types.MarketSnapshot{Close: 105, EMA20: 103, EMA50: 100}

	v := ClassifyTrend(snap)
	if v.Direction != types.TrendUp {
		t.Fatalf("Expected UPTREND, got %s", v.Direction)
	}
	if v.Strength != types.StrengthStrong {
		t.Errorf("Expected STRONG at 3%% EMA spread, got %s", v.Strength)
	}
}

func TestClassifyTrendModerateUp(t *testing.T) {
	snap := types.MarketSnapshot{Close: 101, EMA20: 100.5, EMA50: 100}

	v := ClassifyTrend(snap)
	if v.Direction != types.TrendUp {
		t.Fatalf("Expected UPTREND, got %s", v.Direction)
	}
	if v.Strength != types.StrengthModerate {
		t.Errorf("Expected MODERATE at 0.5%% EMA spread, got %s", v.Strength)
	}
}

func TestClassifyTrendDown(t *testing.T) {
	snap := types.MarketSnapshot{Close: 95, EMA20: 97, EMA50: 100}

	v := ClassifyTrend(snap)
	if v.Direction != types.TrendDown {
		t.Errorf("Expected DOWNTREND, got %s", v.Direction)
	}
}

func TestClassifyTrendSideways(t *testing.T) {
	// Close above EMA20 but EMA20 below EMA50: no clean ordering.
	snap := types.MarketSnapshot{Close: 101, EMA20: 100, EMA50: 102}

	v := ClassifyTrend(snap)
	if v.Direction != types.TrendSideways {
		t.Errorf("Expected SIDEWAYS, got %s", v.Direction)
	}
}

func TestClassifyTrendMissingData(t *testing.T) {
	snap := types.MarketSnapshot{Close: 101, EMA20: types.Absent, EMA50: 100}

	v := ClassifyTrend(snap)
	if v.Direction != types.TrendUnknown {
		t.Errorf("Expected UNKNOWN with missing EMA, got %s", v.Direction)
	}
}

func TestValidateMomentum(t *testing.T) {
	cases := []struct {
		rsi                string
		value              float64
		allowUp, allowDown bool
		boostUp, boostDown bool
	}{
		{"overbought", 80, false, true, false, false},
		{"oversold", 20, true, false, false, false},
		{"bullish zone", 60, true, true, true, false},
		{"bearish zone", 40, true, true, false, true},
		{"neutral high", 72, true, true, false, false},
	}

	for _, tc := range cases {
		v := ValidateMomentum(types.MarketSnapshot{RSI: tc.value})
		if v.AllowUp != tc.allowUp || v.AllowDown != tc.allowDown {
			t.Errorf("%s (RSI %.0f): allow up/down = %v/%v, want %v/%v",
				tc.rsi, tc.value, v.AllowUp, v.AllowDown, tc.allowUp, tc.allowDown)
		}
		if v.BoostUp != tc.boostUp || v.BoostDown != tc.boostDown {
			t.Errorf("%s (RSI %.0f): boost up/down = %v/%v, want %v/%v",
				tc.rsi, tc.value, v.BoostUp, v.BoostDown, tc.boostUp, tc.boostDown)
		}
	}
}

func TestValidateMomentumAbsentAllowsBoth(t *testing.T) {
	v := ValidateMomentum(types.MarketSnapshot{RSI: types.Absent})

	if !v.AllowUp || !v.AllowDown {
		t.Error("Expected missing RSI to allow both directions")
	}
	if v.BoostUp || v.BoostDown {
		t.Error("Expected missing RSI to grant no boost")
	}
}

func TestValidateVolumeTiers(t *testing.T) {
	cases := []struct {
		volume    float64
		tier      types.VolumeTier
		confirmed bool
	}{
		{1000, types.VolumeWeak, false},
		{1200, types.VolumeModerate, true},
		{1600, types.VolumeStrong, true},
		{2500, types.VolumeVeryStrong, true},
	}

	for _, tc := range cases {
		v := ValidateVolume(types.MarketSnapshot{Volume: tc.volume, AvgVolume: 1000})
		if v.Tier != tc.tier {
			t.Errorf("Volume %.0f: expected tier %s, got %s", tc.volume, tc.tier, v.Tier)
		}
		if v.Confirmed != tc.confirmed {
			t.Errorf("Volume %.0f: expected confirmed=%v, got %v", tc.volume, tc.confirmed, v.Confirmed)
		}
	}
}

func TestValidateVolumeNoAverage(t *testing.T) {
	v := ValidateVolume(types.MarketSnapshot{Volume: 1000, AvgVolume: 0})

	if v.Tier != types.VolumeUnknown {
		t.Errorf("Expected UNKNOWN tier with zero average, got %s", v.Tier)
	}
	if v.Confirmed {
		t.Error("Expected no confirmation with zero average")
	}
}

func TestDetectBreakout(t *testing.T) {
	cases := []struct {
		close float64
		want  types.BreakoutType
	}{
		{111, types.HardBreakout},
		{109.9, types.SoftBreakout}, // within 0.2% of the 110 edge
		{99, types.HardBreakdown},
		{100.1, types.SoftBreakdown},
		{105, types.BreakoutNone},
	}

	for _, tc := range cases {
		snap := types.MarketSnapshot{Close: tc.close, RangeHigh: 110, RangeLow: 100}
		if v := DetectBreakout(snap); v.Type != tc.want {
			t.Errorf("Close %.2f: expected %s, got %s", tc.close, tc.want, v.Type)
		}
	}
}

func TestDetectBreakoutHardWinsOverSoft(t *testing.T) {
	// Barely above the range high: both hard and soft conditions hold.
	snap := types.MarketSnapshot{Close: 110.01, RangeHigh: 110, RangeLow: 100}

	if v := DetectBreakout(snap); v.Type != types.HardBreakout {
		t.Errorf("Expected HARD_BREAKOUT to win, got %s", v.Type)
	}
}

func TestDetectBreakoutMissingRange(t *testing.T) {
	snap := types.MarketSnapshot{Close: 105, RangeHigh: types.Absent, RangeLow: 100}

	if v := DetectBreakout(snap); v.Type != types.BreakoutNone {
		t.Errorf("Expected NONE with missing range, got %s", v.Type)
	}
}

func TestClassifyCandleStrong(t *testing.T) {
	snap := types.MarketSnapshot{Open: 100, High: 102.5, Low: 99.9, Close: 102, PrevClose: 100}

	v := ClassifyCandle(snap)
	if v.Strength != types.StrengthStrong {
		t.Errorf("Expected STRONG candle (body %.1f%%, change %.2f%%), got %s", v.BodyPct, v.ChangePct, v.Strength)
	}
}

func TestClassifyCandleModerate(t *testing.T) {
	// 50% body but change under the strong threshold.
	snap := types.MarketSnapshot{Open: 100, High: 102, Low: 100, Close: 101, PrevClose: 100.9}

	v := ClassifyCandle(snap)
	if v.Strength != types.StrengthModerate {
		t.Errorf("Expected MODERATE candle, got %s", v.Strength)
	}
}

func TestClassifyCandleZeroRange(t *testing.T) {
	snap := types.MarketSnapshot{Open: 100, High: 100, Low: 100, Close: 100}

	v := ClassifyCandle(snap)
	if v.Strength != types.StrengthUnknown {
		t.Errorf("Expected UNKNOWN with zero range, got %s", v.Strength)
	}
}

func TestClassifyRegimeHighRisk(t *testing.T) {
	snap := types.MarketSnapshot{Close: 100, PrevClose: 99, VolatilityIndex: 22}

	v := ClassifyRegime(snap)
	if v.Regime != types.RegimeHighRisk {
		t.Errorf("Expected HIGH_RISK at VIX 22, got %s", v.Regime)
	}
	if v.Tradeable {
		t.Error("Expected HIGH_RISK regime to be untradeable")
	}
}

func TestClassifyRegimeSidewaysSmallMove(t *testing.T) {
	snap := types.MarketSnapshot{
		Close: 100.05, PrevClose: 100,
		High: 100.3, Low: 99.9,
		VolatilityIndex: 14,
	}

	v := ClassifyRegime(snap)
	if v.Regime != types.RegimeSideways {
		t.Errorf("Expected SIDEWAYS at 0.05%% move, got %s", v.Regime)
	}
}

func TestClassifyRegimeTrendingUp(t *testing.T) {
	snap := types.MarketSnapshot{
		Close: 102, PrevClose: 101.5,
		High: 102.2, Low: 101.6,
		PrevHigh: 101.7, PrevLow: 101.3,
		EMA20: 101.8, EMA50: 101.0,
		VolatilityIndex: 14,
	}

	v := ClassifyRegime(snap)
	if v.Regime != types.RegimeTrendingUp {
		t.Fatalf("Expected TRENDING_UP, got %s (%s)", v.Regime, v.Reason)
	}
	if !v.Tradeable {
		t.Error("Expected trending regime to be tradeable")
	}
}

func TestClassifyRegimeNoTradeWhenUnaligned(t *testing.T) {
	snap := types.MarketSnapshot{
		Close: 102, PrevClose: 101.5,
		High: 102.2, Low: 101.6,
		PrevHigh: 101.7, PrevLow: 101.3,
		EMA20: types.Absent, EMA50: types.Absent,
		VolatilityIndex: 14,
	}

	v := ClassifyRegime(snap)
	if v.Regime != types.RegimeNoTrade {
		t.Errorf("Expected NO_TRADE without EMA alignment, got %s", v.Regime)
	}
}
