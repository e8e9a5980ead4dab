package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"signal-scanner/internal/indicator"
	"signal-scanner/internal/types"
)

type stubMarket struct {
	quotes   map[string]types.Quote
	candles  map[string][]types.Candle
	fetchErr error
}

func (m *stubMarket) BatchQuotes(ctx context.Context, symbols []string) (map[string]types.Quote, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.quotes, nil
}

func (m *stubMarket) LTP(ctx context.Context, symbol string) (float64, error) { return 0, nil }

func (m *stubMarket) RecentCandles(ctx context.Context, symbol string, n int) ([]types.Candle, error) {
	candles, ok := m.candles[symbol]
	if !ok {
		return nil, errors.New("no candles")
	}
	return candles, nil
}

func (m *stubMarket) Start(ctx context.Context, symbols []string) error { return nil }
func (m *stubMarket) Stop(ctx context.Context)                          {}

// stubEvaluator returns a fixed verdict per symbol, WAIT otherwise.
type stubEvaluator struct {
	verdicts map[string]types.SignalVerdict
}

func (e *stubEvaluator) Evaluate(ctx context.Context, snap types.MarketSnapshot, safety types.SafetyContext) types.SignalVerdict {
	if v, ok := e.verdicts[snap.Symbol]; ok {
		return v
	}
	return types.SignalVerdict{Symbol: snap.Symbol, Signal: types.SignalWait, Confidence: types.ConfidenceLow}
}

func flatCandles(n int, price float64) []types.Candle {
	out := make([]types.Candle, n)
	for i := range out {
		out[i] = types.Candle{Open: price, High: price + 1, Low: price - 1, Close: price, Vol: 1000}
	}
	return out
}

func newTestOrchestrator(cfg Config, m *stubMarket, e *stubEvaluator) *Orchestrator {
	return New(cfg, m, e, indicator.NewBuilder(indicator.DefaultPeriods()), nil, nil)
}

func waitForState(t *testing.T, o *Orchestrator, want types.ScanState) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if o.Status() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for state %s, still %s", want, o.Status())
}

func TestStartRejectsDuplicate(t *testing.T) {
	m := &stubMarket{quotes: map[string]types.Quote{}}
	o := newTestOrchestrator(Config{Symbols: []string{"TCS"}, Warmup: time.Hour, Interval: time.Hour}, m, &stubEvaluator{})

	ctx := context.Background()
	first := o.Start(ctx)
	if !first.Started {
		t.Fatalf("Expected first start to be accepted: %s", first.Message)
	}

	second := o.Start(ctx)
	if second.Started {
		t.Fatal("Expected duplicate start to be rejected")
	}
	if second.Message != "scan already in progress" {
		t.Errorf("Expected rejection message, got %q", second.Message)
	}

	o.Stop(ctx)
	waitForState(t, o, types.ScanIdle)

	// After the loop has fully exited, a fresh start is accepted again.
	third := o.Start(ctx)
	if !third.Started {
		t.Errorf("Expected restart after stop to be accepted: %s", third.Message)
	}
	o.Stop(ctx)
	waitForState(t, o, types.ScanIdle)
}

func TestStopOnIdleIsNoOp(t *testing.T) {
	o := newTestOrchestrator(Config{Symbols: []string{"TCS"}}, &stubMarket{}, &stubEvaluator{})

	o.Stop(context.Background())
	if o.Status() != types.ScanIdle {
		t.Errorf("Expected IDLE after no-op stop, got %s", o.Status())
	}
}

func TestCachedResultBeforeFirstCycle(t *testing.T) {
	o := newTestOrchestrator(Config{Symbols: []string{"TCS"}}, &stubMarket{}, &stubEvaluator{})

	for i := 0; i < 3; i++ {
		res := o.CachedResult()
		if res == nil {
			t.Fatal("Expected a non-nil empty result before the first cycle")
		}
		if res.Available {
			t.Error("Expected result to report unavailable before the first cycle")
		}
		if len(res.Signals) != 0 {
			t.Error("Expected no signals before the first cycle")
		}
	}
}

func TestRunCycleFiltersAndRanks(t *testing.T) {
	m := &stubMarket{
		quotes: map[string]types.Quote{
			"LOWVOL":   {Symbol: "LOWVOL", Close: 100, Volume: 500},
			"MODEST":   {Symbol: "MODEST", Close: 200, Volume: 5000},
			"STRONGER": {Symbol: "STRONGER", Close: 300, Volume: 5000},
		},
		candles: map[string][]types.Candle{
			"MODEST":   flatCandles(60, 200),
			"STRONGER": flatCandles(60, 300),
		},
	}
	e := &stubEvaluator{verdicts: map[string]types.SignalVerdict{
		"MODEST":   {Symbol: "MODEST", Signal: types.SignalBuy, BullScore: 3},
		"STRONGER": {Symbol: "STRONGER", Signal: types.SignalStrongBuy, BullScore: 8},
	}}
	o := newTestOrchestrator(Config{Symbols: []string{"LOWVOL", "MODEST", "STRONGER"}, MinVolume: 1000, TopN: 5}, m, e)

	res, err := o.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	if res.Scanned != 3 {
		t.Errorf("Expected 3 scanned, got %d", res.Scanned)
	}
	if res.Filtered != 1 {
		t.Errorf("Expected 1 filtered by liquidity, got %d", res.Filtered)
	}
	if len(res.Signals) != 2 {
		t.Fatalf("Expected 2 signals, got %d", len(res.Signals))
	}
	if res.Signals[0].Symbol != "STRONGER" || res.Signals[1].Symbol != "MODEST" {
		t.Errorf("Expected score-descending order, got %s then %s", res.Signals[0].Symbol, res.Signals[1].Symbol)
	}
	if !res.Available {
		t.Error("Expected completed cycle to be available")
	}

	if cached := o.CachedResult(); cached != res {
		t.Error("Expected cache to hold the latest cycle result")
	}
}

func TestRunCycleCountsFailedInstruments(t *testing.T) {
	m := &stubMarket{
		quotes: map[string]types.Quote{
			"NOCANDLES": {Symbol: "NOCANDLES", Close: 100, Volume: 5000},
		},
		candles: map[string][]types.Candle{},
	}
	o := newTestOrchestrator(Config{Symbols: []string{"NOCANDLES"}}, m, &stubEvaluator{})

	res, err := o.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	if res.Failed != 1 {
		t.Errorf("Expected 1 failed instrument, got %d", res.Failed)
	}
}

func TestRunCycleFetchErrorRetainsCache(t *testing.T) {
	m := &stubMarket{
		quotes: map[string]types.Quote{
			"TCS": {Symbol: "TCS", Close: 100, Volume: 5000},
		},
		candles: map[string][]types.Candle{"TCS": flatCandles(60, 100)},
	}
	o := newTestOrchestrator(Config{Symbols: []string{"TCS"}}, m, &stubEvaluator{})

	good, err := o.RunCycle(context.Background())
	if err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}

	m.fetchErr = errors.New("upstream down")
	if _, err := o.RunCycle(context.Background()); err == nil {
		t.Fatal("Expected a fetch error")
	}

	if cached := o.CachedResult(); cached != good {
		t.Error("Expected failed cycle to leave the previous result cached")
	}
}

func TestPanicStateReachesSafetyContext(t *testing.T) {
	var seen types.SafetyContext
	e := &capturingEvaluator{captured: &seen}
	m := &stubMarket{
		quotes:  map[string]types.Quote{"TCS": {Symbol: "TCS", Close: 100, Volume: 5000}},
		candles: map[string][]types.Candle{"TCS": flatCandles(60, 100)},
	}
	o := newTestOrchestrator(Config{Symbols: []string{"TCS"}}, m, nil)
	o.eval = e
	o.SetPanicState(true)

	if _, err := o.RunCycle(context.Background()); err != nil {
		t.Fatalf("RunCycle failed: %v", err)
	}
	if !seen.PanicState {
		t.Error("Expected panic flag to reach the safety context")
	}
}

// capturingEvaluator records the last safety context it saw.
type capturingEvaluator struct {
	captured *types.SafetyContext
}

func (e *capturingEvaluator) Evaluate(ctx context.Context, snap types.MarketSnapshot, safety types.SafetyContext) types.SignalVerdict {
	*e.captured = safety
	return types.SignalVerdict{Symbol: snap.Symbol, Signal: types.SignalWait}
}
