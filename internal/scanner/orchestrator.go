package scanner

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"signal-scanner/internal/indicator"
	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/logger"
	"signal-scanner/internal/signallog"
	"signal-scanner/internal/types"
)

// Config drives one orchestrator instance.
type Config struct {
	Symbols       []string
	Interval      time.Duration
	Warmup        time.Duration
	MinVolume     float64
	TopN          int
	Parallelism   int
	CandleHistory int
	Journal       bool
}

// Orchestrator owns the process-wide scan lifecycle. Exactly one instance
// should exist; the state machine serializes start/stop and a dedicated
// cycle mutex keeps timer-driven and on-demand cycles from overlapping.
type Orchestrator struct {
	cfg      Config
	market   interfaces.MarketData
	eval     interfaces.Evaluator
	builder  *indicator.Builder
	vix      interfaces.VolatilityIndexProvider
	calendar interfaces.EventCalendar

	mu     sync.Mutex
	state  types.ScanState
	cancel context.CancelFunc
	done   chan struct{}

	cycleMu sync.Mutex
	cache   atomic.Pointer[types.ScanResult]

	panicState atomic.Bool

	countMu      sync.Mutex
	countDay     string
	signalsToday int
}

var _ interfaces.Orchestrator = (*Orchestrator)(nil)

func New(cfg Config, market interfaces.MarketData, eval interfaces.Evaluator, builder *indicator.Builder, vix interfaces.VolatilityIndexProvider, calendar interfaces.EventCalendar) *Orchestrator {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 8
	}
	if cfg.CandleHistory <= 0 {
		cfg.CandleHistory = 100
	}
	o := &Orchestrator{
		cfg:      cfg,
		market:   market,
		eval:     eval,
		builder:  builder,
		vix:      vix,
		calendar: calendar,
		state:    types.ScanIdle,
	}
	o.cache.Store(types.EmptyScanResult())
	return o
}

// SetPanicState flips the external panic flag consulted by the safety
// overlay on subsequent cycles.
func (o *Orchestrator) SetPanicState(on bool) {
	o.panicState.Store(on)
}

// Start begins the periodic scan loop. A start observed while a previous
// chain is STARTING, RUNNING, or still STOPPING is rejected with a
// non-error status; duplicate cycles against a rate-limited upstream are
// worse than a refused start.
func (o *Orchestrator) Start(ctx context.Context) types.StartStatus {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.state != types.ScanIdle {
		logger.Warn(ctx, "Scan start rejected", "state", string(o.state))
		return types.StartStatus{
			Started: false,
			State:   o.state,
			Message: "scan already in progress",
		}
	}

	o.state = types.ScanStarting
	loopCtx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.done = make(chan struct{})

	go o.run(loopCtx, o.done)

	logger.Info(ctx, "Scan loop starting",
		"symbols", len(o.cfg.Symbols),
		"interval", o.cfg.Interval.String(),
		"warmup", o.cfg.Warmup.String(),
	)
	return types.StartStatus{Started: true, State: types.ScanStarting, Message: "scan started"}
}

// Stop cancels the loop. Cooperative: an in-flight cycle finishes and may
// still write the cache; the state stays STOPPING until the loop goroutine
// exits, so an immediate restart is re-guarded.
func (o *Orchestrator) Stop(ctx context.Context) {
	o.mu.Lock()
	if o.state != types.ScanStarting && o.state != types.ScanRunning {
		o.mu.Unlock()
		return
	}
	o.state = types.ScanStopping
	cancel := o.cancel
	o.mu.Unlock()

	logger.Info(ctx, "Scan loop stopping")
	cancel()
}

// Status returns the current lifecycle state.
func (o *Orchestrator) Status() types.ScanState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// CachedResult returns the last completed cycle without blocking. Before
// any cycle completes it returns an explicit empty result.
func (o *Orchestrator) CachedResult() *types.ScanResult {
	return o.cache.Load()
}

func (o *Orchestrator) run(ctx context.Context, done chan struct{}) {
	defer func() {
		o.mu.Lock()
		o.state = types.ScanIdle
		o.mu.Unlock()
		close(done)
		logger.Info(ctx, "Scan loop stopped")
	}()

	// Warm-up delay before the first cycle.
	select {
	case <-time.After(o.cfg.Warmup):
	case <-ctx.Done():
		return
	}

	o.mu.Lock()
	if o.state == types.ScanStarting {
		o.state = types.ScanRunning
	}
	o.mu.Unlock()

	if _, err := o.RunCycle(ctx); err != nil {
		logger.ErrorWithErr(ctx, "Scan cycle failed, keeping previous result", err)
	}

	ticker := time.NewTicker(o.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := o.RunCycle(ctx); err != nil {
				// No retry storm: wait for the next scheduled tick.
				logger.ErrorWithErr(ctx, "Scan cycle failed, keeping previous result", err)
			}
		case <-ctx.Done():
			return
		}
	}
}

// RunCycle executes one full scan. Cycles are serialized; the cache swap is
// atomic so readers never observe a partial result. On fetch failure the
// previous cache is retained.
func (o *Orchestrator) RunCycle(ctx context.Context) (*types.ScanResult, error) {
	o.cycleMu.Lock()
	defer o.cycleMu.Unlock()

	start := time.Now()

	quotes, err := o.market.BatchQuotes(ctx, o.cfg.Symbols)
	if err != nil {
		return nil, err
	}

	vix := o.currentVIX(ctx)
	today := istNow()
	expiry := o.calendar != nil && o.calendar.IsExpiryDay(today)

	jobs := make(chan types.Quote)
	outs := make(chan evalResult)

	var wg sync.WaitGroup
	for i := 0; i < o.cfg.Parallelism; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for q := range jobs {
				outs <- o.evaluateOne(ctx, q, vix, today, expiry)
			}
		}()
	}
	go func() {
		wg.Wait()
		close(outs)
	}()

	filtered := 0
	go func() {
		defer close(jobs)
		for _, q := range quotes {
			if q.Volume < o.cfg.MinVolume {
				filtered++
				continue
			}
			select {
			case jobs <- q:
			case <-ctx.Done():
				return
			}
		}
	}()

	var signals []types.SignalVerdict
	buckets := map[types.PatternTag][]types.PatternHit{}
	failed := 0
	for out := range outs {
		if !out.ok {
			failed++
			continue
		}
		if out.verdict.Signal.Directional() {
			signals = append(signals, out.verdict)
		}
		for _, hit := range out.patterns {
			buckets[hit.Pattern] = append(buckets[hit.Pattern], hit)
		}
	}

	// Rank actionable signals by combined score strength.
	sort.Slice(signals, func(i, j int) bool {
		si := signals[i].BullScore + signals[i].BearScore
		sj := signals[j].BullScore + signals[j].BearScore
		if si != sj {
			return si > sj
		}
		return signals[i].Symbol < signals[j].Symbol
	})

	o.recordSignals(ctx, signals)

	result := &types.ScanResult{
		Available:    true,
		Signals:      signals,
		Patterns:     RankPatterns(buckets, o.cfg.TopN),
		LastScanTime: start,
		DurationMs:   time.Since(start).Milliseconds(),
		Scanned:      len(quotes),
		Filtered:     filtered,
		Failed:       failed,
	}
	o.cache.Store(result)

	logger.Info(ctx, "Scan cycle completed",
		"scanned", result.Scanned,
		"filtered", result.Filtered,
		"failed", result.Failed,
		"signals", len(result.Signals),
		"duration_ms", result.DurationMs,
	)
	return result, nil
}

// evalResult carries one instrument's outcome back from a worker.
type evalResult struct {
	verdict  types.SignalVerdict
	patterns []types.PatternHit
	ok       bool
}

func (o *Orchestrator) evaluateOne(ctx context.Context, q types.Quote, vix float64, today time.Time, expiry bool) (out evalResult) {
	candles, err := o.market.RecentCandles(ctx, q.Symbol, o.cfg.CandleHistory)
	if err != nil {
		logger.Warn(ctx, "Candle fetch failed, skipping instrument", "symbol", q.Symbol, "error", err)
		return out
	}

	snap := o.builder.Build(q, candles, vix)

	safety := types.SafetyContext{
		IsExpiryDay:     expiry,
		TradeCountToday: o.tradeCount(today),
		TradeType:       "INTRADAY",
		VolatilityIndex: vix,
		PanicState:      o.panicState.Load(),
	}
	if o.calendar != nil {
		safety.IsResultDay = o.calendar.IsResultDay(ctx, q.Symbol, today)
	}

	out.verdict = o.eval.Evaluate(ctx, snap, safety)
	out.patterns = DetectPatterns(snap, ComputeMetrics(snap))
	out.ok = true
	return out
}

func (o *Orchestrator) currentVIX(ctx context.Context) float64 {
	if o.vix == nil {
		return types.Absent
	}
	v, err := o.vix.Current(ctx)
	if err != nil {
		logger.Warn(ctx, "Volatility index unavailable", "error", err)
		return types.Absent
	}
	return v
}

// recordSignals counts today's directional emissions for the overtrade
// check and appends them to the journal.
func (o *Orchestrator) recordSignals(ctx context.Context, signals []types.SignalVerdict) {
	if len(signals) == 0 {
		return
	}

	day := istNow().Format("2006-01-02")
	o.countMu.Lock()
	if o.countDay != day {
		o.countDay = day
		o.signalsToday = 0
	}
	o.signalsToday += len(signals)
	o.countMu.Unlock()

	if !o.cfg.Journal {
		return
	}
	for _, v := range signals {
		if err := signallog.Append(signallog.Entry{
			Symbol:     v.Symbol,
			Signal:     string(v.Signal),
			Confidence: string(v.Confidence),
			Price:      v.Price,
			BullScore:  v.BullScore,
			BearScore:  v.BearScore,
			Reason:     v.Reason,
		}); err != nil {
			logger.Warn(ctx, "Failed to journal signal", "symbol", v.Symbol, "error", err)
		}
	}
}

func (o *Orchestrator) tradeCount(today time.Time) int {
	day := today.Format("2006-01-02")
	o.countMu.Lock()
	defer o.countMu.Unlock()
	if o.countDay != day {
		return 0
	}
	return o.signalsToday
}

func istNow() time.Time {
	return time.Now().In(time.FixedZone("IST", 19800))
}
