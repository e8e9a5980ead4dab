package signal

import (
	"context"
	"time"

	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/logger"
	"signal-scanner/internal/types"
)

// Evaluator runs the full per-instrument pipeline: classifiers, scoring,
// risk-reward gate, then the safety overlay. It holds only immutable
// configuration and is safe for concurrent use across instruments.
type Evaluator struct {
	profile  Profile
	risk     RiskParams
	safety   SafetyParams
	scanners []interfaces.ContextScanner
	now      func() time.Time
}

var _ interfaces.Evaluator = (*Evaluator)(nil)

// Option configures an Evaluator at construction time.
type Option func(*Evaluator)

func WithProfile(p Profile) Option {
	return func(e *Evaluator) { e.profile = p }
}

func WithRiskParams(p RiskParams) Option {
	return func(e *Evaluator) { e.risk = p }
}

func WithSafetyParams(p SafetyParams) Option {
	return func(e *Evaluator) { e.safety = p }
}

// WithScanners injects the auxiliary context scanners. Pass an empty slice
// to run without auxiliary input; nil keeps the defaults.
func WithScanners(scanners []interfaces.ContextScanner) Option {
	return func(e *Evaluator) { e.scanners = scanners }
}

func withClock(now func() time.Time) Option {
	return func(e *Evaluator) { e.now = now }
}

func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{
		profile:  DefaultProfile(),
		risk:     DefaultRiskParams(),
		safety:   DefaultSafetyParams(),
		scanners: DefaultScanners(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate produces a fresh SignalVerdict for one snapshot. Every path
// terminates in a well-formed verdict; no error is ever returned to the
// caller from inside the pipeline.
func (e *Evaluator) Evaluate(ctx context.Context, snap types.MarketSnapshot, safety types.SafetyContext) types.SignalVerdict {
	verdict := types.SignalVerdict{
		Symbol: snap.Symbol,
		Signal: types.SignalWait,
		Price:  snap.Close,
		Time:   e.now(),
	}

	// Minimum-data guard runs before any scoring.
	if types.IsAbsent(snap.Close) || types.IsAbsent(snap.EMA20) ||
		types.IsAbsent(snap.EMA50) || types.IsAbsent(snap.RSI) {
		verdict.Confidence = types.ConfidenceLow
		verdict.Reason = "core data missing"
		logger.Debug(ctx, "Evaluation short-circuited", "symbol", snap.Symbol, "reason", verdict.Reason)
		return e.safety.Apply(verdict, safety)
	}

	in := ScoreInputs{
		Trend:    ClassifyTrend(snap),
		Momentum: ValidateMomentum(snap),
		Volume:   ValidateVolume(snap),
		Breakout: DetectBreakout(snap),
		Candle:   ClassifyCandle(snap),
		Regime:   ClassifyRegime(snap),
	}

	// Weak-context guard: when the primary picture is flatly absent the
	// auxiliary scanners alone must not reach a score.
	if in.Trend.Direction == types.TrendSideways && !in.Volume.Confirmed &&
		in.Breakout.Type == types.BreakoutNone && in.Candle.Strength == types.StrengthWeak {
		verdict.Confidence = types.ConfidenceLow
		verdict.Reason = "weak context: sideways, no volume, no breakout, weak candle"
		logger.Debug(ctx, "Evaluation short-circuited", "symbol", snap.Symbol, "reason", verdict.Reason)
		return e.safety.Apply(verdict, safety)
	}

	for _, scanner := range e.scanners {
		in.Aux = append(in.Aux, scanner.Scan(snap))
	}

	outcome := e.profile.Aggregate(in)
	verdict.Signal = outcome.Signal
	verdict.Confidence = outcome.Confidence
	verdict.Reason = outcome.Reason
	verdict.BullScore = outcome.Scores.Bull
	verdict.BearScore = outcome.Scores.Bear

	verdict = e.risk.Apply(verdict, snap.ATR)
	verdict = e.safety.Apply(verdict, safety)

	if verdict.Signal.Directional() {
		logger.Signal(ctx, verdict.Symbol, string(verdict.Signal), verdict.BullScore, verdict.BearScore, verdict.Reason)
	} else if verdict.Vetoed {
		logger.Veto(ctx, verdict.Symbol, verdict.Warnings, "reason", verdict.Reason)
	}

	return verdict
}
