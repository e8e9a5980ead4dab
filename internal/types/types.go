package types

import (
	"math"
	"time"
)

type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// Absent marks a numeric field for which no data is available. Classifiers
// must treat Absent values as "insufficient data", never as zero.
var Absent = math.NaN()

func IsAbsent(v float64) bool { return math.IsNaN(v) }

// MarketSnapshot is the immutable per-instrument input to one evaluation.
// Optional fields carry Absent when the upstream source did not supply them.
type MarketSnapshot struct {
	Symbol    string
	Ts        int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	PrevClose float64
	PrevHigh  float64
	PrevLow   float64
	Volume    float64
	AvgVolume float64

	EMA20     float64
	EMA50     float64
	RSI       float64
	ATR       float64
	RangeHigh float64
	RangeLow  float64
	VWAP      float64

	VolatilityIndex float64

	// Higher-timeframe context, nil when unavailable.
	HTF *HTFSnapshot

	// Institutional fields, Absent when the options feed is unavailable.
	OIChangePct    float64
	PutCallRatio   float64
	AdvanceDecline float64
}

type HTFSnapshot struct {
	Close float64
	EMA20 float64
	EMA50 float64
}

type Signal string

const (
	SignalWait       Signal = "WAIT"
	SignalBuy        Signal = "BUY"
	SignalSell       Signal = "SELL"
	SignalStrongBuy  Signal = "STRONG_BUY"
	SignalStrongSell Signal = "STRONG_SELL"
)

// Directional reports whether s is an actionable call rather than WAIT.
func (s Signal) Directional() bool { return s != SignalWait && s != "" }

// Bullish reports whether s points up.
func (s Signal) Bullish() bool { return s == SignalBuy || s == SignalStrongBuy }

type Confidence string

const (
	ConfidenceHigh   Confidence = "HIGH"
	ConfidenceMedium Confidence = "MEDIUM"
	ConfidenceLow    Confidence = "LOW"
)

type TrendDirection string

const (
	TrendUp       TrendDirection = "UPTREND"
	TrendDown     TrendDirection = "DOWNTREND"
	TrendSideways TrendDirection = "SIDEWAYS"
	TrendUnknown  TrendDirection = "UNKNOWN"
)

type Strength string

const (
	StrengthStrong   Strength = "STRONG"
	StrengthModerate Strength = "MODERATE"
	StrengthWeak     Strength = "WEAK"
	StrengthUnknown  Strength = "UNKNOWN"
)

type VolumeTier string

const (
	VolumeWeak       VolumeTier = "WEAK"
	VolumeModerate   VolumeTier = "MODERATE"
	VolumeStrong     VolumeTier = "STRONG"
	VolumeVeryStrong VolumeTier = "VERY_STRONG"
	VolumeUnknown    VolumeTier = "UNKNOWN"
)

type BreakoutType string

const (
	BreakoutNone  BreakoutType = "NONE"
	HardBreakout  BreakoutType = "HARD_BREAKOUT"
	SoftBreakout  BreakoutType = "SOFT_BREAKOUT"
	HardBreakdown BreakoutType = "HARD_BREAKDOWN"
	SoftBreakdown BreakoutType = "SOFT_BREAKDOWN"
)

func (b BreakoutType) Bullish() bool { return b == HardBreakout || b == SoftBreakout }
func (b BreakoutType) Bearish() bool { return b == HardBreakdown || b == SoftBreakdown }
func (b BreakoutType) Hard() bool    { return b == HardBreakout || b == HardBreakdown }
func (b BreakoutType) Soft() bool    { return b == SoftBreakout || b == SoftBreakdown }

type Regime string

const (
	RegimeTrendingUp   Regime = "TRENDING_UP"
	RegimeTrendingDown Regime = "TRENDING_DOWN"
	RegimeSideways     Regime = "SIDEWAYS"
	RegimeHighRisk     Regime = "HIGH_RISK"
	RegimeNoTrade      Regime = "NO_TRADE"
)

type TrendVerdict struct {
	Direction TrendDirection
	Strength  Strength
	Reason    string
}

type MomentumVerdict struct {
	Value     float64
	AllowUp   bool
	AllowDown bool
	BoostUp   bool
	BoostDown bool
	Reason    string
}

type VolumeVerdict struct {
	Tier      VolumeTier
	Ratio     float64
	Confirmed bool
	Reason    string
}

type BreakoutVerdict struct {
	Type   BreakoutType
	Reason string
}

type CandleVerdict struct {
	Strength  Strength
	BodyPct   float64
	ChangePct float64
	Reason    string
}

type RegimeVerdict struct {
	Regime    Regime
	Tradeable bool
	Reason    string
}

// AuxVerdict is the result of one optional context scanner. A scanner that
// cannot run reports Hit=false with a neutral reason.
type AuxVerdict struct {
	Scanner   string
	Hit       bool
	Direction Signal
	Points    int
	Reason    string
}

// ScoreState accumulates the two competing directional scores. Contributions
// are always additive, so both sides stay non-negative.
type ScoreState struct {
	Bull  int
	Bear  int
	Notes []string
}

func (s *ScoreState) AddBull(pts int, note string) {
	s.Bull += pts
	s.Notes = append(s.Notes, note)
}

func (s *ScoreState) AddBear(pts int, note string) {
	s.Bear += pts
	s.Notes = append(s.Notes, note)
}

type RiskRewardResult struct {
	Entry      float64 `json:"entry"`
	Target     float64 `json:"target"`
	StopLoss   float64 `json:"stop_loss"`
	Ratio      float64 `json:"ratio"`
	Grade      string  `json:"grade"`
	Acceptable bool    `json:"acceptable"`
}

// SafetyContext is the read-only input to the safety overlay. It is built
// from calendar/market state, never from the verdict under evaluation.
type SafetyContext struct {
	IsResultDay     bool
	IsExpiryDay     bool
	TradeCountToday int
	TradeType       string
	VolatilityIndex float64
	PanicState      bool
}

// SignalVerdict is the only entity handed to collaborators. It is plain data
// and is never mutated after construction.
type SignalVerdict struct {
	Symbol     string            `json:"symbol"`
	Signal     Signal            `json:"signal"`
	Confidence Confidence        `json:"confidence"`
	Reason     string            `json:"reason"`
	BullScore  int               `json:"bull_score"`
	BearScore  int               `json:"bear_score"`
	Price      float64           `json:"price"`
	RiskReward *RiskRewardResult `json:"risk_reward,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
	Vetoed     bool              `json:"vetoed,omitempty"`
	Time       time.Time         `json:"time"`
}

type ScanState string

const (
	ScanIdle     ScanState = "IDLE"
	ScanStarting ScanState = "STARTING"
	ScanRunning  ScanState = "RUNNING"
	ScanStopping ScanState = "STOPPING"
)

// StartStatus is the non-error outcome of a start request. A start observed
// while a cycle chain is active reports Started=false with a message.
type StartStatus struct {
	Started bool      `json:"started"`
	State   ScanState `json:"state"`
	Message string    `json:"message"`
}

// Quote is one instrument's row from a batched fetch.
type Quote struct {
	Symbol    string
	Ts        int64
	Open      float64
	High      float64
	Low       float64
	Close     float64
	PrevClose float64
	PrevHigh  float64
	PrevLow   float64
	Volume    float64
	AvgVolume float64
	VWAP      float64
}

// InstrumentMetrics are the derived per-instrument numbers computed each
// cycle, independent of the signal pipeline.
type InstrumentMetrics struct {
	Symbol          string  `json:"symbol"`
	ChangePct       float64 `json:"change_pct"`
	RangePct        float64 `json:"range_pct"`
	PositionInRange float64 `json:"position_in_range"`
	VWAPDeviation   float64 `json:"vwap_deviation"`
	BuyingPressure  float64 `json:"buying_pressure"`
	VolumeRatio     float64 `json:"volume_ratio"`
}

type PatternTag string

const (
	PatternVolumeSpike    PatternTag = "VOLUME_SPIKE"
	PatternBreakout       PatternTag = "BREAKOUT"
	PatternPreBreakout    PatternTag = "PRE_BREAKOUT"
	PatternRangeExpansion PatternTag = "RANGE_EXPANSION"
	PatternVWAPBounce     PatternTag = "VWAP_BOUNCE"
	PatternMomentum       PatternTag = "MOMENTUM"
	PatternCompression    PatternTag = "COMPRESSION"
)

// PatternHit is one instrument matching one structural pattern; Relevance
// orders hits inside their bucket (meaning differs per pattern).
type PatternHit struct {
	Symbol    string            `json:"symbol"`
	Pattern   PatternTag        `json:"pattern"`
	Relevance float64           `json:"relevance"`
	Metrics   InstrumentMetrics `json:"metrics"`
	Note      string            `json:"note,omitempty"`
}

// ScanResult is the aggregate of one completed cycle. Replaced atomically;
// readers see either the previous or the new result, never a partial one.
type ScanResult struct {
	Available    bool                        `json:"available"`
	Signals      []SignalVerdict             `json:"signals"`
	Patterns     map[PatternTag][]PatternHit `json:"patterns"`
	LastScanTime time.Time                   `json:"last_scan_time"`
	DurationMs   int64                       `json:"duration_ms"`
	Scanned      int                         `json:"scanned"`
	Filtered     int                         `json:"filtered"`
	Failed       int                         `json:"failed"`
}

// EmptyScanResult is returned before the first completed cycle.
func EmptyScanResult() *ScanResult {
	return &ScanResult{
		Available: false,
		Signals:   []SignalVerdict{},
		Patterns:  map[PatternTag][]PatternHit{},
	}
}
