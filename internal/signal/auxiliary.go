package signal

import (
	"fmt"
	"math"

	"signal-scanner/internal/interfaces"
	"signal-scanner/internal/types"
)

// noHit is the neutral verdict for a scanner that cannot or does not fire.
func noHit(name, reason string) types.AuxVerdict {
	return types.AuxVerdict{Scanner: name, Hit: false, Reason: reason}
}

// NoOpScanner stands in for an auxiliary capability that is not wired.
type NoOpScanner struct {
	ScannerName string
}

var _ interfaces.ContextScanner = (*NoOpScanner)(nil)

func (s *NoOpScanner) Name() string { return s.ScannerName }

func (s *NoOpScanner) Scan(types.MarketSnapshot) types.AuxVerdict {
	return noHit(s.ScannerName, s.ScannerName+": unavailable")
}

// PreBreakoutScanner fires when price is compressing against a range edge
// with volume already picking up.
type PreBreakoutScanner struct{}

var _ interfaces.ContextScanner = (*PreBreakoutScanner)(nil)

func (s *PreBreakoutScanner) Name() string { return "pre_breakout" }

func (s *PreBreakoutScanner) Scan(snap types.MarketSnapshot) types.AuxVerdict {
	if types.IsAbsent(snap.Close) || types.IsAbsent(snap.RangeHigh) || types.IsAbsent(snap.RangeLow) {
		return noHit(s.Name(), "pre-breakout: range data unavailable")
	}
	if types.IsAbsent(snap.AvgVolume) || snap.AvgVolume <= 0 {
		return noHit(s.Name(), "pre-breakout: volume data unavailable")
	}
	volRatio := snap.Volume / snap.AvgVolume
	if volRatio < 1.2 {
		return noHit(s.Name(), "pre-breakout: no volume pickup")
	}

	const proximityPct = 0.005
	switch {
	case snap.Close < snap.RangeHigh && snap.Close >= snap.RangeHigh*(1.0-proximityPct):
		return types.AuxVerdict{
			Scanner:   s.Name(),
			Hit:       true,
			Direction: types.SignalBuy,
			Points:    2,
			Reason:    fmt.Sprintf("pre-breakout: %.2f pressing range high %.2f on %.1fx volume", snap.Close, snap.RangeHigh, volRatio),
		}
	case snap.Close > snap.RangeLow && snap.Close <= snap.RangeLow*(1.0+proximityPct):
		return types.AuxVerdict{
			Scanner:   s.Name(),
			Hit:       true,
			Direction: types.SignalSell,
			Points:    2,
			Reason:    fmt.Sprintf("pre-breakdown: %.2f pressing range low %.2f on %.1fx volume", snap.Close, snap.RangeLow, volRatio),
		}
	}
	return noHit(s.Name(), "pre-breakout: price not at range edge")
}

// VolumeBuildupScanner fires on sustained above-average volume backing the
// bar's direction, short of a full spike.
type VolumeBuildupScanner struct{}

var _ interfaces.ContextScanner = (*VolumeBuildupScanner)(nil)

func (s *VolumeBuildupScanner) Name() string { return "volume_buildup" }

func (s *VolumeBuildupScanner) Scan(snap types.MarketSnapshot) types.AuxVerdict {
	if types.IsAbsent(snap.Volume) || types.IsAbsent(snap.AvgVolume) || snap.AvgVolume <= 0 {
		return noHit(s.Name(), "volume buildup: volume data unavailable")
	}
	ratio := snap.Volume / snap.AvgVolume
	if ratio < 1.3 {
		return noHit(s.Name(), "volume buildup: no buildup")
	}
	dir := types.SignalBuy
	if snap.Close < snap.Open {
		dir = types.SignalSell
	}
	return types.AuxVerdict{
		Scanner:   s.Name(),
		Hit:       true,
		Direction: dir,
		Points:    2,
		Reason:    fmt.Sprintf("volume buildup: %.1fx average behind %s bar", ratio, dir),
	}
}

// RangeCompressionScanner fires when the rolling range has tightened,
// hinting at an imminent expansion in the prevailing EMA direction.
type RangeCompressionScanner struct{}

var _ interfaces.ContextScanner = (*RangeCompressionScanner)(nil)

func (s *RangeCompressionScanner) Name() string { return "range_compression" }

func (s *RangeCompressionScanner) Scan(snap types.MarketSnapshot) types.AuxVerdict {
	if types.IsAbsent(snap.Close) || snap.Close == 0 ||
		types.IsAbsent(snap.RangeHigh) || types.IsAbsent(snap.RangeLow) {
		return noHit(s.Name(), "compression: range data unavailable")
	}
	widthPct := (snap.RangeHigh - snap.RangeLow) / snap.Close * 100.0
	if widthPct >= 2.0 {
		return noHit(s.Name(), fmt.Sprintf("compression: range width %.2f%% not compressed", widthPct))
	}
	dir := types.SignalBuy
	if !types.IsAbsent(snap.EMA20) && snap.Close < snap.EMA20 {
		dir = types.SignalSell
	}
	return types.AuxVerdict{
		Scanner:   s.Name(),
		Hit:       true,
		Direction: dir,
		Points:    2,
		Reason:    fmt.Sprintf("compression: range width %.2f%%, bias %s", widthPct, dir),
	}
}

// HTFAlignmentScanner fires when the higher timeframe agrees with the
// intraday EMA structure.
type HTFAlignmentScanner struct{}

var _ interfaces.ContextScanner = (*HTFAlignmentScanner)(nil)

func (s *HTFAlignmentScanner) Name() string { return "htf_alignment" }

func (s *HTFAlignmentScanner) Scan(snap types.MarketSnapshot) types.AuxVerdict {
	if snap.HTF == nil {
		return noHit(s.Name(), "htf: higher timeframe unavailable")
	}
	h := snap.HTF
	switch {
	case h.Close > h.EMA20 && h.EMA20 > h.EMA50 && alignedUp(snap):
		return types.AuxVerdict{
			Scanner:   s.Name(),
			Hit:       true,
			Direction: types.SignalBuy,
			Points:    2,
			Reason:    "htf: higher timeframe aligned up",
		}
	case h.Close < h.EMA20 && h.EMA20 < h.EMA50 && alignedDown(snap):
		return types.AuxVerdict{
			Scanner:   s.Name(),
			Hit:       true,
			Direction: types.SignalSell,
			Points:    2,
			Reason:    "htf: higher timeframe aligned down",
		}
	}
	return noHit(s.Name(), "htf: timeframes disagree")
}

// InstitutionalScanner reads the options-market context (open interest,
// put-call ratio, breadth) when the feed supplies it.
type InstitutionalScanner struct{}

var _ interfaces.ContextScanner = (*InstitutionalScanner)(nil)

func (s *InstitutionalScanner) Name() string { return "institutional" }

func (s *InstitutionalScanner) Scan(snap types.MarketSnapshot) types.AuxVerdict {
	if types.IsAbsent(snap.PutCallRatio) || types.IsAbsent(snap.OIChangePct) {
		return noHit(s.Name(), "institutional: options feed unavailable")
	}

	pcr := snap.PutCallRatio
	oi := snap.OIChangePct
	breadthUp := !types.IsAbsent(snap.AdvanceDecline) && snap.AdvanceDecline > 1.0
	breadthDown := !types.IsAbsent(snap.AdvanceDecline) && snap.AdvanceDecline < 1.0 && snap.AdvanceDecline > 0

	switch {
	case pcr < 0.9 && oi > 0 && (types.IsAbsent(snap.AdvanceDecline) || breadthUp):
		return types.AuxVerdict{
			Scanner:   s.Name(),
			Hit:       true,
			Direction: types.SignalBuy,
			Points:    3,
			Reason:    fmt.Sprintf("institutional: PCR %.2f, OI +%.1f%% bullish", pcr, oi),
		}
	case pcr > 1.1 && oi > 0 && (types.IsAbsent(snap.AdvanceDecline) || breadthDown):
		return types.AuxVerdict{
			Scanner:   s.Name(),
			Hit:       true,
			Direction: types.SignalSell,
			Points:    3,
			Reason:    fmt.Sprintf("institutional: PCR %.2f, OI +%.1f%% bearish", pcr, math.Abs(oi)),
		}
	}
	return noHit(s.Name(), "institutional: no directional skew")
}

// DefaultScanners is the standard auxiliary set, in evaluation order.
func DefaultScanners() []interfaces.ContextScanner {
	return []interfaces.ContextScanner{
		&PreBreakoutScanner{},
		&VolumeBuildupScanner{},
		&RangeCompressionScanner{},
		&HTFAlignmentScanner{},
		&InstitutionalScanner{},
	}
}
