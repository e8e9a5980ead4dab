package scanner

import (
	"signal-scanner/internal/types"
)

// ComputeMetrics derives the per-instrument numbers shown alongside signals.
// It is independent of the signal pipeline and never fails; fields that
// cannot be computed stay zero.
func ComputeMetrics(snap types.MarketSnapshot) types.InstrumentMetrics {
	m := types.InstrumentMetrics{Symbol: snap.Symbol}

	if !types.IsAbsent(snap.PrevClose) && snap.PrevClose != 0 {
		m.ChangePct = (snap.Close - snap.PrevClose) / snap.PrevClose * 100.0
		m.RangePct = (snap.High - snap.Low) / snap.PrevClose * 100.0
	}

	span := snap.High - snap.Low
	if span > 0 {
		m.PositionInRange = (snap.Close - snap.Low) / span * 100.0
		m.BuyingPressure = m.PositionInRange
	}

	if !types.IsAbsent(snap.VWAP) && snap.VWAP != 0 {
		m.VWAPDeviation = (snap.Close - snap.VWAP) / snap.VWAP * 100.0
	}

	if !types.IsAbsent(snap.AvgVolume) && snap.AvgVolume > 0 {
		m.VolumeRatio = snap.Volume / snap.AvgVolume
	}

	return m
}
