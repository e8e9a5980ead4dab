package scanner

import (
	"fmt"
	"math"
	"sort"

	"signal-scanner/internal/types"
)

const (
	volumeSpikeRatio    = 2.0
	momentumChangePct   = 2.0
	rangeExpansionRatio = 1.8
	compressionWidthPct = 2.0
	preBreakoutProximity = 0.005
)

// DetectPatterns tags the structural patterns an instrument currently
// matches. Each hit carries its own relevance metric for in-bucket ranking.
func DetectPatterns(snap types.MarketSnapshot, m types.InstrumentMetrics) []types.PatternHit {
	var hits []types.PatternHit

	add := func(tag types.PatternTag, relevance float64, note string) {
		hits = append(hits, types.PatternHit{
			Symbol:    snap.Symbol,
			Pattern:   tag,
			Relevance: relevance,
			Metrics:   m,
			Note:      note,
		})
	}

	if m.VolumeRatio >= volumeSpikeRatio {
		add(types.PatternVolumeSpike, m.VolumeRatio, fmt.Sprintf("%.1fx average volume", m.VolumeRatio))
	}

	if !types.IsAbsent(snap.RangeHigh) && !types.IsAbsent(snap.RangeLow) {
		switch {
		case snap.Close > snap.RangeHigh:
			add(types.PatternBreakout, math.Abs(m.ChangePct), fmt.Sprintf("above range high %.2f", snap.RangeHigh))
		case snap.Close < snap.RangeLow:
			add(types.PatternBreakout, math.Abs(m.ChangePct), fmt.Sprintf("below range low %.2f", snap.RangeLow))
		case snap.Close >= snap.RangeHigh*(1.0-preBreakoutProximity) && m.VolumeRatio >= 1.2:
			add(types.PatternPreBreakout, m.VolumeRatio, fmt.Sprintf("pressing range high %.2f", snap.RangeHigh))
		case snap.Close <= snap.RangeLow*(1.0+preBreakoutProximity) && m.VolumeRatio >= 1.2:
			add(types.PatternPreBreakout, m.VolumeRatio, fmt.Sprintf("pressing range low %.2f", snap.RangeLow))
		}

		if snap.Close != 0 {
			widthPct := (snap.RangeHigh - snap.RangeLow) / snap.Close * 100.0
			if widthPct > 0 && widthPct < compressionWidthPct {
				add(types.PatternCompression, compressionWidthPct-widthPct, fmt.Sprintf("range width %.2f%%", widthPct))
			}
		}
	}

	if snap.PrevHigh > snap.PrevLow {
		prevSpan := snap.PrevHigh - snap.PrevLow
		span := snap.High - snap.Low
		if ratio := span / prevSpan; ratio >= rangeExpansionRatio {
			add(types.PatternRangeExpansion, ratio, fmt.Sprintf("%.1fx previous bar range", ratio))
		}
	}

	if !types.IsAbsent(snap.VWAP) && snap.VWAP != 0 {
		switch {
		case snap.Low < snap.VWAP && snap.Close > snap.VWAP:
			add(types.PatternVWAPBounce, math.Abs(m.VWAPDeviation), "reclaimed VWAP from below")
		case snap.High > snap.VWAP && snap.Close < snap.VWAP:
			add(types.PatternVWAPBounce, math.Abs(m.VWAPDeviation), "rejected at VWAP from above")
		}
	}

	if math.Abs(m.ChangePct) >= momentumChangePct {
		add(types.PatternMomentum, math.Abs(m.ChangePct), fmt.Sprintf("%+.2f%% on the day", m.ChangePct))
	}

	return hits
}

// RankPatterns orders each bucket by relevance (descending, symbol as the
// tie-break) and truncates to topN.
func RankPatterns(buckets map[types.PatternTag][]types.PatternHit, topN int) map[types.PatternTag][]types.PatternHit {
	ranked := make(map[types.PatternTag][]types.PatternHit, len(buckets))
	for tag, hits := range buckets {
		sorted := make([]types.PatternHit, len(hits))
		copy(sorted, hits)
		sort.Slice(sorted, func(i, j int) bool {
			if sorted[i].Relevance != sorted[j].Relevance {
				return sorted[i].Relevance > sorted[j].Relevance
			}
			return sorted[i].Symbol < sorted[j].Symbol
		})
		if topN > 0 && len(sorted) > topN {
			sorted = sorted[:topN]
		}
		ranked[tag] = sorted
	}
	return ranked
}
