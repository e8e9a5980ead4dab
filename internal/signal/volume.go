package signal

import (
	"fmt"

	"signal-scanner/internal/types"
)

const (
	volModerateRatio   = 1.1
	volStrongRatio     = 1.5
	volVeryStrongRatio = 2.0
)

// ValidateVolume grades current-vs-average volume into confirmation tiers.
// A zero or missing average fails safe toward no-confirmation.
func ValidateVolume(snap types.MarketSnapshot) types.VolumeVerdict {
	if types.IsAbsent(snap.Volume) || types.IsAbsent(snap.AvgVolume) || snap.AvgVolume <= 0 {
		return types.VolumeVerdict{
			Tier:   types.VolumeUnknown,
			Reason: "volume: average volume unavailable, unconfirmed",
		}
	}

	ratio := snap.Volume / snap.AvgVolume
	v := types.VolumeVerdict{Ratio: ratio}

	switch {
	case ratio >= volVeryStrongRatio:
		v.Tier = types.VolumeVeryStrong
		v.Confirmed = true
	case ratio >= volStrongRatio:
		v.Tier = types.VolumeStrong
		v.Confirmed = true
	case ratio >= volModerateRatio:
		v.Tier = types.VolumeModerate
		v.Confirmed = true
	default:
		v.Tier = types.VolumeWeak
	}

	v.Reason = fmt.Sprintf("volume: %.2fx average (%s)", ratio, v.Tier)
	return v
}
