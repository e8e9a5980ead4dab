package indicator

import (
	"signal-scanner/internal/types"
)

// Normalize coerces a raw indicator field into a single scalar. Scalars pass
// through, ordered sequences collapse to their last element, and anything
// else (empty sequence, nil, unsupported type) becomes types.Absent. It
// never panics; absence propagates downstream as insufficient data.
func Normalize(v any) float64 {
	switch x := v.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case []float64:
		if len(x) == 0 {
			return types.Absent
		}
		return x[len(x)-1]
	case []float32:
		if len(x) == 0 {
			return types.Absent
		}
		return float64(x[len(x)-1])
	case []int:
		if len(x) == 0 {
			return types.Absent
		}
		return float64(x[len(x)-1])
	case []any:
		if len(x) == 0 {
			return types.Absent
		}
		return Normalize(x[len(x)-1])
	default:
		return types.Absent
	}
}

// NormalizeOr returns the normalized value or def when the input is absent.
func NormalizeOr(v any, def float64) float64 {
	n := Normalize(v)
	if types.IsAbsent(n) {
		return def
	}
	return n
}
