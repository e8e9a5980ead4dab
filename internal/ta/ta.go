package ta

import "math"

func SMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	sum := 0.0
	for i := len(closes) - n; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(n)
}

// EMA returns the exponential moving average over the final value of the
// series, seeded with an SMA of the first n values.
func EMA(closes []float64, n int) float64 {
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	k := 2.0 / (float64(n) + 1.0)
	ema := SMA(closes[:n], n)
	for i := n; i < len(closes); i++ {
		ema = closes[i]*k + ema*(1.0-k)
	}
	return ema
}

func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 || period <= 0 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

func StdDev(vals []float64, n int) float64 {
	if len(vals) < n || n <= 0 {
		return math.NaN()
	}
	m := SMA(vals, n)
	s := 0.0
	for i := len(vals) - n; i < len(vals); i++ {
		d := vals[i] - m
		s += d * d
	}
	return math.Sqrt(s / float64(n))
}

func ATR(highs, lows, closes []float64, period int) float64 {
	if len(highs) != len(lows) || len(lows) != len(closes) {
		return math.NaN()
	}
	n := period
	if len(closes) < n+1 {
		return math.NaN()
	}
	trs := make([]float64, 0, n)
	for i := len(closes) - n; i < len(closes); i++ {
		tr1 := highs[i] - lows[i]
		tr2 := math.Abs(highs[i] - closes[i-1])
		tr3 := math.Abs(lows[i] - closes[i-1])
		tr := math.Max(tr1, math.Max(tr2, tr3))
		trs = append(trs, tr)
	}
	sum := 0.0
	for _, v := range trs {
		sum += v
	}
	return sum / float64(n)
}

// HighestHigh returns the maximum of the last n highs.
func HighestHigh(highs []float64, n int) float64 {
	if len(highs) < n || n <= 0 {
		return math.NaN()
	}
	hh := highs[len(highs)-n]
	for i := len(highs) - n + 1; i < len(highs); i++ {
		if highs[i] > hh {
			hh = highs[i]
		}
	}
	return hh
}

// LowestLow returns the minimum of the last n lows.
func LowestLow(lows []float64, n int) float64 {
	if len(lows) < n || n <= 0 {
		return math.NaN()
	}
	ll := lows[len(lows)-n]
	for i := len(lows) - n + 1; i < len(lows); i++ {
		if lows[i] < ll {
			ll = lows[i]
		}
	}
	return ll
}

// VWAP returns the volume-weighted average of typical prices over the last
// n bars. Zero cumulative volume yields NaN.
func VWAP(highs, lows, closes, vols []float64, n int) float64 {
	if len(highs) != len(lows) || len(lows) != len(closes) || len(closes) != len(vols) {
		return math.NaN()
	}
	if len(closes) < n || n <= 0 {
		return math.NaN()
	}
	var pv, v float64
	for i := len(closes) - n; i < len(closes); i++ {
		typical := (highs[i] + lows[i] + closes[i]) / 3.0
		pv += typical * vols[i]
		v += vols[i]
	}
	if v == 0 {
		return math.NaN()
	}
	return pv / v
}

// AvgVolume returns the simple average of the last n volumes.
func AvgVolume(vols []float64, n int) float64 {
	return SMA(vols, n)
}
