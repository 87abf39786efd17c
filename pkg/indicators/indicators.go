// Package indicators implements the rolling technical indicators the scanners
// share: EMA, SMA, True Range, ATR and rolling volume statistics. All
// functions operate on plain float64 slices and return full-length result
// slices whose warmup prefix is zero. Callers are expected to guard on the
// warmup boundary before reading a value.
package indicators

import "math"

// SMA returns the simple moving average over period. result[i] is the average
// of data[i-period+1..i]; indices before period-1 are zero.
func SMA(data []float64, period int) []float64 {
	result := make([]float64, len(data))
	if period <= 0 || len(data) < period {
		return result
	}

	var sum float64
	for i, v := range data {
		sum += v
		if i >= period {
			sum -= data[i-period]
		}
		if i >= period-1 {
			result[i] = sum / float64(period)
		}
	}
	return result
}

// EMA returns the exponential moving average over period, seeded with the SMA
// of the first period values (TradingView-style), alpha = 2/(period+1).
func EMA(data []float64, period int) []float64 {
	result := make([]float64, len(data))
	if period <= 0 || len(data) < period {
		return result
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += data[i]
	}
	seed /= float64(period)
	result[period-1] = seed

	alpha := 2.0 / float64(period+1)
	oneMinusAlpha := 1.0 - alpha
	for i := period; i < len(data); i++ {
		result[i] = data[i]*alpha + result[i-1]*oneMinusAlpha
	}
	return result
}

// TrueRange returns the per-bar true range: max(H-L, |H-prevC|, |L-prevC|).
// The first bar has no previous close, so its TR is simply H-L.
func TrueRange(highs, lows, closes []float64) []float64 {
	result := make([]float64, len(closes))
	if len(closes) == 0 {
		return result
	}

	result[0] = highs[0] - lows[0]
	for i := 1; i < len(closes); i++ {
		hl := highs[i] - lows[i]
		hc := math.Abs(highs[i] - closes[i-1])
		lc := math.Abs(lows[i] - closes[i-1])
		result[i] = math.Max(hl, math.Max(hc, lc))
	}
	return result
}

// ATR returns the Average True Range using Wilder's smoothing (RMA), seeded
// with the SMA of the first period true-range values.
func ATR(highs, lows, closes []float64, period int) []float64 {
	result := make([]float64, len(closes))
	if period <= 0 || len(closes) < period+1 {
		return result
	}

	tr := TrueRange(highs, lows, closes)

	var atr float64
	for i := 1; i <= period; i++ {
		atr += tr[i]
	}
	atr /= float64(period)
	result[period] = atr

	// RMA = (prevRMA*(N-1) + TR) / N
	pm1 := float64(period - 1)
	pf := float64(period)
	for i := period + 1; i < len(closes); i++ {
		atr = (atr*pm1 + tr[i]) / pf
		result[i] = atr
	}
	return result
}

// RollingMean returns the trailing mean over window, excluding the current
// row: result[i] averages data[i-window..i-1]. Used for the "average volume
// before today" comparisons, so today's surge never dilutes its own baseline.
func RollingMean(data []float64, window int) []float64 {
	result := make([]float64, len(data))
	if window <= 0 || len(data) <= window {
		return result
	}

	var sum float64
	for i := 0; i < window; i++ {
		sum += data[i]
	}
	for i := window; i < len(data); i++ {
		result[i] = sum / float64(window)
		sum += data[i] - data[i-window]
	}
	return result
}

// RollingMax returns the trailing maximum over window, excluding the current
// row: result[i] is max(data[i-window..i-1]).
func RollingMax(data []float64, window int) []float64 {
	result := make([]float64, len(data))
	if window <= 0 || len(data) <= window {
		return result
	}

	for i := window; i < len(data); i++ {
		m := data[i-window]
		for j := i - window + 1; j < i; j++ {
			if data[j] > m {
				m = data[j]
			}
		}
		result[i] = m
	}
	return result
}
