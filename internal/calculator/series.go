// Package calculator computes windowed technical indicator series over
// close prices. Every function returns a slice aligned with its input;
// positions inside the warm-up window hold the missing-value placeholder.
package calculator

import "StockCurator/internal/model"

// nanSlice returns a slice of n missing values.
func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = model.Missing()
	}
	return out
}

// validStart returns the index of the first non-missing value, or -1.
func validStart(values []float64) int {
	for i, v := range values {
		if !model.IsMissing(v) {
			return i
		}
	}
	return -1
}

// windowed runs fn over the suffix of closes that starts at the first
// valid value, then copies results past the warm-up region into an
// aligned output slice. go-talib zero-fills its warm-up region, so those
// positions are skipped rather than copied.
func windowed(closes []float64, warmup int, fn func([]float64) []float64) []float64 {
	out := nanSlice(len(closes))
	start := validStart(closes)
	if start < 0 {
		return out
	}
	sub := closes[start:]
	if len(sub) <= warmup {
		return out
	}
	res := fn(sub)
	for i := warmup; i < len(res); i++ {
		out[start+i] = res[i]
	}
	return out
}
