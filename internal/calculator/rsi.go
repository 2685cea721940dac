package calculator

import (
	"errors"

	talib "github.com/markcheno/go-talib"
)

// RSISeries computes the Wilder-smoothed relative strength index of closes
// over period. The first value appears at index period, since the oscillator
// needs period price changes.
func RSISeries(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(closes) == 0 {
		return nil, errors.New("no close prices provided")
	}
	return windowed(closes, period, func(sub []float64) []float64 {
		return talib.Rsi(sub, period)
	}), nil
}
