package calculator

import (
	"errors"

	talib "github.com/markcheno/go-talib"
)

// SMASeries computes the simple moving average of closes over period.
// The first period-1 positions are missing (warm-up).
func SMASeries(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(closes) == 0 {
		return nil, errors.New("no close prices provided")
	}
	return windowed(closes, period-1, func(sub []float64) []float64 {
		return talib.Sma(sub, period)
	}), nil
}

// EMASeries computes the exponential moving average of closes over period,
// seeded with the SMA of the first period values. The first period-1
// positions are missing (warm-up).
func EMASeries(closes []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	if len(closes) == 0 {
		return nil, errors.New("no close prices provided")
	}
	return windowed(closes, period-1, func(sub []float64) []float64 {
		return talib.Ema(sub, period)
	}), nil
}
