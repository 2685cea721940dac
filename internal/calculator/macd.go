package calculator

import (
	"errors"

	"StockCurator/internal/model"
)

// MACDSeries computes the MACD line: EMA(fast) - EMA(slow) of closes.
// The first slow-1 positions are missing, the slow EMA's warm-up.
func MACDSeries(closes []float64, fast, slow int) ([]float64, error) {
	if fast <= 0 || slow <= 0 {
		return nil, errors.New("periods must be positive")
	}
	if fast >= slow {
		return nil, errors.New("fast period must be shorter than slow period")
	}
	emaFast, err := EMASeries(closes, fast)
	if err != nil {
		return nil, err
	}
	emaSlow, err := EMASeries(closes, slow)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(closes))
	for i := range out {
		if model.IsMissing(emaFast[i]) || model.IsMissing(emaSlow[i]) {
			out[i] = model.Missing()
			continue
		}
		out[i] = emaFast[i] - emaSlow[i]
	}
	return out, nil
}
