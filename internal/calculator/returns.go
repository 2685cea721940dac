package calculator

import "StockCurator/internal/model"

// DailyReturns computes the day-over-day fractional change of closes.
// The first position is missing, as is any position whose previous close
// is missing or zero.
func DailyReturns(closes []float64) []float64 {
	out := nanSlice(len(closes))
	for i := 1; i < len(closes); i++ {
		prev := closes[i-1]
		if model.IsMissing(prev) || model.IsMissing(closes[i]) || prev == 0 {
			continue
		}
		out[i] = (closes[i] - prev) / prev
	}
	return out
}
