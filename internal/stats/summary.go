// Package stats computes the summary artifacts handed to reporting:
// describe-style per-column aggregates and the extreme-return subset.
package stats

import (
	"math"
	"sort"

	"StockCurator/internal/model"
)

// DefaultOutlierThreshold is the absolute daily return above which a day
// counts as an outlier.
const DefaultOutlierThreshold = 0.10

// ColumnStats holds describe-style aggregates for one numeric column.
type ColumnStats struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	P25    float64
	P50    float64
	P75    float64
	Max    float64
}

// Describe computes summary statistics for the numeric columns of a
// series. Missing values are excluded per column; Std is the sample
// standard deviation and is missing when fewer than two values exist.
func Describe(s *model.Series) []ColumnStats {
	columns := []struct {
		name string
		get  func(*model.PricePoint) float64
	}{
		{"Open", func(p *model.PricePoint) float64 { return p.Open }},
		{"High", func(p *model.PricePoint) float64 { return p.High }},
		{"Low", func(p *model.PricePoint) float64 { return p.Low }},
		{"Close", func(p *model.PricePoint) float64 { return p.Close }},
		{"Volume", func(p *model.PricePoint) float64 { return p.Volume }},
		{"Return", func(p *model.PricePoint) float64 { return p.DailyReturn }},
	}

	out := make([]ColumnStats, 0, len(columns))
	for _, col := range columns {
		values := make([]float64, 0, s.Len())
		for i := range s.Points {
			if v := col.get(&s.Points[i]); !model.IsMissing(v) {
				values = append(values, v)
			}
		}
		out = append(out, describeColumn(col.name, values))
	}
	return out
}

func describeColumn(name string, values []float64) ColumnStats {
	cs := ColumnStats{
		Column: name,
		Count:  len(values),
		Mean:   model.Missing(),
		Std:    model.Missing(),
		Min:    model.Missing(),
		P25:    model.Missing(),
		P50:    model.Missing(),
		P75:    model.Missing(),
		Max:    model.Missing(),
	}
	if len(values) == 0 {
		return cs
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	cs.Mean = sum / float64(len(sorted))
	cs.Min = sorted[0]
	cs.Max = sorted[len(sorted)-1]
	cs.P25 = quantile(sorted, 0.25)
	cs.P50 = quantile(sorted, 0.50)
	cs.P75 = quantile(sorted, 0.75)

	if len(sorted) >= 2 {
		var ss float64
		for _, v := range sorted {
			d := v - cs.Mean
			ss += d * d
		}
		cs.Std = math.Sqrt(ss / float64(len(sorted)-1))
	}
	return cs
}

// quantile returns the q-quantile of sorted values using linear
// interpolation between closest ranks.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// Outliers returns the rows whose absolute daily return exceeds threshold.
func Outliers(s *model.Series, threshold float64) []model.PricePoint {
	var out []model.PricePoint
	for _, p := range s.Points {
		if model.IsMissing(p.DailyReturn) {
			continue
		}
		if math.Abs(p.DailyReturn) > threshold {
			out = append(out, p)
		}
	}
	return out
}
