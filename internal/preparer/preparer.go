// Package preparer implements the data-cleaning and enrichment pipeline
// for a daily price series: sort, deduplicate, forward-fill, indicator
// computation, negative-value sanitizing and warm-up trimming. Every step
// is a pure function returning a new series; inputs are never mutated.
package preparer

import (
	"errors"
	"sort"

	"StockCurator/internal/calculator"
	"StockCurator/internal/model"
)

// Options control the indicator windows attached by ComputeIndicators.
type Options struct {
	SMAWindow int
	EMAWindow int
	RSIWindow int
	MACDFast  int
	MACDSlow  int
}

// DefaultOptions returns the standard 20/20/14/12-26 windows.
func DefaultOptions() Options {
	return Options{SMAWindow: 20, EMAWindow: 20, RSIWindow: 14, MACDFast: 12, MACDSlow: 26}
}

// PriceFields names the columns checked for negative sentinel values.
var PriceFields = []string{"Open", "High", "Low", "Close", "Volume"}

// column describes one numeric field of a PricePoint for generic passes.
type column struct {
	name string
	get  func(*model.PricePoint) float64
	set  func(*model.PricePoint, float64)
}

var rawColumns = []column{
	{"Open", func(p *model.PricePoint) float64 { return p.Open }, func(p *model.PricePoint, v float64) { p.Open = v }},
	{"High", func(p *model.PricePoint) float64 { return p.High }, func(p *model.PricePoint, v float64) { p.High = v }},
	{"Low", func(p *model.PricePoint) float64 { return p.Low }, func(p *model.PricePoint, v float64) { p.Low = v }},
	{"Close", func(p *model.PricePoint) float64 { return p.Close }, func(p *model.PricePoint, v float64) { p.Close = v }},
	{"Volume", func(p *model.PricePoint) float64 { return p.Volume }, func(p *model.PricePoint, v float64) { p.Volume = v }},
}

var derivedColumns = []column{
	{"SMA_20", func(p *model.PricePoint) float64 { return p.SMA20 }, func(p *model.PricePoint, v float64) { p.SMA20 = v }},
	{"EMA_20", func(p *model.PricePoint) float64 { return p.EMA20 }, func(p *model.PricePoint, v float64) { p.EMA20 = v }},
	{"RSI_14", func(p *model.PricePoint) float64 { return p.RSI14 }, func(p *model.PricePoint, v float64) { p.RSI14 = v }},
	{"MACD", func(p *model.PricePoint) float64 { return p.MACD }, func(p *model.PricePoint, v float64) { p.MACD = v }},
	{"Return", func(p *model.PricePoint) float64 { return p.DailyReturn }, func(p *model.PricePoint, v float64) { p.DailyReturn = v }},
}

func allColumns() []column {
	return append(append([]column{}, rawColumns...), derivedColumns...)
}

func findColumns(names []string) []column {
	cols := make([]column, 0, len(names))
	for _, name := range names {
		for _, c := range allColumns() {
			if c.name == name {
				cols = append(cols, c)
				break
			}
		}
	}
	return cols
}

// SortByDate returns the series stably sorted by ascending date. Indicator
// math is order-sensitive, so this runs before any windowed computation
// instead of trusting the fetcher.
func SortByDate(s *model.Series) *model.Series {
	out := s.Clone()
	sort.SliceStable(out.Points, func(i, j int) bool {
		return out.Points[i].Date.Before(out.Points[j].Date)
	})
	return out
}

// Deduplicate removes rows whose calendar date already appeared earlier,
// keeping the first occurrence. Applying it twice yields the same result.
func Deduplicate(s *model.Series) *model.Series {
	out := s.Clone()
	seen := make(map[string]bool, len(out.Points))
	kept := out.Points[:0]
	for _, p := range out.Points {
		key := p.Date.Format("2006-01-02")
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, p)
	}
	out.Points = kept
	return out
}

// ForwardFill replaces missing values with the most recent valid prior
// value in date order. Filling is column-wise: each field is filled
// independently from its own history, so adjacent fields missing on the
// same day may be filled from different source rows. Leading gaps stay
// missing, since no prior value exists.
func ForwardFill(s *model.Series) *model.Series {
	out, _ := forwardFill(s)
	return out
}

func forwardFill(s *model.Series) (*model.Series, int) {
	out := s.Clone()
	filled := 0
	for _, col := range allColumns() {
		last := model.Missing()
		for i := range out.Points {
			v := col.get(&out.Points[i])
			if model.IsMissing(v) {
				if !model.IsMissing(last) {
					col.set(&out.Points[i], last)
					filled++
				}
				continue
			}
			last = v
		}
	}
	return out, filled
}

// SanitizeNegatives treats values below zero in the named fields as
// missing, then reapplies forward-fill. The returned map counts the
// negative values found per field; a non-empty map is diagnostic, not an
// error.
func SanitizeNegatives(s *model.Series, fields []string) (*model.Series, map[string]int) {
	out := s.Clone()
	counts := make(map[string]int)
	for _, col := range findColumns(fields) {
		for i := range out.Points {
			v := col.get(&out.Points[i])
			if !model.IsMissing(v) && v < 0 {
				col.set(&out.Points[i], model.Missing())
				counts[col.name]++
			}
		}
	}
	out, _ = forwardFill(out)
	return out, counts
}

// ComputeIndicators attaches the five derived series, all computed from
// the close column: SMA, EMA, RSI, the MACD line and the daily return.
func ComputeIndicators(s *model.Series, opts Options) (*model.Series, error) {
	out := s.Clone()
	closes := out.Closes()

	sma, err := calculator.SMASeries(closes, opts.SMAWindow)
	if err != nil {
		return nil, err
	}
	ema, err := calculator.EMASeries(closes, opts.EMAWindow)
	if err != nil {
		return nil, err
	}
	rsi, err := calculator.RSISeries(closes, opts.RSIWindow)
	if err != nil {
		return nil, err
	}
	macd, err := calculator.MACDSeries(closes, opts.MACDFast, opts.MACDSlow)
	if err != nil {
		return nil, err
	}
	returns := calculator.DailyReturns(closes)

	for i := range out.Points {
		out.Points[i].SMA20 = sma[i]
		out.Points[i].EMA20 = ema[i]
		out.Points[i].RSI14 = rsi[i]
		out.Points[i].MACD = macd[i]
		out.Points[i].DailyReturn = returns[i]
	}
	return out, nil
}

// DropIncomplete removes rows where at least one derived field is missing,
// trimming the warm-up period and any remaining unfillable gaps.
func DropIncomplete(s *model.Series) *model.Series {
	out := s.Clone()
	kept := out.Points[:0]
	for _, p := range out.Points {
		if p.HasAllDerived() {
			kept = append(kept, p)
		}
	}
	out.Points = kept
	return out
}

// Prepare runs the full pipeline: sort, deduplicate, forward-fill,
// indicators, negative sanitizing, warm-up trimming. It returns the
// curated series (after enrichment, before sanitizing), the clean series
// (all invariants satisfied) and a report of every anomaly encountered.
func Prepare(raw *model.Series, opts Options) (curated, clean *model.Series, report *model.CleanReport, err error) {
	if raw == nil || len(raw.Points) == 0 {
		return nil, nil, nil, errors.New("empty input series")
	}
	report = model.NewCleanReport()

	s := SortByDate(raw)

	before := s.Len()
	s = Deduplicate(s)
	report.DuplicatesRemoved = before - s.Len()

	s, filled := forwardFill(s)
	report.CellsFilled = filled

	s, err = ComputeIndicators(s, opts)
	if err != nil {
		return nil, nil, nil, err
	}
	curated = s

	s, negatives := SanitizeNegatives(s, PriceFields)
	report.NegativeCounts = negatives

	clean = DropIncomplete(s)
	report.RowsDropped = s.Len() - clean.Len()

	return curated, clean, report, nil
}
