// Package exporter writes and reads the semicolon-delimited dataset files.
package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"StockCurator/internal/model"
)

var header = []string{
	"Date", "Open", "High", "Low", "Close", "Volume",
	"SMA_20", "EMA_20", "RSI_14", "MACD", "Return",
}

// WriteCSV writes the series to path, one row per day, semicolon-separated,
// ISO-8601 dates. Missing values become empty cells.
func WriteCSV(path string, s *model.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i := range s.Points {
		p := &s.Points[i]
		row := []string{
			p.Date.Format("2006-01-02"),
			formatValue(p.Open),
			formatValue(p.High),
			formatValue(p.Low),
			formatValue(p.Close),
			formatValue(p.Volume),
			formatValue(p.SMA20),
			formatValue(p.EMA20),
			formatValue(p.RSI14),
			formatValue(p.MACD),
			formatValue(p.DailyReturn),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", path, err)
	}
	return nil
}

// ReadCSV parses a file written by WriteCSV back into a series.
func ReadCSV(path string) (*model.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%s: empty file", path)
	}
	if len(records[0]) != len(header) {
		return nil, fmt.Errorf("%s: expected %d columns, got %d", path, len(header), len(records[0]))
	}

	series := &model.Series{Points: make([]model.PricePoint, 0, len(records)-1)}
	for i, rec := range records[1:] {
		date, err := time.Parse("2006-01-02", rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s row %d: parse date %q: %w", path, i+1, rec[0], err)
		}
		values := make([]float64, len(rec)-1)
		for j, cell := range rec[1:] {
			values[j], err = parseValue(cell)
			if err != nil {
				return nil, fmt.Errorf("%s row %d col %s: %w", path, i+1, header[j+1], err)
			}
		}
		series.Points = append(series.Points, model.PricePoint{
			Date:        date,
			Open:        values[0],
			High:        values[1],
			Low:         values[2],
			Close:       values[3],
			Volume:      values[4],
			SMA20:       values[5],
			EMA20:       values[6],
			RSI14:       values[7],
			MACD:        values[8],
			DailyReturn: values[9],
		})
	}
	return series, nil
}

func formatValue(v float64) string {
	if model.IsMissing(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseValue(cell string) (float64, error) {
	if cell == "" {
		return model.Missing(), nil
	}
	return strconv.ParseFloat(cell, 64)
}
