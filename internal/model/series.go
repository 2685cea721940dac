package model

import (
	"math"
	"time"
)

// PricePoint represents one trading day. Missing numeric values are NaN.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	// Derived fields, attached by the preparer. NaN until computed.
	SMA20       float64
	EMA20       float64
	RSI14       float64
	MACD        float64
	DailyReturn float64
}

// NewPricePoint creates a point with the given raw values and all derived
// fields marked missing.
func NewPricePoint(date time.Time, open, high, low, close, volume float64) PricePoint {
	return PricePoint{
		Date:        date,
		Open:        open,
		High:        high,
		Low:         low,
		Close:       close,
		Volume:      volume,
		SMA20:       Missing(),
		EMA20:       Missing(),
		RSI14:       Missing(),
		MACD:        Missing(),
		DailyReturn: Missing(),
	}
}

// HasAllDerived reports whether every derived field has been computed.
func (p *PricePoint) HasAllDerived() bool {
	return !IsMissing(p.SMA20) && !IsMissing(p.EMA20) &&
		!IsMissing(p.RSI14) && !IsMissing(p.MACD) && !IsMissing(p.DailyReturn)
}

// Series holds the ordered daily price history for a single symbol.
type Series struct {
	Symbol    string
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of rows in the series.
func (s *Series) Len() int { return len(s.Points) }

// Closes extracts the close column.
func (s *Series) Closes() []float64 {
	closes := make([]float64, len(s.Points))
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Clone returns a deep copy of the series.
func (s *Series) Clone() *Series {
	points := make([]PricePoint, len(s.Points))
	copy(points, s.Points)
	return &Series{Symbol: s.Symbol, Points: points, FetchedAt: s.FetchedAt}
}

// Missing returns the placeholder used for absent values.
func Missing() float64 { return math.NaN() }

// IsMissing reports whether v is the missing-value placeholder.
func IsMissing(v float64) bool { return math.IsNaN(v) }
