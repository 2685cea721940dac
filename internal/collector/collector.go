package collector

import (
	"fmt"
	"log"
	"time"

	"StockCurator/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	BasePrice    float64
	Bars         []model.PricePoint
	Fundamentals *model.Fundamentals
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ string, _ string) ([]model.PricePoint, error) {
	if m.Bars != nil {
		return m.Bars, nil
	}
	return GenerateMockBars(m.BasePrice, 504) // ~2 years of trading days
}

func (m *MockFetcher) FetchFundamentals(symbol string) (*model.Fundamentals, error) {
	if m.Fundamentals != nil {
		return m.Fundamentals, nil
	}
	return &model.Fundamentals{Symbol: symbol}, nil
}

// GenerateMockBars produces count daily bars drifting mildly around basePrice.
func GenerateMockBars(basePrice float64, count int) ([]model.PricePoint, error) {
	if basePrice <= 0 {
		return nil, fmt.Errorf("base price must be positive, got %.2f", basePrice)
	}
	now := time.Now().UTC()
	bars := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i-count/2)*0.001)
		bars[i] = model.NewPricePoint(
			now.AddDate(0, 0, -(count-i)),
			p*0.999,
			p*1.005,
			p*0.995,
			p,
			1000000,
		)
	}
	return bars, nil
}

// Collector fetches the raw price series and fundamentals for one symbol.
type Collector struct {
	Fetcher Fetcher
	Symbol  string
	Range   string
}

// NewCollector creates a new Collector.
func NewCollector(fetcher Fetcher, symbol, rng string) *Collector {
	return &Collector{Fetcher: fetcher, Symbol: symbol, Range: rng}
}

// Collect fetches daily bars and fundamentals. Bars are normalized to
// calendar days; fundamentals are optional and a failure there only warns.
func (c *Collector) Collect() (*model.Series, *model.Fundamentals, error) {
	bars, err := c.Fetcher.FetchDailyBars(c.Symbol, c.Range)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch daily bars: %w", err)
	}
	for i := range bars {
		bars[i].Date = calendarDay(bars[i].Date)
	}

	series := &model.Series{
		Symbol:    c.Symbol,
		Points:    bars,
		FetchedAt: time.Now(),
	}

	funds, err := c.Fetcher.FetchFundamentals(c.Symbol)
	if err != nil {
		log.Printf("[WARN] fetch fundamentals failed, report will omit them: %v", err)
		funds = nil
	}

	return series, funds, nil
}

// calendarDay truncates a timestamp to its UTC calendar date, so rows on
// the same trading day compare equal during deduplication.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
