package collector

import "StockCurator/internal/model"

// Fetcher defines the interface for fetching market data.
type Fetcher interface {
	FetchDailyBars(symbol string, rng string) ([]model.PricePoint, error)
	FetchFundamentals(symbol string) (*model.Fundamentals, error)
	Name() string
}
