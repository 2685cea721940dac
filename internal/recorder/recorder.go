package recorder

import (
	"time"

	"StockCurator/internal/model"
)

// RunSnapshot is the audit record of one pipeline run. Only run metadata
// is persisted, never the series itself.
type RunSnapshot struct {
	Symbol            string
	RawRows           int
	CuratedRows       int
	CleanRows         int
	DuplicatesRemoved int
	CellsFilled       int
	RowsDropped       int
	Duration          time.Duration
}

// Recorder persists run history for later inspection.
type Recorder interface {
	RecordRun(snap *RunSnapshot, report *model.CleanReport, outliers []model.PricePoint) error
	Close() error
}
