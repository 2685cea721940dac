package model

// CleanReport summarizes the anomalies found while preparing a series.
// It replaces ad-hoc diagnostics: callers decide whether to log it.
type CleanReport struct {
	DuplicatesRemoved int
	CellsFilled       int
	NegativeCounts    map[string]int // column name -> values below zero
	RowsDropped       int
}

// NewCleanReport creates an empty report.
func NewCleanReport() *CleanReport {
	return &CleanReport{NegativeCounts: make(map[string]int)}
}

// HasNegatives reports whether any column contained a negative value.
func (r *CleanReport) HasNegatives() bool {
	for _, n := range r.NegativeCounts {
		if n > 0 {
			return true
		}
	}
	return false
}
