package model

import "time"

// Statement is one reporting period of a financial statement.
type Statement struct {
	PeriodEnd time.Time
	Items     map[string]float64
}

// Fundamentals holds the statement history for a symbol. These are
// displayed in reports but never transformed by the pipeline.
type Fundamentals struct {
	Symbol       string
	IncomeStmt   []Statement
	BalanceSheet []Statement
	CashFlow     []Statement
}

// Latest returns the most recent statement of the given group, or nil.
func Latest(stmts []Statement) *Statement {
	var latest *Statement
	for i := range stmts {
		if latest == nil || stmts[i].PeriodEnd.After(latest.PeriodEnd) {
			latest = &stmts[i]
		}
	}
	return latest
}
