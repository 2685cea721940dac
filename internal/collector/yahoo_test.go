package collector

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"StockCurator/internal/model"
)

const chartFixture = `{
  "chart": {
    "result": [{
      "timestamp": [1714521600, 1714435200, 1714608000],
      "indicators": {
        "quote": [{
          "open":   [187.2, 186.1, null],
          "high":   [188.0, 187.5, 189.1],
          "low":    [186.0, 185.2, 187.0],
          "close":  [187.9, 186.9, 188.4],
          "volume": [48392100, 51230400, null]
        }]
      }
    }],
    "error": null
  }
}`

const summaryFixture = `{
  "quoteSummary": {
    "result": [{
      "incomeStatementHistory": {
        "incomeStatementHistory": [
          {"endDate": {"raw": 1696032000, "fmt": "2023-09-30"},
           "totalRevenue": {"raw": 383285000000, "fmt": "383.29B"},
           "netIncome": {"raw": 96995000000, "fmt": "97B"},
           "maxAge": 1}
        ]
      },
      "balanceSheetHistory": {"balanceSheetStatements": []},
      "cashflowStatementHistory": {"cashflowStatements": []}
    }],
    "error": null
  }
}`

func testFetcher(t *testing.T, handler http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	return f
}

func TestYahooFetcher_FetchDailyBars(t *testing.T) {
	f := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v8/finance/chart/AAPL") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("range"); got != "2y" {
			t.Errorf("range = %q, want 2y", got)
		}
		w.Write([]byte(chartFixture))
	})

	bars, err := f.FetchDailyBars("AAPL", "2y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 3 {
		t.Fatalf("expected 3 bars, got %d", len(bars))
	}
	// Timestamps arrive out of order in the fixture; bars must come back sorted.
	for i := 1; i < len(bars); i++ {
		if bars[i].Date.Before(bars[i-1].Date) {
			t.Fatalf("bar %d out of order", i)
		}
	}
	// Null cells become missing values rather than zeros.
	last := bars[len(bars)-1]
	if !model.IsMissing(last.Open) || !model.IsMissing(last.Volume) {
		t.Errorf("null cells should be missing, got open=%g volume=%g", last.Open, last.Volume)
	}
	if last.Close != 188.4 {
		t.Errorf("close = %g, want 188.4", last.Close)
	}
	// Derived fields start out missing.
	if !model.IsMissing(last.SMA20) || !model.IsMissing(last.DailyReturn) {
		t.Error("derived fields should start missing")
	}
}

func TestYahooFetcher_SkipsNullBars(t *testing.T) {
	// 2024-04-30, 2024-05-01 (holiday: every quote field null), 2024-05-02.
	const fixture = `{
	  "chart": {
	    "result": [{
	      "timestamp": [1714435200, 1714521600, 1714608000],
	      "indicators": {
	        "quote": [{
	          "open":   [186.1, null, 188.2],
	          "high":   [187.5, null, 189.1],
	          "low":    [185.2, null, 187.0],
	          "close":  [186.9, null, 188.4],
	          "volume": [51230400, null, 47118300]
	        }]
	      }
	    }],
	    "error": null
	  }
	}`
	f := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(fixture))
	})

	bars, err := f.FetchDailyBars("AAPL", "2y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("expected the all-null bar to be skipped, got %d bars", len(bars))
	}
	holiday := time.Unix(1714521600, 0).UTC()
	for i, b := range bars {
		if b.Date.Equal(holiday) {
			t.Errorf("bar %d: holiday row %s survived", i, holiday)
		}
	}
	// A bar with only some null cells is kept, with those cells missing.
	partial := `{
	  "chart": {
	    "result": [{
	      "timestamp": [1714435200],
	      "indicators": {
	        "quote": [{
	          "open":   [null],
	          "high":   [187.5],
	          "low":    [185.2],
	          "close":  [186.9],
	          "volume": [null]
	        }]
	      }
	    }],
	    "error": null
	  }
	}`
	f2 := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(partial))
	})
	bars, err = f2.FetchDailyBars("AAPL", "2y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bars) != 1 {
		t.Fatalf("expected the partially-null bar to be kept, got %d bars", len(bars))
	}
	if !model.IsMissing(bars[0].Open) || bars[0].Close != 186.9 {
		t.Errorf("partial bar decoded wrong: open=%g close=%g", bars[0].Open, bars[0].Close)
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	f := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`))
	})
	if _, err := f.FetchDailyBars("NOPE", "2y"); err == nil {
		t.Fatal("expected error from API error payload")
	}
}

func TestYahooFetcher_FetchFundamentals(t *testing.T) {
	f := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "/v10/finance/quoteSummary/AAPL") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Write([]byte(summaryFixture))
	})

	funds, err := f.FetchFundamentals("AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(funds.IncomeStmt) != 1 {
		t.Fatalf("expected 1 income statement, got %d", len(funds.IncomeStmt))
	}
	stmt := funds.IncomeStmt[0]
	if stmt.PeriodEnd.Format("2006-01-02") != "2023-09-30" {
		t.Errorf("period end = %s", stmt.PeriodEnd)
	}
	if stmt.Items["totalRevenue"] != 383285000000 {
		t.Errorf("totalRevenue = %g", stmt.Items["totalRevenue"])
	}
	if _, ok := stmt.Items["maxAge"]; ok {
		t.Error("scalar maxAge should not appear as a line item")
	}
}

func TestGenerateMockBars_EndsNearNow(t *testing.T) {
	bars, err := GenerateMockBars(100, 10)
	if err != nil {
		t.Fatalf("mock bars: %v", err)
	}
	if len(bars) != 10 {
		t.Fatalf("expected 10 bars, got %d", len(bars))
	}
	last := bars[len(bars)-1].Date
	if age := time.Since(last); age < 0 || age > 48*time.Hour {
		t.Errorf("last mock bar should land just before now, got %s", last)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			t.Errorf("bar %d out of order: %s then %s", i, bars[i-1].Date, bars[i].Date)
		}
	}
}

func TestCollector_NormalizesCalendarDays(t *testing.T) {
	bars, err := GenerateMockBars(100, 5)
	if err != nil {
		t.Fatalf("mock bars: %v", err)
	}
	// Shift timestamps into mid-day to prove normalization.
	for i := range bars {
		bars[i].Date = bars[i].Date.Add(14*time.Hour + 30*time.Minute)
	}
	col := NewCollector(&MockFetcher{Bars: bars}, "TEST", "2y")

	series, _, err := col.Collect()
	if err != nil {
		t.Fatalf("collect: %v", err)
	}
	for i, p := range series.Points {
		h, m, s := p.Date.Clock()
		if h != 0 || m != 0 || s != 0 {
			t.Errorf("row %d: date not normalized to a calendar day: %s", i, p.Date)
		}
	}
}
