package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"StockCurator/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public API.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// yahooChart is the response structure from the Yahoo Finance chart API.
// Quote fields are interface slices because holiday rows come back as null.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// toValue converts a raw quote cell. Nulls become the missing placeholder
// so the preparer can forward-fill them.
func toValue(v interface{}) float64 {
	if v == nil {
		return model.Missing()
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return model.Missing()
	}
}

func (f *YahooFetcher) get(u string, out interface{}) error {
	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

// FetchDailyBars fetches daily OHLCV bars for the given Yahoo range token.
func (f *YahooFetcher) FetchDailyBars(symbol string, rng string) ([]model.PricePoint, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s",
		f.BaseURL, url.PathEscape(symbol), url.QueryEscape(rng))

	var chart yahooChart
	if err := f.get(u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no quote data returned")
	}

	quote := result.Indicators.Quote[0]
	points := make([]model.PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if model.IsMissing(o) && model.IsMissing(h) && model.IsMissing(l) && model.IsMissing(c) {
			continue // skip null bars (holidays etc.)
		}
		points = append(points, model.NewPricePoint(
			time.Unix(ts, 0).UTC(), o, h, l, c, at(quote.Volume, i),
		))
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	return points, nil
}

func at(col []interface{}, i int) float64 {
	if i >= len(col) {
		return model.Missing()
	}
	return toValue(col[i])
}

// yahooSummary is the response structure from the quoteSummary API.
// Statement line items vary by symbol, so each period is decoded generically.
type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			IncomeStatementHistory struct {
				IncomeStatementHistory []map[string]interface{} `json:"incomeStatementHistory"`
			} `json:"incomeStatementHistory"`
			BalanceSheetHistory struct {
				BalanceSheetStatements []map[string]interface{} `json:"balanceSheetStatements"`
			} `json:"balanceSheetHistory"`
			CashflowStatementHistory struct {
				CashflowStatements []map[string]interface{} `json:"cashflowStatements"`
			} `json:"cashflowStatementHistory"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"quoteSummary"`
}

// FetchFundamentals fetches income statement, balance sheet and cash flow history.
func (f *YahooFetcher) FetchFundamentals(symbol string) (*model.Fundamentals, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=incomeStatementHistory,balanceSheetHistory,cashflowStatementHistory",
		f.BaseURL, url.PathEscape(symbol))

	var summary yahooSummary
	if err := f.get(u, &summary); err != nil {
		return nil, err
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", summary.QuoteSummary.Error.Description)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no fundamentals returned")
	}

	result := summary.QuoteSummary.Result[0]
	return &model.Fundamentals{
		Symbol:       symbol,
		IncomeStmt:   parseStatements(result.IncomeStatementHistory.IncomeStatementHistory),
		BalanceSheet: parseStatements(result.BalanceSheetHistory.BalanceSheetStatements),
		CashFlow:     parseStatements(result.CashflowStatementHistory.CashflowStatements),
	}, nil
}

// parseStatements extracts the period end date and every numeric line item
// from the {raw, fmt} wrappers Yahoo uses.
func parseStatements(raw []map[string]interface{}) []model.Statement {
	stmts := make([]model.Statement, 0, len(raw))
	for _, entry := range raw {
		stmt := model.Statement{Items: make(map[string]float64)}
		for key, val := range entry {
			wrapped, ok := val.(map[string]interface{})
			if !ok {
				continue
			}
			num, ok := wrapped["raw"].(float64)
			if !ok {
				continue
			}
			if key == "endDate" {
				stmt.PeriodEnd = time.Unix(int64(num), 0).UTC()
				continue
			}
			stmt.Items[key] = num
		}
		if !stmt.PeriodEnd.IsZero() {
			stmts = append(stmts, stmt)
		}
	}
	return stmts
}
