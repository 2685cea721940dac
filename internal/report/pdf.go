// Package report renders the charts and the summary PDF consumed by the
// end of the pipeline.
package report

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"StockCurator/internal/model"
	"StockCurator/internal/stats"
)

// Data bundles everything the summary PDF displays.
type Data struct {
	Symbol           string
	GeneratedAt      time.Time
	Range            string
	Stats            []stats.ColumnStats
	Outliers         []model.PricePoint
	OutlierThreshold float64
	Fundamentals     *model.Fundamentals
	Clean            *model.CleanReport
	PriceChartPath   string
	SpikeChartPath   string
}

// BuildPDF writes the summary report to path.
func BuildPDF(path string, data Data) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetAutoPageBreak(true, 12)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, fmt.Sprintf("%s Stock Summary Report", data.Symbol), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s | range %s", data.GeneratedAt.Format("2006-01-02 15:04"), data.Range), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	writeSummarySection(pdf, data.Stats)
	writeCleaningSection(pdf, data.Clean)
	writeOutlierSection(pdf, data.Outliers, data.OutlierThreshold)
	writeChart(pdf, data.PriceChartPath)
	writeChart(pdf, data.SpikeChartPath)
	writeFundamentalsSection(pdf, data.Fundamentals)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf %s: %w", path, err)
	}
	return nil
}

func sectionHeading(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 9)
}

// drawTable renders a bordered table with a filled header row.
func drawTable(pdf *fpdf.Fpdf, headers []string, rows [][]string, fill [3]int) {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	colW := (pageW - left - right) / float64(len(headers))

	pdf.SetFillColor(fill[0], fill[1], fill[2])
	pdf.SetFont("Arial", "B", 8)
	for _, h := range headers {
		pdf.CellFormat(colW, 6, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range rows {
		for _, cell := range row {
			pdf.CellFormat(colW, 6, cell, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func writeSummarySection(pdf *fpdf.Fpdf, columns []stats.ColumnStats) {
	sectionHeading(pdf, "Aggregated Statistics")

	headers := []string{"Metric"}
	for _, c := range columns {
		headers = append(headers, c.Column)
	}
	metrics := []struct {
		name string
		get  func(stats.ColumnStats) float64
	}{
		{"count", func(c stats.ColumnStats) float64 { return float64(c.Count) }},
		{"mean", func(c stats.ColumnStats) float64 { return c.Mean }},
		{"std", func(c stats.ColumnStats) float64 { return c.Std }},
		{"min", func(c stats.ColumnStats) float64 { return c.Min }},
		{"25%", func(c stats.ColumnStats) float64 { return c.P25 }},
		{"50%", func(c stats.ColumnStats) float64 { return c.P50 }},
		{"75%", func(c stats.ColumnStats) float64 { return c.P75 }},
		{"max", func(c stats.ColumnStats) float64 { return c.Max }},
	}

	rows := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		row := []string{m.name}
		for _, c := range columns {
			row = append(row, formatCell(m.get(c)))
		}
		rows = append(rows, row)
	}
	drawTable(pdf, headers, rows, [3]int{173, 216, 230}) // light blue
}

func writeCleaningSection(pdf *fpdf.Fpdf, rep *model.CleanReport) {
	if rep == nil {
		return
	}
	sectionHeading(pdf, "Data Cleaning")
	pdf.CellFormat(0, 5, fmt.Sprintf("Duplicate rows removed: %d", rep.DuplicatesRemoved), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Cells forward-filled: %d", rep.CellsFilled), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 5, fmt.Sprintf("Warm-up/incomplete rows dropped: %d", rep.RowsDropped), "", 1, "L", false, 0, "")
	if rep.HasNegatives() {
		fields := make([]string, 0, len(rep.NegativeCounts))
		for f := range rep.NegativeCounts {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		for _, f := range fields {
			pdf.CellFormat(0, 5, fmt.Sprintf("Negative values substituted in %s: %d", f, rep.NegativeCounts[f]), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(4)
}

func writeOutlierSection(pdf *fpdf.Fpdf, outliers []model.PricePoint, threshold float64) {
	sectionHeading(pdf, fmt.Sprintf("Days with Extreme Daily Returns (>%.0f%%)", threshold*100))
	if len(outliers) == 0 {
		pdf.CellFormat(0, 5, "None found.", "", 1, "L", false, 0, "")
		pdf.Ln(4)
		return
	}
	rows := make([][]string, 0, len(outliers))
	for _, p := range outliers {
		rows = append(rows, []string{
			p.Date.Format("2006-01-02"),
			formatCell(p.Close),
			formatCell(p.DailyReturn),
		})
	}
	drawTable(pdf, []string{"Date", "Close", "Return"}, rows, [3]int{240, 128, 128}) // light coral
}

func writeChart(pdf *fpdf.Fpdf, path string) {
	if path == "" {
		return
	}
	if _, err := os.Stat(path); err != nil {
		return
	}
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	w := pageW - left - right
	pdf.ImageOptions(path, left, pdf.GetY(), w, 0, true, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	pdf.Ln(4)
}

// fundamentalsRowLimit caps how many line items each statement shows.
const fundamentalsRowLimit = 10

func writeFundamentalsSection(pdf *fpdf.Fpdf, funds *model.Fundamentals) {
	if funds == nil {
		return
	}
	groups := []struct {
		title string
		stmts []model.Statement
	}{
		{"Income Statement (latest period)", funds.IncomeStmt},
		{"Balance Sheet (latest period)", funds.BalanceSheet},
		{"Cash Flow (latest period)", funds.CashFlow},
	}
	for _, g := range groups {
		latest := model.Latest(g.stmts)
		if latest == nil || len(latest.Items) == 0 {
			continue
		}
		sectionHeading(pdf, fmt.Sprintf("%s - %s", g.title, latest.PeriodEnd.Format("2006-01-02")))

		names := make([]string, 0, len(latest.Items))
		for name := range latest.Items {
			names = append(names, name)
		}
		sort.Strings(names)
		if len(names) > fundamentalsRowLimit {
			names = names[:fundamentalsRowLimit]
		}
		rows := make([][]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, []string{name, formatCell(latest.Items[name])})
		}
		drawTable(pdf, []string{"Item", "Value"}, rows, [3]int{211, 211, 211}) // light gray
	}
}

// formatCell rounds to four decimals, the precision the report tables use.
func formatCell(v float64) string {
	if model.IsMissing(v) {
		return ""
	}
	r := math.Round(v*10000) / 10000
	return strconv.FormatFloat(r, 'f', -1, 64)
}
