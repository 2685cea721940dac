package exporter

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"StockCurator/internal/model"
)

func sampleSeries() *model.Series {
	start := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	points := []model.PricePoint{
		model.NewPricePoint(start, 186.52, 188.01, 185.43, 187.3, 48392100),
		model.NewPricePoint(start.AddDate(0, 0, 1), 187.9, 189.2, 186.7, 188.12, 51230400),
	}
	points[1].SMA20 = 187.71
	points[1].EMA20 = 187.654321
	points[1].RSI14 = 58.3
	points[1].MACD = 0.4123
	points[1].DailyReturn = 0.00437800320256
	return &model.Series{Symbol: "AAPL", Points: points}
}

func sameValue(a, b float64) bool {
	if model.IsMissing(a) && model.IsMissing(b) {
		return true
	}
	return math.Abs(a-b) <= 1e-9
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	want := sampleSeries()

	if err := WriteCSV(path, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := ReadCSV(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Len() != want.Len() {
		t.Fatalf("row count %d, want %d", got.Len(), want.Len())
	}
	for i := range want.Points {
		w, g := want.Points[i], got.Points[i]
		if !g.Date.Equal(w.Date) {
			t.Errorf("row %d: date %s, want %s", i, g.Date, w.Date)
		}
		pairs := [][2]float64{
			{g.Open, w.Open}, {g.High, w.High}, {g.Low, w.Low},
			{g.Close, w.Close}, {g.Volume, w.Volume},
			{g.SMA20, w.SMA20}, {g.EMA20, w.EMA20}, {g.RSI14, w.RSI14},
			{g.MACD, w.MACD}, {g.DailyReturn, w.DailyReturn},
		}
		for j, p := range pairs {
			if !sameValue(p[0], p[1]) {
				t.Errorf("row %d col %d: %v != %v", i, j, p[0], p[1])
			}
		}
	}
}

func TestWriteCSV_Format(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	if err := WriteCSV(path, sampleSeries()); err != nil {
		t.Fatalf("write: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	if lines[0] != "Date;Open;High;Low;Close;Volume;SMA_20;EMA_20;RSI_14;MACD;Return" {
		t.Errorf("unexpected header: %s", lines[0])
	}
	// First row has no derived values: trailing cells stay empty.
	if !strings.HasPrefix(lines[1], "2024-05-06;") {
		t.Errorf("expected ISO date prefix, got %s", lines[1])
	}
	if !strings.HasSuffix(lines[1], ";;;;;") {
		t.Errorf("expected empty derived cells, got %s", lines[1])
	}
}

func TestReadCSV_Malformed(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.csv")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadCSV(empty); err == nil {
		t.Error("expected error for empty file")
	}

	badDate := filepath.Join(dir, "bad.csv")
	content := "Date;Open;High;Low;Close;Volume;SMA_20;EMA_20;RSI_14;MACD;Return\nnot-a-date;1;1;1;1;1;;;;;\n"
	if err := os.WriteFile(badDate, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadCSV(badDate); err == nil {
		t.Error("expected error for malformed date")
	}
}
