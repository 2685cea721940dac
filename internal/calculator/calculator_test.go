package calculator

import (
	"math"
	"testing"

	"StockCurator/internal/model"
)

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func rising(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func TestSMASeries_Constant(t *testing.T) {
	const price = 87.25
	sma, err := SMASeries(constant(40, price), 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range sma {
		if i < 19 {
			if !model.IsMissing(v) {
				t.Fatalf("index %d: expected missing in warm-up, got %g", i, v)
			}
			continue
		}
		if math.Abs(v-price) > 1e-9 {
			t.Errorf("index %d: SMA %.6f, want %.6f", i, v, price)
		}
	}
}

func TestSMASeries_KnownWindow(t *testing.T) {
	closes := rising(12, 1, 1) // 1..12
	sma, err := SMASeries(closes, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tests := []struct {
		idx  int
		want float64
	}{
		{4, 3},   // mean(1..5)
		{9, 8},   // mean(6..10)
		{11, 10}, // mean(8..12)
	}
	for _, tt := range tests {
		if math.Abs(sma[tt.idx]-tt.want) > 1e-9 {
			t.Errorf("index %d: SMA %.4f, want %.4f", tt.idx, sma[tt.idx], tt.want)
		}
	}
}

func TestEMASeries_Constant(t *testing.T) {
	const price = 12.5
	ema, err := EMASeries(constant(50, price), 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !model.IsMissing(ema[18]) {
		t.Error("index 18 should still be in the warm-up window")
	}
	for i := 19; i < len(ema); i++ {
		if math.Abs(ema[i]-price) > 1e-9 {
			t.Errorf("index %d: EMA %.6f, want %.6f", i, ema[i], price)
		}
	}
}

func TestRSISeries_AllGains(t *testing.T) {
	rsi, err := RSISeries(rising(60, 100, 1), 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range rsi {
		if i < 14 {
			if !model.IsMissing(v) {
				t.Fatalf("index %d: expected missing in warm-up, got %g", i, v)
			}
			continue
		}
		if v < 99.999 || v > 100.0000001 {
			t.Errorf("index %d: RSI %.4f, want 100 for an all-gains series", i, v)
		}
	}
}

func TestRSISeries_Bounds(t *testing.T) {
	// A sawtooth series keeps the oscillator strictly inside its bounds.
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%3)
	}
	rsi, err := RSISeries(closes, 14)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 14; i < len(rsi); i++ {
		if rsi[i] < 0 || rsi[i] > 100 {
			t.Fatalf("index %d: RSI %.4f out of [0,100]", i, rsi[i])
		}
	}
}

func TestMACDSeries_WarmupAndSign(t *testing.T) {
	macd, err := MACDSeries(rising(60, 100, 2), 12, 26)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !model.IsMissing(macd[24]) {
		t.Error("index 24 should still be in the slow EMA warm-up")
	}
	if model.IsMissing(macd[25]) {
		t.Error("index 25 should have a MACD value")
	}
	// On a steadily rising series the fast EMA leads the slow one.
	for i := 25; i < len(macd); i++ {
		if macd[i] <= 0 {
			t.Errorf("index %d: MACD %.4f, want positive on a rising series", i, macd[i])
		}
	}
}

func TestMACDSeries_InvalidPeriods(t *testing.T) {
	if _, err := MACDSeries(constant(60, 1), 26, 12); err == nil {
		t.Error("expected error when fast period >= slow period")
	}
	if _, err := MACDSeries(constant(60, 1), 0, 26); err == nil {
		t.Error("expected error for non-positive period")
	}
}

func TestDailyReturns(t *testing.T) {
	returns := DailyReturns([]float64{100, 110, 99})
	if !model.IsMissing(returns[0]) {
		t.Error("first return should be missing")
	}
	if math.Abs(returns[1]-0.10) > 1e-9 {
		t.Errorf("return[1] = %.6f, want 0.10", returns[1])
	}
	if math.Abs(returns[2]-(-0.10)) > 1e-9 {
		t.Errorf("return[2] = %.6f, want -0.10", returns[2])
	}
}

func TestDailyReturns_MissingPrev(t *testing.T) {
	returns := DailyReturns([]float64{model.Missing(), 100, 105})
	if !model.IsMissing(returns[1]) {
		t.Error("return after a missing close should be missing")
	}
	if math.Abs(returns[2]-0.05) > 1e-9 {
		t.Errorf("return[2] = %.6f, want 0.05", returns[2])
	}
}

func TestSeries_EmptyAndShortInput(t *testing.T) {
	if _, err := SMASeries(nil, 20); err == nil {
		t.Error("expected error for empty input")
	}
	sma, err := SMASeries(constant(5, 10), 20)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range sma {
		if !model.IsMissing(v) {
			t.Errorf("index %d: expected missing for input shorter than window, got %g", i, v)
		}
	}
}
