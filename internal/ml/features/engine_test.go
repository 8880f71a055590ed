package features

import (
	"math"
	"testing"
	"time"

	"stock-alpha-engine/internal/domain"
)

func TestEngineBuildRowsDeterministic(t *testing.T) {
	engine := NewEngine()
	candles := makeCandles(80)

	rowsA := engine.BuildRows(candles, 5)
	rowsB := engine.BuildRows(candles, 5)
	if len(rowsA) != 60 {
		t.Fatalf("expected 60 rows after warmup, got %d", len(rowsA))
	}
	if len(rowsA) != len(rowsB) {
		t.Fatalf("expected deterministic row count, got %d vs %d", len(rowsA), len(rowsB))
	}
	if rowsA[0].Ret1D != rowsB[0].Ret1D || rowsA[0].RSI14 != rowsB[0].RSI14 {
		t.Fatalf("expected deterministic features, got %+v vs %+v", rowsA[0], rowsB[0])
	}

	labeled, unlabeled := 0, 0
	for _, row := range rowsA {
		if row.Target != nil {
			labeled++
		} else {
			unlabeled++
		}
	}
	if labeled != 55 || unlabeled != 5 {
		t.Fatalf("expected 55 labeled and 5 unlabeled rows, got %d/%d", labeled, unlabeled)
	}
	if last := rowsA[len(rowsA)-1]; last.Day != candles[len(candles)-1].OpenTime.Unix() {
		t.Fatalf("expected final row on last candle, got %d", last.Day)
	}
}

func TestEngineBuildRowsSortsInput(t *testing.T) {
	candles := makeCandles(40)
	reversed := make([]*domain.Candle, len(candles))
	for i, c := range candles {
		reversed[len(candles)-1-i] = c
	}
	reversed = append(reversed, nil)

	a := NewEngine().BuildRows(candles, 5)
	b := NewEngine().BuildRows(reversed, 5)
	if len(a) != len(b) || a[0].Ret5D != b[0].Ret5D {
		t.Fatalf("expected order-independent rows")
	}
}

func TestEngineBuildRowsTooShort(t *testing.T) {
	if rows := NewEngine().BuildRows(makeCandles(20), 5); rows != nil {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
}

func TestRowVectorMatchesNames(t *testing.T) {
	rows := NewEngine().BuildRows(makeCandles(40), 5)
	v := rows[0].Vector()
	if len(v) != len(FeatureNames()) {
		t.Fatalf("vector has %d values for %d names", len(v), len(FeatureNames()))
	}
	for i, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			t.Fatalf("feature %s is not finite", FeatureNames()[i])
		}
	}
}

func makeCandles(n int) []*domain.Candle {
	out := make([]*domain.Candle, 0, n)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		price := 100 + 0.8*float64(i) + 3*math.Sin(float64(i)/3)
		out = append(out, &domain.Candle{
			Ticker:   "INFY.NS",
			Interval: domain.IntervalDaily,
			OpenTime: start.AddDate(0, 0, i),
			Open:     price - 0.2,
			High:     price + 0.4,
			Low:      price - 0.6,
			Close:    price,
			Volume:   1000 + float64(i*10),
		})
	}
	return out
}
