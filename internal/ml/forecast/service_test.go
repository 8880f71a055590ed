package forecast

import (
	"math"
	"testing"
	"time"

	"stock-alpha-engine/internal/domain"
)

func TestForecastTooFewSamples(t *testing.T) {
	s := NewService(5, 60)
	if f := s.Forecast(makeCandles(70, wave)); f != nil {
		t.Fatalf("expected nil forecast with 45 labelled rows, got %+v", f)
	}
}

func TestForecastSingleClass(t *testing.T) {
	s := NewService(5, 60)
	rising := func(i int) float64 { return 100 + float64(i) }
	if f := s.Forecast(makeCandles(200, rising)); f != nil {
		t.Fatalf("expected nil forecast when every label is up, got %+v", f)
	}
}

func TestForecastProducesEstimate(t *testing.T) {
	s := NewService(0, 0)
	f := s.Forecast(makeCandles(250, wave))
	if f == nil {
		t.Fatal("expected a forecast")
	}
	if f.HorizonDays != DefaultHorizonDays {
		t.Fatalf("expected default horizon, got %d", f.HorizonDays)
	}
	if f.ProbUp < 0 || f.ProbUp > 1 {
		t.Fatalf("prob out of range: %.4f", f.ProbUp)
	}
	if f.Samples != 250-20-5 {
		t.Fatalf("unexpected sample count %d", f.Samples)
	}
	if len(f.Models) == 0 || f.Models[0] != "logreg" {
		t.Fatalf("unexpected models %v", f.Models)
	}
	switch f.Direction {
	case domain.ForecastUp, domain.ForecastDown, domain.ForecastFlat:
	default:
		t.Fatalf("unexpected direction %s", f.Direction)
	}
}

func wave(i int) float64 {
	return 100 + 10*math.Sin(float64(i)/6) + 0.05*float64(i)
}

func makeCandles(n int, price func(int) float64) []*domain.Candle {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*domain.Candle, n)
	for i := 0; i < n; i++ {
		p := price(i)
		out[i] = &domain.Candle{
			Ticker:   "HDFCBANK.NS",
			Interval: domain.IntervalDaily,
			OpenTime: start.AddDate(0, 0, i),
			Open:     p,
			High:     p + 1,
			Low:      p - 1,
			Close:    p,
			Volume:   5000 + float64(i%7)*100,
		}
	}
	return out
}
