package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"stock-alpha-engine/internal/domain"
	"stock-alpha-engine/internal/provider"
	"stock-alpha-engine/internal/service"
)

func TestGetCandles(t *testing.T) {
	svc := &stubAnalysisService{candles: []*domain.Candle{
		{Ticker: "TCS.NS", Interval: domain.IntervalDaily, OpenTime: time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC), Close: 3500},
	}}
	r, h := newTestRouter(svc)
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/candles/tcs.ns?limit=10", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if svc.lastTicker != "TCS.NS" || svc.lastLimit != 10 {
		t.Fatalf("unexpected service args: %q %d", svc.lastTicker, svc.lastLimit)
	}

	var body struct {
		Ticker   string          `json:"ticker"`
		Interval string          `json:"interval"`
		Candles  []domain.Candle `json:"candles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Ticker != "TCS.NS" || body.Interval != "1d" || len(body.Candles) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGetCandlesBadLimitFallsBackToDefault(t *testing.T) {
	svc := &stubAnalysisService{}
	r, h := newTestRouter(svc)
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/candles/TCS.NS?limit=abc", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if svc.lastLimit != 0 {
		t.Fatalf("expected limit 0 for service default, got %d", svc.lastLimit)
	}
}

func TestGetCandlesNotFound(t *testing.T) {
	svc := &stubAnalysisService{err: fmt.Errorf("fetch history: %w", provider.ErrTickerNotFound)}
	r, h := newTestRouter(svc)
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/candles/NOPE.NS", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestListAnalyses(t *testing.T) {
	svc := &stubAnalysisService{records: []domain.AnalysisRecord{
		{ID: "a1", Ticker: "TCS.NS", OverallScore: 70, Signal: domain.SignalBuy},
	}}
	r, h := newTestRouter(svc)
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analyses/tcs.ns?limit=5", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Ticker   string                  `json:"ticker"`
		Analyses []domain.AnalysisRecord `json:"analyses"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Ticker != "TCS.NS" || len(body.Analyses) != 1 || body.Analyses[0].ID != "a1" {
		t.Fatalf("unexpected body: %+v", body)
	}
	if svc.lastLimit != 5 {
		t.Fatalf("expected limit 5, got %d", svc.lastLimit)
	}
}

func TestListAnalysesUnavailable(t *testing.T) {
	r, h := newTestRouter(&stubAnalysisService{err: service.ErrHistoryUnavailable})
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analyses/TCS.NS", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}
