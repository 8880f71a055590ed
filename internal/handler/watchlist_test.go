package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"stock-alpha-engine/internal/domain"
)

func TestRefreshWatchlistUnavailable(t *testing.T) {
	r, h := newTestRouter(&stubAnalysisService{})
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/watchlist/refresh", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestRefreshWatchlistRequiresAPIKey(t *testing.T) {
	runner := &stubWatchlistRunner{}
	r, h := newTestRouter(&stubAnalysisService{})
	h.SetWatchlistRunner(runner)
	h.SetAPIKey("secret")
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/watchlist/refresh", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("POST", "/api/watchlist/refresh", nil)
	req.Header.Set("X-API-Key", "wrong")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
	if runner.calls != 0 {
		t.Fatalf("runner should not be called without valid key")
	}
}

func TestRefreshWatchlistSuccess(t *testing.T) {
	runner := &stubWatchlistRunner{result: domain.WatchlistRunResult{Analyzed: 2, Failed: 1, Errors: []string{"BAD.NS: not found"}}}
	r, h := newTestRouter(&stubAnalysisService{})
	h.SetWatchlistRunner(runner)
	h.SetAPIKey("secret")
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/watchlist/refresh", nil)
	req.Header.Set("X-API-Key", "secret")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var body struct {
		Status   string   `json:"status"`
		Analyzed int      `json:"analyzed"`
		Failed   int      `json:"failed"`
		Errors   []string `json:"errors"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Status != "ok" || body.Analyzed != 2 || body.Failed != 1 || len(body.Errors) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
	if runner.calls != 1 {
		t.Fatalf("expected 1 run, got %d", runner.calls)
	}
}

func TestRefreshWatchlistError(t *testing.T) {
	runner := &stubWatchlistRunner{err: errors.New("watchlist is empty")}
	r, h := newTestRouter(&stubAnalysisService{})
	h.SetWatchlistRunner(runner)
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/watchlist/refresh", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}
