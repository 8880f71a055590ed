package handler

import (
	"context"

	"stock-alpha-engine/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type stubAnalysisService struct {
	resp    *domain.AnalysisResponse
	cached  bool
	err     error
	candles []*domain.Candle
	records []domain.AnalysisRecord

	lastTicker string
	lastLimit  int
}

func (s *stubAnalysisService) Analyze(ctx context.Context, ticker string) (*domain.AnalysisResponse, bool, error) {
	s.lastTicker = ticker
	return s.resp, s.cached, s.err
}

func (s *stubAnalysisService) GetCandles(ctx context.Context, ticker string, limit int) ([]*domain.Candle, error) {
	s.lastTicker = ticker
	s.lastLimit = limit
	return s.candles, s.err
}

func (s *stubAnalysisService) History(ctx context.Context, ticker string, limit int) ([]domain.AnalysisRecord, error) {
	s.lastTicker = ticker
	s.lastLimit = limit
	return s.records, s.err
}

type stubWatchlistRunner struct {
	result domain.WatchlistRunResult
	err    error
	calls  int
}

func (s *stubWatchlistRunner) RunOnce(ctx context.Context) (domain.WatchlistRunResult, error) {
	s.calls++
	return s.result, s.err
}

func newTestRouter(svc AnalysisService) (*gin.Engine, *Handler) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(trace.NewNoopTracerProvider().Tracer("test"), svc)
	return r, h
}

func ptr[T any](v T) *T { return &v }
