package handler

import (
	"context"
	"time"

	"stock-alpha-engine/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

type AnalysisService interface {
	Analyze(ctx context.Context, ticker string) (*domain.AnalysisResponse, bool, error)
	GetCandles(ctx context.Context, ticker string, limit int) ([]*domain.Candle, error)
	History(ctx context.Context, ticker string, limit int) ([]domain.AnalysisRecord, error)
}

type WatchlistRunner interface {
	RunOnce(ctx context.Context) (domain.WatchlistRunResult, error)
}

type Handler struct {
	tracer          trace.Tracer
	analyses        AnalysisService
	watchlistRunner WatchlistRunner
	apiKey          string
	now             func() time.Time
}

func New(tracer trace.Tracer, analyses AnalysisService) *Handler {
	return &Handler{
		tracer:   tracer,
		analyses: analyses,
		now:      time.Now,
	}
}

func (h *Handler) SetWatchlistRunner(r WatchlistRunner) { h.watchlistRunner = r }

// SetAPIKey guards mutating routes with X-API-Key. An empty key disables the check.
func (h *Handler) SetAPIKey(key string) { h.apiKey = key }

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/", h.Root)
	r.GET("/health", h.Health)
	r.GET("/analyze", h.Analyze)

	api := r.Group("/api")
	api.GET("/market-status", h.MarketStatus)
	api.GET("/candles/:ticker", h.GetCandles)
	api.GET("/analyses/:ticker", h.ListAnalyses)
	api.POST("/watchlist/refresh", APIKeyAuth(h.apiKey), h.RefreshWatchlist)
}
