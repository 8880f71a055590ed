// Package app assembles the analysis service from configuration. Every
// entrypoint (HTTP, SSH, MCP) shares this wiring.
package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"stock-alpha-engine/internal/analysis"
	"stock-alpha-engine/internal/cache"
	"stock-alpha-engine/internal/config"
	"stock-alpha-engine/internal/db"
	"stock-alpha-engine/internal/ml/forecast"
	"stock-alpha-engine/internal/provider"
	"stock-alpha-engine/internal/repository"
	"stock-alpha-engine/internal/sentiment"
	"stock-alpha-engine/internal/service"

	"go.opentelemetry.io/otel/trace"
)

var (
	newYahooProviderFunc = provider.NewYahooProvider
	newRSSProviderFunc   = provider.NewRSSProvider
	newOpenAIScorerFunc  = sentiment.NewOpenAIScorer
)

// NewAnalysisService wires providers, scoring and the optional forecast model.
// Persistence is attached when db.Pool is set, and caching when cache.Client is set;
// call db.InitPostgres and cache.InitRedis first.
func NewAnalysisService(ctx context.Context, cfg *config.Config, tracer trace.Tracer) (*service.AnalysisService, error) {
	timeout := time.Duration(cfg.HTTPTimeoutSecs) * time.Second

	yahoo := newYahooProviderFunc(tracer, provider.YahooOptions{
		ChartBaseURL:   cfg.YahooBaseURL,
		SummaryBaseURL: cfg.YahooBaseURL,
		Timeout:        timeout,
		RatePerMinute:  cfg.YahooRatePerMin,
	})

	var llm sentiment.BatchLLMScorer
	if scorer := newOpenAIScorerFunc(cfg.OpenAIAPIKey, cfg.OpenAIModel); scorer != nil {
		llm = scorer
		log.Printf("LLM headline scoring enabled (model=%s)", cfg.OpenAIModel)
	}
	engine := analysis.NewEngine(sentiment.NewScorer(llm))

	svc := service.NewAnalysisService(tracer, yahoo, engine, service.AnalysisOptions{
		CacheTTL:  time.Duration(cfg.AnalysisCacheTTLSecs) * time.Second,
		NewsLimit: cfg.NewsLimit,
		FeedURL:   provider.HeadlineFeedURL,
	})
	svc.SetHeadlineFeed(newRSSProviderFunc(tracer, timeout))

	if cfg.ForecastEnabled {
		svc.SetForecaster(forecast.NewService(cfg.ForecastHorizonDays, 0))
	}

	if db.Pool != nil {
		candleRepo := repository.NewCandleRepository(db.Pool, tracer)
		if err := candleRepo.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("candle migrations: %w", err)
		}
		analysisRepo := repository.NewAnalysisRepository(db.Pool, tracer)
		if err := analysisRepo.RunMigrations(ctx); err != nil {
			return nil, fmt.Errorf("analysis migrations: %w", err)
		}
		svc.SetCandleRepository(candleRepo)
		svc.SetAnalysisRepository(analysisRepo)
	}

	if cache.Client != nil {
		svc.SetCache(cache.Client)
	}
	return svc, nil
}
