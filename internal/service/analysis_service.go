package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"stock-alpha-engine/internal/analysis"
	"stock-alpha-engine/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAnalysisCacheTTL = 5 * time.Minute
	defaultNewsLimit        = 10

	defaultCandleLimit  = 100
	maxCandleLimit      = 500
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
	analysisCachePrefix = "analysis:"
)

// ErrHistoryUnavailable means no analysis store is configured.
var ErrHistoryUnavailable = errors.New("analysis history is not configured")

type MarketDataProvider interface {
	FetchHistory(ctx context.Context, ticker, rangeStr string) ([]*domain.Candle, *domain.Quote, error)
	FetchFundamentals(ctx context.Context, ticker string) (*domain.Fundamentals, error)
	FetchNews(ctx context.Context, ticker string, max int) ([]domain.Headline, error)
}

type HeadlineFeed interface {
	FetchFeed(ctx context.Context, url string, max int) ([]domain.Headline, error)
}

type CandleRepository interface {
	GetCandles(ctx context.Context, ticker, interval string, limit int) ([]*domain.Candle, error)
	UpsertCandles(ctx context.Context, candles []*domain.Candle) error
}

type AnalysisRepository interface {
	Save(ctx context.Context, resp *domain.AnalysisResponse) (*domain.AnalysisRecord, error)
	ListByTicker(ctx context.Context, ticker string, limit int) ([]domain.AnalysisRecord, error)
}

type Forecaster interface {
	Forecast(candles []*domain.Candle) *domain.Forecast
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

type AnalysisOptions struct {
	CacheTTL  time.Duration
	NewsLimit int
	// FeedURL builds the fallback headline feed address for a ticker.
	FeedURL func(ticker string) string
}

// AnalysisService fetches market data for a ticker, runs the analysis engine, and
// caches and persists the result.
type AnalysisService struct {
	tracer    trace.Tracer
	provider  MarketDataProvider
	engine    *analysis.Engine
	feed      HeadlineFeed
	feedURL   func(string) string
	forecast  Forecaster
	candles   CandleRepository
	analyses  AnalysisRepository
	redis     RedisClient
	cacheTTL  time.Duration
	newsLimit int
	now       func() time.Time
}

func NewAnalysisService(tracer trace.Tracer, provider MarketDataProvider, engine *analysis.Engine, opts AnalysisOptions) *AnalysisService {
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultAnalysisCacheTTL
	}
	if opts.NewsLimit <= 0 {
		opts.NewsLimit = defaultNewsLimit
	}
	return &AnalysisService{
		tracer:    tracer,
		provider:  provider,
		engine:    engine,
		feedURL:   opts.FeedURL,
		cacheTTL:  opts.CacheTTL,
		newsLimit: opts.NewsLimit,
		now:       time.Now,
	}
}

func (s *AnalysisService) SetHeadlineFeed(feed HeadlineFeed) { s.feed = feed }

func (s *AnalysisService) SetForecaster(f Forecaster) { s.forecast = f }

func (s *AnalysisService) SetCandleRepository(repo CandleRepository) { s.candles = repo }

func (s *AnalysisService) SetAnalysisRepository(repo AnalysisRepository) { s.analyses = repo }

func (s *AnalysisService) SetCache(client RedisClient) { s.redis = client }

// Analyze returns the analysis for a ticker and whether it was served from cache.
func (s *AnalysisService) Analyze(ctx context.Context, rawTicker string) (*domain.AnalysisResponse, bool, error) {
	return s.analyze(ctx, rawTicker, true)
}

// Refresh recomputes the analysis, ignoring any cached copy.
func (s *AnalysisService) Refresh(ctx context.Context, rawTicker string) (*domain.AnalysisResponse, error) {
	resp, _, err := s.analyze(ctx, rawTicker, false)
	return resp, err
}

func (s *AnalysisService) analyze(ctx context.Context, rawTicker string, useCache bool) (*domain.AnalysisResponse, bool, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.analyze")
	defer span.End()

	ticker, err := analysis.NormalizeTicker(rawTicker)
	if err != nil {
		return nil, false, err
	}
	span.SetAttributes(attribute.String("ticker", ticker))

	if useCache && s.redis != nil {
		cached, err := s.getCached(ctx, ticker)
		if err != nil {
			log.Printf("redis cache read error for %s: %v", ticker, err)
		}
		if cached != nil {
			cached.MarketStatus = analysis.MarketStatus(s.now())
			return cached, true, nil
		}
	}

	in := s.fetchInputs(ctx, ticker)
	resp, err := s.engine.Build(ctx, in)
	if err != nil {
		span.RecordError(err)
		return nil, false, err
	}

	if s.forecast != nil && len(in.Candles) > 0 {
		resp.Forecast = s.forecast.Forecast(in.Candles)
	}

	if s.redis != nil {
		if err := s.setCached(ctx, resp); err != nil {
			log.Printf("redis cache write error for %s: %v", ticker, err)
		}
	}
	s.persist(ctx, resp, in.Candles)

	return resp, false, nil
}

// fetchInputs loads history, fundamentals and headlines concurrently. A failed
// source leaves its field empty; the engine decides whether that is fatal.
func (s *AnalysisService) fetchInputs(ctx context.Context, ticker string) analysis.Input {
	in := analysis.Input{Ticker: ticker, Now: s.now()}

	var g errgroup.Group
	g.Go(func() error {
		candles, quote, err := s.provider.FetchHistory(ctx, ticker, domain.HistoryRange)
		if err != nil {
			log.Printf("history fetch failed for %s: %v", ticker, err)
			return nil
		}
		in.Candles, in.Quote = candles, quote
		return nil
	})
	g.Go(func() error {
		fund, err := s.provider.FetchFundamentals(ctx, ticker)
		if err != nil {
			log.Printf("fundamentals fetch failed for %s: %v", ticker, err)
			return nil
		}
		in.Fundamentals = fund
		return nil
	})
	g.Go(func() error {
		in.Headlines = s.fetchHeadlines(ctx, ticker)
		return nil
	})
	_ = g.Wait()

	return in
}

func (s *AnalysisService) fetchHeadlines(ctx context.Context, ticker string) []domain.Headline {
	headlines, err := s.provider.FetchNews(ctx, ticker, s.newsLimit)
	if err != nil {
		log.Printf("news fetch failed for %s: %v", ticker, err)
	}
	if len(headlines) > 0 || s.feed == nil || s.feedURL == nil {
		return headlines
	}

	fallback, err := s.feed.FetchFeed(ctx, s.feedURL(ticker), s.newsLimit)
	if err != nil {
		log.Printf("headline feed fallback failed for %s: %v", ticker, err)
		return nil
	}
	return fallback
}

func (s *AnalysisService) persist(ctx context.Context, resp *domain.AnalysisResponse, candles []*domain.Candle) {
	if s.candles != nil && len(candles) > 0 {
		if err := s.candles.UpsertCandles(ctx, candles); err != nil {
			log.Printf("candle upsert failed for %s: %v", resp.Ticker, err)
		}
	}
	if s.analyses != nil {
		if _, err := s.analyses.Save(ctx, resp); err != nil {
			log.Printf("analysis save failed for %s: %v", resp.Ticker, err)
		}
	}
}

// GetCandles returns stored daily candles newest first, falling back to a live fetch.
func (s *AnalysisService) GetCandles(ctx context.Context, rawTicker string, limit int) ([]*domain.Candle, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.get-candles")
	defer span.End()

	ticker, err := analysis.NormalizeTicker(rawTicker)
	if err != nil {
		return nil, err
	}
	limit = clampLimit(limit, defaultCandleLimit, maxCandleLimit)

	if s.candles != nil {
		stored, err := s.candles.GetCandles(ctx, ticker, domain.IntervalDaily, limit)
		if err != nil {
			log.Printf("candle read failed for %s: %v", ticker, err)
		} else if len(stored) > 0 {
			return stored, nil
		}
	}

	live, _, err := s.provider.FetchHistory(ctx, ticker, domain.HistoryRange)
	if err != nil {
		return nil, fmt.Errorf("fetch history for %s: %w", ticker, err)
	}
	out := make([]*domain.Candle, 0, limit)
	for i := len(live) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, live[i])
	}
	return out, nil
}

// History lists persisted analysis summaries for a ticker, newest first.
func (s *AnalysisService) History(ctx context.Context, rawTicker string, limit int) ([]domain.AnalysisRecord, error) {
	ctx, span := s.tracer.Start(ctx, "analysis-service.history")
	defer span.End()

	ticker, err := analysis.NormalizeTicker(rawTicker)
	if err != nil {
		return nil, err
	}
	if s.analyses == nil {
		return nil, ErrHistoryUnavailable
	}
	return s.analyses.ListByTicker(ctx, ticker, clampLimit(limit, defaultHistoryLimit, maxHistoryLimit))
}

func (s *AnalysisService) setCached(ctx context.Context, resp *domain.AnalysisResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, analysisCachePrefix+resp.Ticker, data, s.cacheTTL).Err()
}

func (s *AnalysisService) getCached(ctx context.Context, ticker string) (*domain.AnalysisResponse, error) {
	data, err := s.redis.Get(ctx, analysisCachePrefix+ticker).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var resp domain.AnalysisResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func clampLimit(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}
