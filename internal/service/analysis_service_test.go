package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"stock-alpha-engine/internal/analysis"
	"stock-alpha-engine/internal/domain"
	"stock-alpha-engine/internal/provider"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

func newTestService(p *mockProvider) *AnalysisService {
	svc := NewAnalysisService(testTracer, p, analysis.NewEngine(nil), AnalysisOptions{
		FeedURL: func(t string) string { return "https://feeds.example/" + t },
	})
	svc.now = func() time.Time { return time.Date(2024, 1, 8, 10, 0, 0, 0, analysis.IST()) }
	return svc
}

func TestAnalysisService_AnalyzeFetchesAndCaches(t *testing.T) {
	t.Parallel()

	p := &mockProvider{candles: makeCandles(60), fund: &domain.Fundamentals{Ticker: "TCS.NS", Price: ptr(3500.0)}}
	redis := newFakeRedis()
	candleRepo := &mockCandleRepo{}
	analysisRepo := &mockAnalysisRepo{}

	svc := newTestService(p)
	svc.SetCache(redis)
	svc.SetCandleRepository(candleRepo)
	svc.SetAnalysisRepository(analysisRepo)

	resp, cached, err := svc.Analyze(context.Background(), " tcs.ns ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cached {
		t.Fatal("expected cache miss")
	}
	if resp.Ticker != "TCS.NS" || *resp.Price != 3500 {
		t.Fatalf("unexpected response %+v", resp)
	}
	if _, ok := redis.data["analysis:TCS.NS"]; !ok {
		t.Fatal("expected analysis cached")
	}
	if candleRepo.upserted != 60 {
		t.Fatalf("expected 60 candles persisted, got %d", candleRepo.upserted)
	}
	if len(analysisRepo.saved) != 1 {
		t.Fatalf("expected analysis persisted, got %d", len(analysisRepo.saved))
	}
	if p.historyRange != domain.HistoryRange {
		t.Fatalf("expected 1y history request, got %s", p.historyRange)
	}
}

func TestAnalysisService_AnalyzeCacheHitRefreshesMarketStatus(t *testing.T) {
	t.Parallel()

	redis := newFakeRedis()
	stale := domain.AnalysisResponse{Ticker: "INFY.NS", OverallScore: 70, MarketStatus: analysis.MarketClosedWeekend}
	data, _ := json.Marshal(stale)
	_ = redis.Set(context.Background(), "analysis:INFY.NS", data, 0)

	p := &mockProvider{}
	svc := newTestService(p)
	svc.SetCache(redis)

	resp, cached, err := svc.Analyze(context.Background(), "infy.ns")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cached || resp.OverallScore != 70 {
		t.Fatalf("expected cached response, got cached=%t %+v", cached, resp)
	}
	if resp.MarketStatus != analysis.MarketOpen {
		t.Fatalf("expected recomputed market status, got %s", resp.MarketStatus)
	}
	if p.calls() != 0 {
		t.Fatalf("expected no provider calls on cache hit, got %d", p.calls())
	}
}

func TestAnalysisService_RefreshBypassesCache(t *testing.T) {
	t.Parallel()

	redis := newFakeRedis()
	data, _ := json.Marshal(domain.AnalysisResponse{Ticker: "INFY.NS", OverallScore: 1})
	_ = redis.Set(context.Background(), "analysis:INFY.NS", data, 0)

	p := &mockProvider{candles: makeCandles(30)}
	svc := newTestService(p)
	svc.SetCache(redis)

	resp, err := svc.Refresh(context.Background(), "INFY.NS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.OverallScore == 1 {
		t.Fatal("expected fresh analysis")
	}
	if p.calls() == 0 {
		t.Fatal("expected provider calls")
	}
}

func TestAnalysisService_AnalyzeNotFound(t *testing.T) {
	t.Parallel()

	p := &mockProvider{historyErr: provider.ErrTickerNotFound, fundErr: provider.ErrTickerNotFound}
	svc := newTestService(p)

	_, _, err := svc.Analyze(context.Background(), "NOPE.NS")
	if !errors.Is(err, analysis.ErrTickerNotFound) {
		t.Fatalf("expected ErrTickerNotFound, got %v", err)
	}
}

func TestAnalysisService_AnalyzeInvalidTicker(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockProvider{})
	if _, _, err := svc.Analyze(context.Background(), "not a ticker"); !errors.Is(err, analysis.ErrInvalidTicker) {
		t.Fatalf("expected ErrInvalidTicker, got %v", err)
	}
}

func TestAnalysisService_NewsFallsBackToFeed(t *testing.T) {
	t.Parallel()

	p := &mockProvider{candles: makeCandles(30), newsErr: errors.New("search down")}
	feed := &mockFeed{headlines: []domain.Headline{{Title: "Shares surge"}}}
	svc := newTestService(p)
	svc.SetHeadlineFeed(feed)

	resp, _, err := svc.Analyze(context.Background(), "SBIN.NS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if feed.url != "https://feeds.example/SBIN.NS" {
		t.Fatalf("unexpected feed url %s", feed.url)
	}
	if len(resp.Sentiment.Headlines) != 1 || resp.Sentiment.Headlines[0] != "Shares surge" {
		t.Fatalf("expected fallback headline, got %v", resp.Sentiment.Headlines)
	}
}

func TestAnalysisService_ForecastAttached(t *testing.T) {
	t.Parallel()

	p := &mockProvider{candles: makeCandles(30)}
	svc := newTestService(p)
	svc.SetForecaster(stubForecaster{f: &domain.Forecast{ProbUp: 0.6, Direction: domain.ForecastUp}})

	resp, _, err := svc.Analyze(context.Background(), "SBIN.NS")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Forecast == nil || resp.Forecast.Direction != domain.ForecastUp {
		t.Fatalf("expected forecast attached, got %+v", resp.Forecast)
	}
}

func TestAnalysisService_PersistenceFailuresAreNotFatal(t *testing.T) {
	t.Parallel()

	p := &mockProvider{candles: makeCandles(30)}
	redis := newFakeRedis()
	redis.setErr = errors.New("redis down")
	svc := newTestService(p)
	svc.SetCache(redis)
	svc.SetCandleRepository(&mockCandleRepo{upsertErr: errors.New("db down")})
	svc.SetAnalysisRepository(&mockAnalysisRepo{err: errors.New("db down")})

	if _, _, err := svc.Analyze(context.Background(), "SBIN.NS"); err != nil {
		t.Fatalf("expected success despite persistence errors, got %v", err)
	}
}

func TestAnalysisService_GetCandlesPrefersStore(t *testing.T) {
	t.Parallel()

	stored := makeCandles(3)
	repo := &mockCandleRepo{candles: stored}
	p := &mockProvider{}
	svc := newTestService(p)
	svc.SetCandleRepository(repo)

	got, err := svc.GetCandles(context.Background(), "tcs.ns", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || repo.lastLimit != 100 || repo.lastTicker != "TCS.NS" {
		t.Fatalf("unexpected store read: %d candles, limit %d, ticker %s", len(got), repo.lastLimit, repo.lastTicker)
	}
	if p.calls() != 0 {
		t.Fatal("expected no live fetch")
	}
}

func TestAnalysisService_GetCandlesFallsBackToLive(t *testing.T) {
	t.Parallel()

	p := &mockProvider{candles: makeCandles(10)}
	svc := newTestService(p)

	got, err := svc.GetCandles(context.Background(), "TCS.NS", 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("expected 4 candles, got %d", len(got))
	}
	if !got[0].OpenTime.After(got[1].OpenTime) {
		t.Fatal("expected newest first")
	}
}

func TestAnalysisService_History(t *testing.T) {
	t.Parallel()

	svc := newTestService(&mockProvider{})
	if _, err := svc.History(context.Background(), "TCS.NS", 5); !errors.Is(err, ErrHistoryUnavailable) {
		t.Fatalf("expected ErrHistoryUnavailable, got %v", err)
	}

	repo := &mockAnalysisRepo{records: []domain.AnalysisRecord{{ID: "a", Ticker: "TCS.NS"}}}
	svc.SetAnalysisRepository(repo)
	recs, err := svc.History(context.Background(), "tcs.ns", 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 || repo.lastLimit != 100 {
		t.Fatalf("expected clamped limit 100, got %d", repo.lastLimit)
	}
}

func ptr[T any](v T) *T { return &v }

func makeCandles(n int) []*domain.Candle {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]*domain.Candle, n)
	for i := 0; i < n; i++ {
		c := 100 + float64(i%7)
		out[i] = &domain.Candle{
			Ticker:   "TEST.NS",
			Interval: domain.IntervalDaily,
			OpenTime: start.AddDate(0, 0, i),
			Open:     c,
			High:     c + 1,
			Low:      c - 1,
			Close:    c,
			Volume:   1000,
		}
	}
	return out
}

type mockProvider struct {
	mu           sync.Mutex
	n            int
	candles      []*domain.Candle
	quote        *domain.Quote
	fund         *domain.Fundamentals
	news         []domain.Headline
	historyErr   error
	fundErr      error
	newsErr      error
	historyRange string
}

func (m *mockProvider) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.n
}

func (m *mockProvider) FetchHistory(ctx context.Context, ticker, rangeStr string) ([]*domain.Candle, *domain.Quote, error) {
	m.mu.Lock()
	m.n++
	m.historyRange = rangeStr
	m.mu.Unlock()
	if m.historyErr != nil {
		return nil, nil, m.historyErr
	}
	return m.candles, m.quote, nil
}

func (m *mockProvider) FetchFundamentals(ctx context.Context, ticker string) (*domain.Fundamentals, error) {
	m.mu.Lock()
	m.n++
	m.mu.Unlock()
	if m.fundErr != nil {
		return nil, m.fundErr
	}
	return m.fund, nil
}

func (m *mockProvider) FetchNews(ctx context.Context, ticker string, max int) ([]domain.Headline, error) {
	m.mu.Lock()
	m.n++
	m.mu.Unlock()
	if m.newsErr != nil {
		return nil, m.newsErr
	}
	return m.news, nil
}

type mockFeed struct {
	url       string
	headlines []domain.Headline
}

func (m *mockFeed) FetchFeed(ctx context.Context, url string, max int) ([]domain.Headline, error) {
	m.url = url
	return m.headlines, nil
}

type stubForecaster struct {
	f *domain.Forecast
}

func (s stubForecaster) Forecast([]*domain.Candle) *domain.Forecast { return s.f }

type mockCandleRepo struct {
	candles    []*domain.Candle
	upserted   int
	upsertErr  error
	lastLimit  int
	lastTicker string
}

func (m *mockCandleRepo) GetCandles(ctx context.Context, ticker, interval string, limit int) ([]*domain.Candle, error) {
	m.lastLimit = limit
	m.lastTicker = ticker
	return m.candles, nil
}

func (m *mockCandleRepo) UpsertCandles(ctx context.Context, candles []*domain.Candle) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.upserted += len(candles)
	return nil
}

type mockAnalysisRepo struct {
	saved     []*domain.AnalysisResponse
	records   []domain.AnalysisRecord
	err       error
	lastLimit int
}

func (m *mockAnalysisRepo) Save(ctx context.Context, resp *domain.AnalysisResponse) (*domain.AnalysisRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.saved = append(m.saved, resp)
	return &domain.AnalysisRecord{Ticker: resp.Ticker}, nil
}

func (m *mockAnalysisRepo) ListByTicker(ctx context.Context, ticker string, limit int) ([]domain.AnalysisRecord, error) {
	m.lastLimit = limit
	return m.records, m.err
}

type fakeRedis struct {
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}
