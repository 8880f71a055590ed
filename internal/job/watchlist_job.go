package job

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"stock-alpha-engine/internal/analysis"
	"stock-alpha-engine/internal/domain"

	"github.com/robfig/cron/v3"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ErrEmptyWatchlist is returned by RunOnce when no tickers are configured.
var ErrEmptyWatchlist = errors.New("watchlist is empty")

type Refresher interface {
	Refresh(ctx context.Context, ticker string) (*domain.AnalysisResponse, error)
}

// WatchlistJob re-analyses a fixed set of tickers on a cron schedule so the
// analysis cache is warm during market hours.
type WatchlistJob struct {
	tracer    trace.Tracer
	refresher Refresher
	tickers   []string
	schedule  string

	mu sync.Mutex
}

func NewWatchlistJob(tracer trace.Tracer, refresher Refresher, tickers []string, schedule string) *WatchlistJob {
	return &WatchlistJob{
		tracer:    tracer,
		refresher: refresher,
		tickers:   tickers,
		schedule:  schedule,
	}
}

// Start schedules RunOnce in Asia/Kolkata time. Blocks until ctx is cancelled.
func (j *WatchlistJob) Start(ctx context.Context) {
	if len(j.tickers) == 0 {
		log.Println("Watchlist job disabled: no tickers configured")
		<-ctx.Done()
		return
	}

	c := cron.New(cron.WithLocation(analysis.IST()))
	if _, err := c.AddFunc(j.schedule, func() {
		result, err := j.RunOnce(ctx)
		if err != nil {
			log.Printf("Watchlist cycle error: %v", err)
			return
		}
		log.Printf("Watchlist cycle complete analyzed=%d failed=%d", result.Analyzed, result.Failed)
	}); err != nil {
		log.Printf("Watchlist job disabled: invalid schedule %q: %v", j.schedule, err)
		<-ctx.Done()
		return
	}

	log.Printf("Watchlist job scheduled (%s) for %d tickers", j.schedule, len(j.tickers))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	log.Println("Watchlist job stopped")
}

// RunOnce refreshes every ticker in order. Per-ticker failures are collected
// in the result; only an empty watchlist or a cancelled context is an error.
// Overlapping runs are serialised.
func (j *WatchlistJob) RunOnce(ctx context.Context) (domain.WatchlistRunResult, error) {
	ctx, span := j.tracer.Start(ctx, "watchlist-job.run-once")
	defer span.End()

	var result domain.WatchlistRunResult
	if len(j.tickers) == 0 {
		return result, ErrEmptyWatchlist
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	for _, ticker := range j.tickers {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if _, err := j.refresher.Refresh(ctx, ticker); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ticker, err))
			continue
		}
		result.Analyzed++
	}

	span.SetAttributes(
		attribute.Int("analyzed", result.Analyzed),
		attribute.Int("failed", result.Failed),
	)
	return result, nil
}
