package job

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"stock-alpha-engine/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type stubRefresher struct {
	mu      sync.Mutex
	calls   []string
	failFor map[string]error
}

func (s *stubRefresher) Refresh(ctx context.Context, ticker string) (*domain.AnalysisResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, ticker)
	if err := s.failFor[ticker]; err != nil {
		return nil, err
	}
	return &domain.AnalysisResponse{Ticker: ticker}, nil
}

func TestWatchlistRunOnceCollectsFailures(t *testing.T) {
	stub := &stubRefresher{failFor: map[string]error{"BAD.NS": errors.New("ticker not found")}}
	job := NewWatchlistJob(trace.NewNoopTracerProvider().Tracer("test"), stub, []string{"TCS.NS", "BAD.NS", "INFY.NS"}, "@every 1h")

	result, err := job.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Analyzed != 2 || result.Failed != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "BAD.NS: ") {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(stub.calls) != 3 || stub.calls[2] != "INFY.NS" {
		t.Fatalf("expected every ticker refreshed in order, got %v", stub.calls)
	}
}

func TestWatchlistRunOnceEmpty(t *testing.T) {
	job := NewWatchlistJob(trace.NewNoopTracerProvider().Tracer("test"), &stubRefresher{}, nil, "@every 1h")
	if _, err := job.RunOnce(context.Background()); !errors.Is(err, ErrEmptyWatchlist) {
		t.Fatalf("expected ErrEmptyWatchlist, got %v", err)
	}
}

func TestWatchlistRunOnceCancelled(t *testing.T) {
	stub := &stubRefresher{}
	job := NewWatchlistJob(trace.NewNoopTracerProvider().Tracer("test"), stub, []string{"TCS.NS"}, "@every 1h")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := job.RunOnce(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(stub.calls) != 0 {
		t.Fatalf("expected no refresh after cancel, got %v", stub.calls)
	}
}

func TestWatchlistStartReturnsOnCancel(t *testing.T) {
	tests := []struct {
		name     string
		tickers  []string
		schedule string
	}{
		{name: "no tickers", schedule: "@every 1h"},
		{name: "invalid schedule", tickers: []string{"TCS.NS"}, schedule: "not a cron"},
		{name: "scheduled", tickers: []string{"TCS.NS"}, schedule: "@every 1h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewWatchlistJob(trace.NewNoopTracerProvider().Tracer("test"), &stubRefresher{}, tt.tickers, tt.schedule)

			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan struct{})
			go func() {
				job.Start(ctx)
				close(done)
			}()

			time.Sleep(10 * time.Millisecond)
			cancel()

			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("Start did not return after cancel")
			}
		})
	}
}
