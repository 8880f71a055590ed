package repository

import (
	"context"
	"time"

	"stock-alpha-engine/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"
)

const createCandlesTable = `
CREATE TABLE IF NOT EXISTS candles (
    ticker      TEXT        NOT NULL,
    interval    TEXT        NOT NULL,
    open_time   TIMESTAMPTZ NOT NULL,
    open        NUMERIC     NOT NULL,
    high        NUMERIC     NOT NULL,
    low         NUMERIC     NOT NULL,
    close       NUMERIC     NOT NULL,
    volume      NUMERIC     NOT NULL,
    PRIMARY KEY (ticker, interval, open_time)
);

CREATE INDEX IF NOT EXISTS idx_candles_ticker_interval_time
    ON candles (ticker, interval, open_time DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type CandleRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewCandleRepository(pool PgxPool, tracer trace.Tracer) *CandleRepository {
	return &CandleRepository{pool: pool, tracer: tracer}
}

func (r *CandleRepository) RunMigrations(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "candle-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createCandlesTable)
	return err
}

func (r *CandleRepository) UpsertCandles(ctx context.Context, candles []*domain.Candle) error {
	if len(candles) == 0 {
		return nil
	}

	ctx, span := r.tracer.Start(ctx, "candle-repo.upsert-candles")
	defer span.End()

	batch := &pgx.Batch{}
	queued := 0
	for _, c := range candles {
		if c == nil {
			continue
		}
		batch.Queue(
			`INSERT INTO candles (ticker, interval, open_time, open, high, low, close, volume)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (ticker, interval, open_time) DO UPDATE SET
			     open = EXCLUDED.open,
			     high = EXCLUDED.high,
			     low = EXCLUDED.low,
			     close = EXCLUDED.close,
			     volume = EXCLUDED.volume`,
			c.Ticker, c.Interval, c.OpenTime.UTC(), c.Open, c.High, c.Low, c.Close, c.Volume,
		)
		queued++
	}
	if queued == 0 {
		return nil
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < queued; i++ {
		if _, err := br.Exec(); err != nil {
			span.RecordError(err)
			return err
		}
	}
	return nil
}

// GetCandles returns the newest limit candles first.
func (r *CandleRepository) GetCandles(ctx context.Context, ticker, interval string, limit int) ([]*domain.Candle, error) {
	ctx, span := r.tracer.Start(ctx, "candle-repo.get-candles")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT ticker, interval, open_time, open, high, low, close, volume
		 FROM candles
		 WHERE ticker = $1 AND interval = $2
		 ORDER BY open_time DESC
		 LIMIT $3`,
		ticker, interval, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candles []*domain.Candle
	for rows.Next() {
		c := &domain.Candle{}
		var openTime time.Time
		if err := rows.Scan(&c.Ticker, &c.Interval, &openTime, &c.Open, &c.High, &c.Low, &c.Close, &c.Volume); err != nil {
			return nil, err
		}
		c.OpenTime = openTime.UTC()
		candles = append(candles, c)
	}
	return candles, rows.Err()
}
