package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"stock-alpha-engine/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const createAnalysesTable = `
CREATE TABLE IF NOT EXISTS analyses (
    id            UUID        PRIMARY KEY,
    ticker        TEXT        NOT NULL,
    price         NUMERIC,
    overall_score INTEGER     NOT NULL,
    signal        TEXT        NOT NULL,
    verdict       TEXT        NOT NULL,
    payload       JSONB       NOT NULL DEFAULT '{}'::jsonb,
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_analyses_ticker_created
    ON analyses (ticker, created_at DESC);
`

type AnalysisRepository struct {
	pool   PgxPool
	tracer trace.Tracer
	newID  func() uuid.UUID
}

func NewAnalysisRepository(pool PgxPool, tracer trace.Tracer) *AnalysisRepository {
	return &AnalysisRepository{pool: pool, tracer: tracer, newID: uuid.New}
}

func (r *AnalysisRepository) RunMigrations(ctx context.Context) error {
	ctx, span := r.tracer.Start(ctx, "analysis-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createAnalysesTable)
	return err
}

// Save stores a summary of resp with its full JSON payload and returns the stored record.
func (r *AnalysisRepository) Save(ctx context.Context, resp *domain.AnalysisResponse) (*domain.AnalysisRecord, error) {
	if resp == nil {
		return nil, fmt.Errorf("nil analysis")
	}
	ctx, span := r.tracer.Start(ctx, "analysis-repo.save")
	defer span.End()

	payload, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal analysis: %w", err)
	}

	createdAt := resp.GeneratedAt.UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	rec := &domain.AnalysisRecord{
		ID:           r.newID().String(),
		Ticker:       strings.ToUpper(resp.Ticker),
		Price:        resp.Price,
		OverallScore: resp.OverallScore,
		Signal:       resp.Signal,
		Verdict:      resp.Verdict,
		CreatedAt:    createdAt,
		PayloadJSON:  string(payload),
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO analyses (id, ticker, price, overall_score, signal, verdict, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7::jsonb, $8)`,
		rec.ID, rec.Ticker, nullFloat(rec.Price), rec.OverallScore, string(rec.Signal), rec.Verdict, rec.PayloadJSON, rec.CreatedAt,
	)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return rec, nil
}

// ListByTicker returns the newest records first.
func (r *AnalysisRepository) ListByTicker(ctx context.Context, ticker string, limit int) ([]domain.AnalysisRecord, error) {
	ctx, span := r.tracer.Start(ctx, "analysis-repo.list-by-ticker")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT id::text, ticker, price, overall_score, signal, verdict, created_at
		 FROM analyses
		 WHERE ticker = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		strings.ToUpper(ticker), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.AnalysisRecord{}
	for rows.Next() {
		var rec domain.AnalysisRecord
		var signal string
		var createdAt time.Time
		if err := rows.Scan(&rec.ID, &rec.Ticker, &rec.Price, &rec.OverallScore, &signal, &rec.Verdict, &createdAt); err != nil {
			return nil, err
		}
		rec.Signal = domain.Signal(signal)
		rec.CreatedAt = createdAt.UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
