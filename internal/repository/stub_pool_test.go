package repository

import (
	"context"
	"fmt"
	"reflect"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execCall struct {
	sql  string
	args []any
}

type stubPool struct {
	execs    []execCall
	execErr  error
	batch    *pgx.Batch
	batchErr error
	queries  []execCall
	rows     [][]any
	queryErr error
}

func (p *stubPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	p.execs = append(p.execs, execCall{sql: sql, args: args})
	return pgconn.CommandTag{}, p.execErr
}

func (p *stubPool) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	p.batch = b
	return &stubBatch{err: p.batchErr}
}

func (p *stubPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	p.queries = append(p.queries, execCall{sql: sql, args: args})
	if p.queryErr != nil {
		return nil, p.queryErr
	}
	return &stubRows{data: p.rows, idx: -1}, nil
}

type stubBatch struct {
	err  error
	runs int
}

func (b *stubBatch) Exec() (pgconn.CommandTag, error) {
	b.runs++
	return pgconn.CommandTag{}, b.err
}
func (b *stubBatch) Query() (pgx.Rows, error) { return nil, fmt.Errorf("not implemented") }
func (b *stubBatch) QueryRow() pgx.Row        { return nil }
func (b *stubBatch) Close() error             { return nil }

type stubRows struct {
	data [][]any
	idx  int
}

func (r *stubRows) Close()                                       {}
func (r *stubRows) Err() error                                   { return nil }
func (r *stubRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *stubRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *stubRows) Values() ([]any, error)                       { return r.data[r.idx], nil }
func (r *stubRows) RawValues() [][]byte                          { return nil }
func (r *stubRows) Conn() *pgx.Conn                              { return nil }

func (r *stubRows) Next() bool {
	r.idx++
	return r.idx < len(r.data)
}

func (r *stubRows) Scan(dest ...any) error {
	row := r.data[r.idx]
	if len(row) != len(dest) {
		return fmt.Errorf("scan: %d values for %d targets", len(row), len(dest))
	}
	for i, v := range row {
		reflect.ValueOf(dest[i]).Elem().Set(reflect.ValueOf(v))
	}
	return nil
}
