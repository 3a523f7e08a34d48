// Package postgres writes business records straight into a Postgres table
// (including a Supabase project's database) with the COPY protocol via pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"bizimport/internal/ddl"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN   string // connection string for pgxpool
	Table string // optionally schema-qualified, e.g. "public.business_info"
}

// Repository is a Postgres-backed storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository opens a pool and checks connectivity.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, nil, fmt.Errorf("postgres: table must not be empty")
	}
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("postgres: ping: %w", err)
	}
	return &Repository{pool: pool, cfg: cfg}, pool.Close, nil
}

// CopyFrom streams rows with COPY. COPY is atomic: a rejected row fails the
// whole batch.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, splitFQN(r.cfg.Table), columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, describe("copy into "+r.cfg.Table, err)
	}
	return n, nil
}

// Exec implements storage.Repository.Exec.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if _, err := r.pool.Exec(ctx, sql); err != nil {
		return describe("exec", err)
	}
	return nil
}

// Count implements storage.Counter.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + ddl.Postgres.QuoteFQN(r.cfg.Table)
	if err := r.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, describe("count "+r.cfg.Table, err)
	}
	return n, nil
}

// describe surfaces the server's detail and SQLSTATE when available.
func describe(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Detail != "" {
		return fmt.Errorf("postgres: %s: %s (%s): %w", op, pgErr.Detail, pgErr.SQLState(), err)
	}
	return fmt.Errorf("postgres: %s: %w", op, err)
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			id = append(id, p)
		}
	}
	return id
}
