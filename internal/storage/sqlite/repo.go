// Package sqlite writes business records to a SQLite database through the
// pure-Go modernc.org/sqlite driver. Useful as a local sink and for dry runs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"bizimport/internal/ddl"
	"bizimport/internal/storage/sqldb"
)

// Config holds the SQLite repository settings.
type Config struct {
	// DSN is a file path or URI, e.g. "import.db" or "file:import.db?_pragma=busy_timeout(5000)".
	DSN   string
	Table string
}

// Repository is a SQLite-backed storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens cfg.DSN and returns the repository and its cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if cfg.Table == "" {
		return nil, nil, fmt.Errorf("sqlite: table must not be empty")
	}
	db, err := sqldb.Open(ctx, "sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// CopyFrom inserts rows in one transaction; a failing row rolls back the
// whole batch.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	n, err := sqldb.InsertRows(ctx, r.db, sqldb.InsertSQL(ddl.SQLite, r.cfg.Table, columns), columns, rows)
	if err != nil {
		return n, fmt.Errorf("sqlite: %w", err)
	}
	return n, nil
}

// Exec runs stmt, typically DDL.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if err := sqldb.Exec(ctx, r.db, stmt); err != nil {
		return fmt.Errorf("sqlite: %w", err)
	}
	return nil
}

// Count implements storage.Counter.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	n, err := sqldb.Count(ctx, r.db, ddl.SQLite, r.cfg.Table)
	if err != nil {
		return 0, fmt.Errorf("sqlite: %w", err)
	}
	return n, nil
}
