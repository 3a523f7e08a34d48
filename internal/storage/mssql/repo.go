// Package mssql writes business records to SQL Server with the go-mssqldb
// bulk copy API.
package mssql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"bizimport/internal/ddl"
	"bizimport/internal/storage/sqldb"
)

// Config holds MSSQL repository configuration.
type Config struct {
	DSN   string
	Table string // e.g. "dbo.business_info"
}

// Repository is an MSSQL-backed storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository validates the DSN, connects, and returns the repository and
// its cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.Table) == "" {
		return nil, nil, fmt.Errorf("mssql: table must not be empty")
	}
	if _, err := msdsn.Parse(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mssql dsn: %w", err)
	}
	db, err := sqldb.Open(ctx, "sqlserver", cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// CopyFrom bulk-copies rows into the table inside one transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("mssql: begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, mssql.CopyIn(r.cfg.Table, mssql.BulkOptions{}, columns...))
	if err != nil {
		rollback()
		return 0, fmt.Errorf("mssql: prepare bulk: %w", err)
	}
	for i := range rows {
		if _, err := stmt.ExecContext(ctx, rows[i]...); err != nil {
			_ = stmt.Close()
			rollback()
			return 0, fmt.Errorf("mssql: bulk row %d: %w", i, err)
		}
	}
	res, err := stmt.ExecContext(ctx)
	if cerr := stmt.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		rollback()
		return 0, fmt.Errorf("mssql: bulk finalize: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		rollback()
		return 0, fmt.Errorf("mssql: rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("mssql: commit: %w", err)
	}
	return n, nil
}

// Exec runs stmt, typically DDL.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if err := sqldb.Exec(ctx, r.db, stmt); err != nil {
		return fmt.Errorf("mssql: %w", err)
	}
	return nil
}

// Count implements storage.Counter.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	n, err := sqldb.Count(ctx, r.db, ddl.MSSQL, r.cfg.Table)
	if err != nil {
		return 0, fmt.Errorf("mssql: %w", err)
	}
	return n, nil
}
