// Package mysql writes business records to MySQL or MariaDB through
// github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"fmt"

	driver "github.com/go-sql-driver/mysql"

	"bizimport/internal/ddl"
	"bizimport/internal/storage/sqldb"
)

// Config holds the MySQL repository settings.
type Config struct {
	// DSN uses the driver format, e.g. "user:pass@tcp(localhost:3306)/shop".
	DSN   string
	Table string
}

// Repository is a MySQL-backed storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository validates the DSN, connects, and returns the repository and
// its cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if cfg.Table == "" {
		return nil, nil, fmt.Errorf("mysql: table must not be empty")
	}
	dsn, err := normalizeDSN(cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	db, err := sqldb.Open(ctx, "mysql", dsn)
	if err != nil {
		return nil, nil, err
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// normalizeDSN parses dsn and defaults the connection charset to utf8mb4.
func normalizeDSN(dsn string) (string, error) {
	c, err := driver.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("mysql dsn: %w", err)
	}
	if c.Params == nil {
		c.Params = map[string]string{}
	}
	if _, ok := c.Params["charset"]; !ok {
		c.Params["charset"] = "utf8mb4"
	}
	return c.FormatDSN(), nil
}

// CopyFrom inserts rows in one transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	n, err := sqldb.InsertRows(ctx, r.db, sqldb.InsertSQL(ddl.MySQL, r.cfg.Table, columns), columns, rows)
	if err != nil {
		return n, fmt.Errorf("mysql: %w", err)
	}
	return n, nil
}

// Exec runs stmt, typically DDL.
func (r *Repository) Exec(ctx context.Context, stmt string) error {
	if err := sqldb.Exec(ctx, r.db, stmt); err != nil {
		return fmt.Errorf("mysql: %w", err)
	}
	return nil
}

// Count implements storage.Counter.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	n, err := sqldb.Count(ctx, r.db, ddl.MySQL, r.cfg.Table)
	if err != nil {
		return 0, fmt.Errorf("mysql: %w", err)
	}
	return n, nil
}
