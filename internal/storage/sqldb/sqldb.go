// Package sqldb holds the database/sql plumbing shared by the SQLite and
// MySQL sinks: open-and-ping, prepared batch insert inside one transaction,
// and row counting.
package sqldb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"bizimport/internal/ddl"
)

// PingTimeout bounds the connectivity check in Open.
const PingTimeout = 5 * time.Second

// Open opens driver/dsn and pings it so bad DSNs fail at startup.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("%s: DSN must not be empty", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: ping: %w", driver, err)
	}
	return db, nil
}

// InsertSQL renders a single-row INSERT with ? placeholders.
func InsertSQL(d ddl.Dialect, table string, columns []string) string {
	ph := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		d.QuoteFQN(table), strings.Join(d.QuoteAll(columns), ", "), ph)
}

// InsertRows executes stmtSQL once per row inside a single transaction. Any
// failure rolls the whole batch back and reports zero rows written.
func InsertRows(ctx context.Context, db *sql.DB, stmtSQL string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("insert: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	rollback := func() { _ = tx.Rollback() }

	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		rollback()
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, row := range rows {
		if len(row) != len(columns) {
			rollback()
			return 0, fmt.Errorf("row %d: length %d != columns length %d", i, len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			rollback()
			return 0, fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return int64(len(rows)), nil
}

// Count returns SELECT COUNT(*) for table.
func Count(ctx context.Context, db *sql.DB, d ddl.Dialect, table string) (int64, error) {
	var n int64
	q := "SELECT COUNT(*) FROM " + d.QuoteFQN(table)
	if err := db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", table, err)
	}
	return n, nil
}

// Exec runs a statement; blank statements are ignored.
func Exec(ctx context.Context, db *sql.DB, stmt string) error {
	if strings.TrimSpace(stmt) == "" {
		return nil
	}
	if _, err := db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("exec: %w", err)
	}
	return nil
}
