package mysql

import (
	"context"
	"fmt"

	"bizimport/internal/ddl"
	"bizimport/internal/storage"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

type wrappedRepo struct {
	*Repository
	closeFn func()
}

func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var (
	_ storage.Repository = (*wrappedRepo)(nil)
	_ storage.Counter    = (*wrappedRepo)(nil)
)

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{DSN: cfg.DSN, Table: cfg.Table})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL("mysql", func(ctx context.Context, repo storage.Repository, table string) error {
		stmt, err := ddl.BuildCreateTableSQL(ddl.BusinessTable(table, ddl.MySQL), ddl.MySQL)
		if err != nil {
			return fmt.Errorf("mysql: %w", err)
		}
		return repo.Exec(ctx, stmt)
	})
}
