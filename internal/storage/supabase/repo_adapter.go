package supabase

import (
	"context"

	"bizimport/internal/storage"
)

var (
	_ storage.Repository = (*Repository)(nil)
	_ storage.Counter    = (*Repository)(nil)
)

func init() {
	storage.Register("supabase", func(_ context.Context, cfg storage.Config) (storage.Repository, error) {
		r, err := NewRepository(Config{
			BaseURL:    cfg.BaseURL,
			APIKey:     cfg.APIKey,
			Table:      cfg.Table,
			Schema:     cfg.Schema,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
		})
		if err != nil {
			return nil, err
		}
		return r, nil
	})
}
