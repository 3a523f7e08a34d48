package main

import (
	"context"
	"fmt"

	"bizimport/internal/config"
	"bizimport/internal/datasource"
	"bizimport/internal/datasource/httpds"
	"bizimport/internal/loader"
	"bizimport/internal/logger"
	"bizimport/internal/parser/csv"
	"bizimport/internal/pipeline"
	"bizimport/internal/storage"
	"bizimport/internal/transformer"

	// Register every storage backend; the config picks one.
	_ "bizimport/internal/storage/all"
)

// storageConfig maps the pipeline onto the backend-neutral storage.Config.
func storageConfig(p config.Pipeline) storage.Config {
	return storage.Config{
		Kind:       p.Storage.Kind,
		DSN:        p.Storage.DB.DSN,
		Table:      p.Storage.Table,
		BaseURL:    p.Storage.Supabase.URL,
		APIKey:     p.Storage.Supabase.APIKey,
		Schema:     p.Storage.Supabase.Schema,
		Timeout:    p.Storage.Supabase.Timeout.D(),
		MaxRetries: p.Storage.Supabase.MaxRetries,
	}
}

// openRepository opens the configured sink and, when asked, creates the
// destination table. Sinks without a bootstrapper (supabase) skip creation;
// validation has already warned about it.
func openRepository(ctx context.Context, p config.Pipeline) (storage.Repository, error) {
	repo, err := storage.New(ctx, storageConfig(p))
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", p.Storage.Kind, err)
	}
	if p.Storage.DB.AutoCreateTable {
		if !storage.HasDDL(p.Storage.Kind) {
			log := logger.FromContext(ctx)
			log.Debug().Str("storage", p.Storage.Kind).Msg("storage: auto_create_table ignored")
			return repo, nil
		}
		if err := storage.EnsureTable(ctx, p.Storage.Kind, p.Storage.Table, repo); err != nil {
			repo.Close()
			return nil, fmt.Errorf("ensure table %s: %w", p.Storage.Table, err)
		}
	}
	return repo, nil
}

// runImport wires reader, transformer, and loader for one run. The sink is
// opened before the source so bad credentials fail before any reading.
func runImport(ctx context.Context, p config.Pipeline) (pipeline.Summary, error) {
	log := logger.FromContext(ctx)

	repo, err := openRepository(ctx, p)
	if err != nil {
		return pipeline.Summary{}, err
	}
	defer repo.Close()

	src := datasource.ForLocation(p.Source.Path, httpds.NewClient(httpds.Config{
		Timeout:   p.Source.Timeout.D(),
		NoTimeout: p.Source.Timeout <= 0,
	}))
	cr, err := csv.NewChunkReader(ctx, src, csv.ChunkOptions{
		BatchSize: p.Runtime.BatchSize,
		Comma:     p.Source.CommaRune(),
		NAValues:  p.Source.NAValues,
	})
	if err != nil {
		return pipeline.Summary{}, err
	}
	defer cr.Close()

	if err := transformer.CheckHeader(cr.Header()); err != nil {
		return pipeline.Summary{}, fmt.Errorf("%s: %w", src, err)
	}

	log.Debug().
		Str("source", src.String()).
		Str("storage", p.Storage.Kind).
		Str("table", p.Storage.Table).
		Int("batch_size", p.Runtime.BatchSize).
		Dur("delay", p.Runtime.Delay.D()).
		Msg("pipeline: starting")

	ld := loader.New(repo, loader.Options{Job: p.Job, Logger: log})
	return pipeline.Run(ctx, pipeline.Config{
		Job:    p.Job,
		Delay:  p.Runtime.Delay.D(),
		Logger: log,
	}, cr, transformer.Business{}, ld)
}
