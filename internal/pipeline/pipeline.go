// Package pipeline drives an import run: read a batch, transform it, load
// it, report progress, wait, repeat until the source is exhausted.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"bizimport/internal/domain"
	"bizimport/internal/loader"
	"bizimport/internal/metrics"
	"bizimport/pkg/records"
)

// Reader yields raw row batches and io.EOF when exhausted.
type Reader interface {
	Next(ctx context.Context) ([]records.Record, error)
}

// Transformer maps a raw batch onto business records.
type Transformer interface {
	Apply(batch []records.Record) ([]domain.BusinessRecord, error)
}

// BatchLoader inserts one batch and reports the outcome.
type BatchLoader interface {
	Load(ctx context.Context, batch []domain.BusinessRecord) loader.Result
}

// Config controls pacing and reporting.
type Config struct {
	Job string

	// Delay is waited after every batch, failed ones included.
	Delay time.Duration

	// Sleep waits d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error

	Logger zerolog.Logger
}

// Summary describes a finished or aborted run.
type Summary struct {
	Batches   int
	Succeeded int
	Failed    int
	// Rows is the number of rows read from the source.
	Rows int
	// Inserted is the running total of rows in successful batches.
	Inserted int
	Elapsed  time.Duration
}

// Run processes every batch from r. Insert failures are counted and the run
// continues. Reader and transformer errors abort the run; the summary up to
// that point is returned with the error, and batches already loaded stay
// loaded. Cancelling ctx stops the run at the next read or wait.
func Run(ctx context.Context, cfg Config, r Reader, tr Transformer, l BatchLoader) (Summary, error) {
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepContext
	}
	log := cfg.Logger

	var sum Summary
	start := time.Now()

	for {
		if err := ctx.Err(); err != nil {
			sum.Elapsed = time.Since(start)
			return sum, err
		}

		batch, err := r.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			metrics.RecordStep(cfg.Job, "read", err, 0)
			sum.Elapsed = time.Since(start)
			return sum, fmt.Errorf("read batch %d: %w", sum.Batches+1, err)
		}
		sum.Batches++
		sum.Rows += len(batch)
		metrics.RecordRow(cfg.Job, metrics.KindRead, int64(len(batch)))
		log.Debug().Int("batch", sum.Batches).Int("rows", len(batch)).Msg("reader: batch read")

		tStart := time.Now()
		recs, err := tr.Apply(batch)
		metrics.RecordStep(cfg.Job, "transform", err, time.Since(tStart))
		if err != nil {
			sum.Elapsed = time.Since(start)
			return sum, fmt.Errorf("transform batch %d: %w", sum.Batches, err)
		}

		res := l.Load(ctx, recs)
		if res.OK() {
			sum.Succeeded++
			sum.Inserted += len(batch)
		} else {
			sum.Failed++
		}
		log.Info().Int("total", sum.Inserted).Msgf("Total processed: %d records", sum.Inserted)

		if err := sleep(ctx, cfg.Delay); err != nil {
			sum.Elapsed = time.Since(start)
			return sum, err
		}
	}

	sum.Elapsed = time.Since(start)
	log.Info().
		Int("total", sum.Inserted).
		Int("batches", sum.Batches).
		Int("failed_batches", sum.Failed).
		Dur("elapsed", sum.Elapsed).
		Msgf("Import completed. Total records processed: %d", sum.Inserted)
	return sum, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
