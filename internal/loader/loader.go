// Package loader submits transformed batches to the destination table, one
// insert call per batch.
package loader

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"bizimport/internal/domain"
	"bizimport/internal/metrics"
	"bizimport/internal/storage"
)

// Result is the outcome of one Load. A failed insert is reported here rather
// than returned as an error so the caller can keep going.
type Result struct {
	// Inserted is the number of records written; zero on failure.
	Inserted int
	Err      error
}

// OK reports whether the batch was accepted.
func (r Result) OK() bool { return r.Err == nil }

// Options configures a Loader.
type Options struct {
	// Job labels metrics.
	Job string

	Logger zerolog.Logger
}

// Loader inserts batches through an injected storage.Repository.
type Loader struct {
	repo storage.Repository
	job  string
	log  zerolog.Logger
}

// New returns a Loader writing through repo.
func New(repo storage.Repository, opts Options) *Loader {
	return &Loader{repo: repo, job: opts.Job, log: opts.Logger}
}

// Load inserts batch with a single CopyFrom call. Every repository error
// (transport, auth, constraint) is logged and returned in Result.Err; nothing
// is retried here. An empty batch makes no remote call.
func (l *Loader) Load(ctx context.Context, batch []domain.BusinessRecord) Result {
	if len(batch) == 0 {
		return Result{}
	}

	start := time.Now()
	n, err := l.repo.CopyFrom(ctx, domain.Columns, domain.Rows(batch))
	metrics.RecordStep(l.job, "load", err, time.Since(start))
	metrics.RecordBatches(l.job, 1)

	if err != nil {
		metrics.RecordRow(l.job, metrics.KindFailed, int64(len(batch)))
		l.log.Error().Int("records", len(batch)).Msgf("Error inserting batch: %v", err)
		return Result{Err: err}
	}

	if n != int64(len(batch)) {
		l.log.Debug().Int64("reported", n).Int("records", len(batch)).Msg("loader: backend row count differs from batch size")
	}
	metrics.RecordRow(l.job, metrics.KindInserted, int64(len(batch)))
	l.log.Info().Int("records", len(batch)).Msgf("Successfully inserted %d records", len(batch))
	return Result{Inserted: len(batch)}
}
