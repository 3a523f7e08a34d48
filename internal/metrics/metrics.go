// Package metrics records import counters and step timings through a
// pluggable Backend. The default backend discards everything, so callers
// never need to check whether metrics are configured.
package metrics

import (
	"sync"
	"time"
)

// Metric names emitted by the importer.
const (
	StepTotal       = "bizimport_step_total"
	StepDuration    = "bizimport_step_duration_seconds"
	RecordsTotal    = "bizimport_records_total"
	BatchesTotal    = "bizimport_batches_total"
	statusSuccess   = "success"
	statusFailure   = "failure"
	defaultJobLabel = "business-import"
)

// Record kinds passed to RecordRow.
const (
	KindRead     = "read"
	KindInserted = "inserted"
	KindFailed   = "failed"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Backend receives counter and duration observations.
type Backend interface {
	IncCounter(name string, delta float64, labels Labels)
	ObserveHistogram(name string, value float64, labels Labels)
	// Flush pushes buffered data, e.g. to a Pushgateway.
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

// SetBackend installs b as the process-wide backend. nil is ignored.
func SetBackend(b Backend) {
	if b == nil {
		return
	}
	mu.Lock()
	backend = b
	mu.Unlock()
}

// Reset restores the no-op backend.
func Reset() {
	mu.Lock()
	backend = nopBackend{}
	mu.Unlock()
}

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// Flush delegates to the current backend.
func Flush() error {
	return current().Flush()
}

func jobLabel(job string) string {
	if job == "" {
		return defaultJobLabel
	}
	return job
}

// RecordStep counts one execution of step and observes its duration,
// labelled success or failure by err.
func RecordStep(job, step string, err error, d time.Duration) {
	status := statusSuccess
	if err != nil {
		status = statusFailure
	}
	lbls := Labels{"job": jobLabel(job), "step": step, "status": status}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow adds delta records of the given kind (KindRead, KindInserted,
// KindFailed). Non-positive deltas are dropped.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RecordsTotal, float64(delta), Labels{"job": jobLabel(job), "kind": kind})
}

// RecordBatches counts batches handed to the loader.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{"job": jobLabel(job)})
}
