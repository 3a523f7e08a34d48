// Package storage defines the sink contract for transformed business records
// and a registry of backends keyed by storage kind.
//
// Backends register themselves from init; importing bizimport/internal/storage/all
// enables every built-in kind.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Repository inserts positional rows into one destination table.
type Repository interface {
	// CopyFrom inserts rows aligned to columns as one unit and returns the
	// number of rows the backend reports as written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs a statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	Close()
}

// Counter is implemented by repositories that can report the destination
// table's row count.
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// Config carries the union of backend settings. Each backend reads the
// fields it needs.
type Config struct {
	Kind    string
	DSN     string
	Table   string
	Columns []string

	// REST (supabase) settings.
	BaseURL    string
	APIKey     string
	Schema     string
	Timeout    time.Duration
	MaxRetries int
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs f for kind, replacing any earlier registration.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens the Repository registered for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unsupported storage.kind=%s", cfg.Kind)
	}
	return f(ctx, cfg)
}

// ListKinds returns the registered kinds, sorted. The slice is a copy.
func ListKinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]string, 0, len(factories))
	for k := range factories {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
