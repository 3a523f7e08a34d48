package storage

import (
	"context"
	"fmt"
	"sync"
)

// DDLBootstrapper creates table through repo when it does not exist yet.
type DDLBootstrapper func(ctx context.Context, repo Repository, table string) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL installs fn as the table bootstrapper for kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// HasDDL reports whether kind has a table bootstrapper.
func HasDDL(kind string) bool {
	ddlMu.RLock()
	defer ddlMu.RUnlock()
	_, ok := ddlFns[kind]
	return ok
}

// EnsureTable runs the bootstrapper registered for kind. Kinds without one
// (the REST sink) return an error so callers do not silently skip creation.
func EnsureTable(ctx context.Context, kind, table string, repo Repository) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, table)
}
