// Package storage contains storage-agnostic contracts and utilities: the
// Repository interface, a factory registry keyed by storage kind, a DDL
// bootstrapper registry and a batched loader.
//
// Concrete backends live in subpackages and register themselves in init;
// import jobetl/internal/storage/all to enable every built-in backend.
package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Repository is the minimal surface a relational sink must offer.
type Repository interface {
	// CopyFrom bulk-inserts rows aligned to columns into the configured table
	// and returns the number of rows written.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Exec runs one statement, typically DDL.
	Exec(ctx context.Context, sql string) error

	Close()
}

// Config is the backend-neutral repository configuration.
type Config struct {
	Kind string // "postgres", "sqlite", "mysql", "mssql"
	DSN  string

	// Table is "schema.table" or a bare table name. Backends without schemas
	// use only the last segment.
	Table   string
	Columns []string
}

// Factory opens a Repository for cfg.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a repository using the factory registered for cfg.Kind.
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
