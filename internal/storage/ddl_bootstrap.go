package storage

import (
	"context"
	"fmt"
	"sync"

	"jobetl/internal/dataset"
)

// DDLBootstrapper is a backend-specific function that drops table (if it
// exists) and recreates it with one column per dataset column, using the
// backend's type mapping. It applies DDL through repo.Exec.
//
// Backends register their implementation for a storage kind at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository, table string, cols []dataset.Column) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given storage
// kind. It is typically called from backend packages' init() functions.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// ReplaceTable locates the DDLBootstrapper for kind and invokes it. Callers do
// not need to know which backend they are using.
func ReplaceTable(ctx context.Context, kind string, repo Repository, table string, cols []dataset.Column) error {
	ddlMu.RLock()
	fn, ok := ddlFns[kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", kind)
	}
	return fn(ctx, repo, table, cols)
}
