// Package sqlite wires the SQLite backend into the storage factory. It exposes
// a storage.Repository implementation without forcing callers to import this
// package directly; registration happens in init.
package sqlite

import (
	"context"

	"jobetl/internal/storage"
	sqliteddl "jobetl/internal/storage/sqlite/ddl"
)

// Kind is the storage kind this package registers.
const Kind = "sqlite"

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo adapts *sqlite.Repository to storage.Repository, adding a Close
// method that calls the cleanup function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

var _ storage.Repository = (*wrappedRepo)(nil)

func init() {
	storage.Register(Kind, func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})

	storage.RegisterDDL(Kind, sqliteddl.ReplaceTable)
}
