// This adapter wires the Postgres backend into the storage-agnostic factory
// and registers its DDL bootstrapper, so callers obtain a Repository via
// storage.New and rebuild tables via storage.ReplaceTable without importing
// this package directly.
package postgres

import (
	"context"

	"jobetl/internal/storage"
	pgddl "jobetl/internal/storage/postgres/ddl"
)

// Kind is the storage kind this package registers.
const Kind = "postgres"

// newRepository is a test hook that points to NewRepository by default.
// Tests may replace this variable to avoid real DB connections.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to the concrete
// *postgres.Repository while providing a Close method that calls the close
// function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

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

	storage.RegisterDDL(Kind, pgddl.ReplaceTable)
}
