package storage

import (
	"context"
	"fmt"

	"jobetl/internal/dataset"
	"jobetl/internal/etlerr"
)

// DefaultBatchSize is used by Replace when batchSize <= 0.
const DefaultBatchSize = 500

// Replace opens the repository described by cfg, recreates cfg.Table shaped
// after ds and bulk-loads every row of ds. The table ends up holding exactly
// ds. cfg.Columns is filled from ds.
//
// A repository that cannot be opened is reported as etlerr.ErrSinkUnavailable.
func Replace(ctx context.Context, cfg Config, ds *dataset.Dataset, batchSize int) (int64, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	cfg.Columns = ds.Names()

	repo, err := New(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("storage: open %s: %w: %w", cfg.Kind, etlerr.ErrSinkUnavailable, err)
	}
	defer repo.Close()

	if err := ReplaceTable(ctx, cfg.Kind, repo, cfg.Table, ds.Columns); err != nil {
		return 0, fmt.Errorf("storage: replace table %s: %w", cfg.Table, err)
	}

	rows := make([][]any, ds.Len())
	for i := range rows {
		rows[i] = ds.Values(i)
	}
	n, err := LoadBatches(ctx, cfg.Columns, rows, batchSize, repo.CopyFrom)
	if err != nil {
		return n, fmt.Errorf("storage: load %s: %w", cfg.Table, err)
	}
	return n, nil
}
