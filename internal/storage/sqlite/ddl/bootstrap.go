package ddl

import (
	"context"
	"fmt"

	"jobetl/internal/dataset"
	"jobetl/internal/storage"
)

// ReplaceTable drops table if it exists and recreates it for cols.
func ReplaceTable(ctx context.Context, repo storage.Repository, table string, cols []dataset.Column) error {
	stmts, err := ReplaceStatements(table, cols)
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if err := repo.Exec(ctx, s); err != nil {
			return fmt.Errorf("sqlite ddl: %w", err)
		}
	}
	return nil
}
