package ddl

import (
	"context"
	"fmt"

	"jobetl/internal/dataset"
	gddl "jobetl/internal/ddl"
	"jobetl/internal/storage"
)

// ReplaceStatements returns DROP and CREATE statements for table. The
// database is taken from the connection, so only the last segment of a
// qualified name is used.
func ReplaceStatements(table string, cols []dataset.Column) ([]string, error) {
	td, err := gddl.FromColumns(gddl.BaseName(table), cols, MapType)
	if err != nil {
		return nil, err
	}
	drop, err := gddl.BuildDropTableSQL(td, QuoteIdent)
	if err != nil {
		return nil, err
	}
	create, err := gddl.BuildCreateTableSQL(td, QuoteIdent)
	if err != nil {
		return nil, err
	}
	return []string{drop, create}, nil
}

// ReplaceTable drops table if it exists and recreates it for cols.
func ReplaceTable(ctx context.Context, repo storage.Repository, table string, cols []dataset.Column) error {
	stmts, err := ReplaceStatements(table, cols)
	if err != nil {
		return err
	}
	for _, s := range stmts {
		if err := repo.Exec(ctx, s); err != nil {
			return fmt.Errorf("mysql ddl: %w", err)
		}
	}
	return nil
}
