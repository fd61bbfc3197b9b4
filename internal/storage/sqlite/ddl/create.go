package ddl

import (
	"jobetl/internal/dataset"
	gddl "jobetl/internal/ddl"
)

// ReplaceStatements returns DROP and CREATE statements for table. Only the
// last segment of a qualified name is used.
func ReplaceStatements(table string, cols []dataset.Column) ([]string, error) {
	td, err := gddl.FromColumns(gddl.BaseName(table), cols, MapType)
	if err != nil {
		return nil, err
	}
	drop, err := gddl.BuildDropTableSQL(td, gddl.ANSIQuote)
	if err != nil {
		return nil, err
	}
	create, err := gddl.BuildCreateTableSQL(td, gddl.ANSIQuote)
	if err != nil {
		return nil, err
	}
	return []string{drop, create}, nil
}
