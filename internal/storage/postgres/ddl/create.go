package ddl

import (
	"jobetl/internal/dataset"
	gddl "jobetl/internal/ddl"
)

// QuoteIdent quotes a single identifier segment for Postgres, e.g.:
//
//	QuoteIdent(`pcv`)        => `"pcv"`
//	QuoteIdent(`weird"name`) => `"weird""name"`
var QuoteIdent gddl.Quoter = gddl.ANSIQuote

// ReplaceStatements returns the DROP and CREATE statements that rebuild
// table with one column per dataset column.
func ReplaceStatements(table string, cols []dataset.Column) ([]string, error) {
	td, err := gddl.FromColumns(table, cols, MapType)
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
