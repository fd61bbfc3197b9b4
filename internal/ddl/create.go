// Package ddl defines a small, backend-agnostic model for SQL DDL and helpers
// to render CREATE and DROP statements from that model.
//
// Backend-specific packages (internal/storage/<backend>/ddl) supply the type
// mapping and identifier quoting for their dialect.
package ddl

import (
	"fmt"
	"strings"

	"jobetl/internal/dataset"
)

// FromColumns builds a TableDef for fqn, mapping each dataset column through
// mapType. Every column is nullable because any cell may be missing.
func FromColumns(fqn string, cols []dataset.Column, mapType func(dataset.ColumnType) string) (TableDef, error) {
	if strings.TrimSpace(fqn) == "" {
		return TableDef{}, fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(cols) == 0 {
		return TableDef{}, fmt.Errorf("ddl: at least one column is required")
	}
	td := TableDef{FQN: fqn, Columns: make([]ColumnDef, len(cols))}
	for i, c := range cols {
		td.Columns[i] = ColumnDef{Name: c.Name, SQLType: mapType(c.Type), Nullable: true}
	}
	return td, nil
}

// QuoteFQN quotes each dot-separated segment of fqn. Empty segments are
// dropped.
func QuoteFQN(fqn string, q Quoter) string {
	parts := strings.Split(fqn, ".")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p == "" {
			continue
		}
		out = append(out, q(p))
	}
	return strings.Join(out, ".")
}

// BaseName returns the last dot-separated segment of fqn, for dialects that
// address tables without a schema.
func BaseName(fqn string) string {
	if i := strings.LastIndexByte(fqn, '.'); i >= 0 {
		return fqn[i+1:]
	}
	return fqn
}

// BuildCreateTableSQL renders
//
//	CREATE TABLE <fqn> (
//	  <name> <type> [NOT NULL],
//	  ...
//	);
//
// with identifiers quoted by q.
func BuildCreateTableSQL(t TableDef, q Quoter) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: at least one column is required")
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if c.Name == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", fqn)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", c.Name)
		}
		def := q(c.Name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		cols = append(cols, def)
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n);", QuoteFQN(fqn, q), strings.Join(cols, ",\n  ")), nil
}

// BuildDropTableSQL renders DROP TABLE IF EXISTS for t.
func BuildDropTableSQL(t TableDef, q Quoter) (string, error) {
	fqn := strings.TrimSpace(t.FQN)
	if fqn == "" {
		return "", fmt.Errorf("ddl: table FQN must not be empty")
	}
	return "DROP TABLE IF EXISTS " + QuoteFQN(fqn, q) + ";", nil
}

// ANSIQuote double-quotes an identifier, doubling embedded quotes.
func ANSIQuote(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }
