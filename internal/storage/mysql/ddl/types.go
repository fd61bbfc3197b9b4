// Package ddl contains MySQL-specific helpers for generating DDL.
package ddl

import (
	"strings"

	"jobetl/internal/dataset"
)

// MapType maps a logical column type to a MySQL type.
func MapType(t dataset.ColumnType) string {
	switch t {
	case dataset.Numeric:
		return "DOUBLE"
	case dataset.Timestamp:
		return "DATETIME(6)"
	default:
		return "TEXT"
	}
}

// QuoteIdent wraps id in backticks, doubling embedded backticks.
func QuoteIdent(id string) string { return "`" + strings.ReplaceAll(id, "`", "``") + "`" }
