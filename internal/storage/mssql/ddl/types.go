// Package ddl contains SQL Server-specific helpers for generating DDL.
package ddl

import (
	"strings"

	"jobetl/internal/dataset"
)

// MapType maps a logical column type to a SQL Server type.
func MapType(t dataset.ColumnType) string {
	switch t {
	case dataset.Numeric:
		return "FLOAT"
	case dataset.Timestamp:
		return "DATETIME2"
	default:
		return "NVARCHAR(MAX)"
	}
}

// QuoteIdent safely quotes a SQL Server identifier using [brackets], escaping ].
func QuoteIdent(id string) string { return `[` + strings.ReplaceAll(id, `]`, `]]`) + `]` }
