// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import "jobetl/internal/dataset"

// MapType maps a logical column type to a Postgres SQL type.
//
//	numeric   -> DOUBLE PRECISION
//	timestamp -> TIMESTAMP
//	others    -> TEXT
func MapType(t dataset.ColumnType) string {
	switch t {
	case dataset.Numeric:
		return "DOUBLE PRECISION"
	case dataset.Timestamp:
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
