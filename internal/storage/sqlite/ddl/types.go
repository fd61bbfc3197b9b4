// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import "jobetl/internal/dataset"

// MapType maps a logical column type to a SQLite storage class. Timestamps
// are stored as TEXT in "YYYY-MM-DD HH:MM:SS" form, which SQLite's date
// functions understand.
func MapType(t dataset.ColumnType) string {
	if t == dataset.Numeric {
		return "REAL"
	}
	return "TEXT"
}
