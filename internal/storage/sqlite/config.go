package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite connection string or file path, e.g.:
	//   "file:etl.db?cache=shared"
	//   "etl.db"
	//   ":memory:"
	DSN string

	// Table is the target table. SQLite has no "public" schema, so only the
	// last segment of a "schema.table" name is used.
	Table string

	// Columns is the ordered list of destination columns.
	Columns []string
}
