package ddl

// ColumnDef describes a single column in a table definition.
//
// Name is the logical column name (unquoted; quoting happens at render time)
// and SQLType the dialect type, e.g. TEXT or DOUBLE PRECISION.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef holds the table name and an ordered list of columns. FQN is either
// a bare table name or "schema.table"; renderers quote each segment.
type TableDef struct {
	FQN     string
	Columns []ColumnDef
}

// Quoter renders an identifier segment in a dialect's quoting style.
type Quoter func(string) string
