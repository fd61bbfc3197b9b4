// Package columnar writes datasets as Parquet files. It goes through an
// in-process DuckDB: rows are appended to a temporary table and exported with
// COPY ... (FORMAT PARQUET).
package columnar

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	duckdb "github.com/duckdb/duckdb-go/v2"

	"jobetl/internal/dataset"
	"jobetl/internal/fsutil"
)

// DefaultCompression is used when Writer.Compression is empty.
const DefaultCompression = "snappy"

var codecs = map[string]string{
	"snappy":       "SNAPPY",
	"zstd":         "ZSTD",
	"gzip":         "GZIP",
	"uncompressed": "UNCOMPRESSED",
}

// Writer exports datasets to Parquet.
type Writer struct {
	// Compression is snappy, zstd, gzip or uncompressed.
	Compression string
}

// WriteFile writes ds to path. The file is produced under a temporary name in
// the same directory and renamed into place, so path is either the previous
// file or the complete new one.
func (w Writer) WriteFile(ctx context.Context, path string, ds *dataset.Dataset) error {
	codec, err := w.codec()
	if err != nil {
		return err
	}
	if ds.Width() == 0 {
		return fmt.Errorf("columnar: dataset has no columns")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("columnar: mkdir %s: %w", filepath.Dir(path), err)
	}

	db, err := sql.Open("duckdb", "")
	if err != nil {
		return fmt.Errorf("columnar: open duckdb: %w", err)
	}
	defer db.Close()

	// The appender needs the driver connection that owns the staging table.
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("columnar: connect: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, createTableSQL(ds.Columns)); err != nil {
		return fmt.Errorf("columnar: create staging table: %w", err)
	}
	if err := appendRows(conn, ds); err != nil {
		return err
	}

	tmp := fsutil.TempPath(path)
	copySQL := fmt.Sprintf("COPY %s TO %s (FORMAT PARQUET, COMPRESSION %s)", stagingTable, quoteLiteral(tmp), codec)
	if _, err := conn.ExecContext(ctx, copySQL); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("columnar: copy to parquet: %w", err)
	}
	if err := fsutil.Commit(tmp, path); err != nil {
		return fmt.Errorf("columnar: %w", err)
	}
	return nil
}

func (w Writer) codec() (string, error) {
	name := strings.ToLower(strings.TrimSpace(w.Compression))
	if name == "" {
		name = DefaultCompression
	}
	c, ok := codecs[name]
	if !ok {
		return "", fmt.Errorf("columnar: unsupported compression %q", w.Compression)
	}
	return c, nil
}

const stagingTable = "staging"

// SQLType maps a column type to the DuckDB type used in the Parquet file.
func SQLType(t dataset.ColumnType) string {
	switch t {
	case dataset.Numeric:
		return "DOUBLE"
	case dataset.Timestamp:
		return "TIMESTAMP"
	default:
		return "VARCHAR"
	}
}

func createTableSQL(cols []dataset.Column) string {
	defs := make([]string, len(cols))
	for i, c := range cols {
		defs[i] = quoteIdent(c.Name) + " " + SQLType(c.Type)
	}
	return "CREATE TABLE " + stagingTable + " (" + strings.Join(defs, ", ") + ")"
}

func appendRows(conn *sql.Conn, ds *dataset.Dataset) error {
	return conn.Raw(func(raw any) error {
		dc, ok := raw.(driver.Conn)
		if !ok {
			return fmt.Errorf("columnar: unexpected raw conn type %T", raw)
		}
		app, err := duckdb.NewAppenderFromConn(dc, "", stagingTable)
		if err != nil {
			return fmt.Errorf("columnar: create appender: %w", err)
		}

		vals := make([]driver.Value, ds.Width())
		for i := range ds.Rows {
			for j, v := range ds.Values(i) {
				vals[j] = cell(ds.Columns[j].Type, v)
			}
			if err := app.AppendRow(vals...); err != nil {
				_ = app.Close()
				return fmt.Errorf("columnar: append row %d: %w", i, err)
			}
		}
		if err := app.Close(); err != nil {
			return fmt.Errorf("columnar: flush appender: %w", err)
		}
		return nil
	})
}

// cell converts v to the Go type the appender expects for a column of type t.
// Values that do not fit the column type are written as NULL.
func cell(t dataset.ColumnType, v any) driver.Value {
	switch t {
	case dataset.Numeric:
		if f, ok := v.(float64); ok {
			return f
		}
		return nil
	case dataset.Timestamp:
		if ts, ok := v.(time.Time); ok && !ts.IsZero() {
			return ts
		}
		return nil
	default:
		switch x := v.(type) {
		case nil:
			return nil
		case string:
			return x
		default:
			return fmt.Sprint(x)
		}
	}
}

func quoteIdent(s string) string { return `"` + strings.ReplaceAll(s, `"`, `""`) + `"` }

func quoteLiteral(s string) string { return `'` + strings.ReplaceAll(s, `'`, `''`) + `'` }
