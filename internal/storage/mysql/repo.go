// Package mysql implements a MySQL repository on database/sql with the
// go-sql-driver/mysql driver. Each batch is one multi-row INSERT inside a
// transaction.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"

	gddl "jobetl/internal/ddl"
	myddl "jobetl/internal/storage/mysql/ddl"
)

// Config holds MySQL repository configuration.
type Config struct {
	DSN string // go-sql-driver DSN, e.g. "user:pass@tcp(host:3306)/homeworks?parseTime=true"

	// Table is the target table. The database comes from the DSN, so only
	// the last segment of a "schema.table" name is used.
	Table   string
	Columns []string
}

// Repository is a MySQL-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository validates the DSN, connects, pings and returns a Repository
// plus a Close function.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if _, err := mysql.ParseDSN(cfg.DSN); err != nil {
		return nil, nil, fmt.Errorf("mysql dsn: %w", err)
	}
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sql.Open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("ping: %w", err)
	}
	return &Repository{db: db, cfg: cfg}, func() { _ = db.Close() }, nil
}

// CopyFrom inserts rows with a single multi-row INSERT in a transaction.
func (r *Repository) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	query, args, err := insertSQL(gddl.BaseName(r.cfg.Table), columns, rows)
	if err != nil {
		return 0, err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("insert into %s: %w", r.cfg.Table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return n, nil
}

// Exec executes a SQL statement against the pool.
func (r *Repository) Exec(ctx context.Context, sqlText string) error {
	_, err := r.db.ExecContext(ctx, sqlText)
	return err
}

// insertSQL renders INSERT INTO `t` (`a`,`b`) VALUES (?,?),(?,?) and the
// flattened arguments.
func insertSQL(table string, columns []string, rows [][]any) (string, []any, error) {
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("mysql: columns must not be empty")
	}
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = myddl.QuoteIdent(c)
	}
	tuple := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", myddl.QuoteIdent(table), strings.Join(quoted, ","))
	args := make([]any, 0, len(rows)*len(columns))
	for i, row := range rows {
		if len(row) != len(columns) {
			return "", nil, fmt.Errorf("mysql: row %d has %d values, want %d", i, len(row), len(columns))
		}
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(tuple)
		args = append(args, row...)
	}
	return b.String(), args, nil
}
