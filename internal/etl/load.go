package etl

import (
	"context"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"jobetl/internal/columnar"
	"jobetl/internal/credentials"
	"jobetl/internal/dataset"
	"jobetl/internal/etlerr"
	"jobetl/internal/metrics"
	"jobetl/internal/storage"
	"jobetl/internal/validate"
)

// SinkConfig describes the relational sink.
type SinkConfig struct {
	// Kind is a registered storage kind; empty disables the sink.
	Kind string

	// DSN is used as-is when set. Otherwise one is built from Credentials.
	DSN string

	// Database is the database named in a DSN built from credentials.
	Database string

	// Schema qualifies unqualified table names.
	Schema string

	BatchSize int
}

// LoadReport records what Load wrote. SinkAttempted is set once a DSN was
// resolved and the database was contacted; SinkRequested is the row-capped
// size of that attempt. SinkErr holds the swallowed database error, if any.
type LoadReport struct {
	ParquetPath   string
	FileRows      int
	SinkAttempted bool
	SinkRequested int
	SinkRows      int64
	SinkErr       error
}

// Loader writes the transformed dataset to the Parquet artifact and, best
// effort, to the database table.
type Loader struct {
	Parquet     columnar.Writer
	Sink        SinkConfig
	Credentials credentials.Store

	Validator validate.Validator
	Job       string
	Logger    *log.Logger
}

// Load validates ds, writes all of it to outDir/processed_data.parquet and
// replaces table with its first maxRows rows. Validation and Parquet errors
// are returned; database errors are logged and reported in LoadReport only.
func (l *Loader) Load(ctx context.Context, ds *dataset.Dataset, table string, maxRows int, outDir string) (LoadReport, error) {
	lg := loggerOr(l.Logger)
	job := jobOr(l.Job)
	var rep LoadReport

	v := l.Validator
	if v.Logger == nil {
		v.Logger = lg
	}
	if err := v.Loaded(ds); err != nil {
		return rep, err
	}

	path := filepath.Join(outDir, ProcessedFileName)
	if err := l.Parquet.WriteFile(ctx, path, ds); err != nil {
		return rep, fmt.Errorf("write parquet: %w: %w", etlerr.ErrWrite, err)
	}
	rep.ParquetPath, rep.FileRows = path, ds.Len()
	metrics.RecordRow(job, "file_rows", int64(ds.Len()))
	lg.Printf("load: parquet written path=%s rows=%d", path, ds.Len())

	if maxRows < 0 {
		maxRows = 0
	}
	capped := ds.Head(maxRows)
	rep.SinkRequested = capped.Len()
	n, err := l.toDatabase(ctx, capped, table, &rep)
	rep.SinkRows = n
	if err != nil {
		rep.SinkErr = err
		if errors.Is(err, etlerr.ErrSinkUnavailable) {
			lg.Printf("load: warning: database sink unavailable, skipped: %v", err)
		} else {
			lg.Printf("load: warning: database write failed: %v", err)
		}
		return rep, nil
	}
	metrics.RecordRow(job, "sink_rows", n)
	metrics.RecordBatches(job, batches(n, l.batchSize()))
	lg.Printf("load: table=%s rows=%d", l.qualify(table), n)
	return rep, nil
}

func (l *Loader) toDatabase(ctx context.Context, ds *dataset.Dataset, table string, rep *LoadReport) (int64, error) {
	if l.Sink.Kind == "" {
		return 0, fmt.Errorf("database sink: %w: no storage kind configured", etlerr.ErrSinkUnavailable)
	}
	dsn, err := l.dsn(ctx)
	if err != nil {
		return 0, fmt.Errorf("database sink: %w: %w", etlerr.ErrSinkUnavailable, err)
	}
	cfg := storage.Config{Kind: l.Sink.Kind, DSN: dsn, Table: l.qualify(table)}
	rep.SinkAttempted = true
	return storage.Replace(ctx, cfg, ds, l.batchSize())
}

// dsn returns the explicit DSN or builds one from the credential store.
func (l *Loader) dsn(ctx context.Context) (string, error) {
	if l.Sink.DSN != "" {
		return l.Sink.DSN, nil
	}
	if l.Credentials == nil {
		return "", errors.New("no dsn and no credential store")
	}
	c, err := l.Credentials.Lookup(ctx)
	if err != nil {
		return "", err
	}
	return credentials.DSN(l.Sink.Kind, c, l.Sink.Database)
}

func (l *Loader) qualify(table string) string {
	if table == "" {
		table = DefaultTable
	}
	if l.Sink.Schema == "" || strings.Contains(table, ".") {
		return table
	}
	return l.Sink.Schema + "." + table
}

func (l *Loader) batchSize() int {
	if l.Sink.BatchSize > 0 {
		return l.Sink.BatchSize
	}
	return storage.DefaultBatchSize
}

func batches(rows int64, size int) int64 {
	return (rows + int64(size) - 1) / int64(size)
}
