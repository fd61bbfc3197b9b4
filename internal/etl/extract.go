package etl

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"jobetl/internal/datasource"
	"jobetl/internal/datasource/httpds"
	"jobetl/internal/etlerr"
	"jobetl/internal/metrics"
	"jobetl/internal/parser"
	"jobetl/internal/parser/csv"
	"jobetl/internal/validate"
)

// Extractor fetches the remote CSV, checks it and stores it as the raw
// artifact.
type Extractor struct {
	// SourceKind is passed to datasource.Resolve; empty lets the locator
	// decide.
	SourceKind string

	// Client performs remote fetches. Nil means httpds.NewClient with the
	// default timeout.
	Client *httpds.Client

	// Parser reads the fetched bytes. Nil means CSV with leading-space
	// trimming.
	Parser parser.Parser

	Validator validate.Validator
	Job       string
	Logger    *log.Logger
}

// Extract fetches locator, validates the result and writes it to
// outDir/raw_data.csv, returning that path. Nothing is written when the fetch
// or validation fails.
func (e *Extractor) Extract(ctx context.Context, locator, outDir string) (string, error) {
	lg := loggerOr(e.Logger)
	job := jobOr(e.Job)

	client := e.Client
	if client == nil {
		client = httpds.NewClient(httpds.Config{})
	}
	p := e.Parser
	if p == nil {
		p = csv.NewParser(csv.Options{TrimLeadingSpace: true, Logger: lg})
	}

	src, err := datasource.Resolve(e.SourceKind, locator, client)
	if err != nil {
		return "", fmt.Errorf("resolve source: %w: %w", etlerr.ErrFetch, err)
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch: %w: %w", etlerr.ErrFetch, err)
	}
	ds, st, err := p.Parse(rc)
	_ = rc.Close()
	if err != nil {
		return "", fmt.Errorf("parse: %w: %w", etlerr.ErrFetch, err)
	}
	lg.Printf("extract: fetched rows=%d cols=%d skipped=%d padded=%d", st.Rows, ds.Width(), st.Skipped, st.Padded)
	metrics.RecordRow(job, "extracted", int64(st.Rows))
	metrics.RecordRow(job, "skipped_lines", int64(st.Skipped))
	metrics.RecordRow(job, "padded_lines", int64(st.Padded))

	metrics.RecordMissingPct(job, "raw", ds.MissingPct())

	v := e.Validator
	if v.Logger == nil {
		v.Logger = lg
	}
	if err := v.Raw(ds); err != nil {
		return "", err
	}

	path := filepath.Join(outDir, RawFileName)
	if err := csv.WriteFile(path, ds); err != nil {
		return "", fmt.Errorf("write raw: %w: %w", etlerr.ErrWrite, err)
	}
	lg.Printf("extract: saved path=%s", path)
	return path, nil
}
