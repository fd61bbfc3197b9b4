package etl

import (
	"context"
	"fmt"
	"log"
	"os"

	"jobetl/internal/dataset"
	"jobetl/internal/datasource/file"
	"jobetl/internal/etlerr"
	"jobetl/internal/metrics"
	"jobetl/internal/parser"
	"jobetl/internal/parser/csv"
	"jobetl/internal/schema"
	"jobetl/internal/transformer"
	"jobetl/internal/transformer/builtin"
	"jobetl/internal/validate"
)

// Transformer reads the raw artifact back, coerces column types and removes
// exact duplicate rows.
type Transformer struct {
	// Schema lists the coercion rules; nil means schema.Vacancies().
	Schema schema.Schema

	// Layouts overrides the timestamp layouts tried by the coercion.
	Layouts []string

	// Dedup removes duplicate rows. The zero value compares every column and
	// keeps the first occurrence.
	Dedup builtin.DeDup

	// Parser reads the raw file. Nil means plain CSV.
	Parser parser.Parser

	Validator validate.Validator
	Job       string
	Logger    *log.Logger
}

// Chain returns the in-memory transformation: coercion, then
// de-duplication.
func (t *Transformer) Chain() transformer.Chain {
	rules := t.Schema
	if rules == nil {
		rules = schema.Vacancies()
	}
	return transformer.Chain{
		builtin.Coerce{Rules: rules, Layouts: t.Layouts},
		t.Dedup,
	}
}

// Apply runs Chain over ds without validation.
func (t *Transformer) Apply(ds *dataset.Dataset) *dataset.Dataset {
	return t.Chain().Apply(ds)
}

// Transform reads rawPath, applies the chain and validates the result.
// outDir is created for the later load stage.
func (t *Transformer) Transform(ctx context.Context, rawPath, outDir string) (*dataset.Dataset, error) {
	lg := loggerOr(t.Logger)
	job := jobOr(t.Job)

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w: %w", outDir, etlerr.ErrWrite, err)
	}

	p := t.Parser
	if p == nil {
		p = csv.NewParser(csv.Options{Logger: lg})
	}
	rc, err := file.NewLocal(rawPath).Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("read raw: %w: %w", etlerr.ErrRead, err)
	}
	raw, _, err := p.Parse(rc)
	_ = rc.Close()
	if err != nil {
		return nil, fmt.Errorf("parse raw %s: %w: %w", rawPath, etlerr.ErrRead, err)
	}

	out := t.Apply(raw)
	dropped := raw.Len() - out.Len()
	lg.Printf("transform: rows_in=%d rows_out=%d duplicates_dropped=%d", raw.Len(), out.Len(), dropped)
	metrics.RecordRow(job, "duplicates_dropped", int64(dropped))
	metrics.RecordMissingPct(job, "transformed", out.MissingPct())

	v := t.Validator
	if v.Logger == nil {
		v.Logger = lg
	}
	if err := v.Transformed(out); err != nil {
		return nil, err
	}
	return out, nil
}
