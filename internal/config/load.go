package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"jobetl/internal/schema"
	"jobetl/internal/validate"
)

// Defaults applied by Default().
const (
	DefaultJob            = "vacancies"
	DefaultTable          = "vacancies"
	DefaultMaxRows        = 100
	DefaultBatchSize      = 500
	DefaultTimeoutSeconds = 30
	DefaultRawDir         = "data/raw"
	DefaultProcessedDir   = "data/processed"
	DefaultCompression    = "snappy"
	DefaultDatabase       = "homeworks"
	DefaultSchema         = "public"
	DefaultCredsPath      = "creds.db"
)

// Default returns the pipeline used when no file is given.
func Default() Pipeline {
	v := validate.Defaults()
	return Pipeline{
		Job: DefaultJob,
		Source: Source{
			Kind:           "gdrive",
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Parser: Parser{Kind: "csv", Options: Options{}},
		Schema: schema.Vacancies(),
		Validation: Validation{
			MinRows:         v.MinRows,
			MaxMissingPct:   v.MaxMissingPct,
			RequiredColumns: v.RequiredColumns,
		},
		Output: Output{
			RawDir:       DefaultRawDir,
			ProcessedDir: DefaultProcessedDir,
			Compression:  DefaultCompression,
		},
		Storage: Storage{
			Kind: "postgres",
			DB: DBConfig{
				Database:  DefaultDatabase,
				Schema:    DefaultSchema,
				Table:     DefaultTable,
				MaxRows:   DefaultMaxRows,
				BatchSize: DefaultBatchSize,
			},
			Credentials: Credentials{Kind: "sqlite", Path: DefaultCredsPath},
		},
		Metrics: Metrics{Backend: "none"},
	}
}

// LoadFile decodes the pipeline file at path over Default(). Files ending in
// .yaml or .yml are decoded as YAML, everything else as JSON. Unknown JSON
// fields are rejected so typos do not silently fall back to defaults.
func LoadFile(path string) (Pipeline, error) {
	if path == "" {
		return Pipeline{}, errors.New("config: path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	p := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &p); err != nil {
			return Pipeline{}, fmt.Errorf("config: parse yaml %s: %w", path, err)
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return Pipeline{}, fmt.Errorf("config: parse json %s: %w", path, err)
		}
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	return p, nil
}

// Validator builds the checkpoint validator from the Validation block.
func (p Pipeline) Validator() validate.Validator {
	return validate.Validator{
		MinRows:         p.Validation.MinRows,
		MaxMissingPct:   p.Validation.MaxMissingPct,
		RequiredColumns: p.Validation.RequiredColumns,
	}
}
