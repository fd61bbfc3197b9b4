// Package config defines the JSON/YAML configuration model for the vacancy
// ETL. A zero-config run uses Default(); a pipeline file overlays it, and CLI
// flags overlay the file.
//
// Example (trimmed):
//
//	{
//	  "job": "vacancies",
//	  "source":  { "kind": "gdrive", "timeout_seconds": 30 },
//	  "parser":  { "kind": "csv", "options": { "comma": ",", "trim_leading_space": true } },
//	  "schema":  [ { "column": "salary", "type": "numeric" } ],
//	  "dedup":   { "keys": ["uniq_id"], "policy": "keep-first" },
//	  "output":  { "raw_dir": "data/raw", "processed_dir": "data/processed" },
//	  "storage": { "kind": "postgres", "db": { "schema": "public", "table": "vacancies", "max_rows": 100 },
//	               "credentials": { "kind": "sqlite", "path": "creds.db" } }
//	}
package config

import (
	"encoding/json"

	"jobetl/internal/schema"
)

// Pipeline is the top-level configuration object.
type Pipeline struct {
	// Job names the pipeline in logs and metrics.
	Job string `json:"job" yaml:"job"`

	Source     Source        `json:"source" yaml:"source"`
	Parser     Parser        `json:"parser" yaml:"parser"`
	Schema     schema.Schema `json:"schema" yaml:"schema"`
	Dedup      Dedup         `json:"dedup" yaml:"dedup"`
	Validation Validation    `json:"validation" yaml:"validation"`
	Output     Output        `json:"output" yaml:"output"`
	Storage    Storage       `json:"storage" yaml:"storage"`
	Metrics    Metrics       `json:"metrics" yaml:"metrics"`
}

// Source identifies where the raw CSV comes from.
type Source struct {
	// Kind selects how Locator is interpreted: "gdrive" (file id), "http"
	// (full URL) or "file" (local path). Empty lets the locator decide.
	Kind string `json:"kind" yaml:"kind"`

	// Locator is the file id, URL or path. Usually supplied by -source.
	Locator string `json:"locator" yaml:"locator"`

	// TimeoutSeconds bounds the whole remote fetch.
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`

	// InsecureSkipVerify disables TLS verification for the fetch.
	InsecureSkipVerify bool `json:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

// Parser selects how raw bytes become rows.
type Parser struct {
	// Kind selects the parser implementation. Current value: "csv".
	Kind string `json:"kind" yaml:"kind"`

	// Options is interpreted by the parser. For CSV:
	//   comma (string), trim_leading_space (bool), encoding (string),
	//   na_values ([]string), date_layouts ([]string), max_logged_errors (int)
	Options Options `json:"options" yaml:"options"`
}

// Dedup configures duplicate removal after coercion. The zero value compares
// whole rows and keeps the first occurrence.
type Dedup struct {
	// Keys limits the comparison to these columns.
	Keys []string `json:"keys" yaml:"keys"`

	// Policy is "keep-first" or "keep-last".
	Policy string `json:"policy" yaml:"policy"`
}

// Validation holds the checkpoint thresholds.
type Validation struct {
	MinRows         int      `json:"min_rows" yaml:"min_rows"`
	MaxMissingPct   float64  `json:"max_missing_pct" yaml:"max_missing_pct"`
	RequiredColumns []string `json:"required_columns" yaml:"required_columns"`
}

// Output names the local artifact directories.
type Output struct {
	RawDir       string `json:"raw_dir" yaml:"raw_dir"`
	ProcessedDir string `json:"processed_dir" yaml:"processed_dir"`

	// Compression is the Parquet codec: snappy, zstd, gzip or uncompressed.
	Compression string `json:"compression" yaml:"compression"`
}

// Storage configures the relational sink.
type Storage struct {
	// Kind selects the backend: postgres, sqlite, mysql or mssql.
	Kind string `json:"kind" yaml:"kind"`

	DB          DBConfig    `json:"db" yaml:"db"`
	Credentials Credentials `json:"credentials" yaml:"credentials"`
}

// DBConfig configures the sink table and connection.
type DBConfig struct {
	// DSN, when set, is used as-is and Credentials are not consulted.
	DSN string `json:"dsn" yaml:"dsn"`

	// Database is the database name used when the DSN is built from
	// credentials.
	Database string `json:"database" yaml:"database"`

	// Schema qualifies Table on backends that have schemas.
	Schema string `json:"schema" yaml:"schema"`

	// Table is the destination table, replaced on every run.
	Table string `json:"table" yaml:"table"`

	// MaxRows caps the rows written to the table.
	MaxRows int `json:"max_rows" yaml:"max_rows"`

	// BatchSize is the number of rows per CopyFrom call.
	BatchSize int `json:"batch_size" yaml:"batch_size"`
}

// Credentials selects the store that supplies host, port, user and password.
type Credentials struct {
	// Kind: "sqlite" (creds.db style file), "env" or "none".
	Kind string `json:"kind" yaml:"kind"`

	// Path is the SQLite credentials file for kind "sqlite".
	Path string `json:"path" yaml:"path"`

	// EnvPrefix prefixes HOST/PORT/USER/PASSWORD for kind "env".
	EnvPrefix string `json:"env_prefix" yaml:"env_prefix"`
}

// Metrics selects the metrics backend.
type Metrics struct {
	// Backend: none, pushgateway or datadog.
	Backend        string `json:"backend" yaml:"backend"`
	PushgatewayURL string `json:"pushgateway_url" yaml:"pushgateway_url"`
	DatadogAddr    string `json:"datadog_addr" yaml:"datadog_addr"`
}

// Options is a small helper to fetch typed values from decoded JSON or YAML
// maps. It performs minimal coercion and returns the provided default when a
// key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. encoding/json yields float64 and
// yaml.v3 yields int; both are accepted.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringSlice returns a []string for key when the value is a list of strings.
// Returns nil when the key is missing or not a list.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// UnmarshalJSON makes a missing or null "options" object decode to an empty,
// non-nil map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
