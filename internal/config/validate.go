// Package config provides configuration models and helpers for the pipeline.
//
// This file adds a lightweight linter for Pipeline values. It performs static
// checks and returns a list of issues (errors and warnings) that the CLI
// prints before running.
package config

import (
	"fmt"
	"regexp"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single lint finding. Path is a dotted path into the
// config (e.g. "storage.db.table").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue is an error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

var (
	knownSourceKinds   = map[string]bool{"": true, "gdrive": true, "http": true, "file": true}
	knownStorageKinds  = map[string]bool{"postgres": true, "sqlite": true, "mysql": true, "mssql": true}
	knownCredsKinds    = map[string]bool{"": true, "none": true, "sqlite": true, "env": true}
	knownCodecs        = map[string]bool{"snappy": true, "zstd": true, "gzip": true, "uncompressed": true}
	knownMetrics       = map[string]bool{"": true, "none": true, "pushgateway": true, "datadog": true}
	knownDedupPolicies = map[string]bool{"": true, "keep-first": true, "keep-last": true}

	// identRe bounds table and schema names to plain SQL identifiers; they are
	// quoted by every backend but must not smuggle separators.
	identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidatePipeline lints p without mutating it. The source locator is not
// checked here because the CLI supplies it after the file is loaded.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, a ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, a...)})
	}

	if strings.TrimSpace(p.Job) == "" {
		add(SeverityWarning, "job", "job is empty; metrics will use a generic job name")
	}

	if !knownSourceKinds[p.Source.Kind] {
		add(SeverityError, "source.kind", "unsupported source kind %q (want gdrive, http or file)", p.Source.Kind)
	}
	if p.Source.TimeoutSeconds <= 0 {
		add(SeverityError, "source.timeout_seconds", "timeout must be > 0; remote fetches must be bounded")
	}
	if p.Source.InsecureSkipVerify {
		add(SeverityWarning, "source.insecure_skip_verify", "TLS verification is disabled")
	}

	if p.Parser.Kind != "csv" {
		add(SeverityError, "parser.kind", "unsupported parser kind %q (want csv)", p.Parser.Kind)
	}
	if c := p.Parser.Options.String("comma", ","); len([]rune(c)) != 1 {
		add(SeverityError, "parser.options.comma", "delimiter must be a single character, got %q", c)
	}

	if err := p.Schema.Validate(); err != nil {
		add(SeverityError, "schema", "%v", err)
	}

	if !knownDedupPolicies[p.Dedup.Policy] {
		add(SeverityError, "dedup.policy", "unsupported policy %q (want keep-first or keep-last)", p.Dedup.Policy)
	}
	for i, k := range p.Dedup.Keys {
		if strings.TrimSpace(k) == "" {
			add(SeverityError, fmt.Sprintf("dedup.keys[%d]", i), "key column must not be empty")
		}
	}

	if p.Validation.MinRows < 0 {
		add(SeverityError, "validation.min_rows", "must be >= 0")
	}
	if p.Validation.MaxMissingPct < 0 || p.Validation.MaxMissingPct > 100 {
		add(SeverityError, "validation.max_missing_pct", "must be within [0, 100], got %v", p.Validation.MaxMissingPct)
	}

	if strings.TrimSpace(p.Output.RawDir) == "" {
		add(SeverityError, "output.raw_dir", "must not be empty")
	}
	if strings.TrimSpace(p.Output.ProcessedDir) == "" {
		add(SeverityError, "output.processed_dir", "must not be empty")
	}
	if !knownCodecs[strings.ToLower(p.Output.Compression)] {
		add(SeverityError, "output.compression", "unsupported codec %q", p.Output.Compression)
	}

	issues = append(issues, validateStorage(p.Storage)...)

	if !knownMetrics[p.Metrics.Backend] {
		add(SeverityWarning, "metrics.backend", "unknown backend %q; metrics will be disabled", p.Metrics.Backend)
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue
	add := func(sev IssueSeverity, path, format string, a ...any) {
		issues = append(issues, Issue{Severity: sev, Path: path, Message: fmt.Sprintf(format, a...)})
	}

	if !knownStorageKinds[s.Kind] {
		add(SeverityError, "storage.kind", "unsupported storage kind %q", s.Kind)
	}
	if !identRe.MatchString(s.DB.Table) {
		add(SeverityError, "storage.db.table", "table %q is not a plain identifier", s.DB.Table)
	}
	if s.DB.Schema != "" && !identRe.MatchString(s.DB.Schema) {
		add(SeverityError, "storage.db.schema", "schema %q is not a plain identifier", s.DB.Schema)
	}
	if s.DB.MaxRows < 0 {
		add(SeverityError, "storage.db.max_rows", "must be >= 0")
	}
	if s.DB.BatchSize <= 0 {
		add(SeverityError, "storage.db.batch_size", "must be > 0")
	}

	if !knownCredsKinds[s.Credentials.Kind] {
		add(SeverityError, "storage.credentials.kind", "unsupported credentials kind %q", s.Credentials.Kind)
	}
	if s.Credentials.Kind == "sqlite" && s.Credentials.Path == "" {
		add(SeverityError, "storage.credentials.path", "path is required for sqlite credentials")
	}
	if s.DB.DSN == "" && (s.Credentials.Kind == "" || s.Credentials.Kind == "none") {
		add(SeverityWarning, "storage", "no dsn and no credentials; the database sink will be skipped")
	}
	if s.Kind == "sqlite" && s.DB.DSN == "" {
		add(SeverityWarning, "storage.db.dsn", "sqlite sink without dsn; the database sink will be skipped")
	}
	return issues
}
