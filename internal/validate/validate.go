// Package validate implements the dataset checks run at the three pipeline
// checkpoints: after extract, after transform and before load.
//
// Each check either returns nil or an error wrapping one of the etlerr
// sentinels. Nothing is retained between calls.
package validate

import (
	"fmt"
	"log"

	"jobetl/internal/dataset"
	"jobetl/internal/etlerr"
)

// Default thresholds.
const (
	DefaultMinRows       = 10
	DefaultMaxMissingPct = 50.0
)

// DefaultRequiredColumns are warned about, not enforced, when absent.
var DefaultRequiredColumns = []string{"job_title", "organization", "country"}

// Validator carries the policy thresholds.
type Validator struct {
	MinRows         int
	MaxMissingPct   float64
	RequiredColumns []string

	// Logger receives warnings and shape summaries; nil means log.Default().
	Logger *log.Logger
}

// Defaults returns a Validator with the default policy.
func Defaults() Validator {
	return Validator{
		MinRows:         DefaultMinRows,
		MaxMissingPct:   DefaultMaxMissingPct,
		RequiredColumns: append([]string(nil), DefaultRequiredColumns...),
	}
}

func (v Validator) logger() *log.Logger {
	if v.Logger != nil {
		return v.Logger
	}
	return log.Default()
}

// Raw checks a freshly extracted dataset.
func (v Validator) Raw(ds *dataset.Dataset) error {
	if ds.Empty() {
		return fmt.Errorf("validate raw: %w", etlerr.ErrEmptyDataset)
	}
	if ds.Len() < v.MinRows {
		return fmt.Errorf("validate raw: %w: %d rows (minimum %d)", etlerr.ErrInsufficientRows, ds.Len(), v.MinRows)
	}

	var missing []string
	for _, c := range v.RequiredColumns {
		if !ds.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		v.logger().Printf("validate: warning: missing expected columns %v", missing)
	}
	v.logger().Printf("validate: raw ok rows=%d cols=%d", ds.Len(), ds.Width())
	return nil
}

// Transformed checks a dataset after coercion and de-duplication. A missing
// share equal to MaxMissingPct passes.
func (v Validator) Transformed(ds *dataset.Dataset) error {
	if ds.Empty() {
		return fmt.Errorf("validate transformed: %w", etlerr.ErrEmptyDataset)
	}
	pct := ds.MissingPct()
	v.logger().Printf("validate: transformed rows=%d missing_pct=%.2f", ds.Len(), pct)
	if pct > v.MaxMissingPct {
		return fmt.Errorf("validate transformed: %w: %.2f%% missing (limit %.2f%%)",
			etlerr.ErrExcessiveMissingness, pct, v.MaxMissingPct)
	}
	return nil
}

// Loaded checks a dataset right before it is written to the sinks.
func (v Validator) Loaded(ds *dataset.Dataset) error {
	if ds.Empty() {
		return fmt.Errorf("validate load: %w", etlerr.ErrEmptyDataset)
	}
	v.logger().Printf("validate: ready to load rows=%d cols=%d", ds.Len(), ds.Width())
	return nil
}
