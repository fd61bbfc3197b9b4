// Package etl runs the vacancy pipeline: an Extractor downloads and validates
// the raw CSV, a Transformer types and de-duplicates it, and a Loader writes
// the Parquet artifact and the row-capped database table. The Orchestrator
// runs the three in order and stops at the first failure.
package etl

import (
	"log"
)

// State is the orchestrator's position in a run.
type State string

const (
	StateExtracting   State = "EXTRACTING"
	StateTransforming State = "TRANSFORMING"
	StateLoading      State = "LOADING"
	StateDone         State = "DONE"
	StateFailed       State = "FAILED"
)

// Stage names used in errors, logs and metrics.
const (
	StageExtract   = "extract"
	StageTransform = "transform"
	StageLoad      = "load"
)

// Artifact file names.
const (
	RawFileName       = "raw_data.csv"
	ProcessedFileName = "processed_data.parquet"
)

// Defaults for a Run.
const (
	DefaultTable   = "vacancies"
	DefaultMaxRows = 100
)

func loggerOr(l *log.Logger) *log.Logger {
	if l != nil {
		return l
	}
	return log.Default()
}

func jobOr(job string) string {
	if job != "" {
		return job
	}
	return "jobetl"
}
