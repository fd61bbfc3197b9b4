// Package metrics provides a small, backend-agnostic abstraction for recording
// operational metrics from the ETL pipeline.
//
// A global, pluggable backend defaults to a no-op implementation, so the
// Record* helpers are always safe to call. Concrete systems live in
// subpackages (prompush, datadog) and are installed with SetBackend.
package metrics

import (
	"sync"
	"time"
)

// Labels are string key/value pairs attached to a metric.
type Labels map[string]string

// Metric names emitted by the helpers below.
const (
	StepTotal       = "etl_step_total"
	StepDuration    = "etl_step_duration_seconds"
	RecordsTotal    = "etl_records_total"
	BatchesTotal    = "etl_batches_total"
	MissingPct      = "etl_missing_pct"
	RunsTotal       = "etl_runs_total"
	LastRunStateTag = "state"
)

// Backend is the minimal interface for metrics backends.
type Backend interface {
	// IncCounter increments a counter by delta.
	IncCounter(name string, delta float64, labels Labels)
	// ObserveHistogram records a value in a latency/duration style metric.
	ObserveHistogram(name string, value float64, labels Labels)
	// SetGauge sets a point-in-time value.
	SetGauge(name string, value float64, labels Labels)
	// Flush pushes or flushes metrics, if the backend needs it (e.g. Pushgateway).
	Flush() error
}

type nopBackend struct{}

func (nopBackend) IncCounter(string, float64, Labels)       {}
func (nopBackend) ObserveHistogram(string, float64, Labels) {}
func (nopBackend) SetGauge(string, float64, Labels)         {}
func (nopBackend) Flush() error                             { return nil }

var (
	mu      sync.RWMutex
	backend Backend = nopBackend{}
)

func current() Backend {
	mu.RLock()
	defer mu.RUnlock()
	return backend
}

// SetBackend installs a concrete backend and returns the previous one.
// Passing nil keeps the existing backend.
func SetBackend(b Backend) Backend {
	mu.Lock()
	defer mu.Unlock()
	prev := backend
	if b != nil {
		backend = b
	}
	return prev
}

// Flush delegates to the current backend.
func Flush() error { return current().Flush() }

// RecordStep records one execution of a pipeline stage: a counter labelled
// with the outcome and its duration.
func RecordStep(job, step string, err error, d time.Duration) {
	status := "success"
	if err != nil {
		status = "failure"
	}
	lbls := Labels{"job": job, "step": step, "status": status}

	b := current()
	b.IncCounter(StepTotal, 1, lbls)
	b.ObserveHistogram(StepDuration, d.Seconds(), lbls)
}

// RecordRow adds delta to the record counter for kind. Kinds used by the
// pipeline: extracted, skipped_lines, padded_lines, duplicates_dropped,
// file_rows, sink_rows. Non-positive deltas are ignored.
func RecordRow(job, kind string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(RecordsTotal, float64(delta), Labels{"job": job, "kind": kind})
}

// RecordBatches increments the batch counter for job.
func RecordBatches(job string, delta int64) {
	if delta <= 0 {
		return
	}
	current().IncCounter(BatchesTotal, float64(delta), Labels{"job": job})
}

// RecordMissingPct publishes the missing-cell percentage seen at stage.
func RecordMissingPct(job, stage string, pct float64) {
	current().SetGauge(MissingPct, pct, Labels{"job": job, "stage": stage})
}

// RecordRun counts a finished run by its terminal state.
func RecordRun(job, state string) {
	current().IncCounter(RunsTotal, 1, Labels{"job": job, LastRunStateTag: state})
}
