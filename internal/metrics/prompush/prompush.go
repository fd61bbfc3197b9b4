// Package prompush implements a Prometheus Pushgateway backend for the
// metrics package. Collected series are pushed to a gateway at Flush rather
// than exposed on a scrape endpoint, which suits a batch job that exits.
package prompush

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	"jobetl/internal/metrics"
)

// Backend is a Prometheus Pushgateway metrics backend.
type Backend struct {
	gatewayURL string // e.g. http://pushgateway:9091
	jobName    string // Pushgateway "job" group
	reg        *prometheus.Registry

	steps        *prometheus.CounterVec // step, status
	stepDuration *prometheus.SummaryVec // step, status
	records      *prometheus.CounterVec // kind
	batches      prometheus.Counter
	missing      *prometheus.GaugeVec   // stage
	runs         *prometheus.CounterVec // state
}

// NewBackend constructs a Prometheus Pushgateway backend. jobName doubles as
// the Pushgateway grouping key and defaults to "jobetl".
func NewBackend(jobName, gatewayURL string) (*Backend, error) {
	if gatewayURL == "" {
		return nil, fmt.Errorf("prompush: gateway URL is required")
	}
	if jobName == "" {
		jobName = "jobetl"
	}

	b := &Backend{
		gatewayURL: gatewayURL,
		jobName:    jobName,
		reg:        prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.StepTotal,
			Help: "Pipeline stage executions by stage and outcome.",
		}, []string{"step", "status"}),
		stepDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Name:       metrics.StepDuration,
			Help:       "Pipeline stage duration in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		}, []string{"step", "status"}),
		records: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RecordsTotal,
			Help: "Row counts by kind (extracted, skipped_lines, duplicates_dropped, sink_rows, ...).",
		}, []string{"kind"}),
		batches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: metrics.BatchesTotal,
			Help: "Sink insert batches written.",
		}),
		missing: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: metrics.MissingPct,
			Help: "Share of missing cells, in percent, observed at each validation point.",
		}, []string{"stage"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: metrics.RunsTotal,
			Help: "Pipeline runs by terminal state.",
		}, []string{metrics.LastRunStateTag}),
	}

	for _, c := range []prometheus.Collector{b.steps, b.stepDuration, b.records, b.batches, b.missing, b.runs} {
		if err := b.reg.Register(c); err != nil {
			return nil, fmt.Errorf("prompush: register: %w", err)
		}
	}
	return b, nil
}

// Registry exposes the underlying registry, mostly for tests.
func (b *Backend) Registry() *prometheus.Registry { return b.reg }

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	switch name {
	case metrics.StepTotal:
		b.steps.WithLabelValues(labels["step"], labels["status"]).Add(delta)
	case metrics.RecordsTotal:
		b.records.WithLabelValues(labels["kind"]).Add(delta)
	case metrics.BatchesTotal:
		b.batches.Add(delta)
	case metrics.RunsTotal:
		b.runs.WithLabelValues(labels[metrics.LastRunStateTag]).Add(delta)
	}
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if name != metrics.StepDuration {
		return
	}
	b.stepDuration.WithLabelValues(labels["step"], labels["status"]).Observe(value)
}

func (b *Backend) SetGauge(name string, value float64, labels metrics.Labels) {
	if name != metrics.MissingPct {
		return
	}
	b.missing.WithLabelValues(labels["stage"]).Set(value)
}

// Flush pushes the current registry to the Pushgateway, replacing the
// previous push for the same job.
func (b *Backend) Flush() error {
	if err := push.New(b.gatewayURL, b.jobName).Gatherer(b.reg).Push(); err != nil {
		return fmt.Errorf("prompush: push: %w", err)
	}
	return nil
}
