// Package datadog sends pipeline metrics to a DogStatsD agent. Labels become
// "key:value" tags.
package datadog

import (
	"fmt"
	"sort"

	"github.com/DataDog/datadog-go/v5/statsd"

	"jobetl/internal/metrics"
)

// Config holds Datadog backend configuration.
type Config struct {
	// Addr is the DogStatsD address, e.g. "127.0.0.1:8125" or "unix:///path/to/socket".
	Addr string

	// Namespace prefixes every metric name, e.g. "jobetl.".
	Namespace string

	// GlobalTags are attached to every metric, e.g. "env:prod".
	GlobalTags []string
}

// Backend is a metrics.Backend over a statsd client.
type Backend struct {
	client statsd.ClientInterface
}

// NewBackend dials the agent described by cfg. Addr is required.
func NewBackend(cfg Config) (*Backend, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("datadog: Addr is required")
	}

	var opts []statsd.Option
	if cfg.Namespace != "" {
		opts = append(opts, statsd.WithNamespace(cfg.Namespace))
	}
	if len(cfg.GlobalTags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.GlobalTags))
	}

	c, err := statsd.New(cfg.Addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("datadog: create client: %w", err)
	}
	return &Backend{client: c}, nil
}

// IncCounter sends a Count. DogStatsD counts are integral, so fractional
// deltas are truncated.
func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	_ = b.client.Count(name, int64(delta), labelsToTags(labels), 1)
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	_ = b.client.Histogram(name, value, labelsToTags(labels), 1)
}

func (b *Backend) SetGauge(name string, value float64, labels metrics.Labels) {
	_ = b.client.Gauge(name, value, labelsToTags(labels), 1)
}

// Flush closes the client, which sends anything still buffered. The backend
// must not be used afterwards.
func (b *Backend) Flush() error {
	if err := b.client.Close(); err != nil {
		return fmt.Errorf("datadog: close: %w", err)
	}
	return nil
}

// labelsToTags renders labels as sorted "key:value" tags.
func labelsToTags(lbls metrics.Labels) []string {
	if len(lbls) == 0 {
		return nil
	}
	out := make([]string, 0, len(lbls))
	for k, v := range lbls {
		out = append(out, k+":"+v)
	}
	sort.Strings(out)
	return out
}
