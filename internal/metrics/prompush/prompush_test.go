package prompush

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"jobetl/internal/metrics"
)

func TestNewBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		jobName     string
		gatewayURL  string
		wantErr     bool
		wantJobName string
	}{
		{name: "missing gateway URL", jobName: "etl", wantErr: true},
		{name: "default job name", gatewayURL: "http://pushgateway:9091", wantJobName: "jobetl"},
		{name: "explicit job name", jobName: "vacancies", gatewayURL: "http://pushgateway:9091", wantJobName: "vacancies"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, err := NewBackend(tt.jobName, tt.gatewayURL)
			if tt.wantErr {
				if err == nil || b != nil {
					t.Fatalf("NewBackend() = %v, %v; want nil, error", b, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewBackend() error = %v", err)
			}
			if b.jobName != tt.wantJobName {
				t.Fatalf("jobName = %q, want %q", b.jobName, tt.wantJobName)
			}
		})
	}
}

func TestIncCounter(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("etl", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.IncCounter(metrics.StepTotal, 3, metrics.Labels{"step": "extract", "status": "success"})
	b.IncCounter(metrics.RecordsTotal, 11, metrics.Labels{"kind": "file_rows"})
	b.IncCounter(metrics.BatchesTotal, 2, nil)
	b.IncCounter(metrics.BatchesTotal, 0.5, nil)
	b.IncCounter(metrics.RunsTotal, 1, metrics.Labels{metrics.LastRunStateTag: "DONE"})
	b.IncCounter("unknown_metric", 10, metrics.Labels{"foo": "bar"})

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"steps", testutil.ToFloat64(b.steps.WithLabelValues("extract", "success")), 3},
		{"records", testutil.ToFloat64(b.records.WithLabelValues("file_rows")), 11},
		{"batches", testutil.ToFloat64(b.batches), 2.5},
		{"runs", testutil.ToFloat64(b.runs.WithLabelValues("DONE")), 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestObserveHistogramAndGauge(t *testing.T) {
	t.Parallel()

	b, err := NewBackend("etl", "http://example.com")
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}

	b.ObserveHistogram(metrics.StepDuration, 1.5, metrics.Labels{"step": "load", "status": "success"})
	b.ObserveHistogram("other_metric", 2, metrics.Labels{"step": "load", "status": "success"})
	if n := testutil.CollectAndCount(b.stepDuration); n != 1 {
		t.Fatalf("duration series = %d, want 1", n)
	}

	b.SetGauge(metrics.MissingPct, 12.5, metrics.Labels{"stage": "raw"})
	b.SetGauge(metrics.MissingPct, 4, metrics.Labels{"stage": "raw"})
	b.SetGauge("other_gauge", 99, metrics.Labels{"stage": "raw"})
	if got := testutil.ToFloat64(b.missing.WithLabelValues("raw")); got != 4 {
		t.Fatalf("missing gauge = %v, want 4", got)
	}
}

func TestFlush(t *testing.T) {
	t.Parallel()

	type pushed struct {
		method, path, body string
	}
	reqCh := make(chan pushed, 1)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		body, _ := io.ReadAll(r.Body)
		reqCh <- pushed{method: r.Method, path: r.URL.Path, body: string(body)}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	b, err := NewBackend("vacancies", server.URL)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	b.IncCounter(metrics.StepTotal, 1, metrics.Labels{"step": "extract", "status": "success"})

	if err := b.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	var got pushed
	select {
	case got = <-reqCh:
	default:
		t.Fatalf("Flush() sent no request")
	}
	if got.method != http.MethodPut {
		t.Fatalf("method = %s, want PUT", got.method)
	}
	if !strings.HasSuffix(got.path, "/job/vacancies") {
		t.Fatalf("path = %s", got.path)
	}
	if got.body == "" {
		t.Fatalf("empty push body")
	}
}

func TestFlush_GatewayError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	b, err := NewBackend("vacancies", server.URL)
	if err != nil {
		t.Fatalf("NewBackend() error = %v", err)
	}
	if err := b.Flush(); err == nil || !strings.Contains(err.Error(), "prompush: push") {
		t.Fatalf("Flush() error = %v, want wrapped push error", err)
	}
}
