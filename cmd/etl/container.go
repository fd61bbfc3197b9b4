// container.go maps a config.Pipeline onto the etl stages. It keeps the CLI
// layer thin: it depends on storage-agnostic interfaces and never imports
// database drivers or backend packages directly.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"jobetl/internal/columnar"
	"jobetl/internal/config"
	"jobetl/internal/credentials"
	"jobetl/internal/datasource/httpds"
	"jobetl/internal/etl"
	"jobetl/internal/metrics"
	"jobetl/internal/metrics/datadog"
	"jobetl/internal/metrics/prompush"
	csvparser "jobetl/internal/parser/csv"
	"jobetl/internal/transformer/builtin"
)

// buildOrchestrator wires the three stages from p. Every stage logs to lg.
func buildOrchestrator(p config.Pipeline, lg *log.Logger) (*etl.Orchestrator, error) {
	opts, err := parserOptions(p.Parser.Options, lg)
	if err != nil {
		return nil, err
	}
	v := p.Validator()
	v.Logger = lg

	ext := &etl.Extractor{
		SourceKind: p.Source.Kind,
		Client: httpds.NewClient(httpds.Config{
			Timeout:            time.Duration(p.Source.TimeoutSeconds) * time.Second,
			InsecureSkipVerify: p.Source.InsecureSkipVerify,
		}),
		Parser:    csvparser.NewParser(opts),
		Validator: v,
		Job:       p.Job,
		Logger:    lg,
	}

	// The raw artifact is always UTF-8 with comma separators.
	rawOpts := opts
	rawOpts.Comma, rawOpts.Encoding = ',', ""
	tr := &etl.Transformer{
		Schema:    p.Schema,
		Layouts:   p.Parser.Options.StringSlice("date_layouts"),
		Dedup:     builtin.DeDup{Keys: p.Dedup.Keys, Policy: p.Dedup.Policy},
		Parser:    csvparser.NewParser(rawOpts),
		Validator: v,
		Job:       p.Job,
		Logger:    lg,
	}

	store, err := credentials.New(p.Storage.Credentials.Kind, p.Storage.Credentials.Path, p.Storage.Credentials.EnvPrefix)
	if err != nil {
		return nil, err
	}
	ld := &etl.Loader{
		Parquet: columnar.Writer{Compression: p.Output.Compression},
		Sink: etl.SinkConfig{
			Kind:      p.Storage.Kind,
			DSN:       p.Storage.DB.DSN,
			Database:  p.Storage.DB.Database,
			Schema:    p.Storage.DB.Schema,
			BatchSize: pickInt(p.Storage.DB.BatchSize, getenvInt("ETL_BATCH_SIZE", config.DefaultBatchSize)),
		},
		Credentials: store,
		Validator:   v,
		Job:         p.Job,
		Logger:      lg,
	}

	return &etl.Orchestrator{
		Extractor:   ext,
		Transformer: tr,
		Loader:      ld,
		Job:         p.Job,
		Logger:      lg,
	}, nil
}

// parserOptions reads the CSV options block. skip_initial_space is accepted
// as an alias of trim_leading_space; trimming is on unless disabled.
func parserOptions(o config.Options, lg *log.Logger) (csvparser.Options, error) {
	comma := o.String("comma", ",")
	if len([]rune(comma)) != 1 {
		return csvparser.Options{}, fmt.Errorf("parser.options.comma: want one character, got %q", comma)
	}
	trim := o.Bool("trim_leading_space", o.Bool("skip_initial_space", true))
	return csvparser.Options{
		Comma:            o.Rune("comma", ','),
		TrimLeadingSpace: trim,
		Encoding:         o.String("encoding", ""),
		NAValues:         o.StringSlice("na_values"),
		MaxLoggedErrors:  o.Int("max_logged_errors", 0),
		Logger:           lg,
	}, nil
}

// metricsSelection is the resolved metrics setup. Flags win over the
// environment, which wins over the pipeline file.
type metricsSelection struct {
	Backend        string
	PushgatewayURL string
	DatadogAddr    string
}

func resolveMetrics(p config.Pipeline, flagBackend, flagGateway, flagDatadog string) metricsSelection {
	return metricsSelection{
		Backend:        pickString(flagBackend, os.Getenv("METRICS_BACKEND"), p.Metrics.Backend),
		PushgatewayURL: pickString(flagGateway, os.Getenv("PUSHGATEWAY_URL"), p.Metrics.PushgatewayURL, "http://localhost:9091"),
		DatadogAddr:    pickString(flagDatadog, p.Metrics.DatadogAddr, "127.0.0.1:8125"),
	}
}

// installMetrics sets the global metrics backend and returns the function
// that flushes it at exit. Backend construction failures leave the nop
// backend in place.
func installMetrics(sel metricsSelection, job string, lg *log.Logger) func() {
	if job == "" {
		job = config.DefaultJob
	}
	var (
		b   metrics.Backend
		err error
	)
	switch sel.Backend {
	case "pushgateway":
		b, err = prompush.NewBackend(job, sel.PushgatewayURL)
		if err == nil {
			lg.Printf("metrics: backend=pushgateway url=%s job=%s", sel.PushgatewayURL, job)
		}
	case "datadog":
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       sel.DatadogAddr,
			Namespace:  "jobetl.",
			GlobalTags: []string{"job:" + job},
		})
		if err == nil {
			lg.Printf("metrics: backend=datadog addr=%s job=%s", sel.DatadogAddr, job)
		}
	case "", "none":
		return func() {}
	default:
		lg.Printf("metrics: unknown backend %q; metrics disabled", sel.Backend)
		return func() {}
	}
	if err != nil {
		lg.Printf("metrics: init %s backend: %v; using nop", sel.Backend, err)
		return func() {}
	}

	prev := metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			lg.Printf("metrics: flush error: %v", err)
		}
		metrics.SetBackend(prev)
	}
}

func getenvInt(k string, def int) int {
	if s := os.Getenv(k); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return def
}

func pickInt(a, b int) int {
	if a > 0 {
		return a
	}
	return b
}

func pickString(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
