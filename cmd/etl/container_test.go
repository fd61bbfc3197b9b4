package main

import (
	"io"
	"log"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"jobetl/internal/config"
	"jobetl/internal/etl"
	"jobetl/internal/metrics"
	csvparser "jobetl/internal/parser/csv"
	"jobetl/internal/transformer/builtin"
)

func quiet() *log.Logger { return log.New(io.Discard, "", 0) }

func TestParserOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      config.Options
		want    csvparser.Options
		wantErr bool
	}{
		{
			name: "defaults trim leading space",
			in:   config.Options{},
			want: csvparser.Options{Comma: ',', TrimLeadingSpace: true},
		},
		{
			name: "explicit",
			in: config.Options{
				"comma":              ";",
				"trim_leading_space": false,
				"encoding":           "windows-1250",
				"na_values":          []any{"-", "?"},
				"max_logged_errors":  float64(3),
			},
			want: csvparser.Options{Comma: ';', Encoding: "windows-1250", NAValues: []string{"-", "?"}, MaxLoggedErrors: 3},
		},
		{
			name: "skip_initial_space alias",
			in:   config.Options{"skip_initial_space": false},
			want: csvparser.Options{Comma: ','},
		},
		{name: "multi-char delimiter", in: config.Options{"comma": "||"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := parserOptions(tt.in, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parserOptions(%v) error = nil", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parserOptions: %v", err)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.IgnoreFields(csvparser.Options{}, "Logger")); diff != "" {
				t.Fatalf("options (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildOrchestrator(t *testing.T) {
	t.Parallel()

	p := config.Default()
	p.Storage.Credentials = config.Credentials{Kind: "env", EnvPrefix: "JOBETL_TEST_"}
	p.Storage.DB.BatchSize = 50
	p.Dedup = config.Dedup{Keys: []string{"uniq_id"}, Policy: "keep-last"}

	o, err := buildOrchestrator(p, quiet())
	if err != nil {
		t.Fatalf("buildOrchestrator: %v", err)
	}
	ld, ok := o.Loader.(*etl.Loader)
	if !ok {
		t.Fatalf("loader type %T", o.Loader)
	}
	want := etl.SinkConfig{Kind: "postgres", Database: "homeworks", Schema: "public", BatchSize: 50}
	if diff := cmp.Diff(want, ld.Sink); diff != "" {
		t.Fatalf("sink (-want +got):\n%s", diff)
	}
	if ld.Credentials == nil || ld.Parquet.Compression != "snappy" {
		t.Fatalf("loader = %+v", ld)
	}
	tr, ok := o.Transformer.(*etl.Transformer)
	if !ok {
		t.Fatalf("transformer type %T", o.Transformer)
	}
	if diff := cmp.Diff(builtin.DeDup{Keys: []string{"uniq_id"}, Policy: "keep-last"}, tr.Dedup); diff != "" {
		t.Fatalf("dedup (-want +got):\n%s", diff)
	}
	if ext, ok := o.Extractor.(*etl.Extractor); !ok || ext.SourceKind != "gdrive" {
		t.Fatalf("extractor = %+v", o.Extractor)
	}

	p.Storage.Credentials.Kind = "vault"
	if _, err := buildOrchestrator(p, quiet()); err == nil {
		t.Fatalf("expected error for unknown credentials kind")
	}
}

func TestResolveMetrics(t *testing.T) {
	t.Setenv("METRICS_BACKEND", "pushgateway")
	t.Setenv("PUSHGATEWAY_URL", "")

	p := config.Default()
	p.Metrics.DatadogAddr = "10.0.0.1:8125"

	got := resolveMetrics(p, "", "", "")
	want := metricsSelection{Backend: "pushgateway", PushgatewayURL: "http://localhost:9091", DatadogAddr: "10.0.0.1:8125"}
	if got != want {
		t.Fatalf("resolveMetrics = %+v, want %+v", got, want)
	}
	if got := resolveMetrics(p, "datadog", "http://gw:9091", ""); got.Backend != "datadog" || got.PushgatewayURL != "http://gw:9091" {
		t.Fatalf("flags must win: %+v", got)
	}
}

func TestInstallMetrics(t *testing.T) {
	for _, sel := range []metricsSelection{
		{Backend: "none"},
		{Backend: "bogus"},
		{Backend: "pushgateway"}, // empty URL: constructor fails, nop stays
	} {
		prev := metrics.SetBackend(nil)
		flush := installMetrics(sel, "", quiet())
		flush()
		if cur := metrics.SetBackend(nil); cur != prev {
			t.Fatalf("%s: backend changed to %T", sel.Backend, cur)
		}
	}

	flush := installMetrics(metricsSelection{Backend: "datadog", DatadogAddr: "127.0.0.1:8125"}, "vacancies", quiet())
	flush()
}

func TestPickHelpers(t *testing.T) {
	t.Setenv("ETL_TEST_INT", "42")
	if v := getenvInt("ETL_TEST_INT", 7); v != 42 {
		t.Fatalf("getenvInt = %d, want 42", v)
	}
	if v := getenvInt("ETL_TEST_UNSET", 7); v != 7 {
		t.Fatalf("getenvInt unset = %d, want 7", v)
	}
	if pickInt(5, 9) != 5 || pickInt(0, 9) != 9 {
		t.Fatalf("pickInt")
	}
	if pickString("", "b", "c") != "b" || pickString() != "" {
		t.Fatalf("pickString")
	}
}
