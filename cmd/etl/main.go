// Command etl downloads the vacancy CSV, types and de-duplicates it, and
// writes a Parquet artifact plus a row-capped database table.
//
//	etl -source <drive-file-id|url|file://path> [-table vacancies] [-max-rows 100] [-config pipeline.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"time"

	"jobetl/internal/config"
	"jobetl/internal/etl"
	"jobetl/internal/etlerr"

	// register all backends with the storage factory.
	// config specifies which to use but we need to build in support for all of them.
	_ "jobetl/internal/storage/all"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run is main without the process exit. It returns 0 when the pipeline
// reaches DONE (or the configuration is valid under -validate) and 1
// otherwise.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("etl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		source         = fs.String("source", "", "Google Drive file id, http(s) URL or file:// path of the CSV (required)")
		table          = fs.String("table", config.DefaultTable, "destination table")
		maxRows        = fs.Int("max-rows", config.DefaultMaxRows, "maximum rows written to the database table")
		cfgPath        = fs.String("config", "", "pipeline config (JSON, or YAML by .yaml/.yml extension)")
		rawDir         = fs.String("raw-dir", "", "directory for raw_data.csv (overrides output.raw_dir)")
		processedDir   = fs.String("processed-dir", "", "directory for processed_data.parquet (overrides output.processed_dir)")
		metricsBackend = fs.String("metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides env METRICS_BACKEND)")
		pushGatewayURL = fs.String("pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
		datadogAddr    = fs.String("datadog-addr", "", "DogStatsD address")
		validateOnly   = fs.Bool("validate", false, "validate the configuration and exit")
		verbose        = fs.Bool("v", false, "enable verbose logs")
	)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	flags := log.LstdFlags
	if *verbose {
		flags |= log.Lmicroseconds
	}
	lg := log.New(stderr, "", flags)

	p := config.Default()
	if *cfgPath != "" {
		var err error
		if p, err = config.LoadFile(*cfgPath); err != nil {
			fmt.Fprintf(stderr, "etl: %v\n", err)
			return 1
		}
	}

	// Explicit flags win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			p.Source.Locator = *source
		case "table":
			p.Storage.DB.Table = *table
		case "max-rows":
			p.Storage.DB.MaxRows = *maxRows
		case "raw-dir":
			p.Output.RawDir = *rawDir
		case "processed-dir":
			p.Output.ProcessedDir = *processedDir
		}
	})

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		fmt.Fprintf(stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fmt.Fprintln(stderr, "etl: configuration is invalid")
		return 1
	}
	if *validateOnly {
		fmt.Fprintln(stdout, "etl: configuration is valid")
		return 0
	}
	if p.Source.Locator == "" {
		fmt.Fprintln(stderr, "etl: -source is required")
		fs.Usage()
		return 1
	}

	flush := installMetrics(resolveMetrics(p, *metricsBackend, *pushGatewayURL, *datadogAddr), p.Job, lg)
	defer flush()

	orch, err := buildOrchestrator(p, lg)
	if err != nil {
		fmt.Fprintf(stderr, "etl: %v\n", err)
		return 1
	}

	if *verbose {
		lg.Printf("pipeline: source=%s kind=%s storage=%s table=%s max_rows=%d",
			p.Source.Locator, p.Source.Kind, p.Storage.Kind, p.Storage.DB.Table, p.Storage.DB.MaxRows)
	}
	start := time.Now()
	res, err := orch.Run(ctx, etl.Run{
		Source:       p.Source.Locator,
		Table:        p.Storage.DB.Table,
		MaxRows:      p.Storage.DB.MaxRows,
		RawDir:       p.Output.RawDir,
		ProcessedDir: p.Output.ProcessedDir,
	})
	if err != nil {
		fmt.Fprintf(stderr, "etl: %s run=%s stage=%s kind=%s: %v\n",
			res.State, res.RunID, res.FailedStage, etlerr.KindOf(err), err)
		return 1
	}

	sink := fmt.Sprintf("%d", res.Load.SinkRows)
	if res.Load.SinkErr != nil {
		sink = "skipped (" + string(etlerr.KindOf(res.Load.SinkErr)) + ")"
	}
	fmt.Fprintf(stdout, "etl: %s run=%s rows=%d raw=%s parquet=%s table_rows=%s elapsed=%s\n",
		res.State, res.RunID, res.Rows, res.RawPath, res.Load.ParquetPath, sink,
		time.Since(start).Truncate(time.Millisecond))
	return 0
}
