// Command salesreport loads a transaction file, prints the headline KPIs and
// writes the chart workbook, PDF and text summary.
//
// Usage:
//
//	salesreport [-in file] [-out dir] [-config file] [-no-charts] [-csv]
//
// Flags override SALES_* environment variables, which override the YAML
// config file.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"salescli/internal/config"
	"salescli/internal/infrastructure"
	"salescli/internal/operations"
	"salescli/internal/reporter"
	"salescli/pkg/contracts"
)

// Exit codes
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// options are the command line flags
type options struct {
	input      string
	outputDir  string
	configFile string
	noCharts   bool
	csv        bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet(config.AppName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.input, "in", "", "input .csv or .xlsx file (defaults to input.file from config)")
	fs.StringVar(&opts.outputDir, "out", "", "output directory for report files (defaults to output.dir from config)")
	fs.StringVar(&opts.configFile, "config", "", "YAML config file (defaults to $SALES_CONFIG, config.yaml or configs/config.yaml)")
	fs.BoolVar(&opts.noCharts, "no-charts", false, "skip the workbook and PDF, write only the text summary")
	fs.BoolVar(&opts.csv, "csv", false, "also write the aggregates as CSV")
	fs.BoolVar(&opts.version, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return opts, nil
}

// applyFlags overlays command line flags onto cfg
func applyFlags(cfg *config.Config, opts options) error {
	if opts.input != "" {
		cfg.Input.File = opts.input
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	if opts.csv {
		cfg.Output.CSV = true
	}
	if opts.noCharts {
		cfg.Output.Workbook = false
		cfg.Output.PDF = false
	}
	return cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintln(stderr, err)
		return exitUsage
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString(config.AppName))
		return exitOK
	}

	cfg, err := config.Load(opts.configFile)
	if err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitUsage
	}
	if err := applyFlags(cfg, opts); err != nil {
		fmt.Fprintf(stderr, "configuration error: %v\n", err)
		return exitUsage
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize logger: %v\n", err)
		return exitUsage
	}
	defer infrastructure.CloseLogFile()

	providers, err := infrastructure.InitializeOTel(cfg.Telemetry, logger)
	if err != nil {
		infrastructure.WithError(logger, err).Error("Failed to initialize telemetry")
		return exitFailure
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(logger, err).Warn("Telemetry shutdown failed")
		}
	}()

	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		infrastructure.WithError(logger, err).Error("Failed to create metrics")
		return exitFailure
	}

	config.NewPaths(cfg.Output.Dir).LogPathResolution(logger)
	logger.Info("Starting sales report",
		slog.String("version", config.AppVersion),
		slog.String("input", cfg.Input.File),
		slog.String("output_dir", cfg.Output.Dir),
		slog.Bool("workbook", cfg.Output.Workbook),
		slog.Bool("pdf", cfg.Output.PDF),
		slog.Bool("csv", cfg.Output.CSV),
		slog.Bool("legacy_hour_from_date", cfg.Report.LegacyHourFromDate))

	pipeline := operations.NewPipeline(cfg,
		operations.WithLogger(logger),
		operations.WithTracer(providers.Tracer),
		operations.WithMetrics(metrics))

	result, err := pipeline.Run(ctx, cfg.Input.File)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailure
	}

	if err := reporter.WriteKPIs(stdout, result.Analysis.KPIs, cfg.Report.CurrencySymbol); err != nil {
		infrastructure.WithError(logger, err).Error("Failed to print KPIs")
		return exitFailure
	}

	if result.RenderErr != nil {
		infrastructure.WithError(logger, result.RenderErr).Warn("Some report files were not written")
	}
	for _, a := range result.Artifacts {
		logger.Info("Report file", slog.String("kind", a.Kind), slog.String("path", a.Path))
	}

	return exitOK
}
