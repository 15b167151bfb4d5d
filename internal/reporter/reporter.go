package reporter

import (
	"context"
	"log/slog"
	"time"

	"github.com/hashicorp/go-multierror"

	"salescli/internal/config"
	"salescli/internal/errors"
	"salescli/internal/exporter"
	"salescli/internal/validation"
	"salescli/pkg/contracts/domain"
)

// Artifact kinds
const (
	KindWorkbook = "workbook"
	KindPDF      = "pdf"
	KindSummary  = "summary"
	KindCSV      = "csv"
)

// Options selects and places the rendered artefacts
type Options struct {
	Paths          *config.Paths
	CurrencySymbol string
	Workbook       bool
	PDF            bool
	SummaryText    bool
	CSV            bool
}

// OptionsFromConfig maps the output and report sections of the configuration
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Paths:          config.NewPaths(cfg.Output.Dir),
		CurrencySymbol: cfg.Report.CurrencySymbol,
		Workbook:       cfg.Output.Workbook,
		PDF:            cfg.Output.PDF,
		SummaryText:    cfg.Output.SummaryText,
		CSV:            cfg.Output.CSV,
	}
}

// Enabled reports whether any artefact is selected
func (o Options) Enabled() bool {
	return o.Workbook || o.PDF || o.SummaryText || o.CSV
}

// Artifact is a file written by Render
type Artifact struct {
	Kind string
	Path string
}

type renderFunc func(path string, a domain.Analysis, currencySymbol string) error

// Reporter writes the report files for an analysis
type Reporter struct {
	opts   Options
	logger *slog.Logger
}

// New creates a reporter
func New(opts Options, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Paths == nil {
		opts.Paths = config.NewPaths("")
	}
	if opts.CurrencySymbol == "" {
		opts.CurrencySymbol = "$"
	}
	return &Reporter{opts: opts, logger: logger.With("component", "reporter")}
}

// Render writes every enabled artefact. A failing artefact does not stop
// the others; all failures are returned together as RENDER errors alongside
// the artefacts that were written.
func (r *Reporter) Render(ctx context.Context, a domain.Analysis) ([]Artifact, error) {
	targets := []struct {
		kind    string
		enabled bool
		path    string
		render  renderFunc
	}{
		{KindWorkbook, r.opts.Workbook, r.opts.Paths.WorkbookFile, WriteWorkbook},
		{KindPDF, r.opts.PDF, r.opts.Paths.PDFFile, WritePDF},
		{KindSummary, r.opts.SummaryText, r.opts.Paths.SummaryFile, WriteSummary},
		{KindCSV, r.opts.CSV, r.opts.Paths.AggregatesFile, writeAggregates},
	}

	if !r.opts.Enabled() {
		r.logger.InfoContext(ctx, "No report artefacts enabled")
		return nil, nil
	}

	if err := validation.NewFileValidator(r.logger).ValidateOutputDirectory(r.opts.Paths.OutputDir); err != nil {
		return nil, errors.NewRenderError(r.opts.Paths.OutputDir, err)
	}

	var (
		artifacts []Artifact
		result    *multierror.Error
	)
	for _, t := range targets {
		if !t.enabled {
			continue
		}
		start := time.Now()
		if err := t.render(t.path, a, r.opts.CurrencySymbol); err != nil {
			r.logger.ErrorContext(ctx, "Render failed",
				slog.String("artifact", t.kind),
				slog.String("path", t.path),
				slog.String("error", err.Error()))
			result = multierror.Append(result, errors.NewRenderError(t.kind, err).WithContext("path", t.path))
			continue
		}
		r.logger.InfoContext(ctx, "Artefact written",
			slog.String("artifact", t.kind),
			slog.String("path", t.path),
			slog.Duration("duration", time.Since(start)))
		artifacts = append(artifacts, Artifact{Kind: t.kind, Path: t.path})
	}

	return artifacts, result.ErrorOrNil()
}

func writeAggregates(path string, a domain.Analysis, _ string) error {
	return exporter.WriteAggregates(path, a)
}
