package operations

import (
	"context"
	"log/slog"

	"github.com/hashicorp/go-multierror"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"salescli/internal/analytics"
	"salescli/internal/config"
	"salescli/internal/dataprocessing"
	"salescli/internal/infrastructure"
	"salescli/internal/reporter"
	"salescli/internal/validation"
	"salescli/pkg/contracts/domain"
)

// Pipeline runs the report stages over one input file
type Pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewPipeline creates a pipeline for cfg
func NewPipeline(cfg *config.Config, opts ...PipelineOption) *Pipeline {
	if cfg == nil {
		cfg = config.Default()
	}
	p := &Pipeline{cfg: cfg, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// runContext carries values between steps of one run
type runContext struct {
	raw      *domain.RawTable
	table    *domain.Table
	analysis domain.Analysis
}

// Run loads inputPath, cleans and aggregates it and renders the report.
// A load, clean or analyze failure returns a nil Result and an
// OperationError; no report files are written in that case. Report
// failures are returned in Result.RenderErr with a nil error.
func (p *Pipeline) Run(ctx context.Context, inputPath string) (*Result, error) {
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.RunID(ctx)
	logger := infrastructure.WithComponent(p.logger, "pipeline")

	ot := NewOperationTracer(p.tracer, p.metrics)
	ctx, span := ot.TraceRun(ctx, runID, inputPath)
	defer span.End()

	state := NewOperationState(runID)
	state.Start()
	logger.InfoContext(ctx, "Run started", slog.String("input", inputPath))

	rc := &runContext{}
	steps := []struct {
		id string
		fn func(context.Context, *StepState, *runContext) error
	}{
		{StepLoad, func(ctx context.Context, step *StepState, rc *runContext) error {
			return p.load(ctx, ot, step, rc, inputPath)
		}},
		{StepClean, func(ctx context.Context, step *StepState, rc *runContext) error {
			return p.clean(ctx, ot, step, rc)
		}},
		{StepAnalyze, func(ctx context.Context, step *StepState, rc *runContext) error {
			return p.analyze(ctx, ot, step, rc)
		}},
	}

	for _, s := range steps {
		if err := p.runStep(ctx, ot, state, logger, s.id, func(ctx context.Context, step *StepState) error {
			return s.fn(ctx, step, rc)
		}); err != nil {
			if GetErrorType(err) == ErrorTypeCancellation {
				state.Cancel(err)
			} else {
				state.Fail(err)
			}
			state.SkipPending("previous step failed")
			ot.RecordRunCompletion(ctx, span, state.GetStatus())
			logger.ErrorContext(ctx, "Run failed",
				slog.String("step", s.id),
				slog.String("error", err.Error()),
				slog.Duration("duration", state.Duration()))
			return nil, err
		}
	}

	result := &Result{RunID: runID, State: state, Analysis: rc.analysis}

	// Rendering never fails the run
	renderErr := p.runStep(ctx, ot, state, logger, StepReport, func(ctx context.Context, step *StepState) error {
		artifacts, err := p.report(ctx, ot, step, rc)
		result.Artifacts = artifacts
		return err
	})
	if renderErr != nil {
		result.RenderErr = renderErr
	}

	state.Complete()
	ot.RecordRunCompletion(ctx, span, state.GetStatus())
	logger.InfoContext(ctx, "Run completed",
		slog.Int("artifacts", len(result.Artifacts)),
		slog.Bool("render_failed", renderErr != nil),
		slog.Duration("duration", state.Duration()))

	return result, nil
}

// runStep executes fn as step id with its span, state and metrics
func (p *Pipeline) runStep(ctx context.Context, ot *OperationTracer, state *OperationState, logger *slog.Logger, id string, fn func(context.Context, *StepState) error) error {
	step := state.GetStep(id)

	if err := ctx.Err(); err != nil {
		opErr := NewCancellationError(id, err)
		step.Fail(opErr)
		return opErr
	}

	ctx, span := ot.TraceStep(ctx, state.ID, id)
	defer span.End()

	step.Start()
	logger.DebugContext(ctx, "Step started", slog.String("step", id))

	err := fn(ctx, step)
	if err == nil && step.GetStatus() == StepStatusActive {
		step.Complete()
	}
	ot.RecordStepCompletion(ctx, span, id, step.Duration(), err)

	if err != nil {
		opErr := WrapError(err, id, "step failed")
		step.Fail(opErr)
		logger.ErrorContext(ctx, "Step failed",
			slog.String("step", id),
			slog.String("error", err.Error()),
			slog.Duration("duration", step.Duration()))
		return opErr
	}

	logger.InfoContext(ctx, "Step completed",
		slog.String("step", id),
		slog.String("status", string(step.GetStatus())),
		slog.Duration("duration", step.Duration()))
	return nil
}

func (p *Pipeline) load(ctx context.Context, ot *OperationTracer, step *StepState, rc *runContext, inputPath string) error {
	validator := validation.NewFileValidator(infrastructure.WithComponent(p.logger, "validator"))
	if err := validator.ValidateInputFile(inputPath); err != nil {
		return err
	}

	loader := dataprocessing.NewLoader(dataprocessing.LoaderOptionsFromConfig(p.cfg.Input), p.logger)
	raw, err := loader.Load(ctx, inputPath)
	if err != nil {
		return err
	}

	rc.raw = raw
	step.SetMetadata("rows", raw.Len())
	ot.Add(ctx, rowsLoaded, raw.Len())
	return nil
}

func (p *Pipeline) clean(ctx context.Context, ot *OperationTracer, step *StepState, rc *runContext) error {
	cleaner := dataprocessing.NewCleaner(dataprocessing.CleanerOptionsFromConfig(p.cfg), p.logger)
	table, err := cleaner.Clean(ctx, rc.raw)
	if err != nil {
		return err
	}

	rc.table = table
	step.SetMetadata("rows", table.Len())
	step.SetMetadata("duplicates_removed", table.DuplicatesRemoved)
	if table.DuplicatesRemoved > 0 {
		infrastructure.AddSpanEvent(ctx, "duplicates.removed", map[string]interface{}{
			"count": table.DuplicatesRemoved,
		})
	}
	ot.Add(ctx, duplicatesRemoved, table.DuplicatesRemoved)
	return nil
}

func (p *Pipeline) analyze(ctx context.Context, ot *OperationTracer, step *StepState, rc *runContext) error {
	rc.analysis = analytics.Analyze(ctx, rc.table, analytics.Options{
		TopN:           p.cfg.Report.TopN,
		CurrencySymbol: p.cfg.Report.CurrencySymbol,
	}, p.logger)

	step.SetMetadata("records", rc.analysis.KPIs.RecordCount)
	step.SetMetadata("total_sales", rc.analysis.KPIs.TotalSales.StringFixed(2))
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"analysis.records":      rc.analysis.KPIs.RecordCount,
		"analysis.transactions": rc.analysis.KPIs.TotalTransactions,
	})
	ot.Add(ctx, transactionsSeen, rc.analysis.KPIs.RecordCount)
	return nil
}

func (p *Pipeline) report(ctx context.Context, ot *OperationTracer, step *StepState, rc *runContext) ([]reporter.Artifact, error) {
	opts := reporter.OptionsFromConfig(p.cfg)
	if !opts.Enabled() {
		step.Skip("no report artefacts enabled")
		return nil, nil
	}

	artifacts, err := reporter.New(opts, p.logger).Render(ctx, rc.analysis)
	for _, a := range artifacts {
		ot.Add(ctx, artifactsWritten, 1, attribute.String("kind", a.Kind))
	}
	step.SetMetadata("artifacts", len(artifacts))

	if err != nil {
		failures := 1
		if merr, ok := err.(*multierror.Error); ok {
			failures = len(merr.Errors)
		}
		ot.Add(ctx, renderFailures, failures)
	}
	return artifacts, err
}

// Counter selectors for OperationTracer.Add
func rowsLoaded(m *infrastructure.PipelineMetrics) metric.Int64Counter {
	return m.RowsLoaded
}

func duplicatesRemoved(m *infrastructure.PipelineMetrics) metric.Int64Counter {
	return m.DuplicatesRemoved
}

func transactionsSeen(m *infrastructure.PipelineMetrics) metric.Int64Counter {
	return m.TransactionsSeen
}

func artifactsWritten(m *infrastructure.PipelineMetrics) metric.Int64Counter {
	return m.ArtifactsWritten
}

func renderFailures(m *infrastructure.PipelineMetrics) metric.Int64Counter {
	return m.RenderFailures
}
