package operations

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"salescli/internal/infrastructure"
	"salescli/internal/reporter"
	"salescli/pkg/contracts/domain"
)

// Result is the outcome of a run that got past aggregation
type Result struct {
	RunID     string
	State     *OperationState
	Analysis  domain.Analysis
	Artifacts []reporter.Artifact
	// RenderErr holds report stage failures. The Analysis is valid
	// regardless.
	RenderErr error
}

// PipelineOption configures a Pipeline
type PipelineOption func(*Pipeline)

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTracer sets the tracer for run and step spans
func WithTracer(tracer trace.Tracer) PipelineOption {
	return func(p *Pipeline) {
		p.tracer = tracer
	}
}

// WithMetrics sets the instruments runs are recorded on
func WithMetrics(metrics *infrastructure.PipelineMetrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = metrics
	}
}
