// Package operations runs a sales report: load, clean, analyze and report,
// in that order.
//
// Each stage is a Step with its own StepState, span and duration metric.
// A failure in load, clean or analyze ends the run with an OperationError
// wrapping the stage's cause and nothing is rendered. A failure in the
// report stage is recorded on the Result and does not affect the computed
// numbers.
//
// Example usage:
//
//	pipeline := operations.NewPipeline(cfg,
//		operations.WithLogger(logger),
//		operations.WithTracer(providers.Tracer),
//		operations.WithMetrics(metrics))
//
//	result, err := pipeline.Run(ctx, cfg.Input.File)
//	if err != nil {
//		return err
//	}
//	reporter.WriteKPIs(os.Stdout, result.Analysis.KPIs, cfg.Report.CurrencySymbol)
package operations
