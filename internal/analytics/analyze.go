package analytics

import (
	"context"
	"log/slog"

	"salescli/pkg/contracts/domain"
)

// Options controls Analyze
type Options struct {
	TopN           int
	CurrencySymbol string
}

// Analyze runs every aggregation over the table
func Analyze(ctx context.Context, t *domain.Table, opts Options, logger *slog.Logger) domain.Analysis {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.TopN <= 0 {
		opts.TopN = 10
	}

	missing := make(map[string]int)
	if t != nil {
		for k, v := range t.Missing {
			missing[k] = v
		}
	}

	a := domain.Analysis{
		KPIs:            ComputeKPIs(t),
		Monthly:         MonthlySales(t),
		Daily:           DailySales(t),
		Store:           StoreSales(t),
		Category:        CategorySales(t),
		Hourly:          HourlySales(t),
		TopProductTypes: TopProductTypes(t, opts.TopN),
		Correlation:     CorrelationMatrix(t),
		Describe:        Describe(t),
		Distribution:    OrderValueDistribution(t),
		Missing:         missing,
	}
	a.Insights = Insights(a, opts.CurrencySymbol)

	logger.InfoContext(ctx, "Aggregation complete",
		slog.String("component", "aggregator"),
		slog.Int("records", a.KPIs.RecordCount),
		slog.Int("transactions", a.KPIs.TotalTransactions),
		slog.String("total_sales", a.KPIs.TotalSales.StringFixed(2)),
		slog.Int("months", len(a.Monthly.Points)),
		slog.Int("stores", len(a.Store.Points)))

	return a
}
