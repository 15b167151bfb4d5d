package exporter

import (
	"salescli/pkg/contracts/domain"
)

// AggregateHeaders is the header row of the aggregates file
var AggregateHeaders = []string{"section", "dimension", "label", "value"}

// Section names for non-series rows
const (
	SectionKPI          = "KPIs"
	SectionCorrelation  = "Correlation"
	SectionDistribution = "Order Value Distribution"
)

// WriteAggregates writes the KPIs, every grouped series, the order value
// distribution and the upper triangle of the correlation matrix to filePath.
func WriteAggregates(filePath string, a domain.Analysis) error {
	return WriteCSV(filePath, WriteOptions{
		Headers:   AggregateHeaders,
		Records:   AggregateRecords(a),
		BOMPrefix: true,
	})
}

// AggregateRecords flattens a into rows matching AggregateHeaders. An
// undefined average or correlation has an empty value.
func AggregateRecords(a domain.Analysis) [][]string {
	k := a.KPIs
	avg := ""
	if k.HasAvgOrderValue {
		avg = formatMoney(k.AvgOrderValue)
	}
	records := [][]string{
		{SectionKPI, "total", "Total Sales", formatMoney(k.TotalSales)},
		{SectionKPI, "total", "Total Transactions", formatInt(int64(k.TotalTransactions))},
		{SectionKPI, "total", "Average Order Value", avg},
		{SectionKPI, "total", "Total Quantity Sold", formatInt(k.TotalQtySold)},
	}

	for _, s := range []domain.Series{a.Monthly, a.Daily, a.Store, a.Category, a.Hourly, a.TopProductTypes} {
		for _, p := range s.Points {
			records = append(records, []string{s.Title, s.Dimension, p.Label, formatMoney(p.Value)})
		}
	}

	if d := a.Distribution; d.Count > 0 {
		records = append(records,
			[]string{SectionDistribution, "sales", "min", formatMoney(d.Min)},
			[]string{SectionDistribution, "sales", "p50", formatMoney(d.P50)},
			[]string{SectionDistribution, "sales", "p90", formatMoney(d.P90)},
			[]string{SectionDistribution, "sales", "p99", formatMoney(d.P99)},
			[]string{SectionDistribution, "sales", "max", formatMoney(d.Max)},
		)
	}

	m := a.Correlation
	for i := range m.Columns {
		for j := i + 1; j < len(m.Columns); j++ {
			records = append(records, []string{
				SectionCorrelation, "pair",
				m.Columns[i] + " / " + m.Columns[j],
				formatRatio(m.Values[i][j]),
			})
		}
	}
	return records
}
