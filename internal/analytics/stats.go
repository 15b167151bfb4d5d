package analytics

import (
	"math"

	"github.com/HdrHistogram/hdrhistogram-go"
	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"

	"salescli/pkg/contracts/domain"
)

// columnValues extracts one numeric column as float64
func columnValues(t *domain.Table, column string) stats.Float64Data {
	if t == nil {
		return nil
	}
	values := make(stats.Float64Data, 0, len(t.Transactions))
	for _, tx := range t.Transactions {
		if v, ok := tx.NumericValue(column); ok {
			values = append(values, v)
		}
	}
	return values
}

// CorrelationMatrix computes pairwise Pearson correlation over every numeric
// column. Rows and columns of a zero-variance column are NaN; every other
// column has exactly 1 on the diagonal. The matrix is symmetric.
func CorrelationMatrix(t *domain.Table) domain.CorrelationMatrix {
	columns := domain.NumericColumns()
	n := len(columns)

	data := make([]stats.Float64Data, n)
	defined := make([]bool, n)
	for i, col := range columns {
		data[i] = columnValues(t, col)
		if len(data[i]) < 2 {
			continue
		}
		variance, err := stats.PopulationVariance(data[i])
		defined[i] = err == nil && variance > 0
	}

	values := make([][]float64, n)
	for i := range values {
		values[i] = make([]float64, n)
		for j := range values[i] {
			values[i][j] = math.NaN()
		}
	}

	for i := 0; i < n; i++ {
		if !defined[i] {
			continue
		}
		values[i][i] = 1
		for j := i + 1; j < n; j++ {
			if !defined[j] {
				continue
			}
			r, err := stats.Correlation(data[i], data[j])
			if err != nil {
				continue
			}
			r = math.Max(-1, math.Min(1, r))
			values[i][j] = r
			values[j][i] = r
		}
	}

	return domain.CorrelationMatrix{Columns: columns, Values: values}
}

// Describe summarises every numeric column: count, mean, sample standard
// deviation, min, median and max. Statistics of an empty column are NaN.
func Describe(t *domain.Table) []domain.ColumnSummary {
	columns := domain.NumericColumns()
	summaries := make([]domain.ColumnSummary, 0, len(columns))
	for _, col := range columns {
		data := columnValues(t, col)
		summary := domain.ColumnSummary{
			Column: col,
			Count:  len(data),
			Mean:   math.NaN(),
			Std:    math.NaN(),
			Min:    math.NaN(),
			Median: math.NaN(),
			Max:    math.NaN(),
		}
		if len(data) > 0 {
			summary.Mean, _ = stats.Mean(data)
			summary.Min, _ = stats.Min(data)
			summary.Median, _ = stats.Median(data)
			summary.Max, _ = stats.Max(data)
		}
		if len(data) > 1 {
			summary.Std, _ = stats.StandardDeviationSample(data)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// OrderValueDistribution summarises per-record Sales. Percentiles come from
// an HDR histogram over cents with 3 significant digits; min and max are
// exact.
func OrderValueDistribution(t *domain.Table) domain.Distribution {
	if t.Len() == 0 {
		return domain.Distribution{}
	}

	hundred := decimal.NewFromInt(100)
	cents := make([]int64, len(t.Transactions))
	minV, maxV := t.Transactions[0].Sales, t.Transactions[0].Sales
	var highest int64 = 2
	for i, tx := range t.Transactions {
		c := tx.Sales.Mul(hundred).Round(0).IntPart()
		if c < 0 {
			c = 0
		}
		cents[i] = c
		if c > highest {
			highest = c
		}
		if tx.Sales.LessThan(minV) {
			minV = tx.Sales
		}
		if tx.Sales.GreaterThan(maxV) {
			maxV = tx.Sales
		}
	}

	hist := hdrhistogram.New(1, highest, 3)
	for _, c := range cents {
		// Within range by construction
		_ = hist.RecordValue(c)
	}

	fromCents := func(v int64) decimal.Decimal {
		d := decimal.New(v, -2)
		// Histogram buckets can overshoot the true extremes
		if d.GreaterThan(maxV) {
			return maxV
		}
		if d.LessThan(minV) {
			return minV
		}
		return d
	}

	return domain.Distribution{
		Count: hist.TotalCount(),
		Min:   minV,
		P50:   fromCents(hist.ValueAtQuantile(50)),
		P90:   fromCents(hist.ValueAtQuantile(90)),
		P99:   fromCents(hist.ValueAtQuantile(99)),
		Max:   maxV,
	}
}
