package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// KPIs holds the scalar sales indicators.
type KPIs struct {
	TotalSales        decimal.Decimal `json:"total_sales"`
	TotalTransactions int             `json:"total_transactions"`
	// AvgOrderValue is only meaningful when HasAvgOrderValue is true. It is
	// undefined for an empty table.
	AvgOrderValue    decimal.Decimal `json:"avg_order_value"`
	HasAvgOrderValue bool            `json:"has_avg_order_value"`
	TotalQtySold     int64           `json:"total_qty_sold"`
	RecordCount      int             `json:"record_count"`
}

// Point is one group of a grouped aggregation.
type Point struct {
	Label string          `json:"label"`
	Value decimal.Decimal `json:"value"`
}

// Series is an ordered grouped sum.
type Series struct {
	Title     string  `json:"title"`
	Dimension string  `json:"dimension"`
	Points    []Point `json:"points"`
}

// Total sums every point of the series.
func (s Series) Total() decimal.Decimal {
	total := decimal.Zero
	for _, p := range s.Points {
		total = total.Add(p.Value)
	}
	return total
}

// Labels returns the group labels in series order
func (s Series) Labels() []string {
	labels := make([]string, len(s.Points))
	for i, p := range s.Points {
		labels[i] = p.Label
	}
	return labels
}

// Top returns the first point. ok is false for an empty series.
func (s Series) Top() (Point, bool) {
	if len(s.Points) == 0 {
		return Point{}, false
	}
	return s.Points[0], true
}

// CorrelationMatrix is a square Pearson correlation matrix. Entries are NaN
// where a correlation is undefined.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns the coefficient between two named columns.
func (m CorrelationMatrix) At(a, b string) (float64, bool) {
	i, j := m.index(a), m.index(b)
	if i < 0 || j < 0 {
		return math.NaN(), false
	}
	return m.Values[i][j], true
}

func (m CorrelationMatrix) index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// ColumnSummary is a describe-style summary of one numeric column.
type ColumnSummary struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Distribution summarises per-record sales values.
type Distribution struct {
	Count int64           `json:"count"`
	Min   decimal.Decimal `json:"min"`
	P50   decimal.Decimal `json:"p50"`
	P90   decimal.Decimal `json:"p90"`
	P99   decimal.Decimal `json:"p99"`
	Max   decimal.Decimal `json:"max"`
}

// Analysis bundles every aggregation the reporter consumes.
type Analysis struct {
	KPIs            KPIs              `json:"kpis"`
	Monthly         Series            `json:"monthly"`
	Daily           Series            `json:"daily"`
	Store           Series            `json:"store"`
	Category        Series            `json:"category"`
	Hourly          Series            `json:"hourly"`
	TopProductTypes Series            `json:"top_product_types"`
	Correlation     CorrelationMatrix `json:"correlation"`
	Describe        []ColumnSummary   `json:"describe"`
	Distribution    Distribution      `json:"distribution"`
	Missing         map[string]int    `json:"missing"`
	Insights        []string          `json:"insights"`
}
