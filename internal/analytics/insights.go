package analytics

import (
	"fmt"
	"math"
	"strconv"

	"salescli/internal/shared/format"
	"salescli/pkg/contracts/domain"
)

// Insights turns an analysis into short plain-language findings. Findings
// whose source series is empty are left out.
func Insights(a domain.Analysis, currencySymbol string) []string {
	if a.KPIs.RecordCount == 0 {
		return []string{"No transactions to analyse."}
	}

	money := func(p domain.Point) string { return format.Money(currencySymbol, p.Value) }
	var out []string

	out = append(out, fmt.Sprintf("%s transactions across %s records generated %s in sales.",
		format.Int(int64(a.KPIs.TotalTransactions)),
		format.Int(int64(a.KPIs.RecordCount)),
		format.Money(currencySymbol, a.KPIs.TotalSales)))

	if p, ok := a.Monthly.Top(); ok {
		out = append(out, fmt.Sprintf("%s was the strongest month with %s.", p.Label, money(p)))
	}
	if p, ok := maxPoint(a.Daily); ok {
		out = append(out, fmt.Sprintf("%s is the busiest day of the week with %s.", p.Label, money(p)))
	}
	if p, ok := a.Store.Top(); ok {
		out = append(out, fmt.Sprintf("%s leads store sales with %s (%s of total).", p.Label, money(p), share(p, a.Store)))
	}
	if p, ok := a.Category.Top(); ok {
		out = append(out, fmt.Sprintf("%s is the top category with %s (%s of total).", p.Label, money(p), share(p, a.Category)))
	}
	if p, ok := maxPoint(a.Hourly); ok {
		hour, _ := strconv.Atoi(p.Label)
		out = append(out, fmt.Sprintf("Sales peak at %s with %s.", format.Hour(hour), money(p)))
	}
	if p, ok := a.TopProductTypes.Top(); ok {
		out = append(out, fmt.Sprintf("%s is the best selling product type with %s.", p.Label, money(p)))
	}
	if col, r, ok := strongestCorrelation(a.Correlation, domain.ColSales); ok {
		out = append(out, fmt.Sprintf("Sales correlates most strongly with %s (r = %s).", col, format.Float(r, 2)))
	}

	return out
}

// maxPoint finds the largest point of an unsorted series; ties keep the
// earlier point
func maxPoint(s domain.Series) (domain.Point, bool) {
	best, ok := s.Top()
	for _, p := range s.Points {
		if p.Value.GreaterThan(best.Value) {
			best = p
		}
	}
	return best, ok
}

func share(p domain.Point, s domain.Series) string {
	total := s.Total()
	if total.IsZero() {
		return "0%"
	}
	pct := p.Value.Div(total).InexactFloat64() * 100
	return format.Float(pct, 1) + "%"
}

// strongestCorrelation finds the column with the largest absolute defined
// correlation to target, excluding target itself
func strongestCorrelation(m domain.CorrelationMatrix, target string) (string, float64, bool) {
	var (
		bestCol string
		bestR   float64
		found   bool
	)
	for _, col := range m.Columns {
		if col == target {
			continue
		}
		r, ok := m.At(target, col)
		if !ok || math.IsNaN(r) {
			continue
		}
		if !found || math.Abs(r) > math.Abs(bestR) {
			bestCol, bestR, found = col, r, true
		}
	}
	return bestCol, bestR, found
}
