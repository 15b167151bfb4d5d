package exporter

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// formatMoney formats an amount with exactly 2 decimal places
func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// formatRatio formats a coefficient with 4 decimal places; NaN is empty
func formatRatio(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return fmt.Sprintf("%.4f", f)
}

// formatInt formats an int64 value for CSV output
func formatInt(i int64) string {
	return fmt.Sprintf("%d", i)
}
