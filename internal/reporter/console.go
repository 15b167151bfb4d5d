package reporter

import (
	"fmt"
	"io"

	"salescli/internal/shared/format"
	"salescli/pkg/contracts/domain"
)

// KPILines returns the four console lines for the scalar indicators
func KPILines(kpis domain.KPIs, currencySymbol string) []string {
	avg := "n/a"
	if kpis.HasAvgOrderValue {
		avg = format.Money(currencySymbol, kpis.AvgOrderValue)
	}
	return []string{
		"Total Sales: " + format.Money(currencySymbol, kpis.TotalSales),
		"Total Transactions: " + format.Int(int64(kpis.TotalTransactions)),
		"Average Order Value: " + avg,
		"Total Quantity Sold: " + format.Int(kpis.TotalQtySold),
	}
}

// WriteKPIs prints the KPI lines to w
func WriteKPIs(w io.Writer, kpis domain.KPIs, currencySymbol string) error {
	for _, line := range KPILines(kpis, currencySymbol) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
