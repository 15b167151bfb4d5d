package analytics

import (
	"github.com/shopspring/decimal"

	"salescli/pkg/contracts/domain"
)

// TotalSales sums Sales over all records
func TotalSales(t *domain.Table) decimal.Decimal {
	total := decimal.Zero
	if t == nil {
		return total
	}
	for _, tx := range t.Transactions {
		total = total.Add(tx.Sales)
	}
	return total
}

// TotalTransactions counts distinct transaction ids
func TotalTransactions(t *domain.Table) int {
	if t == nil {
		return 0
	}
	ids := make(map[int64]struct{}, len(t.Transactions))
	for _, tx := range t.Transactions {
		ids[tx.TransactionID] = struct{}{}
	}
	return len(ids)
}

// AvgOrderValue is the mean of Sales over all records. ok is false for an
// empty table, where the mean is undefined.
func AvgOrderValue(t *domain.Table) (decimal.Decimal, bool) {
	n := t.Len()
	if n == 0 {
		return decimal.Zero, false
	}
	return TotalSales(t).Div(decimal.NewFromInt(int64(n))), true
}

// TotalQtySold sums transaction_qty
func TotalQtySold(t *domain.Table) int64 {
	if t == nil {
		return 0
	}
	var qty int64
	for _, tx := range t.Transactions {
		qty += tx.Quantity
	}
	return qty
}

// ComputeKPIs gathers the scalar indicators
func ComputeKPIs(t *domain.Table) domain.KPIs {
	avg, ok := AvgOrderValue(t)
	return domain.KPIs{
		TotalSales:        TotalSales(t),
		TotalTransactions: TotalTransactions(t),
		AvgOrderValue:     avg,
		HasAvgOrderValue:  ok,
		TotalQtySold:      TotalQtySold(t),
		RecordCount:       t.Len(),
	}
}
