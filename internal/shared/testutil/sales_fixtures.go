package testutil

import (
	"encoding/csv"
	"strings"

	"salescli/pkg/contracts/domain"
)

// Header returns the declared input columns in schema order
func Header() []string {
	fields := domain.TransactionSchema.Fields()
	header := make([]string, len(fields))
	for i, f := range fields {
		header[i] = f.Name
	}
	return header
}

// Row returns a valid input row with the given cells replaced
func Row(overrides map[string]string) map[string]string {
	row := map[string]string{
		domain.ColTransactionID:   "1",
		domain.ColTransactionDate: "2023-01-01",
		domain.ColTransactionTime: "07:06:11",
		domain.ColQuantity:        "2",
		domain.ColStoreID:         "5",
		domain.ColStoreLocation:   "Lower Manhattan",
		domain.ColProductID:       "32",
		domain.ColUnitPrice:       "3.00",
		domain.ColProductCategory: "Coffee",
		domain.ColProductType:     "Gourmet brewed coffee",
		domain.ColProductDetail:   "Ethiopia Rg",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

// ExampleRows is the three row sample: (qty 2, price 3.00), (qty 1, price
// 5.00) and an exact copy of the first row.
func ExampleRows() []map[string]string {
	return []map[string]string{
		Row(nil),
		Row(map[string]string{
			domain.ColTransactionID:   "2",
			domain.ColTransactionTime: "07:08:56",
			domain.ColQuantity:        "1",
			domain.ColStoreID:         "8",
			domain.ColStoreLocation:   "Hell's Kitchen",
			domain.ColProductID:       "57",
			domain.ColUnitPrice:       "5.00",
			domain.ColProductCategory: "Tea",
			domain.ColProductType:     "Brewed Chai tea",
			domain.ColProductDetail:   "Spicy Eye Opener Chai Lg",
		}),
		Row(nil),
	}
}

// SalesCSV renders rows as CSV with the declared header
func SalesCSV(rows []map[string]string) string {
	var sb strings.Builder
	w := csv.NewWriter(&sb)
	header := Header()
	_ = w.Write(header)
	for _, row := range rows {
		record := make([]string, len(header))
		for i, col := range header {
			record[i] = row[col]
		}
		_ = w.Write(record)
	}
	w.Flush()
	return sb.String()
}
