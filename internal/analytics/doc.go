// Package analytics computes sales KPIs and grouped aggregations over a
// cleaned transaction table.
//
// Every function is read-only over its *domain.Table argument. Grouped sums
// partition the total: the points of MonthlySales, DailySales, StoreSales,
// CategorySales and HourlySales each add up to TotalSales.
//
// Empty tables are valid input. Sums and counts are zero, AvgOrderValue
// reports ok == false and correlation entries are NaN.
package analytics
