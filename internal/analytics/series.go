package analytics

import (
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"salescli/pkg/contracts/domain"
)

// Chart titles
const (
	TitleMonthly         = "Monthly Sales"
	TitleDaily           = "Sales by Day of Week"
	TitleStore           = "Sales by Store Location"
	TitleCategory        = "Sales by Product Category"
	TitleHourly          = "Hourly Sales"
	TitleCorrelation     = "Correlation Heatmap"
	TitleTopProductTypes = "Top Product Types"
)

// groupSum sums Sales by key, keeping groups in first-encountered order
func groupSum(t *domain.Table, key func(domain.Transaction) string) []domain.Point {
	if t == nil {
		return nil
	}
	index := make(map[string]int)
	var points []domain.Point
	for _, tx := range t.Transactions {
		k := key(tx)
		i, ok := index[k]
		if !ok {
			i = len(points)
			index[k] = i
			points = append(points, domain.Point{Label: k, Value: decimal.Zero})
		}
		points[i].Value = points[i].Value.Add(tx.Sales)
	}
	return points
}

// sortDescending orders by value, ties keep first-encountered order
func sortDescending(points []domain.Point) {
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Value.GreaterThan(points[j].Value)
	})
}

// MonthlySales sums Sales by month name, largest first
func MonthlySales(t *domain.Table) domain.Series {
	points := groupSum(t, func(tx domain.Transaction) string { return tx.Month })
	sortDescending(points)
	return domain.Series{Title: TitleMonthly, Dimension: domain.ColMonth, Points: points}
}

// DailySales sums Sales by weekday name in the order weekdays first appear
func DailySales(t *domain.Table) domain.Series {
	points := groupSum(t, func(tx domain.Transaction) string { return tx.Weekday })
	return domain.Series{Title: TitleDaily, Dimension: domain.ColWeekday, Points: points}
}

// StoreSales sums Sales by store_location, largest first
func StoreSales(t *domain.Table) domain.Series {
	points := groupSum(t, func(tx domain.Transaction) string { return tx.StoreLocation })
	sortDescending(points)
	return domain.Series{Title: TitleStore, Dimension: domain.ColStoreLocation, Points: points}
}

// CategorySales sums Sales by product_category, largest first
func CategorySales(t *domain.Table) domain.Series {
	points := groupSum(t, func(tx domain.Transaction) string { return tx.ProductCategory })
	sortDescending(points)
	return domain.Series{Title: TitleCategory, Dimension: domain.ColProductCategory, Points: points}
}

// HourlySales sums Sales by hour of day, ascending by hour
func HourlySales(t *domain.Table) domain.Series {
	byHour := make(map[int]decimal.Decimal)
	if t != nil {
		for _, tx := range t.Transactions {
			byHour[tx.Hour] = byHour[tx.Hour].Add(tx.Sales)
		}
	}

	hours := make([]int, 0, len(byHour))
	for h := range byHour {
		hours = append(hours, h)
	}
	sort.Ints(hours)

	points := make([]domain.Point, len(hours))
	for i, h := range hours {
		points[i] = domain.Point{Label: strconv.Itoa(h), Value: byHour[h]}
	}
	return domain.Series{Title: TitleHourly, Dimension: domain.ColHour, Points: points}
}

// TopProductTypes returns the n product types with the highest sales
func TopProductTypes(t *domain.Table, n int) domain.Series {
	points := groupSum(t, func(tx domain.Transaction) string { return tx.ProductType })
	sortDescending(points)
	if n >= 0 && len(points) > n {
		points = points[:n]
	}
	return domain.Series{Title: TitleTopProductTypes, Dimension: domain.ColProductType, Points: points}
}
