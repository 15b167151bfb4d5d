package exporter

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/pkg/contracts/domain"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), string(utf8BOM)), "missing BOM")

	records, err := csv.NewReader(strings.NewReader(string(data[len(utf8BOM):]))).ReadAll()
	require.NoError(t, err)
	return records
}

func sampleAnalysis() domain.Analysis {
	return domain.Analysis{
		KPIs: domain.KPIs{
			TotalSales:        decimal.RequireFromString("11"),
			TotalTransactions: 2,
			AvgOrderValue:     decimal.RequireFromString("5.5"),
			HasAvgOrderValue:  true,
			TotalQtySold:      3,
		},
		Monthly: domain.Series{Title: "Monthly Sales", Dimension: domain.ColMonth, Points: []domain.Point{
			{Label: "January", Value: decimal.RequireFromString("11")},
		}},
		Store: domain.Series{Title: "Sales by Store Location", Dimension: domain.ColStoreLocation, Points: []domain.Point{
			{Label: "Lower Manhattan", Value: decimal.RequireFromString("6")},
			{Label: "Hell's Kitchen", Value: decimal.RequireFromString("5")},
		}},
		Correlation: domain.CorrelationMatrix{
			Columns: []string{"a", "b", "c"},
			Values: [][]float64{
				{1, 0.5, math.NaN()},
				{0.5, 1, -0.25},
				{math.NaN(), -0.25, 1},
			},
		},
	}
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.csv")
	err := WriteCSV(path, WriteOptions{
		Headers:   []string{"name", "value"},
		Records:   [][]string{{"x", "1"}, {"y, z", "2"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	assert.Equal(t, [][]string{{"name", "value"}, {"x", "1"}, {"y, z", "2"}}, readCSV(t, path))
}

func TestWriteCSV_NoBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteCSV(path, WriteOptions{Headers: []string{"a"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n", string(data))
}

func TestCreateStreamWriter_Unwritable(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := CreateStreamWriter(filepath.Join(blocker, "out.csv"), nil, false)
	assert.Error(t, err)
}

func TestAggregateRecords(t *testing.T) {
	records := AggregateRecords(sampleAnalysis())

	assert.Equal(t, [][]string{
		{SectionKPI, "total", "Total Sales", "11.00"},
		{SectionKPI, "total", "Total Transactions", "2"},
		{SectionKPI, "total", "Average Order Value", "5.50"},
		{SectionKPI, "total", "Total Quantity Sold", "3"},
		{"Monthly Sales", domain.ColMonth, "January", "11.00"},
		{"Sales by Store Location", domain.ColStoreLocation, "Lower Manhattan", "6.00"},
		{"Sales by Store Location", domain.ColStoreLocation, "Hell's Kitchen", "5.00"},
		{SectionCorrelation, "pair", "a / b", "0.5000"},
		{SectionCorrelation, "pair", "a / c", ""},
		{SectionCorrelation, "pair", "b / c", "-0.2500"},
	}, records)
}

func TestAggregateRecords_Empty(t *testing.T) {
	records := AggregateRecords(domain.Analysis{})

	require.Len(t, records, 4)
	assert.Equal(t, "0.00", records[0][3])
	assert.Equal(t, "", records[2][3], "undefined average")
}

func TestWriteAggregates(t *testing.T) {
	a := sampleAnalysis()
	a.Distribution = domain.Distribution{
		Count: 3,
		Min:   decimal.RequireFromString("5"),
		P50:   decimal.RequireFromString("6"),
		P90:   decimal.RequireFromString("6"),
		P99:   decimal.RequireFromString("6"),
		Max:   decimal.RequireFromString("6"),
	}
	path := filepath.Join(t.TempDir(), "sales_aggregates.csv")
	require.NoError(t, WriteAggregates(path, a))

	records := readCSV(t, path)
	require.NotEmpty(t, records)
	assert.Equal(t, AggregateHeaders, records[0])
	assert.Len(t, records, 1+len(AggregateRecords(a)))
	assert.Contains(t, records, []string{SectionDistribution, "sales", "p50", "6.00"})
}
