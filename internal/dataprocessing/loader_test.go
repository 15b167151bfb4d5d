package dataprocessing

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"salescli/internal/config"
	"salescli/internal/errors"
	"salescli/internal/shared/testutil"
	"salescli/pkg/contracts/domain"
)

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoader_Load_CSV(t *testing.T) {
	path := writeInput(t, "sales.csv", testutil.SalesCSV(testutil.ExampleRows()))

	table, err := NewLoader(LoaderOptions{}, nil).Load(context.Background(), path)
	require.NoError(t, err)

	require.Equal(t, 3, table.Len())
	assert.Equal(t, path, table.Source)

	first := table.Records[0]
	assert.Equal(t, 2, first.Row)
	assert.Equal(t, int64(1), first.TransactionID)
	assert.Equal(t, "2023-01-01", first.TransactionDate)
	assert.Equal(t, "07:06:11", first.TransactionTime)
	assert.Equal(t, int64(2), first.Quantity)
	assert.Equal(t, int64(5), first.StoreID)
	assert.Equal(t, "Lower Manhattan", first.StoreLocation)
	assert.Equal(t, int64(32), first.ProductID)
	assert.True(t, decimal.RequireFromString("3.00").Equal(first.UnitPrice))
	assert.Equal(t, "Coffee", first.ProductCategory)
	assert.Equal(t, "Gourmet brewed coffee", first.ProductType)
	assert.Equal(t, "Ethiopia Rg", first.ProductDetail)

	for _, f := range domain.TransactionSchema.Fields() {
		assert.Zero(t, table.Missing[f.Name], f.Name)
	}
}

func TestLoader_Load_ColumnOrderAndBOM(t *testing.T) {
	content := "\uFEFFunit_price,product_detail,product_type,product_category,product_id,store_location,store_id,transaction_qty,transaction_time,transaction_date,transaction_id\n" +
		"4.50,Latte Rg,Latte,Coffee,61,Astoria,3,1,08:15:00,2023-02-14,9\n"
	path := writeInput(t, "reordered.csv", content)

	table, err := NewLoader(LoaderOptions{}, nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	rec := table.Records[0]
	assert.Equal(t, int64(9), rec.TransactionID)
	assert.Equal(t, "Astoria", rec.StoreLocation)
	assert.True(t, decimal.RequireFromString("4.5").Equal(rec.UnitPrice))
}

func TestLoader_Load_Delimiter(t *testing.T) {
	csv := strings.ReplaceAll(testutil.SalesCSV(testutil.ExampleRows()[:1]), ",", ";")
	path := writeInput(t, "sales.csv", csv)

	table, err := NewLoader(LoaderOptions{Delimiter: ';'}, nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.Len())
}

func TestLoader_Load_HeaderOnly(t *testing.T) {
	path := writeInput(t, "empty.csv", testutil.SalesCSV(nil))

	table, err := NewLoader(LoaderOptions{}, nil).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestLoader_Load_MissingText(t *testing.T) {
	rows := testutil.ExampleRows()[:2]
	rows[1][domain.ColProductDetail] = ""
	path := writeInput(t, "sales.csv", testutil.SalesCSV(rows))

	table, err := NewLoader(LoaderOptions{}, nil).Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 1, table.Missing[domain.ColProductDetail])
	assert.Equal(t, []ColumnCount{{Column: domain.ColProductDetail, Count: 1}}, MissingCounts(table.Missing))
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  *string
		wantType errors.ErrorType
		wantMsg  string
	}{
		{
			name:     "missing file",
			wantType: errors.ErrTypeLoad,
		},
		{
			name:     "empty file",
			content:  ptr(""),
			wantType: errors.ErrTypeSchema,
			wantMsg:  "empty",
		},
		{
			name:     "missing column",
			content:  ptr("transaction_id,transaction_date\n1,2023-01-01\n"),
			wantType: errors.ErrTypeSchema,
			wantMsg:  "missing columns",
		},
		{
			name:     "unexpected column",
			content:  ptr(strings.Replace(testutil.SalesCSV(nil), "product_detail", "product_detail,discount", 1)),
			wantType: errors.ErrTypeSchema,
			wantMsg:  "unexpected columns [discount]",
		},
		{
			name:     "duplicate column",
			content:  ptr(strings.Replace(testutil.SalesCSV(nil), "product_detail", "product_detail,store_id", 1)),
			wantType: errors.ErrTypeSchema,
			wantMsg:  "duplicate columns [store_id]",
		},
		{
			name: "bad quantity",
			content: ptr(testutil.SalesCSV([]map[string]string{
				testutil.Row(map[string]string{domain.ColQuantity: "two"}),
			})),
			wantType: errors.ErrTypeParse,
			wantMsg:  "row 2 column transaction_qty",
		},
		{
			name: "fractional id",
			content: ptr(testutil.SalesCSV([]map[string]string{
				testutil.Row(nil),
				testutil.Row(map[string]string{domain.ColTransactionID: "1.5"}),
			})),
			wantType: errors.ErrTypeParse,
			wantMsg:  "row 3 column transaction_id",
		},
		{
			name: "empty price",
			content: ptr(testutil.SalesCSV([]map[string]string{
				testutil.Row(map[string]string{domain.ColUnitPrice: ""}),
			})),
			wantType: errors.ErrTypeParse,
			wantMsg:  "column unit_price",
		},
		{
			name:     "ragged row",
			content:  ptr(testutil.SalesCSV(nil) + "1,2023-01-01\n"),
			wantType: errors.ErrTypeLoad,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "absent.csv")
			if tt.content != nil {
				path = writeInput(t, "input.csv", *tt.content)
			}

			table, err := NewLoader(LoaderOptions{}, nil).Load(context.Background(), path)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.Equal(t, tt.wantType, errors.TypeOf(err), err.Error())
			assert.Contains(t, err.Error(), path)
			if tt.wantMsg != "" {
				assert.Contains(t, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestLoader_Load_Workbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.xlsx")

	f := excelize.NewFile()
	header := make([]interface{}, 0, len(domain.TransactionSchema.Fields()))
	for _, field := range domain.TransactionSchema.Fields() {
		header = append(header, field.Name)
	}
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &header))

	// 2023-01-01 07:06:11 as Excel serials, the rest as native numbers
	row := []interface{}{1, 44927, 25571.0 / 86400, 2, 5, "Lower Manhattan", 32, 3.0, "Coffee", "Gourmet brewed coffee", "Ethiopia Rg"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &row))
	text := []interface{}{2, "2023-01-02", "10:00:00", 1, 8, "Hell's Kitchen", 40, 2.5, "Tea", "Brewed tea", "Earl Grey"}
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &text))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := NewLoader(LoaderOptions{}, nil).Load(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())

	first := table.Records[0]
	assert.Equal(t, "2023-01-01", first.TransactionDate)
	assert.Equal(t, "07:06:11", first.TransactionTime)
	assert.Equal(t, int64(2), first.Quantity)
	assert.True(t, decimal.NewFromInt(3).Equal(first.UnitPrice))

	second := table.Records[1]
	assert.Equal(t, "2023-01-02", second.TransactionDate)
	assert.Equal(t, "10:00:00", second.TransactionTime)
	assert.True(t, decimal.RequireFromString("2.5").Equal(second.UnitPrice))
}

func TestLoader_Load_WorkbookMissingSheet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sales.xlsx")
	f := excelize.NewFile()
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	_, err := NewLoader(LoaderOptions{Sheet: "Transactions"}, nil).Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrTypeLoad))
}

func TestWorkbookTime(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{raw: "0", want: "00:00:00"},
		{raw: "0.5", want: "12:00:00"},
		{raw: "44927.75", want: "18:00:00"},
		{raw: "0.99999999", want: "23:59:59"},
		{raw: "07:30:00", want: "07:30:00"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, workbookTime(tt.raw))
		})
	}
}

func TestLoaderOptionsFromConfig(t *testing.T) {
	opts := LoaderOptionsFromConfig(config.InputConfig{Delimiter: ";", Sheet: "Data"})
	assert.Equal(t, ';', opts.Delimiter)
	assert.Equal(t, "Data", opts.Sheet)
}

func ptr(s string) *string { return &s }
