package dataprocessing

import (
	"context"
	"log/slog"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/config"
	"salescli/internal/errors"
	"salescli/internal/shared/testutil"
	"salescli/pkg/contracts/domain"
)

func loadExample(t *testing.T, rows []map[string]string) *domain.RawTable {
	t.Helper()
	path := writeInput(t, "sales.csv", testutil.SalesCSV(rows))
	raw, err := NewLoader(LoaderOptions{}, nil).Load(context.Background(), path)
	require.NoError(t, err)
	return raw
}

func TestCleaner_Clean_Example(t *testing.T) {
	raw := loadExample(t, testutil.ExampleRows())
	logger, handler := testutil.NewTestLogger(t)

	table, err := NewCleaner(CleanerOptions{}, logger).Clean(context.Background(), raw)
	require.NoError(t, err)

	require.Equal(t, 2, table.Len())
	assert.Equal(t, 1, table.DuplicatesRemoved)
	assert.Equal(t, int64(1), table.Transactions[0].TransactionID)
	assert.Equal(t, int64(2), table.Transactions[1].TransactionID)

	first := table.Transactions[0]
	assert.Equal(t, civil.Date{Year: 2023, Month: 1, Day: 1}, first.TransactionDate)
	assert.Equal(t, civil.Time{Hour: 7, Minute: 6, Second: 11}, first.TransactionTime)
	assert.Equal(t, "January", first.Month)
	assert.Equal(t, 1, first.Day)
	assert.Equal(t, "Sunday", first.Weekday)
	assert.Equal(t, 7, first.Hour)
	assert.True(t, decimal.RequireFromString("6.00").Equal(first.Sales))
	assert.True(t, decimal.RequireFromString("5.00").Equal(table.Transactions[1].Sales))

	assert.True(t, handler.ContainsAttr("duplicates_removed", int64(1)))

	// The raw table is untouched
	assert.Equal(t, 3, raw.Len())
}

func TestCleaner_Clean_SalesExact(t *testing.T) {
	rows := []map[string]string{
		testutil.Row(map[string]string{domain.ColUnitPrice: "0.10", domain.ColQuantity: "3"}),
		testutil.Row(map[string]string{domain.ColTransactionID: "2", domain.ColUnitPrice: "19.99", domain.ColQuantity: "7"}),
		testutil.Row(map[string]string{domain.ColTransactionID: "3", domain.ColUnitPrice: "0", domain.ColQuantity: "4"}),
	}
	table, err := NewCleaner(CleanerOptions{}, nil).Clean(context.Background(), loadExample(t, rows))
	require.NoError(t, err)

	want := []string{"0.3", "139.93", "0"}
	for i, tx := range table.Transactions {
		assert.Equal(t, want[i], tx.Sales.String())
		assert.True(t, tx.UnitPrice.Mul(decimal.NewFromInt(tx.Quantity)).Equal(tx.Sales))
	}
}

func TestCleaner_Clean_DateLayouts(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		layouts []string
		want    civil.Date
		wantErr bool
	}{
		{name: "iso", date: "2023-06-30", want: civil.Date{Year: 2023, Month: 6, Day: 30}},
		{name: "us short", date: "6/3/2023", want: civil.Date{Year: 2023, Month: 6, Day: 3}},
		{name: "us padded", date: "06/03/2023", want: civil.Date{Year: 2023, Month: 6, Day: 3}},
		{name: "slashed iso", date: "2023/06/03", want: civil.Date{Year: 2023, Month: 6, Day: 3}},
		{name: "custom layout", date: "03.06.2023", layouts: []string{"02.01.2006"}, want: civil.Date{Year: 2023, Month: 6, Day: 3}},
		{name: "garbage", date: "yesterday", wantErr: true},
		{name: "empty", date: "", wantErr: true},
		{name: "impossible day", date: "2023-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := loadExample(t, []map[string]string{
				testutil.Row(map[string]string{domain.ColTransactionDate: tt.date}),
			})

			table, err := NewCleaner(CleanerOptions{DateLayouts: tt.layouts}, nil).Clean(context.Background(), raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrTypeParse))
				assert.Contains(t, err.Error(), "row 2 column transaction_date")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, table.Transactions[0].TransactionDate)
		})
	}
}

func TestCleaner_Clean_TimeErrors(t *testing.T) {
	for _, value := range []string{"7am", "25:00:00", "07:06", "", "07:06:11.5", "7:06:11", "07:6:11"} {
		t.Run(value, func(t *testing.T) {
			raw := loadExample(t, []map[string]string{
				testutil.Row(nil),
				testutil.Row(map[string]string{domain.ColTransactionTime: value}),
			})

			table, err := NewCleaner(CleanerOptions{}, nil).Clean(context.Background(), raw)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.True(t, errors.IsType(err, errors.ErrTypeParse))
			assert.Contains(t, err.Error(), "row 3 column transaction_time")
		})
	}
}

func TestCleaner_Clean_LegacyHour(t *testing.T) {
	raw := loadExample(t, testutil.ExampleRows())

	table, err := NewCleaner(CleanerOptions{LegacyHourFromDate: true}, nil).Clean(context.Background(), raw)
	require.NoError(t, err)
	for _, tx := range table.Transactions {
		assert.Equal(t, 0, tx.Hour)
	}
}

func TestCleaner_Clean_Empty(t *testing.T) {
	table, err := NewCleaner(CleanerOptions{}, nil).Clean(context.Background(), loadExample(t, nil))
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
	assert.Equal(t, 0, table.DuplicatesRemoved)

	table, err = NewCleaner(CleanerOptions{}, nil).Clean(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, table.Len())
}

func TestCleaner_Clean_KeepsMissingCounts(t *testing.T) {
	rows := testutil.ExampleRows()
	rows[1][domain.ColStoreLocation] = ""
	raw := loadExample(t, rows)
	logger, handler := testutil.NewTestLogger(t)

	table, err := NewCleaner(CleanerOptions{}, logger).Clean(context.Background(), raw)
	require.NoError(t, err)

	// Empty text is not imputed or dropped
	require.Equal(t, 2, table.Len())
	assert.Equal(t, "", table.Transactions[1].StoreLocation)
	assert.Equal(t, 1, table.Missing[domain.ColStoreLocation])
	testutil.AssertLogContains(t, handler, slog.LevelWarn, "empty cells")
}

func TestDeduplicate_Idempotent(t *testing.T) {
	rows := append(testutil.ExampleRows(), testutil.ExampleRows()...)
	table, err := NewCleaner(CleanerOptions{}, nil).Clean(context.Background(), loadExample(t, rows))
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assert.Equal(t, 4, table.DuplicatesRemoved)

	again := Deduplicate(table)
	assert.Equal(t, table.Transactions, again.Transactions)
	assert.Equal(t, table.DuplicatesRemoved, again.DuplicatesRemoved)
}

func TestDeduplicate_NearDuplicatesSurvive(t *testing.T) {
	rows := []map[string]string{
		testutil.Row(nil),
		testutil.Row(map[string]string{domain.ColProductDetail: "Ethiopia Lg"}),
		testutil.Row(map[string]string{domain.ColUnitPrice: "3"}),
	}
	table, err := NewCleaner(CleanerOptions{}, nil).Clean(context.Background(), loadExample(t, rows))
	require.NoError(t, err)

	// "3" and "3.00" are the same price
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "Ethiopia Lg", table.Transactions[1].ProductDetail)
}

func TestDeduplicate_SeparatorInText(t *testing.T) {
	base := domain.Transaction{TransactionID: 1, Quantity: 1, UnitPrice: decimal.RequireFromString("3")}
	a, b := base, base
	a.ProductType, a.ProductDetail = "x\x1fy", "z"
	b.ProductType, b.ProductDetail = "x", "y\x1fz"

	table := Deduplicate(&domain.Table{Transactions: []domain.Transaction{a, b}})
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 0, table.DuplicatesRemoved)
	assert.NotEqual(t, a.Key(), b.Key())
}

func TestCleanerOptionsFromConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Report.LegacyHourFromDate = true

	opts := CleanerOptionsFromConfig(cfg)
	assert.Equal(t, config.DefaultDateLayouts, opts.DateLayouts)
	assert.True(t, opts.LegacyHourFromDate)
}
