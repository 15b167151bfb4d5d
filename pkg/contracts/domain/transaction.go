package domain

import (
	"strconv"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// RawTransaction is a loaded row before cleaning. Numeric columns are typed
// according to TransactionSchema; date and time are still the source text.
type RawTransaction struct {
	Row             int             `json:"row"` // 1-based record number in the source, header is row 1
	TransactionID   int64           `json:"transaction_id"`
	TransactionDate string          `json:"transaction_date"`
	TransactionTime string          `json:"transaction_time"`
	Quantity        int64           `json:"transaction_qty"`
	StoreID         int64           `json:"store_id"`
	StoreLocation   string          `json:"store_location"`
	ProductID       int64           `json:"product_id"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ProductCategory string          `json:"product_category"`
	ProductType     string          `json:"product_type"`
	ProductDetail   string          `json:"product_detail"`
}

// RawTable is the loader output.
type RawTable struct {
	Source  string
	Records []RawTransaction
	// Missing counts empty cells per column name. Informational only.
	Missing map[string]int
}

// Len returns the number of loaded rows
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Transaction is a cleaned record with derived calendar and sales fields.
type Transaction struct {
	TransactionID   int64           `json:"transaction_id"`
	TransactionDate civil.Date      `json:"transaction_date"`
	TransactionTime civil.Time      `json:"transaction_time"`
	Quantity        int64           `json:"transaction_qty"`
	StoreID         int64           `json:"store_id"`
	StoreLocation   string          `json:"store_location"`
	ProductID       int64           `json:"product_id"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	ProductCategory string          `json:"product_category"`
	ProductType     string          `json:"product_type"`
	ProductDetail   string          `json:"product_detail"`

	// Derived fields
	Month   string          `json:"Month"`
	Day     int             `json:"Day"`
	Weekday string          `json:"Weekday"`
	Hour    int             `json:"Hour"`
	Sales   decimal.Decimal `json:"Sales"`
}

// Key returns a string that is equal for two transactions exactly when every
// field, derived ones included, is equal.
func (t Transaction) Key() string {
	return t.TransactionDate.String() + "\x1f" +
		t.TransactionTime.String() + "\x1f" +
		itoa(t.TransactionID) + "\x1f" +
		itoa(t.Quantity) + "\x1f" +
		itoa(t.StoreID) + "\x1f" +
		strconv.Quote(t.StoreLocation) + "\x1f" +
		itoa(t.ProductID) + "\x1f" +
		t.UnitPrice.String() + "\x1f" +
		strconv.Quote(t.ProductCategory) + "\x1f" +
		strconv.Quote(t.ProductType) + "\x1f" +
		strconv.Quote(t.ProductDetail) + "\x1f" +
		t.Month + "\x1f" +
		itoa(int64(t.Day)) + "\x1f" +
		t.Weekday + "\x1f" +
		itoa(int64(t.Hour)) + "\x1f" +
		t.Sales.String()
}

// Table is the cleaned, read-only transaction set handed to aggregation and
// reporting.
type Table struct {
	Source       string
	Transactions []Transaction
	Missing      map[string]int
	// DuplicatesRemoved is how many exact duplicate rows cleaning dropped.
	DuplicatesRemoved int
}

// Len returns the number of records
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Transactions)
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
