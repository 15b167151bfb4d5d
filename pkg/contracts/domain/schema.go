package domain

import (
	"github.com/apache/arrow-go/v18/arrow"
)

// Source column names
const (
	ColTransactionID   = "transaction_id"
	ColTransactionDate = "transaction_date"
	ColTransactionTime = "transaction_time"
	ColQuantity        = "transaction_qty"
	ColStoreID         = "store_id"
	ColStoreLocation   = "store_location"
	ColProductID       = "product_id"
	ColUnitPrice       = "unit_price"
	ColProductCategory = "product_category"
	ColProductType     = "product_type"
	ColProductDetail   = "product_detail"
)

// Derived column names
const (
	ColMonth   = "Month"
	ColDay     = "Day"
	ColWeekday = "Weekday"
	ColHour    = "Hour"
	ColSales   = "Sales"
)

// TransactionSchema is the declared input schema. The loader checks the
// header against it and parses each column by its declared type.
var TransactionSchema = arrow.NewSchema([]arrow.Field{
	{Name: ColTransactionID, Type: arrow.PrimitiveTypes.Int64},
	{Name: ColTransactionDate, Type: arrow.FixedWidthTypes.Date32},
	{Name: ColTransactionTime, Type: arrow.FixedWidthTypes.Time32s},
	{Name: ColQuantity, Type: arrow.PrimitiveTypes.Int64},
	{Name: ColStoreID, Type: arrow.PrimitiveTypes.Int64},
	{Name: ColStoreLocation, Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: ColProductID, Type: arrow.PrimitiveTypes.Int64},
	{Name: ColUnitPrice, Type: &arrow.Decimal128Type{Precision: 18, Scale: 2}},
	{Name: ColProductCategory, Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: ColProductType, Type: arrow.BinaryTypes.String, Nullable: true},
	{Name: ColProductDetail, Type: arrow.BinaryTypes.String, Nullable: true},
}, nil)

// DerivedSchema describes the columns the cleaner appends.
var DerivedSchema = arrow.NewSchema([]arrow.Field{
	{Name: ColMonth, Type: arrow.BinaryTypes.String},
	{Name: ColDay, Type: arrow.PrimitiveTypes.Int64},
	{Name: ColWeekday, Type: arrow.BinaryTypes.String},
	{Name: ColHour, Type: arrow.PrimitiveTypes.Int64},
	{Name: ColSales, Type: &arrow.Decimal128Type{Precision: 18, Scale: 2}},
}, nil)

// IsNumeric reports whether a declared column type takes part in numeric
// analysis (correlation, describe).
func IsNumeric(dt arrow.DataType) bool {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64,
		arrow.FLOAT32, arrow.FLOAT64, arrow.DECIMAL128, arrow.DECIMAL256:
		return true
	}
	return false
}

// NumericColumns lists every numeric column of the cleaned table in schema
// order: source columns first, then derived ones.
func NumericColumns() []string {
	var cols []string
	for _, s := range []*arrow.Schema{TransactionSchema, DerivedSchema} {
		for _, f := range s.Fields() {
			if IsNumeric(f.Type) {
				cols = append(cols, f.Name)
			}
		}
	}
	return cols
}

// NumericValue returns the value of a numeric column as float64. ok is false
// for unknown or non-numeric column names.
func (t Transaction) NumericValue(column string) (float64, bool) {
	switch column {
	case ColTransactionID:
		return float64(t.TransactionID), true
	case ColQuantity:
		return float64(t.Quantity), true
	case ColStoreID:
		return float64(t.StoreID), true
	case ColProductID:
		return float64(t.ProductID), true
	case ColUnitPrice:
		return t.UnitPrice.InexactFloat64(), true
	case ColDay:
		return float64(t.Day), true
	case ColHour:
		return float64(t.Hour), true
	case ColSales:
		return t.Sales.InexactFloat64(), true
	}
	return 0, false
}
