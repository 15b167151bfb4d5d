// Package exporter writes the aggregated report data as CSV.
//
// CSVWriter is the low level writer with optional UTF-8 BOM for Excel.
// StreamWriter writes one record at a time. WriteAggregates flattens an
// analysis into a single long-format file:
//
//	section,dimension,label,value
//	Monthly Sales,month,January,11.00
//	Correlation,pair,Unit Price / Sales,0.9820
//
// Example usage:
//
//	if err := exporter.WriteAggregates("reports/sales_aggregates.csv", analysis); err != nil {
//	    return err
//	}
package exporter
