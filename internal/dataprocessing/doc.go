// Package dataprocessing turns a transaction file into a typed, de-duplicated
// table ready for aggregation.
//
// # Architecture
//
// The package has two components:
//
// 1. Loader: reads a delimited (.csv, .txt, .tsv) or Excel (.xlsx) file,
// checks the header against the declared schema and converts integer columns
// 2. Cleaner: parses dates and times, computes Sales and the derived
// calendar columns, then drops exact duplicate records
//
// # Usage
//
//	raw, err := dataprocessing.NewLoader(dataprocessing.LoaderOptionsFromConfig(cfg.Input), logger).Load(ctx, path)
//	if err != nil {
//	    return err
//	}
//	table, err := dataprocessing.NewCleaner(dataprocessing.CleanerOptionsFromConfig(cfg), logger).Clean(ctx, raw)
//
// # Data Flow
//
//	File → Loader → RawTable → Cleaner → Table → analytics
//
// # Error Handling
//
// Every failure is fatal for the run and carries file and row context:
//
//   - LOAD: the file is missing, unreadable or not a supported format
//   - SCHEMA: a declared column is absent from the header
//   - PARSE: a cell cannot be converted to its declared type
//
// Rows are numbered from 1 with the header as row 1, matching what a
// spreadsheet shows.
package dataprocessing
