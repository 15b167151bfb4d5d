package config

import "salescli/pkg/contracts"

// Application constants
const (
	AppName    = "salesreport"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. SALES_INPUT_FILE
	EnvPrefix = "SALES"

	DefaultInputFile = "data/coffee_shop_sales.csv"
	DefaultOutputDir = "reports"

	// Report artefact file names
	WorkbookFileName   = "sales_report.xlsx"
	PDFFileName        = "sales_report.pdf"
	SummaryFileName    = "sales_summary.txt"
	AggregatesFileName = "sales_aggregates.csv"
)

// DefaultDateLayouts are tried in order when parsing transaction_date
var DefaultDateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
}

// TimeLayout is the fixed HH:MM:SS pattern for transaction_time
const TimeLayout = "15:04:05"
