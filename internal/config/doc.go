// Package config provides centralized configuration management for the sales
// report tool. It handles loading configuration from multiple sources,
// validation, and resolves where report artefacts are written.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command line flags (applied by cmd/salesreport, highest priority)
//	2. Environment variables, including those from a .env file
//	3. YAML configuration file
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern SALES_* for namespacing:
//
//	SALES_INPUT_FILE=data/coffee_shop_sales.csv
//	SALES_OUTPUT_DIR=reports
//	SALES_REPORT_CURRENCY_SYMBOL=$
//	SALES_LOGGING_LEVEL=debug
//	SALES_TELEMETRY_METRICS_FILE=reports/salesreport.prom
//
// SALES_CONFIG points at a YAML file; otherwise config.yaml and
// configs/config.yaml are tried.
//
// # Validation
//
// Load validates the result with go-playground/validator struct tags and
// returns a CONFIG AppError describing every failing field.
package config
