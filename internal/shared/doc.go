// Package shared holds helpers used by more than one layer of the report
// tool.
//
// # Structure
//
//   - format: currency, integer and hour formatting for console, PDF and
//     summary output (golang.org/x/text/message grouping)
//   - testutil: sales CSV fixtures and a buffered slog handler for log
//     assertions
//
// It should NOT contain business logic; aggregation lives in
// internal/analytics and rendering in internal/reporter.
package shared
