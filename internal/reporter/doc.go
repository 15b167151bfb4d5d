// Package reporter presents an analysis. It prints the KPI lines and
// renders the six charts ("Monthly Sales", "Sales by Day of Week",
// "Sales by Store Location", "Sales by Product Category", "Hourly Sales" and
// "Correlation Heatmap") into an Excel workbook and a PDF, and writes a plain
// text summary.
//
// Rendering never changes the numbers it is given. A failing artefact is
// reported as a RENDER error while the remaining artefacts are still
// written.
package reporter
