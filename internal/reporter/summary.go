package reporter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"salescli/internal/shared/format"
	"salescli/pkg/contracts/domain"
)

// WriteSummary writes the plain text summary to path
func WriteSummary(path string, a domain.Analysis, currencySymbol string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	if err := FormatSummary(w, a, currencySymbol); err != nil {
		file.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// EmptyNumericNote follows the empty-cell counts. A numeric cell that is
// empty fails loading, so a rendered report always shows 0 for those columns.
const EmptyNumericNote = "Numeric columns cannot be empty: an empty quantity, price or id fails loading."

// FormatSummary writes KPIs, empty-cell counts, column statistics, the order
// value distribution, grouped sales and insights as text.
func FormatSummary(w io.Writer, a domain.Analysis, currencySymbol string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	section := func(title string) {
		fmt.Fprintf(tw, "\n%s\n%s\n", title, strings.Repeat("=", len(title)))
	}

	fmt.Fprintln(tw, "Sales Report")
	fmt.Fprintln(tw, strings.Repeat("=", len("Sales Report")))
	for _, line := range KPILines(a.KPIs, currencySymbol) {
		fmt.Fprintln(tw, line)
	}

	section("Empty Cells")
	for _, f := range domain.TransactionSchema.Fields() {
		fmt.Fprintf(tw, "%s\t%s\n", f.Name, format.Int(int64(a.Missing[f.Name])))
	}
	fmt.Fprintln(tw, EmptyNumericNote)

	if len(a.Describe) > 0 {
		section("Numeric Columns")
		fmt.Fprintln(tw, "column\tcount\tmean\tstd\tmin\tmedian\tmax")
		for _, d := range a.Describe {
			fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
				d.Column, d.Count,
				format.Float(d.Mean, 2), format.Float(d.Std, 2),
				format.Float(d.Min, 2), format.Float(d.Median, 2), format.Float(d.Max, 2))
		}
	}

	if dist := a.Distribution; dist.Count > 0 {
		section("Order Value Distribution")
		for _, row := range []struct {
			label string
			value string
		}{
			{"min", format.Money(currencySymbol, dist.Min)},
			{"p50", format.Money(currencySymbol, dist.P50)},
			{"p90", format.Money(currencySymbol, dist.P90)},
			{"p99", format.Money(currencySymbol, dist.P99)},
			{"max", format.Money(currencySymbol, dist.Max)},
		} {
			fmt.Fprintf(tw, "%s\t%s\n", row.label, row.value)
		}
	}

	for _, s := range []domain.Series{a.Monthly, a.Daily, a.Store, a.Category, a.Hourly, a.TopProductTypes} {
		if len(s.Points) == 0 {
			continue
		}
		section(s.Title)
		for _, p := range s.Points {
			fmt.Fprintf(tw, "%s\t%s\n", categoryText(s, p), format.Money(currencySymbol, p.Value))
		}
	}

	if len(a.Insights) > 0 {
		section("Insights")
		for _, line := range a.Insights {
			fmt.Fprintf(tw, "- %s\n", line)
		}
	}

	return tw.Flush()
}
