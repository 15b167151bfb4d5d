package reporter

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"salescli/internal/analytics"
	"salescli/internal/shared/format"
	"salescli/pkg/contracts/domain"
)

// Sheet names of the report workbook
const (
	SheetSummary     = "Summary"
	SheetMonthly     = "Monthly"
	SheetWeekday     = "Weekday"
	SheetStore       = "Store"
	SheetCategory    = "Category"
	SheetHourly      = "Hourly"
	SheetTopProducts = "Top Products"
	SheetCorrelation = "Correlation"
)

const (
	chartWidth  = 640
	chartHeight = 360
)

// Heatmap colours: negative, zero, positive
const (
	heatNegative = "#5A8AC6"
	heatNeutral  = "#FFFFFF"
	heatPositive = "#F8696B"
)

// seriesSheet ties a series to its sheet and chart type
type seriesSheet struct {
	sheet  string
	series domain.Series
	chart  excelize.ChartType
	header string
}

// WriteWorkbook renders the analysis into an xlsx workbook with one native
// chart per series and a colour-scaled correlation matrix.
func WriteWorkbook(path string, a domain.Analysis, currencySymbol string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return err
	}

	styles, err := newWorkbookStyles(f, currencySymbol)
	if err != nil {
		return err
	}

	if err := writeSummarySheet(f, styles, a); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetSummary, err)
	}

	sheets := []seriesSheet{
		{sheet: SheetMonthly, series: a.Monthly, chart: excelize.Col, header: "Month"},
		{sheet: SheetWeekday, series: a.Daily, chart: excelize.Col, header: "Weekday"},
		{sheet: SheetStore, series: a.Store, chart: excelize.Col, header: "Store Location"},
		{sheet: SheetCategory, series: a.Category, chart: excelize.Col, header: "Product Category"},
		{sheet: SheetHourly, series: a.Hourly, chart: excelize.Line, header: "Hour"},
		{sheet: SheetTopProducts, series: a.TopProductTypes, chart: excelize.Bar, header: "Product Type"},
	}
	for _, s := range sheets {
		if err := writeSeriesSheet(f, styles, s); err != nil {
			return fmt.Errorf("sheet %s: %w", s.sheet, err)
		}
	}

	if err := writeCorrelationSheet(f, styles, a.Correlation); err != nil {
		return fmt.Errorf("sheet %s: %w", SheetCorrelation, err)
	}

	f.SetActiveSheet(0)
	return f.SaveAs(path)
}

type workbookStyles struct {
	header int
	money  int
	ratio  int
	title  int
}

func newWorkbookStyles(f *excelize.File, currencySymbol string) (workbookStyles, error) {
	var (
		s   workbookStyles
		err error
	)
	s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return s, err
	}
	moneyFmt := fmt.Sprintf("\"%s\"#,##0.00", currencySymbol)
	s.money, err = f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return s, err
	}
	ratioFmt := "0.000"
	s.ratio, err = f.NewStyle(&excelize.Style{
		CustomNumFmt: &ratioFmt,
		Alignment:    &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return s, err
	}
	s.title, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	return s, err
}

func writeSummarySheet(f *excelize.File, st workbookStyles, a domain.Analysis) error {
	sheet := SheetSummary
	row := 1
	set := func(col int, v interface{}) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}
	style := func(fromCol, toCol, id int) error {
		from, _ := excelize.CoordinatesToCellName(fromCol, row)
		to, _ := excelize.CoordinatesToCellName(toCol, row)
		return f.SetCellStyle(sheet, from, to, id)
	}

	if err := set(1, "Sales Report"); err != nil {
		return err
	}
	if err := style(1, 1, st.title); err != nil {
		return err
	}
	row += 2

	avg := interface{}("n/a")
	if a.KPIs.HasAvgOrderValue {
		avg = a.KPIs.AvgOrderValue.InexactFloat64()
	}
	kpis := []struct {
		label string
		value interface{}
		money bool
	}{
		{"Total Sales", a.KPIs.TotalSales.InexactFloat64(), true},
		{"Total Transactions", a.KPIs.TotalTransactions, false},
		{"Average Order Value", avg, a.KPIs.HasAvgOrderValue},
		{"Total Quantity Sold", a.KPIs.TotalQtySold, false},
		{"Records", a.KPIs.RecordCount, false},
	}
	for _, k := range kpis {
		if err := set(1, k.label); err != nil {
			return err
		}
		if err := set(2, k.value); err != nil {
			return err
		}
		if k.money {
			if err := style(2, 2, st.money); err != nil {
				return err
			}
		}
		row++
	}
	row++

	if len(a.Insights) > 0 {
		if err := set(1, "Insights"); err != nil {
			return err
		}
		if err := style(1, 1, st.header); err != nil {
			return err
		}
		row++
		for _, line := range a.Insights {
			if err := set(1, line); err != nil {
				return err
			}
			row++
		}
		row++
	}

	if err := set(1, "Column"); err != nil {
		return err
	}
	if err := set(2, "Empty Cells"); err != nil {
		return err
	}
	if err := style(1, 2, st.header); err != nil {
		return err
	}
	row++
	for _, field := range domain.TransactionSchema.Fields() {
		if err := set(1, field.Name); err != nil {
			return err
		}
		if err := set(2, a.Missing[field.Name]); err != nil {
			return err
		}
		row++
	}
	row++

	headers := []string{"Column", "Count", "Mean", "Std", "Min", "Median", "Max"}
	for i, h := range headers {
		if err := set(i+1, h); err != nil {
			return err
		}
	}
	if err := style(1, len(headers), st.header); err != nil {
		return err
	}
	row++
	for _, d := range a.Describe {
		values := []interface{}{d.Column, d.Count, cellFloat(d.Mean), cellFloat(d.Std), cellFloat(d.Min), cellFloat(d.Median), cellFloat(d.Max)}
		for i, v := range values {
			if err := set(i+1, v); err != nil {
				return err
			}
		}
		row++
	}
	row++

	dist := a.Distribution
	if dist.Count > 0 {
		if err := set(1, "Order Value"); err != nil {
			return err
		}
		if err := set(2, "Amount"); err != nil {
			return err
		}
		if err := style(1, 2, st.header); err != nil {
			return err
		}
		row++
		for _, p := range []struct {
			label string
			value float64
		}{
			{"Min", dist.Min.InexactFloat64()},
			{"P50", dist.P50.InexactFloat64()},
			{"P90", dist.P90.InexactFloat64()},
			{"P99", dist.P99.InexactFloat64()},
			{"Max", dist.Max.InexactFloat64()},
		} {
			if err := set(1, p.label); err != nil {
				return err
			}
			if err := set(2, p.value); err != nil {
				return err
			}
			if err := style(2, 2, st.money); err != nil {
				return err
			}
			row++
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 28); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", "G", 16)
}

func writeSeriesSheet(f *excelize.File, st workbookStyles, s seriesSheet) error {
	if _, err := f.NewSheet(s.sheet); err != nil {
		return err
	}

	header := []interface{}{s.header, "Sales"}
	if err := f.SetSheetRow(s.sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(s.sheet, "A1", "B1", st.header); err != nil {
		return err
	}

	for i, p := range s.series.Points {
		row := []interface{}{p.Label, p.Value.InexactFloat64()}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.sheet, cell, &row); err != nil {
			return err
		}
	}

	n := len(s.series.Points)
	if n == 0 {
		return nil
	}
	last := n + 1
	if err := f.SetCellStyle(s.sheet, "B2", fmt.Sprintf("B%d", last), st.money); err != nil {
		return err
	}
	if err := f.SetColWidth(s.sheet, "A", "A", 26); err != nil {
		return err
	}
	if err := f.SetColWidth(s.sheet, "B", "B", 16); err != nil {
		return err
	}

	ref := quoteSheet(s.sheet)
	return f.AddChart(s.sheet, "D2", &excelize.Chart{
		Type: s.chart,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("%s!$B$1", ref),
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", ref, last),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", ref, last),
		}},
		Title:     []excelize.RichTextRun{{Text: s.series.Title}},
		Legend:    excelize.ChartLegend{Position: "none"},
		Dimension: excelize.ChartDimension{Width: chartWidth, Height: chartHeight},
		XAxis:     excelize.ChartAxis{Font: excelize.Font{Size: 9}},
	})
}

// writeCorrelationSheet writes the matrix and colours it on a fixed
// -1..1 scale. Undefined coefficients are written as "n/a".
func writeCorrelationSheet(f *excelize.File, st workbookStyles, m domain.CorrelationMatrix) error {
	sheet := SheetCorrelation
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A1", analytics.TitleCorrelation); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "A1", st.title); err != nil {
		return err
	}

	n := len(m.Columns)
	if n == 0 {
		return nil
	}

	// Matrix starts at row 3 with labels in row 3 and column A
	for i, name := range m.Columns {
		top, _ := excelize.CoordinatesToCellName(i+2, 3)
		left, _ := excelize.CoordinatesToCellName(1, i+4)
		if err := f.SetCellValue(sheet, top, name); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, left, name); err != nil {
			return err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, 3)
	lastHeader, _ := excelize.CoordinatesToCellName(n+1, 3)
	if err := f.SetCellStyle(sheet, first, lastHeader, st.header); err != nil {
		return err
	}
	lastLabel, _ := excelize.CoordinatesToCellName(1, n+3)
	if err := f.SetCellStyle(sheet, first, lastLabel, st.header); err != nil {
		return err
	}

	for i, row := range m.Values {
		for j, v := range row {
			cell, _ := excelize.CoordinatesToCellName(j+2, i+4)
			if err := f.SetCellValue(sheet, cell, cellFloat(v)); err != nil {
				return err
			}
		}
	}

	topLeft, _ := excelize.CoordinatesToCellName(2, 4)
	bottomRight, _ := excelize.CoordinatesToCellName(n+1, n+3)
	if err := f.SetCellStyle(sheet, topLeft, bottomRight, st.ratio); err != nil {
		return err
	}
	if err := f.SetConditionalFormat(sheet, topLeft+":"+bottomRight, []excelize.ConditionalFormatOptions{{
		Type:     "3_color_scale",
		Criteria: "=",
		MinType:  "num",
		MinValue: "-1",
		MinColor: heatNegative,
		MidType:  "num",
		MidValue: "0",
		MidColor: heatNeutral,
		MaxType:  "num",
		MaxValue: "1",
		MaxColor: heatPositive,
	}}); err != nil {
		return err
	}

	lastCol, err := excelize.ColumnNumberToName(n + 1)
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", "A", 18); err != nil {
		return err
	}
	return f.SetColWidth(sheet, "B", lastCol, 16)
}

// cellFloat returns v, or "n/a" when v is not a finite number
func cellFloat(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return format.Float(math.NaN(), 0)
	}
	return v
}

func quoteSheet(name string) string {
	return "'" + name + "'"
}
