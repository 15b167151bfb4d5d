package reporter

import (
	"math"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"

	"salescli/internal/analytics"
	"salescli/internal/shared/format"
	"salescli/pkg/contracts/domain"
)

type rgb struct{ r, g, b int }

var (
	barColor    = rgb{78, 121, 167}
	lineColor   = rgb{225, 87, 89}
	axisColor   = rgb{120, 120, 120}
	gridColor   = rgb{225, 225, 225}
	textColor   = rgb{30, 30, 30}
	mutedColor  = rgb{110, 110, 110}
	heatLow     = rgb{90, 138, 198}
	heatMid     = rgb{255, 255, 255}
	heatHigh    = rgb{248, 105, 107}
	heatNoValue = rgb{200, 200, 200}
	headerFill  = rgb{221, 235, 247}
)

const (
	yAxisTicks = 5
	// Category labels are rotated above this many points
	rotateLabels = 6
)

// pdfReport draws on a landscape A4 document. Text goes through tr so that
// UTF-8 input renders with the core fonts.
type pdfReport struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	symbol string
}

// WritePDF renders a cover page with the KPIs and insights followed by one
// page per chart.
func WritePDF(path string, a domain.Analysis, currencySymbol string) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(false, 14)
	pdf.SetTitle("Sales Report", true)

	r := &pdfReport{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		symbol: currencySymbol,
	}
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 8)
		r.textColor(mutedColor)
		pdf.CellFormat(0, 5, "Sales Report", "", 0, "L", false, 0, "")
		pdf.SetY(-12)
		pdf.CellFormat(0, 5, r.tr(format.Int(int64(pdf.PageNo()))), "", 0, "R", false, 0, "")
	})

	r.coverPage(a)
	for _, s := range []struct {
		series domain.Series
		line   bool
	}{
		{a.Monthly, false},
		{a.Daily, false},
		{a.Store, false},
		{a.Category, false},
		{a.Hourly, true},
	} {
		r.chartPage(s.series, s.line)
	}
	r.heatmapPage(a.Correlation)

	return pdf.OutputFileAndClose(path)
}

func (r *pdfReport) fillColor(c rgb) { r.pdf.SetFillColor(c.r, c.g, c.b) }
func (r *pdfReport) drawColor(c rgb) { r.pdf.SetDrawColor(c.r, c.g, c.b) }
func (r *pdfReport) textColor(c rgb) { r.pdf.SetTextColor(c.r, c.g, c.b) }

func (r *pdfReport) heading(title string) {
	r.pdf.SetFont("Helvetica", "B", 18)
	r.textColor(textColor)
	r.pdf.CellFormat(0, 10, r.tr(title), "", 1, "L", false, 0, "")
	r.pdf.Ln(2)
}

func (r *pdfReport) coverPage(a domain.Analysis) {
	pdf := r.pdf
	pdf.AddPage()
	r.heading("Sales Report")

	pdf.SetFont("Helvetica", "", 11)
	for _, line := range KPILines(a.KPIs, r.symbol) {
		pdf.CellFormat(0, 7, r.tr(line), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	if len(a.Insights) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, "Insights", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, line := range a.Insights {
			pdf.MultiCell(0, 6, r.tr("- "+line), "", "L", false)
		}
		pdf.Ln(4)
	}

	if len(a.Describe) > 0 {
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, "Numeric Columns", "", 1, "L", false, 0, "")

		widths := []float64{50, 25, 30, 30, 30, 30, 30}
		headers := []string{"Column", "Count", "Mean", "Std", "Min", "Median", "Max"}
		pdf.SetFont("Helvetica", "B", 9)
		r.fillColor(headerFill)
		r.drawColor(gridColor)
		for i, h := range headers {
			pdf.CellFormat(widths[i], 6, h, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, d := range a.Describe {
			cells := []string{
				d.Column,
				format.Int(int64(d.Count)),
				format.Float(d.Mean, 2),
				format.Float(d.Std, 2),
				format.Float(d.Min, 2),
				format.Float(d.Median, 2),
				format.Float(d.Max, 2),
			}
			for i, c := range cells {
				align := "R"
				if i == 0 {
					align = "L"
				}
				pdf.CellFormat(widths[i], 6, r.tr(c), "1", 0, align, false, 0, "")
			}
			pdf.Ln(-1)
		}
	}
}

// plotArea returns the drawing rectangle below the page heading
func (r *pdfReport) plotArea() (x, y, w, h float64) {
	pageW, pageH := r.pdf.GetPageSize()
	left, _, right, _ := r.pdf.GetMargins()
	// Room for the y-axis labels on the left and rotated category labels below
	x = left + 28
	y = r.pdf.GetY() + 6
	w = pageW - right - x
	h = pageH - y - 50
	return x, y, w, h
}

func (r *pdfReport) chartPage(s domain.Series, line bool) {
	r.pdf.AddPage()
	r.heading(s.Title)

	if len(s.Points) == 0 {
		r.noData()
		return
	}

	x, y, w, h := r.plotArea()
	maxValue := seriesMax(s)
	r.valueAxis(x, y, w, h, maxValue)

	n := float64(len(s.Points))
	slot := w / n
	points := make([][2]float64, 0, len(s.Points))
	for i, p := range s.Points {
		ratio := 0.0
		if maxValue > 0 {
			ratio = p.Value.InexactFloat64() / maxValue
		}
		cx := x + slot*(float64(i)+0.5)
		top := y + h - h*ratio

		if !line {
			barW := slot * 0.7
			r.fillColor(barColor)
			r.pdf.Rect(cx-barW/2, top, barW, y+h-top, "F")
		}
		points = append(points, [2]float64{cx, top})
		r.categoryLabel(categoryText(s, p), cx, y+h, len(s.Points) > rotateLabels)
	}

	if line {
		r.drawColor(lineColor)
		r.fillColor(lineColor)
		r.pdf.SetLineWidth(0.6)
		for i := 1; i < len(points); i++ {
			r.pdf.Line(points[i-1][0], points[i-1][1], points[i][0], points[i][1])
		}
		for _, pt := range points {
			r.pdf.Circle(pt[0], pt[1], 0.9, "F")
		}
		r.pdf.SetLineWidth(0.2)
	}

	r.drawColor(axisColor)
	r.pdf.Line(x, y+h, x+w, y+h)
	r.pdf.Line(x, y, x, y+h)
}

// valueAxis draws horizontal grid lines with money labels
func (r *pdfReport) valueAxis(x, y, w, h, maxValue float64) {
	r.pdf.SetFont("Helvetica", "", 8)
	r.textColor(mutedColor)
	r.drawColor(gridColor)
	for i := 0; i <= yAxisTicks; i++ {
		frac := float64(i) / yAxisTicks
		ty := y + h - h*frac
		r.pdf.Line(x, ty, x+w, ty)
		label := format.Money(r.symbol, decimal.NewFromFloat(maxValue*frac).Round(0))
		label = label[:len(label)-3]
		lw := r.pdf.GetStringWidth(r.tr(label))
		r.pdf.Text(x-lw-2, ty+1, r.tr(label))
	}
}

func (r *pdfReport) categoryLabel(label string, cx, base float64, rotate bool) {
	pdf := r.pdf
	pdf.SetFont("Helvetica", "", 8)
	r.textColor(textColor)
	text := r.tr(label)
	lw := pdf.GetStringWidth(text)
	if !rotate {
		pdf.Text(cx-lw/2, base+5, text)
		return
	}
	pdf.TransformBegin()
	pdf.TransformRotate(45, cx, base+3)
	pdf.Text(cx-lw, base+3, text)
	pdf.TransformEnd()
}

func (r *pdfReport) heatmapPage(m domain.CorrelationMatrix) {
	pdf := r.pdf
	pdf.AddPage()
	r.heading(analytics.TitleCorrelation)

	n := len(m.Columns)
	if n == 0 {
		r.noData()
		return
	}

	left, _, _, _ := pdf.GetMargins()
	_, pageH := pdf.GetPageSize()
	labelW := 40.0
	top := pdf.GetY() + 8
	cell := math.Min(30, (pageH-top-30)/float64(n))
	x0 := left + labelW

	pdf.SetFont("Helvetica", "B", 9)
	r.textColor(textColor)
	for i, name := range m.Columns {
		pdf.SetXY(x0+float64(i)*cell, top-7)
		pdf.CellFormat(cell, 6, r.tr(name), "", 0, "C", false, 0, "")
		pdf.SetXY(left, top+float64(i)*cell)
		pdf.CellFormat(labelW-2, cell, r.tr(name), "", 0, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "", 9)
	r.drawColor(rgb{255, 255, 255})
	for i, row := range m.Values {
		for j, v := range row {
			r.fillColor(heatColor(v))
			pdf.SetXY(x0+float64(j)*cell, top+float64(i)*cell)
			pdf.CellFormat(cell, cell, format.Float(v, 2), "1", 0, "CM", true, 0, "")
		}
	}

	r.heatLegend(x0+float64(n)*cell+10, top, float64(n)*cell)
}

// heatLegend draws the -1..1 colour bar
func (r *pdfReport) heatLegend(x, y, h float64) {
	const steps = 40
	stepH := h / steps
	for i := 0; i < steps; i++ {
		v := 1 - 2*(float64(i)+0.5)/steps
		r.fillColor(heatColor(v))
		r.pdf.Rect(x, y+float64(i)*stepH, 6, stepH+0.1, "F")
	}
	r.pdf.SetFont("Helvetica", "", 8)
	r.textColor(mutedColor)
	r.pdf.Text(x+8, y+3, "1.0")
	r.pdf.Text(x+8, y+h/2+1, "0.0")
	r.pdf.Text(x+8, y+h, "-1.0")
}

func (r *pdfReport) noData() {
	r.pdf.SetFont("Helvetica", "I", 12)
	r.textColor(mutedColor)
	r.pdf.CellFormat(0, 10, "No data", "", 1, "L", false, 0, "")
}

// heatColor maps a coefficient in [-1, 1] onto the blue-white-red scale
func heatColor(v float64) rgb {
	if math.IsNaN(v) {
		return heatNoValue
	}
	v = math.Max(-1, math.Min(1, v))
	if v < 0 {
		return blend(heatMid, heatLow, -v)
	}
	return blend(heatMid, heatHigh, v)
}

func blend(from, to rgb, t float64) rgb {
	mix := func(a, b int) int { return int(math.Round(float64(a) + (float64(b)-float64(a))*t)) }
	return rgb{mix(from.r, to.r), mix(from.g, to.g), mix(from.b, to.b)}
}

func seriesMax(s domain.Series) float64 {
	maxValue := 0.0
	for _, p := range s.Points {
		maxValue = math.Max(maxValue, p.Value.InexactFloat64())
	}
	return maxValue
}

// categoryText renders hour labels as clock times
func categoryText(s domain.Series, p domain.Point) string {
	if s.Dimension == domain.ColHour {
		if h, err := decimal.NewFromString(p.Label); err == nil {
			return format.Hour(int(h.IntPart()))
		}
	}
	return p.Label
}
