package report

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"

	"github.com/angelofallars/statmaster/internal/timesheet"
)

// Single is everything the single-employee report needs, already
// aggregated.
type Single struct {
	EmployeeName string
	WeeklyHours  float64
	Summary      timesheet.PeriodSummary
	Months       []timesheet.MonthlyStat
}

// Side is one employee inside a comparison report.
type Side struct {
	Name        string
	WeeklyHours float64
	Summary     timesheet.PeriodSummary
	Months      []timesheet.MonthlyStat
}

// Comparison is everything the two-employee report needs. Merge must be
// the label-aligned view of both sides' months.
type Comparison struct {
	A     Side
	B     Side
	Merge timesheet.ComparisonMerge
}

// PDFRenderer draws the multi-page reports. Text pages are laid out
// with fpdf directly; chart pages embed PNGs rendered by go-chart.
type PDFRenderer struct{}

func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

var a4 = fpdf.SizeType{Wd: 210, Ht: 297}

// RenderSingle writes the four-page single-employee report: overview,
// monthly table, worked-vs-theoretical chart, overtime chart.
func (pr *PDFRenderer) RenderSingle(w io.Writer, rep Single) error {
	if len(rep.Months) == 0 {
		return errors.New("no monthly data to render")
	}

	labels := monthLabels(rep.Months)
	hoursPNG, err := renderLineChart("Ore lavorate vs ore teoriche per mese", labels, []series{
		{name: "Ore lavorate", values: monthValues(rep.Months, func(m timesheet.MonthlyStat) float64 { return m.HoursWorked })},
		{name: "Ore teoriche", values: monthValues(rep.Months, func(m timesheet.MonthlyStat) float64 { return m.TheoreticalHours })},
	})
	if err != nil {
		return err
	}
	overtimePNG, err := renderBarChart("Straordinario netto per mese", labels,
		monthValues(rep.Months, func(m timesheet.MonthlyStat) float64 { return m.Overtime }))
	if err != nil {
		return err
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Report StatMaster - "+rep.EmployeeName, true)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	pr.singleOverview(doc, tr, rep)
	pr.singleMonthlyTable(doc, tr, rep.Months)
	chartPage(doc, "single-hours", hoursPNG)
	chartPage(doc, "single-overtime", overtimePNG)

	return doc.Output(w)
}

// RenderComparison writes the five-page comparison report: overview,
// monthly table, hours chart, overtime chart, overall totals chart.
func (pr *PDFRenderer) RenderComparison(w io.Writer, rep Comparison) error {
	if len(rep.Merge.Labels) == 0 {
		return errors.New("no monthly data to render")
	}

	labels := rep.Merge.Labels
	hoursPNG, err := renderLineChart("Ore lavorate per mese - Confronto", labels, []series{
		{name: rep.A.Name, values: labelValues(rep.Merge.HoursA, labels)},
		{name: rep.B.Name, values: labelValues(rep.Merge.HoursB, labels)},
	})
	if err != nil {
		return err
	}
	overtimePNG, err := renderLineChart("Straordinario netto per mese - Confronto", labels, []series{
		{name: rep.A.Name, values: labelValues(rep.Merge.OvertimeA, labels)},
		{name: rep.B.Name, values: labelValues(rep.Merge.OvertimeB, labels)},
	})
	if err != nil {
		return err
	}
	totalsPNG, err := renderBarChart("Confronto complessivo ore e straordinari",
		[]string{
			"Ore " + shorten(rep.A.Name, 14),
			"Straord. " + shorten(rep.A.Name, 14),
			"Ore " + shorten(rep.B.Name, 14),
			"Straord. " + shorten(rep.B.Name, 14),
		},
		[]float64{
			rep.A.Summary.TotalHoursWorked,
			rep.A.Summary.TotalOvertime,
			rep.B.Summary.TotalHoursWorked,
			rep.B.Summary.TotalOvertime,
		})
	if err != nil {
		return err
	}

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Confronto StatMaster - "+rep.A.Name+" vs "+rep.B.Name, true)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	pr.comparisonOverview(doc, tr, rep)
	pr.comparisonMonthlyTable(doc, tr, rep)
	chartPage(doc, "cmp-hours", hoursPNG)
	chartPage(doc, "cmp-overtime", overtimePNG)
	chartPage(doc, "cmp-totals", totalsPNG)

	return doc.Output(w)
}

func (pr *PDFRenderer) singleOverview(doc *fpdf.Fpdf, tr func(string) string, rep Single) {
	doc.AddPageFormat("P", a4)

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, tr("Report StatMaster - "+rep.EmployeeName), "", 1, "L", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 11)
	for _, line := range []string{
		"Periodo analizzato: " + rep.Summary.Label(),
		fmt.Sprintf("Ore settimanali da contratto: %.2f h", rep.WeeklyHours),
		"",
		fmt.Sprintf("Totale ore lavorate: %.2f h", rep.Summary.TotalHoursWorked),
		fmt.Sprintf("Totale ore teoriche: %.2f h", rep.Summary.TotalTheoreticalHours),
		fmt.Sprintf("Straordinario netto complessivo: %.2f h (%s)",
			rep.Summary.TotalOvertime, FormatHoursMinutes(rep.Summary.TotalOvertime)),
		"",
		fmt.Sprintf("Media ore lavorate al mese: %.2f h", rep.Summary.AvgMonthlyHours),
		"Media ore settimanali (stima): " + FormatHoursMinutes(EstimateWeeklyAverage(rep.Summary)),
	} {
		doc.CellFormat(0, 7, tr(line), "", 1, "L", false, 0, "")
	}

	doc.Ln(6)
	doc.SetFont("Helvetica", "I", 9)
	doc.CellFormat(0, 6, tr("Nota: le ore teoriche sono calcolate come ore settimanali * (giorni del mese / 7)."), "", 1, "L", false, 0, "")
}

func (pr *PDFRenderer) singleMonthlyTable(doc *fpdf.Fpdf, tr func(string) string, months []timesheet.MonthlyStat) {
	doc.AddPageFormat("L", a4)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, tr("Statistiche mensili"), "", 1, "L", false, 0, "")
	doc.Ln(2)

	headers := []string{"Mese", "Giorni lavorati", "Ore lavorate", "Ore teoriche", "Straordinario netto", "Media ore/giorno lavorato"}
	widths := []float64{30, 38, 38, 38, 45, 55}

	doc.SetFont("Helvetica", "B", 9)
	doc.SetFillColor(230, 230, 230)
	for i, header := range headers {
		doc.CellFormat(widths[i], 8, tr(header), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for _, m := range months {
		cells := []string{
			m.Label(),
			strconv.Itoa(m.DaysWorked),
			fmt.Sprintf("%.2f", m.HoursWorked),
			fmt.Sprintf("%.2f", m.TheoreticalHours),
			fmt.Sprintf("%.2f", m.Overtime),
			fmt.Sprintf("%.2f", m.AvgHoursPerDay),
		}
		for i, cell := range cells {
			doc.CellFormat(widths[i], 7, tr(cell), "1", 0, "C", false, 0, "")
		}
		doc.Ln(-1)
	}
}

func (pr *PDFRenderer) comparisonOverview(doc *fpdf.Fpdf, tr func(string) string, rep Comparison) {
	doc.AddPageFormat("P", a4)

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, tr("Confronto ore lavorate"), "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 14)
	doc.CellFormat(0, 9, tr(rep.A.Name+" vs "+rep.B.Name), "", 1, "C", false, 0, "")
	doc.Ln(6)

	doc.SetFont("Helvetica", "", 11)
	doc.CellFormat(0, 7, tr("Periodo analizzato: "+rep.A.Summary.Label()), "", 1, "L", false, 0, "")
	doc.Ln(3)

	pr.comparisonSide(doc, tr, rep.A)
	doc.Ln(5)
	pr.comparisonSide(doc, tr, rep.B)
	doc.Ln(8)

	diffHours := rep.A.Summary.TotalHoursWorked - rep.B.Summary.TotalHoursWorked
	diffOvertime := rep.A.Summary.TotalOvertime - rep.B.Summary.TotalOvertime

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 7, tr("Differenze principali:"), "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, tr(fmt.Sprintf("Differenza ore totali lavorate (%s - %s): %s",
		rep.A.Name, rep.B.Name, FormatHoursMinutes(diffHours))), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, tr("Differenza straordinari netti complessivi: "+FormatHoursMinutes(diffOvertime)), "", 1, "L", false, 0, "")
}

func (pr *PDFRenderer) comparisonSide(doc *fpdf.Fpdf, tr func(string) string, side Side) {
	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 7, tr(fmt.Sprintf("%s (contratto %.0f h/sett):", side.Name, side.WeeklyHours)), "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		"Totale ore lavorate: " + FormatHoursMinutes(side.Summary.TotalHoursWorked),
		"Totale ore teoriche: " + FormatHoursMinutes(side.Summary.TotalTheoreticalHours),
		"Straordinario netto complessivo: " + FormatHoursMinutes(side.Summary.TotalOvertime),
		"Media ore settimanali (stima): " + FormatHoursMinutes(EstimateWeeklyAverage(side.Summary)),
	} {
		doc.CellFormat(6, 6, "", "", 0, "L", false, 0, "")
		doc.CellFormat(0, 6, tr(line), "", 1, "L", false, 0, "")
	}
}

func (pr *PDFRenderer) comparisonMonthlyTable(doc *fpdf.Fpdf, tr func(string) string, rep Comparison) {
	doc.AddPageFormat("P", a4)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, tr("Confronto mensile ore lavorate / straordinari"), "", 1, "C", false, 0, "")
	doc.Ln(2)

	nameA := shorten(rep.A.Name, 16)
	nameB := shorten(rep.B.Name, 16)
	headers := []string{"Mese", "Ore lavorate " + nameA, "Straord. " + nameA, "Ore lavorate " + nameB, "Straord. " + nameB}
	widths := []float64{30, 40, 40, 40, 40}

	doc.SetFont("Helvetica", "B", 8)
	doc.SetFillColor(230, 230, 230)
	for i, header := range headers {
		doc.CellFormat(widths[i], 8, tr(header), "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)

	doc.SetFont("Helvetica", "", 9)
	for _, label := range rep.Merge.Labels {
		cells := []string{
			label,
			fmt.Sprintf("%.2f", rep.Merge.HoursA[label]),
			fmt.Sprintf("%.2f", rep.Merge.OvertimeA[label]),
			fmt.Sprintf("%.2f", rep.Merge.HoursB[label]),
			fmt.Sprintf("%.2f", rep.Merge.OvertimeB[label]),
		}
		for i, cell := range cells {
			doc.CellFormat(widths[i], 7, tr(cell), "1", 0, "C", false, 0, "")
		}
		doc.Ln(-1)
	}
}

// chartPage puts one pre-rendered chart on its own landscape page,
// scaled to the content width.
func chartPage(doc *fpdf.Fpdf, name string, png []byte) {
	doc.AddPageFormat("L", a4)

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

	pageWidth, _ := doc.GetPageSize()
	left, top, right, _ := doc.GetMargins()
	doc.ImageOptions(name, left, top, pageWidth-left-right, 0, false, opts, 0, "")
}

func monthLabels(months []timesheet.MonthlyStat) []string {
	labels := make([]string, len(months))
	for i, m := range months {
		labels[i] = m.Label()
	}
	return labels
}

func monthValues(months []timesheet.MonthlyStat, pick func(timesheet.MonthlyStat) float64) []float64 {
	values := make([]float64, len(months))
	for i, m := range months {
		values[i] = pick(m)
	}
	return values
}

func labelValues(byLabel map[string]float64, labels []string) []float64 {
	values := make([]float64, len(labels))
	for i, label := range labels {
		values[i] = byLabel[label]
	}
	return values
}

// shorten keeps table headers and bar labels from spilling over their
// cells when employee names run long.
func shorten(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max-1]) + "."
}
