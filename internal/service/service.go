// Package service wires the analysis pipeline together: PDF text
// extraction, timesheet parsing, aggregation and report rendering.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/angelofallars/statmaster/internal/report"
	"github.com/angelofallars/statmaster/internal/timesheet"
)

// ErrInvalidInput marks validation failures raised before the pipeline
// runs: missing fields, non-numeric hours, a file that is not a PDF.
// Boundaries wrap their own message around it.
var ErrInvalidInput = errors.New("invalid input")

// TextExtractor turns a PDF file into its concatenated page text.
type TextExtractor interface {
	Extract(path string) (string, error)
}

// ReportRenderer draws a finished report document onto w.
type ReportRenderer interface {
	RenderSingle(w io.Writer, rep report.Single) error
	RenderComparison(w io.Writer, rep report.Comparison) error
}

// Analyzer runs timesheet analyses and writes the report artifacts. It
// is the boundary both the web handlers and the CLI call.
type Analyzer interface {
	AnalyzeSingle(ctx context.Context, req SingleRequest) (*SingleResult, error)
	AnalyzeComparison(ctx context.Context, req ComparisonRequest) (*ComparisonResult, error)
}

// SingleRequest asks for one employee's timesheet analysis.
type SingleRequest struct {
	PDFPath      string
	EmployeeName string
	WeeklyHours  float64
	OutputDir    string
}

// SingleResult carries the generated report's filename along with the
// numbers it was drawn from.
type SingleResult struct {
	ReportFilename string                  `json:"report_filename"`
	Summary        timesheet.PeriodSummary `json:"summary"`
	Months         []timesheet.MonthlyStat `json:"monthly"`
}

// EmployeeSource is one employee's PDF and contract inside a
// comparison request.
type EmployeeSource struct {
	PDFPath     string
	Name        string
	WeeklyHours float64
}

// ComparisonRequest asks for a two-employee comparison report.
type ComparisonRequest struct {
	A         EmployeeSource
	B         EmployeeSource
	OutputDir string
}

// ComparisonResult carries the comparison report's filename and both
// employees' numbers.
type ComparisonResult struct {
	ReportFilename string                  `json:"report_filename"`
	SummaryA       timesheet.PeriodSummary `json:"summary_a"`
	SummaryB       timesheet.PeriodSummary `json:"summary_b"`
	MonthsA        []timesheet.MonthlyStat `json:"monthly_a"`
	MonthsB        []timesheet.MonthlyStat `json:"monthly_b"`
}

type analyzer struct {
	extract TextExtractor
	render  ReportRenderer
	slog    *slog.Logger
}

// NewAnalyzer builds the analyzer service from its collaborators.
func NewAnalyzer(extractor TextExtractor, renderer ReportRenderer, logger *slog.Logger) *analyzer {
	return &analyzer{
		extract: extractor,
		render:  renderer,
		slog:    logger,
	}
}

func (a *analyzer) AnalyzeSingle(ctx context.Context, req SingleRequest) (*SingleResult, error) {
	summary, months, err := a.analyzeSource(req.PDFPath, req.EmployeeName, req.WeeklyHours)
	if err != nil {
		return nil, err
	}

	filename := report.SingleFilename(req.EmployeeName, summary)
	rep := report.Single{
		EmployeeName: req.EmployeeName,
		WeeklyHours:  req.WeeklyHours,
		Summary:      summary,
		Months:       months,
	}
	if err := a.writeReport(filepath.Join(req.OutputDir, filename), func(w io.Writer) error {
		return a.render.RenderSingle(w, rep)
	}); err != nil {
		return nil, err
	}

	a.slog.Info("report generated",
		"employee", req.EmployeeName,
		"file", filename,
		"months", len(months),
	)

	return &SingleResult{
		ReportFilename: filename,
		Summary:        summary,
		Months:         months,
	}, nil
}

func (a *analyzer) AnalyzeComparison(ctx context.Context, req ComparisonRequest) (*ComparisonResult, error) {
	summaryA, monthsA, err := a.analyzeSource(req.A.PDFPath, req.A.Name, req.A.WeeklyHours)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", req.A.Name, err)
	}
	summaryB, monthsB, err := a.analyzeSource(req.B.PDFPath, req.B.Name, req.B.WeeklyHours)
	if err != nil {
		return nil, fmt.Errorf("analyzing %s: %w", req.B.Name, err)
	}

	filename := report.ComparisonFilename(req.A.Name, req.B.Name)
	rep := report.Comparison{
		A: report.Side{
			Name:        req.A.Name,
			WeeklyHours: req.A.WeeklyHours,
			Summary:     summaryA,
			Months:      monthsA,
		},
		B: report.Side{
			Name:        req.B.Name,
			WeeklyHours: req.B.WeeklyHours,
			Summary:     summaryB,
			Months:      monthsB,
		},
		Merge: timesheet.MergeMonthly(monthsA, monthsB),
	}
	if err := a.writeReport(filepath.Join(req.OutputDir, filename), func(w io.Writer) error {
		return a.render.RenderComparison(w, rep)
	}); err != nil {
		return nil, err
	}

	a.slog.Info("comparison report generated",
		"employee_a", req.A.Name,
		"employee_b", req.B.Name,
		"file", filename,
	)

	return &ComparisonResult{
		ReportFilename: filename,
		SummaryA:       summaryA,
		SummaryB:       summaryB,
		MonthsA:        monthsA,
		MonthsB:        monthsB,
	}, nil
}

// analyzeSource runs extraction, parsing and aggregation for one PDF.
func (a *analyzer) analyzeSource(path, name string, weeklyHours float64) (timesheet.PeriodSummary, []timesheet.MonthlyStat, error) {
	text, err := a.extract.Extract(path)
	if err != nil {
		return timesheet.PeriodSummary{}, nil, err
	}

	intervals, diag, err := timesheet.ParseWithDiagnostics(text)
	if err != nil {
		return timesheet.PeriodSummary{}, nil, err
	}
	a.slog.Info("timesheet parsed",
		"employee", name,
		"lines", diag.Lines,
		"date_lines", diag.DateLines,
		"intervals", diag.Intervals,
		"skipped", diag.Skipped,
	)

	summary, months := timesheet.Aggregate(intervals, weeklyHours)
	return summary, months, nil
}

// writeReport renders into the target file and cleans up after a
// failed render, so a half-written artifact never stays downloadable.
func (a *analyzer) writeReport(path string, draw func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	if err := draw(f); err != nil {
		f.Close()
		_ = os.Remove(path)
		return fmt.Errorf("rendering report: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return fmt.Errorf("writing report file: %w", err)
	}
	return nil
}
