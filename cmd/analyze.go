package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/angelofallars/statmaster/internal/report"
	"github.com/angelofallars/statmaster/internal/service"
	"github.com/angelofallars/statmaster/internal/timesheet"
	"github.com/angelofallars/statmaster/pkg/pdftext"
)

var (
	analyzeName  string
	analyzeHours float64
	analyzeOut   string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <timesheet.pdf>",
	Short: "Generate a single-employee report from a timesheet PDF",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeName, "name", "", "Employee name")
	analyzeCmd.Flags().Float64Var(&analyzeHours, "weekly-hours", 0, "Contracted weekly hours")
	analyzeCmd.Flags().StringVar(&analyzeOut, "out", ".", "Directory to write the report into")
	_ = analyzeCmd.MarkFlagRequired("name")
	_ = analyzeCmd.MarkFlagRequired("weekly-hours")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if err := checkWeeklyHours(analyzeHours); err != nil {
		return err
	}
	if err := os.MkdirAll(analyzeOut, 0o755); err != nil {
		return err
	}

	svc := service.NewAnalyzer(pdftext.New(), report.NewPDFRenderer(), cliLogger())
	res, err := svc.AnalyzeSingle(cmd.Context(), service.SingleRequest{
		PDFPath:      args[0],
		EmployeeName: analyzeName,
		WeeklyHours:  analyzeHours,
		OutputDir:    analyzeOut,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Report written to %s\n\n", filepath.Join(analyzeOut, res.ReportFilename))
	printSummary(analyzeName, res.Summary)
	return nil
}

func printSummary(name string, s timesheet.PeriodSummary) {
	fmt.Println(name)
	fmt.Printf("  %-24s%s\n", "Period", s.Label())
	fmt.Printf("  %-24s%.2f h\n", "Hours worked", s.TotalHoursWorked)
	fmt.Printf("  %-24s%.2f h\n", "Theoretical hours", s.TotalTheoreticalHours)
	fmt.Printf("  %-24s%s\n", "Net overtime", report.FormatHoursMinutes(s.TotalOvertime))
	fmt.Printf("  %-24s%.2f h\n", "Average monthly hours", s.AvgMonthlyHours)
	fmt.Printf("  %-24s%d\n", "Months covered", s.MonthlyCount)
}
