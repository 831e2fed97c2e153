package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/angelofallars/statmaster/internal/report"
	"github.com/angelofallars/statmaster/internal/service"
	"github.com/angelofallars/statmaster/pkg/pdftext"
)

var (
	compareNameA  string
	compareNameB  string
	compareHoursA float64
	compareHoursB float64
	compareOut    string
)

var compareCmd = &cobra.Command{
	Use:   "compare <timesheetA.pdf> <timesheetB.pdf>",
	Short: "Generate a comparison report for two employees",
	Args:  cobra.ExactArgs(2),
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&compareNameA, "name-a", "", "First employee name")
	compareCmd.Flags().StringVar(&compareNameB, "name-b", "", "Second employee name")
	compareCmd.Flags().Float64Var(&compareHoursA, "weekly-hours-a", 0, "First employee's contracted weekly hours")
	compareCmd.Flags().Float64Var(&compareHoursB, "weekly-hours-b", 0, "Second employee's contracted weekly hours")
	compareCmd.Flags().StringVar(&compareOut, "out", ".", "Directory to write the report into")
	_ = compareCmd.MarkFlagRequired("name-a")
	_ = compareCmd.MarkFlagRequired("name-b")
	_ = compareCmd.MarkFlagRequired("weekly-hours-a")
	_ = compareCmd.MarkFlagRequired("weekly-hours-b")
}

func runCompare(cmd *cobra.Command, args []string) error {
	for _, hours := range []float64{compareHoursA, compareHoursB} {
		if err := checkWeeklyHours(hours); err != nil {
			return err
		}
	}
	if err := os.MkdirAll(compareOut, 0o755); err != nil {
		return err
	}

	svc := service.NewAnalyzer(pdftext.New(), report.NewPDFRenderer(), cliLogger())
	res, err := svc.AnalyzeComparison(cmd.Context(), service.ComparisonRequest{
		A: service.EmployeeSource{
			PDFPath:     args[0],
			Name:        compareNameA,
			WeeklyHours: compareHoursA,
		},
		B: service.EmployeeSource{
			PDFPath:     args[1],
			Name:        compareNameB,
			WeeklyHours: compareHoursB,
		},
		OutputDir: compareOut,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Comparison report written to %s\n\n", filepath.Join(compareOut, res.ReportFilename))
	printSummary(compareNameA, res.SummaryA)
	fmt.Println()
	printSummary(compareNameB, res.SummaryB)
	return nil
}
