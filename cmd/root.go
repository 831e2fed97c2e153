package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/angelofallars/statmaster/internal/service"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "statmaster",
	Short: "StatMaster - timesheet PDF analyzer and report generator",
	Long: `StatMaster reads "Calendario Periodico Lavori" timesheet PDFs, turns the
clock records into monthly work-hour statistics against the contracted
weekly hours, and writes multi-page PDF reports, for a single employee
or comparing two.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called from main. Expected failures carry
// their own guidance and print as-is; anything else gets a generic
// first line so the raw detail is clearly not the user's fault.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if !service.Classify(err).Expected() {
			fmt.Fprintln(os.Stderr, "statmaster: unexpected error")
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log pipeline details to stderr")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(compareCmd)
}

// cliLogger keeps one-shot command output down to the printed summary
// unless --verbose asks for the pipeline logs too.
func cliLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// checkWeeklyHours applies the same bounds the web form enforces on the
// contracted hours.
func checkWeeklyHours(hours float64) error {
	if hours <= 0 || hours > 24*7 {
		return fmt.Errorf("%w: weekly hours must be above 0 and at most 168", service.ErrInvalidInput)
	}
	return nil
}
