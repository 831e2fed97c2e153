package report

import (
	"fmt"
	"math"

	"github.com/angelofallars/statmaster/internal/timesheet"
)

// FormatHoursMinutes renders decimal hours as "8 h 05 min", rounding to
// the nearest minute. Negative amounts carry a single leading sign:
// "-72 h 34 min".
func FormatHoursMinutes(hours float64) string {
	totalMinutes := int(math.Round(hours * 60))
	sign := ""
	if totalMinutes < 0 {
		sign = "-"
		totalMinutes = -totalMinutes
	}
	return fmt.Sprintf("%s%d h %02d min", sign, totalMinutes/60, totalMinutes%60)
}

// EstimateWeeklyAverage spreads the period's worked hours over its
// calendar weeks, counting both boundary days, so a Monday-to-Sunday
// period divides by exactly one week.
func EstimateWeeklyAverage(summary timesheet.PeriodSummary) float64 {
	days := int(summary.PeriodEnd.Sub(summary.PeriodStart).Hours()/24) + 1
	weeks := float64(days) / 7
	if days <= 0 {
		// Unset or reversed boundaries would divide by zero or flip the
		// sign; fall back to a single week.
		weeks = 1
	}
	return summary.TotalHoursWorked / weeks
}
