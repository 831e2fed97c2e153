package timesheet

import (
	"sort"
	"time"
)

// Aggregate groups intervals by day and month, then derives worked,
// theoretical and overtime hours against the contracted weekly hours.
// Months come back in chronological order. Aggregate is pure: the same
// intervals and weekly hours always produce the same result.
func Aggregate(intervals []Interval, weeklyHours float64) (PeriodSummary, []MonthlyStat) {
	daily := make(map[time.Time]float64)
	for _, interval := range intervals {
		day := time.Date(interval.Date.Year(), interval.Date.Month(), interval.Date.Day(), 0, 0, 0, 0, time.UTC)
		daily[day] += interval.Hours
	}

	// Fold the daily totals in date order. Map iteration order changes
	// run to run, and reordering float additions changes the low bits
	// of the monthly sums.
	days := make([]time.Time, 0, len(daily))
	for day := range daily {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	type monthKey struct {
		year  int
		month time.Month
	}
	months := make(map[monthKey]*MonthlyStat)
	for _, day := range days {
		key := monthKey{day.Year(), day.Month()}
		stat, ok := months[key]
		if !ok {
			stat = &MonthlyStat{
				Year:        key.year,
				Month:       key.month,
				DaysInMonth: daysInMonth(key.year, key.month),
			}
			months[key] = stat
		}
		stat.DaysWorked++
		stat.HoursWorked += daily[day]
	}

	stats := make([]MonthlyStat, 0, len(months))
	for _, stat := range months {
		stat.TheoreticalHours = weeklyHours * float64(stat.DaysInMonth) / 7
		stat.Overtime = stat.HoursWorked - stat.TheoreticalHours
		if stat.DaysWorked > 0 {
			stat.AvgHoursPerDay = stat.HoursWorked / float64(stat.DaysWorked)
		}
		stats = append(stats, *stat)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Year != stats[j].Year {
			return stats[i].Year < stats[j].Year
		}
		return stats[i].Month < stats[j].Month
	})

	var summary PeriodSummary
	for _, interval := range intervals {
		if summary.PeriodStart.IsZero() || interval.Date.Before(summary.PeriodStart) {
			summary.PeriodStart = interval.Date
		}
		if interval.Date.After(summary.PeriodEnd) {
			summary.PeriodEnd = interval.Date
		}
	}
	for _, stat := range stats {
		summary.TotalHoursWorked += stat.HoursWorked
		summary.TotalTheoreticalHours += stat.TheoreticalHours
	}
	summary.TotalOvertime = summary.TotalHoursWorked - summary.TotalTheoreticalHours
	summary.MonthlyCount = len(stats)
	if len(stats) > 0 {
		summary.AvgMonthlyHours = summary.TotalHoursWorked / float64(len(stats))
	}

	return summary, stats
}

// daysInMonth leans on time.Date normalizing day zero to the last day
// of the previous month, which handles leap years for free.
func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
