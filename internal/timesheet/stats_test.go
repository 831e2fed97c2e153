package timesheet

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func interval(year int, month time.Month, day, hour, min int, hours float64) Interval {
	start := at(year, month, day, hour, min)
	return Interval{
		Date:  date(year, month, day),
		Start: start,
		End:   start.Add(time.Duration(hours * float64(time.Hour))),
		Hours: hours,
	}
}

func TestAggregateSingleMonth(t *testing.T) {
	// Two 8-hour days in January 2025 against a 20-hour weekly contract.
	intervals := []Interval{
		interval(2025, time.January, 2, 5, 30, 8),
		interval(2025, time.January, 9, 5, 30, 8),
	}

	summary, months := Aggregate(intervals, 20)
	require.Len(t, months, 1)

	jan := months[0]
	assert.Equal(t, 2025, jan.Year)
	assert.Equal(t, time.January, jan.Month)
	assert.Equal(t, 31, jan.DaysInMonth)
	assert.Equal(t, 2, jan.DaysWorked)
	assert.InDelta(t, 16.0, jan.HoursWorked, 1e-9)
	assert.InDelta(t, 20.0*31.0/7.0, jan.TheoreticalHours, 1e-9)
	assert.InDelta(t, 16.0-20.0*31.0/7.0, jan.Overtime, 1e-9)
	assert.InDelta(t, 8.0, jan.AvgHoursPerDay, 1e-9)

	assert.Equal(t, date(2025, time.January, 2), summary.PeriodStart)
	assert.Equal(t, date(2025, time.January, 9), summary.PeriodEnd)
	assert.InDelta(t, 16.0, summary.TotalHoursWorked, 1e-9)
	assert.InDelta(t, jan.TheoreticalHours, summary.TotalTheoreticalHours, 1e-9)
	assert.InDelta(t, jan.Overtime, summary.TotalOvertime, 1e-9)
	assert.InDelta(t, 16.0, summary.AvgMonthlyHours, 1e-9)
	assert.Equal(t, 1, summary.MonthlyCount)
}

func TestAggregateSplitShiftsCountOneDay(t *testing.T) {
	intervals := []Interval{
		interval(2025, time.March, 10, 5, 0, 4),
		interval(2025, time.March, 10, 14, 0, 4),
	}

	_, months := Aggregate(intervals, 40)
	require.Len(t, months, 1)

	assert.Equal(t, 1, months[0].DaysWorked)
	assert.InDelta(t, 8.0, months[0].HoursWorked, 1e-9)
	assert.InDelta(t, 8.0, months[0].AvgHoursPerDay, 1e-9)
}

func TestAggregateMonthsComeBackChronological(t *testing.T) {
	intervals := []Interval{
		interval(2025, time.February, 3, 6, 0, 6),
		interval(2024, time.December, 20, 6, 0, 6),
		interval(2025, time.January, 15, 6, 0, 6),
	}

	summary, months := Aggregate(intervals, 20)
	require.Len(t, months, 3)

	assert.Equal(t, "12/2024", months[0].Label())
	assert.Equal(t, "01/2025", months[1].Label())
	assert.Equal(t, "02/2025", months[2].Label())

	assert.Equal(t, date(2024, time.December, 20), summary.PeriodStart)
	assert.Equal(t, date(2025, time.February, 3), summary.PeriodEnd)
	assert.Equal(t, 3, summary.MonthlyCount)
	assert.InDelta(t, 6.0, summary.AvgMonthlyHours, 1e-9)
}

func TestAggregateTotalsMatchMonthlySums(t *testing.T) {
	intervals := []Interval{
		interval(2025, time.January, 2, 5, 30, 8),
		interval(2025, time.January, 3, 5, 30, 7.5),
		interval(2025, time.February, 4, 6, 0, 6.25),
		interval(2025, time.April, 11, 8, 0, 9),
	}

	summary, months := Aggregate(intervals, 25)

	var worked, theoretical, overtime float64
	for _, m := range months {
		worked += m.HoursWorked
		theoretical += m.TheoreticalHours
		overtime += m.Overtime
	}
	assert.InDelta(t, worked, summary.TotalHoursWorked, 1e-9)
	assert.InDelta(t, theoretical, summary.TotalTheoreticalHours, 1e-9)
	assert.InDelta(t, overtime, summary.TotalOvertime, 1e-9)
	assert.InDelta(t, summary.TotalHoursWorked-summary.TotalTheoreticalHours, summary.TotalOvertime, 1e-9)
}

func TestAggregateLeapFebruary(t *testing.T) {
	intervals := []Interval{interval(2024, time.February, 5, 6, 0, 6)}

	_, months := Aggregate(intervals, 21)
	require.Len(t, months, 1)

	assert.Equal(t, 29, months[0].DaysInMonth)
	assert.InDelta(t, 21.0*29.0/7.0, months[0].TheoreticalHours, 1e-9)
}

func TestAggregateIsDeterministic(t *testing.T) {
	// Shifts of 6, 12 and 18 minutes on separate days of one month:
	// 0.1, 0.2 and 0.3 have no exact binary representation, so the
	// January total keeps the same low bits only when the days are
	// summed in a fixed order.
	intervals := []Interval{
		interval(2025, time.January, 2, 5, 30, 0.1),
		interval(2025, time.January, 9, 5, 30, 0.2),
		interval(2025, time.January, 16, 5, 30, 0.3),
		interval(2025, time.February, 3, 6, 0, 4),
	}

	summary, months := Aggregate(intervals, 20)
	require.Len(t, months, 2)

	for i := 0; i < 100; i++ {
		summaryAgain, monthsAgain := Aggregate(intervals, 20)
		require.Equal(t, summary, summaryAgain)
		require.Equal(t, months, monthsAgain)
	}
}

func TestAggregateEmpty(t *testing.T) {
	summary, months := Aggregate(nil, 20)

	assert.Empty(t, months)
	assert.Zero(t, summary.TotalHoursWorked)
	assert.Zero(t, summary.MonthlyCount)
}

func TestMonthLabelZeroPadsMonth(t *testing.T) {
	stat := MonthlyStat{Year: 2025, Month: time.March}
	assert.Equal(t, "03/2025", stat.Label())

	stat = MonthlyStat{Year: 2025, Month: time.November}
	assert.Equal(t, "11/2025", stat.Label())
}

func TestPeriodSummaryLabel(t *testing.T) {
	summary := PeriodSummary{
		PeriodStart: date(2025, time.January, 2),
		PeriodEnd:   date(2025, time.June, 30),
	}
	assert.Equal(t, "02/01/2025 - 30/06/2025", summary.Label())
}
