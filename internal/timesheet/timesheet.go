// Package timesheet turns the raw text of "Calendario Periodico Lavori"
// PDFs into clock intervals and monthly statistics.
package timesheet

import (
	"fmt"
	"time"
)

// Interval is a single clock-in/clock-out record, anchored to the date
// line that preceded it in the source text. Shifts that run past
// midnight keep their anchor date and end on the following day.
type Interval struct {
	Date  time.Time `json:"date"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Hours float64   `json:"hours"`
}

// MonthlyStat aggregates the worked intervals of one calendar month.
//
// TheoreticalHours scales the contracted weekly hours over the whole
// month regardless of which days were worked:
//
//	weeklyHours * daysInMonth / 7
//
// Overtime is HoursWorked minus TheoreticalHours and is negative when
// the employee worked less than the contract says.
type MonthlyStat struct {
	Year             int        `json:"year"`
	Month            time.Month `json:"month"`
	DaysInMonth      int        `json:"days_in_month"`
	DaysWorked       int        `json:"days_worked"`
	HoursWorked      float64    `json:"hours_worked"`
	TheoreticalHours float64    `json:"theoretical_hours"`
	Overtime         float64    `json:"overtime"`
	AvgHoursPerDay   float64    `json:"avg_hours_per_day"`
}

// Label formats the month the way tables, charts and the comparison
// merge key it, e.g. "03/2025".
func (m MonthlyStat) Label() string {
	return fmt.Sprintf("%02d/%d", int(m.Month), m.Year)
}

// PeriodSummary rolls the monthly stats up over the analyzed period.
// The period boundaries are the earliest and latest interval dates seen
// in the document, not calendar month edges.
type PeriodSummary struct {
	PeriodStart           time.Time `json:"period_start"`
	PeriodEnd             time.Time `json:"period_end"`
	TotalHoursWorked      float64   `json:"total_hours_worked"`
	TotalTheoreticalHours float64   `json:"total_theoretical_hours"`
	TotalOvertime         float64   `json:"total_overtime"`
	AvgMonthlyHours       float64   `json:"avg_monthly_hours"`
	MonthlyCount          int       `json:"monthly_count"`
}

// Label formats the analyzed period as "DD/MM/YYYY - DD/MM/YYYY".
func (s PeriodSummary) Label() string {
	return s.PeriodStart.Format("02/01/2006") + " - " + s.PeriodEnd.Format("02/01/2006")
}
