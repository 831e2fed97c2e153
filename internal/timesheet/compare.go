package timesheet

import "sort"

// ComparisonMerge aligns two employees' monthly stats on the union of
// their month labels, so the comparison tables and charts can plot both
// employees over the same axis. Months one side never worked read as
// zero through the maps.
type ComparisonMerge struct {
	Labels    []string
	HoursA    map[string]float64
	HoursB    map[string]float64
	OvertimeA map[string]float64
	OvertimeB map[string]float64
}

// MergeMonthly builds the label-aligned view of two monthly stat sets.
// Labels come back sorted; a month present on both sides appears once.
func MergeMonthly(a, b []MonthlyStat) ComparisonMerge {
	merge := ComparisonMerge{
		HoursA:    make(map[string]float64, len(a)),
		HoursB:    make(map[string]float64, len(b)),
		OvertimeA: make(map[string]float64, len(a)),
		OvertimeB: make(map[string]float64, len(b)),
	}

	seen := make(map[string]bool, len(a)+len(b))
	for _, stat := range a {
		label := stat.Label()
		merge.HoursA[label] = stat.HoursWorked
		merge.OvertimeA[label] = stat.Overtime
		if !seen[label] {
			seen[label] = true
			merge.Labels = append(merge.Labels, label)
		}
	}
	for _, stat := range b {
		label := stat.Label()
		merge.HoursB[label] = stat.HoursWorked
		merge.OvertimeB[label] = stat.Overtime
		if !seen[label] {
			seen[label] = true
			merge.Labels = append(merge.Labels, label)
		}
	}
	sort.Strings(merge.Labels)

	return merge
}
