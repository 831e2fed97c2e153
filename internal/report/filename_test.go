package report

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/angelofallars/statmaster/internal/timesheet"
)

var filenameSafeRe = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func summaryFor(start, end time.Time) timesheet.PeriodSummary {
	return timesheet.PeriodSummary{PeriodStart: start, PeriodEnd: end}
}

func TestSafeNameCollapsesRuns(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Mario", "Mario"},
		{"space", "Mario Rossi", "Mario_Rossi"},
		{"punctuation", "Mario O'Brien!", "Mario_O_Brien_"},
		{"run collapses", "a  ..  b", "a_b"},
		{"kept chars", "under_score-dash09", "under_score-dash09"},
		{"trimmed", "  Mario  ", "Mario"},
		{"empty", "", "dipendente"},
		{"whitespace only", "   ", "dipendente"},
		{"all stripped", "!!!", "_"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SafeName(tt.in))
		})
	}
}

func TestSlugNameMapsEachCharacter(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Luigi", "Luigi"},
		{"space", "Mario Rossi", "Mario_Rossi"},
		{"punctuation", "Mario O'Brien!", "Mario_O_Brien_"},
		{"run keeps length", "a  ..  b", "a______b"},
		{"accents", "José", "Jos_"},
		{"empty", "", "dipendente"},
		{"whitespace only", "  ", "dipendente"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SlugName(tt.in))
		})
	}
}

func TestSafeAndSlugDifferOnRuns(t *testing.T) {
	// The two rules are distinct on purpose: runs collapse in one and
	// map one-to-one in the other.
	assert.Equal(t, "a_b", SafeName("a  b"))
	assert.Equal(t, "a__b", SlugName("a  b"))
}

func TestSingleFilename(t *testing.T) {
	summary := summaryFor(date(2025, time.January, 2), date(2025, time.June, 30))

	got := SingleFilename("Mario Rossi", summary)

	assert.Equal(t, "Report_Mario_Rossi_02-01-2025-30-06-2025.pdf", got)
	assert.True(t, filenameSafeRe.MatchString(got), "filename %q has unsafe characters", got)
}

func TestSingleFilenameEmptyName(t *testing.T) {
	summary := summaryFor(date(2025, time.January, 2), date(2025, time.January, 31))

	got := SingleFilename("  ", summary)

	assert.Equal(t, "Report_dipendente_02-01-2025-31-01-2025.pdf", got)
}

func TestComparisonFilename(t *testing.T) {
	assert.Equal(t, "Confronto_Mario_vs_Luigi.pdf", ComparisonFilename("Mario", "Luigi"))
	assert.Equal(t, "Confronto_Mario_O_Brien__vs_dipendente.pdf", ComparisonFilename("Mario O'Brien!", ""))

	got := ComparisonFilename("../../etc/passwd", "Luigi")
	assert.True(t, filenameSafeRe.MatchString(got), "filename %q has unsafe characters", got)
}
