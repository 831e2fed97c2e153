// Package report renders the analysis results into downloadable PDF
// documents and derives their filenames.
package report

import (
	"regexp"
	"strings"

	"github.com/angelofallars/statmaster/internal/timesheet"
)

// placeholderName stands in when an employee name cleans away to
// nothing, so filenames never end up with an empty segment.
const placeholderName = "dipendente"

var unsafeNameRunsRe = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// SafeName collapses every run of characters outside [A-Za-z0-9_-] into
// one underscore. Single-employee filenames use this rule.
func SafeName(name string) string {
	cleaned := unsafeNameRunsRe.ReplaceAllString(strings.TrimSpace(name), "_")
	if cleaned == "" {
		return placeholderName
	}
	return cleaned
}

// SlugName maps each character outside [A-Za-z0-9_-] to its own
// underscore. Comparison filenames use this rule, so a run of stripped
// characters keeps its length instead of collapsing like SafeName.
func SlugName(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return placeholderName
	}
	return b.String()
}

// SingleFilename names a single-employee report after the employee and
// the analyzed period, e.g. "Report_Mario_Rossi_02-01-2025-30-06-2025.pdf".
func SingleFilename(employeeName string, summary timesheet.PeriodSummary) string {
	return "Report_" + SafeName(employeeName) + "_" + periodTag(summary) + ".pdf"
}

// ComparisonFilename names a comparison report after both employees,
// e.g. "Confronto_Mario_vs_Luigi.pdf".
func ComparisonFilename(nameA, nameB string) string {
	return "Confronto_" + SlugName(nameA) + "_vs_" + SlugName(nameB) + ".pdf"
}

// periodTag compacts the period label into a filename-safe tag:
// "02/01/2025 - 30/06/2025" becomes "02-01-2025-30-06-2025".
func periodTag(summary timesheet.PeriodSummary) string {
	tag := summary.Label()
	tag = strings.ReplaceAll(tag, " ", "")
	tag = strings.ReplaceAll(tag, "/", "-")
	return strings.ReplaceAll(tag, ":", "-")
}
