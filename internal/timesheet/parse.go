package timesheet

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrNoRecords reports a document that yielded no clock records at all.
// The message doubles as guidance for the user, since the usual cause is
// a PDF in a layout the parser was never built for.
var ErrNoRecords = errors.New(`no clock records found: expected the "Calendario Periodico Lavori" layout, with DD/MM/YYYY date lines followed by time pairs like "5, 30 6, 30"`)

var (
	dateRe     = regexp.MustCompile(`(\d{1,2}/\d{1,2}/\d{4})`)
	timePairRe = regexp.MustCompile(`\b(\d{1,2}),\s*(\d{1,2})\s+(\d{1,2}),\s*(\d{1,2})\b`)
)

// dateLayout accepts single-digit days and months, matching how the PDF
// text extraction spells dates.
const dateLayout = "2/1/2006"

// Diagnostics counts what one parse pass saw, line by line. Every line
// lands in exactly one of DateLines, Intervals or Skipped.
type Diagnostics struct {
	Lines     int `json:"lines"`
	DateLines int `json:"date_lines"`
	Intervals int `json:"intervals"`
	Skipped   int `json:"skipped"`
}

type scanState int

const (
	// awaitingDate drops every line until a date line arrives.
	awaitingDate scanState = iota
	// haveDate reads time pairs under the current date cursor.
	haveDate
)

type lineKind int

const (
	lineSkipped lineKind = iota
	lineDate
	lineInterval
)

// lineScanner is the state machine behind Parse. It holds the date
// cursor: the most recent date line, under which all following time
// pairs are filed until the next date line replaces it.
type lineScanner struct {
	state scanState
	date  time.Time
}

// next consumes one line of text and reports what it was. A line that
// carries a date never yields an interval, even if a time pair sits on
// the same line: the date cursor always wins.
func (s *lineScanner) next(line string) (Interval, lineKind) {
	if match := dateRe.FindString(line); match != "" {
		date, err := time.Parse(dateLayout, match)
		if err != nil {
			// An impossible calendar date (31/02/2025) clears the
			// cursor so later time pairs are not filed under a stale
			// date.
			s.state = awaitingDate
			return Interval{}, lineDate
		}
		s.state = haveDate
		s.date = date
		return Interval{}, lineDate
	}

	if s.state != haveDate {
		return Interval{}, lineSkipped
	}

	match := timePairRe.FindStringSubmatch(line)
	if match == nil {
		return Interval{}, lineSkipped
	}
	startHour, _ := strconv.Atoi(match[1])
	startMin, _ := strconv.Atoi(match[2])
	endHour, _ := strconv.Atoi(match[3])
	endMin, _ := strconv.Atoi(match[4])
	if startHour > 23 || endHour > 23 || startMin > 59 || endMin > 59 {
		return Interval{}, lineSkipped
	}

	start := time.Date(s.date.Year(), s.date.Month(), s.date.Day(), startHour, startMin, 0, 0, time.UTC)
	end := time.Date(s.date.Year(), s.date.Month(), s.date.Day(), endHour, endMin, 0, 0, time.UTC)
	if end.Before(start) {
		// Clock-out before clock-in means the shift ran past midnight.
		end = end.Add(24 * time.Hour)
	}

	return Interval{
		Date:  s.date,
		Start: start,
		End:   end,
		Hours: end.Sub(start).Hours(),
	}, lineInterval
}

// Parse scans raw timesheet text and returns every clock interval it
// recognizes, in document order. It returns ErrNoRecords when the text
// contains no recognizable records.
func Parse(text string) ([]Interval, error) {
	intervals, _, err := ParseWithDiagnostics(text)
	return intervals, err
}

// ParseWithDiagnostics is Parse plus per-line counters, for logging how
// much of a document the parser understood.
func ParseWithDiagnostics(text string) ([]Interval, Diagnostics, error) {
	var (
		scanner   lineScanner
		intervals []Interval
		diag      Diagnostics
	)

	// Text extraction can run a whole table region together into one
	// line, so the split must not cap line length.
	for _, line := range strings.Split(text, "\n") {
		diag.Lines++
		interval, kind := scanner.next(line)
		switch kind {
		case lineDate:
			diag.DateLines++
		case lineInterval:
			diag.Intervals++
			intervals = append(intervals, interval)
		default:
			diag.Skipped++
		}
	}

	if len(intervals) == 0 {
		return nil, diag, ErrNoRecords
	}
	return intervals, diag, nil
}
