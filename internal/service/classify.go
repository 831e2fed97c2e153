package service

import (
	"errors"

	"github.com/angelofallars/statmaster/internal/timesheet"
	"github.com/angelofallars/statmaster/pkg/pdftext"
)

// FailureKind classifies analysis failures for the boundaries: the web
// handlers pick HTTP status codes from it and both front-ends use it to
// decide whether an error message is safe to show verbatim.
type FailureKind string

const (
	FailureNoRecords     FailureKind = "no_records"
	FailureUnreadablePDF FailureKind = "unreadable_pdf"
	FailureInvalidInput  FailureKind = "invalid_input"
	FailureInternal      FailureKind = "internal"
)

// Classify maps an error coming out of the analyzer, or out of a
// boundary's own validation, onto its failure kind. Anything it does
// not recognize is internal.
func Classify(err error) FailureKind {
	switch {
	case errors.Is(err, timesheet.ErrNoRecords):
		return FailureNoRecords
	case errors.Is(err, pdftext.ErrUnreadable):
		return FailureUnreadablePDF
	case errors.Is(err, ErrInvalidInput):
		return FailureInvalidInput
	default:
		return FailureInternal
	}
}

// Expected reports whether the failure is user-correctable: its message
// names what the user should change, so it can be shown as-is. Internal
// failures get logged and replaced with a generic message instead.
func (k FailureKind) Expected() bool {
	return k != FailureInternal
}
