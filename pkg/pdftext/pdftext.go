// Package pdftext extracts plain text from PDF files, page by page, so
// the timesheet parser can scan it line by line.
package pdftext

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dslipak/pdf"
)

// ErrUnreadable reports a file that could not be decoded as a PDF:
// corrupt, encrypted, or not a PDF at all.
var ErrUnreadable = errors.New("the file could not be read as a PDF")

// Extractor reads the text content of local PDF files.
type Extractor struct{}

func New() *Extractor {
	return &Extractor{}
}

// Extract returns the concatenated text of every page in page order.
// Words in a visual row come out space-separated on one line, which is
// the shape the timesheet parser expects.
//
// The underlying reader panics on some malformed files, so decoding is
// fenced with a recover; every failure surfaces as ErrUnreadable.
func (e *Extractor) Extract(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrUnreadable, r)
		}
	}()

	reader, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	var b strings.Builder
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrUnreadable, pageNum, err)
		}
		for _, row := range rows {
			for i, word := range row.Content {
				if i > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(word.S)
			}
			b.WriteByte('\n')
		}
	}

	return b.String(), nil
}
