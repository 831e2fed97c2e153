package pdftext

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRejectsNonPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("just plain text, no PDF structure"), 0o644))

	_, err := New().Extract(path)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestExtractRejectsTruncatedPDF(t *testing.T) {
	// A valid header with nothing behind it trips the reader somewhere
	// past open; whatever it does, the caller sees ErrUnreadable.
	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644))

	_, err := New().Extract(path)
	assert.ErrorIs(t, err, ErrUnreadable)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := New().Extract(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, ErrUnreadable)
}
