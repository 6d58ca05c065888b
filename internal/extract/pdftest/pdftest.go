// Package pdftest builds small Helvetica PDFs for tests.
package pdftest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"
	"github.com/stretchr/testify/require"
)

// Build returns a PDF with one page per entry and Flate-compressed content
// streams. Lines within an entry are separated by "\n" and each line is
// drawn as its own text object.
func Build(tb testing.TB, pages ...string) []byte {
	tb.Helper()
	return build(tb, true, pages)
}

// BuildUncompressed is Build with plain content streams.
func BuildUncompressed(tb testing.TB, pages ...string) []byte {
	tb.Helper()
	return build(tb, false, pages)
}

func build(tb testing.TB, compress bool, pages []string) []byte {
	tb.Helper()

	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetCompression(compress)
	// One entry is one page, however many lines it has.
	doc.SetAutoPageBreak(false, 0)

	for _, page := range pages {
		doc.AddPage()
		doc.SetFont("Helvetica", "", 10)
		for _, line := range strings.Split(page, "\n") {
			doc.Cell(0, 5, line)
			doc.Ln(5)
		}
	}

	var buf bytes.Buffer
	require.NoError(tb, doc.Output(&buf))
	return buf.Bytes()
}
