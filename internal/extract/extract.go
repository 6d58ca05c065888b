// Package extract turns an uploaded PDF into bounded plain text.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	MaxPages = 5
	MaxChars = 15000
)

var errEmptyPayload = errors.New("empty payload")

func init() {
	// pdfcpu would otherwise create a config dir under $HOME on first use.
	api.DisableConfigDir()
}

type Extractor struct {
	MaxPages int // at least 1
	MaxChars int
}

func New() *Extractor {
	return &Extractor{
		MaxPages: MaxPages,
		MaxChars: MaxChars,
	}
}

// Extract returns the text of the first MaxPages pages, truncated to
// MaxChars characters. Any failure yields "".
func (e *Extractor) Extract(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Warn("PDF extraction panicked", "panic", r, "bytes", len(data))
			text = ""
		}
	}()

	doc, pages, err := e.firstPages(data)
	if err != nil {
		slog.Warn("PDF validation failed", "error", err, "bytes", len(data))
		return ""
	}

	raw, err := readText(doc)
	if err != nil {
		slog.Warn("PDF text extraction failed", "error", err, "pages", pages)
		return ""
	}

	text = Truncate(raw, e.MaxChars)
	slog.Debug("PDF text extracted", "pages", pages, "chars", len([]rune(text)))
	return text
}

// firstPages validates data and cuts it down to pages 1..MaxPages. A
// document that is already short enough is returned as is.
func (e *Extractor) firstPages(data []byte) ([]byte, int, error) {
	if len(data) == 0 {
		return nil, 0, errEmptyPayload
	}

	n, err := api.PageCount(bytes.NewReader(data), newConfiguration())
	if err != nil {
		return nil, 0, fmt.Errorf("count pages: %w", err)
	}
	if n <= e.MaxPages {
		return data, n, nil
	}

	var buf bytes.Buffer
	selection := []string{fmt.Sprintf("1-%d", e.MaxPages)}
	if err := api.Trim(bytes.NewReader(data), &buf, selection, newConfiguration()); err != nil {
		return nil, 0, fmt.Errorf("trim to %d pages: %w", e.MaxPages, err)
	}
	return buf.Bytes(), e.MaxPages, nil
}

func newConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	// Plain xref tables keep the trimmed output readable by the text reader.
	conf.WriteObjectStream = false
	conf.WriteXRefStream = false
	return conf
}

func readText(doc []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return "", fmt.Errorf("open reader: %w", err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("page %d: %w", i, err)
		}
		b.WriteString(txt)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// Truncate cuts s to at most n characters (code points).
func Truncate(s string, n int) string {
	if n < 0 {
		n = 0
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
