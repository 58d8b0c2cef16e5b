// Package pdftext extracts manuscript text from PDF files. PDFs are
// read-only input: the reference section can be parsed and validated but
// never rewritten in place.
package pdftext

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"github.com/citelab/refcheck/internal/docx"
)

// ErrNotPDF reports input that is not a readable PDF.
var ErrNotPDF = errors.New("not a valid PDF document")

// ErrReadOnly reports an attempted rewrite of a PDF manuscript.
var ErrReadOnly = errors.New("PDF documents are read-only; rewriting references requires a .docx")

// Parse extracts plain text page by page and splits it into body text and
// reference entries using the same section rules as .docx parsing.
func Parse(data []byte) (*docx.Document, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPDF, err)
	}

	var text strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			// A single unreadable page degrades the extraction, it does
			// not fail it.
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	paragraphs := splitParagraphs(text.String())
	body, header, refParas := docx.SplitSections(paragraphs)

	return &docx.Document{
		BodyText:         strings.Join(body, "\n\n"),
		Paragraphs:       paragraphs,
		ReferenceHeader:  header,
		ReferenceEntries: docx.GroupEntries(refParas),
	}, nil
}

// Rewrite always fails: PDF output is out of scope.
func Rewrite([]byte, []string) ([]byte, error) {
	return nil, ErrReadOnly
}

// splitParagraphs turns extracted PDF text into paragraph-ish units, one
// per non-empty line.
func splitParagraphs(text string) []string {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}
