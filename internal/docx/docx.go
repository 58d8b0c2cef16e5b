// Package docx reads and rewrites the text of .docx manuscripts. Parsing
// extracts paragraph text from word/document.xml and splits off the
// reference section; rewriting replaces that section's paragraphs while
// keeping the header. Character formatting is not preserved on rewrite;
// output paragraphs are plain text runs.
package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotDocx reports input that is not a readable .docx archive.
var ErrNotDocx = errors.New("not a valid .docx document")

// Document is the text content of a parsed manuscript.
type Document struct {
	// BodyText is every paragraph before the reference section, joined by
	// blank lines.
	BodyText string
	// Paragraphs is every non-empty paragraph in document order.
	Paragraphs []string
	// ReferenceHeader is the header paragraph of the reference section
	// ("References", "Bibliography", ...), empty when none was found.
	ReferenceHeader string
	// ReferenceEntries is one string per bibliography entry, with wrapped
	// lines rejoined.
	ReferenceEntries []string
}

// Parse extracts the text of a .docx file and locates its reference
// section.
func Parse(data []byte) (*Document, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	paragraphs, err := documentParagraphs(reader)
	if err != nil {
		return nil, err
	}

	body, header, refParas := SplitSections(paragraphs)

	return &Document{
		BodyText:         strings.Join(body, "\n\n"),
		Paragraphs:       paragraphs,
		ReferenceHeader:  header,
		ReferenceEntries: GroupEntries(refParas),
	}, nil
}

// Rewrite returns a new .docx whose reference-section paragraphs are
// replaced by refs. The header paragraph is preserved; when the original
// has no reference section, a "References" header plus the entries are
// appended.
func Rewrite(original []byte, refs []string) ([]byte, error) {
	doc, err := Parse(original)
	if err != nil {
		return nil, err
	}

	var paragraphs []string
	if doc.ReferenceHeader == "" {
		paragraphs = append(paragraphs, doc.Paragraphs...)
		paragraphs = append(paragraphs, "References")
	} else {
		for _, p := range doc.Paragraphs {
			paragraphs = append(paragraphs, p)
			if p == doc.ReferenceHeader {
				break
			}
		}
	}
	paragraphs = append(paragraphs, refs...)

	return build(paragraphs)
}

// documentParagraphs reads word/document.xml and returns the trimmed,
// non-empty paragraph texts.
func documentParagraphs(reader *zip.Reader) ([]string, error) {
	for _, file := range reader.File {
		if file.Name != "word/document.xml" {
			continue
		}

		rc, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
		}

		return parseDocumentXML(content)
	}
	return nil, fmt.Errorf("%w: missing word/document.xml", ErrNotDocx)
}

// documentXML mirrors the parts of word/document.xml we read.
type documentXML struct {
	Body struct {
		Paragraphs []paragraphXML `xml:"p"`
	} `xml:"body"`
}

type paragraphXML struct {
	Runs []runXML `xml:"r"`
}

type runXML struct {
	Text []textXML `xml:"t"`
}

type textXML struct {
	Content string `xml:",chardata"`
}

func parseDocumentXML(content []byte) ([]string, error) {
	var doc documentXML
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	var paragraphs []string
	for _, para := range doc.Body.Paragraphs {
		var b strings.Builder
		for _, run := range para.Runs {
			for _, text := range run.Text {
				b.WriteString(text.Content)
			}
		}
		if s := strings.TrimSpace(b.String()); s != "" {
			paragraphs = append(paragraphs, s)
		}
	}
	return paragraphs, nil
}

// build produces a minimal single-part .docx containing the given
// paragraphs as plain text runs.
func build(paragraphs []string) ([]byte, error) {
	var docXML strings.Builder
	docXML.WriteString(xml.Header)
	docXML.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		docXML.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		if err := xml.EscapeText(&docXML, []byte(p)); err != nil {
			return nil, fmt.Errorf("encoding paragraph: %w", err)
		}
		docXML.WriteString(`</w:t></w:r></w:p>`)
	}
	docXML.WriteString(`</w:body></w:document>`)

	parts := []struct {
		name, content string
	}{
		{"[Content_Types].xml", contentTypesXML},
		{"_rels/.rels", relsXML},
		{"word/document.xml", docXML.String()},
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, part := range parts {
		w, err := zw.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("writing %s: %w", part.name, err)
		}
		if _, err := w.Write([]byte(part.content)); err != nil {
			return nil, fmt.Errorf("writing %s: %w", part.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

const contentTypesXML = xml.Header + `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
	`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
	`<Default Extension="xml" ContentType="application/xml"/>` +
	`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
	`</Types>`

const relsXML = xml.Header + `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
	`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
	`</Relationships>`
