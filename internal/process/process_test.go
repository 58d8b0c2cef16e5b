package process

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/citelab/refcheck/internal/citation"
)

// writeTestDocx builds a .docx on disk with one run per paragraph.
func writeTestDocx(t *testing.T, dir, name string, paragraphs []string) string {
	t.Helper()

	var docXML strings.Builder
	docXML.WriteString(`<?xml version="1.0"?><w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		docXML.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	docXML.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write([]byte(docXML.String())); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func manuscriptParagraphs() []string {
	return []string{
		"Prior work (Smith, 2020) confirmed this. Other results (Jones, 2021) differ.",
		"References",
		"Smith, J. (2020). A study. Journal, 1, 1-10.",
	}
}

func TestLoadDocument_UnsupportedExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(path, []byte("text"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadDocument(path); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestLoadDocument_Missing(t *testing.T) {
	if _, err := LoadDocument(filepath.Join(t.TempDir(), "absent.docx")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestQuickCheck(t *testing.T) {
	path := writeTestDocx(t, t.TempDir(), "paper.docx", manuscriptParagraphs())

	res, err := QuickCheck(path)
	if err != nil {
		t.Fatalf("QuickCheck: %v", err)
	}
	if res.TotalCitations != 2 {
		t.Errorf("TotalCitations = %d, want 2", res.TotalCitations)
	}
	if res.TotalReferences != 1 {
		t.Errorf("TotalReferences = %d, want 1", res.TotalReferences)
	}
	if res.MatchedCount != 1 || res.UnmatchedCount != 1 {
		t.Errorf("matched/unmatched = %d/%d, want 1/1", res.MatchedCount, res.UnmatchedCount)
	}
	if res.DetectedType != citation.AuthorYear {
		t.Errorf("DetectedType = %q", res.DetectedType)
	}
	if len(res.Unmatched) != 1 || res.Unmatched[0] != "(Jones, 2021)" {
		t.Errorf("Unmatched = %v", res.Unmatched)
	}
	if res.EstimatedTimeSeconds < minEstimateSeconds {
		t.Errorf("estimate below floor: %d", res.EstimatedTimeSeconds)
	}
}

func TestRun_OfflinePipeline(t *testing.T) {
	dir := t.TempDir()
	path := writeTestDocx(t, dir, "paper.docx", manuscriptParagraphs())

	opts := DefaultOptions()
	// No API attached: DOI resolution and web features stay off.
	res, err := Run(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if res.RunID == "" {
		t.Error("missing run id")
	}
	if len(res.Citations) != 2 || len(res.References) != 1 {
		t.Errorf("citations/references = %d/%d", len(res.Citations), len(res.References))
	}
	if res.Report == nil {
		t.Fatal("missing report")
	}
	if res.Report.IsValid {
		t.Error("report should flag the unmatched Jones citation")
	}
	if res.Summary == "" {
		t.Error("missing summary")
	}
	if len(res.Formatted) != 1 {
		t.Fatalf("Formatted = %v", res.Formatted)
	}

	wantOut := filepath.Join(dir, "paper_checked.docx")
	if res.OutputPath != wantOut {
		t.Errorf("OutputPath = %q, want %q", res.OutputPath, wantOut)
	}
	if _, err := os.Stat(wantOut); err != nil {
		t.Errorf("output not written: %v", err)
	}

	// The rewritten document must parse again with the new references.
	doc, err := LoadDocument(wantOut)
	if err != nil {
		t.Fatalf("reparsing output: %v", err)
	}
	if len(doc.ReferenceEntries) != 1 {
		t.Errorf("rewritten entries = %v", doc.ReferenceEntries)
	}
}

func TestRun_ValidDocument(t *testing.T) {
	path := writeTestDocx(t, t.TempDir(), "ok.docx", []string{
		"Prior work (Smith, 2020) confirmed this.",
		"References",
		"Smith, J. (2020). A study. Journal, 1, 1-10.",
	})

	res, err := Run(context.Background(), path, Options{Validate: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Report == nil || !res.Report.IsValid {
		t.Errorf("expected valid report, got %+v", res.Report)
	}
	if res.OutputPath != "" {
		t.Error("no rewrite requested, OutputPath should be empty")
	}
}

func TestTemplateFor(t *testing.T) {
	if tpl := templateFor(Options{Style: "vancouver"}); tpl.Name != "vancouver" {
		t.Errorf("named style not used: %q", tpl.Name)
	}
	if tpl := templateFor(Options{Style: "nonsense"}); tpl.Name != "apa" {
		t.Errorf("unknown style should fall back to apa, got %q", tpl.Name)
	}
	opts := Options{
		Style:            "apa",
		ExampleCitations: []string{"[1] Smith J. A study. J Sci 2020;1:1-10."},
	}
	if tpl := templateFor(opts); !tpl.NumericInText {
		t.Error("conclusive examples should beat the named style")
	}
}

func TestDefaultOutputPath(t *testing.T) {
	if got := defaultOutputPath("/tmp/ms.docx"); got != "/tmp/ms_checked.docx" {
		t.Errorf("defaultOutputPath = %q", got)
	}
}
