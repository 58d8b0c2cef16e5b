package pdftext

import (
	"errors"
	"testing"
)

func TestParse_NotPDF(t *testing.T) {
	if _, err := Parse([]byte("this is not a pdf")); !errors.Is(err, ErrNotPDF) {
		t.Errorf("expected ErrNotPDF, got %v", err)
	}
}

func TestRewrite_ReadOnly(t *testing.T) {
	if _, err := Rewrite(nil, []string{"x"}); !errors.Is(err, ErrReadOnly) {
		t.Errorf("expected ErrReadOnly, got %v", err)
	}
}

func TestSplitParagraphs(t *testing.T) {
	got := splitParagraphs("First line.\n\n  Second line.  \n\nReferences\nSmith, J. (2020). A study.\n")
	want := []string{"First line.", "Second line.", "References", "Smith, J. (2020). A study."}
	if len(got) != len(want) {
		t.Fatalf("got %d paragraphs, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("paragraph %d = %q, want %q", i, got[i], want[i])
		}
	}
}
