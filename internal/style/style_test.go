package style

import (
	"strings"
	"testing"

	"github.com/citelab/refcheck/internal/citation"
)

func sampleRef() citation.Citation {
	return citation.Citation{
		ID:      "smith_2020",
		Authors: []string{"Smith, J.", "Jones, A. B."},
		Title:   "Sleep and memory consolidation",
		Year:    2020,
		Journal: "Journal of Sleep Research",
		Volume:  "29",
		Issue:   "4",
		Pages:   "112-130",
		DOI:     "10.1111/jsr.13000",
	}
}

func TestByName(t *testing.T) {
	for _, name := range Names() {
		if _, ok := ByName(name); !ok {
			t.Errorf("ByName(%q) not found", name)
		}
	}
	if _, ok := ByName("turabian"); ok {
		t.Error("unknown style should not resolve")
	}
	if tpl, ok := ByName(" APA "); !ok || tpl.Name != "apa" {
		t.Error("ByName should trim and lowercase")
	}
}

func TestFormatReference_APA(t *testing.T) {
	tpl, _ := ByName("apa")
	got, warnings := FormatReference(sampleRef(), tpl)
	want := "Smith, J., & Jones, A. B. (2020). Sleep and memory consolidation. *Journal of Sleep Research*. 29(4). 112-130. https://doi.org/10.1111/jsr.13000."
	if got != want {
		t.Errorf("FormatReference =\n  %q\nwant\n  %q", got, want)
	}
	if len(warnings) != 0 {
		t.Errorf("unexpected warnings: %v", warnings)
	}
}

func TestFormatReference_Vancouver(t *testing.T) {
	tpl, _ := ByName("vancouver")
	got, _ := FormatReference(sampleRef(), tpl)
	if !strings.Contains(got, "Journal of Sleep Research 2020;29(4):112-130") {
		t.Errorf("missing grouped source block: %q", got)
	}
	if !strings.HasPrefix(got, "Smith J, Jones AB.") {
		t.Errorf("Vancouver author block wrong: %q", got)
	}
}

func TestFormatReference_MissingFieldsWarn(t *testing.T) {
	tpl, _ := ByName("apa")
	_, warnings := FormatReference(citation.Citation{ID: "x", RawText: "???"}, tpl)
	for _, want := range []string{"missing authors", "missing year", "missing title", "missing journal"} {
		found := false
		for _, w := range warnings {
			if w == want {
				found = true
			}
		}
		if !found {
			t.Errorf("warning %q not emitted (got %v)", want, warnings)
		}
	}
}

func TestFormatReference_VolumeWithoutIssue(t *testing.T) {
	ref := sampleRef()
	ref.Issue = ""

	apa, _ := ByName("apa")
	got, _ := FormatReference(ref, apa)
	if strings.Contains(got, "()") {
		t.Errorf("empty issue parens survived: %q", got)
	}
	if !strings.Contains(got, "29.") {
		t.Errorf("volume dropped: %q", got)
	}

	mla, _ := ByName("mla")
	got, _ = FormatReference(ref, mla)
	if strings.Contains(got, "no.") {
		t.Errorf("dangling issue label survived: %q", got)
	}
	if !strings.Contains(got, "vol. 29") {
		t.Errorf("volume dropped: %q", got)
	}

	chicago, _ := ByName("chicago")
	got, _ = FormatReference(ref, chicago)
	if strings.Contains(got, "no.") || strings.Contains(got, "29,") {
		t.Errorf("issue artifacts survived: %q", got)
	}
}

func TestFormatReference_NoDoubledPeriods(t *testing.T) {
	tpl, _ := ByName("apa")
	ref := sampleRef()
	ref.Title = "Does sleep matter?"
	got, _ := FormatReference(ref, tpl)
	if strings.Contains(got, "..") || strings.Contains(got, "?.") {
		t.Errorf("punctuation not cleaned: %q", got)
	}
}

func TestFormatInText(t *testing.T) {
	tpl, _ := ByName("apa")
	ref := sampleRef()

	if got := FormatInText(ref, tpl, false); got != "(Smith & Jones, 2020)" {
		t.Errorf("parenthetical = %q", got)
	}
	if got := FormatInText(ref, tpl, true); got != "Smith & Jones (2020)" {
		t.Errorf("narrative = %q", got)
	}

	ref.Authors = []string{"Smith, J.", "Jones, A.", "Brown, K."}
	if got := FormatInText(ref, tpl, false); got != "(Smith et al., 2020)" {
		t.Errorf("three-author parenthetical = %q", got)
	}

	van, _ := ByName("vancouver")
	num := citation.Citation{ID: "3"}
	if got := FormatInText(num, van, false); got != "[3]" {
		t.Errorf("numeric marker = %q", got)
	}
}

func TestFormatAuthor_Forms(t *testing.T) {
	cases := []struct {
		in   string
		form AuthorForm
		want string
	}{
		{"Smith, John", LastCommaInitials, "Smith, J."},
		{"Smith, John Allen", LastCommaInitials, "Smith, J. A."},
		{"Smith JA", LastCommaInitials, "Smith, J. A."},
		{"Smith, John", LastInitials, "Smith J"},
		{"Van der Berg KJ", LastInitials, "Van der Berg KJ"},
		{"Smith, John", LastCommaFirst, "Smith, John"},
		{"Smith, J.", LastCommaFirst, "Smith, J."},
		{"Smith, John", InitialsLast, "J. Smith"},
		{"John Smith", InitialsLast, "J. Smith"},
	}
	for _, tc := range cases {
		if got := formatAuthor(tc.in, tc.form); got != tc.want {
			t.Errorf("formatAuthor(%q, %d) = %q, want %q", tc.in, tc.form, got, tc.want)
		}
	}
}

func TestLearn_Empty(t *testing.T) {
	tpl, confident := Learn(nil)
	if confident {
		t.Error("empty examples should not be confident")
	}
	if tpl.Name != "apa" {
		t.Errorf("default template = %q, want apa", tpl.Name)
	}
}

func TestLearn_Numeric(t *testing.T) {
	examples := []string{
		"[1] Smith J. A study of sleep. J Sleep Res 2020;29:112-30.",
		"[2] Jones A. Memory and rest. Sleep 2019;42:1-9.",
	}
	tpl, confident := Learn(examples)
	if !confident {
		t.Error("numbered examples should be conclusive")
	}
	if !tpl.NumericInText || !tpl.GroupedSource {
		t.Errorf("expected Vancouver-family template, got %+v", tpl)
	}
}

func TestLearn_AuthorYear(t *testing.T) {
	examples := []string{
		"Smith, J., & Jones, A. (2020). A study of sleep. Journal of Sleep Research, 29(4), 112-130.",
		"Brown, K., & Lee, M. (2019). Rest and memory. Sleep, 42(1), 1-9.",
	}
	tpl, confident := Learn(examples)
	if !confident {
		t.Error("consistent APA examples should be conclusive")
	}
	if tpl.NumericInText {
		t.Error("author-year examples should not learn a numeric style")
	}
	if !tpl.YearParens {
		t.Error("parenthesized years should be learned")
	}
	if tpl.AuthorFinalSep != ", & " {
		t.Errorf("AuthorFinalSep = %q, want %q", tpl.AuthorFinalSep, ", & ")
	}
}
