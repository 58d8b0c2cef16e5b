package match

import (
	"testing"

	"github.com/citelab/refcheck/internal/citation"
)

func authorYear(text string) citation.InTextCitation {
	return citation.InTextCitation{Text: text, Type: citation.AuthorYear}
}

func ref(id string, year int, authors ...string) citation.Citation {
	return citation.Citation{ID: id, Authors: authors, Year: year}
}

func TestCitations_Exact(t *testing.T) {
	res := Citations(
		[]citation.InTextCitation{authorYear("(Smith, 2020)")},
		[]citation.Citation{ref("smith_2020", 2020, "Smith, J")},
	)

	ids := res.Matches["(Smith, 2020)"]
	if len(ids) != 1 || ids[0] != "smith_2020" {
		t.Fatalf("matches = %v, want [smith_2020]", ids)
	}
	if len(res.Fuzzy) != 0 {
		t.Errorf("fuzzy = %v, want none", res.Fuzzy)
	}
}

func TestCitations_NoMatchStillRecorded(t *testing.T) {
	res := Citations(
		[]citation.InTextCitation{authorYear("(Brown, 2020)")},
		[]citation.Citation{ref("smith_2020", 2020, "Smith, J")},
	)

	ids, ok := res.Matches["(Brown, 2020)"]
	if !ok {
		t.Fatal("citation text missing from matches")
	}
	if len(ids) != 0 {
		t.Errorf("matches = %v, want empty", ids)
	}
}

func TestCitations_FuzzyAuthor(t *testing.T) {
	res := Citations(
		[]citation.InTextCitation{authorYear("(Smyth, 2020)")},
		[]citation.Citation{ref("smith_2020", 2020, "Smith, J")},
	)

	if ids := res.Matches["(Smyth, 2020)"]; len(ids) != 1 || ids[0] != "smith_2020" {
		t.Fatalf("matches = %v, want [smith_2020]", ids)
	}
	details := res.Fuzzy["(Smyth, 2020)"]
	if len(details) != 1 {
		t.Fatalf("fuzzy details = %v, want 1 entry", details)
	}
	d := details[0]
	if !d.AuthorIsFuzzy || d.YearIsFuzzy {
		t.Errorf("flags = author %v year %v, want author only", d.AuthorIsFuzzy, d.YearIsFuzzy)
	}
	if d.CitationAuthor != "smyth" || d.RefAuthor != "smith" {
		t.Errorf("authors = %q vs %q", d.CitationAuthor, d.RefAuthor)
	}
}

func TestCitations_FuzzyYear(t *testing.T) {
	res := Citations(
		[]citation.InTextCitation{authorYear("(Smith, 2019)")},
		[]citation.Citation{ref("smith_2020", 2020, "Smith, J")},
	)

	if ids := res.Matches["(Smith, 2019)"]; len(ids) != 1 {
		t.Fatalf("matches = %v, want one", ids)
	}
	d := res.Fuzzy["(Smith, 2019)"][0]
	if d.AuthorIsFuzzy || !d.YearIsFuzzy {
		t.Errorf("flags = author %v year %v, want year only", d.AuthorIsFuzzy, d.YearIsFuzzy)
	}
	if d.CitationYear != 2019 || d.RefYear != 2020 {
		t.Errorf("years = %d vs %d", d.CitationYear, d.RefYear)
	}
	if d.CitationAuthor != "smith" {
		t.Errorf("citation author = %q, want first author", d.CitationAuthor)
	}
}

func TestCitations_YearTooFar(t *testing.T) {
	res := Citations(
		[]citation.InTextCitation{authorYear("(Smith, 2017)")},
		[]citation.Citation{ref("smith_2020", 2020, "Smith, J")},
	)

	if ids := res.Matches["(Smith, 2017)"]; len(ids) != 0 {
		t.Errorf("matches = %v, want none for a 3-year gap", ids)
	}
}

func TestCitations_MissingRefYearMatches(t *testing.T) {
	res := Citations(
		[]citation.InTextCitation{authorYear("(Smith, 2020)")},
		[]citation.Citation{ref("smith_0", 0, "Smith, J")},
	)

	if ids := res.Matches["(Smith, 2020)"]; len(ids) != 1 {
		t.Fatalf("matches = %v, want one", ids)
	}
	if len(res.Fuzzy) != 0 {
		t.Errorf("an absent year must not count as fuzzy: %v", res.Fuzzy)
	}
}

func TestCitations_TwoAuthors(t *testing.T) {
	refs := []citation.Citation{
		ref("smith_2020", 2020, "Smith, J", "Jones, K"),
		ref("smith_brown_2020", 2020, "Smith, J", "Brown, K"),
	}
	res := Citations([]citation.InTextCitation{authorYear("(Smith & Jones, 2020)")}, refs)

	ids := res.Matches["(Smith & Jones, 2020)"]
	if len(ids) != 1 || ids[0] != "smith_2020" {
		t.Fatalf("matches = %v, want [smith_2020] only", ids)
	}
}

func TestCitations_TwoAuthorCitationSingleAuthorRef(t *testing.T) {
	// The second-author check only applies when the reference lists two or
	// more authors.
	res := Citations(
		[]citation.InTextCitation{authorYear("(Smith & Jones, 2020)")},
		[]citation.Citation{ref("smith_2020", 2020, "Smith, J")},
	)

	if ids := res.Matches["(Smith & Jones, 2020)"]; len(ids) != 1 {
		t.Errorf("matches = %v, want one", ids)
	}
}

func TestCitations_SecondAuthorFuzzy(t *testing.T) {
	res := Citations(
		[]citation.InTextCitation{authorYear("(Smith & Jonez, 2020)")},
		[]citation.Citation{ref("smith_2020", 2020, "Smith, J", "Jones, K")},
	)

	details := res.Fuzzy["(Smith & Jonez, 2020)"]
	if len(details) != 1 {
		t.Fatalf("fuzzy details = %v, want 1 entry", details)
	}
	d := details[0]
	if d.CitationAuthor != "jonez" || d.RefAuthor != "jones" {
		t.Errorf("detail names the wrong pair: %q vs %q", d.CitationAuthor, d.RefAuthor)
	}
}

func TestCitations_EtAlMatchesFirstAuthor(t *testing.T) {
	res := Citations(
		[]citation.InTextCitation{authorYear("(Nasreddine et al., 2005)")},
		[]citation.Citation{ref("nasreddine_2005", 2005, "Nasreddine, Z", "Phillips, N", "Bedirian, V")},
	)

	if ids := res.Matches["(Nasreddine et al., 2005)"]; len(ids) != 1 {
		t.Errorf("matches = %v, want one", ids)
	}
}

func TestCitations_VancouverRefAuthors(t *testing.T) {
	res := Citations(
		[]citation.InTextCitation{authorYear("(Van der Berg, 2018)")},
		[]citation.Citation{ref("vanderberg_2018", 2018, "Van der Berg JA")},
	)

	if ids := res.Matches["(Van der Berg, 2018)"]; len(ids) != 1 {
		t.Errorf("matches = %v, want one", ids)
	}
}

func TestCitations_Numeric(t *testing.T) {
	cit := citation.InTextCitation{
		Text:         "[1-2]",
		Type:         citation.Numeric,
		ReferenceIDs: []string{"1", "2"},
	}
	refs := []citation.Citation{
		ref("1", 2020, "Smith, J"),
		ref("2", 2019, "Jones, K"),
		ref("3", 2018, "Brown, L"),
	}
	res := Citations([]citation.InTextCitation{cit}, refs)

	ids := res.Matches["[1-2]"]
	if len(ids) != 2 || ids[0] != "1" || ids[1] != "2" {
		t.Errorf("matches = %v, want [1 2]", ids)
	}
}

func TestResult_MatchedCount(t *testing.T) {
	res := Citations(
		[]citation.InTextCitation{
			authorYear("(Smith, 2020)"),
			authorYear("(Ghost, 1990)"),
		},
		[]citation.Citation{ref("smith_2020", 2020, "Smith, J")},
	)

	if got := res.MatchedCount(); got != 1 {
		t.Errorf("matched count = %d, want 1", got)
	}
}
