package refparse

import (
	"testing"
)

func TestParseEntry_APA(t *testing.T) {
	c := ParseEntry("Smith, J. (2020). Example title. Journal X, 10(2), 45-67.", 0)

	if len(c.Authors) == 0 || c.Authors[0] != "Smith, J" {
		t.Fatalf("authors = %v, want [Smith, J]", c.Authors)
	}
	if c.Year != 2020 {
		t.Errorf("year = %d, want 2020", c.Year)
	}
	if c.Title != "Example title" {
		t.Errorf("title = %q, want Example title", c.Title)
	}
	if c.Journal != "Journal X" {
		t.Errorf("journal = %q, want Journal X", c.Journal)
	}
	if c.Volume != "10" || c.Issue != "2" || c.Pages != "45-67" {
		t.Errorf("vol/issue/pages = %q/%q/%q, want 10/2/45-67", c.Volume, c.Issue, c.Pages)
	}
	if c.ID != "smith_2020" {
		t.Errorf("id = %q, want smith_2020", c.ID)
	}
}

func TestParseEntry_Harvard(t *testing.T) {
	entry := "Salthouse, T.A., Babcock, R.L., 1991. Decomposing adult age differences in working memory. Developmental Psychology, 27(5), 763-776."
	c := ParseEntry(entry, 0)

	if len(c.Authors) != 2 {
		t.Fatalf("authors = %v, want 2 entries", c.Authors)
	}
	if c.Authors[0] != "Salthouse, T.A." || c.Authors[1] != "Babcock, R.L" {
		t.Errorf("authors = %v", c.Authors)
	}
	if c.Year != 1991 {
		t.Errorf("year = %d, want 1991", c.Year)
	}
	if c.Title != "Decomposing adult age differences in working memory." {
		t.Errorf("title = %q", c.Title)
	}
	if c.Journal != "Developmental Psychology" {
		t.Errorf("journal = %q, want Developmental Psychology", c.Journal)
	}
	if c.Volume != "27" || c.Issue != "5" || c.Pages != "763-776" {
		t.Errorf("vol/issue/pages = %q/%q/%q", c.Volume, c.Issue, c.Pages)
	}
}

func TestParseEntry_HarvardAbbreviatedJournal(t *testing.T) {
	entry := "Beetz, A., 2012. The biology of the human-animal bond. Anim. Front. 4(3), 32-36."
	c := ParseEntry(entry, 0)

	if c.Year != 2012 {
		t.Errorf("year = %d, want 2012", c.Year)
	}
	if c.Title != "The biology of the human-animal bond." {
		t.Errorf("title = %q", c.Title)
	}
	if c.Journal != "Anim. Front" {
		t.Errorf("journal = %q, want Anim. Front", c.Journal)
	}
	if c.Volume != "4" || c.Issue != "3" || c.Pages != "32-36" {
		t.Errorf("vol/issue/pages = %q/%q/%q", c.Volume, c.Issue, c.Pages)
	}
}

func TestParseEntry_Vancouver(t *testing.T) {
	entry := "Smith J, Jones AB. Sleep quality in aging adults. J Sleep Res. 2017;26(4):441-448."
	c := ParseEntry(entry, 0)

	if len(c.Authors) != 2 || c.Authors[0] != "Smith J" || c.Authors[1] != "Jones AB" {
		t.Fatalf("authors = %v", c.Authors)
	}
	if c.Title != "Sleep quality in aging adults." {
		t.Errorf("title = %q", c.Title)
	}
	if c.Journal != "J Sleep Res" {
		t.Errorf("journal = %q, want J Sleep Res", c.Journal)
	}
	if c.Volume != "26" || c.Issue != "4" || c.Pages != "441-448" {
		t.Errorf("vol/issue/pages = %q/%q/%q", c.Volume, c.Issue, c.Pages)
	}
	if c.Year != 2017 {
		t.Errorf("year = %d, want 2017", c.Year)
	}
	if c.ID != "smith_2017" {
		t.Errorf("id = %q, want smith_2017", c.ID)
	}
}

func TestParseEntry_Numbered(t *testing.T) {
	c := ParseEntry("1. Smith, John. The study of things. 2020.", 2)

	if c.ID != "3" {
		t.Errorf("id = %q, want positional 3", c.ID)
	}
	if len(c.Authors) == 0 || c.Authors[0] != "Smith, J" {
		t.Errorf("authors = %v (initials are clipped at the first lowercase rune)", c.Authors)
	}
	if c.Title != "The study of things" {
		t.Errorf("title = %q", c.Title)
	}
	if c.Year != 2020 {
		t.Errorf("year = %d, want 2020", c.Year)
	}
}

func TestParseEntry_Fallback(t *testing.T) {
	c := ParseEntry("Some unstructured entry without authors, published around 1999.", 0)

	if c.RawText == "" {
		t.Error("raw text must always be kept")
	}
	if c.Year != 1999 {
		t.Errorf("year = %d, want 1999", c.Year)
	}
}

func TestParseEntry_DOI(t *testing.T) {
	entry := "Doe, J. (2021). On something. Journal Y, 1, 1-9. https://doi.org/10.1234/abc.def."
	c := ParseEntry(entry, 0)

	if c.DOI != "10.1234/abc.def" {
		t.Errorf("doi = %q, want 10.1234/abc.def", c.DOI)
	}
	if c.DOIURL != "https://doi.org/10.1234/abc.def" {
		t.Errorf("doi_url = %q", c.DOIURL)
	}
	if c.Journal != "Journal Y" {
		t.Errorf("journal = %q, want Journal Y (DOI must not leak into journal)", c.Journal)
	}
}

func TestExtractDOI(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"doi:10.1000/xyz123", "10.1000/xyz123"},
		{"https://doi.org/10.1000/xyz123", "10.1000/xyz123"},
		{"http://dx.doi.org/10.1000/xyz123;", "10.1000/xyz123"},
		{"see 10.1234/j.abc.2020.01.002.", "10.1234/j.abc.2020.01.002"},
		{"no doi here", ""},
		{"10.12/too-short-prefix", ""},
	}
	for _, tc := range cases {
		if got := ExtractDOI(tc.in); got != tc.want {
			t.Errorf("ExtractDOI(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParse_PreservesOrderAndRawText(t *testing.T) {
	entries := []string{
		"Smith, J. (2020). First. Journal A, 1, 1-2.",
		"Jones, K. (2021). Second. Journal B, 2, 3-4.",
	}
	refs := Parse(entries)
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}
	for i, r := range refs {
		if r.RawText != entries[i] {
			t.Errorf("ref %d raw text = %q, want %q", i, r.RawText, entries[i])
		}
	}
}

func TestParseAuthors_Separators(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"Smith, J. & Jones, K.", []string{"Smith, J.", "Jones, K"}},
		{"Cohen, S., & Hoberman, H. M.", []string{"Cohen, S.", "Hoberman, H. M"}},
		{"Alpha Smith and Beta Jones", []string{"Alpha Smith", "Beta Jones"}},
	}
	for _, tc := range cases {
		got := parseAuthors(tc.in)
		if len(got) != len(tc.want) {
			t.Errorf("parseAuthors(%q) = %v, want %v", tc.in, got, tc.want)
			continue
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Errorf("parseAuthors(%q)[%d] = %q, want %q", tc.in, i, got[i], tc.want[i])
			}
		}
	}
}

func TestParseEntry_NeverFails(t *testing.T) {
	for _, entry := range []string{"", ".", "????", "   "} {
		c := ParseEntry(entry, 0)
		if c.ID == "" {
			t.Errorf("entry %q produced empty id", entry)
		}
	}
}
