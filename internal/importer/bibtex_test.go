package importer

import (
	"testing"
)

const bibFixture = `% my bibliography
@article{smith_2020,
  author = {Smith, John and Jones, Alice},
  title = {Sleep and {REM} memory},
  journal = {Journal of Sleep Research},
  year = {2020},
  volume = {29},
  number = {4},
  pages = {45--67},
  doi = {10.1111/jsr.13000}
}

@article{anon_entry,
  title = "Quoted title",
  year = 1999
}
`

func TestParseBibTeX(t *testing.T) {
	refs, err := ParseBibTeX([]byte(bibFixture))
	if err != nil {
		t.Fatalf("ParseBibTeX: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}

	r := refs[0]
	if r.ID != "smith_2020" {
		t.Errorf("ID = %q", r.ID)
	}
	if len(r.Authors) != 2 || r.Authors[0] != "Smith, John" || r.Authors[1] != "Jones, Alice" {
		t.Errorf("Authors = %v", r.Authors)
	}
	if r.Title != "Sleep and REM memory" {
		t.Errorf("Title = %q (inner braces should be stripped)", r.Title)
	}
	if r.Year != 2020 || r.Volume != "29" || r.Issue != "4" || r.Pages != "45--67" {
		t.Errorf("fields = %d/%q/%q/%q", r.Year, r.Volume, r.Issue, r.Pages)
	}
	if r.DOIURL != "https://doi.org/10.1111/jsr.13000" {
		t.Errorf("DOIURL = %q", r.DOIURL)
	}

	r = refs[1]
	if r.Title != "Quoted title" {
		t.Errorf("quoted value: Title = %q", r.Title)
	}
	if r.Year != 1999 {
		t.Errorf("bare value: Year = %d", r.Year)
	}
}

func TestParseBibTeX_SkipsNonEntries(t *testing.T) {
	src := `@comment{ignore me {nested} }
@string{jsr = "Journal of Sleep Research"}
@article{only_one, title = {Real entry}, year = {2021}}
`
	refs, err := ParseBibTeX([]byte(src))
	if err != nil {
		t.Fatalf("ParseBibTeX: %v", err)
	}
	if len(refs) != 1 || refs[0].ID != "only_one" {
		t.Errorf("refs = %+v", refs)
	}
}

func TestParseBibTeX_Empty(t *testing.T) {
	if _, err := ParseBibTeX([]byte("no entries here")); err == nil {
		t.Error("expected error for input without entries")
	}
}
