package importer

import (
	"testing"
)

const zoteroFixture = `[
  {
    "key": "ABCD1234",
    "citationKey": "smith2020sleep",
    "title": "Sleep and memory",
    "publicationTitle": "Journal of Sleep Research",
    "date": "2020-06-01",
    "volume": 29,
    "issue": "4",
    "pages": "45-67",
    "DOI": "10.1111/jsr.13000",
    "creators": [
      {"creatorType": "author", "firstName": "John", "lastName": "Smith"},
      {"creatorType": "author", "firstName": "Alice", "lastName": "Jones"},
      {"creatorType": "editor", "firstName": "Ed", "lastName": "Itor"}
    ]
  },
  {
    "key": "EFGH5678",
    "title": "Untitled consortium report",
    "date": "June 2019",
    "creators": [
      {"creatorType": "author", "name": "Sleep Research Consortium"}
    ]
  }
]`

func TestParseZotero(t *testing.T) {
	refs, err := ParseZotero([]byte(zoteroFixture))
	if err != nil {
		t.Fatalf("ParseZotero: %v", err)
	}
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}

	r := refs[0]
	if r.ID != "smith2020sleep" {
		t.Errorf("ID = %q, want citationKey", r.ID)
	}
	if r.RawText != "" {
		t.Errorf("imported citations have no raw text, got %q", r.RawText)
	}
	if len(r.Authors) != 2 || r.Authors[0] != "Smith, John" || r.Authors[1] != "Jones, Alice" {
		t.Errorf("Authors = %v", r.Authors)
	}
	if r.Year != 2020 {
		t.Errorf("Year = %d", r.Year)
	}
	if r.Journal != "Journal of Sleep Research" {
		t.Errorf("Journal = %q", r.Journal)
	}
	if r.Volume != "29" || r.Issue != "4" || r.Pages != "45-67" {
		t.Errorf("volume/issue/pages = %q/%q/%q", r.Volume, r.Issue, r.Pages)
	}
	if r.DOI != "10.1111/jsr.13000" || r.DOIURL != "https://doi.org/10.1111/jsr.13000" {
		t.Errorf("DOI = %q, DOIURL = %q", r.DOI, r.DOIURL)
	}

	// Second item: no citationKey, falls back to the Zotero key;
	// institutional creator keeps its single name.
	r = refs[1]
	if r.ID != "EFGH5678" {
		t.Errorf("ID = %q, want Zotero key", r.ID)
	}
	if len(r.Authors) != 1 || r.Authors[0] != "Sleep Research Consortium" {
		t.Errorf("Authors = %v", r.Authors)
	}
	if r.Year != 2019 {
		t.Errorf("Year = %d", r.Year)
	}
}

func TestParseZotero_Malformed(t *testing.T) {
	if _, err := ParseZotero([]byte("{not an array")); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestFlexibleString(t *testing.T) {
	var f FlexibleString
	for in, want := range map[string]string{
		`"29"`: "29",
		`29`:   "29",
		`null`: "",
	} {
		if err := f.UnmarshalJSON([]byte(in)); err != nil {
			t.Errorf("UnmarshalJSON(%s): %v", in, err)
		}
		if f.String() != want {
			t.Errorf("FlexibleString(%s) = %q, want %q", in, f.String(), want)
		}
	}
	if err := f.UnmarshalJSON([]byte(`[1,2]`)); err == nil {
		t.Error("expected error for array value")
	}
}
