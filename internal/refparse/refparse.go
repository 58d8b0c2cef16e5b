// Package refparse turns raw reference-list entries into structured
// citations. Entries are free text in any of several bibliographic styles;
// a fixed-priority grammar cascade (APA-like, Harvard, Vancouver, numbered)
// tries each in turn and a best-effort fallback catches the rest. Parsing
// never fails: an entry with no recognizable structure still yields a
// citation carrying its raw text.
package refparse

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
)

var (
	// Smith, J. (2020). Title. ...
	apaRe = regexp.MustCompile(`^([^(]+)\((\d{4}[a-z]?)\)\.\s*([^.]+)\.`)

	// Smith, J., 2020. Title. Journal, Volume(Issue), Pages.
	harvardRe = regexp.MustCompile(`^(.+?),\s*((?:19|20)\d{2}[a-z]?)\.\s*(.+)$`)

	// Smith J, Jones B. Title. Journal 2020;1(2):3-4.
	// Authors chunk ends in 1-4 capital initials; title may end . ? or !
	vancouverRe = regexp.MustCompile(`^(.+?[A-Z]{1,4})\.\s+([A-Z][^.?!]+[.?!])`)

	// 1. Smith J. Title. or [1] Smith J. Title.
	numberedRe = regexp.MustCompile(`^(?:\[?\d+\]?\.?\s*)([^.]+)\.\s*([^.]+)\.`)

	yearAnywhereRe = regexp.MustCompile(`\b(19|20)\d{2}\b`)

	doiRe = regexp.MustCompile(`(?i)(?:doi[:\s]*)?(?:https?://(?:dx\.)?doi\.org/)?(10\.\d{4,}/[^\s\]>]+)`)
)

// Parse converts ordered reference entries into citations, one per entry.
func Parse(entries []string) []citation.Citation {
	refs := make([]citation.Citation, 0, len(entries))
	for idx, entry := range entries {
		refs = append(refs, ParseEntry(entry, idx))
	}
	return refs
}

// ParseEntry parses one reference entry. idx is the zero-based position in
// the reference list, used for the numbered style's positional id.
func ParseEntry(entry string, idx int) citation.Citation {
	entry = strings.TrimSpace(entry)

	doi := ExtractDOI(entry)

	// Year anywhere in the entry, shared by whichever grammar matches.
	year := 0
	if m := yearAnywhereRe.FindString(entry); m != "" {
		year, _ = strconv.Atoi(m)
	}

	if m := apaRe.FindStringSubmatch(entry); m != nil {
		authors := parseAuthors(m[1])
		year, _ = strconv.Atoi(m[2][:4])
		title := strings.TrimSpace(m[3])
		journal, volume, issue, pages := parseAPARemainder(entry[len(m[0]):])

		c := citation.Citation{
			ID:      makeEntryID(authors, year, idx),
			RawText: entry,
			Authors: authors,
			Title:   title,
			Year:    year,
			Journal: journal,
			Volume:  volume,
			Issue:   issue,
			Pages:   pages,
		}
		c.SetDOI(doi)
		return c
	}

	if m := harvardRe.FindStringSubmatch(entry); m != nil {
		authors := parseAuthors(m[1])
		year, _ = strconv.Atoi(m[2][:4])
		title, journal, volume, issue, pages := parseHarvardRemainder(strings.TrimSpace(m[3]))

		c := citation.Citation{
			ID:      makeEntryID(authors, year, idx),
			RawText: entry,
			Authors: authors,
			Title:   title,
			Year:    year,
			Journal: journal,
			Volume:  volume,
			Issue:   issue,
			Pages:   pages,
		}
		c.SetDOI(doi)
		return c
	}

	if m := vancouverRe.FindStringSubmatchIndex(entry); m != nil {
		authors := parseVancouverAuthors(entry[m[2]:m[3]])
		title := strings.TrimSpace(entry[m[4]:m[5]])
		journal, volume, issue, pages := vancouverMetadata(entry, m[1])

		c := citation.Citation{
			ID:      makeEntryID(authors, year, idx),
			RawText: entry,
			Authors: authors,
			Title:   title,
			Year:    year,
			Journal: journal,
			Volume:  volume,
			Issue:   issue,
			Pages:   pages,
		}
		c.SetDOI(doi)
		return c
	}

	if m := numberedRe.FindStringSubmatch(entry); m != nil {
		authors := parseAuthors(m[1])
		title := strings.TrimSpace(m[2])

		c := citation.Citation{
			ID:      strconv.Itoa(idx + 1),
			RawText: entry,
			Authors: authors,
			Title:   title,
			Year:    year,
		}
		c.SetDOI(doi)
		return c
	}

	authors := fallbackAuthors(entry)
	c := citation.Citation{
		ID:      makeEntryID(authors, year, idx),
		RawText: entry,
		Authors: authors,
		Year:    year,
	}
	c.SetDOI(doi)
	return c
}

// ExtractDOI pulls a DOI out of free text, with or without a doi: label or
// doi.org URL prefix. Trailing sentence punctuation is stripped. Returns ""
// when no DOI is present.
func ExtractDOI(text string) string {
	m := doiRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimRight(m[1], ".,;")
}

func makeEntryID(authors []string, year, idx int) string {
	author := "ref" + strconv.Itoa(idx)
	if len(authors) > 0 {
		author = authors[0]
	}
	ys := ""
	if year != 0 {
		ys = strconv.Itoa(year)
	}
	return citation.MakeID(author, ys)
}
