// Package match reconciles in-text citations with reference-list entries.
//
// Matching runs in two tiers per pair: exact matches pass silently, fuzzy
// matches (a near-miss author spelling or an off-by-one year) still count as
// matched but carry detail records so validation can surface them for review.
package match

import (
	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/detect"
	"github.com/citelab/refcheck/internal/fuzzy"
	"github.com/citelab/refcheck/internal/textnorm"
)

// DefaultYearTolerance is how far a citation year may drift from the
// reference year and still match, flagged as fuzzy.
const DefaultYearTolerance = 1

// FuzzyDetail records what was inexact about one citation-reference pair.
// Author names are the folded forms used for comparison.
type FuzzyDetail struct {
	RefID          string `json:"ref_id"`
	CitationAuthor string `json:"citation_author"`
	RefAuthor      string `json:"ref_author"`
	AuthorIsFuzzy  bool   `json:"author_is_fuzzy"`
	YearIsFuzzy    bool   `json:"year_is_fuzzy"`
	CitationYear   int    `json:"citation_year,omitempty"`
	RefYear        int    `json:"ref_year,omitempty"`
}

// Result maps each citation text to the ids of the references it matched.
// Every citation text gets a Matches entry, even when nothing matched;
// Fuzzy has entries only for citations with at least one fuzzy pair.
type Result struct {
	Matches map[string][]string      `json:"matches"`
	Fuzzy   map[string][]FuzzyDetail `json:"fuzzy_matches"`
}

// Citations matches every in-text citation against every reference.
func Citations(inText []citation.InTextCitation, refs []citation.Citation) Result {
	res := Result{
		Matches: make(map[string][]string),
		Fuzzy:   make(map[string][]FuzzyDetail),
	}

	for _, cit := range inText {
		matched := []string{}
		var fuzzyRefs []FuzzyDetail

		for i := range refs {
			d := matchPair(cit, &refs[i], DefaultYearTolerance)
			switch d.verdict {
			case fuzzy.Exact:
				matched = append(matched, refs[i].ID)
			case fuzzy.Fuzzy:
				matched = append(matched, refs[i].ID)
				fuzzyRefs = append(fuzzyRefs, FuzzyDetail{
					RefID:          refs[i].ID,
					CitationAuthor: d.citationAuthor,
					RefAuthor:      d.refAuthor,
					AuthorIsFuzzy:  d.authorIsFuzzy,
					YearIsFuzzy:    d.yearIsFuzzy,
					CitationYear:   d.citationYear,
					RefYear:        d.refYear,
				})
			}
		}

		res.Matches[cit.Text] = matched
		if len(fuzzyRefs) > 0 {
			res.Fuzzy[cit.Text] = fuzzyRefs
		}
	}

	return res
}

// MatchedCount reports how many citation texts matched at least one
// reference.
func (r Result) MatchedCount() int {
	n := 0
	for _, ids := range r.Matches {
		if len(ids) > 0 {
			n++
		}
	}
	return n
}

type pairDetail struct {
	verdict        fuzzy.Verdict
	authorIsFuzzy  bool
	yearIsFuzzy    bool
	citationAuthor string
	refAuthor      string
	citationYear   int
	refYear        int
}

// matchPair compares one citation against one reference. Numeric citations
// match purely on reference id; author-year citations require the first
// authors to match (exactly or fuzzily), the second authors too when the
// citation names exactly two, and the years to agree within the tolerance.
func matchPair(cit citation.InTextCitation, ref *citation.Citation, yearTolerance int) pairDetail {
	if cit.Type == citation.Numeric {
		for _, id := range cit.ReferenceIDs {
			if id == ref.ID {
				return pairDetail{verdict: fuzzy.Exact}
			}
		}
		return pairDetail{verdict: fuzzy.None}
	}

	citAuthors := detect.CitationAuthors(cit.Text)
	citYear := detect.CitationYear(cit.Text)

	var refNames []string
	for _, author := range ref.Authors {
		if last := citation.LastName(author); last != "" {
			refNames = append(refNames, textnorm.Fold(last))
		}
	}

	if len(citAuthors) == 0 || len(refNames) == 0 {
		return pairDetail{verdict: fuzzy.None}
	}

	d := pairDetail{citationYear: citYear, refYear: ref.Year}

	var fuzzyCitAuthor, fuzzyRefAuthor string

	switch fuzzy.AuthorMatch(citAuthors[0], refNames[0]) {
	case fuzzy.None:
		return pairDetail{verdict: fuzzy.None}
	case fuzzy.Fuzzy:
		d.authorIsFuzzy = true
		fuzzyCitAuthor = citAuthors[0]
		fuzzyRefAuthor = refNames[0]
	}

	// "(Smith & Jones, 2020)" names both authors; hold the reference to both
	// when it lists at least two.
	if len(citAuthors) == 2 && len(refNames) >= 2 {
		switch fuzzy.AuthorMatch(citAuthors[1], refNames[1]) {
		case fuzzy.None:
			return pairDetail{verdict: fuzzy.None}
		case fuzzy.Fuzzy:
			d.authorIsFuzzy = true
			// Keep the first mismatch if there already was one.
			if fuzzyCitAuthor == "" {
				fuzzyCitAuthor = citAuthors[1]
				fuzzyRefAuthor = refNames[1]
			}
		}
	}

	// Years must agree when both are known; a small drift matches fuzzily.
	if citYear != 0 && ref.Year != 0 {
		diff := citYear - ref.Year
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff == 0:
		case diff <= yearTolerance:
			d.yearIsFuzzy = true
		default:
			return pairDetail{verdict: fuzzy.None}
		}
	}

	if d.authorIsFuzzy || d.yearIsFuzzy {
		d.verdict = fuzzy.Fuzzy
	} else {
		d.verdict = fuzzy.Exact
	}

	if fuzzyCitAuthor != "" {
		d.citationAuthor = fuzzyCitAuthor
		d.refAuthor = fuzzyRefAuthor
	} else {
		d.citationAuthor = citAuthors[0]
		d.refAuthor = refNames[0]
	}
	return d
}
