// Package dupes finds duplicate entries in a reference list.
//
// Four strategies run in priority order: identical raw text, identical
// normalized DOI, fuzzy title similarity, and author-set overlap with a
// matching year. A pair claimed by a higher strategy is never re-reported
// by a lower one.
package dupes

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/fuzzy"
	"github.com/citelab/refcheck/internal/textnorm"
)

const (
	titleSimilarityThreshold = 0.85
	authorOverlapThreshold   = 0.6
)

// Match type labels carried on each group and echoed in issue descriptions.
const (
	MatchExactText  = "exact_text"
	MatchDOI        = "doi_match"
	MatchTitleFuzzy = "title_fuzzy"
	MatchAuthorYear = "author_year"
)

// Group is one set of references believed to describe the same work.
type Group struct {
	ReferenceIDs []string `json:"reference_ids"`
	Confidence   float64  `json:"confidence"`
	MatchType    string   `json:"match_type"`
	Differences  []string `json:"differences,omitempty"`
}

// Detect runs all strategies over refs and returns groups in strategy
// priority order, then input order within a strategy.
func Detect(refs []citation.Citation) []Group {
	var groups []Group
	claimed := make(map[pairKey]bool)

	// Identical raw text (whitespace and case insensitive).
	for _, idxs := range groupByKey(refs, func(c *citation.Citation) string {
		return textnorm.CollapseSpaces(strings.ToLower(c.RawText))
	}) {
		members := pick(refs, idxs)
		groups = append(groups, Group{
			ReferenceIDs: ids(members),
			Confidence:   1.0,
			MatchType:    MatchExactText,
			Differences:  findDifferences(members),
		})
		claimAll(claimed, members)
	}

	// Identical DOI. A group made entirely of already-claimed pairs adds
	// nothing beyond the exact-text finding.
	for _, idxs := range groupByKey(refs, func(c *citation.Citation) string {
		return strings.ToLower(strings.TrimSpace(c.DOI))
	}) {
		members := pick(refs, idxs)
		if allClaimed(claimed, members) {
			continue
		}
		groups = append(groups, Group{
			ReferenceIDs: ids(members),
			Confidence:   1.0,
			MatchType:    MatchDOI,
			Differences:  findDifferences(members),
		})
		claimAll(claimed, members)
	}

	// Fuzzy title similarity.
	for i := range refs {
		for j := i + 1; j < len(refs); j++ {
			if claimed[keyOf(refs[i].ID, refs[j].ID)] {
				continue
			}
			if refs[i].Title == "" || refs[j].Title == "" {
				continue
			}
			sim := fuzzy.Ratio(strings.ToLower(refs[i].Title), strings.ToLower(refs[j].Title))
			if sim < titleSimilarityThreshold {
				continue
			}
			pair := []citation.Citation{refs[i], refs[j]}
			groups = append(groups, Group{
				ReferenceIDs: ids(pair),
				Confidence:   sim,
				MatchType:    MatchTitleFuzzy,
				Differences:  findDifferences(pair),
			})
			claimed[keyOf(refs[i].ID, refs[j].ID)] = true
		}
	}

	// Author overlap plus same or adjacent year.
	for i := range refs {
		for j := i + 1; j < len(refs); j++ {
			if claimed[keyOf(refs[i].ID, refs[j].ID)] {
				continue
			}
			if !authorYearMatch(&refs[i], &refs[j]) {
				continue
			}
			pair := []citation.Citation{refs[i], refs[j]}
			groups = append(groups, Group{
				ReferenceIDs: ids(pair),
				Confidence:   0.7,
				MatchType:    MatchAuthorYear,
				Differences:  findDifferences(pair),
			})
			claimed[keyOf(refs[i].ID, refs[j].ID)] = true
		}
	}

	return groups
}

// Issues converts Detect output into validation issues. Exact-text and DOI
// groups report as duplicate_reference, the fuzzy strategies as
// potential_duplicate; severity depends on confidence.
func Issues(refs []citation.Citation) []citation.ValidationIssue {
	var issues []citation.ValidationIssue
	for _, g := range Detect(refs) {
		severity := citation.SeverityInfo
		if g.Confidence >= 0.9 {
			severity = citation.SeverityWarning
		}
		issueType := citation.IssuePotentialDuplicate
		if g.MatchType == MatchExactText || g.MatchType == MatchDOI {
			issueType = citation.IssueDuplicateReference
		}
		diffText := ""
		if len(g.Differences) > 0 {
			diffText = " Differences: " + strings.Join(g.Differences, "; ")
		}
		issues = append(issues, citation.ValidationIssue{
			Type: issueType,
			Description: fmt.Sprintf("Possible duplicate references detected (%s, %.0f%% confidence)%s",
				g.MatchType, g.Confidence*100, diffText),
			CitationText:      strings.Join(g.ReferenceIDs, ", "),
			Suggestion:        "Review and merge these references if they refer to the same paper",
			Severity:          severity,
			RelatedReferences: g.ReferenceIDs,
		})
	}
	return issues
}

// Merge combines duplicates into one entry without mutating the inputs.
// The entry with a DOI wins, then the one with the most populated fields,
// then input order; missing fields are filled from the rest.
func Merge(refs []citation.Citation) (citation.Citation, error) {
	if len(refs) == 0 {
		return citation.Citation{}, errors.New("dupes: nothing to merge")
	}
	if len(refs) == 1 {
		return refs[0], nil
	}

	ordered := make([]citation.Citation, len(refs))
	copy(ordered, refs)
	sort.SliceStable(ordered, func(i, j int) bool {
		di, fi := mergeRank(&ordered[i])
		dj, fj := mergeRank(&ordered[j])
		if di != dj {
			return di > dj
		}
		return fi > fj
	})

	merged := ordered[0]
	for _, r := range ordered[1:] {
		if merged.DOI == "" && r.DOI != "" {
			merged.DOI = r.DOI
			merged.DOIURL = r.DOIURL
		}
		if merged.Pages == "" && r.Pages != "" {
			merged.Pages = r.Pages
		}
		if merged.Volume == "" && r.Volume != "" {
			merged.Volume = r.Volume
		}
		if merged.Issue == "" && r.Issue != "" {
			merged.Issue = r.Issue
		}
		if merged.Journal == "" && r.Journal != "" {
			merged.Journal = r.Journal
		}
	}
	return merged, nil
}

func mergeRank(c *citation.Citation) (hasDOI, fields int) {
	if c.DOI != "" {
		hasDOI = 1
	}
	for _, present := range []bool{
		len(c.Authors) > 0,
		c.Year != 0,
		c.Title != "",
		c.Journal != "",
		c.Volume != "",
		c.Pages != "",
	} {
		if present {
			fields++
		}
	}
	return hasDOI, fields
}

// pairKey identifies an unordered reference pair.
type pairKey struct {
	a, b string
}

func keyOf(id1, id2 string) pairKey {
	if id2 < id1 {
		id1, id2 = id2, id1
	}
	return pairKey{id1, id2}
}

func claimAll(claimed map[pairKey]bool, members []citation.Citation) {
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			claimed[keyOf(members[i].ID, members[j].ID)] = true
		}
	}
}

func allClaimed(claimed map[pairKey]bool, members []citation.Citation) bool {
	for i := range members {
		for j := i + 1; j < len(members); j++ {
			if !claimed[keyOf(members[i].ID, members[j].ID)] {
				return false
			}
		}
	}
	return true
}

// groupByKey buckets reference indices by a non-empty key, keeping first-seen
// key order, and returns only buckets with two or more members.
func groupByKey(refs []citation.Citation, key func(*citation.Citation) string) [][]int {
	var order []string
	buckets := make(map[string][]int)
	for i := range refs {
		k := key(&refs[i])
		if k == "" {
			continue
		}
		if _, seen := buckets[k]; !seen {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], i)
	}
	var out [][]int
	for _, k := range order {
		if len(buckets[k]) > 1 {
			out = append(out, buckets[k])
		}
	}
	return out
}

func pick(refs []citation.Citation, idxs []int) []citation.Citation {
	out := make([]citation.Citation, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, refs[i])
	}
	return out
}

func ids(members []citation.Citation) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		out = append(out, m.ID)
	}
	return out
}

func authorYearMatch(a, b *citation.Citation) bool {
	switch {
	case a.Year != 0 && b.Year != 0:
		d := a.Year - b.Year
		if d < 0 {
			d = -d
		}
		if d > 1 {
			return false
		}
	case a.Year != 0 || b.Year != 0:
		// Only one side knows its year.
		return false
	}

	if len(a.Authors) == 0 || len(b.Authors) == 0 {
		return false
	}
	setA := surnameSet(a.Authors)
	setB := surnameSet(b.Authors)
	overlap := 0
	for name := range setA {
		if setB[name] {
			overlap++
		}
	}
	total := len(setA)
	if len(setB) > total {
		total = len(setB)
	}
	if total == 0 {
		return false
	}
	return float64(overlap)/float64(total) >= authorOverlapThreshold
}

func surnameSet(authors []string) map[string]bool {
	set := make(map[string]bool, len(authors))
	for _, a := range authors {
		if name := textnorm.Fold(citation.LastName(a)); name != "" {
			set[name] = true
		}
	}
	return set
}

// findDifferences describes how members of a group disagree, for issue text.
func findDifferences(refs []citation.Citation) []string {
	var diffs []string

	authorStrs := make(map[string]bool)
	for _, r := range refs {
		authorStrs[strings.Join(r.Authors, ", ")] = true
	}
	if len(authorStrs) > 1 {
		diffs = append(diffs, "author formatting")
	}

	var years []string
	yearSet := make(map[int]bool)
	for _, r := range refs {
		if r.Year != 0 {
			years = append(years, strconv.Itoa(r.Year))
			yearSet[r.Year] = true
		}
	}
	if len(yearSet) > 1 {
		diffs = append(diffs, fmt.Sprintf("years differ (%s)", strings.Join(years, ", ")))
	}

	titleSet := make(map[string]bool)
	titled := 0
	for _, r := range refs {
		if r.Title != "" {
			titled++
			titleSet[strings.ToLower(r.Title)] = true
		}
	}
	if titled > 1 && len(titleSet) > 1 {
		diffs = append(diffs, "titles differ slightly")
	}

	journalSet := make(map[string]bool)
	for _, r := range refs {
		if r.Journal != "" {
			journalSet[strings.ToLower(r.Journal)] = true
		}
	}
	if len(journalSet) > 1 {
		diffs = append(diffs, "journal names differ")
	}

	withDOI := 0
	for _, r := range refs {
		if r.DOI != "" {
			withDOI++
		}
	}
	if withDOI > 0 && withDOI < len(refs) {
		diffs = append(diffs, "only some have DOI")
	}

	return diffs
}
