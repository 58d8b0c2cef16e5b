// Package detect finds in-text citation markers in manuscript body text.
//
// Three grammars run over the text: parenthetical author-year groups
// ("(Smith, 2020; Jones & Brown, 2021)"), narrative inline citations
// ("Smith (2020) found..."), and numeric brackets ("[1-3]"). The dominant
// style decides which set is kept; numeric wins only when it strictly
// outnumbers the author-year forms.
package detect

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/textnorm"
)

// DefaultContextChars is the window captured on each side of a citation.
const DefaultContextChars = 150

// Word processors substitute typographic dashes and apostrophes into names,
// so the name character class carries the common Unicode variants.
const (
	nameApostrophes = "'’ʼ"
	nameDashes      = "‐‑‒–—"
)

var (
	authorName = "[A-Z][a-zA-Z" + nameApostrophes + nameDashes + "-]+"

	// (Smith, 2020), (Smith & Jones, 2020), (Smith et al., 2020)
	singleAuthorYear = authorName + `(?:\s+(?:&|and)\s+` + authorName + `)?(?:\s+et\s+al\.?)?,?\s*\d{4}[a-z]?`

	// Full parenthetical group, possibly semicolon-separated.
	authorYearRe = regexp.MustCompile(`\((` + singleAuthorYear + `(?:\s*;\s*` + singleAuthorYear + `)*)\)`)

	// Any parenthetical span, for the secondary scan that catches citations
	// mixed with other content, e.g. "(MoCA; Nasreddine et al., 2005)".
	parentheticalRe = regexp.MustCompile(`\(([^()]+)\)`)

	// One author expression plus year inside a group.
	individualRe = regexp.MustCompile(`(` + authorName + `(?:\s+(?:&|and)\s+` + authorName + `)?(?:\s+et\s+al\.?)?),?\s*(\d{4}[a-z]?)`)

	// Narrative style: Smith (2020), Smith et al., (2020), Smith and colleagues (2020).
	inlineRe = regexp.MustCompile(`(` + authorName + `(?:\s+(?:&|and)\s+` + authorName + `)?(?:\s+et\s+al\.?,?|\s+and\s+colleagues)?)\s*\((\d{4}[a-z]?)\)`)

	// [1], [1, 2], [1-3]
	numericRe = regexp.MustCompile(`\[(\d+(?:\s*[-,]\s*\d+)*)\]`)

	numericSplitRe = regexp.MustCompile(`\s*,\s*`)
	yearTokenRe    = regexp.MustCompile(`\b(19|20)\d{2}[a-z]?\b`)
)

// Detect finds every in-text citation in text and reports the dominant
// citation style. Results are ordered by start position; citations split out
// of one semicolon group share the group's span and context.
func Detect(text string) ([]citation.InTextCitation, citation.CitationType) {
	return detect(text, DefaultContextChars)
}

func detect(text string, contextChars int) ([]citation.InTextCitation, citation.CitationType) {
	ayMatches := authorYearRe.FindAllStringSubmatchIndex(text, -1)
	inlineMatches := inlineRe.FindAllStringSubmatchIndex(text, -1)
	numericMatches := numericRe.FindAllStringSubmatchIndex(text, -1)

	// Strictly more numeric markers than author-year forms selects numeric;
	// ties go to author-year.
	if len(numericMatches) > len(ayMatches)+len(inlineMatches) {
		var cites []citation.InTextCitation
		for _, m := range numericMatches {
			cites = append(cites, citation.InTextCitation{
				Text:         text[m[0]:m[1]],
				StartPos:     m[0],
				EndPos:       m[1],
				Type:         citation.Numeric,
				ReferenceIDs: expandNumericIDs(text[m[2]:m[3]]),
				Context:      extractContext(text, m[0], m[1], contextChars),
			})
		}
		sortByPos(cites)
		return cites, citation.Numeric
	}

	var cites []citation.InTextCitation

	// Primary grammar: full parenthetical groups, split per inner citation.
	for _, m := range ayMatches {
		ctx := extractContext(text, m[0], m[1], contextChars)
		inner := text[m[2]:m[3]]
		for _, im := range individualRe.FindAllStringSubmatch(inner, -1) {
			author, year := im[1], im[2]
			cites = append(cites, citation.InTextCitation{
				Text:         "(" + author + ", " + year + ")",
				StartPos:     m[0],
				EndPos:       m[1],
				Type:         citation.AuthorYear,
				ReferenceIDs: []string{citation.MakeID(author, year)},
				Context:      ctx,
			})
		}
	}

	// Secondary scan: parentheticals the full grammar rejected may still
	// embed citations among other content.
	for _, pm := range parentheticalRe.FindAllStringSubmatchIndex(text, -1) {
		if capturedAt(ayMatches, pm[0], pm[1]) {
			continue
		}
		content := text[pm[2]:pm[3]]
		for _, im := range individualRe.FindAllStringSubmatch(content, -1) {
			author, year := im[1], im[2]
			citText := "(" + author + ", " + year + ")"
			if alreadyFound(cites, citText, pm[0], pm[1]) {
				continue
			}
			cites = append(cites, citation.InTextCitation{
				Text:         citText,
				StartPos:     pm[0],
				EndPos:       pm[1],
				Type:         citation.AuthorYear,
				ReferenceIDs: []string{citation.MakeID(author, year)},
				Context:      extractContext(text, pm[0], pm[1], contextChars),
			})
		}
	}

	// Narrative citations, skipping any that overlap a parenthetical group
	// (the group already captured the year part).
	for _, m := range inlineMatches {
		if overlapsAny(ayMatches, m[0], m[1]) {
			continue
		}
		author := text[m[2]:m[3]]
		year := text[m[4]:m[5]]
		cites = append(cites, citation.InTextCitation{
			Text:         text[m[0]:m[1]],
			StartPos:     m[0],
			EndPos:       m[1],
			Type:         citation.AuthorYearInline,
			ReferenceIDs: []string{citation.MakeID(author, year)},
			Context:      extractContext(text, m[0], m[1], contextChars),
		})
	}

	sortByPos(cites)
	return cites, citation.AuthorYear
}

// CitationAuthors extracts the normalized, lowercased author surnames from an
// in-text citation marker like "(Smith & Jones, 2020)" or "Smith (2020)".
func CitationAuthors(citText string) []string {
	text := strings.NewReplacer("(", "", ")", "").Replace(citText)
	text = yearStripRe.ReplaceAllString(text, "")
	text = etAlRe.ReplaceAllString(text, "")
	text = colleaguesRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	var authors []string
	switch {
	case strings.Contains(text, " & "):
		authors = strings.Split(text, " & ")
	case strings.Contains(strings.ToLower(text), " and "):
		authors = andSplitRe.Split(text, -1)
	default:
		authors = []string{text}
	}

	out := make([]string, 0, len(authors))
	for _, a := range authors {
		a = strings.TrimSpace(a)
		if a == "" {
			continue
		}
		out = append(out, textnorm.Fold(a))
	}
	return out
}

// CitationYear extracts the 4-digit year from a citation marker, 0 if absent.
func CitationYear(citText string) int {
	m := yearTokenRe.FindString(citText)
	if m == "" {
		return 0
	}
	year, err := strconv.Atoi(m[:4])
	if err != nil {
		return 0
	}
	return year
}

var (
	yearStripRe  = regexp.MustCompile(`,?\s*\d{4}[a-z]?`)
	etAlRe       = regexp.MustCompile(`(?i)\s+et\s+al\.?`)
	colleaguesRe = regexp.MustCompile(`(?i)\s+and\s+colleagues`)
	andSplitRe   = regexp.MustCompile(`(?i)\s+and\s+`)
)

// expandNumericIDs turns "1, 2" or "1-3" into individual reference ids,
// expanding ranges inclusively.
func expandNumericIDs(s string) []string {
	var ids []string
	for _, part := range numericSplitRe.Split(s, -1) {
		part = strings.TrimSpace(part)
		if lo, hi, ok := splitRange(part); ok {
			for i := lo; i <= hi; i++ {
				ids = append(ids, strconv.Itoa(i))
			}
			continue
		}
		ids = append(ids, part)
	}
	return ids
}

func splitRange(part string) (lo, hi int, ok bool) {
	dash := strings.Index(part, "-")
	if dash < 0 {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(strings.TrimSpace(part[:dash]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(part[dash+1:]))
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

// extractContext captures the text window around a citation, extended to
// word boundaries and collapsed to single spaces.
func extractContext(text string, start, end, contextChars int) string {
	cs := start - contextChars
	if cs < 0 {
		cs = 0
	}
	ce := end + contextChars
	if ce > len(text) {
		ce = len(text)
	}

	if cs > 0 {
		for cs > 0 && !isWordSep(text[cs]) {
			cs--
		}
		if isWordSep(text[cs]) {
			cs++
		}
	}
	for ce < len(text) && !isWordSep(text[ce]) {
		ce++
	}

	return textnorm.CollapseSpaces(text[cs:ce])
}

func isWordSep(b byte) bool {
	return b == ' ' || b == '\n' || b == '\t'
}

// capturedAt reports whether any primary match occupies exactly [start, end).
func capturedAt(matches [][]int, start, end int) bool {
	for _, m := range matches {
		if m[0] == start && m[1] == end {
			return true
		}
	}
	return false
}

// overlapsAny reports whether [start, end) overlaps any primary match span.
func overlapsAny(matches [][]int, start, end int) bool {
	for _, m := range matches {
		if (m[0] <= start && start < m[1]) || (m[0] < end && end <= m[1]) {
			return true
		}
	}
	return false
}

// alreadyFound reports whether an identical citation text was already emitted
// inside the given parenthetical span.
func alreadyFound(cites []citation.InTextCitation, citText string, spanStart, spanEnd int) bool {
	for _, c := range cites {
		if c.Text == citText && spanStart <= c.StartPos && c.StartPos <= spanEnd {
			return true
		}
	}
	return false
}

func sortByPos(cites []citation.InTextCitation) {
	sort.SliceStable(cites, func(i, j int) bool {
		return cites[i].StartPos < cites[j].StartPos
	})
}
