package refparse

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	doiLinkStripRe = regexp.MustCompile(`(?i)\s*(?:doi[:\s]*)?(?:https?://)?(?:dx\.)?doi\.org/\S+`)
	urlStripRe     = regexp.MustCompile(`\s*https?://\S+`)

	// Volume/issue/pages tails at the end of a Harvard or APA remainder.
	volIssuePagesRe = regexp.MustCompile(`[,.\s]\s*(\d+)\s*\(([^)]+)\)\s*,?\s*(\d+[-\x{2013}]\d+|\d+)\s*\.?\s*$`)
	volPagesRe      = regexp.MustCompile(`[,.\s]\s*(\d+)\s*,\s*(\d+[-\x{2013}]\d+|\d+)\s*\.?\s*$`)
	justVolRe       = regexp.MustCompile(`[,.\s]\s*(\d+)\s*\.?\s*$`)
	justPagesRe     = regexp.MustCompile(`,\s*(\d+[-\x{2013}]\d+)\s*\.?\s*$`)

	splitPointRe      = regexp.MustCompile(`\.\s+`)
	journalAbbrevRe   = regexp.MustCompile(`\b[A-Z][a-z]*\.`)
	titleSingleCapRe  = regexp.MustCompile(`\s[A-Z]\.$`)
	titleAbbrevTailRe = regexp.MustCompile(`\s(J|Int|Am|Br|Eur|Ann|Arch|Proc|Trans)\.$`)

	// Vancouver: pages may be article numbers (e00205) or prefixed (S264-S271).
	vancouverVolRe      = regexp.MustCompile(`(\d+)\s*\(([^)]+)\)\s*[:.]?\s*([eS]?\d+(?:[-\x{2013}][eS]?\d+)?)`)
	vancouverSimpleRe   = regexp.MustCompile(`;(\d+)\s*:\s*([eS]?\d+(?:[-\x{2013}][eS]?\d+)?)`)
	vancouverVolIssueRe = regexp.MustCompile(`;(\d+)\s*\(([^)]+)\)\s*[:.]?\s*([eS]?\d+(?:[-\x{2013}][eS]?\d+)?)?`)

	// Trailing "2017 Apr 14;" style year-with-date tails on journal text.
	yearDateTailRe = regexp.MustCompile(`\b(19|20)\d{2}(?:\s+[A-Z][a-z]{2,8}(?:\s+\d{1,2})?)?[;.\s]*$`)
)

// stripLinks removes trailing DOI and URL text before structural parsing.
func stripLinks(s string) string {
	s = doiLinkStripRe.ReplaceAllString(s, "")
	return urlStripRe.ReplaceAllString(s, "")
}

func asciiPages(pages string) string {
	return strings.ReplaceAll(pages, "–", "-")
}

// splitTail finds the volume/issue/pages tail of a remainder and returns the
// head text preceding it. Patterns are tried in fixed priority.
func splitTail(remainder string) (volume, issue, pages, head string) {
	if m := volIssuePagesRe.FindStringSubmatchIndex(remainder); m != nil {
		volume = remainder[m[2]:m[3]]
		issue = remainder[m[4]:m[5]]
		pages = asciiPages(remainder[m[6]:m[7]])
		return volume, issue, pages, remainder[:m[0]]
	}
	if m := volPagesRe.FindStringSubmatchIndex(remainder); m != nil {
		volume = remainder[m[2]:m[3]]
		pages = asciiPages(remainder[m[4]:m[5]])
		return volume, issue, pages, remainder[:m[0]]
	}
	if m := justPagesRe.FindStringSubmatchIndex(remainder); m != nil {
		pages = asciiPages(remainder[m[2]:m[3]])
		return volume, issue, pages, remainder[:m[0]]
	}
	if m := justVolRe.FindStringSubmatchIndex(remainder); m != nil {
		volume = remainder[m[2]:m[3]]
		return volume, issue, pages, remainder[:m[0]]
	}
	return "", "", "", remainder
}

// parseHarvardRemainder decomposes the text after "Authors, Year." into
// title, journal, volume, issue, and pages. The title/journal boundary is
// ambiguous because journal abbreviations contain periods, so every ". "
// split point is scored for how journal-like its right side is and the best
// split wins.
func parseHarvardRemainder(remainder string) (title, journal, volume, issue, pages string) {
	remainder = strings.TrimSpace(stripLinks(remainder))
	if remainder == "" {
		return "", "", "", "", ""
	}

	volume, issue, pages, head := splitTail(remainder)
	head = strings.Trim(head, " ,.")
	if head == "" {
		return "", "", volume, issue, pages
	}

	bestScore := 0
	bestPos := -1
	for _, m := range splitPointRe.FindAllStringIndex(head, -1) {
		candTitle := strings.TrimSpace(head[:m[0]+1])
		candJournal := strings.Trim(head[m[1]:], " .")
		if candJournal == "" {
			continue
		}

		score := scoreJournalSplit(candTitle, candJournal)
		if bestPos < 0 || score > bestScore || (score == bestScore && m[0] > bestPos) {
			bestScore = score
			bestPos = m[0]
			title = candTitle
			journal = candJournal
		}
	}

	if bestPos < 0 {
		// No usable split: the whole head is the title.
		return head, "", volume, issue, pages
	}
	return title, journal, volume, issue, pages
}

// scoreJournalSplit rates a candidate title/journal split. Higher is more
// journal-like on the right side.
func scoreJournalSplit(title, journal string) int {
	score := 0

	if len(journal) < 40 {
		score += 3
	} else if len(journal) < 60 {
		score += 1
	}
	if journalAbbrevRe.MatchString(journal) {
		score += 2
	}
	if r, _ := utf8.DecodeRuneInString(journal); unicode.IsLower(r) {
		score -= 3
	}

	lower := strings.ToLower(journal)
	if strings.HasPrefix(lower, "the ") || strings.HasPrefix(lower, "a ") || strings.HasPrefix(lower, "an ") {
		score -= 2
	}
	if strings.Contains(lower, " the ") || strings.Contains(lower, " of ") {
		score -= 1
	}

	if len(title) > len(journal) {
		score += 1
	}

	// A title ending in a bare capital abbreviation almost always means the
	// split stole the start of the journal abbreviation.
	if titleSingleCapRe.MatchString(title) {
		score -= 4
	}
	if titleAbbrevTailRe.MatchString(title) {
		score -= 5
	}

	return score
}

// parseAPARemainder extracts journal/volume/issue/pages from the text after
// an APA-style title. The title is already known, so the head before the
// volume tail is the journal.
func parseAPARemainder(remainder string) (journal, volume, issue, pages string) {
	remainder = strings.TrimSpace(stripLinks(remainder))
	if remainder == "" {
		return "", "", "", ""
	}

	volume, issue, pages, head := splitTail(remainder)
	journal = strings.Trim(head, " ,.")
	return journal, volume, issue, pages
}

// vancouverMetadata extracts journal/volume/issue/pages from the text after
// a Vancouver-style title, e.g. "J Sleep Res. 2017 Apr 14;7(4):41."
func vancouverMetadata(entry string, titleEnd int) (journal, volume, issue, pages string) {
	remaining := strings.TrimSpace(entry[titleEnd:])
	remaining = stripLinks(remaining)

	var before string
	switch {
	case matchInto(vancouverVolRe, remaining, &volume, &issue, &pages, &before):
	case matchInto2(vancouverSimpleRe, remaining, &volume, &pages, &before):
		issue = ""
	case matchInto(vancouverVolIssueRe, remaining, &volume, &issue, &pages, &before):
	}

	if before != "" {
		before = yearDateTailRe.ReplaceAllString(before, "")
		before = strings.Trim(before, " .;")
		if before != "" {
			journal = before
		}
	}

	if journal == "" {
		if loc := yearAnywhereRe.FindStringIndex(remaining); loc != nil {
			beforeYear := strings.Trim(remaining[:loc[0]], " .;")
			if len(beforeYear) > 2 {
				journal = beforeYear
			}
		}
	}

	return journal, volume, issue, asciiPages(pages)
}

func matchInto(re *regexp.Regexp, s string, volume, issue, pages, before *string) bool {
	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return false
	}
	*volume = s[m[2]:m[3]]
	*issue = s[m[4]:m[5]]
	if m[6] >= 0 {
		*pages = s[m[6]:m[7]]
	}
	*before = s[:m[0]]
	return true
}

func matchInto2(re *regexp.Regexp, s string, volume, pages, before *string) bool {
	m := re.FindStringSubmatchIndex(s)
	if m == nil {
		return false
	}
	*volume = s[m[2]:m[3]]
	*pages = s[m[4]:m[5]]
	*before = s[:m[0]]
	return true
}
