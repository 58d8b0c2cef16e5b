package refparse

import (
	"regexp"
	"strings"
)

var (
	// One "LastName, Initials" pair; surnames may be multi-word
	// ("Van der Berg") or hyphenated/apostrophized.
	harvardAuthorRe = regexp.MustCompile(`([A-Z][a-zA-Z'-]+(?:\s+[a-z]+)?(?:\s+[A-Z][a-zA-Z'-]+)*),\s*([A-Z]\.?\s*(?:[A-Z]\.?\s*)*)`)

	harvardSingleRe = regexp.MustCompile(`^[A-Z][a-zA-Z'-]+,\s*[A-Z]`)
	ampersandSplit  = regexp.MustCompile(`\s*&\s*`)
	andSplit        = regexp.MustCompile(`(?i)\s+and\s+`)

	fallbackHeadRe = regexp.MustCompile(`^([^.]+)\.`)
	fallbackNameRe = regexp.MustCompile(`[A-Z][a-z]+\s+[A-Z]`)
)

// parseAuthors splits an author string into individual author names.
// The Harvard "Last, Initials" sub-grammar is tried first; otherwise the
// string is split on ampersands, "and", or a multi-comma list.
func parseAuthors(authorString string) []string {
	authorString = strings.TrimRight(strings.TrimSpace(authorString), ",")

	if harvard := parseHarvardAuthors(authorString); len(harvard) > 0 {
		return harvard
	}

	var authors []string
	switch {
	case strings.Contains(authorString, " & "):
		authors = strings.Split(authorString, " & ")
	case strings.Contains(strings.ToLower(authorString), " and "):
		authors = andSplit.Split(authorString, -1)
	case strings.Contains(authorString, ", ") && strings.Count(authorString, ",") > 1:
		authors = strings.Split(authorString, ", ")
	default:
		authors = []string{authorString}
	}

	out := make([]string, 0, len(authors))
	for _, a := range authors {
		if a = strings.TrimSpace(a); a != "" {
			out = append(out, a)
		}
	}
	return out
}

// parseHarvardAuthors handles "Salthouse, T.A., Babcock, R.L." and
// "Cohen, S., & Hoberman, H. M." forms. Returns nil when the string does not
// follow the Last-comma-Initials pattern.
func parseHarvardAuthors(authorString string) []string {
	authorString = strings.TrimRight(strings.TrimSpace(authorString), ",.")

	var authors []string
	for _, part := range ampersandSplit.Split(authorString, -1) {
		part = strings.TrimRight(strings.TrimSpace(part), ",")
		if part == "" {
			continue
		}

		matches := harvardAuthorRe.FindAllStringSubmatch(part, -1)
		if len(matches) > 0 {
			for _, m := range matches {
				initials := strings.TrimRight(strings.TrimSpace(m[2]), ",")
				authors = append(authors, m[1]+", "+initials)
			}
			continue
		}
		if harvardSingleRe.MatchString(part) {
			authors = append(authors, part)
		}
	}
	return authors
}

// parseVancouverAuthors splits "Smith J, Jones AB, Williams CD" on commas,
// keeping each "LastName Initials" chunk intact.
func parseVancouverAuthors(authorString string) []string {
	authorString = strings.TrimRight(strings.TrimSpace(authorString), ",.")

	var authors []string
	for _, part := range strings.Split(authorString, ",") {
		if part = strings.TrimSpace(part); part != "" {
			authors = append(authors, part)
		}
	}
	return authors
}

// fallbackAuthors is the last-resort extraction: text before the first
// period, accepted only when it is short and contains a name-like
// capital-lowercase-space-capital shape.
func fallbackAuthors(entry string) []string {
	m := fallbackHeadRe.FindStringSubmatch(entry)
	if m == nil {
		return nil
	}
	head := m[1]
	if len(head) < 100 && fallbackNameRe.MatchString(head) {
		return parseVancouverAuthors(head)
	}
	return nil
}
