package style

import (
	"regexp"
	"strings"
)

var (
	numberedExample    = regexp.MustCompile(`^\s*(\[\d+\]|\d+\.)\s`)
	parenYear          = regexp.MustCompile(`\(\d{4}\)`)
	groupedSourceYear  = regexp.MustCompile(`[A-Za-z]\s+\d{4};\d`)
	authorLastInitials = regexp.MustCompile(`^[A-Z][a-z]+\s+[A-Z]{1,3}[,.]`)
	authorInitialsLast = regexp.MustCompile(`^[A-Z]\.\s*([A-Z]\.\s*)?[A-Z][a-z]+`)
	authorLastComma    = regexp.MustCompile(`^[A-Z][a-z]+,\s+[A-Z]`)
)

// Learn infers a formatting template from example reference strings. The
// second return is false when the examples were empty or too inconclusive
// to beat the APA default.
func Learn(examples []string) (Template, bool) {
	if len(examples) == 0 {
		return builtins["apa"], false
	}

	t := builtins["apa"]
	t.Name = "custom"
	confident := false

	numbered, grouped, parens := 0, 0, 0
	lastInitials, initialsLast, lastComma := 0, 0, 0
	quotes, italics := 0, 0
	finalSeps := map[string]int{}

	for _, ex := range examples {
		ex = strings.TrimSpace(ex)
		if ex == "" {
			continue
		}
		body := numberedExample.ReplaceAllString(ex, "")
		if numberedExample.MatchString(ex) {
			numbered++
		}
		if groupedSourceYear.MatchString(body) {
			grouped++
		}
		if parenYear.MatchString(body) {
			parens++
		}
		if authorLastInitials.MatchString(body) {
			lastInitials++
		}
		if authorInitialsLast.MatchString(body) {
			initialsLast++
		}
		if authorLastComma.MatchString(body) {
			lastComma++
		}
		if strings.Contains(body, `"`) {
			quotes++
		}
		if strings.Contains(body, "*") {
			italics++
		}
		if sep := detectFinalSep(body); sep != "" {
			finalSeps[sep]++
		}
	}

	majority := (len(examples) + 1) / 2

	if numbered >= majority || grouped >= majority {
		// Numbered markers or a "Journal Year;Vol:Pages" group read as
		// Vancouver-family formatting.
		t = builtins["vancouver"]
		t.Name = "custom"
		confident = true
	} else {
		switch {
		case lastInitials > 0 && lastInitials >= lastComma:
			t.AuthorForm = LastInitials
			confident = true
		case initialsLast > 0:
			t.AuthorForm = InitialsLast
			confident = true
		case lastComma > 0:
			confident = true
		}
		t.YearParens = parens >= majority
		if !t.YearParens && grouped > 0 {
			t.YearAfterJournal = true
			t.GroupedSource = true
		}
	}

	if sep := mostCommon(finalSeps); sep != "" {
		t.AuthorFinalSep = sep
		confident = true
	}
	t.TitleQuotes = quotes >= majority
	t.JournalItalic = italics > 0

	return t, confident
}

func detectFinalSep(example string) string {
	lower := strings.ToLower(example)
	switch {
	case strings.Contains(example, ", & "):
		return ", & "
	case strings.Contains(lower, ", and "):
		return ", and "
	case strings.Contains(example, " & "):
		return " & "
	case strings.Contains(lower, " and "):
		return " and "
	}
	return ""
}

func mostCommon(counts map[string]int) string {
	best, bestN := "", 0
	for k, n := range counts {
		if n > bestN || (n == bestN && k < best) {
			best, bestN = k, n
		}
	}
	return best
}
