package docx

import (
	"regexp"
	"strings"
)

// headerPattern matches a reference-section header paragraph: one of the
// usual header words on its own line, optionally with a trailing colon.
var headerPattern = regexp.MustCompile(
	`(?i)^\s*(references?|bibliography|works?\s+cited|literature\s+cited|sources?|citations?)\s*:?\s*$`)

// entryStartPattern marks a paragraph that begins a new bibliography entry:
// a bracketed or dotted number, or a capitalized surname (hyphen and
// apostrophe variants allowed) followed by a capital. Anything else is a
// wrapped continuation of the previous entry.
var entryStartPattern = regexp.MustCompile(
	`^(\[\d+\]|\d+\.\s+|[A-Z][a-zA-Z'` + "‐‑‒–—" + `-]+,?\s+[A-Z])`)

// SplitSections divides paragraphs into body text, the reference header,
// and the raw reference-section paragraphs. The reference section runs
// from the first header match to the end of the document.
func SplitSections(paragraphs []string) (body []string, header string, refs []string) {
	for i, p := range paragraphs {
		if headerPattern.MatchString(p) {
			return paragraphs[:i], p, paragraphs[i+1:]
		}
	}
	return paragraphs, "", nil
}

// GroupEntries joins line-wrapped reference paragraphs into one string per
// bibliography entry.
func GroupEntries(paragraphs []string) []string {
	var entries []string
	var current []string

	for _, p := range paragraphs {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if entryStartPattern.MatchString(p) {
			if len(current) > 0 {
				entries = append(entries, strings.Join(current, " "))
			}
			current = []string{p}
		} else if len(current) > 0 {
			current = append(current, p)
		} else {
			// Leading continuation with no entry yet: start one anyway so
			// the text is not lost.
			current = []string{p}
		}
	}
	if len(current) > 0 {
		entries = append(entries, strings.Join(current, " "))
	}
	return entries
}
