// Package style renders parsed references and in-text markers in a chosen
// citation style. Formatting is a pure function of (Citation, Template);
// missing fields produce warnings, never errors, so any entry from a noisy
// document can still be rendered.
package style

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/citelab/refcheck/internal/citation"
)

// AuthorForm selects how a single author name is rendered.
type AuthorForm int

const (
	// LastCommaInitials renders "Smith, J. A." (APA).
	LastCommaInitials AuthorForm = iota
	// LastInitials renders "Smith JA" (Vancouver).
	LastInitials
	// LastCommaFirst renders "Smith, John" (MLA, Chicago).
	LastCommaFirst
	// InitialsLast renders "J. A. Smith" (IEEE).
	InitialsLast
)

// Template describes one citation style. The zero value is not useful;
// start from a built-in via ByName or from Learn.
type Template struct {
	Name string

	AuthorForm     AuthorForm
	AuthorSep      string // between non-final authors
	AuthorFinalSep string // before the last author

	YearParens       bool // "(2020)" vs "2020"
	YearAfterJournal bool // Vancouver places the year in the source group

	TitleQuotes       bool
	TitleSentenceCase bool

	JournalItalic bool // markdown asterisks, as rich-text output expects
	// GroupedSource renders "Journal Year;Volume(Issue):Pages" as one
	// group (Vancouver) instead of period-separated parts.
	GroupedSource bool

	VolumeFormat string // placeholders {volume} and {issue}
	PagesFormat  string // placeholder {pages}
	DOIFormat    string // placeholder {doi}

	// NumericInText renders in-text markers as bracketed numbers.
	NumericInText bool
}

var builtins = map[string]Template{
	"apa": {
		Name:              "apa",
		AuthorForm:        LastCommaInitials,
		AuthorSep:         ", ",
		AuthorFinalSep:    ", & ",
		YearParens:        true,
		TitleSentenceCase: true,
		JournalItalic:     true,
		VolumeFormat:      "{volume}({issue})",
		PagesFormat:       "{pages}",
		DOIFormat:         "https://doi.org/{doi}",
	},
	"mla": {
		Name:           "mla",
		AuthorForm:     LastCommaFirst,
		AuthorSep:      ", ",
		AuthorFinalSep: ", and ",
		TitleQuotes:    true,
		JournalItalic:  true,
		VolumeFormat:   "vol. {volume}, no. {issue}",
		PagesFormat:    "pp. {pages}",
		DOIFormat:      "doi:{doi}",
	},
	"chicago": {
		Name:           "chicago",
		AuthorForm:     LastCommaFirst,
		AuthorSep:      ", ",
		AuthorFinalSep: ", and ",
		TitleQuotes:    true,
		JournalItalic:  true,
		VolumeFormat:   "{volume}, no. {issue}",
		PagesFormat:    "{pages}",
		DOIFormat:      "https://doi.org/{doi}",
	},
	"vancouver": {
		Name:              "vancouver",
		AuthorForm:        LastInitials,
		AuthorSep:         ", ",
		AuthorFinalSep:    ", ",
		YearAfterJournal:  true,
		TitleSentenceCase: true,
		GroupedSource:     true,
		VolumeFormat:      "{volume}({issue})",
		PagesFormat:       "{pages}",
		DOIFormat:         "https://doi.org/{doi}",
		NumericInText:     true,
	},
	"ieee": {
		Name:              "ieee",
		AuthorForm:        InitialsLast,
		AuthorSep:         ", ",
		AuthorFinalSep:    ", and ",
		TitleQuotes:       true,
		TitleSentenceCase: true,
		JournalItalic:     true,
		VolumeFormat:      "vol. {volume}, no. {issue}",
		PagesFormat:       "pp. {pages}",
		DOIFormat:         "doi: {doi}",
		NumericInText:     true,
	},
}

// ByName looks up a built-in template by its lowercase style name.
func ByName(name string) (Template, bool) {
	t, ok := builtins[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// Names lists the built-in style names.
func Names() []string {
	return []string{"apa", "mla", "chicago", "vancouver", "ieee"}
}

// FormatReference renders one bibliography entry in the template's style.
// The second return lists the fields that were missing; rendering always
// succeeds with whatever is present.
func FormatReference(c citation.Citation, t Template) (string, []string) {
	var parts []string
	var warnings []string

	if len(c.Authors) > 0 {
		parts = append(parts, formatAuthors(c.Authors, t))
	} else {
		warnings = append(warnings, "missing authors")
	}

	if c.Year > 0 {
		if !t.YearAfterJournal {
			parts = append(parts, formatYear(c.Year, t))
		}
	} else {
		warnings = append(warnings, "missing year")
	}

	if c.Title != "" {
		title := c.Title
		if t.TitleSentenceCase {
			title = sentenceCase(title)
		}
		if t.TitleQuotes {
			title = `"` + title + `"`
		}
		parts = append(parts, title)
	} else {
		warnings = append(warnings, "missing title")
	}

	if t.GroupedSource && c.Journal != "" {
		parts = append(parts, formatSourceGroup(c, t))
	} else {
		if c.Journal != "" {
			journal := c.Journal
			if t.JournalItalic {
				journal = "*" + journal + "*"
			}
			parts = append(parts, journal)
		} else {
			warnings = append(warnings, "missing journal")
		}
		if c.Year > 0 && t.YearAfterJournal {
			parts = append(parts, formatYear(c.Year, t))
		}
		if c.Volume != "" {
			vol := strings.NewReplacer("{volume}", c.Volume, "{issue}", c.Issue).Replace(t.VolumeFormat)
			parts = append(parts, cleanEmptyIssue(vol))
		}
		if c.Pages != "" {
			parts = append(parts, strings.ReplaceAll(t.PagesFormat, "{pages}", c.Pages))
		}
	}
	if t.GroupedSource && c.Journal == "" {
		warnings = append(warnings, "missing journal")
	}

	if c.DOI != "" {
		parts = append(parts, strings.ReplaceAll(t.DOIFormat, "{doi}", c.DOI))
	}

	return finishSentence(strings.Join(parts, ". ")), warnings
}

// FormatReferences renders every entry, collecting per-entry warnings keyed
// by reference id.
func FormatReferences(refs []citation.Citation, t Template) ([]string, map[string][]string) {
	out := make([]string, len(refs))
	warnings := make(map[string][]string)
	for i, r := range refs {
		s, w := FormatReference(r, t)
		out[i] = s
		if len(w) > 0 {
			warnings[r.ID] = w
		}
	}
	return out, warnings
}

// FormatInText renders the in-text marker for a reference. narrative selects
// the "Smith (2020)" form over the parenthetical "(Smith, 2020)"; numeric
// styles ignore it and emit a bracketed number from the positional id.
func FormatInText(c citation.Citation, t Template, narrative bool) string {
	if t.NumericInText {
		return "[" + c.ID + "]"
	}

	name := "Unknown"
	if len(c.Authors) > 0 {
		name = citation.LastName(c.Authors[0])
		if len(c.Authors) == 2 {
			name += " & " + citation.LastName(c.Authors[1])
		} else if len(c.Authors) > 2 {
			name += " et al."
		}
	}

	year := "n.d."
	if c.Year > 0 {
		year = fmt.Sprintf("%d", c.Year)
	}

	if narrative {
		return fmt.Sprintf("%s (%s)", name, year)
	}
	return fmt.Sprintf("(%s, %s)", name, year)
}

// cleanEmptyIssue strips the artifacts an empty issue leaves in a rendered
// volume block: "10()" -> "10", "vol. 29, no. " -> "vol. 29".
func cleanEmptyIssue(vol string) string {
	vol = strings.ReplaceAll(vol, "()", "")
	vol = strings.TrimSpace(vol)
	vol = strings.TrimSuffix(vol, ", no.")
	vol = strings.TrimSuffix(vol, "no.")
	return strings.TrimSpace(strings.TrimSuffix(vol, ","))
}

// formatSourceGroup renders the Vancouver-style "Journal Year;Vol(Issue):Pages"
// block.
func formatSourceGroup(c citation.Citation, t Template) string {
	journal := c.Journal
	if t.JournalItalic {
		journal = "*" + journal + "*"
	}
	var b strings.Builder
	b.WriteString(journal)
	if c.Year > 0 {
		fmt.Fprintf(&b, " %d", c.Year)
	}
	if c.Volume != "" || c.Pages != "" {
		b.WriteString(";")
		if c.Volume != "" {
			b.WriteString(c.Volume)
			if c.Issue != "" {
				b.WriteString("(" + c.Issue + ")")
			}
		}
		if c.Pages != "" {
			if c.Volume != "" {
				b.WriteString(":")
			}
			b.WriteString(c.Pages)
		}
	}
	return b.String()
}

func formatYear(year int, t Template) string {
	if t.YearParens {
		return fmt.Sprintf("(%d)", year)
	}
	return fmt.Sprintf("%d", year)
}

func formatAuthors(authors []string, t Template) string {
	formatted := make([]string, len(authors))
	for i, a := range authors {
		formatted[i] = formatAuthor(a, t.AuthorForm)
	}
	switch len(formatted) {
	case 1:
		return formatted[0]
	case 2:
		return formatted[0] + t.AuthorFinalSep + formatted[1]
	default:
		return strings.Join(formatted[:len(formatted)-1], t.AuthorSep) + t.AuthorFinalSep + formatted[len(formatted)-1]
	}
}

// formatAuthor re-renders one author name in the requested form, accepting
// the input shapes reference lists actually use: "Smith, John", "Smith, J.",
// "Smith JA", "John Smith".
func formatAuthor(author string, form AuthorForm) string {
	last, first, initials := splitAuthor(author)

	switch form {
	case LastCommaInitials:
		if initials == "" {
			return last
		}
		return last + ", " + dotted(initials)
	case LastInitials:
		if initials == "" {
			return last
		}
		return last + " " + strings.ReplaceAll(initials, ".", "")
	case LastCommaFirst:
		if first != "" {
			return last + ", " + first
		}
		if initials != "" {
			return last + ", " + dotted(initials)
		}
		return last
	case InitialsLast:
		if initials == "" {
			return last
		}
		return dotted(initials) + " " + last
	}
	return author
}

// splitAuthor breaks an author string into surname, first name (when
// spelled out), and initial letters (from either the first name or a
// Vancouver initials block).
func splitAuthor(author string) (last, first, initials string) {
	author = strings.TrimSpace(author)

	if i := strings.Index(author, ","); i >= 0 {
		last = strings.TrimSpace(author[:i])
		rest := strings.TrimSpace(author[i+1:])
		if isInitialsBlock(rest) {
			initials = strings.ReplaceAll(rest, ".", "")
			initials = strings.ReplaceAll(initials, " ", "")
		} else {
			first = rest
			initials = initialLetters(rest)
		}
		return last, first, initials
	}

	parts := strings.Fields(author)
	switch {
	case len(parts) >= 2 && isInitialsBlock(parts[len(parts)-1]):
		// Vancouver: trailing token is the initials, everything before is
		// the (possibly multi-word) surname.
		last = strings.Join(parts[:len(parts)-1], " ")
		initials = strings.ReplaceAll(parts[len(parts)-1], ".", "")
	case len(parts) >= 2:
		last = parts[len(parts)-1]
		first = strings.Join(parts[:len(parts)-1], " ")
		initials = initialLetters(first)
	default:
		last = author
	}
	return last, first, initials
}

func isInitialsBlock(token string) bool {
	stripped := strings.ReplaceAll(token, ".", "")
	stripped = strings.ReplaceAll(stripped, " ", "")
	if stripped == "" || len(stripped) > 4 {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func initialLetters(first string) string {
	var b strings.Builder
	for _, word := range strings.Fields(first) {
		r := []rune(word)
		if len(r) > 0 && unicode.IsLetter(r[0]) {
			b.WriteRune(unicode.ToUpper(r[0]))
		}
	}
	return b.String()
}

// dotted renders "JA" as "J. A.".
func dotted(initials string) string {
	var parts []string
	for _, r := range initials {
		parts = append(parts, string(r)+".")
	}
	return strings.Join(parts, " ")
}

// sentenceCase lowercases all but the first word, keeping words that carry
// their own capitalization (acronyms, proper nouns already capitalized).
func sentenceCase(title string) string {
	words := strings.Fields(title)
	if len(words) == 0 {
		return title
	}
	out := make([]string, len(words))
	out[0] = strings.ToUpper(words[0][:1]) + words[0][1:]
	for i, w := range words[1:] {
		if w == strings.ToUpper(w) || startsUpper(w) {
			out[i+1] = w
		} else {
			out[i+1] = strings.ToLower(w)
		}
	}
	return strings.Join(out, " ")
}

func startsUpper(w string) bool {
	r := []rune(w)
	return len(r) > 1 && unicode.IsUpper(r[0])
}

var (
	multiDot   = regexp.MustCompile(`\.\.+`)
	exclamDot  = regexp.MustCompile(`([?!])\.\s*`)
	multiSpace = regexp.MustCompile(`\s+`)
)

// finishSentence collapses punctuation artifacts from joining optional
// parts and guarantees a trailing period.
func finishSentence(s string) string {
	for strings.Contains(s, "..") {
		s = multiDot.ReplaceAllString(s, ".")
	}
	s = exclamDot.ReplaceAllString(s, "$1 ")
	s = strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
	if s != "" && !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "?") && !strings.HasSuffix(s, "!") {
		s += "."
	}
	return s
}
