// Package validate produces the citation-reference reconciliation report.
//
// A run matches every in-text citation against the reference list, then
// layers findings on top: missing and uncited entries, near-miss author and
// year warnings, duplicates, style consistency, completeness, journal-name
// consistency, and optional retraction lookups. Checks never short-circuit;
// each contributes its issues in a fixed order so reports are stable.
package validate

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/complete"
	"github.com/citelab/refcheck/internal/dupes"
	"github.com/citelab/refcheck/internal/journal"
	"github.com/citelab/refcheck/internal/match"
	"github.com/citelab/refcheck/internal/retraction"
	"github.com/citelab/refcheck/internal/suggest"
	"github.com/citelab/refcheck/internal/textnorm"
)

// secondsPerLookup is the web-search time budgeted per unmatched citation
// when estimating a full run.
const secondsPerLookup = 8

// ProgressFunc reports suggestion progress while unmatched citations are
// processed; done counts from 1 to total.
type ProgressFunc func(done, total int)

// Options selects which checks run and wires their external dependencies.
// The zero value runs only the core matching checks; DefaultOptions enables
// everything that works offline.
type Options struct {
	WebSearch     bool // CrossRef suggestions for unmatched citations
	Completeness  bool
	AdvancedDupes bool // full duplicate detection instead of the legacy key scan
	Retractions   bool
	JournalNames  bool

	// Searcher feeds the suggestion engine; nil keeps suggestions offline
	// even when WebSearch is set.
	Searcher suggest.Searcher
	// Retraction is required when Retractions is set; a nil lookup skips the
	// check.
	Retraction retraction.Lookup
	// Journals overrides the built-in normalizer table.
	Journals *journal.Normalizer

	Progress ProgressFunc
}

// DefaultOptions enables every offline check. Web search and retraction
// lookups stay off until their clients are supplied.
func DefaultOptions() Options {
	return Options{
		WebSearch:     true,
		Completeness:  true,
		AdvancedDupes: true,
		JournalNames:  true,
	}
}

// Run validates in-text citations against the reference list and returns the
// complete report. Issues appear grouped by check in the order the checks
// run; is_valid means zero issues of any severity.
func Run(ctx context.Context, inText []citation.InTextCitation, refs []citation.Citation, opts Options) citation.ValidationReport {
	issues := []citation.ValidationIssue{}

	res := match.Citations(inText, refs)

	cited := make(map[string]bool)
	for _, ids := range res.Matches {
		for _, id := range ids {
			cited[id] = true
		}
	}

	unmatched := unmatchedCitations(inText, res.Matches)

	var searcher suggest.Searcher
	if opts.WebSearch {
		searcher = opts.Searcher
	}
	eng := suggest.New(searcher)

	for i, c := range unmatched {
		if opts.Progress != nil {
			opts.Progress(i+1, len(unmatched))
		}
		issues = append(issues, citation.ValidationIssue{
			Type:         citation.IssueMissingReference,
			Description:  "In-text citation has no matching reference",
			CitationText: c.Text,
			Suggestion:   eng.ReferenceFix(ctx, c, refs),
			Severity:     citation.SeverityWarning,
		})
	}

	issues = append(issues, fuzzyMatchIssues(inText, res)...)

	uncited := uncitedReferences(refs, cited)
	for i := range uncited {
		issues = append(issues, citation.ValidationIssue{
			Type:         citation.IssueUncitedReference,
			Description:  "Reference is not cited in the text",
			CitationText: clipRaw(uncited[i].RawText),
			Suggestion:   suggest.UncitedHint(&uncited[i], unmatched),
			Severity:     citation.SeverityWarning,
		})
	}

	if opts.AdvancedDupes {
		issues = append(issues, dupes.Issues(refs)...)
	} else {
		issues = append(issues, legacyDuplicateIssues(refs)...)
	}

	issues = append(issues, formatConsistencyIssues(inText)...)
	issues = append(issues, ampersandIssues(inText)...)

	if opts.Completeness {
		issues = append(issues, complete.Issues(refs, true)...)
	}

	if opts.JournalNames {
		norm := opts.Journals
		if norm == nil {
			norm = journal.New()
		}
		issues = append(issues, norm.ConsistencyIssues(refs)...)
	}

	if opts.Retractions && opts.Retraction != nil {
		checker := retraction.NewChecker(opts.Retraction)
		issues = append(issues, checker.Issues(ctx, refs, nil)...)
	}

	return citation.ValidationReport{
		TotalInTextCitations: len(inText),
		TotalReferences:      len(refs),
		MatchedCitations:     matchedOccurrences(inText, res),
		Issues:               issues,
		IsValid:              len(issues) == 0,
	}
}

// QuickCheck summarizes the offline matching pass, used to decide whether a
// full run with web search is worth the wait.
type QuickCheck struct {
	TotalCitations       int `json:"total_citations"`
	TotalReferences      int `json:"total_references"`
	MatchedCount         int `json:"matched_count"`
	UnmatchedCount       int `json:"unmatched_count"`
	EstimatedTimeSeconds int `json:"estimated_time_seconds"`
}

// Quick counts matched and unmatched citations without any network work.
func Quick(inText []citation.InTextCitation, refs []citation.Citation) QuickCheck {
	res := match.Citations(inText, refs)
	matched := matchedOccurrences(inText, res)
	unmatched := len(inText) - matched
	return QuickCheck{
		TotalCitations:       len(inText),
		TotalReferences:      len(refs),
		MatchedCount:         matched,
		UnmatchedCount:       unmatched,
		EstimatedTimeSeconds: unmatched * secondsPerLookup,
	}
}

// NeedsWebSearch reports whether a full run would reach out to CrossRef.
func (q QuickCheck) NeedsWebSearch() bool {
	return q.UnmatchedCount > 0
}

// TimeEstimate renders the expected full-run duration for display.
func (q QuickCheck) TimeEstimate() string {
	if q.EstimatedTimeSeconds < 60 {
		return fmt.Sprintf("~%d seconds", q.EstimatedTimeSeconds)
	}
	minutes := q.EstimatedTimeSeconds / 60
	return fmt.Sprintf("~%d-%d minutes", minutes, minutes+1)
}

// Summary renders the report as the plain-text block shown to users, issues
// grouped by type in first-appearance order.
func Summary(report citation.ValidationReport) string {
	divider := strings.Repeat("=", 50)
	lines := []string{
		divider,
		"CITATION VALIDATION REPORT",
		divider,
		"",
		fmt.Sprintf("Total in-text citations: %d", report.TotalInTextCitations),
		fmt.Sprintf("Total references: %d", report.TotalReferences),
		fmt.Sprintf("Matched citations: %d", report.MatchedCitations),
		"",
	}

	if report.IsValid {
		lines = append(lines, "Status: VALID - All citations match references")
	} else {
		lines = append(lines, fmt.Sprintf("Status: ISSUES FOUND - %d issue(s)", len(report.Issues)), "")

		byType := make(map[string][]citation.ValidationIssue)
		var order []string
		for _, issue := range report.Issues {
			if _, ok := byType[issue.Type]; !ok {
				order = append(order, issue.Type)
			}
			byType[issue.Type] = append(byType[issue.Type], issue)
		}

		for _, typ := range order {
			group := byType[typ]
			heading := strings.ToUpper(strings.ReplaceAll(typ, "_", " "))
			lines = append(lines, fmt.Sprintf("\n%s (%d):", heading, len(group)), strings.Repeat("-", 40))
			for _, issue := range group {
				lines = append(lines, "  - "+issue.Description)
				if issue.CitationText != "" {
					lines = append(lines, "    Citation: "+issue.CitationText)
				}
				if issue.Suggestion != "" {
					lines = append(lines, "    Suggestion: "+issue.Suggestion)
				}
			}
		}
	}

	lines = append(lines, "", divider)
	return strings.Join(lines, "\n")
}

// matchedOccurrences counts citation occurrences (not distinct texts) that
// matched at least one reference.
func matchedOccurrences(inText []citation.InTextCitation, res match.Result) int {
	n := 0
	for _, c := range inText {
		if len(res.Matches[c.Text]) > 0 {
			n++
		}
	}
	return n
}

// unmatchedCitations returns the citations with no match, one per distinct
// text, in first-occurrence order.
func unmatchedCitations(inText []citation.InTextCitation, matches map[string][]string) []citation.InTextCitation {
	var unmatched []citation.InTextCitation
	seen := make(map[string]bool)
	for _, c := range inText {
		if seen[c.Text] {
			continue
		}
		if len(matches[c.Text]) == 0 {
			unmatched = append(unmatched, c)
			seen[c.Text] = true
		}
	}
	return unmatched
}

func uncitedReferences(refs []citation.Citation, cited map[string]bool) []citation.Citation {
	var uncited []citation.Citation
	for _, ref := range refs {
		if !cited[ref.ID] {
			uncited = append(uncited, ref)
		}
	}
	return uncited
}

// fuzzyMatchIssues raises warnings for matches that only succeeded fuzzily.
// An author near-miss outranks a year near-miss for the same pair; a year
// warning needs both years known. Citations are walked in document order so
// output is deterministic.
func fuzzyMatchIssues(inText []citation.InTextCitation, res match.Result) []citation.ValidationIssue {
	var issues []citation.ValidationIssue
	seen := make(map[string]bool)
	for _, c := range inText {
		if seen[c.Text] {
			continue
		}
		seen[c.Text] = true

		for _, fd := range res.Fuzzy[c.Text] {
			switch {
			case fd.AuthorIsFuzzy:
				issues = append(issues, citation.ValidationIssue{
					Type:         citation.IssueSpellingMismatch,
					Description:  "Possible author name spelling mismatch",
					CitationText: c.Text,
					Suggestion: fmt.Sprintf("Citation uses '%s' but reference has '%s'. Verify correct spelling.",
						titleCase(fd.CitationAuthor), titleCase(fd.RefAuthor)),
					Severity: citation.SeverityWarning,
				})
			case fd.YearIsFuzzy && fd.CitationYear != 0 && fd.RefYear != 0:
				issues = append(issues, citation.ValidationIssue{
					Type:         citation.IssueYearMismatch,
					Description:  "Year differs between citation and reference",
					CitationText: c.Text,
					Suggestion: fmt.Sprintf("Citation says %d but reference has %d. Verify correct year.",
						fd.CitationYear, fd.RefYear),
					Severity: citation.SeverityWarning,
				})
			}
		}
	}
	return issues
}

// legacyDuplicateIssues is the coarse key-based duplicate scan kept for runs
// with advanced detection turned off.
func legacyDuplicateIssues(refs []citation.Citation) []citation.ValidationIssue {
	groups := make(map[string][]string)
	var order []string
	for i := range refs {
		key := normalizeRefKey(&refs[i])
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], refs[i].ID)
	}

	var issues []citation.ValidationIssue
	for _, key := range order {
		ids := groups[key]
		if len(ids) < 2 {
			continue
		}
		issues = append(issues, citation.ValidationIssue{
			Type:         citation.IssueDuplicateReference,
			Description:  "Possible duplicate references found",
			CitationText: strings.Join(ids, "; "),
			Suggestion:   "Review and merge these references if they are duplicates",
			Severity:     citation.SeverityWarning,
		})
	}
	return issues
}

// normalizeRefKey builds the coarse identity key for the legacy scan:
// first-author surname prefix, year, and the leading title words.
func normalizeRefKey(ref *citation.Citation) string {
	var parts []string
	if len(ref.Authors) > 0 {
		author := textnorm.Fold(citation.LastName(ref.Authors[0]))
		if r := []rune(author); len(r) > 10 {
			author = string(r[:10])
		}
		parts = append(parts, author)
	}
	if ref.Year != 0 {
		parts = append(parts, strconv.Itoa(ref.Year))
	}
	if ref.Title != "" {
		words := strings.Fields(strings.ToLower(ref.Title))
		if len(words) > 3 {
			words = words[:3]
		}
		parts = append(parts, strings.Join(words, "_"))
	}
	return strings.Join(parts, "|")
}

// formatConsistencyIssues flags minority citation styles when a document
// mixes more than one, capped at three examples per minority style.
func formatConsistencyIssues(inText []citation.InTextCitation) []citation.ValidationIssue {
	counts := make(map[citation.CitationType]int)
	var order []citation.CitationType
	for _, c := range inText {
		if counts[c.Type] == 0 {
			order = append(order, c.Type)
		}
		counts[c.Type]++
	}
	if len(counts) < 2 {
		return nil
	}

	dominant := order[0]
	for _, t := range order[1:] {
		if counts[t] > counts[dominant] {
			dominant = t
		}
	}

	var issues []citation.ValidationIssue
	for _, minority := range order {
		if minority == dominant {
			continue
		}
		examples := 0
		for _, c := range inText {
			if c.Type != minority {
				continue
			}
			if examples == 3 {
				break
			}
			examples++
			issues = append(issues, citation.ValidationIssue{
				Type:         citation.IssueInconsistentFormat,
				Description:  fmt.Sprintf("Citation format (%s) differs from dominant format (%s)", minority, dominant),
				CitationText: c.Text,
				Suggestion:   fmt.Sprintf("Consider reformatting to match %s style", dominant),
				Severity:     citation.SeverityWarning,
			})
		}
	}
	return issues
}

// parentheticalAndRe spots "(Author and Author, 2020)" forms where APA style
// wants an ampersand.
var parentheticalAndRe = regexp.MustCompile(`(?i)\([^)]*\s+and\s+[^)]*\d{4}`)

func ampersandIssues(inText []citation.InTextCitation) []citation.ValidationIssue {
	var issues []citation.ValidationIssue
	for _, c := range inText {
		if c.Type != citation.AuthorYear {
			continue
		}
		if !parentheticalAndRe.MatchString(c.Text) {
			continue
		}
		fixed := strings.ReplaceAll(c.Text, " and ", " & ")
		fixed = strings.ReplaceAll(fixed, " And ", " & ")
		issues = append(issues, citation.ValidationIssue{
			Type:         citation.IssueStyleWarning,
			Description:  "Use '&' instead of 'and' inside parenthetical citations",
			CitationText: c.Text,
			Suggestion:   fixed,
			Severity:     citation.SeverityWarning,
		})
	}
	return issues
}

// clipRaw shortens raw reference text for issue display.
func clipRaw(raw string) string {
	r := []rune(raw)
	if len(r) <= 100 {
		return raw
	}
	return string(r[:100]) + "..."
}

// titleCase uppercases the first letter of every alphabetic run and lowercases
// the rest, turning folded surnames back into display form.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		switch {
		case !unicode.IsLetter(r):
			b.WriteRune(r)
			prevLetter = false
		case prevLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(unicode.ToUpper(r))
			prevLetter = true
		}
	}
	return b.String()
}
