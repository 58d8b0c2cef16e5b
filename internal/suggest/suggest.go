// Package suggest proposes fixes for citations that match no reference and
// for references that nothing cites. Local suggestions score every
// bibliography entry on author, year, and context-keyword agreement; when no
// entry is convincing, an optional CrossRef search looks for the work the
// citation probably meant.
package suggest

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/crossref"
	"github.com/citelab/refcheck/internal/detect"
	"github.com/citelab/refcheck/internal/fuzzy"
	"github.com/citelab/refcheck/internal/textnorm"
)

const (
	weightAuthor  = 0.5
	weightYear    = 0.3
	weightKeyword = 0.2

	// goodMatchScore is the floor for a confident "Did you mean" suggestion.
	goodMatchScore = 0.4
	// weakMatchScore is the floor for mentioning a local candidate alongside
	// a web hit.
	weakMatchScore = 0.2
	// discardScore drops candidates with no author agreement and almost no
	// other signal.
	discardScore = 0.15

	maxWebMatches = 3
	webSearchRows = 15
)

// Searcher is the one CrossRef operation the web fallback needs.
type Searcher interface {
	Search(ctx context.Context, query string, opts crossref.SearchOptions) ([]crossref.Work, error)
}

// Engine produces suggestion strings for validation issues. A nil Searcher
// disables the web fallback; local scoring always runs.
type Engine struct {
	api Searcher
}

// New returns an Engine. api may be nil to keep suggestions offline.
func New(api Searcher) *Engine {
	return &Engine{api: api}
}

type scoredRef struct {
	ref    *citation.Citation
	score  float64
	reason string
}

// ReferenceFix builds the suggestion for a citation with no matching
// reference: the closest bibliography entry when one is plausible, otherwise
// up to three CrossRef hits, otherwise a generic prompt.
func (e *Engine) ReferenceFix(ctx context.Context, cit citation.InTextCitation, refs []citation.Citation) string {
	citAuthors := detect.CitationAuthors(cit.Text)
	citYear := detect.CitationYear(cit.Text)

	var scored []scoredRef
	for i := range refs {
		s, reason := score(citAuthors, citYear, &refs[i], cit.Context)
		if s > 0 {
			scored = append(scored, scoredRef{ref: &refs[i], score: s, reason: reason})
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	var best *scoredRef
	if len(scored) > 0 {
		best = &scored[0]
		// A trustworthy local suggestion needs the citation's lead surname on
		// the reference's lead author, not buried in the co-author list.
		if firstAuthorsAgree(citAuthors, best.ref) && best.score >= goodMatchScore {
			if best.reason != "" {
				return fmt.Sprintf("Did you mean: %s (%s)", preview(best.ref.RawText, 80), best.reason)
			}
			return "Did you mean: " + preview(best.ref.RawText, 80)
		}
	}

	if e.api != nil && len(citAuthors) > 0 && citYear != 0 {
		if web := e.webSearch(ctx, citAuthors, citYear, cit.Context); web != "" {
			if best != nil && best.score > weakMatchScore {
				return web + "\n    Or in your refs: " + prefix(best.ref.RawText, 60) + "..."
			}
			return web
		}
	}

	if best != nil {
		return "Weak match (co-author?): " + preview(best.ref.RawText, 80)
	}
	return "Add a corresponding reference to the bibliography"
}

// UncitedHint suggests what to do about a reference no citation points at:
// either name the unmatched citation whose author looks like a typo for this
// reference, or prompt to remove it.
func UncitedHint(ref *citation.Citation, unmatched []citation.InTextCitation) string {
	if len(ref.Authors) == 0 {
		return "Consider removing this reference or adding a citation"
	}

	refFirst := textnorm.Fold(citation.LastName(ref.Authors[0]))

	for _, cit := range unmatched {
		citAuthors := detect.CitationAuthors(cit.Text)
		if len(citAuthors) == 0 {
			continue
		}

		// Exact author agreement means the mismatch is elsewhere; only a
		// typo-scale miss is worth reporting here.
		ok, reason := typoReason(citAuthors[0], refFirst)
		if !ok || reason == "" {
			continue
		}

		note := ""
		if citYear := detect.CitationYear(cit.Text); citYear != 0 && ref.Year != 0 {
			diff := citYear - ref.Year
			if diff < 0 {
				diff = -diff
			}
			if diff > 2 {
				continue
			}
			if diff > 0 {
				note = fmt.Sprintf("; year differs: %d vs %d", ref.Year, citYear)
			}
		}
		return fmt.Sprintf("Possible typo match: %s (%s)", cit.Text, reason+note)
	}

	return "Consider removing this reference or adding a citation"
}

// score rates how plausibly ref is the work an unmatched citation refers to.
// citAuthors are folded surnames from the citation text; citYear is 0 when
// unknown. The reason string collects every inexactness worth showing.
func score(citAuthors []string, citYear int, ref *citation.Citation, context string) (float64, string) {
	var s float64
	var reasons []string

	refNames := refLastNames(ref.Authors)

	authorMatched := false
	for _, ca := range citAuthors {
		for _, rn := range refNames {
			ok, reason := typoReason(ca, rn)
			if !ok {
				continue
			}
			authorMatched = true
			s += weightAuthor
			if reason != "" {
				reasons = append(reasons, reason)
			}
			break
		}
		if authorMatched {
			break
		}
	}

	if citYear != 0 && ref.Year != 0 {
		diff := citYear - ref.Year
		if diff < 0 {
			diff = -diff
		}
		switch {
		case diff == 0:
			s += weightYear
		case diff == 1:
			s += 0.25
		case diff == 2:
			s += 0.2
		case diff <= 5:
			s += 0.1
		}
		if diff != 0 && diff <= 5 {
			reasons = append(reasons, fmt.Sprintf("year is %d, not %d", ref.Year, citYear))
		}
	}

	if context != "" && ref.Title != "" {
		ks := keywordOverlap(context, ref.Title)
		s += ks * weightKeyword
		// A strong keyword hit without author agreement still helps when the
		// citation misspells the author badly.
		if ks > 0.3 && !authorMatched {
			reasons = append(reasons, "title keywords match context")
		}
	}

	if !authorMatched && s < discardScore {
		return 0, ""
	}
	return s, strings.Join(reasons, "; ")
}

// typoReason wraps fuzzy.AuthorMatch with the reason text attached to
// near-miss matches. Both names must already be folded.
func typoReason(citName, refName string) (bool, string) {
	switch fuzzy.AuthorMatch(citName, refName) {
	case fuzzy.Exact:
		return true, ""
	case fuzzy.Fuzzy:
		return true, fmt.Sprintf("possible typo: '%s' not '%s'", refName, citName)
	}
	return false, ""
}

// firstAuthorsAgree reports whether the citation's lead surname matches the
// reference's lead author exactly or by containment.
func firstAuthorsAgree(citAuthors []string, ref *citation.Citation) bool {
	if len(citAuthors) == 0 || len(ref.Authors) == 0 {
		return false
	}
	cit := citAuthors[0]
	refName := textnorm.Fold(citation.LastName(ref.Authors[0]))
	return cit == refName || strings.Contains(refName, cit) || strings.Contains(cit, refName)
}

func refLastNames(authors []string) []string {
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if last := citation.LastName(a); last != "" {
			names = append(names, textnorm.Fold(last))
		}
	}
	return names
}

var keywordRe = regexp.MustCompile(`\b[a-z]{3,}\b`)

// stopwords are function words excluded from keyword comparison.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "but": true,
	"in": true, "on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "as": true, "is": true, "was": true,
	"are": true, "were": true, "been": true, "be": true, "have": true,
	"has": true, "had": true, "do": true, "does": true, "did": true,
	"will": true, "would": true, "could": true, "should": true, "may": true,
	"might": true, "must": true, "shall": true, "can": true, "need": true,
	"dare": true, "ought": true, "used": true, "it": true, "its": true,
	"this": true, "that": true, "these": true, "those": true, "i": true,
	"you": true, "he": true, "she": true, "we": true, "they": true,
	"what": true, "which": true, "who": true, "whom": true, "when": true,
	"where": true, "why": true, "how": true, "all": true, "each": true,
	"every": true, "both": true, "few": true, "more": true, "most": true,
	"other": true, "some": true, "such": true, "no": true, "nor": true,
	"not": true, "only": true, "own": true, "same": true, "so": true,
	"than": true, "too": true, "very": true, "just": true, "also": true,
	"now": true, "into": true, "over": true, "after": true, "before": true,
	"between": true, "under": true, "again": true, "further": true,
	"then": true, "once": true, "here": true, "there": true, "about": true,
	"above": true, "below": true, "during": true, "through": true,
}

// keywords pulls the content words out of text: lowercased, three letters or
// longer, stopwords removed.
func keywords(text string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range keywordRe.FindAllString(strings.ToLower(text), -1) {
		if !stopwords[w] {
			set[w] = true
		}
	}
	return set
}

// keywordOverlap scores how much of a reference title's vocabulary appears in
// the citation's surrounding text, in [0, 1]. Half the score is title
// coverage, half an absolute-match bonus capped at three shared words.
func keywordOverlap(context, title string) float64 {
	ck := keywords(context)
	tk := keywords(title)
	if len(ck) == 0 || len(tk) == 0 {
		return 0
	}

	overlap := 0
	for w := range tk {
		if ck[w] {
			overlap++
		}
	}
	if overlap == 0 {
		return 0
	}

	coverage := float64(overlap) / float64(len(tk))
	bonus := math.Min(float64(overlap)/3, 1)
	return (coverage + bonus) / 2
}

// domainTerms is the neuroscience and medical vocabulary used to keep web
// hits on topic: when the citation's context mentions one of these, candidate
// titles must too.
var domainTerms = []string{
	"sleep", "insomnia", "brain", "neural", "cortex", "fmri", "mri",
	"neuroimaging", "hippocampus", "amygdala", "prefrontal", "cerebral",
	"resting-state", "resting state", "gray matter", "white matter",
	"eeg", "cogniti", "memory", "attention", "anxiety", "depression",
	"functional connectivity", "rsfc", "bold", "magnetic resonance",
	"emotion", "network", "disorder",
}

func containsDomainTerm(lower string) bool {
	for _, t := range domainTerms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}

// contextKeywords returns up to four context words, longest first. Length
// then alphabetical ordering keeps query construction deterministic.
func contextKeywords(context string) []string {
	var words []string
	for w := range keywords(context) {
		if len(w) >= 4 {
			words = append(words, w)
		}
	}
	sort.Slice(words, func(i, j int) bool {
		if len(words[i]) != len(words[j]) {
			return len(words[i]) > len(words[j])
		}
		return words[i] < words[j]
	})
	if len(words) > 4 {
		words = words[:4]
	}
	return words
}

// webSearch queries CrossRef for works plausibly matching an unmatched
// citation and formats up to three for the suggestion text. Search failures
// return "": the suggestion is best-effort and must never fail validation.
func (e *Engine) webSearch(ctx context.Context, citAuthors []string, year int, context string) string {
	firstAuthor := citAuthors[0]
	kw := contextKeywords(context)
	domainContext := containsDomainTerm(strings.ToLower(context))

	// Narrowest query first; later rungs only run while matches are short.
	queries := []string{
		firstAuthor + " " + strings.Join(firstN(kw, 3), " "),
		firstAuthor + " " + strings.Join(firstN(kw, 2), " "),
		firstAuthor + " brain",
		firstAuthor,
	}

	var found []crossref.Work
	seen := make(map[string]bool)
	ran := make(map[string]bool)

	for _, query := range queries {
		if len(found) >= maxWebMatches {
			break
		}
		query = strings.TrimSpace(query)
		if query == "" || ran[query] {
			continue
		}
		ran[query] = true

		works, err := e.api.Search(ctx, query, crossref.SearchOptions{
			Rows:      webSearchRows,
			FromYear:  year - 1,
			UntilYear: year + 1,
		})
		if err != nil {
			continue
		}

		for _, w := range works {
			if len(found) >= maxWebMatches {
				break
			}
			if seen[w.DOI] {
				continue
			}
			if len(w.Authors) == 0 {
				continue
			}
			family := strings.ToLower(w.Authors[0].Family)
			if !strings.Contains(family, firstAuthor) && !strings.Contains(firstAuthor, family) {
				continue
			}
			if w.Year != 0 {
				diff := w.Year - year
				if diff < 0 {
					diff = -diff
				}
				if diff > 2 {
					continue
				}
			}
			if w.Title == "" {
				w.Title = "Unknown"
			}
			if domainContext && !containsDomainTerm(strings.ToLower(w.Title)) {
				continue
			}
			seen[w.DOI] = true
			found = append(found, w)
		}
	}

	if len(found) == 0 {
		return ""
	}

	lines := []string{"[WEB SEARCH] Possible matches:"}
	for i, w := range found {
		authorStr := formatWorkAuthors(w.Authors)
		yearNote := ""
		if w.Year != 0 && w.Year != year {
			yearNote = fmt.Sprintf(" [year: %d]", w.Year)
		}
		doiLink := ""
		if w.DOI != "" {
			doiLink = " https://doi.org/" + w.DOI
		}
		lines = append(lines, fmt.Sprintf("  %d. %s (%d). %s%s%s",
			i+1, authorStr, w.Year, preview(w.Title, 60), yearNote, doiLink))
	}
	return strings.Join(lines, "\n")
}

// formatWorkAuthors renders up to three "Family Initials" names, with
// "et al." covering the rest.
func formatWorkAuthors(authors []crossref.Author) string {
	shown := authors
	if len(shown) > 3 {
		shown = shown[:3]
	}

	var names []string
	for _, a := range shown {
		if a.Family == "" {
			continue
		}
		if a.Given == "" {
			names = append(names, a.Family)
			continue
		}
		var initials strings.Builder
		for _, w := range strings.Fields(a.Given) {
			initials.WriteRune([]rune(w)[0])
		}
		names = append(names, a.Family+" "+initials.String())
	}

	s := strings.Join(names, ", ")
	if len(authors) > 3 {
		s += " et al."
	}
	return s
}

func firstN(words []string, n int) []string {
	if len(words) > n {
		return words[:n]
	}
	return words
}

// prefix returns at most n runes of text.
func prefix(text string, n int) string {
	r := []rune(text)
	if len(r) <= n {
		return text
	}
	return string(r[:n])
}

// preview truncates display text, marking the cut with an ellipsis.
func preview(text string, n int) string {
	if len([]rune(text)) <= n {
		return text
	}
	return prefix(text, n) + "..."
}
