// Package journal maps journal name variants to canonical forms and flags
// references that cite the same journal under different names.
package journal

import (
	"fmt"
	"sort"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/fuzzy"
)

// fuzzyThreshold is the minimum similarity for a variant to be treated as a
// known journal.
const fuzzyThreshold = 0.9

// maxFuzzyCandidates bounds how many near matches are checked against the
// word-level gate.
const maxFuzzyCandidates = 5

// Normalization is one journal name change for a reference.
type Normalization struct {
	Original   string  `json:"original"`
	Canonical  string  `json:"canonical"`
	Confidence float64 `json:"confidence"`
}

// Normalizer resolves journal name variants to canonical names. The mapping
// table is fixed at construction; lookups are cached per instance.
type Normalizer struct {
	mappings map[string]string
	cache    map[string]Normalization
}

// Option configures a Normalizer.
type Option func(map[string]string)

// WithMapping adds a single variant to canonical entry, overriding any
// built-in entry for the same variant.
func WithMapping(variant, canonical string) Option {
	return func(m map[string]string) {
		m[strings.ToLower(variant)] = canonical
	}
}

// WithMappings merges a whole variant table.
func WithMappings(table map[string]string) Option {
	return func(m map[string]string) {
		for variant, canonical := range table {
			m[strings.ToLower(variant)] = canonical
		}
	}
}

// New builds a Normalizer seeded with the built-in mapping table.
func New(opts ...Option) *Normalizer {
	mappings := make(map[string]string, len(defaultMappings))
	for variant, canonical := range defaultMappings {
		mappings[variant] = canonical
	}
	for _, opt := range opts {
		opt(mappings)
	}
	return &Normalizer{
		mappings: mappings,
		cache:    make(map[string]Normalization),
	}
}

// Normalize resolves one journal name. Confidence is 1.0 for a table hit,
// below 1.0 for a fuzzy hit, and 0.0 when the name is unknown (in which case
// the name comes back unchanged).
func (n *Normalizer) Normalize(name string) (string, float64) {
	if name == "" {
		return name, 0
	}
	if hit, ok := n.cache[name]; ok {
		return hit.Canonical, hit.Confidence
	}

	lookup := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := n.mappings[lookup]; ok {
		n.cache[name] = Normalization{Original: name, Canonical: canonical, Confidence: 1}
		return canonical, 1
	}

	if canonical, confidence := n.fuzzyLookup(lookup); confidence > 0 {
		n.cache[name] = Normalization{Original: name, Canonical: canonical, Confidence: confidence}
		return canonical, confidence
	}

	n.cache[name] = Normalization{Original: name, Canonical: name}
	return name, 0
}

// fuzzyLookup scans the table for near matches. A candidate must both score
// above the similarity threshold and pass the word-level gate, which keeps
// "Sleep Med Clin" from matching "Sleep Med".
func (n *Normalizer) fuzzyLookup(lookup string) (string, float64) {
	type candidate struct {
		key   string
		score float64
	}
	var candidates []candidate
	for key := range n.mappings {
		if score := fuzzy.Ratio(lookup, key); score >= fuzzyThreshold {
			candidates = append(candidates, candidate{key, score})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		return candidates[i].key < candidates[j].key
	})
	if len(candidates) > maxFuzzyCandidates {
		candidates = candidates[:maxFuzzyCandidates]
	}

	for _, c := range candidates {
		if wordsCovered(lookup, c.key) {
			return n.mappings[c.key], c.score
		}
	}
	return "", 0
}

// wordsCovered reports whether every significant word of the query is
// represented in the candidate, by exact match, prefix, or a very close
// fuzzy match.
func wordsCovered(query, cand string) bool {
	qWords := significantWords(query)
	cWords := significantWords(cand)
	if len(qWords) == 0 {
		return true
	}

	for _, qw := range qWords {
		matched := false
		for _, cw := range cWords {
			if qw == cw ||
				strings.HasPrefix(qw, cw) || strings.HasPrefix(cw, qw) ||
				fuzzy.Ratio(qw, cw) >= fuzzyThreshold {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	return true
}

func significantWords(s string) []string {
	var words []string
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if len(w) >= 3 {
			words = append(words, w)
		}
	}
	return words
}

// NormalizeAll resolves the journal of every reference, keyed by reference
// id. Only references whose journal name actually changes are included.
func (n *Normalizer) NormalizeAll(refs []citation.Citation) map[string]Normalization {
	results := make(map[string]Normalization)
	for _, ref := range refs {
		if ref.Journal == "" {
			continue
		}
		canonical, confidence := n.Normalize(ref.Journal)
		if confidence > 0 && !strings.EqualFold(canonical, ref.Journal) {
			results[ref.ID] = Normalization{
				Original:   ref.Journal,
				Canonical:  canonical,
				Confidence: confidence,
			}
		}
	}
	return results
}

// NormalizationIssues reports an info-level issue for every reference whose
// journal name has a canonical form it is not using.
func (n *Normalizer) NormalizationIssues(refs []citation.Citation) []citation.ValidationIssue {
	var issues []citation.ValidationIssue
	for _, ref := range refs {
		if ref.Journal == "" {
			continue
		}
		canonical, confidence := n.Normalize(ref.Journal)
		if confidence == 0 || strings.EqualFold(canonical, ref.Journal) {
			continue
		}
		issues = append(issues, citation.ValidationIssue{
			Type:         citation.IssueJournalNormalization,
			Description:  "Journal name can be standardized",
			CitationText: fmt.Sprintf("%s: '%s'", ref.ID, ref.Journal),
			Suggestion:   fmt.Sprintf("Consider using canonical name: '%s' (confidence: %.0f%%)", canonical, confidence*100),
			Severity:     citation.SeverityInfo,
		})
	}
	return issues
}

// ConsistencyIssues flags groups of references that cite the same journal
// under different spellings.
func (n *Normalizer) ConsistencyIssues(refs []citation.Citation) []citation.ValidationIssue {
	type group struct {
		canonical string
		refIDs    []string
		names     []string
		seen      map[string]bool
	}
	groups := make(map[string]*group)
	var order []string

	for _, ref := range refs {
		if ref.Journal == "" {
			continue
		}
		canonical, confidence := n.Normalize(ref.Journal)
		if confidence == 0 {
			continue
		}
		key := strings.ToLower(canonical)
		g, ok := groups[key]
		if !ok {
			g = &group{canonical: canonical, seen: make(map[string]bool)}
			groups[key] = g
			order = append(order, key)
		}
		g.refIDs = append(g.refIDs, ref.ID)
		if !g.seen[ref.Journal] {
			g.seen[ref.Journal] = true
			g.names = append(g.names, ref.Journal)
		}
	}

	var issues []citation.ValidationIssue
	for _, key := range order {
		g := groups[key]
		if len(g.names) < 2 {
			continue
		}
		sorted := append([]string(nil), g.names...)
		sort.Strings(sorted)
		quoted := make([]string, len(sorted))
		for i, name := range sorted {
			quoted[i] = "'" + name + "'"
		}
		issues = append(issues, citation.ValidationIssue{
			Type:              citation.IssueInconsistentJournalName,
			Description:       "Same journal referenced with different names: " + strings.Join(quoted, ", "),
			CitationText:      strings.Join(g.refIDs, ", "),
			Suggestion:        fmt.Sprintf("Standardize to: '%s'", g.canonical),
			Severity:          citation.SeverityWarning,
			RelatedReferences: g.refIDs,
		})
	}
	return issues
}

// KnownJournals lists every canonical journal name in the table, sorted and
// deduplicated.
func (n *Normalizer) KnownJournals() []string {
	seen := make(map[string]bool)
	var journals []string
	for _, canonical := range n.mappings {
		if !seen[canonical] {
			seen[canonical] = true
			journals = append(journals, canonical)
		}
	}
	sort.Strings(journals)
	return journals
}
