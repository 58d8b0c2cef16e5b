// Package fuzzy provides the string-distance primitives shared by citation
// matching, duplicate detection, and journal-name gating.
package fuzzy

import (
	"strings"

	"github.com/citelab/refcheck/internal/textnorm"
)

// Verdict is the outcome of an author-name comparison.
type Verdict string

const (
	Exact Verdict = "exact"
	Fuzzy Verdict = "fuzzy"
	None  Verdict = "none"
)

// Distance computes the Levenshtein edit distance between a and b with unit
// insertion, deletion, and substitution costs.
func Distance(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Ratio returns a similarity score in [0,1]: 1 - distance/maxLen.
// Two empty strings are identical (1.0).
func Ratio(a, b string) float64 {
	la := len([]rune(a))
	lb := len([]rune(b))
	if la == 0 && lb == 0 {
		return 1.0
	}
	longest := la
	if lb > longest {
		longest = lb
	}
	return 1.0 - float64(Distance(a, b))/float64(longest)
}

// AuthorMatch decides whether two author surnames refer to the same person.
//
// Substring containment with a length gap above 2 is treated as Exact
// (compound surnames like "Smith" in "Smith-Jones"). That rule also accepts
// pairs like "Wang" in "Wangsari", a known precision tradeoff kept for
// compatibility with observed manuscript data.
func AuthorMatch(citationName, refName string) Verdict {
	cn := strings.TrimSpace(textnorm.Fold(citationName))
	rn := strings.TrimSpace(textnorm.Fold(refName))

	if cn == "" || rn == "" {
		return None
	}
	if cn == rn {
		return Exact
	}

	if strings.Contains(cn, rn) || strings.Contains(rn, cn) {
		diff := len(cn) - len(rn)
		if diff < 0 {
			diff = -diff
		}
		if diff <= 2 {
			return Fuzzy
		}
		return Exact
	}

	threshold := 2
	if len(cn) <= 6 {
		threshold = 1
	}
	if Distance(cn, rn) <= threshold {
		return Fuzzy
	}
	return None
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
