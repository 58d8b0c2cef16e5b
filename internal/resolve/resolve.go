// Package resolve fills in and verifies DOIs on parsed references via
// CrossRef lookups. Caches are scoped to the Resolver instance so one
// document run never pays twice for the same query.
package resolve

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/crossref"
	"github.com/citelab/refcheck/internal/fuzzy"
	"github.com/citelab/refcheck/internal/textnorm"
)

const (
	searchRows         = 3
	minTitleSimilarity = 0.75
)

// Lookup is the slice of the CrossRef client the resolver needs.
type Lookup interface {
	Search(ctx context.Context, query string, opts crossref.SearchOptions) ([]crossref.Work, error)
	WorkByDOI(ctx context.Context, doi string) (*crossref.Work, error)
}

// Failure records a lookup that errored for one reference.
type Failure struct {
	RefID string
	Err   error
}

// Resolver owns the API handle and per-run caches.
type Resolver struct {
	api         Lookup
	queryCache  map[string]*crossref.Work // nil entry: searched, nothing acceptable
	verifyCache map[string]bool
}

// New creates a Resolver around api.
func New(api Lookup) *Resolver {
	return &Resolver{
		api:         api,
		queryCache:  make(map[string]*crossref.Work),
		verifyCache: make(map[string]bool),
	}
}

// FillDOIs looks up references without a DOI, in input order, and fills the
// DOI of the first acceptable search hit. It returns how many references
// were updated plus per-reference lookup failures; a failure never stops
// the batch.
func (r *Resolver) FillDOIs(ctx context.Context, refs []citation.Citation) (int, []Failure) {
	updated := 0
	var failures []Failure
	for i := range refs {
		ref := &refs[i]
		if ref.DOI != "" {
			continue
		}
		query := buildQuery(ref)
		if query == "" {
			continue
		}
		work, err := r.search(ctx, query, ref)
		if err != nil {
			failures = append(failures, Failure{RefID: ref.ID, Err: err})
			continue
		}
		if work == nil {
			continue
		}
		ref.SetDOI(work.DOI)
		updated++
	}
	return updated, failures
}

// Verify reports whether ref's existing DOI is registered with CrossRef.
// An unregistered DOI is a negative answer, not an error.
func (r *Resolver) Verify(ctx context.Context, ref *citation.Citation) (bool, error) {
	if ref.DOI == "" {
		return false, errors.New("resolve: reference has no DOI")
	}
	key := strings.ToLower(crossref.CleanDOI(ref.DOI))
	if verified, ok := r.verifyCache[key]; ok {
		return verified, nil
	}
	_, err := r.api.WorkByDOI(ctx, ref.DOI)
	if err != nil {
		if crossref.IsNotFound(err) {
			r.verifyCache[key] = false
			return false, nil
		}
		// Transient failures are not cached so a retry can succeed.
		return false, err
	}
	r.verifyCache[key] = true
	return true, nil
}

func (r *Resolver) search(ctx context.Context, query string, ref *citation.Citation) (*crossref.Work, error) {
	key := textnorm.Fold(query)
	if work, ok := r.queryCache[key]; ok {
		return work, nil
	}
	works, err := r.api.Search(ctx, query, crossref.SearchOptions{Rows: searchRows})
	if err != nil {
		return nil, err
	}
	var accepted *crossref.Work
	for i := range works {
		if acceptable(ref, &works[i]) {
			accepted = &works[i]
			break
		}
	}
	r.queryCache[key] = accepted
	return accepted, nil
}

// acceptable requires the first-author surnames to match and, when the
// reference has a title, the titles to be close.
func acceptable(ref *citation.Citation, work *crossref.Work) bool {
	if work.DOI == "" || len(work.Authors) == 0 || len(ref.Authors) == 0 {
		return false
	}
	refFirst := textnorm.Fold(citation.LastName(ref.Authors[0]))
	workFirst := textnorm.Fold(work.Authors[0].Family)
	if refFirst == "" || workFirst == "" {
		return false
	}
	if fuzzy.AuthorMatch(refFirst, workFirst) == fuzzy.None {
		return false
	}
	if ref.Title == "" {
		return true
	}
	return fuzzy.Ratio(strings.ToLower(ref.Title), strings.ToLower(work.Title)) >= minTitleSimilarity
}

func buildQuery(ref *citation.Citation) string {
	var parts []string
	if len(ref.Authors) > 0 {
		if last := citation.LastName(ref.Authors[0]); last != "" {
			parts = append(parts, last)
		}
	}
	if ref.Year != 0 {
		parts = append(parts, strconv.Itoa(ref.Year))
	}
	if ref.Title != "" {
		parts = append(parts, ref.Title)
	}
	return strings.Join(parts, " ")
}
