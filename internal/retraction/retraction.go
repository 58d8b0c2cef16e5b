// Package retraction flags references whose DOI resolves to a retracted
// work. Lookups are cached per Checker instance; a lookup failure marks the
// reference unchecked rather than aborting the batch.
package retraction

import (
	"context"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/crossref"
)

// Lookup is the slice of the CrossRef client the checker needs.
type Lookup interface {
	RetractionStatus(ctx context.Context, doi string) crossref.RetractionStatus
}

// ProgressFunc reports batch progress: done out of total, plus a short label.
type ProgressFunc func(done, total int, message string)

// Status is the retraction outcome for one reference.
type Status struct {
	ReferenceID string `json:"reference_id"`
	DOI         string `json:"doi"`
	Retracted   bool   `json:"retracted"`
	NoticeDOI   string `json:"notice_doi,omitempty"`
	Date        string `json:"date,omitempty"`
	Err         error  `json:"-"`
}

// Checker runs retraction lookups with a per-instance DOI cache.
type Checker struct {
	api   Lookup
	cache map[string]crossref.RetractionStatus
}

// NewChecker creates a Checker around api.
func NewChecker(api Lookup) *Checker {
	return &Checker{
		api:   api,
		cache: make(map[string]crossref.RetractionStatus),
	}
}

// CheckReference checks one reference. References without a DOI cannot be
// checked and return nil.
func (c *Checker) CheckReference(ctx context.Context, ref *citation.Citation) *Status {
	if ref.DOI == "" {
		return nil
	}
	key := strings.ToLower(strings.TrimSpace(ref.DOI))
	status, ok := c.cache[key]
	if !ok {
		status = c.api.RetractionStatus(ctx, ref.DOI)
		c.cache[key] = status
	}
	return &Status{
		ReferenceID: ref.ID,
		DOI:         status.DOI,
		Retracted:   status.Retracted,
		NoticeDOI:   status.NoticeDOI,
		Date:        status.Date,
		Err:         status.Err,
	}
}

// Issues checks every reference carrying a DOI, in input order, and returns
// an error-severity issue per retracted work.
func (c *Checker) Issues(ctx context.Context, refs []citation.Citation, progress ProgressFunc) []citation.ValidationIssue {
	var withDOI []*citation.Citation
	for i := range refs {
		if refs[i].DOI != "" {
			withDOI = append(withDOI, &refs[i])
		}
	}

	var issues []citation.ValidationIssue
	for idx, ref := range withDOI {
		if progress != nil {
			progress(idx+1, len(withDOI), "Checking "+ref.ID)
		}
		status := c.CheckReference(ctx, ref)
		if status == nil || !status.Retracted {
			continue
		}

		parts := []string{"This paper has been retracted."}
		if status.Date != "" {
			parts = append(parts, "Retraction date: "+status.Date)
		}
		if status.NoticeDOI != "" {
			parts = append(parts, "See retraction notice: https://doi.org/"+status.NoticeDOI)
		} else {
			parts = append(parts, "See: https://doi.org/"+ref.DOI)
		}
		parts = append(parts, "Consider removing or noting the retraction status.")

		text := ref.ID
		if ref.RawText != "" {
			text = truncate(ref.RawText, 100)
		}
		issues = append(issues, citation.ValidationIssue{
			Type:         citation.IssueRetractedReference,
			Description:  "RETRACTED PAPER: This reference has been retracted",
			CitationText: text,
			Suggestion:   strings.Join(parts, " "),
			Severity:     citation.SeverityError,
		})
	}
	return issues
}

// LookupError pairs a reference with the failure that kept it unchecked.
type LookupError struct {
	ReferenceID string `json:"reference_id"`
	Message     string `json:"message"`
}

// Stats summarizes retraction checking across a reference list.
type Stats struct {
	TotalReferences int           `json:"total_references"`
	WithDOI         int           `json:"with_doi"`
	WithoutDOI      int           `json:"without_doi"`
	RetractedCount  int           `json:"retracted_count"`
	RetractedIDs    []string      `json:"retracted_ids"`
	CheckedOK       int           `json:"checked_ok"`
	Errors          []LookupError `json:"errors,omitempty"`
}

// Stats checks all references and aggregates the outcomes.
func (c *Checker) Stats(ctx context.Context, refs []citation.Citation) Stats {
	stats := Stats{TotalReferences: len(refs), RetractedIDs: []string{}}
	for i := range refs {
		ref := &refs[i]
		if ref.DOI == "" {
			stats.WithoutDOI++
			continue
		}
		stats.WithDOI++
		status := c.CheckReference(ctx, ref)
		switch {
		case status.Retracted:
			stats.RetractedCount++
			stats.RetractedIDs = append(stats.RetractedIDs, ref.ID)
		case status.Err != nil:
			stats.Errors = append(stats.Errors, LookupError{ReferenceID: ref.ID, Message: status.Err.Error()})
		default:
			stats.CheckedOK++
		}
	}
	return stats
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}
