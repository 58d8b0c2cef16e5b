// Package complete checks reference-list entries for missing fields and
// scores how fully each entry is populated.
package complete

import (
	"math"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
)

// Weights for the completeness score. They sum to 1.0.
const (
	weightAuthors    = 0.25
	weightYear       = 0.20
	weightTitle      = 0.25
	weightJournal    = 0.15
	weightIdentifier = 0.15
)

const citationTextLimit = 100

// Issues reports an incomplete_reference issue for every entry with missing
// fields. Missing authors, year, or title is a warning; everything else is
// informational. When requireIdentifier is false, entries without a DOI or
// page range are not flagged for it.
func Issues(refs []citation.Citation, requireIdentifier bool) []citation.ValidationIssue {
	var issues []citation.ValidationIssue
	for i := range refs {
		ref := &refs[i]

		var missing []string
		if len(ref.Authors) == 0 {
			missing = append(missing, "authors")
		}
		if ref.Year == 0 {
			missing = append(missing, "year")
		}
		if ref.Title == "" {
			missing = append(missing, "title")
		}
		if requireIdentifier && ref.DOI == "" && ref.Pages == "" {
			missing = append(missing, "pages or DOI")
		}
		// A volume or issue without a journal means the journal was lost,
		// not that the work is a book.
		if (ref.Volume != "" || ref.Issue != "") && ref.Journal == "" {
			missing = append(missing, "journal")
		}
		if len(missing) == 0 {
			continue
		}

		severity := citation.SeverityInfo
		for _, field := range missing {
			if field == "authors" || field == "year" || field == "title" {
				severity = citation.SeverityWarning
				break
			}
		}

		joined := strings.Join(missing, ", ")
		issues = append(issues, citation.ValidationIssue{
			Type:         citation.IssueIncompleteReference,
			Description:  "Reference missing: " + joined,
			CitationText: truncate(ref.RawText, citationTextLimit),
			Suggestion:   "Add missing fields: " + joined,
			Severity:     severity,
		})
	}
	return issues
}

// Score rates how fully populated one entry is, 0.0 to 1.0.
func Score(ref *citation.Citation) float64 {
	score := 0.0
	if len(ref.Authors) > 0 {
		score += weightAuthors
	}
	if ref.Year != 0 {
		score += weightYear
	}
	if ref.Title != "" {
		score += weightTitle
	}
	if ref.Journal != "" {
		score += weightJournal
	}
	if ref.DOI != "" || ref.Pages != "" {
		score += weightIdentifier
	}
	return score
}

// RefScore pairs a reference ID with its completeness score.
type RefScore struct {
	ID    string  `json:"id"`
	Score float64 `json:"score"`
}

// Report aggregates completeness across a reference list.
type Report struct {
	TotalReferences    int            `json:"total_references"`
	IncompleteCount    int            `json:"incomplete_count"`
	AverageScore       float64        `json:"average_score"`
	MissingFieldsCount map[string]int `json:"missing_fields_count"`
	PerReferenceScores []RefScore     `json:"per_reference_scores"`
}

// Summarize builds a Report over refs. Field counts only cover entries whose
// score is below 1.0.
func Summarize(refs []citation.Citation) Report {
	report := Report{
		TotalReferences: len(refs),
		MissingFieldsCount: map[string]int{
			"authors":    0,
			"year":       0,
			"title":      0,
			"journal":    0,
			"identifier": 0,
		},
		PerReferenceScores: make([]RefScore, 0, len(refs)),
	}

	sum := 0.0
	for i := range refs {
		ref := &refs[i]
		score := Score(ref)
		sum += score
		report.PerReferenceScores = append(report.PerReferenceScores, RefScore{ID: ref.ID, Score: score})
		if score >= 1.0 {
			continue
		}
		report.IncompleteCount++
		if len(ref.Authors) == 0 {
			report.MissingFieldsCount["authors"]++
		}
		if ref.Year == 0 {
			report.MissingFieldsCount["year"]++
		}
		if ref.Title == "" {
			report.MissingFieldsCount["title"]++
		}
		if ref.Journal == "" {
			report.MissingFieldsCount["journal"]++
		}
		if ref.DOI == "" && ref.Pages == "" {
			report.MissingFieldsCount["identifier"]++
		}
	}

	if len(refs) > 0 {
		report.AverageScore = math.Round(sum/float64(len(refs))*100) / 100
	}
	return report
}

func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit-3]) + "..."
}
