// Package citation defines the core domain types for citation-reference
// reconciliation: parsed bibliography entries, in-text citation occurrences,
// and the validation report produced from matching them.
package citation

// Citation represents one parsed bibliography entry.
//
// Most fields are optional because source documents are incomplete; the only
// maintained invariant is that DOIURL is set iff DOI is set. ID is derived
// from the first author surname and year (or the positional index for
// numbered styles) and is not guaranteed unique; consumers must tolerate
// collisions.
type Citation struct {
	ID      string   `json:"id"`
	RawText string   `json:"raw_text"`
	Authors []string `json:"authors"` // format varies: "Last, First", "Last AB", free text
	Title   string   `json:"title,omitempty"`
	Year    int      `json:"year,omitempty"` // 0 if unknown
	Journal string   `json:"journal,omitempty"`
	Volume  string   `json:"volume,omitempty"`
	Issue   string   `json:"issue,omitempty"`
	Pages   string   `json:"pages,omitempty"`
	DOI     string   `json:"doi,omitempty"`
	DOIURL  string   `json:"doi_url,omitempty"`

	// Confidence is reserved for future scoring; core logic ignores it.
	Confidence float64 `json:"confidence"`
}

// SetDOI assigns the DOI and keeps DOIURL consistent with it.
func (c *Citation) SetDOI(doi string) {
	c.DOI = doi
	if doi == "" {
		c.DOIURL = ""
		return
	}
	c.DOIURL = "https://doi.org/" + doi
}

// CitationType classifies how an in-text citation marker is written.
type CitationType string

const (
	AuthorYear       CitationType = "author_year"
	Numeric          CitationType = "numeric"
	AuthorYearInline CitationType = "author_year_inline"
)

// InTextCitation is one occurrence of a citation marker in body text.
//
// StartPos and EndPos are byte offsets into the body text. They are not
// unique across occurrences: every citation split out of one semicolon-
// grouped parenthetical carries the enclosing group's span, so spans must
// never be used as identity.
type InTextCitation struct {
	Text         string       `json:"text"`
	StartPos     int          `json:"start_pos"`
	EndPos       int          `json:"end_pos"`
	Type         CitationType `json:"citation_type"`
	ReferenceIDs []string     `json:"reference_ids"` // parse-time guess, superseded by matching
	Context      string       `json:"context"`
}

// Severity ranks a validation finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Issue types emitted by validation. The set is open: consumers must accept
// unknown values.
const (
	IssueMissingReference        = "missing_reference"
	IssueUncitedReference        = "uncited_reference"
	IssueDuplicateReference      = "duplicate_reference"
	IssuePotentialDuplicate      = "potential_duplicate"
	IssueIncompleteReference     = "incomplete_reference"
	IssueSpellingMismatch        = "spelling_mismatch"
	IssueYearMismatch            = "year_mismatch"
	IssueInconsistentFormat      = "inconsistent_format"
	IssueStyleWarning            = "style_warning"
	IssueJournalNormalization    = "journal_normalization"
	IssueInconsistentJournalName = "inconsistent_journal_name"
	IssueRetractedReference      = "retracted_reference"
)

// ValidationIssue is one finding from a validation run.
type ValidationIssue struct {
	Type              string   `json:"issue_type"`
	Description       string   `json:"description"`
	CitationText      string   `json:"citation_text,omitempty"`
	Suggestion        string   `json:"suggestion,omitempty"`
	Severity          Severity `json:"severity"`
	RelatedReferences []string `json:"related_references,omitempty"`
}

// ValidationReport aggregates a validation run.
//
// MatchedCitations counts matched occurrences, not unique citation texts:
// a citation repeated three times contributes three. Intentional, so the
// count stays comparable with TotalInTextCitations.
type ValidationReport struct {
	TotalInTextCitations int               `json:"total_in_text_citations"`
	TotalReferences      int               `json:"total_references"`
	MatchedCitations     int               `json:"matched_citations"`
	Issues               []ValidationIssue `json:"issues"`
	IsValid              bool              `json:"is_valid"`
}
