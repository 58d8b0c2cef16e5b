// Package process orchestrates the document pipeline: parse the manuscript,
// detect in-text citations, parse the reference list, then optionally
// resolve DOIs, validate, reformat, and rewrite the reference section.
// Content-quality problems surface in the report; only structural input
// problems (unreadable file, unsupported extension) fail a run.
package process

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/citelab/refcheck/internal/citation"
	"github.com/citelab/refcheck/internal/crossref"
	"github.com/citelab/refcheck/internal/detect"
	"github.com/citelab/refcheck/internal/docx"
	"github.com/citelab/refcheck/internal/journal"
	"github.com/citelab/refcheck/internal/logger"
	"github.com/citelab/refcheck/internal/match"
	"github.com/citelab/refcheck/internal/pdftext"
	"github.com/citelab/refcheck/internal/refparse"
	"github.com/citelab/refcheck/internal/resolve"
	"github.com/citelab/refcheck/internal/style"
	"github.com/citelab/refcheck/internal/validate"
)

// minEstimateSeconds is the floor for full-run time estimates shown to
// users; even a document with nothing to look up takes a moment.
const minEstimateSeconds = 5

// API is the slice of the CrossRef client the pipeline may call. A nil API
// disables DOI resolution, web-search suggestions, and retraction checks.
type API interface {
	Search(ctx context.Context, query string, opts crossref.SearchOptions) ([]crossref.Work, error)
	WorkByDOI(ctx context.Context, doi string) (*crossref.Work, error)
	RetractionStatus(ctx context.Context, doi string) crossref.RetractionStatus
}

// Options configure a full pipeline run. The zero value validates offline
// without reformatting.
type Options struct {
	// Style names a built-in citation style; ignored when ExampleCitations
	// teach a custom one.
	Style            string
	ExampleCitations []string

	ResolveDOIs bool
	Validate    bool
	Format      bool
	WebSearch   bool
	Retractions bool

	// OutputPath overrides the default "<stem>_checked.docx".
	OutputPath string

	// API supplies the CrossRef client for the network-touching steps.
	API API
	// Journals overrides the built-in journal normalizer table.
	Journals *journal.Normalizer
}

// DefaultOptions validates, resolves DOIs, and reformats, all offline
// features on. Network features activate once an API is attached.
func DefaultOptions() Options {
	return Options{
		Style:       "apa",
		ResolveDOIs: true,
		Validate:    true,
		Format:      true,
	}
}

// Result is the outcome of one pipeline run.
type Result struct {
	RunID        string                     `json:"run_id"`
	InputPath    string                     `json:"input_path"`
	OutputPath   string                     `json:"output_path,omitempty"`
	DetectedType citation.CitationType      `json:"detected_type"`
	Citations    []citation.InTextCitation  `json:"citations"`
	References   []citation.Citation        `json:"references"`
	Report       *citation.ValidationReport `json:"report,omitempty"`
	ResolvedDOIs int                        `json:"resolved_dois"`
	Formatted    []string                   `json:"formatted_references,omitempty"`
	Summary      string                     `json:"summary,omitempty"`
}

// QuickCheckResult previews what a full run would do and how long it
// would take.
type QuickCheckResult struct {
	validate.QuickCheck
	DetectedType citation.CitationType `json:"detected_type"`
	Unmatched    []string              `json:"unmatched_citations,omitempty"`
}

// LoadDocument parses a manuscript by file extension: .docx or .pdf.
// Unsupported extensions are caller misuse and fail fast.
func LoadDocument(path string) (*docx.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return docx.Parse(data)
	case ".pdf":
		return pdftext.Parse(data)
	}
	return nil, fmt.Errorf("unsupported document type %q (want .docx or .pdf)", filepath.Ext(path))
}

// QuickCheck runs the offline matching pass against a document and
// estimates the cost of a full run.
func QuickCheck(path string) (*QuickCheckResult, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}

	inText, detected := detect.Detect(doc.BodyText)
	refs := refparse.Parse(doc.ReferenceEntries)

	q := validate.Quick(inText, refs)
	if q.EstimatedTimeSeconds < minEstimateSeconds {
		q.EstimatedTimeSeconds = minEstimateSeconds
	}

	res := &QuickCheckResult{QuickCheck: q, DetectedType: detected}
	seen := make(map[string]bool)
	matched := matchedTexts(inText, refs)
	for _, c := range inText {
		if !matched[c.Text] && !seen[c.Text] {
			seen[c.Text] = true
			res.Unmatched = append(res.Unmatched, c.Text)
		}
	}
	return res, nil
}

// Run executes the full pipeline on one document.
func Run(ctx context.Context, path string, opts Options) (*Result, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}

	result := &Result{
		RunID:     uuid.New().String(),
		InputPath: path,
	}

	logger.Section("Detection")
	result.Citations, result.DetectedType = detect.Detect(doc.BodyText)
	result.References = refparse.Parse(doc.ReferenceEntries)
	logger.Debug("detected %d in-text citations (%s), parsed %d references",
		len(result.Citations), result.DetectedType, len(result.References))

	if opts.ResolveDOIs && opts.API != nil {
		logger.Section("DOI resolution")
		resolver := resolve.New(opts.API)
		updated, failures := resolver.FillDOIs(ctx, result.References)
		result.ResolvedDOIs = updated
		for _, f := range failures {
			logger.Warn("DOI lookup failed for %s: %v", f.RefID, f.Err)
		}
	}

	if opts.Validate {
		logger.Section("Validation")
		vopts := validate.DefaultOptions()
		vopts.WebSearch = opts.WebSearch && opts.API != nil
		vopts.Retractions = opts.Retractions && opts.API != nil
		vopts.Journals = opts.Journals
		if opts.API != nil {
			vopts.Searcher = opts.API
			vopts.Retraction = opts.API
		}
		report := validate.Run(ctx, result.Citations, result.References, vopts)
		result.Report = &report
		result.Summary = validate.Summary(report)
	}

	if opts.Format {
		logger.Section("Formatting")
		tpl := templateFor(opts)
		result.Formatted, _ = style.FormatReferences(result.References, tpl)

		if strings.EqualFold(filepath.Ext(path), ".docx") {
			outPath := opts.OutputPath
			if outPath == "" {
				outPath = defaultOutputPath(path)
			}
			if err := rewriteDocument(path, outPath, result.Formatted); err != nil {
				return nil, err
			}
			result.OutputPath = outPath
		} else {
			// PDF input is read-only; formatted strings are still returned.
			logger.Info("skipping rewrite: %s is not a .docx", filepath.Base(path))
		}
	}

	return result, nil
}

// templateFor picks the formatting template: learned from examples when
// they are conclusive, otherwise the named built-in, otherwise APA.
func templateFor(opts Options) style.Template {
	if len(opts.ExampleCitations) > 0 {
		if tpl, ok := style.Learn(opts.ExampleCitations); ok {
			return tpl
		}
	}
	if tpl, ok := style.ByName(opts.Style); ok {
		return tpl
	}
	tpl, _ := style.ByName("apa")
	return tpl
}

func rewriteDocument(inPath, outPath string, refs []string) error {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return fmt.Errorf("reading document: %w", err)
	}
	out, err := docx.Rewrite(data, refs)
	if err != nil {
		return fmt.Errorf("rewriting references: %w", err)
	}
	if err := os.WriteFile(outPath, out, 0o644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}

// defaultOutputPath derives "<stem>_checked.docx" next to the input.
func defaultOutputPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_checked.docx"
}

// matchedTexts reports which citation texts matched at least one reference.
func matchedTexts(inText []citation.InTextCitation, refs []citation.Citation) map[string]bool {
	matched := make(map[string]bool)
	for text, ids := range match.Citations(inText, refs).Matches {
		if len(ids) > 0 {
			matched[text] = true
		}
	}
	return matched
}
