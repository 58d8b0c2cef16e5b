package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
)

// Title truncation length for human-readable listings.
const listTitleMaxLen = 70

// outputJSON writes a value as formatted JSON to stdout.
func outputJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputHuman writes a human-readable string to stdout.
func outputHuman(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// exitWithError outputs an error in the appropriate format (human or JSON) and exits.
func exitWithError(code int, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}
	os.Exit(code)
}

// ErrorResponse is a JSON error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is a generic response for commands that write a file.
type StatusResponse struct {
	Status string `json:"status"`
	Path   string `json:"path,omitempty"`
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// formatAuthorsShort joins authors, abbreviating to "et al." past maxCount.
func formatAuthorsShort(authors []string, maxCount int) string {
	if len(authors) == 0 {
		return "(no authors)"
	}
	if len(authors) > maxCount {
		return strings.Join(authors[:maxCount], "; ") + " et al."
	}
	return strings.Join(authors, "; ")
}

// printReferenceLine prints one reference in the compact human listing form.
func printReferenceLine(ref citation.Citation) {
	year := "n.d."
	if ref.Year > 0 {
		year = fmt.Sprintf("%d", ref.Year)
	}
	fmt.Printf("%s (%s)\n", ref.ID, year)
	if ref.Title != "" {
		fmt.Printf("   %s\n", truncateString(ref.Title, listTitleMaxLen))
	}
	fmt.Printf("   %s\n", formatAuthorsShort(ref.Authors, 3))
	if ref.DOI != "" {
		fmt.Printf("   doi: %s\n", ref.DOI)
	}
	fmt.Println()
}

// printIssuesHuman prints validation issues grouped under severity tags.
func printIssuesHuman(issues []citation.ValidationIssue) {
	for _, issue := range issues {
		tag := strings.ToUpper(string(issue.Severity))
		fmt.Printf("  [%s] %s: %s\n", tag, issue.Type, issue.Description)
		if issue.Suggestion != "" {
			fmt.Printf("         Suggestion: %s\n", issue.Suggestion)
		}
	}
}
