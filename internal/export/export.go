// Package export writes parsed references out as BibTeX or RIS. Exports
// accept any Citation regardless of completeness: missing fields become
// warnings on the result, never errors.
package export

import (
	"fmt"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
)

// Warning notes a field an exported reference was missing.
type Warning struct {
	ReferenceID string `json:"reference_id"`
	Field       string `json:"field"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: missing %s", w.ReferenceID, w.Field)
}

// missingFields lists the export-relevant fields absent from a reference.
func missingFields(ref *citation.Citation) []Warning {
	var out []Warning
	add := func(field string) {
		out = append(out, Warning{ReferenceID: ref.ID, Field: field})
	}
	if len(ref.Authors) == 0 {
		add("authors")
	}
	if ref.Title == "" {
		add("title")
	}
	if ref.Year == 0 {
		add("year")
	}
	if ref.Journal == "" {
		add("journal")
	}
	return out
}

// uniqueKeys returns an export key per reference, disambiguating colliding
// ids with a/b/c suffixes in input order.
func uniqueKeys(refs []citation.Citation) []string {
	keys := make([]string, len(refs))
	seen := make(map[string]int)
	for i, ref := range refs {
		key := ref.ID
		if key == "" {
			key = fmt.Sprintf("ref%d", i+1)
		}
		if n, dup := seen[key]; dup {
			seen[key] = n + 1
			key = fmt.Sprintf("%s%c", key, 'a'+n)
		} else {
			seen[key] = 0
		}
		keys[i] = key
	}
	return keys
}

// splitPages breaks "45-67" into start and end, tolerating en dashes and
// single-page values.
func splitPages(pages string) (start, end string) {
	for _, sep := range []string{"-", "–"} {
		if i := strings.Index(pages, sep); i >= 0 {
			return strings.TrimSpace(pages[:i]), strings.TrimSpace(pages[i+len(sep):])
		}
	}
	return strings.TrimSpace(pages), ""
}
