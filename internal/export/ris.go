package export

import (
	"fmt"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
)

// ToRIS renders references as RIS journal-article records.
func ToRIS(refs []citation.Citation) (string, []Warning) {
	var b strings.Builder
	var warnings []Warning

	for i := range refs {
		ref := &refs[i]
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString("TY  - JOUR\n")
		for _, author := range ref.Authors {
			fmt.Fprintf(&b, "AU  - %s\n", author)
		}
		if ref.Title != "" {
			fmt.Fprintf(&b, "TI  - %s\n", ref.Title)
		}
		if ref.Year > 0 {
			fmt.Fprintf(&b, "PY  - %d\n", ref.Year)
		}
		if ref.Journal != "" {
			fmt.Fprintf(&b, "JO  - %s\n", ref.Journal)
		}
		if ref.Volume != "" {
			fmt.Fprintf(&b, "VL  - %s\n", ref.Volume)
		}
		if ref.Issue != "" {
			fmt.Fprintf(&b, "IS  - %s\n", ref.Issue)
		}
		if ref.Pages != "" {
			start, end := splitPages(ref.Pages)
			if start != "" {
				fmt.Fprintf(&b, "SP  - %s\n", start)
			}
			if end != "" {
				fmt.Fprintf(&b, "EP  - %s\n", end)
			}
		}
		if ref.DOI != "" {
			fmt.Fprintf(&b, "DO  - %s\n", ref.DOI)
		}
		b.WriteString("ER  - \n")

		warnings = append(warnings, missingFields(ref)...)
	}
	return b.String(), warnings
}
