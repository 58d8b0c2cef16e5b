package export

import (
	"fmt"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
)

// ToBibTeX renders references as BibTeX @article entries. Keys come from
// the reference ids, with a/b/c suffixes on collisions.
func ToBibTeX(refs []citation.Citation) (string, []Warning) {
	var b strings.Builder
	var warnings []Warning

	keys := uniqueKeys(refs)
	for i := range refs {
		if i > 0 {
			b.WriteString("\n")
		}
		warnings = append(warnings, writeBibTeXEntry(&b, &refs[i], keys[i])...)
	}
	return b.String(), warnings
}

func writeBibTeXEntry(b *strings.Builder, ref *citation.Citation, key string) []Warning {
	fmt.Fprintf(b, "@article{%s,\n", key)

	if len(ref.Authors) > 0 {
		fmt.Fprintf(b, "  author = {%s},\n", escapeLatex(strings.Join(ref.Authors, " and ")))
	}
	if ref.Title != "" {
		fmt.Fprintf(b, "  title = {%s},\n", escapeLatex(ref.Title))
	}
	if ref.Journal != "" {
		fmt.Fprintf(b, "  journal = {%s},\n", escapeLatex(ref.Journal))
	}
	if ref.Year > 0 {
		fmt.Fprintf(b, "  year = {%d},\n", ref.Year)
	}
	if ref.Volume != "" {
		fmt.Fprintf(b, "  volume = {%s},\n", ref.Volume)
	}
	if ref.Issue != "" {
		fmt.Fprintf(b, "  number = {%s},\n", ref.Issue)
	}
	if ref.Pages != "" {
		fmt.Fprintf(b, "  pages = {%s},\n", ref.Pages)
	}
	if ref.DOI != "" {
		fmt.Fprintf(b, "  doi = {%s},\n", ref.DOI)
	}

	b.WriteString("}\n")
	return missingFields(ref)
}

// escapeLatex escapes special LaTeX characters.
func escapeLatex(s string) string {
	// Order matters: & must be first (before other escapes that might produce &)
	replacer := strings.NewReplacer(
		"&", `\&`,
		"%", `\%`,
		"$", `\$`,
		"#", `\#`,
		"_", `\_`,
	)
	return replacer.Replace(s)
}
