// Package importer reads bibliographies from external formats into the
// common Citation shape. Each format has its own typed record struct and a
// pure mapping function; all of them enter through Import. Imported
// citations have no raw text (there is no original free-form string) and
// take their id from the source format's own key when it has one.
package importer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/citelab/refcheck/internal/citation"
)

// Format names a supported import format.
type Format string

const (
	FormatZotero Format = "zotero"
	FormatBibTeX Format = "bibtex"
	FormatRIS    Format = "ris"
)

// ErrUnknownFormat reports an unsupported format name. This is caller
// misuse and fails fast, unlike content noise which degrades.
var ErrUnknownFormat = errors.New("unknown import format")

// Import parses data in the named format into citations.
func Import(format Format, data []byte) ([]citation.Citation, error) {
	switch format {
	case FormatZotero:
		return ParseZotero(data)
	case FormatBibTeX:
		return ParseBibTeX(data)
	case FormatRIS:
		return ParseRIS(data)
	}
	return nil, fmt.Errorf("%w: %q (want zotero, bibtex, or ris)", ErrUnknownFormat, format)
}

// fallbackID derives lastname_year when the source format has no key.
func fallbackID(authors []string, year int, idx int) string {
	author := "ref" + strconv.Itoa(idx+1)
	if len(authors) > 0 {
		author = authors[0]
	}
	yearStr := ""
	if year > 0 {
		yearStr = strconv.Itoa(year)
	}
	return citation.MakeID(author, yearStr)
}

// firstYear pulls the first 4-digit year out of a date string like
// "2020-06-01" or "June 2020".
func firstYear(s string) int {
	for i := 0; i+4 <= len(s); i++ {
		if !isDigit(s[i]) || !isDigit(s[i+1]) || !isDigit(s[i+2]) || !isDigit(s[i+3]) {
			continue
		}
		// Exactly four digits: longer runs are page or id numbers.
		if i > 0 && isDigit(s[i-1]) {
			continue
		}
		if i+4 < len(s) && isDigit(s[i+4]) {
			continue
		}
		year, _ := strconv.Atoi(s[i : i+4])
		if year >= 1000 {
			return year
		}
	}
	return 0
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
