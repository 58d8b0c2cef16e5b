package citation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	idNameClean = regexp.MustCompile(`[^a-zA-Z'-]`)
	idYearClean = regexp.MustCompile(`[^0-9a-z]`)
)

// MakeID builds a reference id from an author expression and a year string,
// as "{lowercase last name}_{year}". Hyphens and apostrophes survive;
// everything else non-alphabetic is stripped. IDs are not guaranteed unique.
func MakeID(author, year string) string {
	author = strings.TrimSpace(author)

	var last string
	if i := strings.Index(author, ","); i >= 0 {
		last = author[:i]
	} else if parts := strings.Fields(author); len(parts) > 0 {
		last = parts[0]
	} else {
		last = author
	}

	last = idNameClean.ReplaceAllString(last, "")
	year = idYearClean.ReplaceAllString(year, "")
	return strings.ToLower(last) + "_" + year
}

// LastName extracts the surname from the varied author formats that appear
// in reference lists: "Smith, John", "Smith JA" (Vancouver), "John Smith",
// multi-word surnames like "Van der Berg JA".
func LastName(author string) string {
	author = strings.TrimSpace(author)

	if strings.HasSuffix(strings.ToLower(author), " et al.") {
		author = strings.TrimSpace(author[:len(author)-len(" et al.")])
	}

	if i := strings.Index(author, ","); i >= 0 {
		return strings.TrimSpace(author[:i])
	}

	parts := strings.Fields(author)
	switch {
	case len(parts) >= 2:
		last := parts[len(parts)-1]
		if looksLikeInitials(last) {
			// Vancouver style: the trailing token is initials, the rest is
			// the (possibly multi-word) surname.
			return strings.Join(parts[:len(parts)-1], " ")
		}
		return last
	case len(parts) == 1:
		return parts[0]
	}
	return author
}

// looksLikeInitials reports whether a token is 1-4 uppercase letters with
// optional periods, e.g. "J.", "JA", "J.A.".
func looksLikeInitials(token string) bool {
	stripped := strings.ReplaceAll(token, ".", "")
	if stripped == "" || len(stripped) > 4 {
		return false
	}
	for _, r := range stripped {
		if !unicode.IsLetter(r) || !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}
