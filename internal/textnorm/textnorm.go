// Package textnorm canonicalizes Unicode variants that word processors
// substitute into manuscript text. All fuzzy comparison runs on normalized
// strings; raw text is preserved for user-facing messages.
package textnorm

import "strings"

// dashReplacer maps Unicode hyphen and dash variants (U+2010 through U+2014)
// to ASCII hyphen-minus.
var dashReplacer = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
)

// apostropheReplacer maps right single quotation mark and modifier letter
// apostrophe to ASCII apostrophe.
var apostropheReplacer = strings.NewReplacer(
	"’", "'",
	"ʼ", "'",
)

// Dashes replaces Unicode dash variants with ASCII hyphen-minus.
func Dashes(s string) string {
	return dashReplacer.Replace(s)
}

// Apostrophes replaces Unicode apostrophe variants with ASCII apostrophe.
func Apostrophes(s string) string {
	return apostropheReplacer.Replace(s)
}

// Normalize applies dash then apostrophe canonicalization. Idempotent.
func Normalize(s string) string {
	return Apostrophes(Dashes(s))
}

// Fold normalizes and lowercases for comparison keys.
func Fold(s string) string {
	return strings.ToLower(Normalize(s))
}

// CollapseSpaces reduces all whitespace runs to single spaces and trims.
func CollapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
