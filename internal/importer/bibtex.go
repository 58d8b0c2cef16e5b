package importer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/citelab/refcheck/internal/citation"
)

// bibtexEntry is one @type{key, ...} block with its fields lowercased.
type bibtexEntry struct {
	entryType string
	key       string
	fields    map[string]string
}

// ParseBibTeX reads a .bib file's entries. Comments and @string/@preamble
// blocks are skipped; malformed trailing text ends the scan with an error
// only when no entry could be read at all.
func ParseBibTeX(data []byte) ([]citation.Citation, error) {
	entries, err := scanBibTeX(string(data))
	if err != nil {
		return nil, err
	}

	refs := make([]citation.Citation, 0, len(entries))
	for i, entry := range entries {
		refs = append(refs, bibtexEntryToCitation(entry, i))
	}
	return refs, nil
}

// bibtexEntryToCitation maps one entry to the common shape.
func bibtexEntryToCitation(entry bibtexEntry, idx int) citation.Citation {
	var authors []string
	if raw := entry.fields["author"]; raw != "" {
		for _, a := range strings.Split(raw, " and ") {
			if a = strings.TrimSpace(a); a != "" {
				authors = append(authors, a)
			}
		}
	}

	year := 0
	if y := entry.fields["year"]; y != "" {
		year, _ = strconv.Atoi(strings.TrimSpace(y))
	}

	id := entry.key
	if id == "" {
		id = fallbackID(authors, year, idx)
	}

	c := citation.Citation{
		ID:      id,
		Authors: authors,
		Title:   entry.fields["title"],
		Year:    year,
		Journal: entry.fields["journal"],
		Volume:  entry.fields["volume"],
		Issue:   entry.fields["number"],
		Pages:   entry.fields["pages"],
	}
	c.SetDOI(entry.fields["doi"])
	return c
}

// scanBibTeX walks the text entry by entry. Values may be brace-delimited
// (nesting allowed), quoted, or bare.
func scanBibTeX(text string) ([]bibtexEntry, error) {
	var entries []bibtexEntry
	pos := 0

	for {
		at := strings.IndexByte(text[pos:], '@')
		if at < 0 {
			break
		}
		pos += at + 1

		typeEnd := strings.IndexByte(text[pos:], '{')
		if typeEnd < 0 {
			break
		}
		entryType := strings.ToLower(strings.TrimSpace(text[pos : pos+typeEnd]))
		pos += typeEnd + 1

		if entryType == "comment" || entryType == "string" || entryType == "preamble" {
			end, err := skipBraced(text, pos-1)
			if err != nil {
				return entries, err
			}
			pos = end
			continue
		}

		keyEnd := strings.IndexAny(text[pos:], ",}")
		if keyEnd < 0 {
			return entries, fmt.Errorf("unterminated entry at offset %d", pos)
		}
		key := strings.TrimSpace(text[pos : pos+keyEnd])
		closed := text[pos+keyEnd] == '}'
		pos += keyEnd + 1

		entry := bibtexEntry{entryType: entryType, key: key, fields: map[string]string{}}
		for !closed {
			var done bool
			var err error
			pos, done, err = scanField(text, pos, entry.fields)
			if err != nil {
				return entries, err
			}
			if done {
				break
			}
		}
		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, fmt.Errorf("no BibTeX entries found")
	}
	return entries, nil
}

// scanField reads one "name = value" pair (or the closing brace) starting
// at pos. done is true once the entry's closing brace was consumed.
func scanField(text string, pos int, fields map[string]string) (int, bool, error) {
	pos = skipSpace(text, pos)
	if pos >= len(text) {
		return pos, true, fmt.Errorf("unterminated entry")
	}
	if text[pos] == '}' {
		return pos + 1, true, nil
	}
	if text[pos] == ',' {
		return pos + 1, false, nil
	}

	eq := strings.IndexByte(text[pos:], '=')
	if eq < 0 {
		return pos, true, fmt.Errorf("malformed field at offset %d", pos)
	}
	name := strings.ToLower(strings.TrimSpace(text[pos : pos+eq]))
	pos = skipSpace(text, pos+eq+1)
	if pos >= len(text) {
		return pos, true, fmt.Errorf("unterminated field %q", name)
	}

	var value string
	switch text[pos] {
	case '{':
		end, err := skipBraced(text, pos)
		if err != nil {
			return pos, true, err
		}
		value = text[pos+1 : end-1]
		pos = end
	case '"':
		end := strings.IndexByte(text[pos+1:], '"')
		if end < 0 {
			return pos, true, fmt.Errorf("unterminated quoted value for %q", name)
		}
		value = text[pos+1 : pos+1+end]
		pos += end + 2
	default:
		end := pos
		for end < len(text) && text[end] != ',' && text[end] != '}' && !unicode.IsSpace(rune(text[end])) {
			end++
		}
		value = text[pos:end]
		pos = end
	}

	// Inner braces protect capitalization in BibTeX; the plain text form
	// drops them.
	value = strings.ReplaceAll(value, "{", "")
	value = strings.ReplaceAll(value, "}", "")
	if name != "" {
		fields[name] = strings.TrimSpace(value)
	}
	return pos, false, nil
}

// skipBraced returns the index just past the brace group opening at pos.
func skipBraced(text string, pos int) (int, error) {
	if pos >= len(text) || text[pos] != '{' {
		return pos, fmt.Errorf("expected '{' at offset %d", pos)
	}
	depth := 0
	for i := pos; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return pos, fmt.Errorf("unbalanced braces at offset %d", pos)
}

func skipSpace(text string, pos int) int {
	for pos < len(text) && unicode.IsSpace(rune(text[pos])) {
		pos++
	}
	return pos
}
