package importer

import (
	"fmt"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
)

// risRecord collects the tag values of one TY..ER block.
type risRecord struct {
	title   string
	journal string
	year    int
	authors []string
	volume  string
	issue   string
	spage   string
	epage   string
	doi     string
}

// ParseRIS reads an RIS export: records delimited by TY and ER tags, one
// "XX  - value" field per line.
func ParseRIS(data []byte) ([]citation.Citation, error) {
	var refs []citation.Citation
	var rec *risRecord

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		tag, value, ok := splitRISLine(line)
		if !ok {
			continue
		}

		switch tag {
		case "TY":
			rec = &risRecord{}
			continue
		case "ER":
			if rec != nil {
				refs = append(refs, risRecordToCitation(*rec, len(refs)))
				rec = nil
			}
			continue
		}
		if rec == nil {
			continue
		}

		switch tag {
		case "TI", "T1":
			if rec.title == "" {
				rec.title = value
			}
		case "T2", "JO", "JF":
			if rec.journal == "" {
				rec.journal = value
			}
		case "PY", "Y1":
			if rec.year == 0 {
				rec.year = firstYear(value)
			}
		case "AU", "A1":
			rec.authors = append(rec.authors, value)
		case "VL":
			rec.volume = value
		case "IS":
			rec.issue = value
		case "SP":
			rec.spage = value
		case "EP":
			rec.epage = value
		case "DO":
			rec.doi = value
		}
	}

	// A record without a terminating ER still counts.
	if rec != nil {
		refs = append(refs, risRecordToCitation(*rec, len(refs)))
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("no RIS records found")
	}
	return refs, nil
}

// splitRISLine parses "XX  - value" into tag and value.
func splitRISLine(line string) (tag, value string, ok bool) {
	if len(line) < 2 {
		return "", "", false
	}
	sep := strings.Index(line, "-")
	if sep < 2 {
		return "", "", false
	}
	tag = strings.TrimSpace(line[:sep])
	if len(tag) != 2 || strings.ToUpper(tag) != tag {
		return "", "", false
	}
	return tag, strings.TrimSpace(line[sep+1:]), true
}

func risRecordToCitation(rec risRecord, idx int) citation.Citation {
	pages := rec.spage
	if rec.epage != "" {
		if pages != "" {
			pages += "-" + rec.epage
		} else {
			pages = rec.epage
		}
	}

	c := citation.Citation{
		ID:      fallbackID(rec.authors, rec.year, idx),
		Authors: rec.authors,
		Title:   rec.title,
		Year:    rec.year,
		Journal: rec.journal,
		Volume:  rec.volume,
		Issue:   rec.issue,
		Pages:   pages,
	}
	c.SetDOI(rec.doi)
	return c
}
