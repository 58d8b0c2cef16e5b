package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/citelab/refcheck/internal/citation"
)

// FlexibleString can unmarshal from either string or number JSON values;
// Zotero exports are inconsistent about volume and issue.
type FlexibleString string

func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = FlexibleString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexibleString(n.String())
		return nil
	}

	return fmt.Errorf("cannot unmarshal %s into FlexibleString", string(data))
}

func (f FlexibleString) String() string {
	return string(f)
}

// ZoteroItem is one record from a Zotero JSON export.
type ZoteroItem struct {
	Key              string         `json:"key"`
	CitationKey      string         `json:"citationKey"`
	Title            string         `json:"title"`
	PublicationTitle string         `json:"publicationTitle"`
	Date             string         `json:"date"`
	Volume           FlexibleString `json:"volume"`
	Issue            FlexibleString `json:"issue"`
	Pages            string         `json:"pages"`
	DOI              string         `json:"DOI"`
	Creators         []struct {
		CreatorType string `json:"creatorType"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		Name        string `json:"name"`
	} `json:"creators"`
}

// ParseZotero reads a Zotero JSON export (an array of items).
func ParseZotero(data []byte) ([]citation.Citation, error) {
	var items []ZoteroItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("parsing Zotero JSON: %w", err)
	}

	refs := make([]citation.Citation, 0, len(items))
	for i, item := range items {
		refs = append(refs, zoteroItemToCitation(item, i))
	}
	return refs, nil
}

// zoteroItemToCitation maps one item to the common shape. Only creators of
// type author count; institutional creators keep their single name.
func zoteroItemToCitation(item ZoteroItem, idx int) citation.Citation {
	var authors []string
	for _, creator := range item.Creators {
		if creator.CreatorType != "" && creator.CreatorType != "author" {
			continue
		}
		switch {
		case creator.LastName != "" && creator.FirstName != "":
			authors = append(authors, creator.LastName+", "+creator.FirstName)
		case creator.LastName != "":
			authors = append(authors, creator.LastName)
		case creator.Name != "":
			authors = append(authors, creator.Name)
		}
	}

	year := firstYear(item.Date)

	id := item.CitationKey
	if id == "" {
		id = item.Key
	}
	if id == "" {
		id = fallbackID(authors, year, idx)
	}

	c := citation.Citation{
		ID:      id,
		Authors: authors,
		Title:   strings.TrimSpace(item.Title),
		Year:    year,
		Journal: strings.TrimSpace(item.PublicationTitle),
		Volume:  item.Volume.String(),
		Issue:   item.Issue.String(),
		Pages:   strings.TrimSpace(item.Pages),
	}
	c.SetDOI(strings.TrimSpace(item.DOI))
	return c
}
