package crossref

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Work is a bibliographic record mapped from the CrossRef wire format.
type Work struct {
	DOI     string   `json:"doi"`
	Title   string   `json:"title"`
	Journal string   `json:"journal"`
	Authors []Author `json:"authors"`
	Year    int      `json:"year"`
	Volume  string   `json:"volume,omitempty"`
	Issue   string   `json:"issue,omitempty"`
	Pages   string   `json:"pages,omitempty"`
	Score   float64  `json:"score,omitempty"`
}

// Author is one contributor on a Work.
type Author struct {
	Given  string `json:"given,omitempty"`
	Family string `json:"family,omitempty"`
}

// RetractionStatus is the outcome of a retraction lookup for one DOI.
// Err carries transport or decode failures so callers can keep going.
type RetractionStatus struct {
	DOI       string `json:"doi"`
	Retracted bool   `json:"retracted"`
	NoticeDOI string `json:"notice_doi,omitempty"`
	Date      string `json:"date,omitempty"`
	Err       error  `json:"-"`
}

// SearchOptions narrow a bibliographic search.
type SearchOptions struct {
	Rows      int // result count, DefaultSearchRows when <= 0
	FromYear  int // inclusive publication year lower bound, 0 = open
	UntilYear int // inclusive publication year upper bound, 0 = open
}

// workEnvelope wraps a single work response.
type workEnvelope struct {
	Status  string   `json:"status"`
	Message workJSON `json:"message"`
}

// searchEnvelope wraps a works query response.
type searchEnvelope struct {
	Status  string `json:"status"`
	Message struct {
		Items []workJSON `json:"items"`
	} `json:"message"`
}

// workJSON mirrors the CrossRef work schema, to the extent used here.
type workJSON struct {
	DOI             string                     `json:"DOI"`
	Type            string                     `json:"type"`
	Title           []string                   `json:"title"`
	ContainerTitle  []string                   `json:"container-title"`
	Author          []authorJSON               `json:"author"`
	Issued          partedDate                 `json:"issued"`
	PublishedPrint  partedDate                 `json:"published-print"`
	PublishedOnline partedDate                 `json:"published-online"`
	Volume          string                     `json:"volume"`
	Issue           string                     `json:"issue"`
	Page            string                     `json:"page"`
	Score           float64                    `json:"score"`
	UpdateTo        []updateJSON               `json:"update-to"`
	Relation        map[string]json.RawMessage `json:"relation"`
}

type authorJSON struct {
	Given  string `json:"given"`
	Family string `json:"family"`
}

// partedDate is CrossRef's nested date representation.
type partedDate struct {
	DateParts [][]int `json:"date-parts"`
}

type updateJSON struct {
	Type    string     `json:"type"`
	DOI     string     `json:"DOI"`
	Label   string     `json:"label"`
	Updated partedDate `json:"updated"`
}

type relationJSON struct {
	ID     string `json:"id"`
	IDType string `json:"id-type"`
}

func (d partedDate) year() int {
	if len(d.DateParts) > 0 && len(d.DateParts[0]) > 0 {
		return d.DateParts[0][0]
	}
	return 0
}

func (d partedDate) format() string {
	if len(d.DateParts) == 0 || len(d.DateParts[0]) == 0 {
		return ""
	}
	p := d.DateParts[0]
	switch {
	case len(p) >= 3:
		return fmt.Sprintf("%d-%02d-%02d", p[0], p[1], p[2])
	case len(p) == 2:
		return fmt.Sprintf("%d-%02d", p[0], p[1])
	default:
		return strconv.Itoa(p[0])
	}
}

// publicationYear prefers print publication over online over issuance.
func (w workJSON) publicationYear() int {
	for _, d := range []partedDate{w.PublishedPrint, w.PublishedOnline, w.Issued} {
		if y := d.year(); y != 0 {
			return y
		}
	}
	return 0
}

func mapWork(w workJSON) Work {
	work := Work{
		DOI:    w.DOI,
		Volume: w.Volume,
		Issue:  w.Issue,
		Pages:  w.Page,
		Score:  w.Score,
		Year:   w.publicationYear(),
	}
	if len(w.Title) > 0 {
		work.Title = w.Title[0]
	}
	if len(w.ContainerTitle) > 0 {
		work.Journal = w.ContainerTitle[0]
	}
	for _, a := range w.Author {
		work.Authors = append(work.Authors, Author{Given: a.Given, Family: a.Family})
	}
	return work
}
