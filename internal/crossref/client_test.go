package crossref

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestSearch_MapsWorks(t *testing.T) {
	t.Setenv("REFCHECK_MAILTO", "")
	t.Setenv("CROSSREF_MAILTO", "")

	var gotQuery, gotRows, gotFilter string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("query.bibliographic")
		gotRows = r.URL.Query().Get("rows")
		gotFilter = r.URL.Query().Get("filter")
		w.Write([]byte(`{
			"status": "ok",
			"message": {
				"items": [
					{
						"DOI": "10.1000/first",
						"title": ["Sleep and memory", "Subtitle"],
						"container-title": ["Nature Neuroscience"],
						"author": [{"given": "Jane", "family": "Smith"}, {"family": "Jones"}],
						"published-print": {"date-parts": [[2020, 4]]},
						"volume": "23",
						"issue": "4",
						"page": "512-520",
						"score": 41.5
					},
					{
						"DOI": "10.1000/second",
						"title": ["Another work"],
						"issued": {"date-parts": [[2019]]}
					}
				]
			}
		}`))
	})

	works, err := client.Search(context.Background(), "smith sleep memory", SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotQuery != "smith sleep memory" {
		t.Errorf("query.bibliographic = %q", gotQuery)
	}
	if gotRows != "5" {
		t.Errorf("rows = %q, want default 5", gotRows)
	}
	if gotFilter != "" {
		t.Errorf("filter = %q, want empty", gotFilter)
	}
	if len(works) != 2 {
		t.Fatalf("Search returned %d works, want 2", len(works))
	}

	first := works[0]
	if first.DOI != "10.1000/first" || first.Title != "Sleep and memory" || first.Journal != "Nature Neuroscience" {
		t.Errorf("first work = %+v", first)
	}
	if first.Year != 2020 || first.Volume != "23" || first.Issue != "4" || first.Pages != "512-520" {
		t.Errorf("first work metadata = %+v", first)
	}
	if len(first.Authors) != 2 || first.Authors[0].Family != "Smith" || first.Authors[0].Given != "Jane" {
		t.Errorf("first work authors = %+v", first.Authors)
	}
	if works[1].Year != 2019 {
		t.Errorf("second work year = %d, want 2019 from issued", works[1].Year)
	}
}

func TestSearch_YearFilter(t *testing.T) {
	var gotFilter string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotFilter = r.URL.Query().Get("filter")
		w.Write([]byte(`{"status": "ok", "message": {"items": []}}`))
	})

	_, err := client.Search(context.Background(), "smith", SearchOptions{Rows: 15, FromYear: 2019, UntilYear: 2021})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	want := "from-pub-date:2019-01-01,until-pub-date:2021-12-31"
	if gotFilter != want {
		t.Errorf("filter = %q, want %q", gotFilter, want)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	client := NewClient()
	if _, err := client.Search(context.Background(), "  ", SearchOptions{}); err == nil {
		t.Error("Search with empty query returned no error")
	}
}

func TestWorkByDOI(t *testing.T) {
	var gotPath, gotMailto, gotUA string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMailto = r.URL.Query().Get("mailto")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{
			"status": "ok",
			"message": {
				"DOI": "10.1000/xyz",
				"title": ["A title"],
				"author": [{"given": "J", "family": "Smith"}],
				"issued": {"date-parts": [[2017, 6, 2]]}
			}
		}`))
	})

	work, err := client.WorkByDOI(context.Background(), "https://doi.org/10.1000/xyz")
	if err != nil {
		t.Fatalf("WorkByDOI: %v", err)
	}
	if gotPath != "/works/10.1000/xyz" {
		t.Errorf("path = %q", gotPath)
	}
	if gotMailto != "" {
		t.Errorf("mailto = %q, want unset", gotMailto)
	}
	if !strings.HasPrefix(gotUA, "refcheck/") {
		t.Errorf("User-Agent = %q", gotUA)
	}
	if work.DOI != "10.1000/xyz" || work.Title != "A title" || work.Year != 2017 {
		t.Errorf("work = %+v", work)
	}
}

func TestWorkByDOI_Mailto(t *testing.T) {
	var gotMailto, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMailto = r.URL.Query().Get("mailto")
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte(`{"status": "ok", "message": {"DOI": "10.1/x"}}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithMailto("lab@example.org"))
	if _, err := client.WorkByDOI(context.Background(), "10.1/x"); err != nil {
		t.Fatalf("WorkByDOI: %v", err)
	}
	if gotMailto != "lab@example.org" {
		t.Errorf("mailto = %q", gotMailto)
	}
	if !strings.Contains(gotUA, "mailto:lab@example.org") {
		t.Errorf("User-Agent = %q, want mailto baked in", gotUA)
	}
}

func TestWorkByDOI_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.WorkByDOI(context.Background(), "10.1000/missing")
	if err == nil {
		t.Fatal("WorkByDOI returned no error for 404")
	}
	if !IsNotFound(err) {
		t.Errorf("IsNotFound(%v) = false", err)
	}
}

func TestWorkByDOI_RateLimited(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := client.WorkByDOI(context.Background(), "10.1000/x")
	if !IsRateLimited(err) {
		t.Errorf("IsRateLimited(%v) = false", err)
	}
}

func TestRetractionStatus(t *testing.T) {
	cases := []struct {
		name      string
		body      string
		retracted bool
		noticeDOI string
		date      string
	}{
		{
			name: "update-to retraction",
			body: `{"status": "ok", "message": {
				"DOI": "10.1/a",
				"update-to": [
					{"type": "correction", "DOI": "10.1/corr"},
					{"type": "Retraction", "DOI": "10.1/notice", "updated": {"date-parts": [[2021, 3, 15]]}}
				]
			}}`,
			retracted: true,
			noticeDOI: "10.1/notice",
			date:      "2021-03-15",
		},
		{
			name: "relation is-retracted-by",
			body: `{"status": "ok", "message": {
				"DOI": "10.1/b",
				"relation": {"is-retracted-by": [{"id": "10.1/notice2", "id-type": "doi"}]}
			}}`,
			retracted: true,
			noticeDOI: "10.1/notice2",
		},
		{
			name:      "work type retraction",
			body:      `{"status": "ok", "message": {"DOI": "10.1/c", "type": "retraction"}}`,
			retracted: true,
		},
		{
			name:      "title marker",
			body:      `{"status": "ok", "message": {"DOI": "10.1/d", "title": ["RETRACTED: Sleep study"]}}`,
			retracted: true,
		},
		{
			name:      "clean work",
			body:      `{"status": "ok", "message": {"DOI": "10.1/e", "title": ["Sleep study"], "type": "journal-article"}}`,
			retracted: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			})
			status := client.RetractionStatus(context.Background(), "10.1/any")
			if status.Err != nil {
				t.Fatalf("Err = %v", status.Err)
			}
			if status.Retracted != tc.retracted {
				t.Errorf("Retracted = %v, want %v", status.Retracted, tc.retracted)
			}
			if status.NoticeDOI != tc.noticeDOI {
				t.Errorf("NoticeDOI = %q, want %q", status.NoticeDOI, tc.noticeDOI)
			}
			if status.Date != tc.date {
				t.Errorf("Date = %q, want %q", status.Date, tc.date)
			}
		})
	}
}

func TestRetractionStatus_LookupFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	status := client.RetractionStatus(context.Background(), "10.1/missing")
	if status.Retracted {
		t.Error("Retracted = true on lookup failure")
	}
	if status.Err == nil || !IsNotFound(status.Err) {
		t.Errorf("Err = %v, want not-found", status.Err)
	}
}

func TestRetractionStatus_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	client := NewClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	srv.Close()

	status := client.RetractionStatus(context.Background(), "10.1/x")
	if status.Err == nil || !errors.Is(status.Err, ErrNetworkError) {
		t.Errorf("Err = %v, want network error", status.Err)
	}
}

func TestCleanDOI(t *testing.T) {
	cases := []struct{ in, want string }{
		{"10.1000/xyz", "10.1000/xyz"},
		{"  10.1000/xyz  ", "10.1000/xyz"},
		{"https://doi.org/10.1000/xyz", "10.1000/xyz"},
		{"http://doi.org/10.1000/abc.12", "10.1000/abc.12"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := CleanDOI(tc.in); got != tc.want {
			t.Errorf("CleanDOI(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
