// Package crossref is a rate-limited client for the CrossRef REST API,
// used for DOI lookup, bibliographic search, and retraction checks.
package crossref

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the CrossRef REST API base URL.
	BaseURL = "https://api.crossref.org"

	// DefaultTimeout is the default HTTP request timeout.
	DefaultTimeout = 10 * time.Second

	// RateLimit keeps request volume inside CrossRef's polite guidance.
	RateLimit = 2.0

	// DefaultSearchRows is the default result count for bibliographic search.
	DefaultSearchRows = 5

	// DefaultSearchFields are the work fields requested for search results.
	DefaultSearchFields = "DOI,title,author,container-title,issued,published-print,published-online,volume,issue,page,score"
)

// Client is a rate-limited HTTP client for the CrossRef REST API.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	baseURL    string
	mailto     string
	userAgent  string
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithMailto sets the contact address sent with every request. CrossRef
// routes requests carrying one to its faster polite pool.
func WithMailto(email string) ClientOption {
	return func(c *Client) {
		c.mailto = email
	}
}

// WithRateLimit overrides the default requests-per-second cap. Values
// at or below zero keep the default.
func WithRateLimit(rps float64) ClientOption {
	return func(c *Client) {
		if rps > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithUserAgent overrides the User-Agent header entirely.
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a new CrossRef API client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: DefaultTimeout},
		limiter:    rate.NewLimiter(rate.Limit(RateLimit), 1),
		baseURL:    BaseURL,
	}

	// Check for a contact address in the environment
	if m := os.Getenv("REFCHECK_MAILTO"); m != "" {
		c.mailto = m
	} else if m := os.Getenv("CROSSREF_MAILTO"); m != "" {
		c.mailto = m
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	if c.userAgent == "" {
		c.userAgent = defaultUserAgent(c.mailto)
	}

	return c
}

func defaultUserAgent(mailto string) string {
	if mailto != "" {
		return fmt.Sprintf("refcheck/1.0 (https://github.com/citelab/refcheck; mailto:%s)", mailto)
	}
	return "refcheck/1.0 (https://github.com/citelab/refcheck)"
}

// CleanDOI strips resolver URL prefixes and surrounding whitespace.
func CleanDOI(doi string) string {
	doi = strings.TrimSpace(doi)
	for _, prefix := range []string{"https://doi.org/", "http://doi.org/"} {
		if strings.HasPrefix(doi, prefix) {
			return doi[len(prefix):]
		}
	}
	return doi
}

// checkHTTPErrors returns an error if the HTTP response indicates a problem.
func checkHTTPErrors(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: status %d", ErrNotFound, resp.StatusCode)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: status %d", ErrRateLimited, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}
	return nil
}

// get executes a rate-limited GET against the API and returns the raw body.
func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	if params == nil {
		params = url.Values{}
	}
	if c.mailto != "" {
		params.Set("mailto", c.mailto)
	}

	endpoint := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	if err := checkHTTPErrors(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

// Search runs a bibliographic query and returns matching works in API order.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]Work, error) {
	if strings.TrimSpace(query) == "" {
		return nil, errors.New("crossref: empty query")
	}

	rows := opts.Rows
	if rows <= 0 {
		rows = DefaultSearchRows
	}

	params := url.Values{}
	params.Set("query.bibliographic", query)
	params.Set("rows", strconv.Itoa(rows))
	params.Set("select", DefaultSearchFields)

	var filters []string
	if opts.FromYear > 0 {
		filters = append(filters, fmt.Sprintf("from-pub-date:%d-01-01", opts.FromYear))
	}
	if opts.UntilYear > 0 {
		filters = append(filters, fmt.Sprintf("until-pub-date:%d-12-31", opts.UntilYear))
	}
	if len(filters) > 0 {
		params.Set("filter", strings.Join(filters, ","))
	}

	body, err := c.get(ctx, "/works", params)
	if err != nil {
		return nil, err
	}

	var envelope searchEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: parsing search results: %v", ErrInvalidResponse, err)
	}

	works := make([]Work, 0, len(envelope.Message.Items))
	for _, item := range envelope.Message.Items {
		works = append(works, mapWork(item))
	}
	return works, nil
}

// WorkByDOI fetches the work registered under doi. Unregistered DOIs return
// ErrNotFound.
func (c *Client) WorkByDOI(ctx context.Context, doi string) (*Work, error) {
	doi = CleanDOI(doi)
	if doi == "" {
		return nil, errors.New("crossref: empty DOI")
	}

	body, err := c.get(ctx, "/works/"+url.PathEscape(doi), nil)
	if err != nil {
		return nil, err
	}

	var envelope workEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: parsing work: %v", ErrInvalidResponse, err)
	}

	work := mapWork(envelope.Message)
	if work.DOI == "" {
		return nil, ErrNotFound
	}
	return &work, nil
}

// RetractionStatus reports whether the work registered under doi has been
// retracted. Lookup failures are returned in the status, never as a panic or
// a batch-ending error.
func (c *Client) RetractionStatus(ctx context.Context, doi string) RetractionStatus {
	cleaned := CleanDOI(doi)
	status := RetractionStatus{DOI: cleaned}
	if cleaned == "" {
		status.Err = errors.New("crossref: empty DOI")
		return status
	}

	body, err := c.get(ctx, "/works/"+url.PathEscape(cleaned), nil)
	if err != nil {
		status.Err = err
		return status
	}

	var envelope workEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		status.Err = fmt.Errorf("%w: parsing work: %v", ErrInvalidResponse, err)
		return status
	}
	msg := envelope.Message

	// A retraction shows up as an update-to entry, a relation, the work's
	// own type, or a marker prefixed onto the title.
	for _, update := range msg.UpdateTo {
		if strings.Contains(strings.ToLower(update.Type), "retract") {
			status.Retracted = true
			status.NoticeDOI = update.DOI
			status.Date = update.Updated.format()
			return status
		}
	}

	if raw, ok := msg.Relation["is-retracted-by"]; ok {
		status.Retracted = true
		var rels []relationJSON
		if err := json.Unmarshal(raw, &rels); err == nil && len(rels) > 0 {
			status.NoticeDOI = rels[0].ID
		}
		return status
	}

	if strings.ToLower(msg.Type) == "retraction" {
		status.Retracted = true
		return status
	}

	if len(msg.Title) > 0 {
		title := strings.ToLower(msg.Title[0])
		for _, marker := range []string{"retracted:", "retraction:", "[retracted]"} {
			if strings.Contains(title, marker) {
				status.Retracted = true
				return status
			}
		}
	}

	return status
}
