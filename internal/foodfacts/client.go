// Package foodfacts queries a public food-database search API by free text.
// The returned product stubs (barcode, name, brand, image) are used only to
// pre-fill a new catalog entry; prices and allergens are filled in by hand.
package foodfacts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"
)

// DefaultBaseURL is the public Open Food Facts instance.
const DefaultBaseURL = "https://world.openfoodfacts.org"

const defaultPageSize = 20

// Stub is a partial product record from the food database.
type Stub struct {
	Barcode  string `json:"code"`
	Name     string `json:"product_name"`
	Brand    string `json:"brands"`
	ImageURL string `json:"image_front_small_url"`
}

// SearchResult is one page of search hits.
type SearchResult struct {
	Stubs     []Stub
	Page      int
	PageCount int
	Total     int
}

// Client talks to the food-database search endpoint. It keeps its own HTTP
// client; the Orderly session cookie never leaves the gateway.
type Client struct {
	baseURL  string
	pageSize int
	http     *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client. Used by tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithPageSize sets the page size requested from the search API.
func WithPageSize(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.pageSize = n
		}
	}
}

// NewClient builds a search client. An empty baseURL falls back to the
// public instance.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  baseURL,
		pageSize: defaultPageSize,
		http:     http.DefaultClient,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// searchResponse is the wire shape of the search endpoint.
type searchResponse struct {
	Count    int    `json:"count"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Products []Stub `json:"products"`
}

// Search returns one page of product stubs matching the free-text query.
// Pages are 1-based.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchResult, error) {
	if page < 1 {
		page = 1
	}

	q := url.Values{
		"search_terms": []string{query},
		"json":         []string{"1"},
		"page":         []string{strconv.Itoa(page)},
		"page_size":    []string{strconv.Itoa(c.pageSize)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cgi/search.pl?"+q.Encode(), nil)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "search request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected search status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, errors.Wrap(err, "decode search response")
	}

	pageSize := sr.PageSize
	if pageSize <= 0 {
		pageSize = c.pageSize
	}
	pageCount := 0
	if sr.Count > 0 {
		pageCount = (sr.Count + pageSize - 1) / pageSize
	}

	return &SearchResult{
		Stubs:     sr.Products,
		Page:      sr.Page,
		PageCount: pageCount,
		Total:     sr.Count,
	}, nil
}
