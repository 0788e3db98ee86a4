// Package catalogclient is the HTTP client of the storefront API. It feeds
// the listing synchronizer and the live search of the terminal client.
package catalogclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/storefront/internal/apperr"
	"github.com/DjordjeVuckovic/storefront/internal/domain"
	"github.com/DjordjeVuckovic/storefront/internal/listing"
	"github.com/DjordjeVuckovic/storefront/internal/search"
	"github.com/DjordjeVuckovic/storefront/pkg/pagination"
	"golang.org/x/time/rate"
)

const (
	DefaultTimeout = 10 * time.Second
	// DefaultSearchLimit is how many hits a live search shows
	DefaultSearchLimit = 8
	// MaxResponseBytes caps a catalog response body
	MaxResponseBytes = 4 << 20
)

type Selection struct {
	Data       []domain.Product `json:"data"`
	OrderBy    string           `json:"orderBy"`
	ComputedAt *time.Time       `json:"computedAt,omitempty"`
}

type Client struct {
	baseURL     *url.URL
	http        *http.Client
	limiter     *rate.Limiter
	searchLimit int
}

type Option func(*Client)

func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.http = c
	}
}

// WithRateLimit caps outgoing requests per second. Callers wait for a token,
// bounded by their context.
func WithRateLimit(rps float64, burst int) Option {
	return func(cl *Client) {
		if rps <= 0 {
			cl.limiter = nil
			return
		}
		cl.limiter = rate.NewLimiter(rate.Limit(rps), max(1, burst))
	}
}

func WithSearchLimit(n int) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.searchLimit = n
		}
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid catalog url %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:     u,
		http:        &http.Client{Timeout: DefaultTimeout},
		searchLimit: DefaultSearchLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// FetchItems loads one listing page.
func (c *Client) FetchItems(ctx context.Context, q domain.ProductQuery) (*pagination.Page[domain.Product], error) {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("limit", strconv.Itoa(q.Limit))
	f := q.Filter
	if f.Category != "" {
		v.Set("category", f.Category)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.MinPrice != nil {
		v.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		v.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.InStock {
		v.Set("inStock", "true")
	}
	if f.Sort != "" {
		v.Set("sort", string(f.Sort))
	}

	var page pagination.Page[domain.Product]
	if err := c.get(ctx, "fetch items", "/api/v1/products", v, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Search returns the first page of hits for query.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Product, error) {
	v := url.Values{}
	v.Set("q", query)
	v.Set("page", "1")
	v.Set("limit", strconv.Itoa(c.searchLimit))

	var page pagination.Page[domain.Product]
	if err := c.get(ctx, "search", "/api/v1/search", v, &page); err != nil {
		return nil, err
	}
	return page.Data, nil
}

// Featured fetches a popularity selection. refresh bypasses the rotation snapshot.
func (c *Client) Featured(ctx context.Context, minCount, maxCount int, refresh bool) (*Selection, error) {
	v := countValues(minCount, maxCount)
	if refresh {
		v.Set("refresh", "true")
	}
	var sel Selection
	if err := c.get(ctx, "featured", "/api/v1/selections/featured", v, &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

func (c *Client) Latest(ctx context.Context, minCount, maxCount int) (*Selection, error) {
	var sel Selection
	if err := c.get(ctx, "latest", "/api/v1/selections/latest", countValues(minCount, maxCount), &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

func (c *Client) get(ctx context.Context, op, path string, query url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return apperr.NewFetch(op, "rate limit wait aborted", err)
		}
	}

	u := c.baseURL.JoinPath(path)
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return apperr.NewFetch(op, "failed to create request", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return apperr.NewFetch(op, "catalog unreachable", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, MaxResponseBytes+1))
	if err != nil {
		return apperr.NewFetch(op, "failed to read response", err)
	}
	if len(body) > MaxResponseBytes {
		return &apperr.FetchError{Op: op, Status: res.StatusCode, Message: "response too large"}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		fe := &apperr.FetchError{Op: op, Status: res.StatusCode, Message: http.StatusText(res.StatusCode)}
		var er apperr.ErrorResponse
		if json.Unmarshal(body, &er) == nil && er.Error != "" {
			fe.Message = er.Error
		}
		return fe
	}

	if err := json.Unmarshal(body, out); err != nil {
		return apperr.NewFetch(op, "malformed response", err)
	}
	return nil
}

func countValues(minCount, maxCount int) url.Values {
	v := url.Values{}
	v.Set("min", strconv.Itoa(minCount))
	v.Set("max", strconv.Itoa(maxCount))
	return v
}

// IsFetchError reports whether err is a failed catalog call.
func IsFetchError(err error) bool {
	var fe *apperr.FetchError
	return errors.As(err, &fe)
}

var (
	_ listing.Fetcher = (*Client)(nil)
	_ search.Provider = (*Client)(nil)
)
