package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/mylora/mylora-desktop/internal/logging"
	"github.com/mylora/mylora-desktop/internal/model"
)

// Endpoints relative to the origin
const (
	searchEndpoint     = "search"
	gridEndpoint       = "grid_data"
	categoriesEndpoint = "categories"
)

// Grid defaults, matching the server's own
const (
	DefaultGridQuery = "*"
	DefaultGridLimit = 50
)

// MaxFetchBytes bounds Fetch, which is meant for preview images
const MaxFetchBytes = 32 << 20

// DefaultUserAgent identifies the desktop client to the catalog
const DefaultUserAgent = "MyLoRA-Desktop/1.0"

// GridQuery parameters for ListGrid. A nil Category means "no filter" and
// is left out of the request entirely.
type GridQuery struct {
	Q        string
	Category *int
	Offset   int
	Limit    int
}

// Stream is an open response body. The caller must Close it.
type Stream struct {
	Body       io.ReadCloser
	StatusCode int
	Status     string
	// Size is the announced Content-Length, -1 when unknown
	Size int64
}

// Close releases the underlying connection
func (s *Stream) Close() error {
	if s == nil || s.Body == nil {
		return nil
	}
	return s.Body.Close()
}

// Client queries one catalog origin
type Client struct {
	http    *resty.Client
	locator Locator
	log     zerolog.Logger
}

// Option configures a Client
type Option func(*clientOptions)

type clientOptions struct {
	logger    zerolog.Logger
	userAgent string
	transport http.RoundTripper
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(l zerolog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// WithUserAgent overrides DefaultUserAgent
func WithUserAgent(ua string) Option {
	return func(o *clientOptions) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithTransport replaces the HTTP transport
func WithTransport(rt http.RoundTripper) Option {
	return func(o *clientOptions) { o.transport = rt }
}

// NewClient returns a Client for origin. No timeout and no retries are
// configured; callers bound latency through the context.
func NewClient(origin string, options ...Option) *Client {
	opts := clientOptions{
		logger:    zerolog.Nop(),
		userAgent: DefaultUserAgent,
	}
	for _, opt := range options {
		opt(&opts)
	}

	hc := resty.New().
		SetHeader("User-Agent", opts.userAgent).
		SetRetryCount(0).
		SetLogger(logging.Resty(opts.logger))
	if opts.transport != nil {
		hc.SetTransport(opts.transport)
	}

	return &Client{
		http:    hc,
		locator: NewLocator(origin),
		log:     opts.logger.With().Str("component", "catalog").Logger(),
	}
}

// Locator returns the resolver bound to the client's origin
func (c *Client) Locator() Locator {
	return c.locator
}

// Search runs a free-text search. A nil limit leaves pagination size to
// the server.
func (c *Client) Search(ctx context.Context, query string, limit *int, offset int) ([]model.CatalogEntry, error) {
	params := url.Values{}
	params.Set("query", query)
	if limit != nil {
		params.Set("limit", strconv.Itoa(*limit))
	}
	params.Set("offset", strconv.Itoa(offset))

	var entries []model.CatalogEntry
	if err := c.getJSON(ctx, "search", searchEndpoint, params, &entries); err != nil {
		return nil, err
	}
	c.log.Debug().Str("query", query).Int("count", len(entries)).Msg("search finished")
	return entries, nil
}

// ListGrid lists entries for the grid view. Empty Q and non-positive Limit
// take the defaults "*" and 50.
func (c *Client) ListGrid(ctx context.Context, q GridQuery) ([]model.CatalogEntry, error) {
	if q.Q == "" {
		q.Q = DefaultGridQuery
	}
	if q.Limit <= 0 {
		q.Limit = DefaultGridLimit
	}

	params := url.Values{}
	params.Set("q", q.Q)
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("limit", strconv.Itoa(q.Limit))
	if q.Category != nil {
		params.Set("category", strconv.Itoa(*q.Category))
	}

	var entries []model.CatalogEntry
	if err := c.getJSON(ctx, "grid", gridEndpoint, params, &entries); err != nil {
		return nil, err
	}
	c.log.Debug().Str("q", q.Q).Int("count", len(entries)).Msg("grid listing finished")
	return entries, nil
}

// ListCategories returns every catalog category
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.getJSON(ctx, "categories", categoriesEndpoint, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Head issues a HEAD request and returns the status code
func (c *Client) Head(ctx context.Context, rawURL string) (int, error) {
	resp, err := c.http.R().SetContext(ctx).Head(rawURL)
	if err != nil {
		return 0, &TransportError{Op: "head", URL: rawURL, Err: err}
	}
	return resp.StatusCode(), nil
}

// Open starts a GET without reading the body and without judging the
// status. headers may be nil.
func (c *Client) Open(ctx context.Context, rawURL string, headers map[string]string) (*Stream, error) {
	req := c.http.R().SetContext(ctx).SetDoNotParseResponse(true)
	if len(headers) > 0 {
		req.SetHeaders(headers)
	}

	resp, err := req.Get(rawURL)
	if err != nil {
		if resp != nil && resp.RawBody() != nil {
			resp.RawBody().Close()
		}
		return nil, &TransportError{Op: "get", URL: rawURL, Err: err}
	}

	size := int64(-1)
	if resp.RawResponse != nil {
		size = resp.RawResponse.ContentLength
	}
	return &Stream{
		Body:       resp.RawBody(),
		StatusCode: resp.StatusCode(),
		Status:     resp.Status(),
		Size:       size,
	}, nil
}

// Stream opens rawURL and fails with a *RemoteError unless the status is 2xx.
// On success the caller owns the returned body.
func (c *Client) Stream(ctx context.Context, rawURL string, headers map[string]string) (*Stream, error) {
	s, err := c.Open(ctx, rawURL, headers)
	if err != nil {
		return nil, err
	}
	if s.StatusCode < 200 || s.StatusCode > 299 {
		s.Close()
		return nil, &RemoteError{Op: "get", URL: rawURL, StatusCode: s.StatusCode, Status: s.Status}
	}
	return s, nil
}

// Fetch reads a small resource fully, such as a preview image
func (c *Client) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	s, err := c.Stream(ctx, rawURL, nil)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	data, err := io.ReadAll(io.LimitReader(s.Body, MaxFetchBytes+1))
	if err != nil {
		return nil, &TransportError{Op: "get", URL: rawURL, Err: err}
	}
	if len(data) > MaxFetchBytes {
		return nil, &RemoteError{Op: "get", URL: rawURL, StatusCode: s.StatusCode, Status: s.Status,
			Err: fmt.Errorf("body exceeds %d bytes", MaxFetchBytes)}
	}
	return data, nil
}

func (c *Client) getJSON(ctx context.Context, op, rel string, params url.Values, out any) error {
	target := c.locator.Resolve(rel)

	req := c.http.R().SetContext(ctx).SetHeader("Accept", "application/json")
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}

	resp, err := req.Get(target)
	if err != nil {
		return &TransportError{Op: op, URL: target, Err: err}
	}
	if !resp.IsSuccess() {
		return &RemoteError{Op: op, URL: target, StatusCode: resp.StatusCode(), Status: resp.Status()}
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		var syntaxErr *json.SyntaxError
		reason := "malformed JSON"
		if !errors.As(err, &syntaxErr) {
			reason = "unexpected JSON shape"
		}
		return &RemoteError{Op: op, URL: target, StatusCode: resp.StatusCode(), Status: resp.Status(),
			Err: fmt.Errorf("%s: %w", reason, err)}
	}
	return nil
}
