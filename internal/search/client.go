package search

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

	"trialsearch/internal/domain"
)

// Searcher runs a query against the trial index
type Searcher interface {
	Search(ctx context.Context, query string) ([]domain.Trial, error)
}

// Inspector reports metadata about the search backend
type Inspector interface {
	Version(ctx context.Context) (string, error)
	IndexInfo(ctx context.Context) (domain.IndexInfo, error)
}

// StatusError is returned when the endpoint answers with a non-2xx status
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("search endpoint returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("search endpoint returned HTTP %d: %s", e.StatusCode, e.Body)
}

// Options configures a Client
type Options struct {
	Endpoint string
	Fields   []string
	Page     int
	PageSize int
	// Timeout bounds a single request. Zero leaves requests unbounded.
	Timeout   time.Duration
	UserAgent string
}

// Client queries the clinical-trials search service over HTTP
type Client struct {
	httpClient *http.Client
	opts       Options
}

// NewClient creates a new search client
func NewClient(opts Options) *Client {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.PageSize < 1 {
		opts.PageSize = 10
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "trialsearch"
	}
	opts.Endpoint = strings.TrimRight(opts.Endpoint, "/")
	return &Client{
		httpClient: &http.Client{},
		opts:       opts,
	}
}

// SearchURL returns the request URL used for query
func (c *Client) SearchURL(query string) string {
	params := url.Values{}
	params.Set("q", query)
	for _, f := range c.opts.Fields {
		params.Add("fields", f)
	}
	params.Set("page", strconv.Itoa(c.opts.Page))
	params.Set("size", strconv.Itoa(c.opts.PageSize))
	return c.opts.Endpoint + "/search?" + params.Encode()
}

// Search issues a single GET to /search. The body must be a JSON array of trials.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Trial, error) {
	var trials []domain.Trial
	if err := c.getJSON(ctx, c.SearchURL(query), &trials); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	if trials == nil {
		trials = []domain.Trial{}
	}
	return trials, nil
}

// Version returns the backend's reported version
func (c *Client) Version(ctx context.Context) (string, error) {
	var body struct {
		Version string `json:"version"`
	}
	if err := c.getJSON(ctx, c.opts.Endpoint+"/version", &body); err != nil {
		return "", fmt.Errorf("version: %w", err)
	}
	return body.Version, nil
}

// IndexInfo returns document count and size of the trial index
func (c *Client) IndexInfo(ctx context.Context) (domain.IndexInfo, error) {
	var info domain.IndexInfo
	if err := c.getJSON(ctx, c.opts.Endpoint+"/index-info", &info); err != nil {
		return domain.IndexInfo{}, fmt.Errorf("index info: %w", err)
	}
	return info, nil
}

func (c *Client) getJSON(ctx context.Context, reqURL string, out any) error {
	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.opts.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("parsing response: empty body")
		}
		return fmt.Errorf("parsing response: %w", err)
	}
	return nil
}
