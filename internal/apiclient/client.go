// Package apiclient pulls annotation data from a collaborator REST API so
// it can be aggregated locally.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/annolab/pivot/schema"
)

// Client fetches paginated resources from the annotation service. The
// service paginates with skip/limit and wraps lists in {data, count}.
type Client struct {
	baseURL  string
	token    string
	pageSize int
	http     *http.Client
}

// New returns a client for the given base URL. An empty token disables the
// Authorization header.
func New(baseURL, token string, pageSize int) *Client {
	return &Client{
		baseURL:  baseURL,
		token:    token,
		pageSize: pageSize,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// envelope is the list wrapper used by every collection endpoint.
type envelope[T any] struct {
	Data  []T `json:"data"`
	Count int `json:"count"`
}

// FetchResults pulls all annotation results, optionally for one run.
func (c *Client) FetchResults(ctx context.Context, runID int64) ([]schema.AnnotationResult, error) {
	params := url.Values{}
	if runID != 0 {
		params.Set("run_id", strconv.FormatInt(runID, 10))
	}
	return fetchAll[schema.AnnotationResult](ctx, c, "/api/v1/annotations", params)
}

// FetchSchemas pulls all annotation schemas.
func (c *Client) FetchSchemas(ctx context.Context) ([]schema.AnnotationSchema, error) {
	return fetchAll[schema.AnnotationSchema](ctx, c, "/api/v1/annotation_schemas", nil)
}

// FetchAssets pulls all assets.
func (c *Client) FetchAssets(ctx context.Context) ([]schema.Asset, error) {
	return fetchAll[schema.Asset](ctx, c, "/api/v1/assets", nil)
}

// FetchSources pulls all sources.
func (c *Client) FetchSources(ctx context.Context) ([]schema.Source, error) {
	return fetchAll[schema.Source](ctx, c, "/api/v1/sources", nil)
}

// fetchAll pages through a collection endpoint until the reported count is
// reached or a page comes back short.
func fetchAll[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, error) {
	if params == nil {
		params = url.Values{}
	}
	var out []T
	for skip := 0; ; skip += c.pageSize {
		params.Set("skip", strconv.Itoa(skip))
		params.Set("limit", strconv.Itoa(c.pageSize))

		page, total, err := fetchPage[T](ctx, c, path, params)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		if len(page) < c.pageSize || (total > 0 && len(out) >= total) {
			return out, nil
		}
	}
}

func fetchPage[T any](ctx context.Context, c *Client, path string, params url.Values) ([]T, int, error) {
	reqURL := c.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, 0, fmt.Errorf("request to %s returned status %d", path, resp.StatusCode)
	}

	var env envelope[T]
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return env.Data, env.Count, nil
}
