// Package searchindex queries the OpenSearch restaurants index for
// candidate restaurant ids by cuisine.
package searchindex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	defaultIndex    = "restaurants"
	defaultPageSize = 100
)

// searchRequest is the minimal query shape sent to the _search endpoint.
type searchRequest struct {
	Query searchQuery `json:"query"`
	Size  int         `json:"size"`
}

type searchQuery struct {
	Match map[string]string `json:"match"`
}

// searchResponse is the minimal response shape returned by _search.
type searchResponse struct {
	Hits struct {
		Hits []struct {
			Source struct {
				RestaurantID string `json:"restaurant_id"`
			} `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

// credentialsPayload is the expected JSON shape stored in SSM for the
// index's basic-auth credentials.
type credentialsPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Getter interface {
	GetParameter(ctx context.Context, name string) (string, error)
}

// HTTPStatusError captures non-2xx upstream responses with status-aware context.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("searchindex: unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Body)
}

func (e *HTTPStatusError) HTTPStatusCode() int {
	return e.StatusCode
}

// Client is a focused OpenSearch client for the cuisine lookup.
type Client struct {
	baseURL     string
	index       string
	pageSize    int
	httpClient  *http.Client
	getter      Getter
	paramPrefix string

	credsOnce sync.Once
	username  string
	password  string
	credsErr  error
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithIndex(index string) Option {
	return func(c *Client) {
		c.index = strings.TrimSpace(index)
	}
}

func WithPageSize(size int) Option {
	return func(c *Client) {
		c.pageSize = size
	}
}

// NewClient creates a Client for the index at baseURL, backed by the given
// paramstore.Getter for basic-auth credential retrieval. Credentials are
// fetched from SSM on the first query and reused for the lifetime of the
// process.
func NewClient(ps Getter, paramPrefix, baseURL string, opts ...Option) (*Client, error) {
	if ps == nil {
		return nil, errors.New("searchindex: paramstore getter must not be nil")
	}
	paramPrefix = strings.TrimRight(strings.TrimSpace(paramPrefix), "/")
	if paramPrefix == "" {
		return nil, errors.New("searchindex: parameter prefix must not be empty")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("searchindex: base url must not be empty")
	}
	c := &Client{
		baseURL:     baseURL,
		index:       defaultIndex,
		pageSize:    defaultPageSize,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		getter:      ps,
		paramPrefix: paramPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.index == "" {
		return nil, errors.New("searchindex: index must not be empty")
	}
	if c.pageSize <= 0 {
		c.pageSize = defaultPageSize
	}
	return c, nil
}

// QueryByCuisine returns the candidate restaurant ids for a cuisine, most
// relevant first, bounded by the configured page size.
func (c *Client) QueryByCuisine(ctx context.Context, cuisine string) ([]string, error) {
	cuisine = strings.TrimSpace(cuisine)
	if cuisine == "" {
		return nil, errors.New("searchindex: cuisine must not be empty")
	}

	username, password, err := c.resolveCredentials(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(searchRequest{
		Query: searchQuery{Match: map[string]string{"cuisine": cuisine}},
		Size:  c.pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("searchindex: marshal query: %w", err)
	}

	url := c.searchURL()
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if reqErr != nil {
		return nil, fmt.Errorf("searchindex: create request: %w", reqErr)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(username, password)

	raw, err := c.doJSONRequest(req, url)
	if err != nil {
		return nil, fmt.Errorf("searchindex: query failed: %w", err)
	}

	var payload searchResponse
	if decErr := json.Unmarshal(raw, &payload); decErr != nil {
		return nil, fmt.Errorf("searchindex: decode response: %w", decErr)
	}

	ids := make([]string, 0, len(payload.Hits.Hits))
	for _, hit := range payload.Hits.Hits {
		if hit.Source.RestaurantID == "" {
			continue
		}
		ids = append(ids, hit.Source.RestaurantID)
	}
	return ids, nil
}

func (c *Client) searchURL() string {
	return c.baseURL + "/" + c.index + "/_search"
}

func (c *Client) credentialsParameterName() string {
	return c.paramPrefix + "/search-credentials"
}

// resolveCredentials fetches the basic-auth pair from SSM on the first call
// and returns the cached result on every subsequent call within the same
// process lifetime.
func (c *Client) resolveCredentials(ctx context.Context) (string, string, error) {
	c.credsOnce.Do(func() {
		c.username, c.password, c.credsErr = fetchCredentialsFromParamStore(ctx, c.getter, c.credentialsParameterName())
	})
	return c.username, c.password, c.credsErr
}

func (c *Client) resolvedHTTPClient() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return &http.Client{Timeout: 10 * time.Second}
}

func (c *Client) doJSONRequest(req *http.Request, url string) ([]byte, error) {
	res, doErr := c.resolvedHTTPClient().Do(req)
	if doErr != nil {
		return nil, doErr
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		buf, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return nil, &HTTPStatusError{
			StatusCode: res.StatusCode,
			URL:        url,
			Body:       string(buf),
		}
	}

	buf, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return buf, nil
}

func fetchCredentialsFromParamStore(ctx context.Context, getter Getter, name string) (string, string, error) {
	if getter == nil {
		return "", "", errors.New("searchindex: paramstore getter is nil")
	}

	raw, err := getter.GetParameter(ctx, name)
	if err != nil {
		return "", "", fmt.Errorf("searchindex: fetch credentials from paramstore: %w", err)
	}
	var cp credentialsPayload
	if err := json.Unmarshal([]byte(raw), &cp); err != nil {
		return "", "", fmt.Errorf("searchindex: unmarshal paramstore credentials as JSON: %w", err)
	}
	if cp.Username == "" || cp.Password == "" {
		return "", "", errors.New("searchindex: credentials are incomplete")
	}
	return cp.Username, cp.Password, nil
}
