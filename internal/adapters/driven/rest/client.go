package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/meridian-labs/entsync-core/internal/core/domain"
	"github.com/meridian-labs/entsync-core/internal/core/ports/driven"
)

// Verify interface compliance
var _ driven.RemoteClient = (*Client)(nil)

const defaultPageSize = 100

// Config describes one REST resource endpoint a client talks to.
type Config struct {
	// BaseURL is the API root, e.g. https://api.example.com
	BaseURL string `json:"base_url"`

	// Resource is the collection path under the base URL, e.g. /users
	Resource string `json:"resource"`

	// Token optionally authenticates requests as a bearer token
	Token string `json:"token,omitempty"`

	// PageSize bounds list page fetches. Defaults to 100.
	PageSize int `json:"page_size,omitempty"`

	// Params are query parameters sent with every request
	Params map[string]string `json:"params,omitempty"`

	// HTTPClient overrides the default client (30s timeout)
	HTTPClient *http.Client `json:"-"`
}

// Client fetches and pushes remote entities over a JSON REST API.
// Lists are paged with page/per_page query parameters; a short page
// ends the stream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	resource   string
	token      string
	pageSize   int
	params     map[string]string
	maxRetries int
}

// NewClient creates a REST remote client for the configured resource.
func NewClient(cfg Config) *Client {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		resource:   "/" + strings.Trim(cfg.Resource, "/"),
		token:      cfg.Token,
		pageSize:   pageSize,
		params:     cfg.Params,
		maxRetries: 3,
	}
}

// ImportEntity fetches a single remote entity by its remote id.
func (c *Client) ImportEntity(ctx context.Context, id string) (domain.RemoteEntity, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.entityPath(id), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeEntity(resp.Body)
}

// ImportList fetches a filtered list of remote entities. Pages are fetched
// lazily as the stream is consumed, each yielded as a nested stream.
func (c *Client) ImportList(ctx context.Context, filters domain.ListFilters, options map[string]string) (domain.RemoteStream, error) {
	query := url.Values{}
	for k, v := range c.params {
		query.Set(k, v)
	}
	for k, v := range filters {
		query.Set(k, fmt.Sprintf("%v", v))
	}
	for k, v := range options {
		query.Set(k, v)
	}
	query.Set("per_page", strconv.Itoa(c.pageSize))

	return func(yield func(any, error) bool) {
		for page := 1; ; page++ {
			query.Set("page", strconv.Itoa(page))
			items, err := c.fetchPage(ctx, query)
			if err != nil {
				yield(nil, err)
				return
			}
			if len(items) == 0 {
				return
			}
			if !yield(domain.FlatStream(items...), nil) {
				return
			}
			if len(items) < c.pageSize {
				return
			}
		}
	}, nil
}

func (c *Client) fetchPage(ctx context.Context, query url.Values) ([]any, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.resource+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var items []any
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode list page: %w", err)
	}
	return items, nil
}

// CreateEntity pushes a new remote entity and returns the remote response.
func (c *Client) CreateEntity(ctx context.Context, payload domain.RemoteEntity) (domain.RemoteEntity, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, c.resource, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeEntity(resp.Body)
}

// UpdateEntity pushes changes to an existing remote entity and returns the
// remote response.
func (c *Client) UpdateEntity(ctx context.Context, id string, payload domain.RemoteEntity) (domain.RemoteEntity, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPatch, c.entityPath(id), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return decodeEntity(resp.Body)
}

func (c *Client) entityPath(id string) string {
	return c.resource + "/" + url.PathEscape(id)
}

func decodeEntity(r io.Reader) (domain.RemoteEntity, error) {
	var fields map[string]any
	if err := json.NewDecoder(r).Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	return domain.RemoteEntity(fields), nil
}

// doRequest performs an HTTP request with retry on server errors.
// A 404 maps to domain.ErrNotFound.
func (c *Client) doRequest(ctx context.Context, method, path string, body io.Reader) (*http.Response, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
	}

	var resp *http.Response
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err = c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("do request: %w", err)
		}

		// Success or non-retryable error
		if resp.StatusCode < 500 {
			break
		}

		// Server error, retry with backoff
		resp.Body.Close()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt+1) * time.Second):
		}
	}

	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, fmt.Errorf("%s %s: %w", method, path, domain.ErrNotFound)
	}
	if resp.StatusCode >= 400 {
		msg, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("remote API error %d: %s", resp.StatusCode, string(msg))
	}

	return resp, nil
}
