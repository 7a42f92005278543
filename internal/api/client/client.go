// Package client provides a thin HTTP client for the automerch API.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultTimeout = 2 * time.Minute

// APIError is a non-2xx response from the automerch API.
type APIError struct {
	StatusCode int
	Title      string
	Detail     string
	Body       string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Body)
}

// errorModel is the RFC 9457 problem body the server returns.
type errorModel struct {
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

// Client is a thin HTTP client for the automerch API.
type Client struct {
	baseURL string
	http    *resty.Client
}

// New creates a new API client targeting the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{baseURL: strings.TrimRight(baseURL, "/")}
	c.http = c.configure(resty.New())
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient sets the underlying net/http client, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = c.configure(resty.NewWithClient(hc))
	}
}

func (c *Client) configure(r *resty.Client) *resty.Client {
	return r.
		SetBaseURL(c.baseURL).
		SetTimeout(defaultTimeout).
		SetHeader("User-Agent", "amctl/1.0").
		SetHeader("Accept", "application/json")
}

// WithTimeout overrides the request timeout. Drafts with many images can
// take several minutes.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(d)
	}
}

func (c *Client) get(ctx context.Context, path string, query map[string]string, dst any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, dst)
}

func (c *Client) post(ctx context.Context, path string, body, dst any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, dst)
}

func (c *Client) put(ctx context.Context, path string, body, dst any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, dst)
}

func (c *Client) del(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query map[string]string, body, dst any) error {
	req := c.http.R().SetContext(ctx)
	for k, v := range query {
		if v != "" {
			req.SetQueryParam(k, v)
		}
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if isConnectionRefused(err) {
			return fmt.Errorf("API server not running at %s", c.baseURL)
		}
		return fmt.Errorf("sending request: %w", err)
	}

	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode(), Body: string(resp.Body())}
		var em errorModel
		if json.Unmarshal(resp.Body(), &em) == nil {
			apiErr.Title = em.Title
			apiErr.Detail = em.Detail
		}
		return apiErr
	}

	if dst != nil && len(resp.Body()) > 0 {
		if err := json.Unmarshal(resp.Body(), dst); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}

func isConnectionRefused(err error) bool {
	return strings.Contains(err.Error(), "connection refused")
}
