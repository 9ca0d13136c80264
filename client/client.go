// Package client is the HTTP client for the ShotLocker REST API. Every call
// goes through Transport, which attaches the bearer token and handles 401s.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/upb/shotlocker/identity"
	"go.uber.org/zap"
)

// APIPrefix is appended to the base URL for every API call
const APIPrefix = "/api"

// maxErrorBody bounds how much of a failed response is kept in StatusError
const maxErrorBody = 4096

// StatusError is returned by the JSON helpers for non-2xx responses
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("api returned status %d: %s", e.StatusCode, e.Body)
}

// Options configures a Client
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport *Transport
	Logger    *zap.Logger
}

// Client issues requests against {BaseURL}/api
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// New creates a Client. All traffic uses opts.Transport.
func New(opts Options) *Client {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	transport := opts.Transport
	if transport == nil {
		transport = NewTransport(nil, nil, nil, logger)
	}
	return &Client{
		baseURL: strings.TrimSuffix(opts.BaseURL, "/") + APIPrefix,
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   opts.Timeout,
		},
		logger: logger,
	}
}

// BaseURL returns the API root requests are resolved against
func (c *Client) BaseURL() string {
	return c.baseURL
}

// NewRequest builds a request for path relative to the API root with the
// default JSON headers set.
func (c *Client) NewRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// Do sends req. 401 handling has already happened when it returns.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// GetJSON performs a GET and decodes the JSON body into out
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	req, err := c.NewRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// FetchDescriptor calls GET /api/auth and returns the identity provider descriptor
func (c *Client) FetchDescriptor(ctx context.Context) (*identity.Descriptor, error) {
	var resp identity.ConfigResponse
	if err := c.GetJSON(ctx, "/auth", &resp); err != nil {
		return nil, err
	}
	if resp.Auth == nil {
		return nil, fmt.Errorf("auth config response has no auth descriptor")
	}
	c.logger.Debug("auth config fetched",
		zap.String("region", resp.Auth.Region),
		zap.Bool("oauth", resp.Auth.HasOAuth()))
	return resp.Auth, nil
}
