package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/siops/insights-cli/internal/config"
	"github.com/siops/insights-cli/internal/constants"
	"github.com/siops/insights-cli/internal/http"
)

// Client performs HTTP requests against the Storage Insights API and
// hands back validated JSON bodies. Failures are translated into the
// typed errors in errors.go. Every call is a single attempt: the policy
// is to surface failures immediately, not to retry.
type Client struct {
	httpClient *nethttp.Client
}

// Options configures a Client.
type Options struct {
	// Timeout bounds each request; zero means the 30s default.
	Timeout time.Duration
	Proxy   config.ProxySettings
}

// NewClient creates an API client.
func NewClient(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = constants.HTTPRequestTimeout
	}

	baseClient, err := http.ConfigureHTTPClient(opts.Proxy, opts.Timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to configure HTTP client: %w", err)
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = baseClient
	retryClient.RetryMax = 0
	retryClient.Logger = nil
	// Exactly one attempt per call; 5xx responses must pass through to
	// the status check instead of being swallowed by the retry policy.
	retryClient.CheckRetry = func(ctx context.Context, resp *nethttp.Response, err error) (bool, error) {
		return false, err
	}

	return &Client{
		httpClient: retryClient.StandardClient(),
	}, nil
}

// RequestJSON performs an HTTP request and returns the response body
// after verifying it decodes as JSON. The Accept header is always set;
// caller-supplied headers are added on top. A non-empty body is sent as
// the raw UTF-8 bytes of the string.
func (c *Client) RequestJSON(ctx context.Context, method, url string, headers map[string]string, body string) (json.RawMessage, error) {
	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}

	req, err := nethttp.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	payload, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		// Body is best effort here; a read error still yields a
		// status error with whatever was received.
		return nil, &HTTPStatusError{
			StatusCode: resp.StatusCode,
			URL:        url,
			Body:       string(payload),
		}
	}

	if readErr != nil {
		return nil, &TransportError{URL: url, Err: readErr}
	}

	var probe interface{}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return nil, &DecodeError{URL: url, Err: err}
	}

	return payload, nil
}
