package httpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/aalemi-dev/svckit/observability"
	"github.com/aalemi-dev/svckit/tracing"
)

// json is the shared marshaling configuration, matching the dto package.
var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Application identity headers stamped on every outbound request.
const (
	headerAppName    = "x-app-name"
	headerAppVersion = "x-app-version"
)

// maxErrorBodySize caps how much of a non-2xx response body is retained on a
// StatusError. Error envelopes are small; the cap only guards against an
// upstream streaming something unbounded on its error path.
const maxErrorBodySize = 64 << 10

// Client is an outbound HTTP client for one upstream JSON API.
//
// Implements the Caller interface.
//
// Concurrency: Client is immutable after construction and safe for
// concurrent use; the underlying http.Client maintains its own connection
// pool.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	appName    string
	appVersion string

	tracer   tracing.Tracer
	observer observability.Observer
	logger   Logger
}

// NewClient creates a new Client for the upstream at cfg.BaseURL.
// Construction validates the base URL but performs no network I/O.
//
// The client sends the application identity headers from cfg on every
// request. Trace propagation, logging and observer hooks are inactive until
// the corresponding collaborators are injected (normally by FXModule).
//
// Returns *Client concrete type (following Go best practice: "accept interfaces, return structs").
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrBaseURLRequired
	}

	baseURL, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid http client base url %q: %w", cfg.BaseURL, err)
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		appName:    cfg.AppName,
		appVersion: cfg.AppVersion,
	}, nil
}

// GetJSON implements the Caller interface.
func (c *Client) GetJSON(ctx context.Context, path string, out interface{}) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

// PostJSON implements the Caller interface.
func (c *Client) PostJSON(ctx context.Context, path string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body for %s: %w", path, err)
		}
	}
	return c.call(ctx, http.MethodPost, path, payload, out)
}

// call performs one exchange: build the request with the standard headers
// and trace context, send it, and decode a 2xx body into out. Non-2xx
// responses become a *StatusError carrying the body.
func (c *Client) call(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	start := time.Now()

	err := c.doCall(ctx, method, path, payload, out)
	c.observeOperation(method, path, time.Since(start), err)
	return err
}

func (c *Client) doCall(ctx context.Context, method, path string, payload []byte, out interface{}) error {
	target, err := c.resolve(path)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("failed to create request for %s: %w", target, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(headerAppName, c.appName)
	req.Header.Set(headerAppVersion, c.appVersion)
	if c.tracer != nil {
		c.tracer.InjectHTTP(ctx, req.Header)
	}

	if c.logger != nil {
		c.logger.DebugWithContext(ctx, "outbound request", nil, map[string]interface{}{
			"method": method,
			"url":    target,
			"size":   len(payload),
		})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if c.logger != nil {
			c.logger.ErrorWithContext(ctx, "outbound request failed", err, map[string]interface{}{
				"method": method,
				"url":    target,
			})
		}
		return fmt.Errorf("request to %s failed: %w", target, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &StatusError{StatusCode: resp.StatusCode, Body: respBody}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", target, err)
	}
	return nil
}

// resolve joins path onto the configured base URL.
func (c *Client) resolve(path string) (string, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return "", fmt.Errorf("invalid request path %q: %w", path, err)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}
