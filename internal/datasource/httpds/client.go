// Package httpds is the importer's HTTP client. It fetches remote CSV sources
// and carries insert/count requests to the hosted table's REST endpoint.
//
// Retries are opt-in: with MaxRetries=0 every request is sent exactly once,
// which is what the batch loader expects. When enabled, 429 and 5xx responses
// and transport errors are retried with capped exponential backoff.
package httpds

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config configures the client. Zero values get defaults:
//   - Timeout:        30s, unless NoTimeout is set
//   - MaxRetries:     0
//   - InitialBackoff: 200ms
//   - MaxBackoff:     5s
type Config struct {
	// Timeout bounds a single attempt, including reading the response body.
	Timeout time.Duration

	// NoTimeout leaves attempts bounded by the request context only. Streamed
	// downloads use it so a slow body is not cut off mid-read.
	NoTimeout bool

	// MaxRetries is the number of attempts after the first one.
	MaxRetries int

	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// BaseHeaders are sent with every request; per-request headers win.
	BaseHeaders http.Header

	// Transport overrides http.DefaultTransport, mostly for tests.
	Transport http.RoundTripper
}

// Client wraps an http.Client with optional retry and backoff.
type Client struct {
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration
	baseHeaders    http.Header

	// sleep waits between attempts; tests replace it to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient constructs a Client from cfg, applying defaults for zero values.
func NewClient(cfg Config) *Client {
	switch {
	case cfg.NoTimeout:
		cfg.Timeout = 0
	case cfg.Timeout <= 0:
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	transport := cfg.Transport
	if transport == nil {
		transport = http.DefaultTransport
	}

	return &Client{
		httpClient:     &http.Client{Timeout: cfg.Timeout, Transport: transport},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		baseHeaders:    cfg.BaseHeaders.Clone(),
		sleep:          sleepWithContext,
	}
}

// Do sends method url with body. The body is a byte slice so it can be
// re-sent on retry. A returned response always has a non-nil Body that the
// caller must close; its status may be any non-retryable code.
func (c *Client) Do(
	ctx context.Context,
	method, url string,
	body []byte,
	headers http.Header,
) (*http.Response, error) {
	if method == "" {
		return nil, fmt.Errorf("httpds: method must not be empty")
	}
	if url == "" {
		return nil, fmt.Errorf("httpds: url must not be empty")
	}

	attempts := c.maxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("httpds: build request: %w", err)
		}
		for k, vs := range c.baseHeaders {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
		for k, vs := range headers {
			req.Header.Del(k)
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}

		resp, err := c.httpClient.Do(req)
		switch {
		case err != nil:
			lastErr = fmt.Errorf("httpds: %s %s: %w", method, url, err)
		case !isRetryableStatus(resp.StatusCode) || attempt+1 >= attempts:
			return resp, nil
		default:
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("httpds: retryable status %d from %s %s", resp.StatusCode, method, url)
		}

		if attempt+1 >= attempts {
			break
		}
		if err := c.sleep(ctx, backoffDuration(c.initialBackoff, attempt, c.maxBackoff)); err != nil {
			return nil, err
		}
	}

	return nil, lastErr
}

// Get is a convenience wrapper over Do for HTTP GET.
func (c *Client) Get(ctx context.Context, url string, headers http.Header) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, url, nil, headers)
}

// Post is a convenience wrapper over Do for HTTP POST.
func (c *Client) Post(ctx context.Context, url string, body []byte, headers http.Header) (*http.Response, error) {
	return c.Do(ctx, http.MethodPost, url, body, headers)
}

// Head is a convenience wrapper over Do for HTTP HEAD.
func (c *Client) Head(ctx context.Context, url string, headers http.Header) (*http.Response, error) {
	return c.Do(ctx, http.MethodHead, url, nil, headers)
}

// StatusError reports a non-2xx response. Body holds the first few KiB of the
// response, which for PostgREST is a JSON error object.
type StatusError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// CheckStatus returns nil for 2xx responses. Otherwise it drains and closes
// the body and returns a *StatusError.
func CheckStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	defer resp.Body.Close()
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
	se := &StatusError{StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(b))}
	if resp.Request != nil {
		se.Method = resp.Request.Method
		se.URL = resp.Request.URL.Redacted()
	}
	return se
}

// isRetryableStatus reports whether code is transient: 429 or any 5xx.
func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests {
		return true
	}
	return code >= 500 && code <= 599
}

// backoffDuration returns initial*2^attempt clamped to max.
func backoffDuration(initial time.Duration, attempt int, max time.Duration) time.Duration {
	if attempt <= 0 {
		if initial > max {
			return max
		}
		return initial
	}
	d := initial << attempt
	if d > max || d <= 0 {
		return max
	}
	return d
}

// sleepWithContext waits d or until ctx is done.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
