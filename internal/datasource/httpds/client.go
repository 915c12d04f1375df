// Package httpds is the HTTP side of the fetcher: a single-attempt GET client
// that streams a response body to a writer.
//
// The client never sets an overall request deadline. Trip files run to
// hundreds of megabytes, so the only timeout is on waiting for response
// headers; the body is bounded by the caller's context.
package httpds

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config configures the client. A zero HeaderTimeout means 30s.
type Config struct {
	// HeaderTimeout bounds the wait for response headers.
	HeaderTimeout time.Duration

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	UserAgent string

	// Transport replaces the default *http.Transport (tests).
	Transport http.RoundTripper
}

// StatusError is returned when the server answers with a non-200 status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("httpds: GET %s: %d %s", e.URL, e.Code, http.StatusText(e.Code))
}

// Client wraps an http.Client.
type Client struct {
	httpClient *http.Client
	userAgent  string
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) *Client {
	if cfg.HeaderTimeout <= 0 {
		cfg.HeaderTimeout = 30 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "taxipipe"
	}

	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: cfg.HeaderTimeout,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: cfg.InsecureSkipVerify, //nolint:gosec // explicitly configurable
			},
		}
	}

	return &Client{
		httpClient: &http.Client{Transport: transport},
		userAgent:  cfg.UserAgent,
	}
}

// Get issues one GET and returns the response if it is a 200. Any other
// status is a *StatusError. The caller closes the body.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	if url == "" {
		return nil, fmt.Errorf("httpds: url must not be empty")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("httpds: build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpds: GET %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, &StatusError{URL: url, Code: resp.StatusCode}
	}
	return resp, nil
}

// Download streams the body of url into w and returns the bytes written.
// A body that ends early surfaces as an error from the copy.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("httpds: read body of %s after %d bytes: %w", url, n, err)
	}
	if resp.ContentLength >= 0 && n != resp.ContentLength {
		return n, fmt.Errorf("httpds: short body from %s: got %d of %d bytes", url, n, resp.ContentLength)
	}
	return n, nil
}
