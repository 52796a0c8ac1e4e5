// Package fetch downloads source documents over HTTP.
package fetch

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

// Options configure a Client.
type Options struct {
	// Timeout bounds each request end to end. Zero means 60 seconds.
	Timeout time.Duration
	// UserAgent is sent on every request when non-empty.
	UserAgent string
	// InsecureTLS skips certificate verification. The ministry site serves
	// an incomplete certificate chain.
	InsecureTLS bool
}

// Client fetches raw document bytes from source URLs.
type Client struct {
	hc        *http.Client
	userAgent string
}

func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if opts.InsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		hc: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		userAgent: opts.UserAgent,
	}
}

// Get downloads url and returns the full response body. Any non-2xx status
// is an error.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body of %s: %w", url, err)
	}
	return data, nil
}
