// Package network provides a pre-configured HTTP client for the outbound artwork requests.
package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tapedeck-cli/tapedeck/constant"
	"golang.org/x/net/http2"
)

// Client is the HTTP client shared by every worker.
// Per-request deadlines come from the caller's context.
var Client = &http.Client{
	Timeout:   time.Minute,
	Transport: newTransport(),
}

// newTransport initializes a tuned http.Transport sized for one request per worker.
func newTransport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 32
	t.MaxIdleConnsPerHost = 16
	t.IdleConnTimeout = 30 * time.Second
	t.ResponseHeaderTimeout = 30 * time.Second
	_ = http2.ConfigureTransport(t)
	return t
}

// Get fetches url and returns at most limit bytes of the body.
func Get(ctx context.Context, client *http.Client, url string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", constant.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: unexpected status %s", url, resp.Status)
	}

	return io.ReadAll(io.LimitReader(resp.Body, limit))
}
