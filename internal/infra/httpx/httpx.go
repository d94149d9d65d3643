// Package httpx owns the network policy for kitapyurdu fetches so the
// pipeline only has to think about "bytes of one page or an error".
package httpx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// UserAgent is sent on every request. The site serves bot-filtered
// responses to unknown agents but whitelists crawler UAs, so requests
// identify as the Google APIs crawler.
const UserAgent = "APIs-Google (+https://developers.google.com/webmasters/APIs-Google.html)"

const defaultTimeout = 30 * time.Second

// StatusError reports a non-2xx response. Fetch callers treat it the same
// as a connection failure: log and degrade to "no result".
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}

// Transport sets the fixed UA on every request. No retries here: a failed
// fetch is handled by the caller's query-relaxation policy, not by
// re-sending the same request at a rate-sensitive site.
type Transport struct {
	Base http.RoundTripper
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	// Clone before mutating headers; a RoundTripper must not write to the
	// caller's request.
	r := req.Clone(req.Context())
	if r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", UserAgent)
	}
	return base.RoundTrip(r)
}

// NewClient builds the client one lookup owns for its lifetime. timeout <= 0
// falls back to the default. No cookie jar: every page fetch is stateless.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Transport: &Transport{Base: &http.Transport{
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
		}},
		Timeout: timeout,
	}
}

// Get fetches one URL and returns the body. The ctx check happens before
// the request is built so a cancelled lookup never touches the network.
func Get(ctx context.Context, c *http.Client, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.New("nil http client")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}
	return io.ReadAll(resp.Body)
}
