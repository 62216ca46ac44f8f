// Package remote talks to the authoritative entry source over HTTP/JSON.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ramanasai/quotes/internal/entry"
	"github.com/ramanasai/quotes/internal/transfer"
)

const (
	// DefaultTimeout bounds a single request.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 5 * 1024 * 1024
	userAgent    = "quotes/1.0"
)

// Failure is a RemoteFailure: the request errored, timed out, returned a
// non-success status, or returned a body that is not a valid entry list.
type Failure struct {
	Op     string
	Status int
	Err    error
}

func (f *Failure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("remote %s: HTTP %d: %v", f.Op, f.Status, f.Err)
	}
	return fmt.Sprintf("remote %s: %v", f.Op, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Client fetches candidate entries from and posts entries to one URL.
type Client struct {
	http    *http.Client
	url     string
	mapping Mapping
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithMapping sets how payload fields map onto entries.
func WithMapping(m Mapping) Option {
	return func(c *Client) { c.mapping = m }
}

// WithTimeout sets the per-request timeout on the default client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// New validates rawURL and returns a Client for it.
func New(rawURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme: %q", u.Scheme)
	}
	c := &Client{
		http:    &http.Client{Timeout: DefaultTimeout},
		url:     u.String(),
		mapping: DefaultMapping(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) URL() string { return c.url }

// FetchCandidates GETs the entry list and maps it onto entries. Any
// transport, status or shape problem is reported as a *Failure.
func (c *Client) FetchCandidates(ctx context.Context) ([]entry.Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, &Failure{Op: "fetch", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &Failure{Op: "fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Failure{Op: "fetch", Status: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &Failure{Op: "fetch", Err: fmt.Errorf("read body: %w", err)}
	}
	objs, err := transfer.Elements(body)
	if err != nil {
		return nil, &Failure{Op: "fetch", Err: err}
	}
	entries, err := transfer.Decode(c.mapping.Apply(objs))
	if err != nil {
		return nil, &Failure{Op: "fetch", Err: err}
	}
	return entries, nil
}

// PostEntry sends e to the remote. The caller decides what to do with a
// failure; the client never retries.
func (c *Client) PostEntry(ctx context.Context, e entry.Entry) error {
	body, err := json.Marshal(c.mapping.Reverse(e))
	if err != nil {
		return &Failure{Op: "post", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return &Failure{Op: "post", Err: err}
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &Failure{Op: "post", Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &Failure{Op: "post", Status: resp.StatusCode, Err: fmt.Errorf("%s", resp.Status)}
	}
	return nil
}
