// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transport

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/juju/clock"
	"github.com/juju/errors"

	"github.com/luxfi/babel/codec"
	"github.com/luxfi/babel/model"
)

const (
	// DefaultTimeout bounds a single attempt unless WithTimeout says
	// otherwise.
	DefaultTimeout = 30 * time.Second
	// CallIDHeader carries the id shared by every attempt of one call.
	CallIDHeader = "X-Babel-Call-Id"
)

// Headers that callers may not set. The transport owns them.
var restrictedHeaders = map[string]bool{
	"content-length":    true,
	"content-type":      true,
	"accept":            true,
	"connection":        true,
	"host":              true,
	"user-agent":        true,
	"date":              true,
	"proxy-connection":  true,
	"expect":            true,
	"if-modified-since": true,
	"range":             true,
	"referer":           true,
	"transfer-encoding": true,
}

// HTTP posts each call to <base URL>/<method>.
type HTTP struct {
	Observers

	codec       codec.Codec
	baseURL     string
	client      *http.Client
	clock       clock.Clock
	timeout     time.Duration
	contentType string
	accept      string

	mu         sync.RWMutex
	retryCount int
	retryDelay time.Duration
}

var _ Transport = (*HTTP)(nil)

// Option configures an HTTP transport.
type Option func(*HTTP)

// WithTimeout bounds each attempt. A timed out attempt is reported as
// 504 Gateway Timeout and may be retried. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) { h.timeout = d }
}

// WithRetry sets the initial retry policy.
func WithRetry(count int, delay time.Duration) Option {
	return func(h *HTTP) {
		h.retryCount = count
		h.retryDelay = delay
	}
}

// WithContentType overrides the Content-Type sent with requests.
func WithContentType(contentType string) Option {
	return func(h *HTTP) { h.contentType = contentType }
}

// WithAccept overrides the Accept header sent with requests.
func WithAccept(accept string) Option {
	return func(h *HTTP) { h.accept = accept }
}

// WithHTTPClient sets the client used to issue requests.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTP) { h.client = c }
}

// WithClock sets the clock used for timeouts and retry delays.
func WithClock(clk clock.Clock) Option {
	return func(h *HTTP) { h.clock = clk }
}

// NewHTTP returns a transport that encodes requests with c and sends them
// below baseURL.
func NewHTTP(c codec.Codec, baseURL string, opts ...Option) (*HTTP, error) {
	if c == nil {
		return nil, errors.NotValidf("nil codec")
	}
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.NotValidf("empty base URL")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, errors.NewNotValid(err, "invalid base URL")
	}
	h := &HTTP{
		codec:       c,
		baseURL:     baseURL,
		client:      newHTTPClient(),
		clock:       clock.WallClock,
		timeout:     DefaultTimeout,
		contentType: c.ContentType(),
		accept:      c.ContentType(),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.retryCount < 0 {
		return nil, errors.NotValidf("negative retry count %d", h.retryCount)
	}
	return h, nil
}

// newHTTPClient returns a client without its own timeout. Attempts are
// bounded by the transport so that a timeout can be retried.
func newHTTPClient() *http.Client {
	return &http.Client{Transport: http.DefaultTransport.(*http.Transport).Clone()}
}

// Codec returns the codec requests and replies are encoded with.
func (h *HTTP) Codec() codec.Codec {
	return h.codec
}

// BaseURL returns the URL methods are resolved against.
func (h *HTTP) BaseURL() string {
	return h.baseURL
}

func (h *HTTP) RetryPolicy() (int, time.Duration) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.retryCount, h.retryDelay
}

// SetRetryPolicy changes the policy for calls started afterwards. A
// negative count is treated as zero.
func (h *HTTP) SetRetryPolicy(count int, delay time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.retryCount = max(count, 0)
	h.retryDelay = delay
}

func (h *HTTP) GetResponse(ctx context.Context, method string, req any, t *model.Type, headers http.Header) (any, error) {
	c, err := h.begin(method, req, t, headers)
	if err != nil {
		return nil, err
	}
	return h.run(ctx, c)
}

func (h *HTTP) Send(ctx context.Context, method string, req any, headers http.Header) error {
	c, err := h.begin(method, req, nil, headers)
	if err != nil {
		return err
	}
	_, err = h.run(ctx, c)
	return err
}

func (h *HTTP) GetResponseAsync(ctx context.Context, method string, req any, t *model.Type, headers http.Header) *Future {
	f := newFuture()
	c, err := h.begin(method, req, t, headers)
	if err != nil {
		f.resolve(nil, err)
		return f
	}
	h.runAsync(ctx, c, 1, f)
	return f
}

func (h *HTTP) SendAsync(ctx context.Context, method string, req any, headers http.Header) *Future {
	return h.GetResponseAsync(ctx, method, req, nil, headers)
}

// requestHeaders returns the headers sent with every attempt of a call.
// Caller values are percent-encoded.
func (h *HTTP) requestHeaders(callID string, extra http.Header) http.Header {
	out := make(http.Header, len(extra)+3)
	for k, vs := range extra {
		if restrictedHeaders[strings.ToLower(k)] {
			logger.Tracef("dropping restricted header %q", k)
			continue
		}
		for _, v := range vs {
			out.Add(k, url.PathEscape(v))
		}
	}
	out.Set("Content-Type", h.contentType)
	if h.accept != "" {
		out.Set("Accept", h.accept)
	}
	out.Set(CallIDHeader, callID)
	return out
}

// ConcatURL joins a base URL and a method name with exactly one slash
// unless base already ends with one.
func ConcatURL(base, method string) string {
	if strings.HasSuffix(base, "/") {
		return base + method
	}
	return base + "/" + method
}

// CleanlyCloseBody drains and closes an HTTP response body to prevent
// HTTP/2 GOAWAY errors caused by closing bodies with unread data.
// See: https://github.com/golang/go/issues/46071
func CleanlyCloseBody(body io.ReadCloser) error {
	if body == nil {
		return nil
	}
	_, _ = io.Copy(io.Discard, body)
	return body.Close()
}
