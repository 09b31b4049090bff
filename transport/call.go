// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/juju/errors"

	"github.com/luxfi/babel/faults"
	"github.com/luxfi/babel/model"
)

// call is the state of one logical call. It is never shared between calls.
type call struct {
	id         string
	url        string
	method     string
	payload    []byte
	headers    http.Header
	result     *model.Type
	retryCount int
	retryDelay time.Duration
}

// reply is the outcome of one attempt.
type reply struct {
	status int
	header http.Header
	body   []byte
	// err is set for every outcome other than a 2xx response.
	err error
	// canceled is set when the caller gave up on the call.
	canceled bool
}

func (r *reply) failed() bool {
	return r.err != nil
}

func (r *reply) retryable() bool {
	if !r.failed() || r.canceled {
		return false
	}
	switch r.status {
	case http.StatusRequestTimeout, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

func (r *reply) statusLine() string {
	return fmt.Sprintf("%d %s", r.status, http.StatusText(r.status))
}

// begin serializes the request once for all attempts and reports Start.
func (h *HTTP) begin(method string, req any, t *model.Type, headers http.Header) (*call, error) {
	if method == "" {
		return nil, errors.NotValidf("empty method")
	}
	var buf bytes.Buffer
	if err := h.codec.Serialize(&buf, req); err != nil {
		return nil, errors.Trace(err)
	}
	count, delay := h.RetryPolicy()
	c := &call{
		id:         uuid.NewString(),
		url:        ConcatURL(h.baseURL, method),
		method:     method,
		payload:    buf.Bytes(),
		result:     t,
		retryCount: count,
		retryDelay: delay,
	}
	c.headers = h.requestHeaders(c.id, headers)
	h.Fire(c.event(StageStart, 0, nil, 0))
	return c, nil
}

func (c *call) event(stage Stage, attempt int, r *reply, d time.Duration) Event {
	e := Event{
		Stage:          stage,
		CallID:         c.id,
		URL:            c.url,
		Method:         c.method,
		Attempt:        attempt,
		Request:        c.payload,
		RequestHeaders: c.headers,
		Duration:       d,
	}
	if r != nil {
		e.Response = r.body
		e.ResponseHeaders = r.header
		e.Status = r.statusLine()
		e.StatusCode = r.status
	}
	return e
}

// run drives a call to completion on the calling goroutine.
func (h *HTTP) run(ctx context.Context, c *call) (any, error) {
	for attempt := 1; ; attempt++ {
		done := make(chan struct{})
		var (
			r *reply
			d time.Duration
		)
		h.exchange(ctx, c, func(res *reply, elapsed time.Duration) {
			r, d = res, elapsed
			close(done)
		})
		<-done

		retry, err := h.settle(c, attempt, r, d)
		if !r.failed() {
			return h.decode(c, r)
		}
		if !retry {
			return nil, err
		}
		if c.retryDelay > 0 {
			select {
			case <-h.clock.After(c.retryDelay):
			case <-ctx.Done():
				return nil, errors.Annotatef(ctx.Err(), "waiting to retry %s", c.url)
			}
		}
	}
}

// runAsync is run without blocking: every wait is a continuation.
func (h *HTTP) runAsync(ctx context.Context, c *call, attempt int, f *Future) {
	h.exchange(ctx, c, func(r *reply, d time.Duration) {
		retry, err := h.settle(c, attempt, r, d)
		switch {
		case !r.failed():
			f.resolve(h.decode(c, r))
		case !retry:
			f.resolve(nil, err)
		case c.retryDelay <= 0:
			h.runAsync(ctx, c, attempt+1, f)
		default:
			go func() {
				select {
				case <-h.clock.After(c.retryDelay):
					h.runAsync(ctx, c, attempt+1, f)
				case <-ctx.Done():
					f.resolve(nil, errors.Annotatef(ctx.Err(), "waiting to retry %s", c.url))
				}
			}()
		}
	})
}

// exchange makes one attempt and passes its outcome to done. The request
// races the attempt timeout; when the timeout wins the request is aborted
// and the attempt is reported as a gateway timeout.
func (h *HTTP) exchange(ctx context.Context, c *call, done func(*reply, time.Duration)) {
	start := h.clock.Now()
	reqCtx, cancel := context.WithCancel(ctx)
	result := make(chan *reply, 1)
	go func() {
		result <- h.do(reqCtx, c)
	}()

	var timeout <-chan time.Time
	if h.timeout > 0 {
		timeout = h.clock.After(h.timeout)
	}
	go func() {
		defer cancel()
		var r *reply
		select {
		case r = <-result:
		case <-timeout:
			cancel()
			<-result
			msg := "Request to " + c.url + " timed out"
			r = &reply{
				status: http.StatusGatewayTimeout,
				body:   []byte(msg),
				err:    errors.NewTimeout(nil, msg),
			}
		}
		done(r, h.clock.Now().Sub(start))
	}()
}

// do issues a single POST. Failures to reach the service are reported as
// 500 with the error text as body.
func (h *HTTP) do(ctx context.Context, c *call) *reply {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(c.payload))
	if err != nil {
		return connectionFailure(ctx, nil, errors.Annotate(err, "failed to create request"))
	}
	req.Header = c.headers.Clone()

	resp, err := h.client.Do(req)
	if err != nil {
		return connectionFailure(ctx, nil, errors.Annotate(err, "failed to issue request"))
	}
	defer CleanlyCloseBody(resp.Body)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return connectionFailure(ctx, resp.Header, errors.Annotate(err, "failed to read response"))
	}
	r := &reply{status: resp.StatusCode, header: resp.Header, body: body}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.err = errors.Errorf("received status code: %d", resp.StatusCode)
	}
	return r
}

func connectionFailure(ctx context.Context, header http.Header, err error) *reply {
	return &reply{
		status:   http.StatusInternalServerError,
		header:   header,
		body:     []byte(err.Error()),
		err:      err,
		canceled: ctx.Err() != nil,
	}
}

// settle reports the outcome of an attempt. For a failed attempt it returns
// the error the call fails with and whether another attempt is allowed.
func (h *HTTP) settle(c *call, attempt int, r *reply, d time.Duration) (bool, error) {
	if !r.failed() {
		logger.Debugf("%s: attempt %d completed with %s in %v", c.url, attempt, r.statusLine(), d)
		h.Fire(c.event(StageComplete, attempt, r, d))
		return false, nil
	}

	err := h.failure(c, r)
	e := c.event(StageFailure, attempt, r, d)
	e.Err = err
	h.Fire(e)

	if r.retryable() && attempt <= c.retryCount {
		logger.Warningf("%s: attempt %d failed with %s, retrying in %v", c.url, attempt, r.statusLine(), c.retryDelay)
		return true, err
	}
	logger.Debugf("%s: attempt %d failed with %s: %v", c.url, attempt, r.statusLine(), r.err)
	return false, err
}

// failure builds the error for a failed attempt. A reply carrying a
// ServiceError is raised as the remote fault; anything else becomes a
// RequestError.
func (h *HTTP) failure(c *call, r *reply) error {
	if len(r.body) > 0 {
		var se faults.ServiceError
		err := h.codec.DeserializeModel(bytes.NewReader(r.body), &se)
		if err == nil && (se.Details != "" || len(se.Errors) > 0) {
			return faults.FromServiceError(&se, faults.KindFromStatus(r.status))
		}
	}
	return newRequestError("Error connecting to", faults.CodeRequestError, r.status, c.url, r.header, string(r.body), r.err)
}

func (h *HTTP) decode(c *call, r *reply) (any, error) {
	if c.result == nil {
		return nil, nil
	}
	v, err := h.codec.Deserialize(bytes.NewReader(r.body), c.result)
	if err != nil {
		return nil, newRequestError("Invalid response format", faults.CodeResponseFormat, r.status, c.url, r.header, string(r.body), err)
	}
	return v, nil
}

// Future is the pending result of a non-blocking call.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(v any, err error) {
	f.value, f.err = v, err
	close(f.done)
}

// Done is closed once the call has finished.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the call finishes or ctx is done.
func (f *Future) Wait(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, errors.Trace(ctx.Err())
	}
}

// Result blocks until the call finishes.
func (f *Future) Result() (any, error) {
	<-f.done
	return f.value, f.err
}
