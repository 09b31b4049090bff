// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package babel

import (
	"context"
	"net/http"
	"time"

	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/luxfi/babel/model"
	"github.com/luxfi/babel/transport"
)

var logger = loggo.GetLogger("babel")

// Caller is the protocol-agnostic client interface. Generated service
// clients depend on it rather than on a particular transport.
type Caller interface {
	// Call sends req to method and decodes the reply into reply.
	Call(ctx context.Context, method string, req any, reply model.Model) error

	// Notify sends req to method and ignores any reply.
	Notify(ctx context.Context, method string, req any) error
}

// Client is the base of generated service clients. It sends every call
// through one Transport together with its Headers.
type Client struct {
	name      string
	transport transport.Transport

	// Headers are sent with every call. They are read while a call is in
	// flight, so they must not be modified concurrently with calls made
	// through the client.
	Headers http.Header
}

var _ Caller = (*Client)(nil)

// NewClient returns a client named for the service it talks to.
func NewClient(name string, t transport.Transport) (*Client, error) {
	if t == nil {
		return nil, errors.NotValidf("nil transport")
	}
	return &Client{
		name:      name,
		transport: t,
		Headers:   make(http.Header),
	}, nil
}

// Name returns the service name the client was created with.
func (c *Client) Name() string {
	return c.name
}

// Transport returns the transport calls are sent through.
func (c *Client) Transport() transport.Transport {
	return c.transport
}

func (c *Client) Call(ctx context.Context, method string, req any, reply model.Model) error {
	if err := checkMethod(method); err != nil {
		return err
	}
	var t *model.Type
	if reply != nil {
		t = reply.ModelType()
	}
	v, err := c.transport.GetResponse(ctx, method, req, t, c.Headers)
	if err != nil {
		return err
	}
	return assignReply(reply, v)
}

// CallAsync is the non-blocking form of Call. The future resolves to a
// value of type t.
func (c *Client) CallAsync(ctx context.Context, method string, req any, t *model.Type) *transport.Future {
	return c.transport.GetResponseAsync(ctx, method, req, t, c.Headers)
}

func (c *Client) Notify(ctx context.Context, method string, req any) error {
	if err := checkMethod(method); err != nil {
		return err
	}
	return c.transport.Send(ctx, method, req, c.Headers)
}

// NotifyAsync is the non-blocking form of Notify.
func (c *Client) NotifyAsync(ctx context.Context, method string, req any) *transport.Future {
	return c.transport.SendAsync(ctx, method, req, c.Headers)
}

func (c *Client) OnStart(h transport.Handler)    { c.transport.OnStart(h) }
func (c *Client) OnComplete(h transport.Handler) { c.transport.OnComplete(h) }
func (c *Client) OnFailure(h transport.Handler)  { c.transport.OnFailure(h) }

// RetryPolicy returns the retry policy of the underlying transport.
func (c *Client) RetryPolicy() (int, time.Duration) {
	return c.transport.RetryPolicy()
}

// SetRetryPolicy changes the retry policy of the underlying transport,
// and so of every client sharing it.
func (c *Client) SetRetryPolicy(count int, delay time.Duration) {
	c.transport.SetRetryPolicy(count, delay)
}

// Invoke calls method and returns the reply decoded as t. An empty reply
// yields the zero T.
func Invoke[T any](ctx context.Context, c *Client, method string, req any, t *model.Type) (T, error) {
	var zero T
	if err := checkMethod(method); err != nil {
		return zero, err
	}
	v, err := c.transport.GetResponse(ctx, method, req, t, c.Headers)
	if err != nil || v == nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, errors.Errorf("%s returned %T, not %T", method, v, zero)
	}
	return out, nil
}

func checkMethod(method string) error {
	if method == "" {
		return errors.NotValidf("empty method")
	}
	return nil
}

func assignReply(reply model.Model, v any) error {
	if reply == nil {
		return nil
	}
	if v == nil {
		logger.Debugf("empty %s reply", reply.ModelType().Name)
		return nil
	}
	m, ok := v.(model.Model)
	if !ok || m.ModelType() != reply.ModelType() {
		return errors.Errorf("reply %T cannot be assigned to %s", v, reply.ModelType())
	}
	model.Assign(reply, m)
	return nil
}
