// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package grpccodec

import (
	"context"

	"github.com/juju/errors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"

	"github.com/luxfi/babel"
	"github.com/luxfi/babel/model"
)

// Dial connects to target without transport security unless opts supply
// credentials.
func Dial(target string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, errors.Annotatef(err, "grpc dial %s", target)
	}
	return conn, nil
}

// Client calls the methods of one service over a gRPC connection.
type Client struct {
	conn    grpc.ClientConnInterface
	service string
	codec   *Codec
}

var _ babel.Caller = (*Client)(nil)

// NewClient returns a client of service that encodes messages with c.
func NewClient(conn grpc.ClientConnInterface, service string, c *Codec) *Client {
	return &Client{conn: conn, service: service, codec: c}
}

func (c *Client) Call(ctx context.Context, method string, req any, reply model.Model) error {
	if method == "" {
		return errors.NotValidf("empty method")
	}
	var trailer metadata.MD
	err := c.conn.Invoke(ctx, "/"+c.service+"/"+method, req, reply,
		grpc.ForceCodec(c.codec), grpc.Trailer(&trailer))
	if err != nil {
		return fromStatus(err, trailer)
	}
	return nil
}

// Notify calls method and discards the reply.
func (c *Client) Notify(ctx context.Context, method string, req any) error {
	return c.Call(ctx, method, req, nil)
}
