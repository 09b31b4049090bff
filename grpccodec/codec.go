// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package grpccodec carries Babel models over gRPC. The Babel JSON and XML
// dialects are registered as the gRPC content subtypes "babel-json" and
// "babel-xml", so generated models can be sent without protobuf stubs.
// Faults cross the connection as a ServiceError in the call trailer.
package grpccodec

import (
	"bytes"

	"github.com/juju/errors"
	"github.com/juju/loggo"
	"google.golang.org/grpc/encoding"

	"github.com/luxfi/babel/codec"
	"github.com/luxfi/babel/jsoncodec"
	"github.com/luxfi/babel/model"
	"github.com/luxfi/babel/xmlcodec"
)

var logger = loggo.GetLogger("babel.grpccodec")

var (
	// JSON is the "babel-json" content subtype.
	JSON = New("babel-json", jsoncodec.New())
	// XML is the "babel-xml" content subtype.
	XML = New("babel-xml", xmlcodec.New())
)

func init() {
	encoding.RegisterCodec(JSON)
	encoding.RegisterCodec(XML)
}

// Codec adapts a Babel codec to encoding.Codec.
type Codec struct {
	name  string
	codec codec.Codec
}

var _ encoding.Codec = (*Codec)(nil)

// New returns a gRPC codec named name that encodes with c.
func New(name string, c codec.Codec) *Codec {
	return &Codec{name: name, codec: c}
}

func (c *Codec) Name() string {
	return c.name
}

// Marshal encodes v, which is a model or a model.Typed value.
func (c *Codec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := c.codec.Serialize(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes data into v, which must be a model. An empty message
// leaves v unchanged.
func (c *Codec) Unmarshal(data []byte, v any) error {
	if v == nil {
		return nil
	}
	m, ok := v.(model.Model)
	if !ok {
		return errors.NotSupportedf("decoding %s into %T", c.name, v)
	}
	out, err := c.codec.Deserialize(bytes.NewReader(data), m.ModelType())
	if err != nil {
		return err
	}
	if out == nil {
		logger.Tracef("empty %s message for %s", c.name, m.ModelType())
		return nil
	}
	model.Assign(m, out.(model.Model))
	return nil
}
