// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package jsoncodec implements the Babel JSON dialect: 64-bit integers,
// decimals, enums and characters are written as strings, binary values are
// base64 strings, and absent model fields are omitted.
package jsoncodec

import (
	"bufio"
	"bytes"
	"io"

	"github.com/juju/loggo"

	"github.com/luxfi/babel/model"
)

var logger = loggo.GetLogger("babel.jsoncodec")

// ContentType is the media type of the JSON dialect.
const ContentType = "application/json"

// Codec reads and writes JSON. It has no state and is safe for concurrent
// use.
type Codec struct{}

// New returns a JSON codec.
func New() *Codec {
	return &Codec{}
}

func (*Codec) ContentType() string {
	return ContentType
}

// Serialize writes v to w. v is normally a model; nil is written as null.
func (*Codec) Serialize(w io.Writer, v any) error {
	bw := bufio.NewWriter(w)
	e := &encoder{w: bw}
	if err := e.top(v); err != nil {
		return newSyntaxError("Cannot write value", eof, 0, err)
	}
	if err := bw.Flush(); err != nil {
		return newSyntaxError("Write failed", eof, 0, err)
	}
	return nil
}

// Deserialize reads a single value of type t from r. It returns nil without
// error for a blank document or a top-level null.
func (*Codec) Deserialize(r io.Reader, t *model.Type) (any, error) {
	d := newDecoder(r)
	v, ok, c, err := d.value(t)
	if err == nil {
		c, err = d.skipSpace(c)
	}
	if err != nil {
		return nil, err
	}
	if c != eof {
		return nil, d.fail("Extra characters after end of document", c, nil)
	}
	if !ok {
		return nil, nil
	}
	return v, nil
}

// DeserializeModel reads a document into m.
func (c *Codec) DeserializeModel(r io.Reader, m model.Model) error {
	v, err := c.Deserialize(r, m.ModelType())
	if err != nil {
		return err
	}
	if v == nil {
		return newSyntaxError("Empty document", eof, 0, nil)
	}
	model.Assign(m, v.(model.Model))
	return nil
}

// Marshal returns the JSON form of v.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := New().Serialize(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal reads a value of type t from data.
func Unmarshal(data []byte, t *model.Type) (any, error) {
	return New().Deserialize(bytes.NewReader(data), t)
}
