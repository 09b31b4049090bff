// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package xmlcodec implements the Babel XML dialect. The root element is
// named for the model type, list elements are written as Item elements, map
// entries as Value elements with a key attribute, and absent list and map
// entries carry xsi:nil="true".
package xmlcodec

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/juju/loggo"

	"github.com/luxfi/babel/faults"
	"github.com/luxfi/babel/model"
)

var logger = loggo.GetLogger("babel.xmlcodec")

const (
	// ContentType is the media type of the XML dialect.
	ContentType = "text/xml"
	// CodeInvalidXML is the error code carried by every SyntaxError.
	CodeInvalidXML = "INVALID_XML"

	xsiNamespace = "http://www.w3.org/2001/XMLSchema-instance"
	// TimeLayout trims trailing zeros from the fraction of a second.
	TimeLayout = "2006-01-02T15:04:05.999Z07:00"

	itemElement  = "Item"
	valueElement = "Value"
	keyAttr      = "key"
)

// SyntaxError describes malformed or unexpected XML input, or a value that
// could not be written.
type SyntaxError struct {
	*faults.Exception
	What   string
	Line   int
	Column int
}

func newSyntaxError(what string, line, col int, cause error) *SyntaxError {
	msg := fmt.Sprintf("%s at line %d position %d", what, line, col)
	e := faults.New(faults.InvalidRequest, msg, cause)
	e.AddError(&faults.Error{
		Code:    CodeInvalidXML,
		Message: msg,
		Params:  []string{what, strconv.Itoa(line), strconv.Itoa(col)},
	})
	return &SyntaxError{Exception: e, What: what, Line: line, Column: col}
}

// Codec reads and writes XML. It has no state and is safe for concurrent
// use.
type Codec struct{}

// New returns an XML codec.
func New() *Codec {
	return &Codec{}
}

func (*Codec) ContentType() string {
	return ContentType
}

// Serialize writes v to w. A nil v produces an empty document.
func (*Codec) Serialize(w io.Writer, v any) error {
	if v == nil {
		return nil
	}
	e := &encoder{enc: xml.NewEncoder(w)}
	if err := e.document(v); err != nil {
		return newSyntaxError("Cannot write value", 0, 0, err)
	}
	return nil
}

// Deserialize reads a single value of type t from r. An empty document or
// a nil root yields nil.
func (*Codec) Deserialize(r io.Reader, t *model.Type) (any, error) {
	d := &decoder{dec: xml.NewDecoder(r)}
	return d.document(t)
}

// DeserializeModel reads a document into m.
func (c *Codec) DeserializeModel(r io.Reader, m model.Model) error {
	v, err := c.Deserialize(r, m.ModelType())
	if err != nil {
		return err
	}
	if v == nil {
		return newSyntaxError("Empty document", 0, 0, nil)
	}
	model.Assign(m, v.(model.Model))
	return nil
}

// Marshal returns the XML form of v.
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
