// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rpccodec lets a gorilla/rpc server speak the Babel wire format.
// Babel clients address a method as <base>/<Service>/<Method>; the codec
// maps that path onto gorilla's "Service.Method" names, decodes the body
// as the method's argument model and encodes replies and faults the same
// way the Babel server does.
//
//	s := rpc.NewServer()
//	rpccodec.Register(s)
//	s.RegisterService(new(Accounts), "Accounts")
package rpccodec

import (
	"net/http"
	"strings"

	"github.com/gorilla/rpc/v2"
	"github.com/juju/errors"
	"github.com/juju/loggo"

	"github.com/luxfi/babel/codec"
	"github.com/luxfi/babel/faults"
	"github.com/luxfi/babel/model"
	"github.com/luxfi/babel/server"
)

var logger = loggo.GetLogger("babel.rpccodec")

// Codec creates a CodecRequest for each request.
type Codec struct{}

var _ rpc.Codec = (*Codec)(nil)

// NewCodec returns a new Babel codec for gorilla/rpc.
func NewCodec() *Codec {
	return &Codec{}
}

// Register adds the codec to s under the media type of every registered
// Babel codec.
func Register(s *rpc.Server) {
	c := NewCodec()
	for _, name := range codec.Available() {
		s.RegisterCodec(c, codec.MustLookup(name).ContentType())
	}
}

func (c *Codec) NewRequest(r *http.Request) rpc.CodecRequest {
	return &CodecRequest{
		request: r,
		reply:   codec.Negotiate(r.Header.Get("Accept"), r.Header.Get("Content-Type")),
	}
}

// CodecRequest decodes and encodes a single request.
type CodecRequest struct {
	request *http.Request
	reply   codec.Codec
}

var _ rpc.CodecRequest = (*CodecRequest)(nil)

// Method returns "Service.Method" from the last two segments of the
// request path.
func (c *CodecRequest) Method() (string, error) {
	segments := strings.Split(strings.Trim(c.request.URL.Path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-2] == "" || segments[len(segments)-1] == "" {
		return "", errors.NotValidf("method path %q", c.request.URL.Path)
	}
	return segments[len(segments)-2] + "." + segments[len(segments)-1], nil
}

// ReadRequest decodes the request body into args, which must be a model.
func (c *CodecRequest) ReadRequest(args any) error {
	m, ok := args.(model.Model)
	if !ok {
		return errors.NotSupportedf("argument type %T", args)
	}
	v, err := server.Decode(c.request, m.ModelType())
	if err != nil {
		return err
	}
	model.Assign(m, v)
	return nil
}

func (c *CodecRequest) WriteResponse(w http.ResponseWriter, reply any) {
	server.Write(w, c.reply, http.StatusOK, reply)
}

// WriteError reports err as a ServiceError. Faults and errors with an
// invalid-request kind use the status of their kind; others keep the
// status chosen by the rpc server.
func (c *CodecRequest) WriteError(w http.ResponseWriter, status int, err error) {
	se, kind := faults.ToServiceError(err)
	var fault faults.Fault
	if errors.As(err, &fault) || kind == faults.InvalidRequest {
		status = kind.HTTPStatus()
	}
	logger.Debugf("%s failed with %d: %v", c.request.URL.Path, status, err)
	server.Write(w, c.reply, status, se)
}
