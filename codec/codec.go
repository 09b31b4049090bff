// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package codec defines the boundary between transports and wire formats,
// and keeps the registry of formats available to clients and services.
package codec

import (
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/juju/errors"

	"github.com/luxfi/babel/jsoncodec"
	"github.com/luxfi/babel/model"
	"github.com/luxfi/babel/xmlcodec"
)

// Codec serializes models to and from one wire format. Implementations
// must be safe for concurrent use.
type Codec interface {
	// ContentType returns the media type written in request and response
	// headers.
	ContentType() string
	// Serialize writes v to w.
	Serialize(w io.Writer, v any) error
	// Deserialize reads a value of type t from r. An empty document yields
	// nil.
	Deserialize(r io.Reader, t *model.Type) (any, error)
	// DeserializeModel reads a document into m.
	DeserializeModel(r io.Reader, m model.Model) error
}

// Format names
const (
	JSON = "json"
	XML  = "xml"
)

// Default is the format used when nothing was negotiated.
const Default = JSON

var (
	codecsMu sync.RWMutex
	codecs   = map[string]Codec{
		JSON: jsoncodec.New(),
		XML:  xmlcodec.New(),
	}
)

// Register makes c available under name, replacing any codec registered
// under the same name.
func Register(name string, c Codec) error {
	if name == "" {
		return errors.NotValidf("empty codec name")
	}
	if c == nil {
		return errors.NotValidf("nil codec %q", name)
	}
	codecsMu.Lock()
	defer codecsMu.Unlock()
	codecs[strings.ToLower(name)] = c
	return nil
}

// Lookup returns the codec registered under name.
func Lookup(name string) (Codec, error) {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	c, ok := codecs[strings.ToLower(name)]
	if !ok {
		return nil, errors.NotFoundf("codec %q", name)
	}
	return c, nil
}

// MustLookup is like Lookup but panics when name is not registered.
func MustLookup(name string) Codec {
	c, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return c
}

// Available returns the registered format names, the default first and the
// rest sorted.
func Available() []string {
	codecsMu.RLock()
	defer codecsMu.RUnlock()
	result := make([]string, 0, len(codecs))
	for name := range codecs {
		if name != Default {
			result = append(result, name)
		}
	}
	slices.Sort(result)
	return append([]string{Default}, result...)
}

// ForContentType returns the codec whose format name appears in the media
// type, falling back to the default codec. "text/xml" and
// "application/problem+xml" both select XML.
func ForContentType(contentType string) Codec {
	return MustLookup(formatOf(contentType))
}

func formatOf(mediaType string) string {
	mediaType = strings.ToLower(mediaType)
	for _, name := range Available()[1:] {
		if strings.Contains(mediaType, name) {
			return name
		}
	}
	return Default
}
