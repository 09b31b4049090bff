// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package faults defines the error taxonomy shared by Babel clients and
// services: the coded Error and ServiceError wire models, the Exception
// type that carries them through Go error chains, and the conversions
// between the two.
package faults

import (
	"maps"
	"net/http"
	"strings"
)

// Kind classifies a failure for transport purposes.
type Kind int

const (
	// Unexpected failures are reported as 500 Internal Server Error.
	Unexpected Kind = iota
	// InvalidRequest failures are the caller's fault and are reported as
	// 400 Bad Request.
	InvalidRequest
)

func (k Kind) String() string {
	if k == InvalidRequest {
		return "InvalidRequest"
	}
	return "Unexpected"
}

// HTTPStatus returns the response status used to report the kind.
func (k Kind) HTTPStatus() int {
	if k == InvalidRequest {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// KindFromStatus classifies a failed response by its status code.
func KindFromStatus(status int) Kind {
	switch status {
	case http.StatusBadRequest, http.StatusConflict:
		return InvalidRequest
	}
	return Unexpected
}

// Error codes used by this module.
const (
	CodeInternalError   = "INTERNAL_ERROR"
	CodeInvalidRequest  = "INVALID_REQUEST"
	CodeValidationError = "VALIDATION_ERROR"
	CodeRequestError    = "REQUEST_ERROR"
	CodeResponseFormat  = "RESPONSE_FORMAT_ERROR"
)

// Fault is implemented by errors that carry coded errors and context onto
// the wire.
type Fault interface {
	error
	Kind() Kind
	Errors() []*Error
	Context() map[string]map[string]string
}

// Exception is the base Fault. Specialized errors embed *Exception.
type Exception struct {
	kind    Kind
	message string
	errors  []*Error
	context map[string]map[string]string
	cause   error
}

var _ Fault = (*Exception)(nil)

// New returns an exception of the given kind. cause may be nil.
func New(kind Kind, message string, cause error) *Exception {
	return &Exception{kind: kind, message: message, cause: cause}
}

// NewApplicationError returns an invalid-request exception carrying a single
// coded error. Its message is the formatted error message.
func NewApplicationError(code, template string, params ...string) *Exception {
	e := &Exception{kind: InvalidRequest}
	return e.AddError(NewError(code, template, params...))
}

// Error returns the exception message or, when it has none, the messages of
// its coded errors joined with ", ".
func (e *Exception) Error() string {
	if e.message != "" || len(e.errors) == 0 {
		return e.message
	}
	msgs := make([]string, len(e.errors))
	for i, err := range e.errors {
		msgs[i] = err.Message
	}
	return strings.Join(msgs, ", ")
}

func (e *Exception) Unwrap() error { return e.cause }

func (e *Exception) Kind() Kind { return e.kind }

func (e *Exception) Errors() []*Error { return e.errors }

func (e *Exception) Context() map[string]map[string]string { return e.context }

// AddError appends a coded error and returns e.
func (e *Exception) AddError(err *Error) *Exception {
	e.errors = append(e.errors, err)
	return e
}

// AddContext records value under category and key.
func (e *Exception) AddContext(category, key, value string) *Exception {
	e.context = addContext(e.context, category, key, value)
	return e
}

// AddContextMap records every entry of values under category.
func (e *Exception) AddContextMap(category string, values map[string]string) *Exception {
	for k, v := range values {
		e.AddContext(category, k, v)
	}
	return e
}

// AddContextValue records value under category with the key "value".
func (e *Exception) AddContextValue(category, value string) *Exception {
	return e.AddContext(category, "value", value)
}

func (e *Exception) copyContext(ctx map[string]map[string]string) {
	for category, entries := range ctx {
		for k, v := range entries {
			e.AddContext(category, k, v)
		}
	}
}

func cloneContext(ctx map[string]map[string]string) map[string]map[string]string {
	if ctx == nil {
		return nil
	}
	out := make(map[string]map[string]string, len(ctx))
	for category, entries := range ctx {
		out[category] = maps.Clone(entries)
	}
	return out
}
