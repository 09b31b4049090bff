// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package faults

import (
	"strconv"
	"strings"
	"time"

	"github.com/luxfi/babel/model"
)

var (
	ErrorType        = model.ModelOf("Error", func() *Error { return new(Error) })
	ServiceErrorType = model.ModelOf("ServiceError", func() *ServiceError { return new(ServiceError) })

	stringList  = model.ListOf[string](model.String)
	errorList   = model.ListOf[*Error](ErrorType)
	contextType = model.MapOf[map[string]string](model.MapOf[string](model.String))
)

// Error is a single coded error. Message is the already formatted text;
// Params keeps the values that were substituted into it.
type Error struct {
	Code    string
	Message string
	Params  []string
}

// NewError formats template by replacing each {n} placeholder with
// params[n].
func NewError(code, template string, params ...string) *Error {
	return &Error{
		Code:    code,
		Message: formatTemplate(template, params),
		Params:  params,
	}
}

func formatTemplate(template string, params []string) string {
	if len(params) == 0 || !strings.Contains(template, "{") {
		return template
	}
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		if template[i] == '{' {
			if end := strings.IndexByte(template[i:], '}'); end > 1 {
				if n, err := strconv.Atoi(template[i+1 : i+end]); err == nil && n >= 0 && n < len(params) {
					b.WriteString(params[n])
					i += end
					continue
				}
			}
		}
		b.WriteByte(template[i])
	}
	return b.String()
}

func (e *Error) ModelType() *model.Type { return ErrorType }

func (e *Error) VisitFields(v model.Visitor, aux any) {
	model.Visit(v, "code", model.String, &e.Code, aux)
	model.Visit(v, "message", model.String, &e.Message, aux)
	model.Visit(v, "params", stringList, &e.Params, aux)
}

func (e *Error) VisitField(name string, v model.Visitor, aux any) bool {
	switch name {
	case "code":
		model.Visit(v, name, model.String, &e.Code, aux)
	case "message":
		model.Visit(v, name, model.String, &e.Message, aux)
	case "params":
		model.Visit(v, name, stringList, &e.Params, aux)
	default:
		return false
	}
	return true
}

// ServiceError is the body of every failed response.
type ServiceError struct {
	Time    time.Time
	Details string
	Errors  []*Error
	// Context is keyed by category and then by name.
	Context map[string]map[string]string
	Inner   *ServiceError
}

// AddContext records value under category and key.
func (e *ServiceError) AddContext(category, key, value string) {
	e.Context = addContext(e.Context, category, key, value)
}

func addContext(ctx map[string]map[string]string, category, key, value string) map[string]map[string]string {
	if ctx == nil {
		ctx = make(map[string]map[string]string)
	}
	entries := ctx[category]
	if entries == nil {
		entries = make(map[string]string)
		ctx[category] = entries
	}
	entries[key] = value
	return ctx
}

func (e *ServiceError) ModelType() *model.Type { return ServiceErrorType }

func (e *ServiceError) VisitFields(v model.Visitor, aux any) {
	model.Visit(v, "time", model.Time, &e.Time, aux)
	model.Visit(v, "details", model.String, &e.Details, aux)
	model.Visit(v, "errors", errorList, &e.Errors, aux)
	model.Visit(v, "context", contextType, &e.Context, aux)
	model.Visit(v, "inner", ServiceErrorType, &e.Inner, aux)
}

func (e *ServiceError) VisitField(name string, v model.Visitor, aux any) bool {
	switch name {
	case "time":
		model.Visit(v, name, model.Time, &e.Time, aux)
	case "details":
		model.Visit(v, name, model.String, &e.Details, aux)
	case "errors":
		model.Visit(v, name, errorList, &e.Errors, aux)
	case "context":
		model.Visit(v, name, contextType, &e.Context, aux)
	case "inner":
		model.Visit(v, name, ServiceErrorType, &e.Inner, aux)
	default:
		return false
	}
	return true
}
