// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package faults

import (
	"strings"
	"time"

	"github.com/juju/errors"

	"github.com/luxfi/babel/model"
)

// Translator turns an error into the ServiceError reported to the caller,
// together with the kind that selects the response status.
type Translator func(err error) (*ServiceError, Kind)

// FromServiceError rebuilds an exception from a ServiceError received off
// the wire. Inner service errors become the cause chain and are always
// Unexpected.
func FromServiceError(se *ServiceError, kind Kind) *Exception {
	if se == nil {
		return nil
	}
	var cause error
	if se.Inner != nil {
		cause = FromServiceError(se.Inner, Unexpected)
	}
	e := New(kind, se.Details, cause)
	e.errors = append([]*Error(nil), se.Errors...)
	e.context = cloneContext(se.Context)
	return e
}

// ToServiceError is the default Translator. Faults keep their kind, coded
// errors and context. Other errors are classified by their juju/errors kind:
// not-valid, bad-request, not-supported and not-implemented errors, and
// value conversion failures, are invalid requests; everything else is an
// internal error.
func ToServiceError(err error) (*ServiceError, Kind) {
	return toServiceError(err, time.Now().UTC())
}

func toServiceError(err error, now time.Time) (*ServiceError, Kind) {
	if err == nil {
		return nil, Unexpected
	}
	se := &ServiceError{Time: now, Details: err.Error()}

	var (
		kind  Kind
		cause error
		fault Fault
	)
	if errors.As(err, &fault) {
		kind = fault.Kind()
		se.Errors = append(se.Errors, fault.Errors()...)
		se.Context = cloneContext(fault.Context())
		cause = unwrap(fault)
	} else {
		kind = classify(err)
		code := CodeInternalError
		if kind == InvalidRequest {
			code = CodeInvalidRequest
		}
		se.Errors = append(se.Errors, &Error{Code: code, Message: err.Error()})
		cause = unwrap(err)
	}
	if cause != nil {
		se.Inner, _ = toServiceError(cause, now)
	}
	return se, kind
}

func unwrap(err error) error {
	if u, ok := err.(interface{ Unwrap() error }); ok {
		return u.Unwrap()
	}
	return nil
}

func classify(err error) Kind {
	var conv *model.ConversionError
	switch {
	case errors.Is(err, errors.NotValid),
		errors.Is(err, errors.BadRequest),
		errors.Is(err, errors.NotSupported),
		errors.Is(err, errors.NotImplemented),
		errors.As(err, &conv):
		return InvalidRequest
	}
	return Unexpected
}

// ValidationError reports the violations found by Validate.
type ValidationError struct {
	*Exception
	Violations []model.Violation
}

// Validate runs model.Validate on m and turns any violations into a
// ValidationError carrying one VALIDATION_ERROR per violation. The
// parameter of each error lists the members involved.
func Validate(m model.Model) error {
	ok, violations := model.Validate(m)
	if ok {
		return nil
	}
	e := New(InvalidRequest, "", nil)
	for _, v := range violations {
		e.AddError(&Error{
			Code:    CodeValidationError,
			Message: v.Message,
			Params:  []string{strings.Join(v.Members, ", ")},
		})
	}
	return &ValidationError{Exception: e, Violations: violations}
}
