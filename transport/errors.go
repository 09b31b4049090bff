// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package transport

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/luxfi/babel/faults"
)

// RequestError reports a call that failed without a usable reply: the
// service could not be reached, answered with something other than a
// ServiceError, or sent a reply that could not be decoded.
type RequestError struct {
	*faults.Exception
	Description  string
	Code         string
	Status       int
	URL          string
	Headers      http.Header
	ResponseText string
}

func newRequestError(desc, code string, status int, target string, headers http.Header, text string, cause error) *RequestError {
	h := formatHeaders(headers)
	msg := fmt.Sprintf("%s: %s\r\n\r\nHttpStatus: %d\r\n\r\nHeaders: %s\r\n\r\nHTTP Response: %s", desc, target, status, h, text)
	e := faults.New(faults.Unexpected, msg, cause)
	e.AddError(&faults.Error{
		Code:    code,
		Message: msg,
		Params:  []string{target, strconv.Itoa(status), h, text, desc},
	})
	return &RequestError{
		Exception:    e,
		Description:  desc,
		Code:         code,
		Status:       status,
		URL:          target,
		Headers:      headers,
		ResponseText: text,
	}
}

func formatHeaders(h http.Header) string {
	if len(h) == 0 {
		return ""
	}
	return url.Values(h).Encode()
}
