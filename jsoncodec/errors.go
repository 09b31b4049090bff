// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsoncodec

import (
	"fmt"
	"strconv"

	"github.com/luxfi/babel/faults"
)

// CodeInvalidJSON is the error code carried by every SyntaxError.
const CodeInvalidJSON = "INVALID_JSON"

// SyntaxError describes malformed JSON input. Conversion failures of
// individual values are reported as a SyntaxError wrapping the
// *model.ConversionError.
type SyntaxError struct {
	*faults.Exception
	What   string
	Char   int
	Offset int64
}

func newSyntaxError(what string, c int, offset int64, cause error) *SyntaxError {
	shown := "EOF"
	if c >= 0 {
		shown = string(rune(c))
	}
	msg := fmt.Sprintf("%s '%s'(%d) at position %d", what, shown, c, offset)
	e := faults.New(faults.InvalidRequest, msg, cause)
	e.AddError(&faults.Error{
		Code:    CodeInvalidJSON,
		Message: msg,
		Params:  []string{what, strconv.FormatInt(offset, 10), shown},
	})
	return &SyntaxError{Exception: e, What: what, Char: c, Offset: offset}
}
