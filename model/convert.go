// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/juju/errors"
	"gopkg.in/inf.v0"
)

// TimeLayout is the text form of timestamps: UTC or offset, always with
// millisecond precision.
const TimeLayout = "2006-01-02T15:04:05.000Z07:00"

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ConversionError is returned when a textual value can not be converted to
// the requested type.
type ConversionError struct {
	Input  string
	Target string
	Err    error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot cast value %q of the type string to the %s", e.Input, e.Target)
}

func (e *ConversionError) Unwrap() error {
	return e.Err
}

func conversionError(s string, t *Type, err error) error {
	return &ConversionError{Input: s, Target: t.Name, Err: err}
}

// ParseScalar converts the text form s of a value into the canonical value
// for t. String and Any targets get s back unchanged. An empty s is absent
// for nullable targets and an error otherwise.
func ParseScalar(t *Type, s string) (any, error) {
	switch t.Kind {
	case KindString, KindAny:
		return s, nil
	}
	nullable := t.IsNullable()
	if t.Kind == KindOptional {
		t = t.Elem
		if t.Kind == KindString {
			return s, nil
		}
	}
	if s == "" {
		if nullable {
			return nil, nil
		}
		return nil, conversionError(s, t, errors.NotValidf("empty value"))
	}

	var (
		v   any
		err error
	)
	switch t.Kind {
	case KindString:
		v = s
	case KindBinary:
		v, err = base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	case KindBool:
		v, err = parseBool(s)
	case KindTime:
		v, err = ParseTime(s)
	case KindDecimal:
		v, err = ParseDecimal(s)
	case KindEnum:
		v, err = t.ParseEnum(strings.TrimSpace(s))
	case KindChar:
		r, size := utf8.DecodeRuneInString(s)
		if (r == utf8.RuneError && size <= 1) || size != len(s) {
			err = errors.NotValidf("character %q", s)
		}
		v = r
	case KindInt8, KindInt16, KindInt32, KindInt64:
		v, err = parseInt(t.Kind, strings.TrimSpace(s))
	case KindUint8, KindUint16, KindUint32, KindUint64:
		v, err = parseUint(t.Kind, strings.TrimSpace(s))
	case KindFloat32:
		var f float64
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 32)
		v = float32(f)
	case KindFloat64:
		v, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
	default:
		err = errors.NotSupportedf("conversion to %s", t.Name)
	}
	if err != nil {
		return nil, conversionError(s, t, err)
	}
	return v, nil
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, errors.NotValidf("boolean %q", s)
}

func parseInt(k Kind, s string) (any, error) {
	bits := map[Kind]int{KindInt8: 8, KindInt16: 16, KindInt32: 32, KindInt64: 64}[k]
	n, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return nil, err
	}
	switch k {
	case KindInt8:
		return int8(n), nil
	case KindInt16:
		return int16(n), nil
	case KindInt32:
		return int32(n), nil
	}
	return n, nil
}

func parseUint(k Kind, s string) (any, error) {
	bits := map[Kind]int{KindUint8: 8, KindUint16: 16, KindUint32: 32, KindUint64: 64}[k]
	n, err := strconv.ParseUint(s, 10, bits)
	if err != nil {
		return nil, err
	}
	switch k {
	case KindUint8:
		return uint8(n), nil
	case KindUint16:
		return uint16(n), nil
	case KindUint32:
		return uint32(n), nil
	}
	return n, nil
}

// ParseTime reads a round-trip timestamp, with or without fractional
// seconds or a zone. Timestamps without a zone are taken to be UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

// FormatTime writes t in TimeLayout.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseDecimal reads a decimal number in plain or scientific notation.
// Mantissa and exponent are parsed separately so that precision is never
// lost to a binary float, and a zero mantissa is zero whatever the
// exponent.
func ParseDecimal(s string) (*inf.Dec, error) {
	s = strings.TrimSpace(s)
	mant, exp := s, int64(0)
	if i := strings.IndexAny(s, "eE"); i >= 0 {
		mant = s[:i]
		e, err := strconv.ParseInt(s[i+1:], 10, 32)
		if err != nil {
			return nil, errors.NotValidf("decimal exponent in %q", s)
		}
		exp = e
	}
	if !isDecimalMantissa(mant) {
		return nil, errors.NotValidf("decimal %q", s)
	}
	d, ok := new(inf.Dec).SetString(mant)
	if !ok {
		return nil, errors.NotValidf("decimal %q", s)
	}
	if d.Sign() == 0 {
		return new(inf.Dec), nil
	}
	// A negative scale multiplies by a power of ten without expanding the
	// unscaled value.
	scale := int64(d.Scale()) - exp
	if scale < math.MinInt32 || scale > math.MaxInt32 {
		return nil, errors.NotValidf("decimal exponent in %q", s)
	}
	return d.SetScale(inf.Scale(scale)), nil
}

func isDecimalMantissa(s string) bool {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		s = s[1:]
	}
	digits, dots := 0, 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits++
		case c == '.':
			dots++
		default:
			return false
		}
	}
	return digits > 0 && dots <= 1
}

// FormatScalar writes the canonical scalar value v of type t as text.
// Timestamps use TimeLayout.
func FormatScalar(t *Type, v any) (string, error) {
	if t.Kind == KindOptional {
		t = t.Elem
	}
	switch x := v.(type) {
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case int8:
		return strconv.FormatInt(int64(x), 10), nil
	case int16:
		return strconv.FormatInt(int64(x), 10), nil
	case int32:
		if t.Kind == KindChar {
			return string(rune(x)), nil
		}
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case int:
		return strconv.Itoa(x), nil
	case uint8:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), nil
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), nil
	case *inf.Dec:
		return x.String(), nil
	case time.Time:
		return FormatTime(x), nil
	case []byte:
		return base64.StdEncoding.EncodeToString(x), nil
	case fmt.Stringer:
		return x.String(), nil
	}
	return "", errors.NotSupportedf("value of type %T for %s", v, t)
}
