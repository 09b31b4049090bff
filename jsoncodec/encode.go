// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsoncodec

import (
	"bufio"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/juju/errors"
	"gopkg.in/inf.v0"

	"github.com/luxfi/babel/model"
)

const hex = "0123456789abcdef"

type encoder struct {
	w *bufio.Writer
}

// top writes a value whose type is only known at run time.
func (e *encoder) top(v any) error {
	if v == nil {
		_, err := e.w.WriteString("null")
		return err
	}
	return e.any(v)
}

func (e *encoder) value(t *model.Type, v any) error {
	if v == nil {
		_, err := e.w.WriteString("null")
		return err
	}
	switch t.Kind {
	case model.KindOptional:
		return e.value(t.Elem, v)
	case model.KindStruct:
		return e.object(v.(model.Model))
	case model.KindList:
		return e.list(t, v)
	case model.KindMap:
		return e.dict(t, v)
	case model.KindAny:
		return e.any(v)
	}
	return e.scalar(t, v)
}

func (e *encoder) object(m model.Model) error {
	var err error
	first := true
	e.w.WriteByte('{')
	m.VisitFields(func(name string, t *model.Type, v any, _ any) any {
		if err != nil || v == nil {
			return v
		}
		if !first {
			e.w.WriteByte(',')
		}
		first = false
		e.str(name)
		e.w.WriteByte(':')
		err = e.value(t, v)
		return v
	}, nil)
	if err != nil {
		return err
	}
	return e.w.WriteByte('}')
}

func (e *encoder) list(t *model.Type, v any) error {
	e.w.WriteByte('[')
	for i, n := 0, t.Len(v); i < n; i++ {
		if i > 0 {
			e.w.WriteByte(',')
		}
		if err := e.value(t.Elem, t.Index(v, i)); err != nil {
			return err
		}
	}
	return e.w.WriteByte(']')
}

func (e *encoder) dict(t *model.Type, v any) error {
	e.w.WriteByte('{')
	for i, k := range t.Keys(v) {
		if i > 0 {
			e.w.WriteByte(',')
		}
		e.str(k)
		e.w.WriteByte(':')
		val, _ := t.Lookup(v, k)
		if err := e.value(t.Elem, val); err != nil {
			return err
		}
	}
	return e.w.WriteByte('}')
}

// scalar writes a scalar of declared type t. Numbers that can not survive a
// trip through a float64 JSON number, and any type whose text form is not a
// JSON literal, are quoted.
func (e *encoder) scalar(t *model.Type, v any) error {
	s, err := model.FormatScalar(t, v)
	if err != nil {
		return errors.Trace(err)
	}
	switch t.Kind {
	case model.KindBool,
		model.KindInt8, model.KindInt16, model.KindInt32,
		model.KindUint8, model.KindUint16, model.KindUint32,
		model.KindFloat32, model.KindFloat64:
		_, err = e.w.WriteString(s)
	default:
		err = e.str(s)
	}
	return err
}

// any writes a value held in an untyped field, choosing the declared type
// from its Go storage.
func (e *encoder) any(v any) error {
	switch x := v.(type) {
	case model.Typed:
		return e.value(x.Type, x.Type.Box(x.Value))
	case model.Model:
		return e.object(x)
	case string:
		return e.str(x)
	case bool:
		return e.scalar(model.Bool, x)
	case int8:
		return e.scalar(model.Int8, x)
	case int16:
		return e.scalar(model.Int16, x)
	case int32:
		return e.scalar(model.Int32, x)
	case int64, int:
		return e.scalar(model.Int64, x)
	case uint8:
		return e.scalar(model.Uint8, x)
	case uint16:
		return e.scalar(model.Uint16, x)
	case uint32:
		return e.scalar(model.Uint32, x)
	case uint64:
		return e.scalar(model.Uint64, x)
	case float32:
		return e.scalar(model.Float32, x)
	case float64:
		return e.scalar(model.Float64, x)
	case *inf.Dec:
		return e.scalar(model.Decimal, x)
	case time.Time:
		return e.scalar(model.Time, x)
	case []byte:
		return e.scalar(model.Binary, x)
	case []any:
		return e.list(model.AnyList, x)
	case map[string]any:
		return e.dict(model.AnyMap, x)
	case fmt.Stringer:
		return e.str(x.String())
	}
	return errors.NotSupportedf("writing %T as JSON", v)
}

// str writes s as a quoted JSON string.
func (e *encoder) str(s string) error {
	w := e.w
	w.WriteByte('"')
	for i := 0; i < len(s); {
		c := s[i]
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(s[i:])
			w.WriteRune(r)
			i += size
			continue
		}
		switch c {
		case '\\':
			w.WriteString(`\\`)
		case '"':
			w.WriteString(`\"`)
		case '/':
			w.WriteString(`\/`)
		case '\b':
			w.WriteString(`\b`)
		case '\f':
			w.WriteString(`\f`)
		case '\n':
			w.WriteString(`\n`)
		case '\r':
			w.WriteString(`\r`)
		case '\t':
			w.WriteString(`\t`)
		default:
			if c < 0x20 {
				w.WriteString(`\u00`)
				w.WriteByte(hex[c>>4])
				w.WriteByte(hex[c&0xf])
			} else {
				w.WriteByte(c)
			}
		}
		i++
	}
	return w.WriteByte('"')
}
