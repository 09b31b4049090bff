// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package jsoncodec

import (
	"bufio"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/luxfi/babel/model"
)

const eof = -1

// decoder is a single-pass reader with one character of lookahead. Every
// read function takes or returns the next unread character explicitly, so
// no state is hidden in the underlying reader.
type decoder struct {
	r    *bufio.Reader
	pos  int64
	last int
	buf  []byte
}

func newDecoder(r io.Reader) *decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &decoder{r: br, last: eof}
}

func (d *decoder) next() (int, error) {
	b, err := d.r.ReadByte()
	if err == io.EOF {
		d.last = eof
		return eof, nil
	}
	if err != nil {
		return eof, d.fail("Read failed", eof, err)
	}
	d.pos++
	d.last = int(b)
	return int(b), nil
}

func (d *decoder) fail(what string, c int, cause error) error {
	return newSyntaxError(what, c, d.pos, cause)
}

func isSpace(c int) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func (d *decoder) skipSpace(c int) (int, error) {
	var err error
	for err == nil && isSpace(c) {
		c, err = d.next()
	}
	return c, err
}

// following returns the first non-blank character after a value.
func (d *decoder) following() (int, error) {
	c, err := d.next()
	if err != nil {
		return eof, err
	}
	return d.skipSpace(c)
}

// value reads one value of declared type t. It reports whether a value was
// present and returns the character that follows it.
func (d *decoder) value(t *model.Type) (any, bool, int, error) {
	c, err := d.next()
	if err == nil {
		c, err = d.skipSpace(c)
	}
	if err != nil {
		return nil, false, eof, err
	}

	var v any
	switch c {
	case eof:
		return nil, false, eof, nil
	case '"':
		s, err := d.str()
		if err != nil {
			return nil, false, eof, err
		}
		if v, err = d.convert(t, s); err != nil {
			return nil, false, eof, err
		}
	case '[':
		if v, err = d.array(t); err != nil {
			return nil, false, eof, err
		}
	case '{':
		if v, err = d.object(t); err != nil {
			return nil, false, eof, err
		}
	default:
		lit, c, err := d.literal(c)
		switch {
		case err != nil:
			return nil, false, eof, err
		case lit == "":
			return nil, false, c, nil
		case lit == "null":
			return nil, true, c, nil
		}
		v, err = d.convert(t, lit)
		return v, err == nil, c, err
	}
	c, err = d.following()
	return v, err == nil, c, err
}

func (d *decoder) convert(t *model.Type, s string) (any, error) {
	v, err := model.ParseScalar(t, s)
	if err != nil {
		return nil, d.fail("Invalid "+t.Name+" value", d.last, err)
	}
	return v, nil
}

// literal reads an unquoted token starting with c.
func (d *decoder) literal(c int) (string, int, error) {
	d.buf = d.buf[:0]
	var err error
	for c != eof && !isSpace(c) && c != ']' && c != '}' && c != ',' && c != ':' {
		d.buf = append(d.buf, byte(c))
		if c, err = d.next(); err != nil {
			return "", eof, err
		}
	}
	return string(d.buf), c, nil
}

// str reads the rest of a quoted string.
func (d *decoder) str() (string, error) {
	d.buf = d.buf[:0]
	var high rune
	flush := func() {
		if high != 0 {
			d.buf = utf8.AppendRune(d.buf, utf8.RuneError)
			high = 0
		}
	}
	for {
		c, err := d.next()
		if err != nil {
			return "", err
		}
		switch c {
		case eof:
			return "", d.fail("Unterminated string", c, nil)
		case '"':
			flush()
			return string(d.buf), nil
		case '\\':
		default:
			flush()
			d.buf = append(d.buf, byte(c))
			continue
		}

		if c, err = d.next(); err != nil {
			return "", err
		}
		var r rune
		switch c {
		case '"', '\\', '/', '\'':
			r = rune(c)
		case 'b':
			r = '\b'
		case 'f':
			r = '\f'
		case 'n':
			r = '\n'
		case 'r':
			r = '\r'
		case 't':
			r = '\t'
		case 'u':
			if r, err = d.hex4(); err != nil {
				return "", err
			}
		default:
			return "", d.fail("Invalid escape sequence", c, nil)
		}

		switch {
		case high != 0 && r >= 0xdc00 && r <= 0xdfff:
			d.buf = utf8.AppendRune(d.buf, utf16.DecodeRune(high, r))
			high = 0
		case r >= 0xd800 && r <= 0xdbff:
			flush()
			high = r
		default:
			flush()
			if utf16.IsSurrogate(r) {
				r = utf8.RuneError
			}
			d.buf = utf8.AppendRune(d.buf, r)
		}
	}
}

func (d *decoder) hex4() (rune, error) {
	var r rune
	for i := 0; i < 4; i++ {
		c, err := d.next()
		if err != nil {
			return 0, err
		}
		switch {
		case c >= '0' && c <= '9':
			r = r<<4 | rune(c-'0')
		case c >= 'a' && c <= 'f':
			r = r<<4 | rune(c-'a'+10)
		case c >= 'A' && c <= 'F':
			r = r<<4 | rune(c-'A'+10)
		default:
			return 0, d.fail("Invalid unicode escape", c, nil)
		}
	}
	return r, nil
}

func (d *decoder) array(t *model.Type) (any, error) {
	switch t.Kind {
	case model.KindAny:
		t = model.AnyList
	case model.KindList:
	default:
		return nil, d.fail("Array is not allowed for "+t.Name, '[', nil)
	}
	list := t.MakeList(0)
	v, ok, c, err := d.value(t.Elem)
	if err != nil {
		return nil, err
	}
	if ok {
		list = t.Append(list, v)
	} else if c != ']' {
		return nil, d.fail("Empty item in array", c, nil)
	}
	for {
		switch {
		case c == eof:
			return nil, d.fail("Unexpected end of array", c, nil)
		case c == ']':
			return list, nil
		case c == ',':
			if v, ok, c, err = d.value(t.Elem); err != nil {
				return nil, err
			}
			if !ok {
				return nil, d.fail("Empty item in array", c, nil)
			}
			list = t.Append(list, v)
		case isSpace(c):
			if c, err = d.next(); err != nil {
				return nil, err
			}
		default:
			return nil, d.fail("Invalid array definition", c, nil)
		}
	}
}

type fieldState struct {
	d    *decoder
	next int
	err  error
}

// setField reads the value of a model field using its declared type.
func setField(name string, t *model.Type, cur any, aux any) any {
	s := aux.(*fieldState)
	v, ok, c, err := s.d.value(t)
	s.next = c
	if err == nil && !ok {
		err = s.d.fail("Can't read "+name+" property value", c, nil)
	}
	if err != nil {
		s.err = err
		return cur
	}
	return v
}

func (d *decoder) object(t *model.Type) (any, error) {
	var (
		m    model.Model
		dict any
	)
	switch t.Kind {
	case model.KindStruct:
		m = t.New()
	case model.KindAny:
		t = model.AnyMap
		dict = t.MakeMap(0)
	case model.KindMap:
		dict = t.MakeMap(0)
	default:
		return nil, d.fail("Object is not allowed for "+t.Name, '{', nil)
	}

	key, ok, c, err := d.value(model.String)
	if err != nil {
		return nil, err
	}
	if !ok && c != '}' {
		return nil, d.fail("Invalid object key definition", c, nil)
	}
	haveKey := ok
	for {
		switch {
		case c == eof:
			return nil, d.fail("Unexpected end of object", c, nil)
		case c == '}':
			if m != nil {
				model.EnsureCollections(m)
				return m, nil
			}
			return dict, nil
		case c == ':':
			name, _ := key.(string)
			if !haveKey || key == nil {
				return nil, d.fail("Object value has no key", c, nil)
			}
			haveKey = false
			if c, err = d.member(m, t, dict, name); err != nil {
				return nil, err
			}
		case c == ',':
			if key, ok, c, err = d.value(model.String); err != nil {
				return nil, err
			}
			if !ok {
				return nil, d.fail("Invalid object definition", c, nil)
			}
			haveKey = true
		case isSpace(c):
			if c, err = d.next(); err != nil {
				return nil, err
			}
		default:
			return nil, d.fail("Invalid object format", c, nil)
		}
	}
}

// member reads the value stored under name into either the model m or the
// map dict of type t.
func (d *decoder) member(m model.Model, t *model.Type, dict any, name string) (int, error) {
	if m != nil {
		s := fieldState{d: d}
		if m.VisitField(name, setField, &s) {
			return s.next, s.err
		}
		logger.Tracef("skipping unknown field %q of %s", name, m.ModelType().Name)
		_, ok, c, err := d.value(model.Any)
		if err == nil && !ok {
			err = d.fail("Can't read "+name+" property value", c, nil)
		}
		return c, err
	}
	v, ok, c, err := d.value(t.Elem)
	if err == nil && !ok {
		err = d.fail("Can't read "+name+" key value", c, nil)
	}
	if err != nil {
		return eof, err
	}
	t.SetKey(dict, name, v)
	return c, nil
}
