// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xmlcodec

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/luxfi/babel/model"
)

type decoder struct {
	dec *xml.Decoder
}

func (d *decoder) fail(what string, cause error) error {
	line, col := d.dec.InputPos()
	return newSyntaxError(what, line, col, cause)
}

func (d *decoder) token() (xml.Token, error) {
	tok, err := d.dec.Token()
	switch {
	case err == io.EOF:
		return nil, d.fail("Unexpected end of document", nil)
	case err != nil:
		return nil, d.fail("Malformed document", err)
	}
	return tok, nil
}

func (d *decoder) skip() error {
	if err := d.dec.Skip(); err != nil {
		return d.fail("Malformed document", err)
	}
	return nil
}

func (d *decoder) document(t *model.Type) (any, error) {
	var root *xml.StartElement
	for root == nil {
		tok, err := d.dec.Token()
		if err == io.EOF {
			return nil, nil
		}
		if err != nil {
			return nil, d.fail("Malformed document", err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			root = &tok
		case xml.CharData:
			if !isBlank(tok) {
				return nil, d.fail("Text before root element", nil)
			}
		}
	}
	v, err := d.value(*root, t)
	if err != nil {
		return nil, err
	}
	for {
		tok, err := d.dec.Token()
		if err == io.EOF {
			return v, nil
		}
		if err != nil {
			return nil, d.fail("Malformed document", err)
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			return nil, d.fail("Extra content after end of document", nil)
		case xml.CharData:
			if !isBlank(tok) {
				return nil, d.fail("Extra content after end of document", nil)
			}
		}
	}
}

func isBlank(b []byte) bool {
	return len(strings.TrimSpace(string(b))) == 0
}

func isNil(start xml.StartElement) bool {
	for _, a := range start.Attr {
		if a.Name.Local == "nil" && (a.Name.Space == xsiNamespace || a.Name.Space == "xsi") {
			return a.Value == "true" || a.Value == "1"
		}
	}
	return false
}

func keyOf(start xml.StartElement) (string, bool) {
	for _, a := range start.Attr {
		if a.Name.Local == keyAttr && a.Name.Space == "" {
			return a.Value, true
		}
	}
	return "", false
}

// value reads the rest of the element opened by start as a value of type t.
func (d *decoder) value(start xml.StartElement, t *model.Type) (any, error) {
	if isNil(start) {
		return nil, d.skip()
	}
	switch t.Kind {
	case model.KindStruct:
		return d.object(t.New())
	case model.KindList:
		return d.list(t)
	case model.KindMap:
		return d.dict(t)
	case model.KindAny:
		return d.any()
	}
	s, err := d.text()
	if err != nil {
		return nil, err
	}
	v, err := model.ParseScalar(t, s)
	if err != nil {
		return nil, d.fail("Invalid "+t.Name+" value", err)
	}
	return v, nil
}

// text reads character data up to the end of the current element.
func (d *decoder) text() (string, error) {
	var b strings.Builder
	for {
		tok, err := d.token()
		if err != nil {
			return "", err
		}
		switch tok := tok.(type) {
		case xml.CharData:
			b.Write(tok)
		case xml.StartElement:
			return "", d.fail("Unexpected element "+tok.Name.Local, nil)
		case xml.EndElement:
			return b.String(), nil
		}
	}
}

type fieldState struct {
	d     *decoder
	start xml.StartElement
	err   error
}

// setField reads the element in aux as the value of a model field.
func setField(_ string, t *model.Type, cur any, aux any) any {
	s := aux.(*fieldState)
	v, err := s.d.value(s.start, t)
	if err != nil {
		s.err = err
		return cur
	}
	return v
}

func (d *decoder) object(m model.Model) (any, error) {
	for {
		tok, err := d.token()
		if err != nil {
			return nil, err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			s := fieldState{d: d, start: tok}
			if !m.VisitField(tok.Name.Local, setField, &s) {
				logger.Tracef("skipping unknown element %q of %s", tok.Name.Local, m.ModelType().Name)
				s.err = d.skip()
			}
			if s.err != nil {
				return nil, s.err
			}
		case xml.CharData:
			if !isBlank(tok) {
				return nil, d.fail("Unexpected text in "+m.ModelType().Name, nil)
			}
		case xml.EndElement:
			model.EnsureCollections(m)
			return m, nil
		}
	}
}

func (d *decoder) list(t *model.Type) (any, error) {
	out := t.MakeList(0)
	for {
		tok, err := d.token()
		if err != nil {
			return nil, err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if tok.Name.Local != itemElement {
				return nil, d.fail("Unexpected element "+tok.Name.Local+" in list", nil)
			}
			v, err := d.value(tok, t.Elem)
			if err != nil {
				return nil, err
			}
			out = t.Append(out, v)
		case xml.CharData:
			if !isBlank(tok) {
				return nil, d.fail("Unexpected text in list", nil)
			}
		case xml.EndElement:
			return out, nil
		}
	}
}

func (d *decoder) dict(t *model.Type) (any, error) {
	out := t.MakeMap(0)
	for {
		tok, err := d.token()
		if err != nil {
			return nil, err
		}
		switch tok := tok.(type) {
		case xml.StartElement:
			if err := d.entry(t, out, tok); err != nil {
				return nil, err
			}
		case xml.CharData:
			if !isBlank(tok) {
				return nil, d.fail("Unexpected text in map", nil)
			}
		case xml.EndElement:
			return out, nil
		}
	}
}

func (d *decoder) entry(t *model.Type, out any, start xml.StartElement) error {
	if start.Name.Local != valueElement {
		return d.fail("Unexpected element "+start.Name.Local+" in map", nil)
	}
	key, ok := keyOf(start)
	if !ok {
		return d.fail("Map entry has no key", nil)
	}
	v, err := d.value(start, t.Elem)
	if err != nil {
		return err
	}
	t.SetKey(out, key, v)
	return nil
}

// any reads an untyped element: Item children make a list, Value children a
// map, and anything else is read as text.
func (d *decoder) any() (any, error) {
	var (
		text strings.Builder
		t    *model.Type
		out  any
	)
	for {
		tok, err := d.token()
		if err != nil {
			return nil, err
		}
		switch tok := tok.(type) {
		case xml.CharData:
			text.Write(tok)
		case xml.StartElement:
			if t == nil {
				switch tok.Name.Local {
				case itemElement:
					t = model.AnyList
					out = t.MakeList(0)
				case valueElement:
					t = model.AnyMap
					out = t.MakeMap(0)
				}
			}
			switch {
			case t == model.AnyList && tok.Name.Local == itemElement:
				v, err := d.value(tok, model.Any)
				if err != nil {
					return nil, err
				}
				out = t.Append(out, v)
			case t == model.AnyMap && tok.Name.Local == valueElement:
				if err := d.entry(t, out, tok); err != nil {
					return nil, err
				}
			default:
				if err := d.skip(); err != nil {
					return nil, err
				}
			}
		case xml.EndElement:
			if out != nil {
				return out, nil
			}
			return text.String(), nil
		}
	}
}
