// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package xmlcodec

import (
	"encoding/xml"
	"time"

	"github.com/juju/errors"

	"github.com/luxfi/babel/model"
)

var (
	nilAttr   = xml.Attr{Name: xml.Name{Local: "xsi:nil"}, Value: "true"}
	xsiAttr   = xml.Attr{Name: xml.Name{Local: "xmlns:xsi"}, Value: xsiNamespace}
	xmlHeader = xml.ProcInst{Target: "xml", Inst: []byte(`version="1.0" encoding="utf-8"`)}
)

type encoder struct {
	enc *xml.Encoder
}

func (e *encoder) document(v any) error {
	t, v := rootType(v)
	if err := e.enc.EncodeToken(xmlHeader); err != nil {
		return errors.Trace(err)
	}
	name := valueElement
	if t.Kind == model.KindStruct {
		name = t.Name
	}
	if err := e.element(name, t, v, xsiAttr); err != nil {
		return errors.Trace(err)
	}
	return errors.Trace(e.enc.Flush())
}

func rootType(v any) (*model.Type, any) {
	switch x := v.(type) {
	case model.Typed:
		return x.Type, x.Type.Box(x.Value)
	case model.Model:
		return x.ModelType(), x
	}
	return model.Any, v
}

// element writes v as the content of a name element.
func (e *encoder) element(name string, t *model.Type, v any, attrs ...xml.Attr) error {
	if v == nil {
		attrs = append(attrs, nilAttr)
	}
	start := xml.StartElement{Name: xml.Name{Local: name}, Attr: attrs}
	if err := e.enc.EncodeToken(start); err != nil {
		return err
	}
	if v != nil {
		if err := e.content(t, v); err != nil {
			return err
		}
	}
	return e.enc.EncodeToken(start.End())
}

func (e *encoder) content(t *model.Type, v any) error {
	switch t.Kind {
	case model.KindOptional:
		return e.content(t.Elem, v)
	case model.KindStruct:
		return e.fields(v.(model.Model))
	case model.KindList:
		for i, n := 0, t.Len(v); i < n; i++ {
			if err := e.element(itemElement, t.Elem, t.Index(v, i)); err != nil {
				return err
			}
		}
		return nil
	case model.KindMap:
		for _, k := range t.Keys(v) {
			val, _ := t.Lookup(v, k)
			key := xml.Attr{Name: xml.Name{Local: keyAttr}, Value: k}
			if err := e.element(valueElement, t.Elem, val, key); err != nil {
				return err
			}
		}
		return nil
	case model.KindAny:
		return e.any(v)
	case model.KindTime:
		return e.text(v.(time.Time).Format(TimeLayout))
	}
	s, err := model.FormatScalar(t, v)
	if err != nil {
		return err
	}
	return e.text(s)
}

func (e *encoder) fields(m model.Model) error {
	var err error
	m.VisitFields(func(name string, t *model.Type, v any, _ any) any {
		if err == nil && v != nil {
			err = e.element(name, t, v)
		}
		return v
	}, nil)
	return err
}

func (e *encoder) any(v any) error {
	switch x := v.(type) {
	case model.Typed:
		if boxed := x.Type.Box(x.Value); boxed != nil {
			return e.content(x.Type, boxed)
		}
		return nil
	case model.Model:
		return e.fields(x)
	case []any:
		return e.content(model.AnyList, x)
	case map[string]any:
		return e.content(model.AnyMap, x)
	case time.Time:
		return e.text(x.Format(TimeLayout))
	}
	s, err := model.FormatScalar(model.Any, v)
	if err != nil {
		return err
	}
	return e.text(s)
}

func (e *encoder) text(s string) error {
	if s == "" {
		return nil
	}
	return e.enc.EncodeToken(xml.CharData(s))
}
