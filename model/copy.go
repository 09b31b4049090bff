// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"bytes"

	"gopkg.in/inf.v0"
)

// DeepCopy returns a structurally independent copy of m: every nested model,
// list, map, byte buffer and decimal is freshly allocated. A nil model
// yields nil.
func DeepCopy(m Model) Model {
	if m == nil {
		return nil
	}
	out := m.ModelType().New()
	m.VisitFields(func(name string, t *Type, v any, _ any) any {
		out.VisitField(name, replace, copyValue(t, v))
		return v
	}, nil)
	return out
}

// Clone is the typed form of DeepCopy.
func Clone[M interface {
	comparable
	Model
}](m M) M {
	var zero M
	if m == zero {
		return zero
	}
	return DeepCopy(m).(M)
}

func copyValue(t *Type, v any) any {
	if v == nil {
		return nil
	}
	switch t.Kind {
	case KindOptional:
		return copyValue(t.Elem, v)
	case KindStruct:
		return DeepCopy(v.(Model))
	case KindList:
		n := t.Len(v)
		out := t.MakeList(n)
		for i := 0; i < n; i++ {
			out = t.Append(out, copyValue(t.Elem, t.Index(v, i)))
		}
		return out
	case KindMap:
		out := t.MakeMap(t.Len(v))
		for _, k := range t.Keys(v) {
			e, _ := t.Lookup(v, k)
			t.SetKey(out, k, copyValue(t.Elem, e))
		}
		return out
	case KindBinary:
		return bytes.Clone(v.([]byte))
	case KindDecimal:
		return new(inf.Dec).Set(v.(*inf.Dec))
	case KindAny:
		return copyAny(v)
	}
	return v
}

func copyAny(v any) any {
	switch x := v.(type) {
	case Model:
		return DeepCopy(x)
	case Typed:
		return Typed{Type: x.Type, Value: x.Type.Unbox(copyValue(x.Type, x.Type.Box(x.Value)))}
	case []any:
		return copyValue(AnyList, x)
	case map[string]any:
		return copyValue(AnyMap, x)
	case []byte:
		return bytes.Clone(x)
	case *inf.Dec:
		return new(inf.Dec).Set(x)
	}
	return v
}
