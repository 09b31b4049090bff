// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

// Visitor is called once per field with the field's wire name, its declared
// type, its current value in canonical form and the aux value handed to
// VisitFields or VisitField. The returned value is stored back into the
// field, so read-only visitors return value unchanged.
type Visitor func(name string, t *Type, value any, aux any) any

// Model is implemented by every generated data type.
type Model interface {
	// ModelType returns the descriptor shared by all instances of the type.
	ModelType() *Type
	// VisitFields calls v for every field, in declaration order.
	VisitFields(v Visitor, aux any)
	// VisitField calls v for the named field only. It reports false, without
	// calling v, when the model has no such field.
	VisitField(name string, v Visitor, aux any) bool
}

// Defaulter is implemented by request models that fill in defaults after
// they are read off the wire.
type Defaulter interface {
	SetDefaults()
}

// Visit is the building block of generated VisitFields and VisitField
// methods: it calls v with the canonical form of *field and stores the
// result back.
func Visit[T any](v Visitor, name string, t *Type, field *T, aux any) {
	in := t.Box(*field)
	out := v(name, t, in, aux)
	if t.Kind == KindOptional && in != nil && out == in {
		// keep the caller's pointer when nothing changed
		return
	}
	*field = As[T](t, out)
}

// As converts the canonical value v of type t into Go storage of type T.
func As[T any](t *Type, v any) T {
	u := t.Unbox(v)
	if u == nil {
		var zero T
		return zero
	}
	return u.(T)
}

func replace(_ string, _ *Type, _ any, aux any) any {
	return aux
}

func fillEmpty(_ string, t *Type, v any, _ any) any {
	if v != nil {
		return v
	}
	switch t.Kind {
	case KindList:
		return t.MakeList(0)
	case KindMap:
		return t.MakeMap(0)
	}
	return v
}

// Set replaces the value of the named field. It reports whether the field
// exists.
func Set(m Model, name string, v any) bool {
	return m.VisitField(name, replace, v)
}

// Get returns the canonical value of the named field.
func Get(m Model, name string) (any, bool) {
	var out any
	ok := m.VisitField(name, func(_ string, _ *Type, v any, _ any) any {
		out = v
		return v
	}, nil)
	return out, ok
}

// Assign shallow-copies every field of src into dst, which must be of the
// same model type.
func Assign(dst, src Model) {
	src.VisitFields(func(name string, _ *Type, v any, _ any) any {
		dst.VisitField(name, replace, v)
		return v
	}, nil)
}

// EnsureCollections replaces every absent list or map field of m with an
// empty one. Deserializers call it on each model they produce, so a
// collection field read off the wire is never nil.
func EnsureCollections(m Model) {
	m.VisitFields(fillEmpty, nil)
}
