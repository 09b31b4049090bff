// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"gopkg.in/inf.v0"
)

// Type describes the declared type of a field. Codecs and the generic
// algorithms in this package are driven entirely by Type, so they never need
// reflection to walk a model.
//
// Values cross the Visitor boundary in canonical form: absent values are a
// nil interface, optional scalars are the bare element value, models are
// their pointer, lists are their slice and maps are their map[string]V.
type Type struct {
	Kind Kind
	Name string
	// Elem is the element type of Optional, List and Map kinds.
	Elem *Type

	box   func(v any) any
	unbox func(v any) any
	newFn func() Model
	parse func(s string) (any, error)
	list  *listOps
	dict  *mapOps
}

type listOps struct {
	make   func(n int) any
	len    func(v any) int
	index  func(v any, i int) any
	append func(v any, e any) any
}

type mapOps struct {
	make   func(n int) any
	len    func(v any) int
	keys   func(v any) []string
	lookup func(v any, key string) (any, bool)
	set    func(v any, key string, e any)
}

// Predeclared scalar types.
var (
	Bool    = scalar[bool](KindBool)
	Int8    = scalar[int8](KindInt8)
	Int16   = scalar[int16](KindInt16)
	Int32   = scalar[int32](KindInt32)
	Int64   = scalar[int64](KindInt64)
	Uint8   = scalar[uint8](KindUint8)
	Uint16  = scalar[uint16](KindUint16)
	Uint32  = scalar[uint32](KindUint32)
	Uint64  = scalar[uint64](KindUint64)
	Float32 = scalar[float32](KindFloat32)
	Float64 = scalar[float64](KindFloat64)
	Char    = scalar[rune](KindChar)
	String  = scalar[string](KindString)
	Time    = scalar[time.Time](KindTime)

	Decimal = &Type{
		Kind: KindDecimal,
		Name: KindDecimal.String(),
		box: func(v any) any {
			if d, _ := v.(*inf.Dec); d != nil {
				return d
			}
			return nil
		},
		unbox: func(v any) any {
			if v == nil {
				return (*inf.Dec)(nil)
			}
			return v
		},
	}

	Binary = &Type{
		Kind: KindBinary,
		Name: KindBinary.String(),
		box: func(v any) any {
			if b, _ := v.([]byte); b != nil {
				return b
			}
			return nil
		},
		unbox: func(v any) any {
			if v == nil {
				return []byte(nil)
			}
			return v
		},
	}

	Any = &Type{
		Kind:  KindAny,
		Name:  KindAny.String(),
		box:   func(v any) any { return v },
		unbox: func(v any) any { return v },
	}

	// AnyList and AnyMap are the shapes untyped arrays and objects take
	// when read into an Any field.
	AnyList = ListOf[any](Any)
	AnyMap  = MapOf[any](Any)
)

func scalar[T comparable](k Kind) *Type {
	return &Type{
		Kind: k,
		Name: k.String(),
		box:  func(v any) any { return v },
		unbox: func(v any) any {
			if v == nil {
				var zero T
				return zero
			}
			return v
		},
	}
}

// OptionalOf describes a *T field holding an optional scalar of type elem.
func OptionalOf[T comparable](elem *Type) *Type {
	return &Type{
		Kind: KindOptional,
		Name: "Optional<" + elem.Name + ">",
		Elem: elem,
		box: func(v any) any {
			p, _ := v.(*T)
			if p == nil {
				return nil
			}
			return elem.box(*p)
		},
		unbox: func(v any) any {
			if v == nil {
				return (*T)(nil)
			}
			x := elem.unbox(v).(T)
			return &x
		},
	}
}

// ListOf describes a []E field whose elements have type elem.
func ListOf[E any](elem *Type) *Type {
	return &Type{
		Kind: KindList,
		Name: "List<" + elem.Name + ">",
		Elem: elem,
		box: func(v any) any {
			s, _ := v.([]E)
			if s == nil {
				return nil
			}
			return s
		},
		unbox: func(v any) any {
			if v == nil {
				return []E(nil)
			}
			return v
		},
		list: &listOps{
			make:  func(n int) any { return make([]E, 0, n) },
			len:   func(v any) int { return len(v.([]E)) },
			index: func(v any, i int) any { return elem.box(v.([]E)[i]) },
			append: func(v any, e any) any {
				x, _ := elem.unbox(e).(E)
				return append(v.([]E), x)
			},
		},
	}
}

// MapOf describes a map[string]V field whose values have type elem. Map keys
// are always strings.
func MapOf[V any](elem *Type) *Type {
	return &Type{
		Kind: KindMap,
		Name: "Map<" + elem.Name + ">",
		Elem: elem,
		box: func(v any) any {
			m, _ := v.(map[string]V)
			if m == nil {
				return nil
			}
			return m
		},
		unbox: func(v any) any {
			if v == nil {
				return map[string]V(nil)
			}
			return v
		},
		dict: &mapOps{
			make: func(n int) any { return make(map[string]V, n) },
			len:  func(v any) int { return len(v.(map[string]V)) },
			keys: func(v any) []string {
				return slices.Sorted(maps.Keys(v.(map[string]V)))
			},
			lookup: func(v any, key string) (any, bool) {
				e, ok := v.(map[string]V)[key]
				if !ok {
					return nil, false
				}
				return elem.box(e), true
			},
			set: func(v any, key string, e any) {
				x, _ := elem.unbox(e).(V)
				v.(map[string]V)[key] = x
			},
		},
	}
}

// ModelOf describes a field holding a model of type M, which is almost
// always a pointer to a generated struct.
func ModelOf[M interface {
	comparable
	Model
}](name string, newFn func() M) *Type {
	var zero M
	return &Type{
		Kind: KindStruct,
		Name: name,
		box: func(v any) any {
			m, _ := v.(M)
			if m == zero {
				return nil
			}
			return m
		},
		unbox: func(v any) any {
			if v == nil {
				return zero
			}
			return v
		},
		newFn: func() Model { return newFn() },
	}
}

// EnumOf describes an enumeration E. Enums are written by name, using
// String, and read back with parse.
func EnumOf[E interface {
	comparable
	fmt.Stringer
}](name string, parse func(string) (E, error)) *Type {
	return &Type{
		Kind: KindEnum,
		Name: name,
		box:  func(v any) any { return v },
		unbox: func(v any) any {
			if v == nil {
				var zero E
				return zero
			}
			return v
		},
		parse: func(s string) (any, error) {
			e, err := parse(s)
			if err != nil {
				return nil, err
			}
			return e, nil
		},
	}
}

func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	return t.Name
}

// IsNullable reports whether a field of this type may be absent.
func (t *Type) IsNullable() bool {
	return t.Kind.IsNullable()
}

// Box converts Go storage into the canonical value passed to visitors.
func (t *Type) Box(v any) any {
	return t.box(v)
}

// Unbox converts a canonical value back into Go storage. A nil value yields
// the zero value of the storage type.
func (t *Type) Unbox(v any) any {
	return t.unbox(v)
}

// New returns a fresh instance of a model type.
func (t *Type) New() Model {
	if t.newFn == nil {
		panic(fmt.Sprintf("model: New called on %s type %s", t.Kind, t.Name))
	}
	return t.newFn()
}

// ParseEnum parses the name of an enumeration value.
func (t *Type) ParseEnum(s string) (any, error) {
	if t.parse == nil {
		return nil, fmt.Errorf("%s is not an enumeration", t.Name)
	}
	return t.parse(s)
}

// Len returns the number of elements in a canonical list or map value.
func (t *Type) Len(v any) int {
	switch {
	case v == nil:
		return 0
	case t.list != nil:
		return t.list.len(v)
	case t.dict != nil:
		return t.dict.len(v)
	}
	panic("model: Len called on " + t.Name)
}

// Index returns the canonical value of the i'th element of a list.
func (t *Type) Index(v any, i int) any {
	return t.list.index(v, i)
}

// MakeList returns an empty list with room for n elements.
func (t *Type) MakeList(n int) any {
	return t.list.make(n)
}

// Append adds the canonical value e to list and returns the updated list.
func (t *Type) Append(list any, e any) any {
	return t.list.append(list, e)
}

// Keys returns the keys of a map in sorted order.
func (t *Type) Keys(v any) []string {
	if v == nil {
		return nil
	}
	return t.dict.keys(v)
}

// Lookup returns the canonical value stored under key.
func (t *Type) Lookup(v any, key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	return t.dict.lookup(v, key)
}

// MakeMap returns an empty map with room for n entries.
func (t *Type) MakeMap(n int) any {
	return t.dict.make(n)
}

// SetKey stores the canonical value e under key.
func (t *Type) SetKey(m any, key string, e any) {
	t.dict.set(m, key, e)
}

// Typed pairs a value with its declared type, for values whose type can not
// be recovered from their Go storage alone (an Optional or an enum held in an
// Any field, for instance). Value holds Go storage, not the canonical form.
type Typed struct {
	Type  *Type
	Value any
}
