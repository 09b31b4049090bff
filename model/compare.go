// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"reflect"
	"strconv"
	"time"

	"gopkg.in/inf.v0"
)

// TimeTolerance is the largest difference between two timestamps that
// Compare still treats as equal.
const TimeTolerance = 5 * time.Millisecond

// Compare reports whether a and b are structurally equal. When they are not,
// path names the first field that differs: nested models are joined with
// "/", list elements are written name[i] and map entries name[key]. Maps or
// lists of different sizes are reported by the collection's own name.
func Compare(a, b Model) (bool, string) {
	if a == nil || b == nil {
		return a == nil && b == nil, ""
	}
	return compareModels(a, b)
}

func compareModels(a, b Model) (bool, string) {
	equal, path := true, ""
	a.VisitFields(func(name string, t *Type, v any, _ any) any {
		if !equal {
			return v
		}
		other, ok := Get(b, name)
		if !ok {
			equal, path = false, name
			return v
		}
		equal, path = compareValue(name, t, v, other)
		return v
	}, nil)
	return equal, path
}

func compareValue(path string, t *Type, x, y any) (bool, string) {
	if x == nil || y == nil {
		if x == nil && y == nil {
			return true, ""
		}
		return false, path
	}
	switch t.Kind {
	case KindOptional:
		return compareValue(path, t.Elem, x, y)
	case KindStruct:
		if ok, sub := compareModels(x.(Model), y.(Model)); !ok {
			return false, path + "/" + sub
		}
		return true, ""
	case KindList:
		n := t.Len(x)
		if n != t.Len(y) {
			return false, path
		}
		for i := 0; i < n; i++ {
			ok, p := compareValue(path+"["+strconv.Itoa(i)+"]", t.Elem, t.Index(x, i), t.Index(y, i))
			if !ok {
				return false, p
			}
		}
		return true, ""
	case KindMap:
		if t.Len(x) != t.Len(y) {
			return false, path
		}
		for _, k := range t.Keys(x) {
			yv, found := t.Lookup(y, k)
			if !found {
				return false, path
			}
			xv, _ := t.Lookup(x, k)
			if ok, p := compareValue(path+"["+k+"]", t.Elem, xv, yv); !ok {
				return false, p
			}
		}
		return true, ""
	case KindBinary:
		return compareBytes(path, x.([]byte), y.([]byte))
	case KindAny:
		return compareAny(path, x, y)
	}
	if !scalarEqual(t.Kind, x, y) {
		return false, path
	}
	return true, ""
}

func compareBytes(path string, x, y []byte) (bool, string) {
	if len(x) != len(y) {
		return false, path
	}
	for i := range x {
		if x[i] != y[i] {
			return false, path + "[" + strconv.Itoa(i) + "]"
		}
	}
	return true, ""
}

func scalarEqual(k Kind, x, y any) bool {
	switch k {
	case KindTime:
		d := x.(time.Time).Sub(y.(time.Time))
		return d <= TimeTolerance && d >= -TimeTolerance
	case KindDecimal:
		return x.(*inf.Dec).Cmp(y.(*inf.Dec)) == 0
	}
	return x == y
}

func compareAny(path string, x, y any) (bool, string) {
	switch xv := x.(type) {
	case Model:
		yv, ok := y.(Model)
		if !ok || xv.ModelType() != yv.ModelType() {
			return false, path
		}
		return compareValue(path, xv.ModelType(), xv, yv)
	case Typed:
		yv, ok := y.(Typed)
		if !ok || xv.Type != yv.Type {
			return false, path
		}
		return compareValue(path, xv.Type, xv.Type.Box(xv.Value), yv.Type.Box(yv.Value))
	case []any:
		if _, ok := y.([]any); !ok {
			return false, path
		}
		return compareValue(path, AnyList, x, y)
	case map[string]any:
		if _, ok := y.(map[string]any); !ok {
			return false, path
		}
		return compareValue(path, AnyMap, x, y)
	case []byte:
		yv, ok := y.([]byte)
		if !ok {
			return false, path
		}
		return compareBytes(path, xv, yv)
	case time.Time:
		if _, ok := y.(time.Time); !ok || !scalarEqual(KindTime, x, y) {
			return false, path
		}
		return true, ""
	case *inf.Dec:
		yv, ok := y.(*inf.Dec)
		if !ok || xv.Cmp(yv) != 0 {
			return false, path
		}
		return true, ""
	}
	// Values such as []string can not be compared with ==.
	if x != nil && y != nil && !reflect.ValueOf(x).Comparable() {
		if !reflect.DeepEqual(x, y) {
			return false, path
		}
		return true, ""
	}
	if x != y {
		return false, path
	}
	return true, ""
}
