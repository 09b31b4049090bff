// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

// Kind identifies the shape of a field's declared type.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindDecimal
	KindChar
	KindString
	KindBinary
	KindTime
	KindEnum
	KindAny
	KindOptional
	KindList
	KindMap
	KindStruct
)

var kindNames = [...]string{
	KindInvalid:  "Invalid",
	KindBool:     "Bool",
	KindInt8:     "Int8",
	KindInt16:    "Int16",
	KindInt32:    "Int32",
	KindInt64:    "Int64",
	KindUint8:    "Uint8",
	KindUint16:   "Uint16",
	KindUint32:   "Uint32",
	KindUint64:   "Uint64",
	KindFloat32:  "Float32",
	KindFloat64:  "Float64",
	KindDecimal:  "Decimal",
	KindChar:     "Char",
	KindString:   "String",
	KindBinary:   "Binary",
	KindTime:     "Time",
	KindEnum:     "Enum",
	KindAny:      "Any",
	KindOptional: "Optional",
	KindList:     "List",
	KindMap:      "Map",
	KindStruct:   "Struct",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Invalid"
}

// IsScalar reports whether values of this kind are written as a single
// literal on the wire.
func (k Kind) IsScalar() bool {
	return k >= KindBool && k <= KindEnum
}

// IsNullable reports whether the Go storage for this kind can represent
// absence without an Optional wrapper.
func (k Kind) IsNullable() bool {
	switch k {
	case KindDecimal, KindBinary, KindAny, KindOptional, KindList, KindMap, KindStruct:
		return true
	}
	return false
}
