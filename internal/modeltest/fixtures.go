// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modeltest

import (
	"time"

	"gopkg.in/inf.v0"
)

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// NewJoke returns a joke added at a fixed time.
func NewJoke(question, answer string) *Joke {
	return &Joke{
		Question:  question,
		Answer:    Ptr(answer),
		DateAdded: Ptr(time.Date(2012, 12, 31, 0, 0, 0, 0, time.UTC)),
	}
}

// NewWholesome returns a Wholesome with every field set, including absent
// entries inside its lists and maps.
func NewWholesome() *Wholesome {
	return &Wholesome{
		MyBool:     true,
		MyByte:     0xfe,
		MyInt8:     -8,
		MyInt16:    -1600,
		MyInt32:    320000,
		MyInt64:    9007199254740993,
		MyUint32:   4000000000,
		MyUint64:   18446744073709551615,
		MyFloat32:  1.5,
		MyFloat64:  -2.25e-10,
		MyDecimal:  inf.NewDec(12345, 3),
		MyChar:     'ß',
		MyString:   "line one\r\nline \"two\"\t/\\ ünïcødé",
		MyBinary:   []byte{0, 1, 2, 3, 254, 255},
		MyDatetime: time.Date(2012, 12, 31, 23, 59, 58, 123000000, time.UTC),
		MyEnum:     ColorGreen,
		MyOptInt:   Ptr(int32(-7)),
		MyOptEnum:  Ptr(ColorBlue),
		MyAny:      map[string]any{"one": "1", "list": []any{"a", "b"}},
		Joke:       NewJoke("Why?", "Because."),
		Names:      []*string{Ptr("Mike"), nil, Ptr("")},
		Jokes:      []*Joke{NewJoke("Knock knock", "Who's there?"), nil},
		Pokes: map[string]*Joke{
			"Mike":   NewJoke("Poke?", "Poked."),
			"Nobody": nil,
		},
		Argh: []map[string][]*Joke{
			{"deep": {NewJoke("Deep?", "Very.")}},
			{},
		},
		Counts: map[string]int64{"big": -9007199254740993, "zero": 0},
	}
}
