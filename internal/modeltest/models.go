// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package modeltest holds models shared by the tests of other packages,
// written the same way generated models are.
package modeltest

import (
	"strconv"
	"time"

	"github.com/juju/errors"
	"gopkg.in/inf.v0"

	"github.com/luxfi/babel/model"
)

type Color int32

const (
	ColorRed Color = iota
	ColorGreen
	ColorBlue
)

var colorNames = [...]string{"Red", "Green", "Blue"}

func (c Color) String() string {
	if c >= 0 && int(c) < len(colorNames) {
		return colorNames[c]
	}
	return "Color(" + strconv.Itoa(int(c)) + ")"
}

func ParseColor(s string) (Color, error) {
	for i, name := range colorNames {
		if name == s {
			return Color(i), nil
		}
	}
	return 0, errors.NotValidf("Color %q", s)
}

var (
	ColorType      = model.EnumOf("Color", ParseColor)
	JokeType       = model.ModelOf("Joke", func() *Joke { return new(Joke) })
	WholesomeType  = model.ModelOf("Wholesome", func() *Wholesome { return new(Wholesome) })
	EchoType       = model.ModelOf("EchoRequest", func() *EchoRequest { return new(EchoRequest) })
	EchoReplyType  = model.ModelOf("EchoReply", func() *EchoReply { return new(EchoReply) })
	optionalString = model.OptionalOf[string](model.String)
	optionalTime   = model.OptionalOf[time.Time](model.Time)
	optionalInt32  = model.OptionalOf[int32](model.Int32)
	optionalColor  = model.OptionalOf[Color](ColorType)
	stringList     = model.ListOf[*string](optionalString)
	plainStrings   = model.ListOf[string](model.String)
	jokeList       = model.ListOf[*Joke](JokeType)
	jokeMap        = model.MapOf[*Joke](JokeType)
	jokeListMap    = model.MapOf[[]*Joke](jokeList)
	arghList       = model.ListOf[map[string][]*Joke](jokeListMap)
	int64Map       = model.MapOf[int64](model.Int64)
)

type Joke struct {
	Question  string
	Answer    *string
	DateAdded *time.Time
}

func (j *Joke) ModelType() *model.Type { return JokeType }

func (j *Joke) VisitFields(v model.Visitor, aux any) {
	model.Visit(v, "Question", model.String, &j.Question, aux)
	model.Visit(v, "Answer", optionalString, &j.Answer, aux)
	model.Visit(v, "DateAdded", optionalTime, &j.DateAdded, aux)
}

func (j *Joke) VisitField(name string, v model.Visitor, aux any) bool {
	switch name {
	case "Question":
		model.Visit(v, name, model.String, &j.Question, aux)
	case "Answer":
		model.Visit(v, name, optionalString, &j.Answer, aux)
	case "DateAdded":
		model.Visit(v, name, optionalTime, &j.DateAdded, aux)
	default:
		return false
	}
	return true
}

// Wholesome has a field of every kind.
type Wholesome struct {
	MyBool     bool
	MyByte     uint8
	MyInt8     int8
	MyInt16    int16
	MyInt32    int32
	MyInt64    int64
	MyUint32   uint32
	MyUint64   uint64
	MyFloat32  float32
	MyFloat64  float64
	MyDecimal  *inf.Dec
	MyChar     rune
	MyString   string
	MyBinary   []byte
	MyDatetime time.Time
	MyEnum     Color
	MyOptInt   *int32
	MyOptEnum  *Color
	MyAny      any
	Joke       *Joke
	Names      []*string
	Jokes      []*Joke
	Pokes      map[string]*Joke
	Argh       []map[string][]*Joke
	Counts     map[string]int64
}

func (w *Wholesome) ModelType() *model.Type { return WholesomeType }

func (w *Wholesome) VisitFields(v model.Visitor, aux any) {
	for _, name := range wholesomeFields {
		w.VisitField(name, v, aux)
	}
}

var wholesomeFields = []string{
	"myBOOL", "myBYTE", "myINT8", "myINT16", "myINT32", "myINT64", "myUINT32",
	"myUINT64", "myFLOAT32", "myFLOAT64", "myDECIMAL", "myCHAR", "mySTRING",
	"myBINARY", "myDATETIME", "myENUM", "myOPTINT", "myOPTENUM", "myANY",
	"Joke", "Names", "Jokes", "Pokes", "Argh", "Counts",
}

func (w *Wholesome) VisitField(name string, v model.Visitor, aux any) bool {
	switch name {
	case "myBOOL":
		model.Visit(v, name, model.Bool, &w.MyBool, aux)
	case "myBYTE":
		model.Visit(v, name, model.Uint8, &w.MyByte, aux)
	case "myINT8":
		model.Visit(v, name, model.Int8, &w.MyInt8, aux)
	case "myINT16":
		model.Visit(v, name, model.Int16, &w.MyInt16, aux)
	case "myINT32":
		model.Visit(v, name, model.Int32, &w.MyInt32, aux)
	case "myINT64":
		model.Visit(v, name, model.Int64, &w.MyInt64, aux)
	case "myUINT32":
		model.Visit(v, name, model.Uint32, &w.MyUint32, aux)
	case "myUINT64":
		model.Visit(v, name, model.Uint64, &w.MyUint64, aux)
	case "myFLOAT32":
		model.Visit(v, name, model.Float32, &w.MyFloat32, aux)
	case "myFLOAT64":
		model.Visit(v, name, model.Float64, &w.MyFloat64, aux)
	case "myDECIMAL":
		model.Visit(v, name, model.Decimal, &w.MyDecimal, aux)
	case "myCHAR":
		model.Visit(v, name, model.Char, &w.MyChar, aux)
	case "mySTRING":
		model.Visit(v, name, model.String, &w.MyString, aux)
	case "myBINARY":
		model.Visit(v, name, model.Binary, &w.MyBinary, aux)
	case "myDATETIME":
		model.Visit(v, name, model.Time, &w.MyDatetime, aux)
	case "myENUM":
		model.Visit(v, name, ColorType, &w.MyEnum, aux)
	case "myOPTINT":
		model.Visit(v, name, optionalInt32, &w.MyOptInt, aux)
	case "myOPTENUM":
		model.Visit(v, name, optionalColor, &w.MyOptEnum, aux)
	case "myANY":
		model.Visit(v, name, model.Any, &w.MyAny, aux)
	case "Joke":
		model.Visit(v, name, JokeType, &w.Joke, aux)
	case "Names":
		model.Visit(v, name, stringList, &w.Names, aux)
	case "Jokes":
		model.Visit(v, name, jokeList, &w.Jokes, aux)
	case "Pokes":
		model.Visit(v, name, jokeMap, &w.Pokes, aux)
	case "Argh":
		model.Visit(v, name, arghList, &w.Argh, aux)
	case "Counts":
		model.Visit(v, name, int64Map, &w.Counts, aux)
	default:
		return false
	}
	return true
}

// EchoRequest is a request model with defaults.
type EchoRequest struct {
	Text  string
	Count *int32
}

func (r *EchoRequest) ModelType() *model.Type { return EchoType }

func (r *EchoRequest) SetDefaults() {
	if r.Count == nil {
		one := int32(1)
		r.Count = &one
	}
}

func (r *EchoRequest) VisitFields(v model.Visitor, aux any) {
	model.Visit(v, "text", model.String, &r.Text, aux)
	model.Visit(v, "count", optionalInt32, &r.Count, aux)
}

func (r *EchoRequest) VisitField(name string, v model.Visitor, aux any) bool {
	switch name {
	case "text":
		model.Visit(v, name, model.String, &r.Text, aux)
	case "count":
		model.Visit(v, name, optionalInt32, &r.Count, aux)
	default:
		return false
	}
	return true
}

type EchoReply struct {
	Items []string
}

func (r *EchoReply) ModelType() *model.Type { return EchoReplyType }

func (r *EchoReply) VisitFields(v model.Visitor, aux any) {
	model.Visit(v, "items", plainStrings, &r.Items, aux)
}

func (r *EchoReply) VisitField(name string, v model.Visitor, aux any) bool {
	if name != "items" {
		return false
	}
	model.Visit(v, name, plainStrings, &r.Items, aux)
	return true
}
