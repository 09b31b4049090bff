// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model_test

import (
	"regexp"
	"time"

	"github.com/juju/errors"
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"
	"gopkg.in/inf.v0"

	"github.com/luxfi/babel/internal/modeltest"
	"github.com/luxfi/babel/model"
)

type convertSuite struct{}

var _ = gc.Suite(&convertSuite{})

func (s *convertSuite) TestParseDecimal(c *gc.C) {
	for i, test := range []struct {
		in   string
		want *inf.Dec
	}{
		{in: ".00045", want: inf.NewDec(45, 5)},
		{in: "0.00045", want: inf.NewDec(45, 5)},
		{in: "12.5", want: inf.NewDec(125, 1)},
		{in: "-12.5", want: inf.NewDec(-125, 1)},
		{in: "+7", want: inf.NewDec(7, 0)},
		{in: "1.5e3", want: inf.NewDec(1500, 0)},
		{in: "1.5E+3", want: inf.NewDec(1500, 0)},
		{in: "-2.5E-2", want: inf.NewDec(-25, 3)},
		{in: "4.5e-5", want: inf.NewDec(45, 6)},
		{in: "0e10", want: inf.NewDec(0, 0)},
		{in: "0.000E-99", want: inf.NewDec(0, 0)},
		{in: "0.000000000000000", want: inf.NewDec(0, 0)},
		{in: "0e-8", want: inf.NewDec(0, 0)},
		{in: "0E8", want: inf.NewDec(0, 0)},
		{in: ".0045e-2", want: inf.NewDec(45, 6)},
		{in: "0.0045e-2", want: inf.NewDec(45, 6)},
		{in: "1e-2147483647", want: inf.NewDec(1, 2147483647)},
		{in: " 79228162514264337593543950335 ", want: mustDec(c, "79228162514264337593543950335")},
	} {
		c.Logf("test %d: %q", i, test.in)
		got, err := model.ParseDecimal(test.in)
		c.Assert(err, jc.ErrorIsNil)
		c.Check(got.Cmp(test.want), gc.Equals, 0, gc.Commentf("got %s", got))
	}
}

func mustDec(c *gc.C, s string) *inf.Dec {
	d, ok := new(inf.Dec).SetString(s)
	c.Assert(ok, jc.IsTrue)
	return d
}

func (s *convertSuite) TestParseDecimalHugeExponent(c *gc.C) {
	got, err := model.ParseDecimal("1e30000000")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(got.Scale(), gc.Equals, inf.Scale(-30000000))
	c.Check(got.UnscaledBig().Int64(), gc.Equals, int64(1))

	got, err = model.ParseDecimal("-1.5E3")
	c.Assert(err, jc.ErrorIsNil)
	c.Check(got.String(), gc.Equals, "-1500")
}

func (s *convertSuite) TestParseDecimalInvalid(c *gc.C) {
	for _, in := range []string{
		"", "bad", "bad daTA", "1e", "1.2.3", "e5", "1e1.5", "--1",
		"1e-2147483648", "0.1e-2147483647", "1e2147483648",
	} {
		_, err := model.ParseDecimal(in)
		c.Check(err, gc.NotNil, gc.Commentf("input %q", in))
		if in == "" {
			continue
		}

		_, err = model.ParseScalar(model.Decimal, in)
		var convErr *model.ConversionError
		c.Check(errors.As(err, &convErr), jc.IsTrue, gc.Commentf("input %q", in))
	}
}

func (s *convertSuite) TestParseScalar(c *gc.C) {
	for i, test := range []struct {
		t    *model.Type
		in   string
		want any
	}{
		{t: model.Bool, in: "TRUE", want: true},
		{t: model.Bool, in: "1", want: true},
		{t: model.Bool, in: "false", want: false},
		{t: model.Bool, in: "0", want: false},
		{t: model.Int8, in: "-8", want: int8(-8)},
		{t: model.Int16, in: "1600", want: int16(1600)},
		{t: model.Int32, in: " 42 ", want: int32(42)},
		{t: model.Int64, in: "9007199254740993", want: int64(9007199254740993)},
		{t: model.Uint8, in: "255", want: uint8(255)},
		{t: model.Uint64, in: "18446744073709551615", want: uint64(18446744073709551615)},
		{t: model.Float32, in: "1.5", want: float32(1.5)},
		{t: model.Float64, in: "-2.25e-10", want: -2.25e-10},
		{t: model.Char, in: "ß", want: 'ß'},
		{t: model.String, in: "", want: ""},
		{t: model.Any, in: "12", want: "12"},
		{t: model.Binary, in: "AAEC", want: []byte{0, 1, 2}},
		{t: modeltest.ColorType, in: "Blue", want: modeltest.ColorBlue},
		{t: model.OptionalOf[int32](model.Int32), in: "5", want: int32(5)},
		{t: model.OptionalOf[int32](model.Int32), in: "", want: nil},
		{t: model.OptionalOf[string](model.String), in: "", want: ""},
		{t: model.Decimal, in: "", want: nil},
		{t: model.Binary, in: "", want: nil},
	} {
		c.Logf("test %d: %s %q", i, test.t, test.in)
		got, err := model.ParseScalar(test.t, test.in)
		c.Assert(err, jc.ErrorIsNil)
		c.Check(got, jc.DeepEquals, test.want)
	}
}

func (s *convertSuite) TestParseScalarErrors(c *gc.C) {
	for i, test := range []struct {
		t   *model.Type
		in  string
		msg string
	}{
		{t: model.Int32, in: "", msg: `cannot cast value "" of the type string to the Int32`},
		{t: model.Int32, in: "5.0", msg: `cannot cast value "5.0" of the type string to the Int32`},
		{t: model.Int8, in: "300", msg: `cannot cast value "300" of the type string to the Int8`},
		{t: model.Bool, in: "yes", msg: `cannot cast value "yes" of the type string to the Bool`},
		{t: model.Time, in: "yesterday", msg: `cannot cast value "yesterday" of the type string to the Time`},
		{t: modeltest.ColorType, in: "Purple", msg: `cannot cast value "Purple" of the type string to the Color`},
		{t: model.Char, in: "ab", msg: `cannot cast value "ab" of the type string to the Char`},
	} {
		c.Logf("test %d: %s %q", i, test.t, test.in)
		_, err := model.ParseScalar(test.t, test.in)
		c.Check(err, gc.ErrorMatches, regexp.QuoteMeta(test.msg))
		var convErr *model.ConversionError
		c.Check(errors.As(err, &convErr), jc.IsTrue)
	}
}

func (s *convertSuite) TestParseTime(c *gc.C) {
	want := time.Date(2012, 12, 31, 23, 59, 58, 0, time.UTC)
	for _, in := range []string{
		"2012-12-31T23:59:58Z",
		"2012-12-31T23:59:58.000Z",
		"2012-12-31T23:59:58",
		"2013-01-01T01:59:58+02:00",
	} {
		got, err := model.ParseTime(in)
		c.Assert(err, jc.ErrorIsNil)
		c.Check(got.Equal(want), jc.IsTrue, gc.Commentf("input %q gave %v", in, got))
	}
}

func (s *convertSuite) TestFormatTime(c *gc.C) {
	t := time.Date(2012, 12, 31, 23, 59, 58, 123456789, time.UTC)
	c.Check(model.FormatTime(t), gc.Equals, "2012-12-31T23:59:58.123Z")
	c.Check(model.FormatTime(t.Truncate(time.Second)), gc.Equals, "2012-12-31T23:59:58.000Z")
	zone := time.FixedZone("", 2*60*60)
	c.Check(model.FormatTime(t.In(zone)), gc.Equals, "2013-01-01T01:59:58.123+02:00")
}

func (s *convertSuite) TestFormatScalar(c *gc.C) {
	for i, test := range []struct {
		t    *model.Type
		in   any
		want string
	}{
		{t: model.Bool, in: true, want: "true"},
		{t: model.Int32, in: int32(-5), want: "-5"},
		{t: model.Char, in: 'ß', want: "ß"},
		{t: model.Uint64, in: uint64(18446744073709551615), want: "18446744073709551615"},
		{t: model.Float64, in: 0.1, want: "0.1"},
		{t: model.Decimal, in: inf.NewDec(45, 5), want: "0.00045"},
		{t: model.Binary, in: []byte{0, 1, 2}, want: "AAEC"},
		{t: modeltest.ColorType, in: modeltest.ColorGreen, want: "Green"},
	} {
		c.Logf("test %d: %v", i, test.in)
		got, err := model.FormatScalar(test.t, test.in)
		c.Assert(err, jc.ErrorIsNil)
		c.Check(got, gc.Equals, test.want)
	}
}
