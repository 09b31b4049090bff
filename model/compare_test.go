// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model_test

import (
	"time"

	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/luxfi/babel/internal/modeltest"
	"github.com/luxfi/babel/model"
)

type compareSuite struct{}

var _ = gc.Suite(&compareSuite{})

func (s *compareSuite) TestEqual(c *gc.C) {
	ok, path := model.Compare(modeltest.NewWholesome(), modeltest.NewWholesome())
	c.Check(ok, jc.IsTrue)
	c.Check(path, gc.Equals, "")
}

func (s *compareSuite) TestNil(c *gc.C) {
	ok, _ := model.Compare(nil, nil)
	c.Check(ok, jc.IsTrue)
	ok, _ = model.Compare(modeltest.NewWholesome(), nil)
	c.Check(ok, jc.IsFalse)
}

func (s *compareSuite) TestPaths(c *gc.C) {
	for i, test := range []struct {
		about  string
		change func(w *modeltest.Wholesome)
		path   string
	}{{
		about:  "byte difference",
		change: func(w *modeltest.Wholesome) { w.MyBinary[2] = 42 },
		path:   "myBINARY[2]",
	}, {
		about:  "byte length",
		change: func(w *modeltest.Wholesome) { w.MyBinary = w.MyBinary[1:] },
		path:   "myBINARY",
	}, {
		about:  "map value field",
		change: func(w *modeltest.Wholesome) { w.Pokes["Mike"].Answer = modeltest.Ptr("Not me") },
		path:   "Pokes[Mike]/Answer",
	}, {
		about:  "map size",
		change: func(w *modeltest.Wholesome) { w.Pokes["Extra"] = nil },
		path:   "Pokes",
	}, {
		about:  "map key set",
		change: func(w *modeltest.Wholesome) { delete(w.Pokes, "Nobody"); w.Pokes["Somebody"] = nil },
		path:   "Pokes",
	}, {
		about:  "list element field",
		change: func(w *modeltest.Wholesome) { w.Jokes[0].Question = "Who?" },
		path:   "Jokes[0]/Question",
	}, {
		about:  "list size",
		change: func(w *modeltest.Wholesome) { w.Jokes = w.Jokes[:1] },
		path:   "Jokes",
	}, {
		about:  "null list element",
		change: func(w *modeltest.Wholesome) { w.Jokes[1] = modeltest.NewJoke("a", "b") },
		path:   "Jokes[1]",
	}, {
		about:  "nested collections",
		change: func(w *modeltest.Wholesome) { w.Argh[0]["deep"][0].Question = "Shallow?" },
		path:   "Argh[0][deep][0]/Question",
	}, {
		about:  "null model",
		change: func(w *modeltest.Wholesome) { w.Joke = nil },
		path:   "Joke",
	}, {
		about:  "optional scalar",
		change: func(w *modeltest.Wholesome) { w.MyOptInt = nil },
		path:   "myOPTINT",
	}, {
		about:  "decimal",
		change: func(w *modeltest.Wholesome) { w.MyDecimal.SetUnscaled(12346) },
		path:   "myDECIMAL",
	}, {
		about:  "time outside tolerance",
		change: func(w *modeltest.Wholesome) { w.MyDatetime = w.MyDatetime.Add(6 * time.Millisecond) },
		path:   "myDATETIME",
	}, {
		about:  "untyped value",
		change: func(w *modeltest.Wholesome) { w.MyAny.(map[string]any)["list"] = []any{"a", "c"} },
		path:   "myANY[list][1]",
	}} {
		c.Logf("test %d: %s", i, test.about)
		a, b := modeltest.NewWholesome(), modeltest.NewWholesome()
		test.change(b)
		ok, path := model.Compare(a, b)
		c.Check(ok, jc.IsFalse)
		c.Check(path, gc.Equals, test.path)
	}
}

func (s *compareSuite) TestTimeTolerance(c *gc.C) {
	a, b := modeltest.NewWholesome(), modeltest.NewWholesome()
	b.MyDatetime = b.MyDatetime.Add(-4 * time.Millisecond)
	ok, _ := model.Compare(a, b)
	c.Check(ok, jc.IsTrue)
}

func (s *compareSuite) TestDoesNotReplaceOptionals(c *gc.C) {
	a, b := modeltest.NewWholesome(), modeltest.NewWholesome()
	before := b.MyOptInt
	ok, _ := model.Compare(a, b)
	c.Assert(ok, jc.IsTrue)
	c.Check(b.MyOptInt == before, jc.IsTrue)
}

func (s *compareSuite) TestUncomparableUntypedValues(c *gc.C) {
	a, b := modeltest.NewWholesome(), modeltest.NewWholesome()
	a.MyAny = []string{"a", "b"}
	b.MyAny = []string{"a", "b"}
	ok, _ := model.Compare(a, b)
	c.Check(ok, jc.IsTrue)

	b.MyAny = []string{"a", "c"}
	ok, path := model.Compare(a, b)
	c.Check(ok, jc.IsFalse)
	c.Check(path, gc.Equals, "myANY")

	b.MyAny = "a"
	ok, path = model.Compare(a, b)
	c.Check(ok, jc.IsFalse)
	c.Check(path, gc.Equals, "myANY")
}
