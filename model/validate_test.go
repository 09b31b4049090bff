// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model_test

import (
	jc "github.com/juju/testing/checkers"
	gc "gopkg.in/check.v1"

	"github.com/luxfi/babel/internal/modeltest"
	"github.com/luxfi/babel/model"
)

type validateSuite struct{}

var _ = gc.Suite(&validateSuite{})

func (s *validateSuite) TestValid(c *gc.C) {
	ok, violations := model.Validate(modeltest.ValidAccount())
	c.Check(ok, jc.IsTrue)
	c.Check(violations, gc.HasLen, 0)
}

func (s *validateSuite) TestNil(c *gc.C) {
	ok, _ := model.Validate(nil)
	c.Check(ok, jc.IsTrue)
}

func (s *validateSuite) TestTopLevel(c *gc.C) {
	acct := modeltest.ValidAccount()
	acct.Name = ""
	acct.Email = modeltest.Ptr("not an address")
	ok, violations := model.Validate(acct)
	c.Check(ok, jc.IsFalse)
	c.Check(violations, jc.DeepEquals, []model.Violation{{
		Message: "The name field is required.",
		Members: []string{"name"},
	}, {
		Message: `The field email must match the regular expression '[^@\s]+@[^@\s]+'.`,
		Members: []string{"email"},
	}})
}

func (s *validateSuite) TestNestedPath(c *gc.C) {
	acct := modeltest.ValidAccount()
	acct.Profile.Cards = append(acct.Profile.Cards, &modeltest.Card{
		Number: "12345",
		Limits: map[string]*modeltest.Limit{
			"daily":   {Amount: 5000, Currency: "USD"},
			"monthly": {Amount: 5},
			"yearly":  nil,
		},
	})
	ok, violations := model.Validate(acct)
	c.Check(ok, jc.IsFalse)
	c.Check(violations, jc.DeepEquals, []model.Violation{{
		Message: `The field number must match the regular expression '\d{4}'.`,
		Members: []string{"profile/cards[1]/number"},
	}, {
		Message: "The field amount must be between 0 and 1000.",
		Members: []string{"profile/cards[1]/limits[daily]/amount"},
	}, {
		Message: "A currency is required for a non-zero amount.",
		Members: []string{"profile/cards[1]/limits[monthly]/currency", "profile/cards[1]/limits[monthly]/amount"},
	}})
}

func (s *validateSuite) TestLength(c *gc.C) {
	acct := modeltest.ValidAccount()
	acct.Name = "abcdefghijklmnopqrstuvwxyz"
	_, violations := model.Validate(acct)
	c.Assert(violations, gc.HasLen, 1)
	c.Check(violations[0].Message, gc.Equals, "The field name must be a string with a maximum length of 20.")
}

func (s *validateSuite) TestCustomRule(c *gc.C) {
	rule := model.Custom(func(field string, v any) string {
		if v == "bad" {
			return field + " is bad"
		}
		return ""
	})
	msg, ok := rule.Check("thing", model.String, "bad")
	c.Check(ok, jc.IsFalse)
	c.Check(msg, gc.Equals, "thing is bad")
	_, ok = rule.Check("thing", model.String, "good")
	c.Check(ok, jc.IsTrue)
}

func (s *validateSuite) TestRangeSkipsAbsent(c *gc.C) {
	_, ok := model.Range(1, 2).Check("n", model.OptionalOf[int32](model.Int32), nil)
	c.Check(ok, jc.IsTrue)
	_, ok = model.Required().Check("n", model.OptionalOf[int32](model.Int32), nil)
	c.Check(ok, jc.IsFalse)
}
