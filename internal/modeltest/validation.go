// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package modeltest

import (
	"github.com/luxfi/babel/model"
)

var (
	AccountType = model.ModelOf("Account", func() *Account { return new(Account) })
	ProfileType = model.ModelOf("Profile", func() *Profile { return new(Profile) })
	CardType    = model.ModelOf("Card", func() *Card { return new(Card) })
	LimitType   = model.ModelOf("Limit", func() *Limit { return new(Limit) })
	cardList    = model.ListOf[*Card](CardType)
	limitMap    = model.MapOf[*Limit](LimitType)
)

// Account is the root of a three level model used to check violation
// paths: account/profile/cards[i]/limits[key]/amount.
type Account struct {
	Name    string
	Email   *string
	Profile *Profile
}

func (a *Account) ModelType() *model.Type { return AccountType }

func (a *Account) ValidationRules() []model.FieldRule {
	return []model.FieldRule{
		{Field: "name", Rules: []model.Rule{model.Required(), model.Length(0, 20)}},
		{Field: "email", Rules: []model.Rule{model.Pattern(`[^@\s]+@[^@\s]+`)}},
	}
}

func (a *Account) VisitFields(v model.Visitor, aux any) {
	model.Visit(v, "name", model.String, &a.Name, aux)
	model.Visit(v, "email", optionalString, &a.Email, aux)
	model.Visit(v, "profile", ProfileType, &a.Profile, aux)
}

func (a *Account) VisitField(name string, v model.Visitor, aux any) bool {
	switch name {
	case "name":
		model.Visit(v, name, model.String, &a.Name, aux)
	case "email":
		model.Visit(v, name, optionalString, &a.Email, aux)
	case "profile":
		model.Visit(v, name, ProfileType, &a.Profile, aux)
	default:
		return false
	}
	return true
}

type Profile struct {
	Cards []*Card
}

func (p *Profile) ModelType() *model.Type { return ProfileType }

func (p *Profile) VisitFields(v model.Visitor, aux any) {
	model.Visit(v, "cards", cardList, &p.Cards, aux)
}

func (p *Profile) VisitField(name string, v model.Visitor, aux any) bool {
	if name != "cards" {
		return false
	}
	model.Visit(v, name, cardList, &p.Cards, aux)
	return true
}

type Card struct {
	Number string
	Limits map[string]*Limit
}

func (c *Card) ModelType() *model.Type { return CardType }

func (c *Card) ValidationRules() []model.FieldRule {
	return []model.FieldRule{
		{Field: "number", Rules: []model.Rule{model.Pattern(`\d{4}`)}},
	}
}

func (c *Card) VisitFields(v model.Visitor, aux any) {
	model.Visit(v, "number", model.String, &c.Number, aux)
	model.Visit(v, "limits", limitMap, &c.Limits, aux)
}

func (c *Card) VisitField(name string, v model.Visitor, aux any) bool {
	switch name {
	case "number":
		model.Visit(v, name, model.String, &c.Number, aux)
	case "limits":
		model.Visit(v, name, limitMap, &c.Limits, aux)
	default:
		return false
	}
	return true
}

type Limit struct {
	Amount   int32
	Currency string
}

func (l *Limit) ModelType() *model.Type { return LimitType }

func (l *Limit) ValidationRules() []model.FieldRule {
	return []model.FieldRule{
		{Field: "amount", Rules: []model.Rule{model.Range(0, 1000)}},
	}
}

// Validate requires a currency for any non-zero amount.
func (l *Limit) Validate() []model.Violation {
	if l.Amount != 0 && l.Currency == "" {
		return []model.Violation{{
			Message: "A currency is required for a non-zero amount.",
			Members: []string{"currency", "amount"},
		}}
	}
	return nil
}

func (l *Limit) VisitFields(v model.Visitor, aux any) {
	model.Visit(v, "amount", model.Int32, &l.Amount, aux)
	model.Visit(v, "currency", model.String, &l.Currency, aux)
}

func (l *Limit) VisitField(name string, v model.Visitor, aux any) bool {
	switch name {
	case "amount":
		model.Visit(v, name, model.Int32, &l.Amount, aux)
	case "currency":
		model.Visit(v, name, model.String, &l.Currency, aux)
	default:
		return false
	}
	return true
}

// ValidAccount returns an account that passes validation.
func ValidAccount() *Account {
	return &Account{
		Name:  "Mike",
		Email: Ptr("mike@example.com"),
		Profile: &Profile{Cards: []*Card{{
			Number: "1234",
			Limits: map[string]*Limit{"daily": {Amount: 100, Currency: "USD"}},
		}}},
	}
}
