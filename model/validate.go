// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package model

import (
	"fmt"
	"regexp"
	"strconv"
	"unicode/utf8"

	"gopkg.in/inf.v0"
)

// Violation is a single failed validation rule. Members holds the
// slash-separated paths of the fields involved, relative to the model
// passed to Validate.
type Violation struct {
	Message string
	Members []string
}

// Rule checks a single field value. A nil value is only ever rejected by
// Required.
type Rule interface {
	Check(field string, t *Type, v any) (msg string, ok bool)
}

// FieldRule binds rules to the field with the given wire name.
type FieldRule struct {
	Field string
	Rules []Rule
}

// RuleSet is implemented by models that carry declarative field rules.
type RuleSet interface {
	ValidationRules() []FieldRule
}

// SelfValidator is implemented by models with checks that span fields.
// Member names in the returned violations are relative to the model.
type SelfValidator interface {
	Validate() []Violation
}

// Validate applies the rules of m and, recursively, of every model reachable
// from it through fields, list elements and map values. Violations found in
// nested models have their member names prefixed with the path of the
// field they were reached through, such as "outer/list[1]/map[key]/inner".
func Validate(m Model) (bool, []Violation) {
	var out []Violation
	if m != nil {
		validateModel(m, "", &out)
	}
	return len(out) == 0, out
}

func validateModel(m Model, prefix string, out *[]Violation) {
	for _, v := range checkRules(m) {
		if prefix != "" {
			members := make([]string, len(v.Members))
			for i, name := range v.Members {
				members[i] = prefix + "/" + name
			}
			v.Members = members
		}
		*out = append(*out, v)
	}
	m.VisitFields(func(name string, t *Type, v any, _ any) any {
		validateValue(name, t, v, prefix, out)
		return v
	}, nil)
}

func checkRules(m Model) []Violation {
	var out []Violation
	if rs, ok := m.(RuleSet); ok {
		for _, fr := range rs.ValidationRules() {
			m.VisitField(fr.Field, func(name string, t *Type, v any, _ any) any {
				for _, r := range fr.Rules {
					if msg, ok := r.Check(name, t, v); !ok {
						out = append(out, Violation{Message: msg, Members: []string{name}})
					}
				}
				return v
			}, nil)
		}
	}
	if sv, ok := m.(SelfValidator); ok {
		out = append(out, sv.Validate()...)
	}
	return out
}

func validateValue(name string, t *Type, v any, prefix string, out *[]Violation) {
	if v == nil {
		return
	}
	switch t.Kind {
	case KindStruct:
		p := name
		if prefix != "" {
			p = prefix + "/" + name
		}
		validateModel(v.(Model), p, out)
	case KindList:
		for i, n := 0, t.Len(v); i < n; i++ {
			validateValue(name+"["+strconv.Itoa(i)+"]", t.Elem, t.Index(v, i), prefix, out)
		}
	case KindMap:
		for _, k := range t.Keys(v) {
			e, _ := t.Lookup(v, k)
			validateValue(name+"["+k+"]", t.Elem, e, prefix, out)
		}
	case KindAny:
		switch x := v.(type) {
		case Model:
			validateValue(name, x.ModelType(), x, prefix, out)
		case []any:
			validateValue(name, AnyList, x, prefix, out)
		case map[string]any:
			validateValue(name, AnyMap, x, prefix, out)
		}
	}
}

type required struct{}

// Required rejects absent values and empty strings.
func Required() Rule { return required{} }

func (required) Check(field string, _ *Type, v any) (string, bool) {
	if v == nil || v == "" {
		return fmt.Sprintf("The %s field is required.", field), false
	}
	return "", true
}

type rangeRule struct {
	min, max float64
}

// Range bounds a numeric value, inclusive at both ends.
func Range(min, max float64) Rule { return rangeRule{min: min, max: max} }

func (r rangeRule) Check(field string, t *Type, v any) (string, bool) {
	if v == nil {
		return "", true
	}
	f, ok := toFloat(v)
	if ok && f >= r.min && f <= r.max {
		return "", true
	}
	return fmt.Sprintf("The field %s must be between %s and %s.", field, formatBound(r.min), formatBound(r.max)), false
}

func formatBound(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case *inf.Dec:
		f, err := strconv.ParseFloat(x.String(), 64)
		return f, err == nil
	}
	return 0, false
}

type lengthRule struct {
	min, max int
}

// Length bounds the length of a string (in characters) or the size of a
// list, map or byte string.
func Length(min, max int) Rule { return lengthRule{min: min, max: max} }

func (r lengthRule) Check(field string, t *Type, v any) (string, bool) {
	if v == nil {
		return "", true
	}
	var n int
	switch x := v.(type) {
	case string:
		n = utf8.RuneCountInString(x)
	case []byte:
		n = len(x)
	default:
		if t.Kind == KindList || t.Kind == KindMap {
			n = t.Len(v)
		}
	}
	if n >= r.min && n <= r.max {
		return "", true
	}
	if r.min > 0 {
		return fmt.Sprintf("The field %s must be a string with a minimum length of %d and a maximum length of %d.", field, r.min, r.max), false
	}
	return fmt.Sprintf("The field %s must be a string with a maximum length of %d.", field, r.max), false
}

type patternRule struct {
	expr string
	re   *regexp.Regexp
}

// Pattern requires a string value to match expr in full. It panics if expr
// does not compile.
func Pattern(expr string) Rule {
	return patternRule{expr: expr, re: regexp.MustCompile(`^(?:` + expr + `)$`)}
}

func (r patternRule) Check(field string, _ *Type, v any) (string, bool) {
	s, ok := v.(string)
	if v == nil || (ok && r.re.MatchString(s)) {
		return "", true
	}
	return fmt.Sprintf("The field %s must match the regular expression '%s'.", field, r.expr), false
}

// Custom wraps an arbitrary check. fn returns the violation message, or ""
// when v is acceptable.
func Custom(fn func(field string, v any) string) Rule { return customRule(fn) }

type customRule func(field string, v any) string

func (r customRule) Check(field string, _ *Type, v any) (string, bool) {
	if msg := r(field, v); msg != "" {
		return msg, false
	}
	return "", true
}
