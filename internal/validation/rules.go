package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// RuleKind tags the variant of a Rule.
type RuleKind int

const (
	KindRequired RuleKind = iota
	KindPattern
	KindLength
	KindCustom
)

// Rule is a single check on a raw field value. Rules of a field are evaluated in
// order and the first failing one supplies the field's message.
type Rule struct {
	Kind    RuleKind
	Message string

	pattern  *regexp.Regexp
	min, max int
	check    func(string) bool
}

// Required fails on an empty or whitespace-only value.
func Required(msg string) Rule {
	return Rule{Kind: KindRequired, Message: msg}
}

// Pattern fails when the value does not match re.
func Pattern(re *regexp.Regexp, msg string) Rule {
	return Rule{Kind: KindPattern, Message: msg, pattern: re}
}

// MinLength fails when the value has fewer than n characters.
func MinLength(n int, msg string) Rule {
	return Rule{Kind: KindLength, Message: msg, min: n, max: -1}
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int, msg string) Rule {
	return Rule{Kind: KindLength, Message: msg, min: -1, max: n}
}

// ExactLength fails unless the value has exactly n characters.
func ExactLength(n int, msg string) Rule {
	return Rule{Kind: KindLength, Message: msg, min: n, max: n}
}

// Custom fails when ok returns false.
func Custom(ok func(string) bool, msg string) Rule {
	return Rule{Kind: KindCustom, Message: msg, check: ok}
}

func (r Rule) passes(v string) bool {
	switch r.Kind {
	case KindRequired:
		return strings.TrimSpace(v) != ""
	case KindPattern:
		return r.pattern.MatchString(v)
	case KindLength:
		n := utf8.RuneCountInString(v)
		if r.min >= 0 && n < r.min {
			return false
		}
		if r.max >= 0 && n > r.max {
			return false
		}
		return true
	case KindCustom:
		return r.check(v)
	}

	return false
}

// Chain is the ordered rule list of one field.
type Chain []Rule

// Check returns the message of the first failing rule, or "" when v is accepted.
func (c Chain) Check(v string) string {
	for _, r := range c {
		if !r.passes(v) {
			return r.Message
		}
	}

	return ""
}
