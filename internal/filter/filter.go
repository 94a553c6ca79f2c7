package filter

import (
	"regexp"
	"strings"
)

// Type is the classification of a filter.
type Type int

const (
	Invalid Type = iota
	Comment
	Blocking
	Whitelist
	Elemhide
)

func (t Type) String() string {
	switch t {
	case Comment:
		return "comment"
	case Blocking:
		return "blocking"
	case Whitelist:
		return "whitelist"
	case Elemhide:
		return "elemhide"
	default:
		return "invalid"
	}
}

var (
	// elemhideRegex matches element hiding rules and their exceptions, e.g. "example.com##.ad", "#@#.ad" and "#?#:-abp-properties(...)".
	// "#@?#" is intentionally not matched, such rules end up being classified as blocking.
	elemhideRegex = regexp.MustCompile(`^([^/*|@"!]*?)#([@?])?#(.+)$`)
	// regexpRuleRegex matches rules of the form /pattern/, optionally followed by options.
	regexpRuleRegex = regexp.MustCompile(`^/(.*)/(?:\$[^/]*)?$`)
)

// Filter is a reference to a single rule of a filter list.
//
// Filters are immutable and are shared between subscriptions by pointer.
type Filter struct {
	text string
	typ  Type
}

// FromText creates a filter from its textual representation.
// It returns nil if the text is empty or consists only of whitespace.
func FromText(text string) *Filter {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	return &Filter{
		text: text,
		typ:  classify(text),
	}
}

// Text returns the text of the filter.
func (f *Filter) Text() string {
	return f.text
}

// Type returns the classification of the filter.
func (f *Filter) Type() Type {
	return f.typ
}

func (f *Filter) String() string {
	return f.text
}

// Equal reports whether a and b refer to the same filter, either by identity or by text.
func Equal(a, b *Filter) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.text == b.text
}

func classify(text string) Type {
	switch {
	case strings.HasPrefix(text, "!"):
		return Comment
	case elemhideRegex.MatchString(text):
		return Elemhide
	}

	rule := text
	typ := Blocking
	if strings.HasPrefix(rule, "@@") {
		rule = rule[2:]
		typ = Whitelist
	}

	if matches := regexpRuleRegex.FindStringSubmatch(rule); matches != nil {
		if _, err := regexp.Compile(matches[1]); err != nil {
			return Invalid
		}
	}

	return typ
}
