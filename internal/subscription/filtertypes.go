package subscription

import (
	"strings"

	"github.com/anfragment/zen-subscriptions/internal/filter"
)

// FilterTypes is a set of the filter types a special subscription is the default handler for.
type FilterTypes uint8

const (
	DefaultBlocking FilterTypes = 1 << iota
	DefaultWhitelist
	DefaultElemhide
)

// filterTypeNames is in serialization order.
var filterTypeNames = []struct {
	bit  FilterTypes
	name string
}{
	{DefaultBlocking, "blocking"},
	{DefaultWhitelist, "whitelist"},
	{DefaultElemhide, "elemhide"},
}

// FilterTypeOf returns the set containing the type of f, or an empty set if f has no meaningful type.
func FilterTypeOf(f *filter.Filter) FilterTypes {
	if f == nil {
		return 0
	}
	switch f.Type() {
	case filter.Blocking:
		return DefaultBlocking
	case filter.Whitelist:
		return DefaultWhitelist
	case filter.Elemhide:
		return DefaultElemhide
	default:
		return 0
	}
}

// ParseFilterTypes parses a space-separated list of type names. Unknown names are ignored.
func ParseFilterTypes(s string) FilterTypes {
	var types FilterTypes
	for _, token := range strings.Fields(s) {
		for _, t := range filterTypeNames {
			if token == t.name {
				types |= t.bit
			}
		}
	}
	return types
}

// Has reports whether all types of other are in t.
func (t FilterTypes) Has(other FilterTypes) bool {
	return other != 0 && t&other == other
}

// Names returns the names of the types in t, in the order blocking, whitelist, elemhide.
func (t FilterTypes) Names() []string {
	var names []string
	for _, ft := range filterTypeNames {
		if t&ft.bit != 0 {
			names = append(names, ft.name)
		}
	}
	return names
}

func (t FilterTypes) String() string {
	return strings.Join(t.Names(), " ")
}
