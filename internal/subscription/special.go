package subscription

import "github.com/anfragment/zen-subscriptions/internal/filter"

// Special is the view of a special subscription, such as the user's own filters.
type Special struct {
	*Subscription
}

// AsSpecial returns the special view of s, or nil if s is not a special subscription.
func (s *Subscription) AsSpecial() *Special {
	if s.Kind() != KindSpecial {
		return nil
	}
	return &Special{s}
}

// Defaults returns the filter types the subscription is the default handler for.
func (s *Special) Defaults() FilterTypes {
	return read(s.Subscription, func(e *entry) FilterTypes { return e.defaults })
}

// IsGeneric reports whether the subscription is not the default handler for any filter type.
func (s *Special) IsGeneric() bool {
	return s.Defaults() == 0
}

// IsDefaultFor reports whether the subscription is the default handler for the type of f.
func (s *Special) IsDefaultFor(f *filter.Filter) bool {
	return s.Defaults().Has(FilterTypeOf(f))
}

// MakeDefaultFor makes the subscription the default handler for the type of f.
// Filters without a meaningful type, such as comments and invalid filters, are ignored.
func (s *Special) MakeDefaultFor(f *filter.Filter) {
	t := FilterTypeOf(f)
	if t == 0 {
		return
	}
	s.update(func(e *entry) { e.defaults |= t })
}

// SetDefaults replaces the set of default filter types.
func (s *Special) SetDefaults(types FilterTypes) {
	s.update(func(e *entry) { e.defaults = types })
}

func (s *Special) update(fn func(e *entry)) {
	s.mustBeLive()

	r := s.reg
	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	r.mu.Lock()
	defer r.mu.Unlock()

	fn(s.e)
}
