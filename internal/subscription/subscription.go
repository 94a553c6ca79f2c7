// Package subscription implements filter-list subscriptions and the registry that owns them.
package subscription

import (
	"fmt"
	"sync/atomic"

	"github.com/anfragment/zen-subscriptions/internal/filter"
	"github.com/anfragment/zen-subscriptions/internal/notifier"
)

// Kind is the variant of a subscription.
type Kind int

const (
	// KindDownloadable subscriptions are fetched from a remote source and carry download metadata.
	KindDownloadable Kind = iota
	// KindSpecial subscriptions are user-defined or built-in lists, identified by a "~" prefix.
	KindSpecial
)

func (k Kind) String() string {
	switch k {
	case KindSpecial:
		return "special"
	case KindDownloadable:
		return "downloadable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Subscription is a handle to a subscription owned by a Registry.
// All handles for the same URL share the same state.
//
// A handle holds one reference. It must be released exactly once, after which it must not be used.
type Subscription struct {
	reg      *Registry
	e        *entry
	released atomic.Bool
}

// Retain returns a new handle to the same subscription, adding a reference.
func (s *Subscription) Retain() *Subscription {
	s.mustBeLive()

	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	return s.reg.retain(s.e)
}

// Release drops the reference held by the handle. Releasing the last
// reference evicts the subscription from its registry and resets its state.
// Subsequent calls on the same handle are no-ops.
func (s *Subscription) Release() {
	if s.released.Swap(true) {
		return
	}
	s.reg.release(s.e)
}

// Same reports whether s and other refer to the same subscription.
func (s *Subscription) Same(other *Subscription) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.e == other.e
}

// Registry returns the registry owning the subscription.
func (s *Subscription) Registry() *Registry {
	return s.reg
}

func (s *Subscription) String() string {
	return s.URL()
}

// URL returns the identifier of the subscription.
func (s *Subscription) URL() string {
	return read(s, func(e *entry) string { return e.url })
}

// Kind returns the variant of the subscription.
func (s *Subscription) Kind() Kind {
	return read(s, func(e *entry) Kind { return e.kind })
}

// Title returns the title of the subscription, or an empty string if it is unset.
func (s *Subscription) Title() string {
	return read(s, func(e *entry) string { return e.title })
}

// DisplayTitle returns the title of the subscription, falling back to its URL.
func (s *Subscription) DisplayTitle() string {
	return read(s, func(e *entry) string {
		if e.title == "" {
			return e.url
		}
		return e.title
	})
}

// SetTitle sets the title. An empty title unsets it.
func (s *Subscription) SetTitle(title string) {
	set(s, notifier.SubscriptionTitle, func(e *entry) *string { return &e.title }, title)
}

// FixedTitle reports whether the title is protected from being overwritten by downloaded metadata.
func (s *Subscription) FixedTitle() bool {
	return read(s, func(e *entry) bool { return e.fixedTitle })
}

func (s *Subscription) SetFixedTitle(fixedTitle bool) {
	set(s, notifier.SubscriptionFixedTitle, func(e *entry) *bool { return &e.fixedTitle }, fixedTitle)
}

// Disabled reports whether the subscription is disabled.
func (s *Subscription) Disabled() bool {
	return read(s, func(e *entry) bool { return e.disabled })
}

func (s *Subscription) SetDisabled(disabled bool) {
	set(s, notifier.SubscriptionDisabled, func(e *entry) *bool { return &e.disabled }, disabled)
}

// FilterCount returns the number of filters in the subscription.
func (s *Subscription) FilterCount() int {
	return read(s, func(e *entry) int { return len(e.filters) })
}

// FilterAt returns the filter at index, or nil if index is out of range.
func (s *Subscription) FilterAt(index int) *filter.Filter {
	return read(s, func(e *entry) *filter.Filter {
		if index < 0 || index >= len(e.filters) {
			return nil
		}
		return e.filters[index]
	})
}

// IndexOfFilter returns the index of the first occurrence of f, or -1 if the subscription does not contain it.
func (s *Subscription) IndexOfFilter(f *filter.Filter) int {
	return read(s, func(e *entry) int {
		for i, existing := range e.filters {
			if filter.Equal(existing, f) {
				return i
			}
		}
		return -1
	})
}

// Filters returns a copy of the filter list.
func (s *Subscription) Filters() []*filter.Filter {
	return read(s, func(e *entry) []*filter.Filter {
		return append([]*filter.Filter(nil), e.filters...)
	})
}

// InsertFilterAt inserts f at index. The index is clamped to [0, FilterCount()].
// Duplicates are allowed. It panics if f is nil, which is what filter.FromText returns for empty text.
func (s *Subscription) InsertFilterAt(f *filter.Filter, index int) {
	if f == nil {
		panic("subscription: insert of nil filter")
	}
	s.mustBeLive()

	r := s.reg
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	if index < 0 {
		index = 0
	}
	if index > len(s.e.filters) {
		index = len(s.e.filters)
	}
	s.e.filters = append(s.e.filters, nil)
	copy(s.e.filters[index+1:], s.e.filters[index:])
	s.e.filters[index] = f
	r.mu.Unlock()

	r.notifier.Emit(notifier.FilterAdded, f, s, index)
}

// RemoveFilterAt removes the filter at index.
// It panics if index is out of range.
func (s *Subscription) RemoveFilterAt(index int) {
	s.mustBeLive()

	r := s.reg
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	if index < 0 || index >= len(s.e.filters) {
		count := len(s.e.filters)
		r.mu.Unlock()
		panic(fmt.Sprintf("subscription: remove of filter %d out of range [0:%d]", index, count))
	}
	f := s.e.filters[index]
	s.e.filters = append(s.e.filters[:index:index], s.e.filters[index+1:]...)
	r.mu.Unlock()

	r.notifier.Emit(notifier.FilterRemoved, f, s, index)
}

// ReplaceFilters replaces the whole filter list, e.g. after a download.
// It emits a single notifier.SubscriptionUpdated carrying the previous filters, unless the lists are equal.
// It panics if any element is nil.
func (s *Subscription) ReplaceFilters(filters []*filter.Filter) {
	for _, f := range filters {
		if f == nil {
			panic("subscription: replace with nil filter")
		}
	}
	s.mustBeLive()

	r := s.reg
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	previous := s.e.filters
	if sameFilters(previous, filters) {
		r.mu.Unlock()
		return
	}
	s.e.filters = append([]*filter.Filter(nil), filters...)
	r.mu.Unlock()

	r.notifier.Emit(notifier.SubscriptionUpdated, s, previous)
}

func sameFilters(a, b []*filter.Filter) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !filter.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func (s *Subscription) mustBeLive() {
	if s.released.Load() {
		panic("subscription: use of released handle")
	}
}

// read runs get on the subscription state under the registry read lock.
func read[T any](s *Subscription, get func(e *entry) T) T {
	s.mustBeLive()

	s.reg.mu.RLock()
	defer s.reg.mu.RUnlock()

	return get(s.e)
}

// set stores value in the field returned by field and emits topic, unless the field already holds value.
func set[T comparable](s *Subscription, topic notifier.Topic, field func(e *entry) *T, value T) {
	s.mustBeLive()

	r := s.reg
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.mu.Lock()
	ptr := field(s.e)
	if *ptr == value {
		r.mu.Unlock()
		return
	}
	*ptr = value
	r.mu.Unlock()

	r.notifier.Emit(topic, s)
}
