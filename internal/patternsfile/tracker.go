package patternsfile

import (
	"strings"
	"sync/atomic"

	"github.com/anfragment/zen-subscriptions/internal/notifier"
)

// Tracker records whether any subscription or filter changed since it was last cleared,
// so that the patterns file is only rewritten when needed.
type Tracker struct {
	n     *notifier.Notifier
	id    notifier.ListenerID
	dirty atomic.Bool
}

// NewTracker starts tracking changes published on n.
func NewTracker(n *notifier.Notifier) *Tracker {
	t := &Tracker{n: n}
	t.id = n.AddListener(t.onChange)
	return t
}

func (t *Tracker) onChange(topic notifier.Topic, _ any, _ ...any) {
	if strings.HasPrefix(string(topic), "subscription.") || strings.HasPrefix(string(topic), "filter.") {
		t.dirty.Store(true)
	}
}

// Dirty reports whether a change was observed since the last Clear.
func (t *Tracker) Dirty() bool {
	return t.dirty.Load()
}

// MarkDirty records a change that is not published as a notification, such as adding a subscription.
func (t *Tracker) MarkDirty() {
	t.dirty.Store(true)
}

func (t *Tracker) Clear() {
	t.dirty.Store(false)
}

// Close stops tracking.
func (t *Tracker) Close() {
	t.n.RemoveListener(t.id)
}
