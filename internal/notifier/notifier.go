// Package notifier implements a synchronous publish/subscribe bus for subscription and filter changes.
package notifier

import (
	"log"
	"sync"
)

// Topic identifies a notification category. Topics are dotted strings such as "subscription.title".
type Topic string

const (
	SubscriptionTitle           Topic = "subscription.title"
	SubscriptionFixedTitle      Topic = "subscription.fixedTitle"
	SubscriptionDisabled        Topic = "subscription.disabled"
	SubscriptionHomepage        Topic = "subscription.homepage"
	SubscriptionLastCheck       Topic = "subscription.lastCheck"
	SubscriptionLastDownload    Topic = "subscription.lastDownload"
	SubscriptionLastSuccess     Topic = "subscription.lastSuccess"
	SubscriptionSoftExpiration  Topic = "subscription.softExpiration"
	SubscriptionExpires         Topic = "subscription.expires"
	SubscriptionDownloadStatus  Topic = "subscription.downloadStatus"
	SubscriptionErrors          Topic = "subscription.errors"
	SubscriptionVersion         Topic = "subscription.version"
	SubscriptionRequiredVersion Topic = "subscription.requiredVersion"
	// SubscriptionUpdated is emitted when the filters of a subscription are replaced wholesale.
	SubscriptionUpdated Topic = "subscription.updated"

	FilterAdded   Topic = "filter.added"
	FilterRemoved Topic = "filter.removed"
)

// Listener receives every notification emitted after it has been registered.
type Listener func(topic Topic, subject any, args ...any)

// ListenerID identifies a registered listener.
type ListenerID uint64

type registration struct {
	id       ListenerID
	listener Listener
}

// Notifier fans notifications out to its listeners.
//
// Safe for concurrent use.
type Notifier struct {
	mu        sync.RWMutex
	listeners []registration
	nextID    ListenerID
}

// Default is the process-wide notifier.
var Default = New()

func New() *Notifier {
	return &Notifier{}
}

// AddListener registers l and returns an ID that can be passed to RemoveListener.
func (n *Notifier) AddListener(l Listener) ListenerID {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.nextID++
	n.listeners = append(n.listeners, registration{id: n.nextID, listener: l})
	return n.nextID
}

// RemoveListener deregisters the listener with the given ID. Unknown IDs are ignored.
func (n *Notifier) RemoveListener(id ListenerID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for i, r := range n.listeners {
		if r.id == id {
			// Emit iterates over a snapshot, so the backing array must not be modified in place.
			listeners := make([]registration, 0, len(n.listeners)-1)
			listeners = append(listeners, n.listeners[:i]...)
			n.listeners = append(listeners, n.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered listeners.
func (n *Notifier) ListenerCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()

	return len(n.listeners)
}

// Reset removes all listeners.
func (n *Notifier) Reset() {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.listeners = nil
}

// Emit synchronously invokes every listener registered at the time of the call, in registration order.
// Listeners added or removed while Emit is running only affect subsequent notifications.
// A panicking listener is logged and does not prevent the remaining listeners from running.
func (n *Notifier) Emit(topic Topic, subject any, args ...any) {
	n.mu.RLock()
	listeners := n.listeners
	n.mu.RUnlock()

	for _, r := range listeners {
		n.invoke(r, topic, subject, args)
	}
}

func (n *Notifier) invoke(r registration, topic Topic, subject any, args []any) {
	defer func() {
		if err := recover(); err != nil {
			log.Printf("listener %d panicked on %q: %v", r.id, topic, err)
		}
	}()
	r.listener(topic, subject, args...)
}

// AddListener registers l on the default notifier.
func AddListener(l Listener) ListenerID {
	return Default.AddListener(l)
}

// RemoveListener deregisters a listener from the default notifier.
func RemoveListener(id ListenerID) {
	Default.RemoveListener(id)
}

// Emit emits a notification on the default notifier.
func Emit(topic Topic, subject any, args ...any) {
	Default.Emit(topic, subject, args...)
}
