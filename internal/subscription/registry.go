package subscription

import (
	"sort"
	"strings"
	"sync"

	"github.com/anfragment/zen-subscriptions/internal/filter"
	"github.com/anfragment/zen-subscriptions/internal/notifier"
	"github.com/google/uuid"
)

// userPrefix is the prefix of identifiers synthesized for user-defined subscriptions.
const userPrefix = "~user~"

// entry is the canonical storage of a subscription, shared by all handles obtained for its URL.
type entry struct {
	url        string
	kind       Kind
	title      string
	fixedTitle bool
	disabled   bool
	filters    []*filter.Filter
	// defaults is only meaningful for special subscriptions.
	defaults FilterTypes
	// download is nil for special subscriptions.
	download *downloadState

	refs    int
	evicted bool
}

// Registry is an identity map from subscription URLs to subscriptions.
// There is at most one live subscription per URL; it stays alive as long as
// at least one handle obtained through FromURL or Retain has not been released.
//
// Safe for concurrent use. Every mutation of a subscription and the
// notification describing it happen within a single critical section, so
// listeners observe changes in the order they were made. Listeners must not
// mutate subscriptions of the same registry from inside a callback.
type Registry struct {
	// writeMu serializes mutations together with their notifications.
	writeMu sync.Mutex
	// mu guards entries and the state they hold.
	mu       sync.RWMutex
	entries  map[string]*entry
	notifier *notifier.Notifier
}

// Default is the process-wide registry. It publishes on notifier.Default.
var Default = NewRegistry(nil)

// NewRegistry creates an empty registry publishing changes on n.
// If n is nil, notifier.Default is used.
func NewRegistry(n *notifier.Notifier) *Registry {
	if n == nil {
		n = notifier.Default
	}
	return &Registry{
		entries:  make(map[string]*entry),
		notifier: n,
	}
}

// Notifier returns the notifier the registry publishes on.
func (r *Registry) Notifier() *notifier.Notifier {
	return r.notifier
}

// FromURL returns a handle to the subscription identified by url, creating it if necessary.
// URLs starting with "~" identify special subscriptions, everything else is downloadable.
// An empty url creates a new special subscription with a unique "~user~" identifier.
//
// Every call adds a reference that must be dropped with Release.
func (r *Registry) FromURL(url string) *Subscription {
	url = normalizeURL(url)

	r.mu.Lock()
	defer r.mu.Unlock()

	if url == "" {
		url = r.synthesizeURL()
	}

	e, ok := r.entries[url]
	if !ok {
		e = newEntry(url)
		r.entries[url] = e
	}
	return r.retain(e)
}

// Len returns the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.entries)
}

// Known reports whether a live subscription exists for url.
func (r *Registry) Known(url string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.entries[normalizeURL(url)]
	return ok
}

// Subscriptions returns new handles to all live subscriptions, ordered by URL.
// The caller must release every returned handle.
func (r *Registry) Subscriptions() []*Subscription {
	r.mu.Lock()
	defer r.mu.Unlock()

	urls := make([]string, 0, len(r.entries))
	for url := range r.entries {
		urls = append(urls, url)
	}
	sort.Strings(urls)

	subs := make([]*Subscription, 0, len(urls))
	for _, url := range urls {
		subs = append(subs, r.retain(r.entries[url]))
	}
	return subs
}

// retain must be called with r.mu held.
func (r *Registry) retain(e *entry) *Subscription {
	e.refs++
	return &Subscription{reg: r, e: e}
}

func (r *Registry) release(e *entry) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.refs--
	if e.refs > 0 {
		return
	}
	delete(r.entries, e.url)
	*e = entry{evicted: true}
}

// synthesizeURL must be called with r.mu held.
func (r *Registry) synthesizeURL() string {
	for {
		url := userPrefix + uuid.NewString()
		if _, ok := r.entries[url]; !ok {
			return url
		}
	}
}

func newEntry(url string) *entry {
	e := &entry{url: url, kind: KindOf(url)}
	if e.kind == KindDownloadable {
		e.download = &downloadState{}
	}
	return e
}

// KindOf returns the kind of the subscription FromURL would create for url.
// An empty url yields a new "~user~" subscription, so it is special.
func KindOf(url string) Kind {
	url = normalizeURL(url)
	if url == "" || strings.HasPrefix(url, "~") {
		return KindSpecial
	}
	return KindDownloadable
}

func normalizeURL(url string) string {
	return strings.TrimSpace(url)
}

// FromURL returns a handle from the default registry.
func FromURL(url string) *Subscription {
	return Default.FromURL(url)
}
