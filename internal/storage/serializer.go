// Package storage implements the text format subscriptions are persisted in.
//
// A file consists of an optional preamble of comments and file properties, followed by one section per subscription:
//
//	# Adblock Plus preferences
//	version=5
//	[Subscription]
//	url=~user~12345
//	title=My filters
//	defaults= blocking
//	[Subscription filters]
//	||example.com^
//	\[Adblock Plus 2.0]
package storage

import (
	"io"
	"strings"

	"github.com/anfragment/zen-subscriptions/internal/subscription"
)

const (
	// FormatVersion is the version of the format written by Serializer.
	FormatVersion = "5"

	subscriptionSection        = "Subscription"
	subscriptionFiltersSection = "Subscription filters"
)

// SerializeSubscription renders the full state of s. Every line, including the last one, is terminated by "\n".
// Properties holding their default value are omitted, as is the filters section of an empty subscription.
func SerializeSubscription(s *subscription.Subscription) string {
	var b strings.Builder
	writeSubscription(&b, s)
	return b.String()
}

func writeSubscription(b *strings.Builder, s *subscription.Subscription) {
	b.WriteString("[" + subscriptionSection + "]\n")
	b.WriteString("url=" + s.URL() + "\n")
	for _, p := range s.Properties() {
		b.WriteString(p.Key + "=" + p.Value + "\n")
	}

	filters := s.Filters()
	if len(filters) == 0 {
		return
	}
	b.WriteString("[" + subscriptionFiltersSection + "]\n")
	for _, f := range filters {
		b.WriteString(EscapeFilter(f.Text()))
		b.WriteByte('\n')
	}
}

// Serializer accumulates the serialized form of a file of subscriptions.
type Serializer struct {
	b strings.Builder
}

// NewSerializer creates a serializer with the file preamble already written.
func NewSerializer() *Serializer {
	s := &Serializer{}
	s.b.WriteString("# Adblock Plus preferences\n")
	s.b.WriteString("version=" + FormatVersion + "\n")
	return s
}

// Serialize appends the subscription to the output.
func (s *Serializer) Serialize(sub *subscription.Subscription) {
	writeSubscription(&s.b, sub)
}

// Data returns everything serialized so far.
func (s *Serializer) Data() string {
	return s.b.String()
}

// WriteTo writes the serialized data to w.
func (s *Serializer) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.b.String())
	return int64(n), err
}
