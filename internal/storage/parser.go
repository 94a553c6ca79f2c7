package storage

import (
	"errors"
	"log"
	"maps"
	"strings"

	"github.com/anfragment/zen-subscriptions/internal/filter"
	"github.com/anfragment/zen-subscriptions/internal/subscription"
)

type parserState int

const (
	// stateInitial is the preamble before the first section.
	stateInitial parserState = iota
	// stateSubscription collects the url and properties of a [Subscription] section.
	stateSubscription
	// stateFilters appends lines of a [Subscription filters] section to the current subscription.
	stateFilters
	// stateSkip ignores the lines of unknown or orphaned sections.
	stateSkip
)

// Parser reconstructs subscriptions from their serialized form, one line at a time.
//
// Subscriptions are obtained through the registry, so parsing a subscription that is
// already live extends it rather than creating a copy. Property lines are applied through
// the regular setters and emit the same notifications as live changes.
//
// Malformed and unknown lines are ignored. Not safe for concurrent use.
type Parser struct {
	reg   *subscription.Registry
	state parserState

	fileProperties map[string]string
	// pending holds the properties seen before the url of the current section.
	pending []subscription.Property
	// current is the subscription under construction.
	current       *subscription.Subscription
	subscriptions []*subscription.Subscription
}

// NewParser creates a parser creating subscriptions in reg.
// If reg is nil, subscription.Default is used.
func NewParser(reg *subscription.Registry) *Parser {
	if reg == nil {
		reg = subscription.Default
	}
	return &Parser{
		reg:            reg,
		fileProperties: make(map[string]string),
	}
}

// Process consumes a single line of input.
func (p *Parser) Process(line string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	if name, ok := sectionName(line); ok {
		p.enterSection(name)
		return
	}

	switch p.state {
	case stateInitial:
		p.processPreamble(line)
	case stateSubscription:
		p.processProperty(line)
	case stateFilters:
		f := filter.FromText(UnescapeFilter(line))
		p.current.InsertFilterAt(f, p.current.FilterCount())
	case stateSkip:
	}
}

// Finalize signals the end of input and commits the subscription under construction.
func (p *Parser) Finalize() {
	p.commit()
	p.state = stateInitial
}

// SubscriptionCount returns the number of subscriptions parsed so far.
func (p *Parser) SubscriptionCount() int {
	return len(p.subscriptions)
}

// SubscriptionAt returns a new handle to the subscription parsed at index, or nil if index is out of range.
// The caller must release the returned handle.
func (p *Parser) SubscriptionAt(index int) *subscription.Subscription {
	if index < 0 || index >= len(p.subscriptions) {
		return nil
	}
	return p.subscriptions[index].Retain()
}

// FileProperties returns the key-value pairs of the preamble, such as the format version.
func (p *Parser) FileProperties() map[string]string {
	return maps.Clone(p.fileProperties)
}

// Close releases the references held by the parser.
func (p *Parser) Close() {
	if p.current != nil {
		p.current.Release()
		p.current = nil
	}
	for _, s := range p.subscriptions {
		s.Release()
	}
	p.subscriptions = nil
	p.pending = nil
	p.state = stateInitial
}

func (p *Parser) enterSection(name string) {
	switch strings.ToLower(name) {
	case "subscription":
		p.commit()
		p.state = stateSubscription
	case "subscription filters":
		if p.state == stateSubscription && p.current != nil {
			p.state = stateFilters
			return
		}
		p.commit()
		p.state = stateSkip
	default:
		p.commit()
		p.state = stateSkip
	}
}

func (p *Parser) processPreamble(line string) {
	if strings.HasPrefix(line, "#") {
		return
	}
	if key, value, ok := splitProperty(line); ok {
		p.fileProperties[key] = value
	}
}

func (p *Parser) processProperty(line string) {
	key, value, ok := splitProperty(line)
	if !ok {
		return
	}

	if key == "url" {
		if p.current != nil || value == "" {
			return
		}
		p.current = p.reg.FromURL(value)
		for _, prop := range p.pending {
			p.apply(prop.Key, prop.Value)
		}
		p.pending = nil
		return
	}

	if p.current == nil {
		p.pending = append(p.pending, subscription.Property{Key: key, Value: value})
		return
	}
	p.apply(key, value)
}

func (p *Parser) apply(key, value string) {
	err := p.current.SetProperty(key, value)
	switch {
	case err == nil:
	case errors.Is(err, subscription.ErrUnknownProperty), errors.Is(err, subscription.ErrWrongKind):
		// Written by a newer version or meaningless for this kind; drop it.
	default:
		log.Printf("ignoring property of %s: %v", p.current.URL(), err)
	}
}

// commit moves the subscription under construction to the parsed subscriptions.
func (p *Parser) commit() {
	if p.current != nil {
		p.subscriptions = append(p.subscriptions, p.current)
		p.current = nil
	} else if p.state == stateSubscription {
		log.Printf("dropping subscription section without url")
	}
	p.pending = nil
}

func sectionName(line string) (string, bool) {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}
	return line[1 : len(line)-1], true
}

func splitProperty(line string) (key, value string, ok bool) {
	key, value, ok = strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	return strings.TrimSpace(key), strings.TrimSpace(value), true
}
