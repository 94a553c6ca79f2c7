package cmd

import (
	"fmt"
	"log"

	"github.com/anfragment/zen-subscriptions/internal/logger"
	"github.com/anfragment/zen-subscriptions/internal/notifier"
	"github.com/anfragment/zen-subscriptions/internal/patternsfile"
	"github.com/anfragment/zen-subscriptions/internal/subscription"
)

// session is the registry loaded from the patterns file for the duration of a command.
type session struct {
	path    string
	reg     *subscription.Registry
	subs    []*subscription.Subscription
	tracker *patternsfile.Tracker
}

func openSession(path string) (*session, error) {
	n := notifier.New()
	reg := subscription.NewRegistry(n)

	subs, err := patternsfile.Load(path, reg)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", logger.Redacted(path), err)
	}
	log.Printf("loaded %d subscriptions from %s", len(subs), logger.Redacted(path))

	// Registered after loading so that parsing does not count as a change.
	n.AddListener(logChange)
	return &session{
		path:    path,
		reg:     reg,
		subs:    subs,
		tracker: patternsfile.NewTracker(n),
	}, nil
}

// find returns the loaded subscription with the given URL, or nil. The session keeps ownership.
func (s *session) find(url string) *subscription.Subscription {
	for _, sub := range s.subs {
		if sub.URL() == url {
			return sub
		}
	}
	return nil
}

// findOrCreate returns the subscription with the given URL, adding it to the session if it was not loaded.
func (s *session) findOrCreate(url string) *subscription.Subscription {
	if sub := s.find(url); sub != nil {
		return sub
	}
	sub := s.reg.FromURL(url)
	s.subs = append(s.subs, sub)
	s.tracker.MarkDirty()
	log.Printf("created %s subscription %s", sub.Kind(), sub.URL())
	return sub
}

// save writes the patterns file if anything changed since the session was opened or last saved.
func (s *session) save() error {
	if !s.tracker.Dirty() {
		return nil
	}
	if err := patternsfile.Save(s.path, s.subs); err != nil {
		return fmt.Errorf("save %s: %w", logger.Redacted(s.path), err)
	}
	s.tracker.Clear()
	log.Printf("saved %d subscriptions to %s", len(s.subs), logger.Redacted(s.path))
	return nil
}

// close releases all subscriptions without saving.
func (s *session) close() {
	s.tracker.Close()
	patternsfile.Release(s.subs)
	s.subs = nil
}

func logChange(topic notifier.Topic, subject any, args ...any) {
	switch topic {
	case notifier.FilterAdded, notifier.FilterRemoved:
		log.Printf("%s: %v in %v at %v", topic, subject, args[0], args[1])
	default:
		log.Printf("%s: %v", topic, subject)
	}
}

// withSession runs fn on the session of the patterns file at path.
// Changes are saved only if fn succeeds.
func withSession(path string, fn func(s *session) error) error {
	s, err := openSession(path)
	if err != nil {
		return err
	}
	defer s.close()

	if err := fn(s); err != nil {
		return err
	}
	return s.save()
}
