package patternsfile

import (
	"log"
	"strings"

	"github.com/anfragment/zen-subscriptions/internal/notifier"
	"github.com/anfragment/zen-subscriptions/internal/storage"
	"github.com/anfragment/zen-subscriptions/internal/subscription"
)

// Import adds the subscriptions stored in the file at path to reg and returns handles to them,
// which the caller must release. Subscriptions already live in reg are left untouched and skipped.
func Import(path string, reg *subscription.Registry) ([]*subscription.Subscription, error) {
	scratch := subscription.NewRegistry(notifier.New())
	loaded, err := Load(path, scratch)
	if err != nil {
		return nil, err
	}
	defer Release(loaded)

	parser := storage.NewParser(reg)
	defer parser.Close()

	for _, s := range loaded {
		if reg.Known(s.URL()) {
			log.Printf("import: skipping existing subscription %s", s.URL())
			continue
		}
		for _, line := range strings.Split(storage.SerializeSubscription(s), "\n") {
			parser.Process(line)
		}
	}
	parser.Finalize()

	imported := make([]*subscription.Subscription, 0, parser.SubscriptionCount())
	for i := 0; i < parser.SubscriptionCount(); i++ {
		imported = append(imported, parser.SubscriptionAt(i))
	}
	return imported, nil
}
