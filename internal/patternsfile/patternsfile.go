// Package patternsfile persists subscriptions to the patterns file on disk.
package patternsfile

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anfragment/zen-subscriptions/internal/storage"
	"github.com/anfragment/zen-subscriptions/internal/subscription"
	"github.com/facebookgo/atomicfile"
)

// maxLineSize bounds a single line of the patterns file. Some filters are very long.
const maxLineSize = 1024 * 1024

// Save atomically replaces the file at path with the serialized subscriptions.
func Save(path string, subs []*subscription.Subscription) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}

	serializer := storage.NewSerializer()
	for _, s := range subs {
		serializer.Serialize(s)
	}

	f, err := atomicfile.New(path, 0644)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	if _, err := serializer.WriteTo(f); err != nil {
		f.Abort()
		return fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("commit file: %w", err)
	}
	return nil
}

// Load parses the file at path into reg and returns handles to the parsed subscriptions,
// which the caller must release. A missing file yields no subscriptions.
func Load(path string, reg *subscription.Registry) ([]*subscription.Subscription, error) {
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	parser := storage.NewParser(reg)
	defer parser.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for scanner.Scan() {
		parser.Process(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	parser.Finalize()

	subs := make([]*subscription.Subscription, 0, parser.SubscriptionCount())
	for i := 0; i < parser.SubscriptionCount(); i++ {
		subs = append(subs, parser.SubscriptionAt(i))
	}
	return subs, nil
}

// Release releases every handle in subs.
func Release(subs []*subscription.Subscription) {
	for _, s := range subs {
		s.Release()
	}
}
