package storage

import (
	"context"
	"fmt"
	"sync"

	"linkpress/internal/domain"
	"linkpress/internal/ports"
)

// MemoryStore keeps published items in memory. Used for dry runs, where
// nothing may be persisted, and for tests.
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]domain.PublishedItem
}

var _ ports.PublishedStore = (*MemoryStore)(nil)

// NewMemory builds an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{items: map[string]domain.PublishedItem{}}
}

// IsPublished reports whether the item id was already recorded.
func (m *MemoryStore) IsPublished(ctx context.Context, itemID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.items[itemID]
	return ok, nil
}

// MarkPublished records the item, signalling ErrDuplicateItem on repeats.
func (m *MemoryStore) MarkPublished(ctx context.Context, item domain.PublishedItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.items[item.ItemID]; ok {
		return fmt.Errorf("%w: %s", ports.ErrDuplicateItem, item.ItemID)
	}
	m.items[item.ItemID] = item
	return nil
}

// Get returns the recorded item, if any.
func (m *MemoryStore) Get(itemID string) (domain.PublishedItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[itemID]
	return item, ok
}

// Forget removes an item, mirroring the operator action of deleting a row
// to force a repost.
func (m *MemoryStore) Forget(itemID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, itemID)
}

// Len reports how many items are recorded.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.items)
}
