package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// MemoryStore is an in-process cache layer with per-entry expiry
type MemoryStore struct {
	items *gocache.Cache
}

// NewMemoryStore creates a memory layer; ttl 0 keeps entries until evicted explicitly
func NewMemoryStore(ttl, cleanupInterval time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = gocache.NoExpiration
	}
	return &MemoryStore{items: gocache.New(ttl, cleanupInterval)}
}

// Get returns a copy of the cached value
func (m *MemoryStore) Get(key string) ([]byte, bool) {
	v, ok := m.items.Get(key)
	if !ok {
		return nil, false
	}
	return append([]byte(nil), v.([]byte)...), true
}

// Set stores a copy of value. ttl 0 uses the store default.
func (m *MemoryStore) Set(key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = gocache.DefaultExpiration
	}
	m.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

// Delete removes one entry
func (m *MemoryStore) Delete(key string) error {
	m.items.Delete(key)
	return nil
}

// Clear removes every entry
func (m *MemoryStore) Clear() error {
	m.items.Flush()
	return nil
}

// Len returns the number of entries, including expired ones not yet cleaned up
func (m *MemoryStore) Len() int {
	return m.items.ItemCount()
}
