package cache

import (
	"errors"
	"time"
)

// LayeredStore checks memory before disk and promotes disk hits to memory
type LayeredStore struct {
	memory Store
	disk   Store
}

// NewLayeredStore combines a memory layer and a disk layer
func NewLayeredStore(memory, disk Store) *LayeredStore {
	return &LayeredStore{memory: memory, disk: disk}
}

// Get returns the first hit, memory first
func (l *LayeredStore) Get(key string) ([]byte, bool) {
	if v, ok := l.memory.Get(key); ok {
		return v, true
	}

	if v, ok := l.disk.Get(key); ok {
		_ = l.memory.Set(key, v, 0)
		return v, true
	}

	return nil, false
}

// Set writes both layers
func (l *LayeredStore) Set(key string, value []byte, ttl time.Duration) error {
	if err := l.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return l.disk.Set(key, value, ttl)
}

// Delete removes the key from both layers
func (l *LayeredStore) Delete(key string) error {
	return errors.Join(l.memory.Delete(key), l.disk.Delete(key))
}

// Clear empties both layers
func (l *LayeredStore) Clear() error {
	return errors.Join(l.memory.Clear(), l.disk.Clear())
}
