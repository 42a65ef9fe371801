package kvstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/weo-soft/poeData-sub000/resource"
)

// Memory is an in-memory Store implementation.
// It keeps values in a map without any filesystem dependency.
// Thread-safe for concurrent reads and writes.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
	rc     *resource.Controller
}

// NewMemory creates a new in-memory store.
// If rc is non-nil, stored bytes are reserved against its quota and a Put
// that would exceed the quota returns ErrQuotaExceeded.
func NewMemory(rc *resource.Controller) *Memory {
	return &Memory{
		values: make(map[string][]byte),
		rc:     rc,
	}
}

// Get returns the value stored under key.
func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.values[key]
	if !ok {
		return nil, ErrNotFound
	}

	// Return a copy to prevent external mutation.
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied, nil
}

// Put stores value under key atomically.
func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	oldSize := int64(len(m.values[key]))
	newSize := int64(len(value))
	if newSize > oldSize {
		if !m.rc.TryReserve(newSize - oldSize) {
			return ErrQuotaExceeded
		}
	} else if oldSize > newSize {
		m.rc.Release(oldSize - newSize)
	}

	// Copy to prevent external mutation.
	copied := make([]byte, len(value))
	copy(copied, value)
	m.values[key] = copied
	return nil
}

// Delete removes the value stored under key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if data, ok := m.values[key]; ok {
		m.rc.Release(int64(len(data)))
		delete(m.values, key)
	}
	return nil
}

// List returns all keys with the given prefix, sorted.
func (m *Memory) List(_ context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []string
	for key := range m.values {
		if prefix == "" || strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.values)
}

// Close releases the store's quota reservation.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key, data := range m.values {
		m.rc.Release(int64(len(data)))
		delete(m.values, key)
	}
	return nil
}
