package storage

import (
	"strconv"
	"sync"
)

// MemoryStore is an in-memory key-value store. It satisfies
// snake.KeyValueStore and is used when no database is available.
// Values are lost when the process exits.
type MemoryStore struct {
	mu   sync.RWMutex      // guards data
	data map[string]string // keyed by slot name
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

// Raise stores value under key when it beats the slot's integer value.
func (m *MemoryStore) Raise(key string, value int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cur := parseCount(m.data[key]); cur >= value {
		return cur, nil
	}
	m.data[key] = strconv.Itoa(value)
	return value, nil
}
