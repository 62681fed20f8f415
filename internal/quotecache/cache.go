// Package quotecache memoizes computed loan quotes. A cache entry is never
// a persisted application record; losing the cache only costs recomputation.
package quotecache

import "sync"

// Cache stores serialized quotes by key.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Memory is a process-local Cache, also used as the test double.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory creates an empty in-memory cache.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

// Get returns the cached value for key.
func (m *Memory) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok
}

// Set stores value under key.
func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
