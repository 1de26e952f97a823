package util

import (
	"sync"
)

// SafeMap is a string-keyed map safe for concurrent use. Generation
// workers use it to hand results back to the collecting goroutine.
type SafeMap[V any] struct {
	mu   sync.RWMutex
	data map[string]V
}

func NewSafeMap[V any]() *SafeMap[V] {
	return &SafeMap[V]{data: make(map[string]V)}
}

func (m *SafeMap[V]) Set(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
}

func (m *SafeMap[V]) Get(key string) (V, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok
}
