package keyv

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MapStore is the adapter used when nothing else is configured. It keeps raw
// values in a map and leaves expiry to Keyv.
type MapStore struct {
	mu   sync.RWMutex
	data map[string]any
}

func NewMapStore() *MapStore {
	return &MapStore{
		data: make(map[string]any),
	}
}

func (m *MapStore) Get(_ context.Context, key string) (any, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MapStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MapStore) Delete(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	delete(m.data, key)
	return ok, nil
}

func (m *MapStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]any)
	return nil
}

func (m *MapStore) ClearNamespace(_ context.Context, namespace string) error {
	prefix := NamespacePrefix(namespace)

	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.data {
		if strings.HasPrefix(key, prefix) {
			delete(m.data, key)
		}
	}
	return nil
}

func (m *MapStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func mapStoreFactory(string) (Adapter, error) {
	return NewMapStore(), nil
}
