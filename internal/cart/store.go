package cart

import (
	"context"
	"sync"
)

// Store is the durable key-value backend a Manager persists through.
type Store interface {
	// Load returns the value at key and whether it exists.
	Load(ctx context.Context, key string) (string, bool, error)
	Save(ctx context.Context, key, value string) error
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Load(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Save(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

// MemoryStoreFactory hands each session its own MemoryStore and keeps it
// across evictions, so a reopened session restores its cart.
func MemoryStoreFactory() StoreFactory {
	var mu sync.Mutex
	stores := map[string]*MemoryStore{}
	return func(sessionID string) (Store, error) {
		mu.Lock()
		defer mu.Unlock()
		if st, ok := stores[sessionID]; ok {
			return st, nil
		}
		st := NewMemoryStore()
		stores[sessionID] = st
		return st, nil
	}
}
