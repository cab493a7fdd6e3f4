package sessionstore

import (
	"context"
	"sync"

	"gopkg.in/yaml.v3"
)

// MemoryStore keeps checkpoints in memory as serialized YAML so that Get
// always hands back an independent copy.
type MemoryStore[T any] struct {
	mu       sync.RWMutex
	sessions map[string][]byte
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore[T any]() *MemoryStore[T] {
	return &MemoryStore[T]{sessions: make(map[string][]byte)}
}

func (m *MemoryStore[T]) Get(ctx context.Context, sessionID string) (T, error) {
	var zero T
	m.mu.RLock()
	data, ok := m.sessions[sessionID]
	m.mu.RUnlock()
	if !ok {
		return zero, ErrNotFound
	}
	var state T
	if err := yaml.Unmarshal(data, &state); err != nil {
		return zero, err
	}
	return state, nil
}

func (m *MemoryStore[T]) Put(ctx context.Context, sessionID string, state T) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.sessions[sessionID] = data
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore[T]) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, sessionID)
	return nil
}

func (m *MemoryStore[T]) List(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids, nil
}
