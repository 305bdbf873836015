// ABOUTME: In-memory KV implementation for tests
// ABOUTME: Map-backed double with optional per-operation error injection

package storage

import (
	"context"
	"sync"
)

// MemoryKV implements KV with an in-memory map. Safe for concurrent use.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string]string

	// GetErr, SetErr, and DeleteErr are returned by the corresponding
	// operations when non-nil, for error-path testing.
	GetErr    error
	SetErr    error
	DeleteErr error
}

// NewMemoryKV creates an empty in-memory store
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string]string)}
}

func (m *MemoryKV) Get(ctx context.Context, key string) (string, error) {
	if m.GetErr != nil {
		return "", m.GetErr
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryKV) Set(ctx context.Context, key, value string) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryKV) Delete(ctx context.Context, key string) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MemoryKV) Close() error {
	return nil
}
