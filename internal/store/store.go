// Package store provides the small key-value persistence layer behind the
// admin configuration surface (access token and its creation stamp).
package store

import (
	"context"
	"sync"
)

// KV is a minimal key-value store. Get returns ok=false for missing keys.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Memory is an in-process KV, used when no Redis URL is configured and in
// tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemory allocates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}
