package storage

import (
	"context"
	"sync"
)

// MemoryBackend guarda os blobs num mapa em memória. Usado em testes e execuções efêmeras.
type MemoryBackend struct {
	mu    sync.RWMutex
	items map[string]string
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemoryBackend cria um backend vazio.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{items: make(map[string]string)}
}

func (m *MemoryBackend) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.items[key]
	if !ok {
		return "", ErrKeyNotFound
	}
	return v, nil
}

func (m *MemoryBackend) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items[key] = value
	return nil
}

func (m *MemoryBackend) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.items, key)
	return nil
}

func (m *MemoryBackend) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items = make(map[string]string)
	return nil
}

func (m *MemoryBackend) Ping(ctx context.Context) error { return nil }
