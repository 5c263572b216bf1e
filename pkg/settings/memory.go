package settings

import (
	"context"
	"sync"
)

// MemoryBackend keeps settings in memory, for tests and runs without a database
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryBackend makes an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: map[string]string{}}
}

// GetSetting returns stored value or empty string
func (m *MemoryBackend) GetSetting(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.values[key], nil
}

// SetSetting stores value
func (m *MemoryBackend) SetSetting(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}
