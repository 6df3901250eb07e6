package storage

import "sync"

// Memory is an in-process KV used by tests and as a fallback when no data
// directory is configured. Safe for concurrent use.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(namespace, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[namespace+"\x00"+key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (m *Memory) Set(namespace, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[namespace+"\x00"+key] = stored
	return nil
}

func (m *Memory) Delete(namespace, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, namespace+"\x00"+key)
	return nil
}
