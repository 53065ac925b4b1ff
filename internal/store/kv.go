package store

import (
	"errors"
	"sync"
)

// KV is the synchronous key-value storage primitive underneath the cache
// layer. It persists across process restarts (except MemKV) and supports
// enumerating every key so expired entries can be swept.
type KV interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte) error
	Delete(key string)
	Keys() []string
}

// ErrQuotaExceeded is returned by Set when the store is out of space
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// MemKV is an in-process KV used in memory-only mode and in tests.
// Quota, when non-zero, bounds the total stored bytes so tests can
// exercise the quota-exceeded path.
type MemKV struct {
	mu    sync.RWMutex
	data  map[string][]byte
	Quota int
}

func NewMemKV() *MemKV {
	return &MemKV{data: make(map[string][]byte)}
}

func (m *MemKV) Get(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

func (m *MemKV) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Quota > 0 {
		used := 0
		for k, v := range m.data {
			if k == key {
				continue
			}
			used += len(k) + len(v)
		}
		if used+len(key)+len(value) > m.Quota {
			return ErrQuotaExceeded
		}
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	m.data[key] = stored
	return nil
}

func (m *MemKV) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

func (m *MemKV) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}
