package repository

import (
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-process Store used by tests. It keeps the same
// marshaled representation as BadgerStore so corruption handling behaves
// identically.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string, out any) (bool, error) {
	s.mu.RLock()
	data, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return true, decode(key, data, out)
}

func (s *MemoryStore) Set(key string, value any) error {
	return s.SetBatch(map[string]any{key: value})
}

func (s *MemoryStore) SetBatch(entries map[string]any) error {
	encoded := make(map[string][]byte, len(entries))
	for key, value := range entries {
		data, err := encode(value)
		if err != nil {
			return err
		}
		encoded[key] = data
	}
	s.mu.Lock()
	for key, data := range encoded {
		s.data[key] = data
	}
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) List(prefix string, fn func(key string, value []byte) error) error {
	s.mu.RLock()
	keys := make([]string, 0, len(s.data))
	for key := range s.data {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, key := range keys {
		values[i] = s.data[key]
	}
	s.mu.RUnlock()

	for i, key := range keys {
		if err := fn(key, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// Put injects a raw value, bypassing encoding. Tests use it to simulate
// corrupted records.
func (s *MemoryStore) Put(key string, raw []byte) {
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
}

func (s *MemoryStore) Close() error {
	return nil
}
