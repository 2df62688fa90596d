package storage

import (
	"slices"

	"github.com/debemdeboas/inkdraft/internal/cache"
)

// MemoryKV keeps values for the lifetime of the process.
type MemoryKV struct {
	items *cache.Cache[string, []byte]
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: cache.NewCache[string, []byte]()}
}

func (m *MemoryKV) Get(key string) ([]byte, error) {
	value, ok := m.items.Get(key)
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(value), nil
}

func (m *MemoryKV) Set(key string, value []byte) error {
	m.items.Set(key, slices.Clone(value))
	return nil
}

func (m *MemoryKV) Delete(key string) error {
	m.items.Delete(key)
	return nil
}
