package prefs

import (
	"sort"
	"sync"

	"closet-go/internal/closet"
)

// MemoryPrefs is an in-memory closet.Prefs implementation for tests and
// throwaway sessions. Nothing survives the process.
type MemoryPrefs struct {
	mu     sync.Mutex
	values map[string][]byte
}

var _ closet.Prefs = (*MemoryPrefs)(nil)

// NewMemoryPrefs creates an empty in-memory preference store.
func NewMemoryPrefs() *MemoryPrefs {
	return &MemoryPrefs{values: make(map[string][]byte)}
}

func (p *MemoryPrefs) Get(key string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	value, ok := p.values[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (p *MemoryPrefs) Set(key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	p.values[key] = stored
	return nil
}

func (p *MemoryPrefs) Delete(key string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.values, key)
	return nil
}

func (p *MemoryPrefs) Keys() ([]string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	keys := make([]string, 0, len(p.values))
	for key := range p.values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (p *MemoryPrefs) Close() error { return nil }
