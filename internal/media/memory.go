package media

import (
	"sort"
	"sync"

	"closet-go/internal/closet"
)

// MemoryStore is an in-memory closet.MediaStore implementation for tests.
type MemoryStore struct {
	mu     sync.Mutex
	assets map[string][]byte
}

var _ closet.MediaStore = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory media store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{assets: make(map[string][]byte)}
}

func (s *MemoryStore) Save(name string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.assets[name] = stored
	return nil
}

func (s *MemoryStore) Load(name string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.assets[name]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.assets, name)
	return nil
}

func (s *MemoryStore) List() ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.assets))
	for name := range s.assets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
