package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MemoryStore keeps collections in process memory. Used by tests and
// as the zero-setup default before a data directory is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[Collection][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[Collection][]byte)}
}

func (s *MemoryStore) Load(_ context.Context, c Collection, out any) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	raw, ok := s.docs[c]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode collection %s: %w", c, err)
	}
	return nil
}

func (s *MemoryStore) Save(_ context.Context, c Collection, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[c] = raw
	return nil
}

func (s *MemoryStore) Close() error { return nil }
