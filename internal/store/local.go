package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// LocalStore persists all collections into one JSON file. This is the
// durable local source of truth; the remote store only mirrors it.
type LocalStore struct {
	mu   sync.Mutex
	path string
	docs map[Collection]json.RawMessage
}

// OpenLocalStore loads (or creates) the store file at path.
func OpenLocalStore(path string) (*LocalStore, error) {
	s := &LocalStore{
		path: path,
		docs: make(map[Collection]json.RawMessage),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
				return nil, fmt.Errorf("create data directory: %w", err)
			}
			return s, s.flush()
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	if err := json.Unmarshal(data, &s.docs); err != nil {
		return nil, fmt.Errorf("parse store file %s: %w", path, err)
	}
	if s.docs == nil {
		s.docs = make(map[Collection]json.RawMessage)
	}
	return s, nil
}

func (s *LocalStore) Load(_ context.Context, c Collection, out any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.docs[c]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode collection %s: %w", c, err)
	}
	return nil
}

func (s *LocalStore) Save(_ context.Context, c Collection, doc any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", c, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[c] = raw
	return s.flush()
}

func (s *LocalStore) Close() error { return nil }

// flush writes the whole file; caller holds the lock.
func (s *LocalStore) flush() error {
	data, err := json.MarshalIndent(s.docs, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}
