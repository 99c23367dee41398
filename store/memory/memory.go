// Package memory provides an in-memory Persistence implementation.
package memory

import (
	"context"
	"encoding/json"
	"sync"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu     sync.RWMutex
	values map[string]json.RawMessage

	// setErr, when non-nil, makes every Set fail. Tests use this to
	// exercise persistence-failure handling.
	setErr error
}

func New() *Store {
	return &Store{values: make(map[string]json.RawMessage)}
}

// Get returns the stored documents for the requested keys. Missing keys
// are simply absent from the result.
func (s *Store) Get(_ context.Context, keys []string) (map[string]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		if raw, ok := s.values[key]; ok {
			copied := make(json.RawMessage, len(raw))
			copy(copied, raw)
			result[key] = copied
		}
	}
	return result, nil
}

// Set marshals value and stores it under key.
func (s *Store) Set(_ context.Context, key string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.values[key] = raw
	return nil
}

// FailWith makes subsequent Set calls fail with err. Pass nil to restore
// normal behavior.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErr = err
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Raw returns the stored document for key, if any.
func (s *Store) Raw(key string) (json.RawMessage, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	raw, ok := s.values[key]
	return raw, ok
}
