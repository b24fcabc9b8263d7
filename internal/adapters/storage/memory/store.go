// Package memory provides a process-lifetime key-value store.
// It backs session-scoped state such as the last viewed quote.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/jsamuelsen/quote-keeper/internal/domain"
	"github.com/jsamuelsen/quote-keeper/internal/ports"
)

// Store is a concurrency-safe in-memory ports.KeyValueStore.
type Store struct {
	mu     sync.RWMutex
	values map[string][]byte
}

var _ ports.KeyValueStore = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string][]byte)}
}

// Get returns a copy of the value stored under key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	if !ok {
		return nil, domain.NewNotFoundError("key", key)
	}

	return append([]byte(nil), v...), nil
}

// Set stores a copy of value under key.
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)

	return nil
}

// Delete removes key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)

	return nil
}

// Snapshot returns a copy of every key and value.
func (s *Store) Snapshot() map[string][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.values)
}
