package identity

import (
	"context"
	"sync"
)

type memoryStore struct {
	mu   sync.RWMutex
	data []byte
}

// NewMemoryStore builds an in-process identity store for testing and
// one-shot runs.
func NewMemoryStore() Store {
	return &memoryStore{}
}

func (s *memoryStore) Load(_ context.Context) (Identity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.data == nil {
		return Identity{}, ErrNotLoggedIn
	}
	return decode(s.data)
}

func (s *memoryStore) Save(_ context.Context, id Identity) error {
	data, err := encode(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return nil
}

func (s *memoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}
