package presence

import (
	"context"
	"sync"
)

// Store maps online user ids to their realtime connection ids. It replaces
// a process-global map so the API can run as several instances.
type Store interface {
	Set(ctx context.Context, userID, connID string) error
	Get(ctx context.Context, userID string) (string, bool, error)
	Remove(ctx context.Context, userID string) error
	// RemoveConnection drops whichever user is bound to connID.
	RemoveConnection(ctx context.Context, connID string) error
	Online(ctx context.Context) ([]string, error)
}

// MemoryStore is a single-process Store.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]string)}
}

func (s *MemoryStore) Set(_ context.Context, userID, connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = connID
	return nil
}

func (s *MemoryStore) Get(_ context.Context, userID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	connID, ok := s.users[userID]
	return connID, ok, nil
}

func (s *MemoryStore) Remove(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, userID)
	return nil
}

func (s *MemoryStore) RemoveConnection(_ context.Context, connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for userID, c := range s.users {
		if c == connID {
			delete(s.users, userID)
		}
	}
	return nil
}

func (s *MemoryStore) Online(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.users))
	for userID := range s.users {
		ids = append(ids, userID)
	}
	return ids, nil
}
