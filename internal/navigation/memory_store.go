package navigation

import (
	"context"
	"sync"
)

// MemoryStore keeps markers in process memory. It serves single-instance
// deployments and runs without Redis.
type MemoryStore struct {
	mu     sync.Mutex
	routes map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{routes: make(map[string]string)}
}

func (s *MemoryStore) Swap(_ context.Context, userID, route string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	previous := s.routes[userID]
	s.routes[userID] = route
	return previous, nil
}

func (s *MemoryStore) Get(_ context.Context, userID string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	route, ok := s.routes[userID]
	return route, ok, nil
}
