package advisor

import (
	"context"
	"sync"
)

// memoryStore is an in-memory profile store.
type memoryStore struct {
	mu       sync.RWMutex
	profiles map[string]UserProfile
}

// NewMemoryStore creates a new in-memory profile store.
func NewMemoryStore() ProfileStore {
	return &memoryStore{
		profiles: make(map[string]UserProfile),
	}
}

// GetProfile retrieves a profile by user id.
func (s *memoryStore) GetProfile(ctx context.Context, userID string) (*UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &profile, nil
}

// SaveProfile inserts or replaces a profile.
func (s *memoryStore) SaveProfile(ctx context.Context, profile UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.profiles[profile.UserID] = profile
	return nil
}
