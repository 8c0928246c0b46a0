package store

import (
	"context"
	"slices"
	"sync"

	"github.com/SpaNb4/open-chat/pkg/events"
)

// memoryStore implements RosterStore for a single instance.
type memoryStore struct {
	mu    sync.RWMutex
	users []events.User
}

// NewMemoryStore creates an empty in-process roster.
func NewMemoryStore() RosterStore {
	return &memoryStore{}
}

func (s *memoryStore) Add(_ context.Context, user events.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(user.UserID) >= 0 {
		return nil
	}
	s.users = append(s.users, user)
	return nil
}

func (s *memoryStore) Remove(_ context.Context, userID string) (events.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(userID)
	if i < 0 {
		return events.User{}, false, nil
	}
	user := s.users[i]
	s.users = slices.Delete(s.users, i, i+1)
	return user, true, nil
}

func (s *memoryStore) List(_ context.Context) ([]events.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users), nil
}

func (s *memoryStore) HasUsername(_ context.Context, username string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.ContainsFunc(s.users, func(u events.User) bool { return u.Username == username }), nil
}

func (s *memoryStore) Close() error { return nil }

func (s *memoryStore) index(userID string) int {
	return slices.IndexFunc(s.users, func(u events.User) bool { return u.UserID == userID })
}
