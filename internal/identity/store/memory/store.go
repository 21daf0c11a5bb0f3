// Package memory provides an in-memory user store for tests and local
// development.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"muniadmin/internal/identity"
	"muniadmin/pkg/platform/sentinel"
)

type Store struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]identity.User
}

func NewStore() *Store {
	return &Store{users: make(map[int64]identity.User)}
}

func (s *Store) Create(_ context.Context, user identity.User) (identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Username, user.Username) {
			return identity.User{}, sentinel.ErrConflict
		}
	}

	s.nextID++
	user.ID = s.nextID
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) GetByID(_ context.Context, id int64) (identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return identity.User{}, sentinel.ErrNotFound
	}
	return user, nil
}

func (s *Store) GetByUsername(_ context.Context, username string) (identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Username, username) {
			return user, nil
		}
	}
	return identity.User{}, sentinel.ErrNotFound
}

func (s *Store) List(_ context.Context) ([]identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]identity.User, 0, len(s.users))
	for _, user := range s.users {
		out = append(out, user)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Update(_ context.Context, user identity.User) (identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[user.ID]
	if !ok {
		return identity.User{}, sentinel.ErrNotFound
	}
	for id, existing := range s.users {
		if id != user.ID && strings.EqualFold(existing.Username, user.Username) {
			return identity.User{}, sentinel.ErrConflict
		}
	}

	user.CreatedAt = current.CreatedAt
	user.UpdatedAt = time.Now()
	s.users[user.ID] = user
	return user, nil
}

func (s *Store) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.users, id)
	return nil
}
