package memory

import (
	"context"
	"sync"

	"github.com/kmicah/cardtable-go/internal/model"
	"github.com/kmicah/cardtable-go/internal/storage"
)

// Storage is an in-memory credential store. The duplicate check and insert
// happen under one lock so concurrent registrations of the same username
// cannot both succeed.
type Storage struct {
	mu    sync.RWMutex
	users map[string]*model.User
}

// New creates a new in-memory credential store.
func New() *Storage {
	return &Storage{
		users: make(map[string]*model.User),
	}
}

// Ensure Storage implements the interface
var _ storage.CredentialStore = (*Storage)(nil)

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return model.ErrDuplicateUsername
	}
	u := *user
	s.users[user.Username] = &u
	return nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[username]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	u := *user
	return &u, nil
}

func (s *Storage) DeleteUser(ctx context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, username)
	return nil
}
