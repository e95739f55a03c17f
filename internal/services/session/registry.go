package session

import (
	"log/slog"
	"sync"

	"github.com/kmicah/cardtable-go/internal/model"
)

// Registry is the process-wide set of logged-in users. It enforces at most
// one active session per username: the membership check and the insert
// happen under one lock, so two connections racing to log in the same user
// cannot both win.
type Registry struct {
	logger *slog.Logger

	mu    sync.RWMutex
	users map[string]*model.User
}

// NewRegistry creates an empty session registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger: logger.With(slog.String("component", "sessions")),
		users:  make(map[string]*model.User),
	}
}

// Login adds a user to the logged-in set. Returns model.ErrAlreadyLoggedIn
// if the username already has an active session.
func (r *Registry) Login(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.Username]; ok {
		return model.ErrAlreadyLoggedIn
	}
	r.users[user.Username] = user
	r.logger.Info("user logged in", slog.String("username", user.Username))
	return nil
}

// Logout removes a user from the logged-in set. Logging out a user who is
// not logged in is a no-op; connection teardown calls this unconditionally.
func (r *Registry) Logout(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[username]; ok {
		delete(r.users, username)
		r.logger.Info("user logged out", slog.String("username", username))
	}
}

// IsLoggedIn reports whether the username has an active session.
func (r *Registry) IsLoggedIn(username string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.users[username]
	return ok
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.users)
}

// Usernames returns a snapshot of the logged-in usernames.
func (r *Registry) Usernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.users))
	for name := range r.users {
		names = append(names, name)
	}
	return names
}
