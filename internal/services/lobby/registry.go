package lobby

import (
	"log/slog"
	"sync"

	"github.com/kmicah/cardtable-go/internal/dependencies/random"
	"github.com/kmicah/cardtable-go/internal/model"
)

// Registry owns the set of active lobbies plus a denormalized list of lobby
// names kept ready for broadcast. The existence check and the insert share
// one lock, so two connections creating the same lobby name cannot both
// succeed.
//
// Lobbies are never removed: a table whose last player quits keeps its name
// claimed until the process restarts.
type Registry struct {
	logger *slog.Logger
	random random.Random

	mu      sync.RWMutex
	lobbies map[string]*Lobby
	names   []string
}

// NewRegistry creates an empty lobby registry.
func NewRegistry(rnd random.Random, logger *slog.Logger) *Registry {
	return &Registry{
		logger:  logger.With(slog.String("component", "lobbies")),
		random:  rnd,
		lobbies: make(map[string]*Lobby),
	}
}

// Create makes a new lobby under the given name and registers it. Returns
// model.ErrLobbyExists if the name is already taken.
func (r *Registry) Create(name string) (*Lobby, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lobbies[name]; ok {
		return nil, model.ErrLobbyExists
	}

	l := New(name, r.random)
	r.lobbies[name] = l
	r.names = append(r.names, name)
	r.logger.Info("lobby created", slog.String("lobby", name))
	return l, nil
}

// Get returns the lobby with the given name, or model.ErrLobbyNotFound.
func (r *Registry) Get(name string) (*Lobby, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.lobbies[name]
	if !ok {
		return nil, model.ErrLobbyNotFound
	}
	return l, nil
}

// Count returns the number of active lobbies.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.lobbies)
}

// Names returns a copy of the lobby-name list, in creation order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string{}, r.names...)
}
