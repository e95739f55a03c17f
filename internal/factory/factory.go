package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/kmicah/cardtable-go/internal/dependencies/clock"
	"github.com/kmicah/cardtable-go/internal/dependencies/random"
	"github.com/kmicah/cardtable-go/internal/server"
	"github.com/kmicah/cardtable-go/internal/services/chat"
	"github.com/kmicah/cardtable-go/internal/services/lobby"
	"github.com/kmicah/cardtable-go/internal/services/session"
	"github.com/kmicah/cardtable-go/internal/storage"
	"github.com/kmicah/cardtable-go/internal/storage/memory"
	redisstorage "github.com/kmicah/cardtable-go/internal/storage/redis"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Store storage.CredentialStore

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Shared state
	Sessions    *session.Registry
	Lobbies     *lobby.Registry
	Chat        *chat.Log
	Broadcaster *server.Broadcaster
	Dispatcher  *server.Dispatcher
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the credential backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	var store storage.CredentialStore
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.CredentialStore, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	sessions := session.NewRegistry(logger)
	lobbies := lobby.NewRegistry(rnd, logger)
	chatLog := chat.NewLog(clk)
	broadcaster := server.NewBroadcaster(logger)
	dispatcher := server.NewDispatcher(store, sessions, lobbies, chatLog, broadcaster, logger)

	return &App{
		Store:       store,
		Clock:       clk,
		Random:      rnd,
		Sessions:    sessions,
		Lobbies:     lobbies,
		Chat:        chatLog,
		Broadcaster: broadcaster,
		Dispatcher:  dispatcher,
	}
}
