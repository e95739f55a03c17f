package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kmicah/cardtable-go/internal/model"
	"github.com/kmicah/cardtable-go/internal/storage"
)

// Storage is a Redis-backed credential store. Accounts are stored as JSON
// under username-derived keys with no TTL; registration uses SETNX so the
// duplicate check is atomic on the Redis side.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// storedUser is the persisted shape of a user. The password hash is excluded
// from model.User's JSON form, so it is carried explicitly here.
type storedUser struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	AvatarID     int    `json:"avatar_id"`
}

// New creates a new Redis credential store.
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis credential store with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.CredentialStore = (*Storage)(nil)

func (s *Storage) SaveUser(ctx context.Context, user *model.User) error {
	data, err := json.Marshal(storedUser{
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		AvatarID:     user.AvatarID,
	})
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, userKey(user.Username), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrDuplicateUsername
	}
	return nil
}

func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*model.User, error) {
	data, err := s.client.Get(ctx, userKey(username)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrUserNotFound
		}
		return nil, err
	}

	var su storedUser
	if err := json.Unmarshal(data, &su); err != nil {
		return nil, err
	}
	return &model.User{
		Username:     su.Username,
		PasswordHash: su.PasswordHash,
		AvatarID:     su.AvatarID,
	}, nil
}

func (s *Storage) DeleteUser(ctx context.Context, username string) error {
	return s.client.Del(ctx, userKey(username)).Err()
}
