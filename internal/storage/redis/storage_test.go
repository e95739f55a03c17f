package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/kmicah/cardtable-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{Username: "alice", PasswordHash: "hash", AvatarID: 2}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal("hash", retrieved.PasswordHash)
	s.Equal(2, retrieved.AvatarID)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestSaveDuplicateUsername() {
	_ = s.storage.SaveUser(s.ctx, &model.User{Username: "alice", PasswordHash: "pw1"})

	err := s.storage.SaveUser(s.ctx, &model.User{Username: "alice", PasswordHash: "pw2"})
	s.ErrorIs(err, model.ErrDuplicateUsername)

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("pw1", retrieved.PasswordHash)
}

func (s *StorageSuite) TestDeleteUser() {
	_ = s.storage.SaveUser(s.ctx, &model.User{Username: "alice"})

	err := s.storage.DeleteUser(s.ctx, "alice")
	s.Require().NoError(err)

	_, err = s.storage.GetUserByUsername(s.ctx, "alice")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestPasswordHashSurvivesRoundTrip() {
	// model.User hides the hash from client-facing JSON; the store must
	// still persist it.
	_ = s.storage.SaveUser(s.ctx, &model.User{Username: "alice", PasswordHash: "$2a$10$abc"})

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("$2a$10$abc", retrieved.PasswordHash)
}
