package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/kmicah/cardtable-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *StorageSuite) TestSaveAndGetUser() {
	user := &model.User{Username: "alice", PasswordHash: "hash", AvatarID: 3}

	err := s.storage.SaveUser(s.ctx, user)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("alice", retrieved.Username)
	s.Equal("hash", retrieved.PasswordHash)
	s.Equal(3, retrieved.AvatarID)
}

func (s *StorageSuite) TestGetUserNotFound() {
	_, err := s.storage.GetUserByUsername(s.ctx, "nobody")
	s.ErrorIs(err, model.ErrUserNotFound)
}

func (s *StorageSuite) TestSaveDuplicateUsername() {
	_ = s.storage.SaveUser(s.ctx, &model.User{Username: "alice", PasswordHash: "pw1"})

	err := s.storage.SaveUser(s.ctx, &model.User{Username: "alice", PasswordHash: "pw2"})
	s.ErrorIs(err, model.ErrDuplicateUsername)

	// Original record is untouched
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

func (s *StorageSuite) TestDeleteMissingUserIsNoop() {
	s.NoError(s.storage.DeleteUser(s.ctx, "nobody"))
}

func (s *StorageSuite) TestSavedUserIsCopied() {
	user := &model.User{Username: "alice", AvatarID: 1}
	_ = s.storage.SaveUser(s.ctx, user)

	user.AvatarID = 9

	retrieved, _ := s.storage.GetUserByUsername(s.ctx, "alice")
	s.Equal(1, retrieved.AvatarID)
}

func (s *StorageSuite) TestConcurrentRegisterSameUsername() {
	const attempts = 16

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = s.storage.SaveUser(s.ctx, &model.User{Username: "alice"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrDuplicateUsername)
		}
	}
	s.Equal(1, succeeded)
}
