package lobby

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/kmicah/cardtable-go/internal/dependencies/mocks"
	"github.com/kmicah/cardtable-go/internal/model"
	"github.com/kmicah/cardtable-go/internal/testutil"
)

type RegistrySuite struct {
	suite.Suite
	registry *Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	s.registry = NewRegistry(mocks.NewMockRandom(), testutil.NopLogger())
}

func (s *RegistrySuite) TestCreateRegistersLobby() {
	l, err := s.registry.Create("alice")
	s.Require().NoError(err)
	s.Equal("alice", l.Name())

	got, err := s.registry.Get("alice")
	s.Require().NoError(err)
	s.Same(l, got)
	s.Equal(1, s.registry.Count())
	s.Equal([]string{"alice"}, s.registry.Names())
}

func (s *RegistrySuite) TestCreateDuplicateFails() {
	_, _ = s.registry.Create("alice")

	_, err := s.registry.Create("alice")
	s.ErrorIs(err, model.ErrLobbyExists)
	s.Equal(1, s.registry.Count())
	s.Equal([]string{"alice"}, s.registry.Names())
}

func (s *RegistrySuite) TestGetMissingLobby() {
	_, err := s.registry.Get("nobody")
	s.ErrorIs(err, model.ErrLobbyNotFound)
}

func (s *RegistrySuite) TestNamesInCreationOrder() {
	_, _ = s.registry.Create("carol")
	_, _ = s.registry.Create("alice")
	_, _ = s.registry.Create("bob")

	s.Equal([]string{"carol", "alice", "bob"}, s.registry.Names())
}

func (s *RegistrySuite) TestNamesIsACopy() {
	_, _ = s.registry.Create("alice")

	names := s.registry.Names()
	names[0] = "mangled"

	s.Equal([]string{"alice"}, s.registry.Names())
}

func (s *RegistrySuite) TestEmptyLobbyIsNotRemoved() {
	l, _ := s.registry.Create("alice")
	l.AddPlayer(&model.User{Username: "alice"}, &fakePusher{})
	l.RemovePlayer("alice")

	// The name stays claimed even with nobody seated.
	_, err := s.registry.Get("alice")
	s.NoError(err)
	_, err = s.registry.Create("alice")
	s.ErrorIs(err, model.ErrLobbyExists)
}

func (s *RegistrySuite) TestConcurrentCreateSameName() {
	const attempts = 16

	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.registry.Create("alice")
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, model.ErrLobbyExists)
		}
	}
	s.Equal(1, succeeded)
	s.Equal(1, s.registry.Count())
	s.Len(s.registry.Names(), 1)
}
