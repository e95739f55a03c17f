package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmicah/cardtable-go/internal/storage/memory"
)

func TestNewDefaultsToMemoryStorage(t *testing.T) {
	app, err := New(Config{})
	require.NoError(t, err)

	assert.IsType(t, &memory.Storage{}, app.Store)
	assert.NotNil(t, app.Sessions)
	assert.NotNil(t, app.Lobbies)
	assert.NotNil(t, app.Chat)
	assert.NotNil(t, app.Broadcaster)
	assert.NotNil(t, app.Dispatcher)
}

func TestNewRejectsUnknownStorageType(t *testing.T) {
	_, err := New(Config{StorageType: "etcd"})
	assert.Error(t, err)
}

func TestNewRequiresRedisConfigForRedis(t *testing.T) {
	_, err := New(Config{StorageType: StorageTypeRedis})
	assert.Error(t, err)
}

func TestNewTestAppUsesMocks(t *testing.T) {
	app := NewTestApp()

	require.NotNil(t, app.MockClock)
	require.NotNil(t, app.MockRandom)
	assert.Same(t, app.Clock, app.MockClock)
	assert.Same(t, app.Random, app.MockRandom)
}
