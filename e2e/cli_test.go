package e2e_test

import (
	"context"
	"io"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmicah/cardtable-go/internal/api"
	"github.com/kmicah/cardtable-go/internal/cli"
	"github.com/kmicah/cardtable-go/internal/factory"
	"github.com/kmicah/cardtable-go/internal/server"
	"github.com/kmicah/cardtable-go/internal/testutil"
)

// testEnv runs the full stack in-process: the TCP table server plus the
// operator HTTP API, both wired through the production factory.
type testEnv struct {
	tableAddr string
	adminURL  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := testutil.NopLogger()
	app, err := factory.New(factory.Config{Logger: logger})
	require.NoError(t, err)

	cfg := server.DefaultConfig()
	cfg.Addr = "127.0.0.1:0"
	tableServer := server.New(cfg, app.Dispatcher, app.Broadcaster, app.Sessions, logger)
	require.NoError(t, tableServer.Start())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = tableServer.Shutdown(ctx)
	})

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Lobbies:  app.Lobbies,
		Sessions: app.Sessions,
		Chat:     app.Chat,
		Conns:    app.Broadcaster,
	})
	adminServer := httptest.NewServer(router)
	t.Cleanup(adminServer.Close)

	return &testEnv{
		tableAddr: tableServer.Addr(),
		adminURL:  adminServer.URL,
	}
}

// run executes one CLI command in-process, capturing stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	fullArgs := append([]string{
		"--server", e.tableAddr,
		"--admin", e.adminURL,
		"--output", "json",
	}, args...)

	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	cmd := cli.NewRootCmd()
	cmd.SetArgs(fullArgs)
	execErr := cmd.Execute()

	_ = w.Close()
	os.Stdout = old

	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out), execErr
}

func TestRegisterAndOpenTable(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "account", "register", "-u", "alice", "-p", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered alice")

	// Registering the same name again is rejected.
	_, err = env.run(t, "account", "register", "-u", "alice", "-p", "other")
	assert.Error(t, err)

	out, err = env.run(t, "table", "create", "-u", "alice", "-p", "secret123")
	require.NoError(t, err)
	assert.Contains(t, out, "Table alice is open")
	// The creator's seat receives the table-state pushes.
	assert.Contains(t, out, "GAME_NAMES")
	assert.Contains(t, out, "PLAYER_NAMES")

	out, err = env.run(t, "table", "list")
	require.NoError(t, err)
	assert.Contains(t, out, `"alice"`)

	out, err = env.run(t, "table", "show", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, `"alice"`)
}

func TestChatFlow(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "account", "register", "-u", "alice", "-p", "pw")
	require.NoError(t, err)
	_, err = env.run(t, "account", "register", "-u", "bob", "-p", "pw")
	require.NoError(t, err)

	_, err = env.run(t, "table", "create", "-u", "alice", "-p", "pw")
	require.NoError(t, err)

	out, err := env.run(t, "chat", "send", "-u", "bob", "-p", "pw", "-g", "alice", "good", "luck")
	require.NoError(t, err)
	assert.Contains(t, out, "Sent")

	out, err = env.run(t, "chat", "log")
	require.NoError(t, err)
	assert.Contains(t, out, "good luck")
	assert.Contains(t, out, "bob")
}

func TestChatSendRequiresSeat(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "account", "register", "-u", "carol", "-p", "pw")
	require.NoError(t, err)

	// No tables are open, so joining fails before the message is sent.
	_, err = env.run(t, "chat", "send", "-u", "carol", "-p", "pw", "-g", "nowhere", "hi")
	assert.Error(t, err)
}

func TestOperatorStatus(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "status", "health")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	out, err = env.run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, `"status"`)
}
