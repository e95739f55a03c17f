package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmicah/cardtable-go/internal/api"
	"github.com/kmicah/cardtable-go/internal/api/response"
	"github.com/kmicah/cardtable-go/internal/dependencies/mocks"
	"github.com/kmicah/cardtable-go/internal/services/chat"
	"github.com/kmicah/cardtable-go/internal/services/lobby"
	"github.com/kmicah/cardtable-go/internal/services/session"
	"github.com/kmicah/cardtable-go/internal/testutil"
)

type staticConnCount int

func (c staticConnCount) ConnCount() int { return int(c) }

// testServer wires the router to real registries the tests can seed.
type testServer struct {
	handler  http.Handler
	lobbies  *lobby.Registry
	sessions *session.Registry
	chat     *chat.Log
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := testutil.NopLogger()
	lobbies := lobby.NewRegistry(mocks.NewMockRandom(), logger)
	sessions := session.NewRegistry(logger)
	chatLog := chat.NewLog(mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)))

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Lobbies:  lobbies,
		Sessions: sessions,
		Chat:     chatLog,
		Conns:    staticConnCount(3),
	})

	return &testServer{
		handler:  router,
		lobbies:  lobbies,
		sessions: sessions,
		chat:     chatLog,
	}
}

func (ts *testServer) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestStatusCounts(t *testing.T) {
	ts := newTestServer(t)

	_, err := ts.lobbies.Create("alice")
	require.NoError(t, err)
	ts.chat.Append("alice", "hi")
	ts.chat.Append("alice", "anyone here?")

	rr := ts.get("/api/v1/status")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.StatusResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Connections)
	assert.Equal(t, 1, resp.Lobbies)
	assert.Equal(t, 2, resp.Messages)
	assert.Equal(t, 0, resp.Sessions)
}

func TestListLobbies(t *testing.T) {
	ts := newTestServer(t)

	_, err := ts.lobbies.Create("alice")
	require.NoError(t, err)
	_, err = ts.lobbies.Create("bob")
	require.NoError(t, err)

	rr := ts.get("/api/v1/lobbies")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.LobbyListResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, []string{"alice", "bob"}, resp.Lobbies)
}

func TestGetLobby(t *testing.T) {
	ts := newTestServer(t)

	_, err := ts.lobbies.Create("alice")
	require.NoError(t, err)

	rr := ts.get("/api/v1/lobbies/alice")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.LobbyResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Name)
	assert.Empty(t, resp.Players)
}

func TestGetLobbyNotFound(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/lobbies/nope")
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), "LOBBY_NOT_FOUND")
}

func TestListMessagesWithOffset(t *testing.T) {
	ts := newTestServer(t)

	ts.chat.Append("alice", "one")
	ts.chat.Append("alice", "two")
	ts.chat.Append("bob", "three")

	rr := ts.get("/api/v1/messages")
	assert.Equal(t, http.StatusOK, rr.Code)

	var resp response.MessagesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Len(t, resp.Messages, 3)

	rr = ts.get("/api/v1/messages?offset=1")
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 1)
	assert.Equal(t, "three", resp.Messages[0].Text)
}

func TestListMessagesBadOffset(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.get("/api/v1/messages?offset=soon")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_REQUEST")
}
