package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/kmicah/cardtable-go/internal/api/apierr"
	"github.com/kmicah/cardtable-go/internal/api/response"
	"github.com/kmicah/cardtable-go/internal/services/chat"
	"github.com/kmicah/cardtable-go/internal/services/lobby"
	"github.com/kmicah/cardtable-go/internal/services/session"
)

// ConnCounter reports how many client sockets are currently registered for
// push delivery.
type ConnCounter interface {
	ConnCount() int
}

// AdminHandler serves the read-only operator endpoints. It observes the same
// registries the TCP dispatcher mutates but never writes to them.
type AdminHandler struct {
	lobbies  *lobby.Registry
	sessions *session.Registry
	chat     *chat.Log
	conns    ConnCounter
}

// NewAdminHandler creates the operator endpoint handler
func NewAdminHandler(lobbies *lobby.Registry, sessions *session.Registry, chatLog *chat.Log, conns ConnCounter) *AdminHandler {
	return &AdminHandler{
		lobbies:  lobbies,
		sessions: sessions,
		chat:     chatLog,
		conns:    conns,
	}
}

// Status handles GET /api/v1/status
func (h *AdminHandler) Status(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.StatusResponse{
		Status:      "ok",
		Connections: h.conns.ConnCount(),
		Sessions:    h.sessions.Count(),
		Lobbies:     h.lobbies.Count(),
		Messages:    h.chat.Len(),
	})
}

// ListLobbies handles GET /api/v1/lobbies
func (h *AdminHandler) ListLobbies(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.LobbyListResponse{
		Lobbies: h.lobbies.Names(),
	})
}

// GetLobby handles GET /api/v1/lobbies/{name}
func (h *AdminHandler) GetLobby(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	l, err := h.lobbies.Get(name)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LobbyResponse{
		Name:    l.Name(),
		Players: l.PlayerNames(),
		Budgets: l.Budgets(),
	})
}

// ListSessions handles GET /api/v1/sessions
func (h *AdminHandler) ListSessions(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, response.SessionListResponse{
		Usernames: h.sessions.Usernames(),
	})
}

// ListMessages handles GET /api/v1/messages?offset=N
func (h *AdminHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	// Same offset semantics as the wire protocol: -1 means the whole log.
	offset := int64(-1)
	if raw := r.URL.Query().Get("offset"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apierr.WriteError(w, apierr.NewInvalidRequestError("offset must be an integer"))
			return
		}
		offset = parsed
	}

	response.JSON(w, http.StatusOK, response.MessagesResponse{
		Messages: h.chat.After(offset),
	})
}
