package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/kmicah/cardtable-go/internal/api/handler"
	apimiddleware "github.com/kmicah/cardtable-go/internal/api/middleware"
	"github.com/kmicah/cardtable-go/internal/middleware"
	"github.com/kmicah/cardtable-go/internal/services/chat"
	"github.com/kmicah/cardtable-go/internal/services/lobby"
	"github.com/kmicah/cardtable-go/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Lobbies  *lobby.Registry
	Sessions *session.Registry
	Chat     *chat.Log
	Conns    handler.ConnCounter
}

// NewRouter creates the operator API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	adminHandler := handler.NewAdminHandler(cfg.Lobbies, cfg.Sessions, cfg.Chat, cfg.Conns)

	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := apimiddleware.Recovery(cfg.Logger)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	api.HandleFunc("/status", adminHandler.Status).Methods(http.MethodGet)
	api.HandleFunc("/lobbies", adminHandler.ListLobbies).Methods(http.MethodGet)
	api.HandleFunc("/lobbies/{name}", adminHandler.GetLobby).Methods(http.MethodGet)
	api.HandleFunc("/sessions", adminHandler.ListSessions).Methods(http.MethodGet)
	api.HandleFunc("/messages", adminHandler.ListMessages).Methods(http.MethodGet)

	// Health check endpoint (no middleware beyond the subrouter's)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
