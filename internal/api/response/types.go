package response

import "github.com/kmicah/cardtable-go/internal/model"

// StatusResponse reports server liveness and headline counts.
type StatusResponse struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	Sessions    int    `json:"sessions"`
	Lobbies     int    `json:"lobbies"`
	Messages    int    `json:"messages"`
}

// LobbyListResponse lists lobby names in creation order.
type LobbyListResponse struct {
	Lobbies []string `json:"lobbies"`
}

// LobbyResponse is the detailed view of one table.
type LobbyResponse struct {
	Name    string         `json:"name"`
	Players []string       `json:"players"`
	Budgets map[string]int `json:"budgets"`
}

// SessionListResponse lists usernames with a live session.
type SessionListResponse struct {
	Usernames []string `json:"usernames"`
}

// MessagesResponse carries a slice of the chat log.
type MessagesResponse struct {
	Messages []model.ChatMessage `json:"messages"`
}
