package model

import "errors"

// Common errors used across the application
var (
	// Credential store errors
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateUsername = errors.New("username already registered")

	// Session registry errors
	ErrAlreadyLoggedIn = errors.New("user is already logged in")
	ErrNotLoggedIn     = errors.New("user is not logged in")

	// Lobby errors
	ErrLobbyExists       = errors.New("lobby already exists")
	ErrLobbyNotFound     = errors.New("lobby not found")
	ErrNoLobbies         = errors.New("no lobbies exist")
	ErrNotInLobby        = errors.New("player is not in this lobby")
	ErrInsufficientFunds = errors.New("bet exceeds player budget")
	ErrShoeExhausted     = errors.New("no cards left in the shoe")
)
