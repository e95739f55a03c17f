package server

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/kmicah/cardtable-go/internal/model"
	"github.com/kmicah/cardtable-go/internal/protocol"
	"github.com/kmicah/cardtable-go/internal/services/chat"
	"github.com/kmicah/cardtable-go/internal/services/lobby"
	"github.com/kmicah/cardtable-go/internal/services/session"
	"github.com/kmicah/cardtable-go/internal/storage"
)

// Dispatcher routes a decoded request to its handler and executes it against
// the connection's session state and the shared registries.
//
// Every handler evaluates its guards in a fixed order and returns on the
// first match. The guards are not mutually exclusive, so the order is part
// of the protocol contract; reordering them changes which error code a
// client sees.
type Dispatcher struct {
	store       storage.CredentialStore
	sessions    *session.Registry
	lobbies     *lobby.Registry
	chat        *chat.Log
	broadcaster *Broadcaster
	logger      *slog.Logger
}

// NewDispatcher wires a dispatcher to the shared registries.
func NewDispatcher(
	store storage.CredentialStore,
	sessions *session.Registry,
	lobbies *lobby.Registry,
	chatLog *chat.Log,
	broadcaster *Broadcaster,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		store:       store,
		sessions:    sessions,
		lobbies:     lobbies,
		chat:        chatLog,
		broadcaster: broadcaster,
		logger:      logger.With(slog.String("component", "dispatcher")),
	}
}

// Dispatch executes one request and always produces exactly one response.
func (d *Dispatcher) Dispatch(ctx context.Context, sess *clientSession, req *protocol.Request) *protocol.Response {
	switch req.Type {
	case protocol.TypeRegisterUser:
		return d.handleRegister(ctx, sess, req)
	case protocol.TypeLoginUser:
		return d.handleLogin(ctx, sess, req)
	case protocol.TypeLogoutUser:
		return d.handleLogout(sess, req)
	case protocol.TypeSendMessage:
		return d.handleSendMessage(sess, req)
	case protocol.TypeGetMessages:
		return d.handleGetMessages(req)
	case protocol.TypeCreateGame:
		return d.handleCreateGame(sess, req)
	case protocol.TypeJoinGame:
		return d.handleJoinGame(sess, req)
	case protocol.TypeQuitGame:
		return d.handleQuitGame(sess, req)
	default:
		return &protocol.Response{
			ProtocolID: req.ProtocolID,
			Type:       protocol.TypeUnknown,
			Outcome:    protocol.OutcomeFail,
			ErrorCode:  protocol.ErrCodeUnknownType,
		}
	}
}

func (d *Dispatcher) handleRegister(ctx context.Context, sess *clientSession, req *protocol.Request) *protocol.Response {
	var payload protocol.RegisterPayload
	if err := req.DecodePayload(&payload); err != nil {
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	if payload.Username == "" || payload.Password == "" {
		return protocol.Fail(req, protocol.ErrCodeEmptyInsert)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	err = d.store.SaveUser(ctx, &model.User{
		Username:     payload.Username,
		PasswordHash: string(hash),
		AvatarID:     payload.AvatarID,
	})
	if errors.Is(err, model.ErrDuplicateUsername) {
		return protocol.Fail(req, protocol.ErrCodeDupeUsername)
	}
	if err != nil {
		d.logger.Error("credential store insert failed", slog.String("error", err.Error()))
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	if sess.loggedIn() {
		return protocol.Fail(req, protocol.ErrCodeAlreadyLoggedIn)
	}

	return protocol.Success(req, nil)
}

func (d *Dispatcher) handleLogin(ctx context.Context, sess *clientSession, req *protocol.Request) *protocol.Response {
	if sess.loggedIn() {
		return protocol.Fail(req, protocol.ErrCodeAlreadyLoggedIn)
	}

	var payload protocol.LoginPayload
	if err := req.DecodePayload(&payload); err != nil {
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	if payload.Username == "" || payload.Password == "" {
		return protocol.Fail(req, protocol.ErrCodeUsernameMismatch)
	}

	user, err := d.store.GetUserByUsername(ctx, payload.Username)
	if errors.Is(err, model.ErrUserNotFound) {
		return protocol.Fail(req, protocol.ErrCodeNonExist)
	}
	if err != nil {
		d.logger.Error("credential store lookup failed", slog.String("error", err.Error()))
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		return protocol.Fail(req, protocol.ErrCodePasswordMismatch)
	}

	// Another connection may hold a session for this user already.
	if err := d.sessions.Login(user); err != nil {
		return protocol.Fail(req, protocol.ErrCodeAlreadyLoggedIn)
	}

	sess.user = user
	return protocol.Success(req, protocol.LoginResult{User: *user})
}

func (d *Dispatcher) handleLogout(sess *clientSession, req *protocol.Request) *protocol.Response {
	var payload protocol.LogoutPayload
	if err := req.DecodePayload(&payload); err != nil {
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	if !sess.loggedIn() {
		return protocol.Fail(req, protocol.ErrCodeNotLoggedIn)
	}
	if payload.Username == "" {
		return protocol.Fail(req, protocol.ErrCodeEmpty)
	}
	if payload.Username != sess.user.Username {
		return protocol.Fail(req, protocol.ErrCodeUsernameMismatch)
	}

	d.sessions.Logout(sess.user.Username)
	sess.user = nil
	return protocol.Success(req, nil)
}

func (d *Dispatcher) handleSendMessage(sess *clientSession, req *protocol.Request) *protocol.Response {
	var payload protocol.SendMessagePayload
	if err := req.DecodePayload(&payload); err != nil {
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	if !sess.loggedIn() {
		return protocol.Fail(req, protocol.ErrCodeNotLoggedIn)
	}
	if sess.lobby == "" {
		return protocol.Fail(req, protocol.ErrCodeNoGameJoined)
	}
	if payload.Text == "" {
		return protocol.Fail(req, protocol.ErrCodeEmptyMsg)
	}

	d.chat.Append(sess.user.Username, payload.Text)
	return protocol.Success(req, nil)
}

func (d *Dispatcher) handleGetMessages(req *protocol.Request) *protocol.Response {
	// A missing payload means "first poll": the whole log.
	payload := protocol.GetMessagesPayload{Offset: -1}
	if err := req.DecodePayload(&payload); err != nil {
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	return protocol.Success(req, protocol.MessagesResult{
		Messages: d.chat.After(payload.Offset),
	})
}

func (d *Dispatcher) handleCreateGame(sess *clientSession, req *protocol.Request) *protocol.Response {
	var payload protocol.CreateGamePayload
	if err := req.DecodePayload(&payload); err != nil {
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	if !sess.loggedIn() {
		return protocol.Fail(req, protocol.ErrCodeNotLoggedIn)
	}
	if payload.Username == "" {
		return protocol.Fail(req, protocol.ErrCodeEmpty)
	}
	if payload.Username != sess.user.Username {
		return protocol.Fail(req, protocol.ErrCodeNotLoggedIn)
	}
	if existing, err := d.lobbies.Get(payload.Username); err == nil {
		resp := protocol.Fail(req, protocol.ErrCodeGameAlreadyExists)
		resp.Payload = protocol.CreateGameResult{Game: existing.Name()}
		return resp
	}
	if sess.lobby != "" {
		resp := protocol.Fail(req, protocol.ErrCodeGameAlreadyExists)
		resp.Payload = protocol.CreateGameResult{Game: sess.lobby}
		return resp
	}

	// The registry makes the existence check and insert atomic, so a
	// concurrent create for the same name loses here rather than racing.
	l, err := d.lobbies.Create(payload.Username)
	if errors.Is(err, model.ErrLobbyExists) {
		resp := protocol.Fail(req, protocol.ErrCodeGameAlreadyExists)
		resp.Payload = protocol.CreateGameResult{Game: payload.Username}
		return resp
	}
	if err != nil {
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	d.pushGameNames()

	sess.lobby = l.Name()
	d.joinLobby(sess, l)

	return protocol.Success(req, protocol.CreateGameResult{Game: l.Name()})
}

func (d *Dispatcher) handleJoinGame(sess *clientSession, req *protocol.Request) *protocol.Response {
	var payload protocol.JoinGamePayload
	if err := req.DecodePayload(&payload); err != nil {
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	if !sess.loggedIn() {
		return protocol.Fail(req, protocol.ErrCodeNotLoggedIn)
	}
	if payload.Username != sess.user.Username {
		return protocol.Fail(req, protocol.ErrCodeUsernameMismatch)
	}
	if d.lobbies.Count() == 0 {
		return protocol.Fail(req, protocol.ErrCodeNoGames)
	}
	l, err := d.lobbies.Get(payload.Game)
	if err != nil {
		return protocol.Fail(req, protocol.ErrCodeNoGame)
	}

	sess.lobby = l.Name()
	d.joinLobby(sess, l)

	return protocol.Success(req, nil)
}

func (d *Dispatcher) handleQuitGame(sess *clientSession, req *protocol.Request) *protocol.Response {
	var payload protocol.QuitGamePayload
	if err := req.DecodePayload(&payload); err != nil {
		return protocol.Fail(req, protocol.ErrCodeUnknownError)
	}

	if !sess.loggedIn() {
		return protocol.Fail(req, protocol.ErrCodeNotLoggedIn)
	}
	if payload.Username != sess.user.Username {
		return protocol.Fail(req, protocol.ErrCodeUsernameMismatch)
	}
	if d.lobbies.Count() == 0 {
		return protocol.Fail(req, protocol.ErrCodeNoGames)
	}
	l, err := d.lobbies.Get(payload.Game)
	if err != nil {
		return protocol.Fail(req, protocol.ErrCodeNoGame)
	}

	l.RemovePlayer(payload.Username)
	sess.lobby = ""

	return protocol.Success(req, nil)
}

// joinLobby seats the session's user and pushes the table state to every
// socket at the table. The push order (dealer hand, budgets, hands, names)
// only matters for client rendering, not for server state.
func (d *Dispatcher) joinLobby(sess *clientSession, l *lobby.Lobby) {
	l.AddPlayer(sess.user, sess.conn)

	d.pushToLobby(l, protocol.PushDealerHand, l.DealerHand())
	d.pushToLobby(l, protocol.PushPlayerBudgets, l.Budgets())
	d.pushToLobby(l, protocol.PushPlayerHands, l.PlayerHands())
	d.pushToLobby(l, protocol.PushPlayerNames, l.PlayerNames())
}

func (d *Dispatcher) pushToLobby(l *lobby.Lobby, t protocol.PushType, payload any) {
	push, err := protocol.NewPush(t, payload)
	if err != nil {
		d.logger.Error("encoding push failed",
			slog.String("push_type", string(t)),
			slog.String("error", err.Error()))
		return
	}
	d.broadcaster.PushToLobby(l, push)
}

// pushGameNames broadcasts the lobby-name list to every connected socket.
func (d *Dispatcher) pushGameNames() {
	push, err := protocol.NewPush(protocol.PushGameNames, d.lobbies.Names())
	if err != nil {
		d.logger.Error("encoding push failed", slog.String("error", err.Error()))
		return
	}
	d.broadcaster.PushToAll(push)
}
