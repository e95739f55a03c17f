package protocol

import (
	"encoding/json"

	"github.com/kmicah/cardtable-go/internal/model"
)

// RequestType tags a client request with the operation it wants performed.
type RequestType string

const (
	TypeRegisterUser RequestType = "REGISTER_USER"
	TypeLoginUser    RequestType = "LOGIN_USER"
	TypeLogoutUser   RequestType = "LOGOUT_USER"
	TypeSendMessage  RequestType = "SEND_MESSAGE"
	TypeGetMessages  RequestType = "GET_MESSAGES"
	TypeCreateGame   RequestType = "CREATE_GAME"
	TypeJoinGame     RequestType = "JOIN_GAME"
	TypeQuitGame     RequestType = "QUIT_GAME"

	// TypeUnknown is echoed in responses to unrecognized request tags.
	TypeUnknown RequestType = "UNKNOWN_TYPE"
)

// Outcome of a request.
type Outcome string

const (
	OutcomeSuccess Outcome = "SUCCESS"
	OutcomeFail    Outcome = "FAIL"
)

// ErrorCode is the stable, enumerated failure reason carried on FAIL
// responses. Clients branch on these; the strings never change.
type ErrorCode string

const (
	ErrCodeNotLoggedIn       ErrorCode = "NOT_LOGGED_IN"
	ErrCodeEmpty             ErrorCode = "EMPTY"
	ErrCodeUsernameMismatch  ErrorCode = "USERNAME_MISMATCH"
	ErrCodeNoGames           ErrorCode = "NO_GAMES"
	ErrCodeNoGame            ErrorCode = "NO_GAME"
	ErrCodeGameAlreadyExists ErrorCode = "GAME_ALREADY_EXISTS"
	ErrCodeEmptyMsg          ErrorCode = "EMPTY_MSG"
	ErrCodeNoGameJoined      ErrorCode = "NO_GAME_JOINED"
	ErrCodeAlreadyLoggedIn   ErrorCode = "ALREADY_LOGGED_IN"
	ErrCodeNonExist          ErrorCode = "NON_EXIST"
	ErrCodePasswordMismatch  ErrorCode = "PASSWORD_MISMATCH"
	ErrCodeDupeUsername      ErrorCode = "DUPE_USERNAME"
	ErrCodeEmptyInsert       ErrorCode = "EMPTY_INSERT"
	ErrCodeUnknownType       ErrorCode = "UNKNOWN_TYPE"
	ErrCodeUnknownError      ErrorCode = "UNKNOWN_ERROR"
)

// Request is the envelope carried by every client frame. The payload is
// decoded a second time into the type-specific struct once the tag is known.
type Request struct {
	ProtocolID int64           `json:"protocol_id"`
	Type       RequestType     `json:"type"`
	Payload    json.RawMessage `json:"payload,omitempty"`
}

// DecodePayload unmarshals the type-specific payload into v.
func (r *Request) DecodePayload(v any) error {
	if len(r.Payload) == 0 {
		return nil
	}
	return json.Unmarshal(r.Payload, v)
}

// Type-specific request payloads.

type RegisterPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
	AvatarID int    `json:"avatar_id,omitempty"`
}

type LoginPayload struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutPayload struct {
	Username string `json:"username"`
}

type SendMessagePayload struct {
	Text string `json:"text"`
}

// GetMessagesPayload asks for every message with log position strictly
// greater than Offset. Offset -1 means the whole log (first poll).
type GetMessagesPayload struct {
	Offset int64 `json:"offset"`
}

type CreateGamePayload struct {
	Username string `json:"username"`
}

type JoinGamePayload struct {
	Username string `json:"username"`
	Game     string `json:"game"`
}

type QuitGamePayload struct {
	Username string `json:"username"`
	Game     string `json:"game"`
}

// Response answers exactly one request, correlated by ProtocolID.
type Response struct {
	ProtocolID int64       `json:"protocol_id"`
	Type       RequestType `json:"type"`
	Outcome    Outcome     `json:"outcome"`
	ErrorCode  ErrorCode   `json:"error_code,omitempty"`
	Payload    any         `json:"payload,omitempty"`
}

// Success builds a SUCCESS response echoing the request's id and tag.
func Success(req *Request, payload any) *Response {
	return &Response{
		ProtocolID: req.ProtocolID,
		Type:       req.Type,
		Outcome:    OutcomeSuccess,
		Payload:    payload,
	}
}

// Fail builds a FAIL response with the given error code.
func Fail(req *Request, code ErrorCode) *Response {
	return &Response{
		ProtocolID: req.ProtocolID,
		Type:       req.Type,
		Outcome:    OutcomeFail,
		ErrorCode:  code,
	}
}

// Response payloads.

// LoginResult carries the authenticated user back to the client.
type LoginResult struct {
	User model.User `json:"user"`
}

// CreateGameResult carries the lobby name; on GAME_ALREADY_EXISTS failures
// it names the lobby that blocked creation.
type CreateGameResult struct {
	Game string `json:"game"`
}

// MessagesResult carries chat messages in log order.
type MessagesResult struct {
	Messages []model.ChatMessage `json:"messages"`
}

// PushType tags an unsolicited server-to-client state notification.
type PushType string

const (
	PushPlayerHands   PushType = "PLAYER_HANDS"
	PushDealerHand    PushType = "DEALER_HAND"
	PushPlayerBudgets PushType = "PLAYER_BUDGETS"
	PushPlayerNames   PushType = "PLAYER_NAMES"
	PushGameNames     PushType = "GAME_NAMES"
)

// Push is a server-initiated notification; it answers no particular request.
type Push struct {
	Type    PushType        `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// NewPush builds a push, marshalling the payload immediately so a single
// encoding is shared by every socket in the fan-out.
func NewPush(t PushType, payload any) (*Push, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Push{Type: t, Payload: data}, nil
}
