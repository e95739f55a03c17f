package server

import (
	"net"
	"sync"

	"github.com/kmicah/cardtable-go/internal/model"
	"github.com/kmicah/cardtable-go/internal/protocol"
	"github.com/kmicah/cardtable-go/internal/services/lobby"
)

// Conn wraps one accepted client socket. Responses are written by the
// connection's own handler goroutine while pushes arrive from whichever
// connection triggered the broadcast, so every write goes through one lock
// to keep frames from interleaving.
type Conn struct {
	id      int64
	sock    net.Conn
	writeMu sync.Mutex
}

func newConn(id int64, sock net.Conn) *Conn {
	return &Conn{id: id, sock: sock}
}

// SendPush writes one push frame to the client.
func (c *Conn) SendPush(push *protocol.Push) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return protocol.WritePush(c.sock, push)
}

// sendResponse writes one response frame to the client.
func (c *Conn) sendResponse(resp *protocol.Response) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return protocol.WriteResponse(c.sock, resp)
}

// readRequest reads one request frame. Only the connection's handler
// goroutine reads, so no lock is needed on this side.
func (c *Conn) readRequest() (*protocol.Request, error) {
	return protocol.ReadRequest(c.sock)
}

// RemoteAddr returns the peer address for logging.
func (c *Conn) RemoteAddr() string {
	return c.sock.RemoteAddr().String()
}

// Close closes the underlying socket.
func (c *Conn) Close() error {
	return c.sock.Close()
}

// clientSession is one connection's authentication and lobby-membership
// state. Handlers receive it explicitly rather than reading fields off the
// connection, which keeps them testable without a socket.
type clientSession struct {
	conn  lobby.Pusher
	user  *model.User // nil until LOGIN_USER succeeds
	lobby string      // empty until CREATE_GAME/JOIN_GAME succeeds
}

func (s *clientSession) loggedIn() bool {
	return s.user != nil
}
