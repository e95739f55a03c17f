package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"
)

// Config holds configuration for the TCP table server.
type Config struct {
	// Addr is the listen address, e.g. ":7077". Use ":0" in tests.
	Addr string

	// ShutdownTimeout bounds how long Shutdown waits for handlers to drain.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults for the table server.
func DefaultConfig() Config {
	return Config{
		Addr:            ":7077",
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server accepts client sockets and runs one connection handler per socket.
// Handlers share the registries through the dispatcher; the server itself
// only tracks live connections for shutdown.
type Server struct {
	cfg         Config
	logger      *slog.Logger
	dispatcher  *Dispatcher
	broadcaster *Broadcaster
	sessions    sessionCloser

	listener net.Listener
	wg       sync.WaitGroup
	nextID   atomic.Int64

	mu    sync.Mutex
	conns map[*Conn]struct{}
}

// sessionCloser is the slice of the session registry the server needs for
// connection teardown.
type sessionCloser interface {
	Logout(username string)
}

// New creates a table server.
func New(cfg Config, dispatcher *Dispatcher, broadcaster *Broadcaster, sessions sessionCloser, logger *slog.Logger) *Server {
	return &Server{
		cfg:         cfg,
		logger:      logger.With(slog.String("component", "server")),
		dispatcher:  dispatcher,
		broadcaster: broadcaster,
		sessions:    sessions,
		conns:       make(map[*Conn]struct{}),
	}
}

// Start begins accepting connections. It returns once the listener is bound;
// accepted connections are handled on their own goroutines.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	s.listener = ln

	s.wg.Add(1)
	go s.acceptLoop()

	s.logger.Info("server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound listen address, useful when Addr was ":0".
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.cfg.Addr
	}
	return s.listener.Addr().String()
}

// Shutdown closes the listener and every live connection, then waits for
// handlers to drain or the timeout to pass.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down")

	if s.listener != nil {
		_ = s.listener.Close()
	}

	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
	defer cancel()

	select {
	case <-done:
		s.logger.Info("shutdown complete")
		return nil
	case <-shutdownCtx.Done():
		return shutdownCtx.Err()
	}
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		sock, err := s.listener.Accept()
		if err != nil {
			// Listener closed; normal shutdown path.
			return
		}

		conn := newConn(s.nextID.Add(1), sock)
		s.track(conn)

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) track(conn *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrack(conn *Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// handleConn drives one client's request/response cycle until disconnect.
// On any exit path the socket is released and the connection's user, if
// still logged in, is removed from the session registry: registry
// membership must not outlive the socket.
func (s *Server) handleConn(conn *Conn) {
	defer s.wg.Done()

	logger := s.logger.With(
		slog.Int64("conn_id", conn.id),
		slog.String("remote", conn.RemoteAddr()),
	)
	logger.Info("client connected")

	sess := &clientSession{conn: conn}
	s.broadcaster.Register(conn)

	defer func() {
		s.broadcaster.Unregister(conn)
		s.untrack(conn)
		_ = conn.Close()
		if sess.user != nil {
			s.sessions.Logout(sess.user.Username)
		}
		logger.Info("client disconnected")
	}()

	ctx := context.Background()
	for {
		req, err := conn.readRequest()
		if err != nil {
			if errors.Is(err, io.EOF) {
				logger.Info("client closed connection")
			} else {
				logger.Warn("read failed", slog.String("error", err.Error()))
			}
			return
		}

		resp := s.dispatcher.Dispatch(ctx, sess, req)

		if err := conn.sendResponse(resp); err != nil {
			logger.Warn("write failed", slog.String("error", err.Error()))
			return
		}
	}
}
