package server

import (
	"log/slog"
	"sync"

	"github.com/kmicah/cardtable-go/internal/protocol"
	"github.com/kmicah/cardtable-go/internal/services/lobby"
)

// Broadcaster fans a push out to a target set of sockets: every socket in a
// lobby, or every connected socket for lobby-list updates. Deliveries are
// independent per socket; one dead peer never blocks the rest, and a failed
// delivery is logged but never fails the request that triggered it.
type Broadcaster struct {
	logger *slog.Logger

	mu    sync.RWMutex
	conns map[lobby.Pusher]struct{}
}

// NewBroadcaster creates a broadcaster with no connected sockets.
func NewBroadcaster(logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		logger: logger.With(slog.String("component", "broadcaster")),
		conns:  make(map[lobby.Pusher]struct{}),
	}
}

// Register adds a socket to the global target set.
func (b *Broadcaster) Register(conn lobby.Pusher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conns[conn] = struct{}{}
}

// Unregister removes a socket from the global target set.
func (b *Broadcaster) Unregister(conn lobby.Pusher) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.conns, conn)
}

// ConnCount returns the number of connected sockets.
func (b *Broadcaster) ConnCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.conns)
}

// PushToAll delivers a push to every connected socket and returns how many
// deliveries succeeded. An empty target set is a no-op, not a failure.
func (b *Broadcaster) PushToAll(push *protocol.Push) int {
	b.mu.RLock()
	targets := make([]lobby.Pusher, 0, len(b.conns))
	for conn := range b.conns {
		targets = append(targets, conn)
	}
	b.mu.RUnlock()

	return b.deliver(push, targets)
}

// PushToLobby delivers a push to every socket seated in the lobby and
// returns how many deliveries succeeded.
func (b *Broadcaster) PushToLobby(l *lobby.Lobby, push *protocol.Push) int {
	snapshot := l.Targets()
	targets := make([]lobby.Pusher, 0, len(snapshot))
	for _, conn := range snapshot {
		targets = append(targets, conn)
	}

	return b.deliver(push, targets)
}

func (b *Broadcaster) deliver(push *protocol.Push, targets []lobby.Pusher) int {
	sent := 0
	for _, conn := range targets {
		if err := conn.SendPush(push); err != nil {
			b.logger.Warn("push delivery failed",
				slog.String("push_type", string(push.Type)),
				slog.String("error", err.Error()))
			continue
		}
		sent++
	}
	if sent < len(targets) {
		b.logger.Warn("push broadcast partial delivery",
			slog.String("push_type", string(push.Type)),
			slog.Int("sent", sent),
			slog.Int("targets", len(targets)))
	}
	return sent
}
