package lobby

import (
	"sort"
	"sync"

	"github.com/kmicah/cardtable-go/internal/dependencies/random"
	"github.com/kmicah/cardtable-go/internal/model"
	"github.com/kmicah/cardtable-go/internal/protocol"
)

const (
	// StartingBudget is the chips every player sits down with.
	StartingBudget = 500

	// initialHandSize is the number of cards dealt per seat on a fresh round.
	initialHandSize = 2
)

// Pusher is the write side of a client socket, as seen by the lobby and the
// broadcaster. Implementations must be safe for concurrent use.
type Pusher interface {
	SendPush(push *protocol.Push) error
}

// Lobby is one game table: the roster of seated players with their hands,
// budgets, bets and sockets, plus the dealer's hand and the card shoe. All
// mutation goes through the lobby's own lock, so operations on different
// lobbies never contend.
type Lobby struct {
	name string

	mu      sync.RWMutex
	shoe    []model.Card
	dealer  model.Hand
	hands   map[string]model.Hand
	budgets map[string]int
	bets    map[string]int
	conns   map[string]Pusher
}

// New creates a lobby with a freshly shuffled single-deck shoe.
func New(name string, rnd random.Random) *Lobby {
	shoe := model.NewDeck()
	rnd.Shuffle(len(shoe), func(i, j int) {
		shoe[i], shoe[j] = shoe[j], shoe[i]
	})

	return &Lobby{
		name:    name,
		shoe:    shoe,
		hands:   make(map[string]model.Hand),
		budgets: make(map[string]int),
		bets:    make(map[string]int),
		conns:   make(map[string]Pusher),
	}
}

// Name returns the lobby's unique name.
func (l *Lobby) Name() string {
	return l.name
}

// AddPlayer seats a player at the table with an empty hand, the starting
// budget and no bet. Re-adding a seated player resets their socket only.
func (l *Lobby) AddPlayer(user *model.User, conn Pusher) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, seated := l.budgets[user.Username]; !seated {
		l.hands[user.Username] = model.Hand{}
		l.budgets[user.Username] = StartingBudget
		l.bets[user.Username] = 0
	}
	l.conns[user.Username] = conn
}

// RemovePlayer removes a player's seat, hand, budget, bet and socket.
func (l *Lobby) RemovePlayer(username string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.hands, username)
	delete(l.budgets, username)
	delete(l.bets, username)
	delete(l.conns, username)
}

// HasPlayer reports whether the username is seated at this table.
func (l *Lobby) HasPlayer(username string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.budgets[username]
	return ok
}

// PlayerCount returns the number of seated players.
func (l *Lobby) PlayerCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.budgets)
}

// PlayerNames returns the seated usernames in stable (sorted) order.
func (l *Lobby) PlayerNames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.budgets))
	for name := range l.budgets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DealerHand returns a copy of the dealer's current hand.
func (l *Lobby) DealerHand() model.Hand {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append(model.Hand{}, l.dealer...)
}

// PlayerHands returns a copy of every seated player's hand.
func (l *Lobby) PlayerHands() map[string]model.Hand {
	l.mu.RLock()
	defer l.mu.RUnlock()

	hands := make(map[string]model.Hand, len(l.hands))
	for name, hand := range l.hands {
		hands[name] = append(model.Hand{}, hand...)
	}
	return hands
}

// Budgets returns a copy of every seated player's budget.
func (l *Lobby) Budgets() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	budgets := make(map[string]int, len(l.budgets))
	for name, budget := range l.budgets {
		budgets[name] = budget
	}
	return budgets
}

// Bets returns a copy of every seated player's current bet.
func (l *Lobby) Bets() map[string]int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	bets := make(map[string]int, len(l.bets))
	for name, bet := range l.bets {
		bets[name] = bet
	}
	return bets
}

// PlaceBet moves chips from a player's budget onto their bet.
func (l *Lobby) PlaceBet(username string, amount int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	budget, ok := l.budgets[username]
	if !ok {
		return model.ErrNotInLobby
	}
	if amount > budget {
		return model.ErrInsufficientFunds
	}

	l.budgets[username] = budget - amount
	l.bets[username] += amount
	return nil
}

// DealRound deals two cards from the shoe to each seated player and to the
// dealer, in sorted seat order. Hands from the previous round are replaced.
func (l *Lobby) DealRound() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.hands))
	for name := range l.hands {
		names = append(names, name)
	}
	sort.Strings(names)

	needed := (len(names) + 1) * initialHandSize
	if len(l.shoe) < needed {
		return model.ErrShoeExhausted
	}

	for _, name := range names {
		l.hands[name] = l.draw(initialHandSize)
	}
	l.dealer = l.draw(initialHandSize)
	return nil
}

// draw removes n cards from the front of the shoe. Caller holds the lock.
func (l *Lobby) draw(n int) model.Hand {
	hand := append(model.Hand{}, l.shoe[:n]...)
	l.shoe = l.shoe[n:]
	return hand
}

// Targets returns a snapshot of the sockets seated at this table. The
// broadcaster iterates the snapshot, so a player quitting mid-broadcast
// cannot corrupt delivery to the rest.
func (l *Lobby) Targets() map[string]Pusher {
	l.mu.RLock()
	defer l.mu.RUnlock()

	targets := make(map[string]Pusher, len(l.conns))
	for name, conn := range l.conns {
		targets[name] = conn
	}
	return targets
}
