package chat

import (
	"sync"

	"github.com/kmicah/cardtable-go/internal/dependencies/clock"
	"github.com/kmicah/cardtable-go/internal/model"
)

// Log is the process-wide, append-only chat log. A message's slice index is
// its stable position; clients poll incrementally by passing the position of
// the last message they have seen. Appends are serialized; reads run
// concurrently and always observe a consistent prefix.
type Log struct {
	clock clock.Clock

	mu       sync.RWMutex
	messages []model.ChatMessage
}

// NewLog creates an empty chat log.
func NewLog(clk clock.Clock) *Log {
	return &Log{clock: clk}
}

// Append adds a message to the log, stamping it with the current time, and
// returns the stored message.
func (l *Log) Append(username, text string) model.ChatMessage {
	msg := model.ChatMessage{
		Username:  username,
		Text:      text,
		Timestamp: l.clock.Now(),
	}

	l.mu.Lock()
	l.messages = append(l.messages, msg)
	l.mu.Unlock()

	return msg
}

// After returns every message whose position is strictly greater than
// offset, in append order. Offset -1 returns the whole log; an offset at or
// past the end returns an empty slice.
func (l *Log) After(offset int64) []model.ChatMessage {
	l.mu.RLock()
	defer l.mu.RUnlock()

	start := offset + 1
	if start < 0 {
		start = 0
	}
	if start >= int64(len(l.messages)) {
		return []model.ChatMessage{}
	}

	out := make([]model.ChatMessage, len(l.messages)-int(start))
	copy(out, l.messages[start:])
	return out
}

// Len returns the number of messages appended so far.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.messages)
}
