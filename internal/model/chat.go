package model

import "time"

// ChatMessage is one entry in the table-wide chat log. Immutable once
// appended; readers reference entries, they never copy-and-edit them.
type ChatMessage struct {
	Username  string    `json:"username"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// IsEmpty reports whether the message has no text to deliver.
func (m ChatMessage) IsEmpty() bool {
	return m.Text == ""
}
