package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/kmicah/cardtable-go/internal/model"
	"github.com/kmicah/cardtable-go/internal/protocol"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

// PrintPush outputs one server push
func (o *Output) PrintPush(push *protocol.Push) {
	if o.format == "json" {
		o.printJSON(push)
		return
	}
	fmt.Printf("[%s] %s\n", push.Type, string(push.Payload))
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case []model.ChatMessage:
		o.printMessages(v)
	case StatusResult:
		o.printStatus(v)
	case LobbyList:
		o.printLobbyList(v)
	case LobbyDetail:
		o.printLobbyDetail(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// StatusResult response type (matches the operator API)
type StatusResult struct {
	Status      string `json:"status"`
	Connections int    `json:"connections"`
	Sessions    int    `json:"sessions"`
	Lobbies     int    `json:"lobbies"`
	Messages    int    `json:"messages"`
}

// LobbyList response type
type LobbyList struct {
	Lobbies []string `json:"lobbies"`
}

// LobbyDetail response type
type LobbyDetail struct {
	Name    string         `json:"name"`
	Players []string       `json:"players"`
	Budgets map[string]int `json:"budgets"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printMessages(messages []model.ChatMessage) {
	if len(messages) == 0 {
		fmt.Println("No messages")
		return
	}
	for _, m := range messages {
		fmt.Printf("%s <%s> %s\n", m.Timestamp.Format("15:04:05"), m.Username, m.Text)
	}
}

func (o *Output) printStatus(s StatusResult) {
	fmt.Printf("Status: %s\n", s.Status)
	fmt.Printf("Connections: %d\n", s.Connections)
	fmt.Printf("Sessions: %d\n", s.Sessions)
	fmt.Printf("Lobbies: %d\n", s.Lobbies)
	fmt.Printf("Messages: %d\n", s.Messages)
}

func (o *Output) printLobbyList(l LobbyList) {
	if len(l.Lobbies) == 0 {
		fmt.Println("No open tables")
		return
	}
	fmt.Printf("Tables (%d):\n", len(l.Lobbies))
	for _, name := range l.Lobbies {
		fmt.Printf("  - %s\n", name)
	}
}

func (o *Output) printLobbyDetail(l LobbyDetail) {
	fmt.Printf("Table: %s\n", l.Name)
	fmt.Printf("Players (%d):\n", len(l.Players))
	for _, p := range l.Players {
		fmt.Printf("  - %s (budget %d)\n", p, l.Budgets[p])
	}
}
