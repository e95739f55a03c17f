package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kmicah/cardtable-go/internal/model"
	"github.com/kmicah/cardtable-go/internal/protocol"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Table chat",
	}

	cmd.AddCommand(newChatSendCmd())
	cmd.AddCommand(newChatLogCmd())

	return cmd
}

func newChatSendCmd() *cobra.Command {
	var username, password, game string

	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send a chat message from a table seat",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerAddr)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Login(username, password); err != nil {
				return err
			}

			if _, err := client.CallChecked(protocol.TypeJoinGame, protocol.JoinGamePayload{
				Username: username,
				Game:     game,
			}); err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if _, err := client.CallChecked(protocol.TypeSendMessage, protocol.SendMessagePayload{
				Text: text,
			}); err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage("Sent")
			return nil
		},
	}

	addCredentialFlags(cmd, &username, &password)
	cmd.Flags().StringVarP(&game, "game", "g", "", "Table name")
	_ = cmd.MarkFlagRequired("game")
	return cmd
}

func newChatLogCmd() *cobra.Command {
	var offset int64

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Fetch the chat log",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerAddr)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			resp, err := client.CallChecked(protocol.TypeGetMessages, protocol.GetMessagesPayload{
				Offset: offset,
			})
			if err != nil {
				return err
			}

			var result struct {
				Messages []model.ChatMessage `json:"messages"`
			}
			if err := decodePayload(resp, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output).Print(result.Messages)
			return nil
		},
	}

	cmd.Flags().Int64Var(&offset, "offset", -1, "Return messages after this log position (-1 for all)")
	return cmd
}

// decodePayload round-trips a response payload into a typed struct.
func decodePayload(resp *protocol.Response, v any) error {
	data, err := json.Marshal(resp.Payload)
	if err != nil {
		return fmt.Errorf("re-encoding payload: %w", err)
	}
	return json.Unmarshal(data, v)
}
