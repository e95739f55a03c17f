package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmicah/cardtable-go/internal/protocol"
)

func newTableCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Table operations",
	}

	cmd.AddCommand(newTableListCmd())
	cmd.AddCommand(newTableShowCmd())
	cmd.AddCommand(newTableCreateCmd())
	cmd.AddCommand(newTableWatchCmd())

	return cmd
}

func newTableListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LobbyList
			if err := NewAdminClient(cfg.AdminURL).Get("/api/v1/lobbies", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newTableShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show one table's players and budgets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LobbyDetail
			if err := NewAdminClient(cfg.AdminURL).Get("/api/v1/lobbies/"+args[0], &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}

func newTableCreateCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a table named after you",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerAddr)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			if err := client.Login(username, password); err != nil {
				return err
			}

			if _, err := client.CallChecked(protocol.TypeCreateGame, protocol.CreateGamePayload{
				Username: username,
			}); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage(fmt.Sprintf("Table %s is open", username))
			for _, push := range client.Pushes() {
				out.PrintPush(push)
			}
			return nil
		},
	}

	addCredentialFlags(cmd, &username, &password)
	return cmd
}

func newTableWatchCmd() *cobra.Command {
	var username, password, game string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Join a table and stream its pushes",
		Long: `Join a table and print every push the server sends until the
connection is interrupted. Quitting the command leaves the seat.`,
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

			out := NewOutput(cfg.Output)
			for {
				push, err := client.WaitPush(0)
				if err != nil {
					return err
				}
				out.PrintPush(push)
			}
		},
	}

	addCredentialFlags(cmd, &username, &password)
	cmd.Flags().StringVarP(&game, "game", "g", "", "Table name")
	_ = cmd.MarkFlagRequired("game")
	return cmd
}

func addCredentialFlags(cmd *cobra.Command, username, password *string) {
	cmd.Flags().StringVarP(username, "user", "u", "", "Username")
	cmd.Flags().StringVarP(password, "pass", "p", "", "Password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")
}
