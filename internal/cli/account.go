package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kmicah/cardtable-go/internal/protocol"
)

func newAccountCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Account management",
	}

	cmd.AddCommand(newAccountRegisterCmd())

	return cmd
}

func newAccountRegisterCmd() *cobra.Command {
	var username, password string
	var avatar int

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := Dial(cfg.ServerAddr)
			if err != nil {
				return err
			}
			defer func() { _ = client.Close() }()

			_, err = client.CallChecked(protocol.TypeRegisterUser, protocol.RegisterPayload{
				Username: username,
				Password: password,
				AvatarID: avatar,
			})
			if err != nil {
				return err
			}

			NewOutput(cfg.Output).PrintMessage(fmt.Sprintf("Registered %s", username))
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "user", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "pass", "p", "", "Password")
	cmd.Flags().IntVar(&avatar, "avatar", 0, "Avatar id")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}
