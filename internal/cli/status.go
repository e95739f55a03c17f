package cli

import "github.com/spf13/cobra"

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Server status via the operator API",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StatusResult
			if err := NewAdminClient(cfg.AdminURL).Get("/api/v1/status", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}

	cmd.AddCommand(newHealthCmd())
	return cmd
}

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Liveness check",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result HealthResult
			if err := NewAdminClient(cfg.AdminURL).Get("/api/v1/health", &result); err != nil {
				return err
			}
			NewOutput(cfg.Output).Print(result)
			return nil
		},
	}
}
