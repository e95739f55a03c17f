package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var cfg *Config

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "cardtable",
		Short: "CLI client for the card table server",
		Long: `cardtable is a client for the card table TCP server.

It can register accounts, open and join tables, chat, and stream the
push notifications the server sends to seated players. Operator
subcommands query the read-only HTTP API.`,
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerAddr, "server", cfg.ServerAddr, "Table server address (env: CARDTABLE_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.AdminURL, "admin", cfg.AdminURL, "Operator API URL (env: CARDTABLE_ADMIN)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newAccountCmd())
	rootCmd.AddCommand(newTableCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newStatusCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
