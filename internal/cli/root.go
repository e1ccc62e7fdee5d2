// Package cli wires the tradegram commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// Run executes the root command.
func Run() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tradegram",
		Short: "Tradegram - a Telegram trading assistant",
		Long: `Tradegram runs an LLM trading agent over a brokerage account and
exposes it on Telegram. Each allowed chat gets its own long-lived
conversation with tools for option lookup, stock and option orders,
account state and company news.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newToolsCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("tradegram v1.0.0")
		},
	}
}
