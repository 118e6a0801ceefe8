// Package commands defines the ledger command line.
package commands

import (
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X moneyleft/internal/commands.Version=...".
var Version = "dev"

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "ledger",
		Short:   "Personal ledger: cash flow, debts, bills, bitcoin and tax simulation",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newServeCommand(),
		newStdioCommand(),
		newCallCommand(),
		newToolsCommand(),
		newRemindCommand(),
		newEventsCommand(),
	)

	return rootCmd
}
