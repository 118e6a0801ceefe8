package commands

import (
	"github.com/spf13/cobra"

	"moneyleft/internal/cli"
	"moneyleft/internal/log"
	"moneyleft/internal/stdio"
)

func newStdioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stdio",
		Short: "Serve the ledger tools as JSON lines on stdin and stdout",
		Long: "Reads one request per line, {\"id\":1,\"tool\":\"simulate_tax\",\"arguments\":{\"year\":2025}},\n" +
			"and writes one result envelope per line. Logs go to stderr.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()

			app, err := cli.Bootstrap(ctx, log.ComponentStdio)
			if err != nil {
				return err
			}
			defer app.Close()

			return stdio.NewServer(app.Registry, app.Logger).Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}
