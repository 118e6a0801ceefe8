package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"moneyleft/internal/amqp"
	"moneyleft/internal/cli"
	"moneyleft/internal/log"
	"moneyleft/internal/worker"
)

func newEventsCommand() *cobra.Command {
	var types []string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Print ledger events from the AMQP queue as JSON lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()

			app, err := cli.Bootstrap(ctx, log.ComponentAMQP)
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Backend.Events == nil {
				return errors.New("events need AMQP_URL to point at a reachable broker")
			}

			filter := make([]amqp.EventType, 0, len(types))
			for _, t := range types {
				filter = append(filter, amqp.EventType(t))
			}
			return worker.NewEventPrinter(cmd.OutOrStdout(), app.Logger, filter...).Tail(ctx, app.Backend.Events)
		},
	}

	cmd.Flags().StringSliceVar(&types, "type", nil, "only print these event types, e.g. bill.due,debt.paid")
	return cmd
}
