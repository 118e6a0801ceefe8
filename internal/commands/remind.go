package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"moneyleft/internal/cli"
	"moneyleft/internal/log"
	"moneyleft/internal/worker"
)

func newRemindCommand() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Announce monthly bills as they fall due",
		Long: "Publishes a bill.due event for every monthly bill due today, or within\n" +
			"REMINDER_LEAD_DAYS, then repeats every REMINDER_INTERVAL until stopped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := cli.SignalContext(cmd.Context())
			defer stop()

			app, err := cli.Bootstrap(ctx, log.ComponentReminder)
			if err != nil {
				return err
			}
			defer app.Close()

			if app.Backend.Events == nil {
				app.Logger.Warn("AMQP disabled, due bills will only be logged")
			}

			w, err := worker.NewReminderWorker(app.Services.Spending, app.Config.ReminderLeadDays, app.Config.ReminderInterval, app.Logger)
			if err != nil {
				return err
			}

			if once {
				count, err := w.RunOnce(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d bill(s) due\n", count)
				return nil
			}
			return w.Run(ctx)
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "run a single pass and exit")
	return cmd
}
