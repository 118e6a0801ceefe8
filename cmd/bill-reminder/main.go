package main

import (
	"context"
	"errors"
	"os"

	"moneyleft/internal/cli"
	"moneyleft/internal/log"
	"moneyleft/internal/worker"
)

func main() {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	app, err := cli.Bootstrap(ctx, log.ComponentReminder)
	if err != nil {
		log.FromContext(ctx).Error("Startup failed", log.FieldError, err)
		os.Exit(1)
	}

	if app.Backend.Events == nil {
		app.Logger.Warn("AMQP disabled, due bills will only be logged")
	}

	w, err := worker.NewReminderWorker(app.Services.Spending, app.Config.ReminderLeadDays, app.Config.ReminderInterval, app.Logger)
	if err != nil {
		app.Logger.Error("Invalid reminder configuration", log.FieldError, err)
		_ = app.Close()
		os.Exit(1)
	}

	app.Logger.Info("Starting bill-reminder",
		"interval", app.Config.ReminderInterval,
		"lead_days", app.Config.ReminderLeadDays)

	runErr := w.Run(ctx)
	if err := app.Close(); err != nil {
		app.Logger.Error("Shutdown cleanup failed", log.FieldError, err)
	}
	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		app.Logger.Error("Bill reminder stopped with error", log.FieldError, runErr)
		os.Exit(1)
	}
	app.Logger.Info("Bill-reminder shutdown complete")
}
