package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moneyleft/internal/core"
	"moneyleft/internal/log"
	"moneyleft/internal/services"
)

// DueBillNotifier announces the bills due on a day.
type DueBillNotifier interface {
	NotifyDueBills(ctx context.Context, day core.Date, checker services.DuenessChecker) (int, error)
}

// ReminderWorker announces due monthly bills once at start and then every
// interval.
type ReminderWorker struct {
	notifier DueBillNotifier
	checker  services.DuenessChecker
	interval time.Duration
	now      func() time.Time
	logger   *log.Logger
}

func NewReminderWorker(notifier DueBillNotifier, leadDays int, interval time.Duration, logger *log.Logger) (*ReminderWorker, error) {
	checker, err := services.GetDuenessChecker(leadDays)
	if err != nil {
		return nil, err
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: reminder interval must be positive", core.ErrInvalidInput)
	}
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	return &ReminderWorker{
		notifier: notifier,
		checker:  checker,
		interval: interval,
		now:      time.Now,
		logger:   logger.WithComponent(log.ComponentReminder),
	}, nil
}

// RunOnce announces the bills due today and returns how many there were.
func (w *ReminderWorker) RunOnce(ctx context.Context) (int, error) {
	today := core.DateOf(w.now())
	count, err := w.notifier.NotifyDueBills(ctx, today, w.checker)
	if err != nil {
		return 0, fmt.Errorf("notify due bills for %s: %w", today, err)
	}
	return count, nil
}

// Run blocks until ctx is done. A failed pass is logged and retried on the
// next tick.
func (w *ReminderWorker) Run(ctx context.Context) error {
	w.logger.Info("Bill reminder started", "interval", w.interval)
	w.tick(ctx, "Initial")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Bill reminder stopped")
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx, "Periodic")
		}
	}
}

func (w *ReminderWorker) tick(ctx context.Context, kind string) {
	count, err := w.RunOnce(ctx)
	if err != nil {
		w.logger.ErrorContext(ctx, kind+" reminder pass failed", log.FieldError, err)
		return
	}
	w.logger.InfoContext(ctx, kind+" reminder pass complete",
		"bills_due", count,
		"next_check", w.now().Add(w.interval).Format(time.DateTime))
}
