package services

import (
	"context"
	"log/slog"
	"time"

	"moneyleft/internal/amqp"
)

// Publisher sends ledger events to a broker.
type Publisher interface {
	Publish(ctx context.Context, ev amqp.Event) error
}

type Option func(*options)

type options struct {
	publisher Publisher
	now       func() time.Time
}

// WithPublisher enables best-effort event publishing after successful writes.
func WithPublisher(p Publisher) Option {
	return func(o *options) { o.publisher = p }
}

// WithClock overrides the clock used to date entries recorded "today".
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// notify publishes ev. Failures are logged only: the write it describes has
// already been persisted.
func (o options) notify(ctx context.Context, ev amqp.Event) {
	if o.publisher == nil {
		slog.DebugContext(ctx, "Event publisher not available, skipping event", "type", ev.Type)
		return
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = o.now()
	}
	if err := o.publisher.Publish(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event",
			"type", ev.Type,
			"id", ev.ID,
			"error", err)
	}
}
