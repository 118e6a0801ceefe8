package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"moneyleft/internal/amqp"
	"moneyleft/internal/log"
)

// EventSource delivers ledger events until ctx is done.
type EventSource interface {
	Consume(ctx context.Context, handler func(*amqp.Event) error) error
}

// EventPrinter writes each consumed event as one JSON line. Filter, if set,
// limits output to the listed event types.
type EventPrinter struct {
	mu     sync.Mutex
	enc    *json.Encoder
	filter map[amqp.EventType]bool
	logger *log.Logger
	count  int
}

func NewEventPrinter(w io.Writer, logger *log.Logger, types ...amqp.EventType) *EventPrinter {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	p := &EventPrinter{enc: json.NewEncoder(w), logger: logger.WithComponent(log.ComponentAMQP)}
	if len(types) > 0 {
		p.filter = make(map[amqp.EventType]bool, len(types))
		for _, t := range types {
			p.filter[t] = true
		}
	}
	return p
}

// HandleEvent is an amqp consumer handler. A write failure requeues the event.
func (p *EventPrinter) HandleEvent(ev *amqp.Event) error {
	if p.filter != nil && !p.filter[ev.Type] {
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.enc.Encode(ev); err != nil {
		return fmt.Errorf("write event %s/%d: %w", ev.Type, ev.ID, err)
	}
	p.count++
	p.logger.Debug("Event delivered", "type", ev.Type, "id", ev.ID)
	return nil
}

func (p *EventPrinter) Count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.count
}

// Tail consumes from src into p until ctx is done.
func (p *EventPrinter) Tail(ctx context.Context, src EventSource) error {
	err := src.Consume(ctx, p.HandleEvent)
	if ctx.Err() != nil {
		return nil
	}
	return err
}
