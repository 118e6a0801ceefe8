package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"moneyleft/internal/amqp"
	"moneyleft/internal/core"
)

// CashFlowService records ledger entries. Categories are normalised here, once,
// so that every later grouping sees a single spelling.
type CashFlowService struct {
	store LedgerStore
	opts  options
}

type CashFlow struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	// Date defaults to today when zero.
	Date core.Date
}

func NewCashFlowService(store LedgerStore, opts ...Option) *CashFlowService {
	return &CashFlowService{store: store, opts: buildOptions(opts)}
}

// Record stores cf dated today, ignoring any Date it carries.
func (s *CashFlowService) Record(ctx context.Context, cf CashFlow) (int64, error) {
	cf.Date = core.Date{}
	return s.RecordWithDate(ctx, cf)
}

func (s *CashFlowService) RecordWithDate(ctx context.Context, cf CashFlow) (int64, error) {
	e := core.LedgerEntry{
		Amount:      cf.Amount,
		Category:    core.NormalizeCategory(cf.Category),
		Description: cf.Description,
		Date:        cf.Date,
	}
	if e.Date.IsZero() {
		e.Date = core.DateOf(s.opts.now())
	}
	if err := e.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.InsertEntry(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("record cash flow: %w", err)
	}

	slog.InfoContext(ctx, "Cash flow recorded",
		"id", id,
		"category", e.Category,
		"amount", e.Amount.String(),
		"date", e.Date.String())
	s.opts.notify(ctx, amqp.Event{
		Type:     amqp.EventEntryRecorded,
		ID:       id,
		Category: e.Category,
		Amount:   e.Amount,
		Date:     e.Date.String(),
	})
	return id, nil
}
