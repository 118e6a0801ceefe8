package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"moneyleft/internal/amqp"
	"moneyleft/internal/core"
)

// DebtService nets signed debt entries per counterparty. The debt ledger is
// append-only: a repayment is a new negative entry, never a delete.
type DebtService struct {
	store DebtStore
	opts  options
}

// PaidDebt is a repayment received from Who.
type PaidDebt struct {
	Amount decimal.Decimal
	Who    string
	Date   core.Date
}

func NewDebtService(store DebtStore, opts ...Option) *DebtService {
	return &DebtService{store: store, opts: buildOptions(opts)}
}

// ViewAll returns one net balance per distinct counterparty, sorted by name.
func (s *DebtService) ViewAll(ctx context.Context) ([]core.DebtBalance, error) {
	entries, err := s.store.AllDebts(ctx)
	if err != nil {
		return nil, fmt.Errorf("view all debts: %w", err)
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		totals[e.Who] = totals[e.Who].Add(e.Amount)
	}

	balances := make([]core.DebtBalance, 0, len(totals))
	for who, amount := range totals {
		balances = append(balances, core.DebtBalance{Who: who, Amount: amount})
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].Who < balances[j].Who })

	slog.DebugContext(ctx, "Debts netted", "entries", len(entries), "counterparties", len(balances))
	return balances, nil
}

// ViewByCounterparty sums every entry for who, matched exactly. ok is false
// when who has no entries at all.
//
// Unlike the other read paths, a storage failure here is not reported as
// "no result": it is returned as an error, so an unreachable store never
// reads as a counterparty with no debts.
func (s *DebtService) ViewByCounterparty(ctx context.Context, who string) (core.DebtBalance, bool, error) {
	entries, err := s.store.DebtsByCounterparty(ctx, who)
	if err != nil {
		return core.DebtBalance{}, false, fmt.Errorf("view debts of %q: %w", who, err)
	}
	if len(entries) == 0 {
		return core.DebtBalance{}, false, nil
	}

	total := core.Sum(entries, func(e core.DebtEntry) decimal.Decimal { return e.Amount })
	return core.DebtBalance{Who: who, Amount: total}, true, nil
}

// RecordDebt stores money owed to the ledger owner. A zero Date means today.
func (s *DebtService) RecordDebt(ctx context.Context, e core.DebtEntry) (int64, error) {
	if !e.Amount.IsPositive() {
		return 0, core.ErrInvalidAmount
	}
	if e.Date.IsZero() {
		e.Date = core.DateOf(s.opts.now())
	}
	e.Who = strings.TrimSpace(e.Who)

	id, err := s.insert(ctx, e)
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Debt recorded",
		"id", id,
		"counterparty", e.Who,
		"amount", e.Amount.String(),
		"date", e.Date.String())
	s.opts.notify(ctx, amqp.Event{Type: amqp.EventDebtRecorded, ID: id, Who: e.Who, Amount: e.Amount, Date: e.Date.String()})
	return id, nil
}

// RecordPaidDebt stores a repayment as the negated amount, with the fixed
// "Paid Debt" marker as category and description.
func (s *DebtService) RecordPaidDebt(ctx context.Context, p PaidDebt) (int64, error) {
	if !p.Amount.IsPositive() {
		return 0, core.ErrInvalidAmount
	}
	if p.Date.IsZero() {
		p.Date = core.DateOf(s.opts.now())
	}

	e := core.DebtEntry{
		Amount:      p.Amount.Neg(),
		Category:    core.PaidDebtMarker,
		Description: core.PaidDebtMarker,
		Who:         strings.TrimSpace(p.Who),
		Date:        p.Date,
	}
	id, err := s.insert(ctx, e)
	if err != nil {
		return 0, err
	}

	slog.InfoContext(ctx, "Debt payment recorded",
		"id", id,
		"counterparty", e.Who,
		"amount", e.Amount.String(),
		"date", e.Date.String())
	s.opts.notify(ctx, amqp.Event{Type: amqp.EventDebtPaid, ID: id, Who: e.Who, Amount: e.Amount, Date: e.Date.String()})
	return id, nil
}

func (s *DebtService) insert(ctx context.Context, e core.DebtEntry) (int64, error) {
	if err := e.Validate(); err != nil {
		return 0, err
	}
	id, err := s.store.InsertDebt(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("record debt: %w", err)
	}
	return id, nil
}
