package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"moneyleft/internal/amqp"
	"moneyleft/internal/core"
)

var errDown = fmt.Errorf("%w: connection refused", core.ErrStorageUnavailable)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// fakeRangeStore returns canned entries and records which fetch was used.
type fakeRangeStore struct {
	entries []core.LedgerEntry
	err     error
	calls   []string
	start   core.Date
	end     core.Date
}

func (f *fakeRangeStore) fetch(name string) ([]core.LedgerEntry, error) {
	f.calls = append(f.calls, name)
	if f.err != nil {
		return nil, f.err
	}
	return f.entries, nil
}

func (f *fakeRangeStore) EntriesToday(context.Context) ([]core.LedgerEntry, error) {
	return f.fetch("today")
}

func (f *fakeRangeStore) EntriesThisMonth(context.Context) ([]core.LedgerEntry, error) {
	return f.fetch("month")
}

func (f *fakeRangeStore) EntriesThisYear(context.Context) ([]core.LedgerEntry, error) {
	return f.fetch("year")
}

func (f *fakeRangeStore) AllEntries(context.Context) ([]core.LedgerEntry, error) {
	return f.fetch("lifetime")
}

func (f *fakeRangeStore) EntriesBetween(_ context.Context, start, end core.Date) ([]core.LedgerEntry, error) {
	f.start, f.end = start, end
	return f.fetch("between")
}

type fakeIncomeStore struct {
	income []core.LedgerEntry
	err    error
	year   int
}

func (f *fakeIncomeStore) IncomeByYear(_ context.Context, year int) ([]core.LedgerEntry, error) {
	f.year = year
	return f.income, f.err
}

type fakeLedgerStore struct {
	fakeRangeStore
	fakeIncomeStore
	inserted []core.LedgerEntry
	err      error
}

func (f *fakeLedgerStore) InsertEntry(_ context.Context, e core.LedgerEntry) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, e)
	return int64(len(f.inserted)), nil
}

type fakeDebtStore struct {
	entries  []core.DebtEntry
	err      error
	inserted []core.DebtEntry
}

func (f *fakeDebtStore) InsertDebt(_ context.Context, e core.DebtEntry) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.inserted = append(f.inserted, e)
	return int64(len(f.inserted)), nil
}

func (f *fakeDebtStore) AllDebts(context.Context) ([]core.DebtEntry, error) {
	return f.entries, f.err
}

func (f *fakeDebtStore) DebtsByCounterparty(_ context.Context, who string) ([]core.DebtEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.DebtEntry
	for _, e := range f.entries {
		if e.Who == who {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeDeductionStore struct {
	list      []core.TaxDeduction
	err       error
	deleteErr error
	deleted   []int64
}

func (f *fakeDeductionStore) InsertDeduction(_ context.Context, d core.TaxDeduction) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	d.ID = int64(len(f.list) + 1)
	f.list = append(f.list, d)
	return d.ID, nil
}

func (f *fakeDeductionStore) AllDeductions(context.Context) ([]core.TaxDeduction, error) {
	return f.list, f.err
}

func (f *fakeDeductionStore) DeleteDeduction(_ context.Context, id int64) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeBillStore struct {
	items []core.MonthlySpendingItem
	err   error
}

func (f *fakeBillStore) InsertMonthlySpending(_ context.Context, m core.MonthlySpendingItem) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	m.ID = int64(len(f.items) + 1)
	f.items = append(f.items, m)
	return m.ID, nil
}

func (f *fakeBillStore) AllMonthlySpending(context.Context) ([]core.MonthlySpendingItem, error) {
	return f.items, f.err
}

func (f *fakeBillStore) DeleteMonthlySpending(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	for i, m := range f.items {
		if m.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// recordingPublisher captures events; failing makes every publish error.
type recordingPublisher struct {
	mu      sync.Mutex
	events  []amqp.Event
	failing bool
}

func (p *recordingPublisher) Publish(_ context.Context, ev amqp.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failing {
		return errors.New("circuit breaker is open")
	}
	p.events = append(p.events, ev)
	return nil
}

type fakeBitcoinStore struct {
	trades []core.BitcoinTrade
	err    error
}

func (f *fakeBitcoinStore) InsertTrade(_ context.Context, t core.BitcoinTrade) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	t.ID = int64(len(f.trades) + 1)
	f.trades = append(f.trades, t)
	return t.ID, nil
}

func (f *fakeBitcoinStore) Trades(_ context.Context, side core.TradeSide) ([]core.BitcoinTrade, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []core.BitcoinTrade
	for _, t := range f.trades {
		if t.Side == side {
			out = append(out, t)
		}
	}
	return out, nil
}
