// Package memory is a mutex-guarded, process-local ledger store with the same
// ordering and filtering semantics as the SQLite repository.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"moneyleft/internal/core"
)

type Store struct {
	mu         sync.Mutex
	now        func() time.Time
	nextID     int64
	entries    []core.LedgerEntry
	debts      []core.DebtEntry
	deductions []core.TaxDeduction
	bills      []core.MonthlySpendingItem
	trades     []core.BitcoinTrade
	closed     bool
}

func New() *Store {
	return NewWithClock(time.Now)
}

// NewWithClock uses now to resolve Today, ThisMonth and ThisYear.
func NewWithClock(now func() time.Time) *Store {
	return &Store{now: now}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) check() error {
	if s.closed {
		return fmt.Errorf("%w: memory store closed", core.ErrStorageUnavailable)
	}
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.check()
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *Store) InsertEntry(_ context.Context, e core.LedgerEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return 0, err
	}
	e.ID = s.id()
	s.entries = append(s.entries, e)
	return e.ID, nil
}

func (s *Store) EntriesToday(_ context.Context) ([]core.LedgerEntry, error) {
	today := core.DateOf(s.now()).String()
	return s.filterEntries(func(e core.LedgerEntry) bool { return e.Date.String() == today })
}

func (s *Store) EntriesThisMonth(_ context.Context) ([]core.LedgerEntry, error) {
	prefix := core.DateOf(s.now()).Format("2006-01-")
	return s.filterEntries(func(e core.LedgerEntry) bool { return strings.HasPrefix(e.Date.String(), prefix) })
}

func (s *Store) EntriesThisYear(_ context.Context) ([]core.LedgerEntry, error) {
	prefix := core.DateOf(s.now()).Format("2006-")
	return s.filterEntries(func(e core.LedgerEntry) bool { return strings.HasPrefix(e.Date.String(), prefix) })
}

func (s *Store) AllEntries(_ context.Context) ([]core.LedgerEntry, error) {
	return s.filterEntries(func(core.LedgerEntry) bool { return true })
}

func (s *Store) EntriesBetween(_ context.Context, start, end core.Date) ([]core.LedgerEntry, error) {
	return s.filterEntries(func(e core.LedgerEntry) bool {
		return !e.Date.Before(start.Time) && !e.Date.After(end.Time)
	})
}

func (s *Store) IncomeByYear(_ context.Context, year int) ([]core.LedgerEntry, error) {
	return s.filterEntries(func(e core.LedgerEntry) bool {
		return e.Amount.IsPositive() && e.Date.Year() == year
	})
}

// filterEntries returns matches newest first, ties broken by id descending.
func (s *Store) filterEntries(keep func(core.LedgerEntry) bool) ([]core.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := make([]core.LedgerEntry, 0)
	for _, e := range s.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) InsertDebt(_ context.Context, e core.DebtEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return 0, err
	}
	e.ID = s.id()
	s.debts = append(s.debts, e)
	return e.ID, nil
}

func (s *Store) AllDebts(_ context.Context) ([]core.DebtEntry, error) {
	return s.filterDebts(func(core.DebtEntry) bool { return true })
}

func (s *Store) DebtsByCounterparty(_ context.Context, who string) ([]core.DebtEntry, error) {
	return s.filterDebts(func(e core.DebtEntry) bool { return e.Who == who })
}

func (s *Store) filterDebts(keep func(core.DebtEntry) bool) ([]core.DebtEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := make([]core.DebtEntry, 0)
	for i := len(s.debts) - 1; i >= 0; i-- {
		if keep(s.debts[i]) {
			out = append(out, s.debts[i])
		}
	}
	return out, nil
}

func (s *Store) InsertDeduction(_ context.Context, d core.TaxDeduction) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return 0, err
	}
	d.ID = s.id()
	s.deductions = append(s.deductions, d)
	return d.ID, nil
}

// AllDeductions returns deductions newest first.
func (s *Store) AllDeductions(_ context.Context) ([]core.TaxDeduction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := make([]core.TaxDeduction, 0, len(s.deductions))
	for i := len(s.deductions) - 1; i >= 0; i-- {
		out = append(out, s.deductions[i])
	}
	return out, nil
}

func (s *Store) DeleteDeduction(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	for i, d := range s.deductions {
		if d.ID == id {
			s.deductions = append(s.deductions[:i], s.deductions[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("deduction %d: %w", id, core.ErrNotFound)
}

func (s *Store) InsertMonthlySpending(_ context.Context, m core.MonthlySpendingItem) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return 0, err
	}
	m.ID = s.id()
	s.bills = append(s.bills, m)
	return m.ID, nil
}

// AllMonthlySpending returns items by due day, then insertion order.
func (s *Store) AllMonthlySpending(_ context.Context) ([]core.MonthlySpendingItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := append([]core.MonthlySpendingItem(nil), s.bills...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDay < out[j].DueDay })
	return out, nil
}

func (s *Store) DeleteMonthlySpending(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return err
	}
	for i, m := range s.bills {
		if m.ID == id {
			s.bills = append(s.bills[:i], s.bills[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("monthly spending %d: %w", id, core.ErrNotFound)
}

func (s *Store) InsertTrade(_ context.Context, t core.BitcoinTrade) (int64, error) {
	if t.Side != core.Buy && t.Side != core.Sell {
		return 0, core.ErrInvalidTradeSide
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return 0, err
	}
	t.ID = s.id()
	s.trades = append(s.trades, t)
	return t.ID, nil
}

func (s *Store) Trades(_ context.Context, side core.TradeSide) ([]core.BitcoinTrade, error) {
	if side != core.Buy && side != core.Sell {
		return nil, core.ErrInvalidTradeSide
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.check(); err != nil {
		return nil, err
	}
	out := make([]core.BitcoinTrade, 0)
	for _, t := range s.trades {
		if t.Side == side {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date.Time) {
			return out[i].Date.After(out[j].Date.Time)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}
