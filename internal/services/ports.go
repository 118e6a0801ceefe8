package services

import (
	"context"

	"moneyleft/internal/core"
)

// RangeStore fetches ledger entries by time window. Every method returns
// entries ordered by date descending.
type RangeStore interface {
	EntriesToday(ctx context.Context) ([]core.LedgerEntry, error)
	EntriesThisMonth(ctx context.Context) ([]core.LedgerEntry, error)
	EntriesThisYear(ctx context.Context) ([]core.LedgerEntry, error)
	AllEntries(ctx context.Context) ([]core.LedgerEntry, error)
	// EntriesBetween includes both bounds.
	EntriesBetween(ctx context.Context, start, end core.Date) ([]core.LedgerEntry, error)
}

// IncomeStore returns the entries with a strictly positive amount dated in year.
type IncomeStore interface {
	IncomeByYear(ctx context.Context, year int) ([]core.LedgerEntry, error)
}

type LedgerStore interface {
	RangeStore
	IncomeStore
	InsertEntry(ctx context.Context, e core.LedgerEntry) (int64, error)
}

type DebtStore interface {
	InsertDebt(ctx context.Context, e core.DebtEntry) (int64, error)
	AllDebts(ctx context.Context) ([]core.DebtEntry, error)
	DebtsByCounterparty(ctx context.Context, who string) ([]core.DebtEntry, error)
}

// DeductionStore returns deductions newest first. DeleteDeduction reports
// core.ErrNotFound when id matched nothing.
type DeductionStore interface {
	InsertDeduction(ctx context.Context, d core.TaxDeduction) (int64, error)
	AllDeductions(ctx context.Context) ([]core.TaxDeduction, error)
	DeleteDeduction(ctx context.Context, id int64) error
}

// MonthlySpendingStore returns items ordered by due day ascending.
type MonthlySpendingStore interface {
	InsertMonthlySpending(ctx context.Context, m core.MonthlySpendingItem) (int64, error)
	AllMonthlySpending(ctx context.Context) ([]core.MonthlySpendingItem, error)
	DeleteMonthlySpending(ctx context.Context, id int64) error
}

type BitcoinStore interface {
	InsertTrade(ctx context.Context, t core.BitcoinTrade) (int64, error)
	Trades(ctx context.Context, side core.TradeSide) ([]core.BitcoinTrade, error)
}

// Store is everything a single backend provides.
type Store interface {
	LedgerStore
	DebtStore
	DeductionStore
	MonthlySpendingStore
	BitcoinStore
	Ping(ctx context.Context) error
	Close() error
}
