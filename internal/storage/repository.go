package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"moneyleft/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository implements every ledger store on one SQLite database.
// database/sql checks a pooled connection out per call and returns it on
// every path.
type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
	now     func() time.Time
}

type Option func(*SQLiteRepository)

// WithClock sets the clock used to resolve Today, ThisMonth and ThisYear.
func WithClock(now func() time.Time) Option {
	return func(r *SQLiteRepository) { r.now = now }
}

func NewSQLiteRepository(dbPath string, opts ...Option) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		queries: New(db),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(repo)
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *SQLiteRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", core.ErrStorageUnavailable, op, err)
}

func (r *SQLiteRepository) today() core.Date {
	return core.DateOf(r.now())
}

// InsertEntry implements services.LedgerStore
func (r *SQLiteRepository) InsertEntry(ctx context.Context, e core.LedgerEntry) (int64, error) {
	id, err := r.queries.CreateLedgerEntry(ctx, CreateLedgerEntryParams{
		Amount:      e.Amount.String(),
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date.String(),
	})
	if err != nil {
		return 0, unavailable("create ledger entry", err)
	}

	slog.DebugContext(ctx, "Ledger entry saved to SQLite", "id", id, "date", e.Date.String())
	return id, nil
}

func (r *SQLiteRepository) EntriesToday(ctx context.Context) ([]core.LedgerEntry, error) {
	return r.entries(r.queries.ListLedgerByDate(ctx, r.today().String()))
}

func (r *SQLiteRepository) EntriesThisMonth(ctx context.Context) ([]core.LedgerEntry, error) {
	return r.entries(r.queries.ListLedgerByPrefix(ctx, r.today().Format("2006-01-")))
}

func (r *SQLiteRepository) EntriesThisYear(ctx context.Context) ([]core.LedgerEntry, error) {
	return r.entries(r.queries.ListLedgerByPrefix(ctx, r.today().Format("2006-")))
}

func (r *SQLiteRepository) AllEntries(ctx context.Context) ([]core.LedgerEntry, error) {
	return r.entries(r.queries.ListLedgerAll(ctx))
}

func (r *SQLiteRepository) EntriesBetween(ctx context.Context, start, end core.Date) ([]core.LedgerEntry, error) {
	return r.entries(r.queries.ListLedgerBetween(ctx, start.String(), end.String()))
}

func (r *SQLiteRepository) IncomeByYear(ctx context.Context, year int) ([]core.LedgerEntry, error) {
	return r.entries(r.queries.ListIncomeByYear(ctx, fmt.Sprintf("%04d-", year)))
}

func (r *SQLiteRepository) entries(rows []LedgerRow, err error) ([]core.LedgerEntry, error) {
	if err != nil {
		return nil, unavailable("list ledger entries", err)
	}
	out := make([]core.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		amount, date, err := decodeAmountDate(row.Amount, row.Date)
		if err != nil {
			return nil, unavailable("decode ledger entry "+strconv.FormatInt(row.ID, 10), err)
		}
		out = append(out, core.LedgerEntry{
			ID:          row.ID,
			Amount:      amount,
			Category:    row.Category,
			Description: row.Description,
			Date:        date,
		})
	}
	return out, nil
}

// InsertDebt implements services.DebtStore
func (r *SQLiteRepository) InsertDebt(ctx context.Context, e core.DebtEntry) (int64, error) {
	id, err := r.queries.CreateDebt(ctx, CreateDebtParams{
		Amount:      e.Amount.String(),
		Category:    e.Category,
		Description: e.Description,
		Who:         e.Who,
		Date:        e.Date.String(),
	})
	if err != nil {
		return 0, unavailable("create debt", err)
	}
	return id, nil
}

func (r *SQLiteRepository) AllDebts(ctx context.Context) ([]core.DebtEntry, error) {
	return r.debts(r.queries.ListDebts(ctx))
}

func (r *SQLiteRepository) DebtsByCounterparty(ctx context.Context, who string) ([]core.DebtEntry, error) {
	return r.debts(r.queries.ListDebtsByWho(ctx, who))
}

func (r *SQLiteRepository) debts(rows []DebtRow, err error) ([]core.DebtEntry, error) {
	if err != nil {
		return nil, unavailable("list debts", err)
	}
	out := make([]core.DebtEntry, 0, len(rows))
	for _, row := range rows {
		amount, date, err := decodeAmountDate(row.Amount, row.Date)
		if err != nil {
			return nil, unavailable("decode debt "+strconv.FormatInt(row.ID, 10), err)
		}
		out = append(out, core.DebtEntry{
			ID:          row.ID,
			Amount:      amount,
			Category:    row.Category,
			Description: row.Description,
			Who:         row.Who,
			Date:        date,
		})
	}
	return out, nil
}

// InsertDeduction implements services.DeductionStore
func (r *SQLiteRepository) InsertDeduction(ctx context.Context, d core.TaxDeduction) (int64, error) {
	id, err := r.queries.CreateDeduction(ctx, CreateDeductionParams{Title: d.Title, Amount: d.Amount.String()})
	if err != nil {
		return 0, unavailable("create deduction", err)
	}
	return id, nil
}

func (r *SQLiteRepository) AllDeductions(ctx context.Context) ([]core.TaxDeduction, error) {
	rows, err := r.queries.ListDeductions(ctx)
	if err != nil {
		return nil, unavailable("list deductions", err)
	}
	out := make([]core.TaxDeduction, 0, len(rows))
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, unavailable("decode deduction "+strconv.FormatInt(row.ID, 10), err)
		}
		out = append(out, core.TaxDeduction{ID: row.ID, Title: row.Title, Amount: amount})
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteDeduction(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteDeduction(ctx, id)
	if err != nil {
		return unavailable("delete deduction", err)
	}
	if n == 0 {
		return fmt.Errorf("deduction %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// InsertMonthlySpending implements services.MonthlySpendingStore
func (r *SQLiteRepository) InsertMonthlySpending(ctx context.Context, m core.MonthlySpendingItem) (int64, error) {
	id, err := r.queries.CreateMonthlySpending(ctx, CreateMonthlySpendingParams{
		Title:  m.Title,
		Amount: m.Amount.String(),
		DueDay: int64(m.DueDay),
	})
	if err != nil {
		return 0, unavailable("create monthly spending", err)
	}
	return id, nil
}

func (r *SQLiteRepository) AllMonthlySpending(ctx context.Context) ([]core.MonthlySpendingItem, error) {
	rows, err := r.queries.ListMonthlySpending(ctx)
	if err != nil {
		return nil, unavailable("list monthly spending", err)
	}
	out := make([]core.MonthlySpendingItem, 0, len(rows))
	for _, row := range rows {
		amount, err := decimal.NewFromString(row.Amount)
		if err != nil {
			return nil, unavailable("decode monthly spending "+strconv.FormatInt(row.ID, 10), err)
		}
		out = append(out, core.MonthlySpendingItem{
			ID:     row.ID,
			Title:  row.Title,
			Amount: amount,
			DueDay: int(row.DueDay),
		})
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteMonthlySpending(ctx context.Context, id int64) error {
	n, err := r.queries.DeleteMonthlySpending(ctx, id)
	if err != nil {
		return unavailable("delete monthly spending", err)
	}
	if n == 0 {
		return fmt.Errorf("monthly spending %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// InsertTrade implements services.BitcoinStore
func (r *SQLiteRepository) InsertTrade(ctx context.Context, t core.BitcoinTrade) (int64, error) {
	params := CreateBitcoinTradeParams{
		Amount: t.Amount.String(),
		Price:  t.Price.String(),
		Cost:   t.Cost.String(),
		Date:   t.Date.String(),
	}

	var (
		id  int64
		err error
	)
	switch t.Side {
	case core.Buy:
		id, err = r.queries.CreateBitcoinBuy(ctx, params)
	case core.Sell:
		id, err = r.queries.CreateBitcoinSell(ctx, params)
	default:
		return 0, core.ErrInvalidTradeSide
	}
	if err != nil {
		return 0, unavailable("create bitcoin "+string(t.Side), err)
	}
	return id, nil
}

func (r *SQLiteRepository) Trades(ctx context.Context, side core.TradeSide) ([]core.BitcoinTrade, error) {
	var (
		rows []BitcoinRow
		err  error
	)
	switch side {
	case core.Buy:
		rows, err = r.queries.ListBitcoinBuys(ctx)
	case core.Sell:
		rows, err = r.queries.ListBitcoinSells(ctx)
	default:
		return nil, core.ErrInvalidTradeSide
	}
	if err != nil {
		return nil, unavailable("list bitcoin "+string(side), err)
	}

	out := make([]core.BitcoinTrade, 0, len(rows))
	for _, row := range rows {
		t, err := decodeTrade(side, row)
		if err != nil {
			return nil, unavailable("decode bitcoin trade "+strconv.FormatInt(row.ID, 10), err)
		}
		out = append(out, t)
	}
	return out, nil
}

func decodeTrade(side core.TradeSide, row BitcoinRow) (core.BitcoinTrade, error) {
	amount, date, err := decodeAmountDate(row.Amount, row.Date)
	if err != nil {
		return core.BitcoinTrade{}, err
	}
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		return core.BitcoinTrade{}, fmt.Errorf("price: %w", err)
	}
	cost, err := decimal.NewFromString(row.Cost)
	if err != nil {
		return core.BitcoinTrade{}, fmt.Errorf("cost: %w", err)
	}
	return core.BitcoinTrade{
		ID:     row.ID,
		Side:   side,
		Amount: amount,
		Price:  price,
		Cost:   cost,
		Date:   date,
	}, nil
}

func decodeAmountDate(amount, date string) (decimal.Decimal, core.Date, error) {
	a, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, core.Date{}, fmt.Errorf("amount: %w", err)
	}
	d, err := core.ParseDate(date)
	if err != nil {
		return decimal.Zero, core.Date{}, fmt.Errorf("date: %w", err)
	}
	return a, d, nil
}
