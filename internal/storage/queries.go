package storage

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

// Row types mirror the tables; amounts are decimal strings and dates are
// YYYY-MM-DD text so prefix matching works.

type LedgerRow struct {
	ID          int64
	Amount      string
	Category    string
	Description string
	Date        string
}

type DebtRow struct {
	ID          int64
	Amount      string
	Category    string
	Description string
	Who         string
	Date        string
}

type MonthlySpendingRow struct {
	ID     int64
	Title  string
	Amount string
	DueDay int64
}

type DeductionRow struct {
	ID     int64
	Title  string
	Amount string
}

type BitcoinRow struct {
	ID     int64
	Amount string
	Price  string
	Cost   string
	Date   string
}

const ledgerColumns = `id, amount, category, description, date`

const createLedgerEntry = `INSERT INTO my_ledger (amount, category, description, date)
VALUES (?, ?, ?, ?)
RETURNING id`

type CreateLedgerEntryParams struct {
	Amount      string
	Category    string
	Description string
	Date        string
}

func (q *Queries) CreateLedgerEntry(ctx context.Context, arg CreateLedgerEntryParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createLedgerEntry, arg.Amount, arg.Category, arg.Description, arg.Date)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listLedgerByDate = `SELECT ` + ledgerColumns + ` FROM my_ledger
WHERE date = ?
ORDER BY date DESC, id DESC`

func (q *Queries) ListLedgerByDate(ctx context.Context, date string) ([]LedgerRow, error) {
	return q.listLedger(ctx, listLedgerByDate, date)
}

const listLedgerByPrefix = `SELECT ` + ledgerColumns + ` FROM my_ledger
WHERE date LIKE ? || '%'
ORDER BY date DESC, id DESC`

// ListLedgerByPrefix matches dates starting with prefix, e.g. "2025-03-" or "2025-".
func (q *Queries) ListLedgerByPrefix(ctx context.Context, prefix string) ([]LedgerRow, error) {
	return q.listLedger(ctx, listLedgerByPrefix, prefix)
}

const listLedgerAll = `SELECT ` + ledgerColumns + ` FROM my_ledger
ORDER BY date DESC, id DESC`

func (q *Queries) ListLedgerAll(ctx context.Context) ([]LedgerRow, error) {
	return q.listLedger(ctx, listLedgerAll)
}

const listLedgerBetween = `SELECT ` + ledgerColumns + ` FROM my_ledger
WHERE date BETWEEN ? AND ?
ORDER BY date DESC, id DESC`

func (q *Queries) ListLedgerBetween(ctx context.Context, start, end string) ([]LedgerRow, error) {
	return q.listLedger(ctx, listLedgerBetween, start, end)
}

const listIncomeByYear = `SELECT ` + ledgerColumns + ` FROM my_ledger
WHERE CAST(amount AS REAL) > 0 AND date LIKE ? || '%'
ORDER BY date DESC, id DESC`

// ListIncomeByYear takes a "YYYY-" prefix.
func (q *Queries) ListIncomeByYear(ctx context.Context, yearPrefix string) ([]LedgerRow, error) {
	return q.listLedger(ctx, listIncomeByYear, yearPrefix)
}

func (q *Queries) listLedger(ctx context.Context, query string, args ...interface{}) ([]LedgerRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []LedgerRow
	for rows.Next() {
		var i LedgerRow
		if err := rows.Scan(&i.ID, &i.Amount, &i.Category, &i.Description, &i.Date); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createDebt = `INSERT INTO debt_ledger (amount, category, description, who, date)
VALUES (?, ?, ?, ?, ?)
RETURNING id`

type CreateDebtParams struct {
	Amount      string
	Category    string
	Description string
	Who         string
	Date        string
}

func (q *Queries) CreateDebt(ctx context.Context, arg CreateDebtParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createDebt, arg.Amount, arg.Category, arg.Description, arg.Who, arg.Date)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const debtColumns = `id, amount, category, description, who, date`

const listDebts = `SELECT ` + debtColumns + ` FROM debt_ledger
ORDER BY date DESC, id DESC`

func (q *Queries) ListDebts(ctx context.Context) ([]DebtRow, error) {
	return q.listDebts(ctx, listDebts)
}

const listDebtsByWho = `SELECT ` + debtColumns + ` FROM debt_ledger
WHERE who = ?
ORDER BY date DESC, id DESC`

func (q *Queries) ListDebtsByWho(ctx context.Context, who string) ([]DebtRow, error) {
	return q.listDebts(ctx, listDebtsByWho, who)
}

func (q *Queries) listDebts(ctx context.Context, query string, args ...interface{}) ([]DebtRow, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DebtRow
	for rows.Next() {
		var i DebtRow
		if err := rows.Scan(&i.ID, &i.Amount, &i.Category, &i.Description, &i.Who, &i.Date); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createMonthlySpending = `INSERT INTO monthly_spending (title, amount, due_day)
VALUES (?, ?, ?)
RETURNING id`

type CreateMonthlySpendingParams struct {
	Title  string
	Amount string
	DueDay int64
}

func (q *Queries) CreateMonthlySpending(ctx context.Context, arg CreateMonthlySpendingParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createMonthlySpending, arg.Title, arg.Amount, arg.DueDay)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listMonthlySpending = `SELECT id, title, amount, due_day FROM monthly_spending
ORDER BY due_day ASC, id ASC`

func (q *Queries) ListMonthlySpending(ctx context.Context) ([]MonthlySpendingRow, error) {
	rows, err := q.db.QueryContext(ctx, listMonthlySpending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []MonthlySpendingRow
	for rows.Next() {
		var i MonthlySpendingRow
		if err := rows.Scan(&i.ID, &i.Title, &i.Amount, &i.DueDay); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteMonthlySpending = `DELETE FROM monthly_spending WHERE id = ?`

func (q *Queries) DeleteMonthlySpending(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteMonthlySpending, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createDeduction = `INSERT INTO tax_deductions_list (title, amount)
VALUES (?, ?)
RETURNING id`

type CreateDeductionParams struct {
	Title  string
	Amount string
}

func (q *Queries) CreateDeduction(ctx context.Context, arg CreateDeductionParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createDeduction, arg.Title, arg.Amount)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listDeductions = `SELECT id, title, amount FROM tax_deductions_list
ORDER BY id DESC`

func (q *Queries) ListDeductions(ctx context.Context) ([]DeductionRow, error) {
	rows, err := q.db.QueryContext(ctx, listDeductions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DeductionRow
	for rows.Next() {
		var i DeductionRow
		if err := rows.Scan(&i.ID, &i.Title, &i.Amount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteDeduction = `DELETE FROM tax_deductions_list WHERE id = ?`

func (q *Queries) DeleteDeduction(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDeduction, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const createBitcoinBuy = `INSERT INTO bitcoin_buy_ledger (amount, price, cost, date)
VALUES (?, ?, ?, ?)
RETURNING id`

const createBitcoinSell = `INSERT INTO bitcoin_sell_ledger (amount, price, cost, date)
VALUES (?, ?, ?, ?)
RETURNING id`

type CreateBitcoinTradeParams struct {
	Amount string
	Price  string
	Cost   string
	Date   string
}

func (q *Queries) CreateBitcoinBuy(ctx context.Context, arg CreateBitcoinTradeParams) (int64, error) {
	return q.createBitcoinTrade(ctx, createBitcoinBuy, arg)
}

func (q *Queries) CreateBitcoinSell(ctx context.Context, arg CreateBitcoinTradeParams) (int64, error) {
	return q.createBitcoinTrade(ctx, createBitcoinSell, arg)
}

func (q *Queries) createBitcoinTrade(ctx context.Context, query string, arg CreateBitcoinTradeParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, query, arg.Amount, arg.Price, arg.Cost, arg.Date)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const listBitcoinBuys = `SELECT id, amount, price, cost, date FROM bitcoin_buy_ledger
ORDER BY date DESC, id DESC`

const listBitcoinSells = `SELECT id, amount, price, cost, date FROM bitcoin_sell_ledger
ORDER BY date DESC, id DESC`

func (q *Queries) ListBitcoinBuys(ctx context.Context) ([]BitcoinRow, error) {
	return q.listBitcoinTrades(ctx, listBitcoinBuys)
}

func (q *Queries) ListBitcoinSells(ctx context.Context) ([]BitcoinRow, error) {
	return q.listBitcoinTrades(ctx, listBitcoinSells)
}

func (q *Queries) listBitcoinTrades(ctx context.Context, query string) ([]BitcoinRow, error) {
	rows, err := q.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BitcoinRow
	for rows.Next() {
		var i BitcoinRow
		if err := rows.Scan(&i.ID, &i.Amount, &i.Price, &i.Cost, &i.Date); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
