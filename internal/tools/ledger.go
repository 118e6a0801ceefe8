package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"moneyleft/internal/core"
	"moneyleft/internal/services"
)

type cashFlowArgs struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        core.Date       `json:"date"`
}

type rangeArgs struct {
	Filter *core.Range `json:"filter"`
}

type idArgs struct {
	ID *int64 `json:"id"`
}

type monthlySpendingArgs struct {
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
	DueDay int             `json:"due_day"`
}

type dueBillsArgs struct {
	Date     core.Date `json:"date"`
	LeadDays int       `json:"lead_days"`
}

type debtArgs struct {
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Who         string          `json:"who"`
	Date        core.Date       `json:"date"`
}

type paidDebtArgs struct {
	Amount decimal.Decimal `json:"amount"`
	Who    string          `json:"who"`
	Date   core.Date       `json:"date"`
}

type counterpartyArgs struct {
	Who string `json:"who"`
}

type tradeArgs struct {
	Amount decimal.Decimal `json:"amount"`
	Price  decimal.Decimal `json:"price"`
	Cost   decimal.Decimal `json:"cost"`
	Date   core.Date       `json:"date"`
}

type deductionArgs struct {
	Title  string          `json:"title"`
	Amount decimal.Decimal `json:"amount"`
}

type yearArgs struct {
	Year int `json:"year"`
}

// Created is the result of every tool that inserts a row.
type Created struct {
	ID int64 `json:"id"`
}

type Removed struct {
	Removed int64 `json:"removed"`
}

// CounterpartyBalance distinguishes "no entries" (Found false) from a zero
// net balance.
type CounterpartyBalance struct {
	Who    string           `json:"who"`
	Found  bool             `json:"found"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
}

// typed adapts a function over decoded arguments to a Handler.
func typed[T any](fn func(ctx context.Context, args T) (any, error)) Handler {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		args, err := decodeArgs[T](raw)
		if err != nil {
			return nil, err
		}
		return fn(ctx, args)
	}
}

func requireDate(d core.Date) error {
	if d.IsZero() {
		return fmt.Errorf("%w: date is required", core.ErrInvalidDate)
	}
	return nil
}

func requireID(id *int64) (int64, error) {
	if id == nil {
		return 0, fmt.Errorf("%w: id is required", core.ErrInvalidInput)
	}
	return *id, nil
}

func requireRange(r *core.Range) (core.Range, error) {
	if r == nil {
		return core.Range{}, fmt.Errorf("%w: filter is required", core.ErrInvalidInput)
	}
	return *r, nil
}

// RegisterLedgerTools adds every ledger tool to r.
func RegisterLedgerTools(r *Registry, s *Services) {
	registerCashFlow(r, s)
	registerSpending(r, s)
	registerDebts(r, s)
	registerBitcoin(r, s)
	registerTax(r, s)
}

func registerCashFlow(r *Registry, s *Services) {
	r.Register(Tool{
		Name:        "record_cash_flow",
		Description: "Record a cash flow ledger transaction dated today. Negative amounts are spending, positive are income.",
		Example:     json.RawMessage(`{"amount":-12.5,"category":"food","description":"lunch"}`),
		Mutates:     true,
		Handler: typed(func(ctx context.Context, a cashFlowArgs) (any, error) {
			id, err := s.CashFlow.Record(ctx, services.CashFlow{
				Amount:      a.Amount,
				Category:    a.Category,
				Description: a.Description,
			})
			return Created{ID: id}, err
		}),
	})
	r.Register(Tool{
		Name:        "record_cash_flow_with_date",
		Description: "Record a cash flow ledger transaction on a given date (YYYY-MM-DD).",
		Example:     json.RawMessage(`{"amount":2500,"category":"salary","description":"march","date":"2025-03-31"}`),
		Mutates:     true,
		Handler: typed(func(ctx context.Context, a cashFlowArgs) (any, error) {
			if err := requireDate(a.Date); err != nil {
				return nil, err
			}
			id, err := s.CashFlow.RecordWithDate(ctx, services.CashFlow{
				Amount:      a.Amount,
				Category:    a.Category,
				Description: a.Description,
				Date:        a.Date,
			})
			return Created{ID: id}, err
		}),
	})
}

func registerSpending(r *Registry, s *Services) {
	r.Register(Tool{
		Name:        "spending_scanner",
		Description: "List every ledger entry in a range: Today, ThisMonth, ThisYear, Lifetime or Custom with inclusive start and end dates.",
		Example:     json.RawMessage(`{"filter":{"type":"Custom","value":{"start":"2025-01-01","end":"2025-01-31"}}}`),
		Handler: typed(func(ctx context.Context, a rangeArgs) (any, error) {
			rng, err := requireRange(a.Filter)
			if err != nil {
				return nil, err
			}
			return s.Spending.Scan(ctx, rng)
		}),
	})
	r.Register(Tool{
		Name:        "spending_visualizer",
		Description: "Sum ledger amounts per category over a range.",
		Example:     json.RawMessage(`{"filter":{"type":"ThisMonth"}}`),
		Cacheable:   true,
		Handler: typed(func(ctx context.Context, a rangeArgs) (any, error) {
			rng, err := requireRange(a.Filter)
			if err != nil {
				return nil, err
			}
			return s.Spending.Visualize(ctx, rng)
		}),
	})
	r.Register(Tool{
		Name:        "view_all_monthly_spending_list",
		Description: "View all monthly bill reminders ordered by due day.",
		Example:     json.RawMessage(`{}`),
		Handler: typed(func(ctx context.Context, _ struct{}) (any, error) {
			return s.Spending.ListMonthlySpending(ctx)
		}),
	})
	r.Register(Tool{
		Name:        "add_monthly_spending",
		Description: "Add a monthly bill reminder due on a day of the month (1-31).",
		Example:     json.RawMessage(`{"title":"Rent","amount":900,"due_day":1}`),
		Mutates:     true,
		Handler: typed(func(ctx context.Context, a monthlySpendingArgs) (any, error) {
			id, err := s.Spending.AddMonthlySpending(ctx, core.MonthlySpendingItem{
				Title:  a.Title,
				Amount: a.Amount,
				DueDay: a.DueDay,
			})
			return Created{ID: id}, err
		}),
	})
	r.Register(Tool{
		Name:        "remove_monthly_spending",
		Description: "Remove a monthly bill reminder by id.",
		Example:     json.RawMessage(`{"id":1}`),
		Mutates:     true,
		Handler: typed(func(ctx context.Context, a idArgs) (any, error) {
			id, err := requireID(a.ID)
			if err != nil {
				return nil, err
			}
			if err := s.Spending.RemoveMonthlySpending(ctx, id); err != nil {
				return nil, err
			}
			return Removed{Removed: id}, nil
		}),
	})
	r.Register(Tool{
		Name:        "due_bills",
		Description: "List bill reminders due on a date (default today), or within lead_days of it.",
		Example:     json.RawMessage(`{"date":"2025-02-28","lead_days":3}`),
		Handler: typed(func(ctx context.Context, a dueBillsArgs) (any, error) {
			checker, err := services.GetDuenessChecker(a.LeadDays)
			if err != nil {
				return nil, err
			}
			day := a.Date
			if day.IsZero() {
				day = core.DateOf(s.Now())
			}
			return s.Spending.DueBills(ctx, day, checker)
		}),
	})
}

func registerDebts(r *Registry, s *Services) {
	recordDebt := func(ctx context.Context, a debtArgs) (any, error) {
		id, err := s.Debts.RecordDebt(ctx, core.DebtEntry{
			Amount:      a.Amount,
			Category:    a.Category,
			Description: a.Description,
			Who:         a.Who,
			Date:        a.Date,
		})
		return Created{ID: id}, err
	}

	r.Register(Tool{
		Name:        "record_debt",
		Description: "Record money a counterparty owes, dated today.",
		Example:     json.RawMessage(`{"amount":100,"category":"loan","description":"dinner","who":"Test User"}`),
		Mutates:     true,
		Handler: typed(func(ctx context.Context, a debtArgs) (any, error) {
			a.Date = core.Date{}
			return recordDebt(ctx, a)
		}),
	})
	r.Register(Tool{
		Name:        "record_debt_with_date",
		Description: "Record money a counterparty owes on a given date (YYYY-MM-DD).",
		Example:     json.RawMessage(`{"amount":400,"category":"loan","description":"rent share","who":"Test User","date":"2025-03-01"}`),
		Mutates:     true,
		Handler: typed(func(ctx context.Context, a debtArgs) (any, error) {
			if err := requireDate(a.Date); err != nil {
				return nil, err
			}
			return recordDebt(ctx, a)
		}),
	})
	r.Register(Tool{
		Name:        "record_paid_debt",
		Description: "Record a repayment received from a counterparty. Date defaults to today.",
		Example:     json.RawMessage(`{"amount":100,"who":"Test User","date":"2025-03-10"}`),
		Mutates:     true,
		Handler: typed(func(ctx context.Context, a paidDebtArgs) (any, error) {
			id, err := s.Debts.RecordPaidDebt(ctx, services.PaidDebt{Amount: a.Amount, Who: a.Who, Date: a.Date})
			return Created{ID: id}, err
		}),
	})
	r.Register(Tool{
		Name:        "view_all_debts",
		Description: "Net balance per counterparty.",
		Example:     json.RawMessage(`{}`),
		Cacheable:   true,
		Handler: typed(func(ctx context.Context, _ struct{}) (any, error) {
			return s.Debts.ViewAll(ctx)
		}),
	})
	r.Register(Tool{
		Name:        "view_debt_by_counterparty",
		Description: "Net balance for one counterparty, matched exactly.",
		Example:     json.RawMessage(`{"who":"Test User"}`),
		Handler: typed(func(ctx context.Context, a counterpartyArgs) (any, error) {
			balance, ok, err := s.Debts.ViewByCounterparty(ctx, a.Who)
			if err != nil {
				return nil, err
			}
			if !ok {
				return CounterpartyBalance{Who: a.Who}, nil
			}
			return CounterpartyBalance{Who: balance.Who, Found: true, Amount: &balance.Amount}, nil
		}),
	})
}

func registerBitcoin(r *Registry, s *Services) {
	trade := func(a tradeArgs) core.BitcoinTrade {
		return core.BitcoinTrade{Amount: a.Amount, Price: a.Price, Cost: a.Cost, Date: a.Date}
	}

	r.Register(Tool{
		Name:        "record_bitcoin_buy",
		Description: "Record a bitcoin purchase. Date defaults to today.",
		Example:     json.RawMessage(`{"amount":0.01,"price":60000,"cost":600,"date":"2025-07-01"}`),
		Mutates:     true,
		Handler: typed(func(ctx context.Context, a tradeArgs) (any, error) {
			id, err := s.Bitcoin.RecordBuy(ctx, trade(a))
			return Created{ID: id}, err
		}),
	})
	r.Register(Tool{
		Name:        "record_bitcoin_sell",
		Description: "Record a bitcoin sale. Date defaults to today.",
		Example:     json.RawMessage(`{"amount":0.005,"price":65000,"cost":325}`),
		Mutates:     true,
		Handler: typed(func(ctx context.Context, a tradeArgs) (any, error) {
			id, err := s.Bitcoin.RecordSell(ctx, trade(a))
			return Created{ID: id}, err
		}),
	})
	r.Register(Tool{
		Name:        "view_bitcoin_buys",
		Description: "List every recorded bitcoin purchase.",
		Example:     json.RawMessage(`{}`),
		Handler: typed(func(ctx context.Context, _ struct{}) (any, error) {
			return s.Bitcoin.ListBuys(ctx)
		}),
	})
	r.Register(Tool{
		Name:        "view_bitcoin_sells",
		Description: "List every recorded bitcoin sale.",
		Example:     json.RawMessage(`{}`),
		Handler: typed(func(ctx context.Context, _ struct{}) (any, error) {
			return s.Bitcoin.ListSells(ctx)
		}),
	})
}

func registerTax(r *Registry, s *Services) {
	r.Register(Tool{
		Name:        "view_all_tax_deductions_list",
		Description: "View all tax deductions.",
		Example:     json.RawMessage(`{}`),
		Handler: typed(func(ctx context.Context, _ struct{}) (any, error) {
			return s.Tax.ListDeductions(ctx)
		}),
	})
	r.Register(Tool{
		Name:        "add_tax_deduction_list",
		Description: "Add a flat tax deduction.",
		Example:     json.RawMessage(`{"title":"Insurance","amount":60000}`),
		Mutates:     true,
		Handler: typed(func(ctx context.Context, a deductionArgs) (any, error) {
			id, err := s.Tax.AddDeduction(ctx, a.Title, a.Amount)
			return Created{ID: id}, err
		}),
	})
	r.Register(Tool{
		Name:        "remove_tax_deduction_list",
		Description: "Remove a tax deduction by id.",
		Example:     json.RawMessage(`{"id":1}`),
		Mutates:     true,
		Handler: typed(func(ctx context.Context, a idArgs) (any, error) {
			id, err := requireID(a.ID)
			if err != nil {
				return nil, err
			}
			if err := s.Tax.RemoveDeduction(ctx, id); err != nil {
				return nil, err
			}
			return Removed{Removed: id}, nil
		}),
	})
	r.Register(Tool{
		Name:        "simulate_tax",
		Description: "Calculate the tax owed for a year from recorded income, the bracket table and all deductions.",
		Example:     json.RawMessage(`{"year":2025}`),
		Cacheable:   true,
		Handler: typed(func(ctx context.Context, a yearArgs) (any, error) {
			return s.Tax.Simulate(ctx, a.Year)
		}),
	})
}
