package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"moneyleft/internal/amqp"
	"moneyleft/internal/core"
	"moneyleft/internal/tax"
)

// TaxSimulator computes a year's tax liability from recorded income, a bracket
// table and flat deductions. Income is scoped to the year; deductions are not.
type TaxSimulator struct {
	income     IncomeStore
	deductions DeductionStore
	table      tax.Table
	opts       options
}

func NewTaxSimulator(income IncomeStore, deductions DeductionStore, table tax.Table, opts ...Option) (*TaxSimulator, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("tax simulator: %w", err)
	}
	return &TaxSimulator{
		income:     income,
		deductions: deductions,
		table:      table,
		opts:       buildOptions(opts),
	}, nil
}

// Simulate returns the liability for year. Both fetches must succeed; the
// result is clamped so MustPay is never negative.
func (s *TaxSimulator) Simulate(ctx context.Context, year int) (core.TaxResult, error) {
	if year < 1 || year > 9999 {
		return core.TaxResult{}, fmt.Errorf("%w: year %d out of range", core.ErrInvalidInput, year)
	}

	var (
		income     []core.LedgerEntry
		deductions []core.TaxDeduction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = s.income.IncomeByYear(gctx, year)
		if err != nil {
			return fmt.Errorf("fetch income for %d: %w", year, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		deductions, err = s.deductions.AllDeductions(gctx)
		if err != nil {
			return fmt.Errorf("fetch deductions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return core.TaxResult{}, fmt.Errorf("simulate tax: %w", err)
	}

	res := core.TaxResult{
		Year:        year,
		TotalIncome: core.Sum(income, func(e core.LedgerEntry) decimal.Decimal { return e.Amount }),
		Deductions:  core.Sum(deductions, func(d core.TaxDeduction) decimal.Decimal { return d.Amount }),
	}
	res.RawTax = s.table.RawTax(res.TotalIncome)
	res.MustPay = res.RawTax.Sub(res.Deductions)
	if res.MustPay.IsNegative() {
		res.MustPay = decimal.Zero
	}

	slog.InfoContext(ctx, "Tax simulated",
		"year", year,
		"total_income", res.TotalIncome.String(),
		"raw_tax", res.RawTax.String(),
		"deductions", res.Deductions.String(),
		"must_pay", res.MustPay.String())
	return res, nil
}

// ListDeductions returns every deduction, newest first.
func (s *TaxSimulator) ListDeductions(ctx context.Context) ([]core.TaxDeduction, error) {
	list, err := s.deductions.AllDeductions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list deductions: %w", err)
	}
	if list == nil {
		list = []core.TaxDeduction{}
	}
	return list, nil
}

func (s *TaxSimulator) AddDeduction(ctx context.Context, title string, amount decimal.Decimal) (int64, error) {
	d := core.TaxDeduction{Title: strings.TrimSpace(title), Amount: amount}
	if err := d.Validate(); err != nil {
		return 0, err
	}

	id, err := s.deductions.InsertDeduction(ctx, d)
	if err != nil {
		return 0, fmt.Errorf("add deduction: %w", err)
	}

	slog.InfoContext(ctx, "Tax deduction added", "id", id, "title", d.Title, "amount", d.Amount.String())
	s.opts.notify(ctx, amqp.Event{Type: amqp.EventDeductionAdded, ID: id, Title: d.Title, Amount: d.Amount})
	return id, nil
}

func (s *TaxSimulator) RemoveDeduction(ctx context.Context, id int64) error {
	if err := s.deductions.DeleteDeduction(ctx, id); err != nil {
		return fmt.Errorf("remove deduction %d: %w", id, err)
	}

	slog.InfoContext(ctx, "Tax deduction removed", "id", id)
	s.opts.notify(ctx, amqp.Event{Type: amqp.EventDeductionRemoved, ID: id})
	return nil
}
