// Package tax holds the progressive bracket table used by the simulator.
//
// A Table is an ordered list of brackets covering [0, +inf) with no gaps and
// no overlaps. Each bracket carries the tax already accrued below its lower
// bound, so the tax for an income is a single lookup plus one multiplication.
package tax

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var ErrInvalidTable = errors.New("invalid bracket table")

// Bracket covers [Lower, Upper). The last bracket of a table is Unbounded and
// its Upper is ignored.
type Bracket struct {
	Lower     decimal.Decimal
	Upper     decimal.Decimal
	Rate      decimal.Decimal
	BaseTax   decimal.Decimal
	Unbounded bool
}

// Table is immutable once built; callers receive copies.
type Table struct {
	brackets []Bracket
}

var defaultBrackets = []Bracket{
	bracket(0, 150_000, "0", 0),
	bracket(150_000, 300_000, "0.05", 0),
	bracket(300_000, 500_000, "0.10", 7_500), // 150000 * 5%; a base of 27500 would jump at 300000
	bracket(500_000, 750_000, "0.15", 27_500),
	bracket(750_000, 1_000_000, "0.20", 65_000),
	bracket(1_000_000, 2_000_000, "0.25", 115_000),
	bracket(2_000_000, 5_000_000, "0.30", 365_000),
	{
		Lower:     decimal.NewFromInt(5_000_000),
		Rate:      decimal.RequireFromString("0.35"),
		BaseTax:   decimal.NewFromInt(1_265_000),
		Unbounded: true,
	},
}

func bracket(lower, upper int64, rate string, base int64) Bracket {
	return Bracket{
		Lower:   decimal.NewFromInt(lower),
		Upper:   decimal.NewFromInt(upper),
		Rate:    decimal.RequireFromString(rate),
		BaseTax: decimal.NewFromInt(base),
	}
}

// DefaultTable returns the built-in personal income tax table.
func DefaultTable() Table {
	t, err := NewTable(defaultBrackets)
	if err != nil {
		panic(fmt.Sprintf("default bracket table: %v", err))
	}
	return t
}

// NewTable validates brackets and returns a table owning its own copy of them.
func NewTable(brackets []Bracket) (Table, error) {
	t := Table{brackets: append([]Bracket(nil), brackets...)}
	if err := t.Validate(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Brackets returns a copy of the table's brackets in ascending order.
func (t Table) Brackets() []Bracket {
	return append([]Bracket(nil), t.brackets...)
}

// Validate checks that the brackets are contiguous, ascending and exhaustive
// from zero.
func (t Table) Validate() error {
	if len(t.brackets) == 0 {
		return fmt.Errorf("%w: no brackets", ErrInvalidTable)
	}
	if !t.brackets[0].Lower.IsZero() {
		return fmt.Errorf("%w: first bracket must start at 0, got %s", ErrInvalidTable, t.brackets[0].Lower)
	}
	one := decimal.NewFromInt(1)
	last := len(t.brackets) - 1
	for i, b := range t.brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return fmt.Errorf("%w: bracket %d rate %s outside [0, 1]", ErrInvalidTable, i, b.Rate)
		}
		if b.BaseTax.IsNegative() {
			return fmt.Errorf("%w: bracket %d has negative base tax", ErrInvalidTable, i)
		}
		if i == last {
			if !b.Unbounded {
				return fmt.Errorf("%w: last bracket must be unbounded", ErrInvalidTable)
			}
			continue
		}
		if b.Unbounded {
			return fmt.Errorf("%w: only the last bracket may be unbounded", ErrInvalidTable)
		}
		if !b.Upper.GreaterThan(b.Lower) {
			return fmt.Errorf("%w: bracket %d upper %s not above lower %s", ErrInvalidTable, i, b.Upper, b.Lower)
		}
		if next := t.brackets[i+1]; !next.Lower.Equal(b.Upper) {
			return fmt.Errorf("%w: gap or overlap between %s and %s", ErrInvalidTable, b.Upper, next.Lower)
		}
	}
	return nil
}

// Lookup returns the first bracket, in ascending order, whose upper bound is
// not below income. Negative income is looked up as zero.
func (t Table) Lookup(income decimal.Decimal) Bracket {
	if income.IsNegative() {
		income = decimal.Zero
	}
	for _, b := range t.brackets {
		if b.Unbounded || income.LessThanOrEqual(b.Upper) {
			return b
		}
	}
	return t.brackets[len(t.brackets)-1]
}

// RawTax is (income - lower) * rate + baseTax for the bracket holding income.
func (t Table) RawTax(income decimal.Decimal) decimal.Decimal {
	if income.IsNegative() {
		income = decimal.Zero
	}
	b := t.Lookup(income)
	return income.Sub(b.Lower).Mul(b.Rate).Add(b.BaseTax)
}
