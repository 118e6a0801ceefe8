package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaidDebtMarker is stored as both category and description of a debt repayment.
const PaidDebtMarker = "Paid Debt"

const (
	Buy  TradeSide = "buy"
	Sell TradeSide = "sell"
)

const maxTextLength = 200

type (
	TradeSide string

	LedgerEntry struct {
		ID          int64           `json:"id"`
		Amount      decimal.Decimal `json:"amount"`
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Date        Date            `json:"date"`
	}

	DebtEntry struct {
		ID          int64           `json:"id"`
		Amount      decimal.Decimal `json:"amount"` // positive: owed to us, negative: repayment
		Category    string          `json:"category"`
		Description string          `json:"description"`
		Who         string          `json:"who"`
		Date        Date            `json:"date"`
	}

	// MonthlySpendingItem is a recurring bill reminder. It never takes part in spending totals.
	MonthlySpendingItem struct {
		ID     int64           `json:"id"`
		Title  string          `json:"title"`
		Amount decimal.Decimal `json:"amount"`
		DueDay int             `json:"due_day"`
	}

	TaxDeduction struct {
		ID     int64           `json:"id"`
		Title  string          `json:"title"`
		Amount decimal.Decimal `json:"amount"`
	}

	BitcoinTrade struct {
		ID     int64           `json:"id"`
		Side   TradeSide       `json:"side"`
		Amount decimal.Decimal `json:"amount"`
		Price  decimal.Decimal `json:"price"`
		Cost   decimal.Decimal `json:"cost"`
		Date   Date            `json:"date"`
	}
)

var (
	ErrInvalidAmount      = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrEmptyCategory      = fmt.Errorf("%w: empty category", ErrInvalidInput)
	ErrEmptyTitle         = fmt.Errorf("%w: empty title", ErrInvalidInput)
	ErrEmptyCounterparty  = fmt.Errorf("%w: empty counterparty", ErrInvalidInput)
	ErrInvalidDueDay      = fmt.Errorf("%w: due day must be between 1 and 31", ErrInvalidInput)
	ErrInvalidTradeSide   = fmt.Errorf("%w: trade side must be buy or sell", ErrInvalidInput)
	ErrTextTooLong        = fmt.Errorf("%w: text too long (max %d characters)", ErrInvalidInput, maxTextLength)
	errNegativeTradeValue = errors.New("price and cost cannot be negative")
)

func (e LedgerEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Category) > maxTextLength || len(e.Description) > maxTextLength {
		return ErrTextTooLong
	}
	return nil
}

func (e DebtEntry) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if e.Amount.IsZero() {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(e.Who) == "" {
		return ErrEmptyCounterparty
	}
	if len(e.Who) > maxTextLength || len(e.Description) > maxTextLength || len(e.Category) > maxTextLength {
		return ErrTextTooLong
	}
	return nil
}

func (m MonthlySpendingItem) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return ErrEmptyTitle
	}
	if len(m.Title) > maxTextLength {
		return ErrTextTooLong
	}
	if !m.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if m.DueDay < 1 || m.DueDay > 31 {
		return ErrInvalidDueDay
	}
	return nil
}

// DueOn returns the day the bill falls due in the given month, clamped to the
// month's last day.
func (m MonthlySpendingItem) DueOn(year int, month time.Month) Date {
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	day := m.DueDay
	if day > lastDay {
		day = lastDay
	}
	return NewDate(year, int(month), day)
}

func (d TaxDeduction) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if len(d.Title) > maxTextLength {
		return ErrTextTooLong
	}
	if !d.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (t BitcoinTrade) Validate() error {
	if t.Side != Buy && t.Side != Sell {
		return ErrInvalidTradeSide
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Price.IsNegative() || t.Cost.IsNegative() {
		return fmt.Errorf("%w: %w", ErrInvalidInput, errNegativeTradeValue)
	}
	return nil
}
