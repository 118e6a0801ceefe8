package core

import "github.com/shopspring/decimal"

// ScannerRow is the flat projection of a ledger entry returned by a scan.
type ScannerRow struct {
	ID          int64           `json:"id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        Date            `json:"date"`
}

// DebtBalance is the net amount a counterparty owes.
type DebtBalance struct {
	Who    string          `json:"who"`
	Amount decimal.Decimal `json:"amount"`
}

// TaxResult is the outcome of a yearly simulation. MustPay is never negative.
type TaxResult struct {
	Year        int             `json:"year"`
	TotalIncome decimal.Decimal `json:"total_income"`
	RawTax      decimal.Decimal `json:"raw_tax"`
	Deductions  decimal.Decimal `json:"deductions"`
	MustPay     decimal.Decimal `json:"must_pay"`
}

// Row projects an entry into a ScannerRow.
func (e LedgerEntry) Row() ScannerRow {
	return ScannerRow{
		ID:          e.ID,
		Amount:      e.Amount,
		Category:    e.Category,
		Description: e.Description,
		Date:        e.Date,
	}
}
