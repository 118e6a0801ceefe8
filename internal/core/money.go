// Package core holds the ledger's domain types and the helpers shared by
// every layer: amount sums, category normalisation and the error taxonomy.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NormalizeCategory trims and upper-cases a ledger category. It is applied once
// when an entry is written so that grouping by exact string stays consistent.
func NormalizeCategory(category string) string {
	return strings.ToUpper(strings.TrimSpace(category))
}

// Sum adds the amount of every item exactly; the result does not depend on
// order.
func Sum[T any](items []T, amount func(T) decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(amount(it))
	}
	return total
}
