package tools

import (
	"fmt"
	"time"

	"moneyleft/internal/services"
	"moneyleft/internal/tax"
)

// Services bundles the domain services the tools dispatch to.
type Services struct {
	CashFlow *services.CashFlowService
	Spending *services.SpendingService
	Debts    *services.DebtService
	Tax      *services.TaxSimulator
	Bitcoin  *services.BitcoinService
	// Now dates tool calls that default to today.
	Now func() time.Time
}

// NewServices wires every service onto one store. The same opts (publisher,
// clock) apply to all of them.
func NewServices(store services.Store, table tax.Table, now func() time.Time, opts ...services.Option) (*Services, error) {
	if now == nil {
		now = time.Now
	}
	opts = append([]services.Option{services.WithClock(now)}, opts...)

	sim, err := services.NewTaxSimulator(store, store, table, opts...)
	if err != nil {
		return nil, fmt.Errorf("build services: %w", err)
	}
	return &Services{
		CashFlow: services.NewCashFlowService(store, opts...),
		Spending: services.NewSpendingService(store, store, opts...),
		Debts:    services.NewDebtService(store, opts...),
		Tax:      sim,
		Bitcoin:  services.NewBitcoinService(store, opts...),
		Now:      now,
	}, nil
}
