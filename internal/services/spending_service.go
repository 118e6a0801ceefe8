package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"moneyleft/internal/amqp"
	"moneyleft/internal/core"
)

// SpendingService provides the read views over ledger entries and manages the
// monthly bill reminder list.
type SpendingService struct {
	resolver *RangeResolver
	bills    MonthlySpendingStore
	opts     options
}

func NewSpendingService(entries RangeStore, bills MonthlySpendingStore, opts ...Option) *SpendingService {
	return &SpendingService{
		resolver: NewRangeResolver(entries),
		bills:    bills,
		opts:     buildOptions(opts),
	}
}

// Scan lists every entry in rng in storage order.
func (s *SpendingService) Scan(ctx context.Context, rng core.Range) ([]core.ScannerRow, error) {
	entries, err := s.resolver.Resolve(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", rng, err)
	}

	rows := make([]core.ScannerRow, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, e.Row())
	}

	slog.DebugContext(ctx, "Spending scanned", "range", rng.String(), "rows", len(rows))
	return rows, nil
}

// Visualize sums amounts per exact category string. Categories without
// entries in rng are absent from the result.
func (s *SpendingService) Visualize(ctx context.Context, rng core.Range) (map[string]decimal.Decimal, error) {
	entries, err := s.resolver.Resolve(ctx, rng)
	if err != nil {
		return nil, fmt.Errorf("visualize %s: %w", rng, err)
	}

	totals := make(map[string]decimal.Decimal)
	for _, e := range entries {
		totals[e.Category] = totals[e.Category].Add(e.Amount)
	}

	slog.DebugContext(ctx, "Spending visualized", "range", rng.String(), "categories", len(totals))
	return totals, nil
}

// ListMonthlySpending returns the reminder list ordered by due day.
func (s *SpendingService) ListMonthlySpending(ctx context.Context) ([]core.MonthlySpendingItem, error) {
	items, err := s.bills.AllMonthlySpending(ctx)
	if err != nil {
		return nil, fmt.Errorf("list monthly spending: %w", err)
	}
	if items == nil {
		items = []core.MonthlySpendingItem{}
	}
	return items, nil
}

func (s *SpendingService) AddMonthlySpending(ctx context.Context, item core.MonthlySpendingItem) (int64, error) {
	item.Title = strings.TrimSpace(item.Title)
	if err := item.Validate(); err != nil {
		return 0, err
	}

	id, err := s.bills.InsertMonthlySpending(ctx, item)
	if err != nil {
		return 0, fmt.Errorf("add monthly spending: %w", err)
	}

	slog.InfoContext(ctx, "Monthly spending added",
		"id", id,
		"title", item.Title,
		"amount", item.Amount.String(),
		"due_day", item.DueDay)
	return id, nil
}

func (s *SpendingService) RemoveMonthlySpending(ctx context.Context, id int64) error {
	if err := s.bills.DeleteMonthlySpending(ctx, id); err != nil {
		return fmt.Errorf("remove monthly spending %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Monthly spending removed", "id", id)
	return nil
}

// DueBills returns the reminders that checker considers due on day.
func (s *SpendingService) DueBills(ctx context.Context, day core.Date, checker DuenessChecker) ([]core.MonthlySpendingItem, error) {
	items, err := s.ListMonthlySpending(ctx)
	if err != nil {
		return nil, err
	}
	if checker == nil {
		checker = OnDayChecker{}
	}

	due := make([]core.MonthlySpendingItem, 0)
	for _, item := range items {
		if checker.IsDue(item, day) {
			due = append(due, item)
		}
	}
	return due, nil
}

// NotifyDueBills publishes a bill.due event for every reminder due on day and
// returns how many were found.
func (s *SpendingService) NotifyDueBills(ctx context.Context, day core.Date, checker DuenessChecker) (int, error) {
	due, err := s.DueBills(ctx, day, checker)
	if err != nil {
		return 0, err
	}
	for _, item := range due {
		s.opts.notify(ctx, amqp.Event{
			Type:   amqp.EventBillDue,
			ID:     item.ID,
			Title:  item.Title,
			Amount: item.Amount,
			Date:   item.DueOn(day.Year(), day.Month()).String(),
		})
	}
	if len(due) > 0 {
		slog.InfoContext(ctx, "Due bills notified", "day", day.String(), "count", len(due))
	}
	return len(due), nil
}
