package services

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyleft/internal/amqp"
	"moneyleft/internal/core"
)

func scenarioAEntries() []core.LedgerEntry {
	day := core.NewDate(2025, 3, 14)
	return []core.LedgerEntry{
		{ID: 3, Amount: dec("100"), Category: "Food", Description: "lunch", Date: day},
		{ID: 2, Amount: dec("200"), Category: "Food", Description: "dinner", Date: day},
		{ID: 1, Amount: dec("150"), Category: "Coffee", Description: "beans", Date: day},
	}
}

func TestSpendingService_VisualizeGroupsByCategory(t *testing.T) {
	store := &fakeRangeStore{entries: scenarioAEntries()}
	svc := NewSpendingService(store, &fakeBillStore{})
	ctx := context.Background()

	rows, err := svc.Scan(ctx, core.Today())
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []int64{3, 2, 1}, []int64{rows[0].ID, rows[1].ID, rows[2].ID}, "storage order is preserved")
	assert.Equal(t, "lunch", rows[0].Description)

	totals, err := svc.Visualize(ctx, core.Today())
	require.NoError(t, err)
	require.Len(t, totals, 2)
	assert.True(t, totals["Food"].Equal(dec("300")))
	assert.True(t, totals["Coffee"].Equal(dec("150")))
}

func TestSpendingService_EmptyRangeYieldsEmptyResults(t *testing.T) {
	svc := NewSpendingService(&fakeRangeStore{}, &fakeBillStore{})
	ctx := context.Background()

	rows, err := svc.Scan(ctx, core.Today())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	totals, err := svc.Visualize(ctx, core.Today())
	require.NoError(t, err)
	assert.NotNil(t, totals)
	assert.Empty(t, totals)
}

func TestSpendingService_VisualizeMatchesPerCategorySums(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	categories := []string{"FOOD", "RENT", "FUN", "Food"}

	for round := 0; round < 20; round++ {
		var entries []core.LedgerEntry
		want := map[string]decimal.Decimal{}
		for i := 0; i < rng.Intn(30); i++ {
			cat := categories[rng.Intn(len(categories))]
			amount := decimal.New(rng.Int63n(100_000)-50_000, -2)
			if amount.IsZero() {
				continue
			}
			entries = append(entries, core.LedgerEntry{ID: int64(i), Amount: amount, Category: cat})
			want[cat] = want[cat].Add(amount)
		}

		svc := NewSpendingService(&fakeRangeStore{entries: entries}, &fakeBillStore{})
		got, err := svc.Visualize(context.Background(), core.Lifetime())
		require.NoError(t, err)
		require.Len(t, got, len(want), "round %d: key set differs", round)
		for cat, total := range want {
			assert.True(t, got[cat].Equal(total), "round %d %s: got %s want %s", round, cat, got[cat], total)
		}
	}
}

func TestSpendingService_ErrorsAreNotPartial(t *testing.T) {
	svc := NewSpendingService(&fakeRangeStore{err: errDown}, &fakeBillStore{})

	rows, err := svc.Scan(context.Background(), core.ThisMonth())
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
	assert.Nil(t, rows)

	totals, err := svc.Visualize(context.Background(), core.ThisMonth())
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
	assert.Nil(t, totals)
}

func TestSpendingService_MonthlySpendingCRUD(t *testing.T) {
	bills := &fakeBillStore{}
	svc := NewSpendingService(&fakeRangeStore{}, bills)
	ctx := context.Background()

	id, err := svc.AddMonthlySpending(ctx, core.MonthlySpendingItem{Title: "  Rent ", Amount: dec("900"), DueDay: 1})
	require.NoError(t, err)
	assert.Equal(t, "Rent", bills.items[0].Title)

	_, err = svc.AddMonthlySpending(ctx, core.MonthlySpendingItem{Title: "Gym", Amount: dec("30"), DueDay: 40})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	list, err := svc.ListMonthlySpending(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, svc.RemoveMonthlySpending(ctx, id))
	assert.ErrorIs(t, svc.RemoveMonthlySpending(ctx, id), core.ErrNotFound)

	list, err = svc.ListMonthlySpending(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestSpendingService_DueBills(t *testing.T) {
	bills := &fakeBillStore{items: []core.MonthlySpendingItem{
		{ID: 1, Title: "Rent", Amount: dec("900"), DueDay: 1},
		{ID: 2, Title: "Internet", Amount: dec("30"), DueDay: 28},
		{ID: 3, Title: "Gym", Amount: dec("45"), DueDay: 31},
	}}
	pub := &recordingPublisher{}
	svc := NewSpendingService(&fakeRangeStore{}, bills, WithPublisher(pub),
		WithClock(func() time.Time { return time.Date(2025, 2, 28, 9, 0, 0, 0, time.UTC) }))
	ctx := context.Background()

	due, err := svc.DueBills(ctx, core.NewDate(2025, 2, 28), nil)
	require.NoError(t, err)
	require.Len(t, due, 2, "the 31st falls on the last day of february")
	assert.Equal(t, "Internet", due[0].Title)
	assert.Equal(t, "Gym", due[1].Title)

	n, err := svc.NotifyDueBills(ctx, core.NewDate(2025, 2, 28), OnDayChecker{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, pub.events, 2)
	assert.Equal(t, amqp.EventBillDue, pub.events[1].Type)
	assert.Equal(t, "2025-02-28", pub.events[1].Date)

	due, err = svc.DueBills(ctx, core.NewDate(2025, 3, 15), nil)
	require.NoError(t, err)
	assert.Empty(t, due)
}
