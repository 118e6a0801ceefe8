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

func TestDebtService_ViewByCounterpartySumsEntries(t *testing.T) {
	store := &fakeDebtStore{entries: []core.DebtEntry{
		{ID: 1, Amount: dec("100"), Who: "Test User"},
		{ID: 2, Amount: dec("400"), Who: "Test User"},
	}}
	svc := NewDebtService(store)

	balance, ok, err := svc.ViewByCounterparty(context.Background(), "Test User")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Test User", balance.Who)
	assert.True(t, balance.Amount.Equal(dec("500")))
}

func TestDebtService_ViewByCounterpartyIsOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var entries []core.DebtEntry
	want := decimal.Zero
	for i := 0; i < 25; i++ {
		amount := decimal.New(rng.Int63n(20_000)-5_000, -2)
		entries = append(entries, core.DebtEntry{ID: int64(i), Amount: amount, Who: "Ann"})
		want = want.Add(amount)
	}

	for round := 0; round < 5; round++ {
		rng.Shuffle(len(entries), func(i, j int) { entries[i], entries[j] = entries[j], entries[i] })
		svc := NewDebtService(&fakeDebtStore{entries: append([]core.DebtEntry(nil), entries...)})
		got, ok, err := svc.ViewByCounterparty(context.Background(), "Ann")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, got.Amount.Equal(want), "round %d: got %s want %s", round, got.Amount, want)
	}
}

func TestDebtService_ViewByCounterpartyDistinguishesEmptyFromFailure(t *testing.T) {
	svc := NewDebtService(&fakeDebtStore{entries: []core.DebtEntry{{Amount: dec("1"), Who: "Test User"}}})
	_, ok, err := svc.ViewByCounterparty(context.Background(), "test user")
	require.NoError(t, err)
	assert.False(t, ok, "counterparty match is exact and case-sensitive")

	svc = NewDebtService(&fakeDebtStore{err: errDown})
	_, ok, err = svc.ViewByCounterparty(context.Background(), "Test User")
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
	assert.False(t, ok)
}

func TestDebtService_PaidOffDebtNetsToZero(t *testing.T) {
	svc := NewDebtService(&fakeDebtStore{entries: []core.DebtEntry{
		{Amount: dec("250"), Who: "Bob"},
		{Amount: dec("-250"), Who: "Bob", Category: core.PaidDebtMarker},
	}})
	balance, ok, err := svc.ViewByCounterparty(context.Background(), "Bob")
	require.NoError(t, err)
	assert.True(t, ok, "a settled counterparty still has entries")
	assert.True(t, balance.Amount.IsZero())
}

func TestDebtService_ViewAll(t *testing.T) {
	store := &fakeDebtStore{entries: []core.DebtEntry{
		{Amount: dec("100"), Who: "Zoe"},
		{Amount: dec("50"), Who: "Adam"},
		{Amount: dec("400"), Who: "Zoe"},
		{Amount: dec("-20"), Who: "Adam"},
		{Amount: dec("10"), Who: "adam"},
	}}
	balances, err := NewDebtService(store).ViewAll(context.Background())
	require.NoError(t, err)
	require.Len(t, balances, 3)

	got := map[string]string{}
	for _, b := range balances {
		got[b.Who] = b.Amount.String()
	}
	assert.Equal(t, map[string]string{"Zoe": "500", "Adam": "30", "adam": "10"}, got)
}

func TestDebtService_ViewAllEmptyAndFailure(t *testing.T) {
	balances, err := NewDebtService(&fakeDebtStore{}).ViewAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, balances)
	assert.Empty(t, balances)

	_, err = NewDebtService(&fakeDebtStore{err: errDown}).ViewAll(context.Background())
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
}

func TestDebtService_RecordDebt(t *testing.T) {
	store := &fakeDebtStore{}
	pub := &recordingPublisher{}
	now := time.Date(2025, 5, 2, 12, 0, 0, 0, time.UTC)
	svc := NewDebtService(store, WithPublisher(pub), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	id, err := svc.RecordDebt(ctx, core.DebtEntry{Amount: dec("100"), Category: "Loan", Description: "dinner", Who: "Test User"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.Len(t, store.inserted, 1)
	assert.Equal(t, "2025-05-02", store.inserted[0].Date.String(), "zero date means today")
	assert.Equal(t, "Loan", store.inserted[0].Category, "debt categories are stored verbatim")

	_, err = svc.RecordDebt(ctx, core.DebtEntry{Amount: dec("100"), Who: "Test User", Date: core.NewDate(2024, 12, 1)})
	require.NoError(t, err)
	assert.Equal(t, "2024-12-01", store.inserted[1].Date.String())

	_, err = svc.RecordDebt(ctx, core.DebtEntry{Amount: dec("-5"), Who: "Test User"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	_, err = svc.RecordDebt(ctx, core.DebtEntry{Amount: dec("5"), Who: "  "})
	assert.ErrorIs(t, err, core.ErrInvalidInput)

	require.Len(t, pub.events, 2)
	assert.Equal(t, amqp.EventDebtRecorded, pub.events[0].Type)
	assert.Equal(t, now, pub.events[0].Timestamp)
}

func TestDebtService_RecordPaidDebt(t *testing.T) {
	store := &fakeDebtStore{}
	pub := &recordingPublisher{}
	svc := NewDebtService(store, WithPublisher(pub))

	_, err := svc.RecordPaidDebt(context.Background(), PaidDebt{Amount: dec("75.5"), Who: "Test User", Date: core.NewDate(2025, 6, 1)})
	require.NoError(t, err)
	require.Len(t, store.inserted, 1)

	paid := store.inserted[0]
	assert.True(t, paid.Amount.Equal(dec("-75.5")), "payment is stored negated")
	assert.Equal(t, core.PaidDebtMarker, paid.Category)
	assert.Equal(t, core.PaidDebtMarker, paid.Description)
	assert.Equal(t, "Test User", paid.Who)

	require.Len(t, pub.events, 1)
	assert.Equal(t, amqp.EventDebtPaid, pub.events[0].Type)

	_, err = svc.RecordPaidDebt(context.Background(), PaidDebt{Amount: dec("-1"), Who: "Test User"})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestDebtService_PublishFailureDoesNotFailWrite(t *testing.T) {
	store := &fakeDebtStore{}
	svc := NewDebtService(store, WithPublisher(&recordingPublisher{failing: true}))

	id, err := svc.RecordDebt(context.Background(), core.DebtEntry{Amount: dec("10"), Who: "Ann"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	assert.Len(t, store.inserted, 1)
}

func TestDebtService_StorageFailureOnWrite(t *testing.T) {
	pub := &recordingPublisher{}
	svc := NewDebtService(&fakeDebtStore{err: errDown}, WithPublisher(pub))

	_, err := svc.RecordDebt(context.Background(), core.DebtEntry{Amount: dec("10"), Who: "Ann"})
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
	assert.Empty(t, pub.events, "nothing is announced for a failed write")
}
