package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moneyleft/internal/core"
)

func TestRangeResolver_OneFetchPerVariant(t *testing.T) {
	tests := []struct {
		name string
		rng  core.Range
		call string
	}{
		{"today", core.Today(), "today"},
		{"this month", core.ThisMonth(), "month"},
		{"this year", core.ThisYear(), "year"},
		{"lifetime", core.Lifetime(), "lifetime"},
		{"custom", core.Custom(core.NewDate(2025, 1, 1), core.NewDate(2025, 1, 31)), "between"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &fakeRangeStore{entries: []core.LedgerEntry{{ID: 1}}}
			got, err := NewRangeResolver(store).Resolve(context.Background(), tt.rng)
			require.NoError(t, err)
			assert.Len(t, got, 1)
			assert.Equal(t, []string{tt.call}, store.calls)
		})
	}
}

func TestRangeResolver_CustomForwardsBoundsVerbatim(t *testing.T) {
	store := &fakeRangeStore{}
	start, end := core.NewDate(2025, 2, 1), core.NewDate(2025, 2, 28)

	_, err := NewRangeResolver(store).Resolve(context.Background(), core.Custom(start, end))
	require.NoError(t, err)
	assert.True(t, store.start.Equal(start.Time))
	assert.True(t, store.end.Equal(end.Time))
}

func TestRangeResolver_ReversedCustomIsInvalid(t *testing.T) {
	store := &fakeRangeStore{}
	rng := core.Custom(core.NewDate(2025, 3, 1), core.NewDate(2025, 2, 1))

	_, err := NewRangeResolver(store).Resolve(context.Background(), rng)
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, store.calls, "storage must not be queried for an invalid range")
}

func TestRangeResolver_UnknownKindIsInvalid(t *testing.T) {
	store := &fakeRangeStore{}
	_, err := NewRangeResolver(store).Resolve(context.Background(), core.Range{Kind: "Fortnight"})
	assert.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Empty(t, store.calls)
}

func TestRangeResolver_PropagatesStorageErrors(t *testing.T) {
	store := &fakeRangeStore{err: errDown}
	_, err := NewRangeResolver(store).Resolve(context.Background(), core.Lifetime())
	assert.ErrorIs(t, err, core.ErrStorageUnavailable)
	assert.Len(t, store.calls, 1, "no retry")
}
