package services

import (
	"context"
	"fmt"

	"moneyleft/internal/core"
)

// RangeResolver turns a range selector into exactly one storage fetch.
type RangeResolver struct {
	store RangeStore
}

func NewRangeResolver(store RangeStore) *RangeResolver {
	return &RangeResolver{store: store}
}

// Resolve returns the entries in r, newest first. A Custom range whose start is
// after its end fails with core.ErrInvalidInput before storage is touched.
// Storage errors are returned unchanged.
func (r *RangeResolver) Resolve(ctx context.Context, rng core.Range) ([]core.LedgerEntry, error) {
	if err := rng.Validate(); err != nil {
		return nil, err
	}

	switch rng.Kind {
	case core.RangeToday:
		return r.store.EntriesToday(ctx)
	case core.RangeThisMonth:
		return r.store.EntriesThisMonth(ctx)
	case core.RangeThisYear:
		return r.store.EntriesThisYear(ctx)
	case core.RangeLifetime:
		return r.store.AllEntries(ctx)
	case core.RangeCustom:
		return r.store.EntriesBetween(ctx, rng.Start, rng.End)
	default:
		return nil, fmt.Errorf("%w: unknown range type %q", core.ErrInvalidRange, rng.Kind)
	}
}
