package services

import (
	"context"
	"fmt"
	"log/slog"

	"moneyleft/internal/core"
)

// BitcoinService records buy and sell trades verbatim.
type BitcoinService struct {
	store BitcoinStore
	opts  options
}

func NewBitcoinService(store BitcoinStore, opts ...Option) *BitcoinService {
	return &BitcoinService{store: store, opts: buildOptions(opts)}
}

func (s *BitcoinService) RecordBuy(ctx context.Context, t core.BitcoinTrade) (int64, error) {
	t.Side = core.Buy
	return s.record(ctx, t)
}

func (s *BitcoinService) RecordSell(ctx context.Context, t core.BitcoinTrade) (int64, error) {
	t.Side = core.Sell
	return s.record(ctx, t)
}

func (s *BitcoinService) ListBuys(ctx context.Context) ([]core.BitcoinTrade, error) {
	return s.list(ctx, core.Buy)
}

func (s *BitcoinService) ListSells(ctx context.Context) ([]core.BitcoinTrade, error) {
	return s.list(ctx, core.Sell)
}

func (s *BitcoinService) record(ctx context.Context, t core.BitcoinTrade) (int64, error) {
	if t.Date.IsZero() {
		t.Date = core.DateOf(s.opts.now())
	}
	if err := t.Validate(); err != nil {
		return 0, err
	}

	id, err := s.store.InsertTrade(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("record bitcoin %s: %w", t.Side, err)
	}

	slog.InfoContext(ctx, "Bitcoin trade recorded",
		"id", id,
		"side", t.Side,
		"amount", t.Amount.String(),
		"price", t.Price.String(),
		"cost", t.Cost.String())
	return id, nil
}

func (s *BitcoinService) list(ctx context.Context, side core.TradeSide) ([]core.BitcoinTrade, error) {
	trades, err := s.store.Trades(ctx, side)
	if err != nil {
		return nil, fmt.Errorf("list bitcoin %s trades: %w", side, err)
	}
	if trades == nil {
		trades = []core.BitcoinTrade{}
	}
	return trades, nil
}
