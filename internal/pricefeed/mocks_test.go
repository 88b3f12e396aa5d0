package pricefeed_test

import (
	"context"
	"time"

	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/pricefeed"
	"hktplatform.app/api/internal/store"
)

type mockCache struct {
	getFn func(ctx context.Context, symbol string) (*model.Price, error)
	setFn func(ctx context.Context, price model.Price) error
	set   []model.Price
}

func (m *mockCache) Get(ctx context.Context, symbol string) (*model.Price, error) {
	if m.getFn != nil {
		return m.getFn(ctx, symbol)
	}
	return nil, pricefeed.ErrCacheMiss
}

func (m *mockCache) Set(ctx context.Context, price model.Price) error {
	m.set = append(m.set, price)
	if m.setFn != nil {
		return m.setFn(ctx, price)
	}
	return nil
}

type mockPriceStore struct {
	insertFn       func(ctx context.Context, snap *model.PriceSnapshot) error
	latestFn       func(ctx context.Context, symbol string) (*model.PriceSnapshot, error)
	historyFn      func(ctx context.Context, symbol string, since time.Time, limit int32) ([]model.PriceSnapshot, error)
	deleteBeforeFn func(ctx context.Context, before time.Time) (int64, error)
	inserted       []model.PriceSnapshot
}

var _ store.PriceStore = (*mockPriceStore)(nil)

func (m *mockPriceStore) Insert(ctx context.Context, snap *model.PriceSnapshot) error {
	m.inserted = append(m.inserted, *snap)
	if m.insertFn != nil {
		return m.insertFn(ctx, snap)
	}
	return nil
}

func (m *mockPriceStore) Latest(ctx context.Context, symbol string) (*model.PriceSnapshot, error) {
	if m.latestFn != nil {
		return m.latestFn(ctx, symbol)
	}
	return nil, store.ErrNotFound
}

func (m *mockPriceStore) History(ctx context.Context, symbol string, since time.Time, limit int32) ([]model.PriceSnapshot, error) {
	if m.historyFn != nil {
		return m.historyFn(ctx, symbol, since, limit)
	}
	return nil, nil
}

func (m *mockPriceStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	if m.deleteBeforeFn != nil {
		return m.deleteBeforeFn(ctx, before)
	}
	return 0, nil
}

type stubSource struct {
	name   string
	prices []model.Price
	err    error
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(context.Context) ([]model.Price, error) {
	return s.prices, s.err
}
