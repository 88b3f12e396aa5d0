package store

import (
	"context"
	"time"

	"hktplatform.app/api/core/db/sqlc"
	"hktplatform.app/api/internal/model"
)

type priceStore struct {
	queries *sqlc.Queries
}

func newPriceStore(queries *sqlc.Queries) PriceStore {
	return &priceStore{queries: queries}
}

func (s *priceStore) Insert(ctx context.Context, snap *model.PriceSnapshot) error {
	row, err := s.queries.InsertPriceSnapshot(ctx, sqlc.InsertPriceSnapshotParams{
		ID:         snap.ID,
		Symbol:     snap.Symbol,
		PriceUsd:   toNumeric(snap.PriceUSD),
		Source:     snap.Source,
		ObservedAt: toTimestamptz(snap.ObservedAt),
	})
	if err != nil {
		return mapErr(err)
	}
	*snap = *toPriceSnapshotModel(row)
	return nil
}

func (s *priceStore) Latest(ctx context.Context, symbol string) (*model.PriceSnapshot, error) {
	row, err := s.queries.GetLatestPriceSnapshot(ctx, symbol)
	if err != nil {
		return nil, mapErr(err)
	}
	return toPriceSnapshotModel(row), nil
}

func (s *priceStore) History(ctx context.Context, symbol string, since time.Time, limit int32) ([]model.PriceSnapshot, error) {
	rows, err := s.queries.ListPriceSnapshots(ctx, sqlc.ListPriceSnapshotsParams{
		Symbol: symbol,
		Since:  toTimestamptz(since),
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	out := make([]model.PriceSnapshot, len(rows))
	for i, row := range rows {
		out[i] = *toPriceSnapshotModel(row)
	}
	return out, nil
}

func (s *priceStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	return s.queries.DeletePriceSnapshotsBefore(ctx, toTimestamptz(before))
}

func toPriceSnapshotModel(row sqlc.PriceSnapshot) *model.PriceSnapshot {
	return &model.PriceSnapshot{
		ID: row.ID,
		Price: model.Price{
			Symbol:     row.Symbol,
			PriceUSD:   fromNumeric(row.PriceUsd),
			Source:     row.Source,
			ObservedAt: row.ObservedAt.Time,
		},
	}
}
