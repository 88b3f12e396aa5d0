package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const priceSnapshotColumns = `id, symbol, price_usd, source, observed_at`

func scanPriceSnapshot(row scanner) (PriceSnapshot, error) {
	var i PriceSnapshot
	err := row.Scan(
		&i.ID,
		&i.Symbol,
		&i.PriceUsd,
		&i.Source,
		&i.ObservedAt,
	)
	return i, err
}

const insertPriceSnapshot = `-- name: InsertPriceSnapshot :one
INSERT INTO price_snapshots (id, symbol, price_usd, source, observed_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + priceSnapshotColumns

type InsertPriceSnapshotParams struct {
	ID         int64
	Symbol     string
	PriceUsd   pgtype.Numeric
	Source     string
	ObservedAt pgtype.Timestamptz
}

func (q *Queries) InsertPriceSnapshot(ctx context.Context, arg InsertPriceSnapshotParams) (PriceSnapshot, error) {
	row := q.db.QueryRow(ctx, insertPriceSnapshot,
		arg.ID,
		arg.Symbol,
		arg.PriceUsd,
		arg.Source,
		arg.ObservedAt,
	)
	return scanPriceSnapshot(row)
}

const getLatestPriceSnapshot = `-- name: GetLatestPriceSnapshot :one
SELECT ` + priceSnapshotColumns + ` FROM price_snapshots
WHERE symbol = $1
ORDER BY observed_at DESC
LIMIT 1`

func (q *Queries) GetLatestPriceSnapshot(ctx context.Context, symbol string) (PriceSnapshot, error) {
	return scanPriceSnapshot(q.db.QueryRow(ctx, getLatestPriceSnapshot, symbol))
}

const listPriceSnapshots = `-- name: ListPriceSnapshots :many
SELECT ` + priceSnapshotColumns + ` FROM price_snapshots
WHERE symbol = $1 AND ($2::timestamptz IS NULL OR observed_at >= $2::timestamptz)
ORDER BY observed_at DESC
LIMIT $3`

type ListPriceSnapshotsParams struct {
	Symbol string
	Since  pgtype.Timestamptz
	Limit  int32
}

func (q *Queries) ListPriceSnapshots(ctx context.Context, arg ListPriceSnapshotsParams) ([]PriceSnapshot, error) {
	rows, err := q.db.Query(ctx, listPriceSnapshots, arg.Symbol, arg.Since, arg.Limit)
	return collect(rows, err, scanPriceSnapshot)
}

const deletePriceSnapshotsBefore = `-- name: DeletePriceSnapshotsBefore :execrows
DELETE FROM price_snapshots WHERE observed_at < $1`

func (q *Queries) DeletePriceSnapshotsBefore(ctx context.Context, before pgtype.Timestamptz) (int64, error) {
	result, err := q.db.Exec(ctx, deletePriceSnapshotsBefore, before)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
