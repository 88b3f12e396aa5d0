package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const investmentColumns = `id, user_id, property_id, tokens, amount, status, tx_hash, created_at, updated_at`

func scanInvestment(row scanner) (Investment, error) {
	var i Investment
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.PropertyID,
		&i.Tokens,
		&i.Amount,
		&i.Status,
		&i.TxHash,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createInvestment = `-- name: CreateInvestment :one
INSERT INTO investments (id, user_id, property_id, tokens, amount, status, tx_hash)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + investmentColumns

type CreateInvestmentParams struct {
	ID         int64
	UserID     int64
	PropertyID int64
	Tokens     int64
	Amount     pgtype.Numeric
	Status     string
	TxHash     *string
}

func (q *Queries) CreateInvestment(ctx context.Context, arg CreateInvestmentParams) (Investment, error) {
	row := q.db.QueryRow(ctx, createInvestment,
		arg.ID,
		arg.UserID,
		arg.PropertyID,
		arg.Tokens,
		arg.Amount,
		arg.Status,
		arg.TxHash,
	)
	return scanInvestment(row)
}

const getInvestmentForUpdate = `-- name: GetInvestmentForUpdate :one
SELECT ` + investmentColumns + ` FROM investments WHERE id = $1 FOR UPDATE`

func (q *Queries) GetInvestmentForUpdate(ctx context.Context, id int64) (Investment, error) {
	return scanInvestment(q.db.QueryRow(ctx, getInvestmentForUpdate, id))
}

const getInvestment = `-- name: GetInvestment :one
SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`

func (q *Queries) GetInvestment(ctx context.Context, id int64) (Investment, error) {
	return scanInvestment(q.db.QueryRow(ctx, getInvestment, id))
}

const listInvestmentsByUser = `-- name: ListInvestmentsByUser :many
SELECT ` + investmentColumns + ` FROM investments WHERE user_id = $1 ORDER BY created_at DESC`

func (q *Queries) ListInvestmentsByUser(ctx context.Context, userID int64) ([]Investment, error) {
	rows, err := q.db.Query(ctx, listInvestmentsByUser, userID)
	return collect(rows, err, scanInvestment)
}

const updateInvestmentStatus = `-- name: UpdateInvestmentStatus :one
UPDATE investments SET status = $2, updated_at = now() WHERE id = $1
RETURNING ` + investmentColumns

func (q *Queries) UpdateInvestmentStatus(ctx context.Context, id int64, status string) (Investment, error) {
	return scanInvestment(q.db.QueryRow(ctx, updateInvestmentStatus, id, status))
}

const sumConfirmedInvestments = `-- name: SumConfirmedInvestments :one
SELECT COALESCE(sum(amount), 0)::numeric, COALESCE(sum(tokens), 0)::bigint
FROM investments
WHERE status = 'confirmed' AND ($1::bigint IS NULL OR user_id = $1::bigint)`

type SumConfirmedInvestmentsRow struct {
	Amount pgtype.Numeric
	Tokens int64
}

// SumConfirmedInvestments totals confirmed investments, optionally scoped to one user.
func (q *Queries) SumConfirmedInvestments(ctx context.Context, userID *int64) (SumConfirmedInvestmentsRow, error) {
	var i SumConfirmedInvestmentsRow
	err := q.db.QueryRow(ctx, sumConfirmedInvestments, userID).Scan(&i.Amount, &i.Tokens)
	return i, err
}
