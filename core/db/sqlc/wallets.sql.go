package sqlc

import (
	"context"
)

const walletColumns = `id, user_id, address, chain_id, label, is_primary, is_active, verified_at, created_at, updated_at`

func scanWallet(row scanner) (Wallet, error) {
	var i Wallet
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Address,
		&i.ChainID,
		&i.Label,
		&i.IsPrimary,
		&i.IsActive,
		&i.VerifiedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getWallet = `-- name: GetWallet :one
SELECT ` + walletColumns + ` FROM wallets WHERE id = $1`

func (q *Queries) GetWallet(ctx context.Context, id int64) (Wallet, error) {
	return scanWallet(q.db.QueryRow(ctx, getWallet, id))
}

const listWalletsByUser = `-- name: ListWalletsByUser :many
SELECT ` + walletColumns + ` FROM wallets
WHERE user_id = $1 AND is_active
ORDER BY is_primary DESC, created_at`

func (q *Queries) ListWalletsByUser(ctx context.Context, userID int64) ([]Wallet, error) {
	rows, err := q.db.Query(ctx, listWalletsByUser, userID)
	return collect(rows, err, scanWallet)
}

const upsertVerifiedWallet = `-- name: UpsertVerifiedWallet :one
INSERT INTO wallets (id, user_id, address, chain_id, label, is_primary, verified_at)
VALUES ($1, $2, $3, $4, $5, $6, now())
ON CONFLICT (user_id, address, chain_id) DO UPDATE
SET is_active = TRUE,
    label = COALESCE(EXCLUDED.label, wallets.label),
    is_primary = wallets.is_primary OR EXCLUDED.is_primary,
    verified_at = now(),
    updated_at = now()
RETURNING ` + walletColumns

type UpsertVerifiedWalletParams struct {
	ID        int64
	UserID    int64
	Address   string
	ChainID   int64
	Label     *string
	IsPrimary bool
}

func (q *Queries) UpsertVerifiedWallet(ctx context.Context, arg UpsertVerifiedWalletParams) (Wallet, error) {
	row := q.db.QueryRow(ctx, upsertVerifiedWallet,
		arg.ID,
		arg.UserID,
		arg.Address,
		arg.ChainID,
		arg.Label,
		arg.IsPrimary,
	)
	return scanWallet(row)
}

const countActiveWallets = `-- name: CountActiveWallets :one
SELECT count(*) FROM wallets WHERE user_id = $1 AND is_active`

func (q *Queries) CountActiveWallets(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countActiveWallets, userID).Scan(&count)
	return count, err
}

const clearPrimaryWallet = `-- name: ClearPrimaryWallet :exec
UPDATE wallets SET is_primary = FALSE, updated_at = now() WHERE user_id = $1 AND is_primary`

func (q *Queries) ClearPrimaryWallet(ctx context.Context, userID int64) error {
	_, err := q.db.Exec(ctx, clearPrimaryWallet, userID)
	return err
}

const setPrimaryWallet = `-- name: SetPrimaryWallet :one
UPDATE wallets SET is_primary = TRUE, updated_at = now()
WHERE id = $1 AND user_id = $2 AND is_active
RETURNING ` + walletColumns

func (q *Queries) SetPrimaryWallet(ctx context.Context, id, userID int64) (Wallet, error) {
	return scanWallet(q.db.QueryRow(ctx, setPrimaryWallet, id, userID))
}

const deactivateWallet = `-- name: DeactivateWallet :execrows
UPDATE wallets SET is_active = FALSE, is_primary = FALSE, updated_at = now()
WHERE id = $1 AND user_id = $2 AND is_active`

func (q *Queries) DeactivateWallet(ctx context.Context, id, userID int64) (int64, error) {
	result, err := q.db.Exec(ctx, deactivateWallet, id, userID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const promoteOldestWallet = `-- name: PromoteOldestWallet :exec
UPDATE wallets SET is_primary = TRUE, updated_at = now()
WHERE id = (
    SELECT id FROM wallets
    WHERE user_id = $1 AND is_active
    ORDER BY created_at
    LIMIT 1
) AND NOT EXISTS (
    SELECT 1 FROM wallets WHERE user_id = $1 AND is_active AND is_primary
)`

func (q *Queries) PromoteOldestWallet(ctx context.Context, userID int64) error {
	_, err := q.db.Exec(ctx, promoteOldestWallet, userID)
	return err
}
