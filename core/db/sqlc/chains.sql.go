package sqlc

import (
	"context"
)

const chainColumns = `chain_id, name, native_symbol, rpc_url, explorer_url, is_active, created_at, updated_at`

func scanChain(row scanner) (SupportedChain, error) {
	var i SupportedChain
	err := row.Scan(
		&i.ChainID,
		&i.Name,
		&i.NativeSymbol,
		&i.RpcUrl,
		&i.ExplorerUrl,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getChain = `-- name: GetChain :one
SELECT ` + chainColumns + ` FROM supported_chains WHERE chain_id = $1`

func (q *Queries) GetChain(ctx context.Context, chainID int64) (SupportedChain, error) {
	return scanChain(q.db.QueryRow(ctx, getChain, chainID))
}

const listChains = `-- name: ListChains :many
SELECT ` + chainColumns + ` FROM supported_chains
WHERE ($1::boolean OR is_active)
ORDER BY chain_id`

func (q *Queries) ListChains(ctx context.Context, includeInactive bool) ([]SupportedChain, error) {
	rows, err := q.db.Query(ctx, listChains, includeInactive)
	return collect(rows, err, scanChain)
}

const upsertChain = `-- name: UpsertChain :one
INSERT INTO supported_chains (chain_id, name, native_symbol, rpc_url, explorer_url, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (chain_id) DO UPDATE
SET name = EXCLUDED.name,
    native_symbol = EXCLUDED.native_symbol,
    rpc_url = EXCLUDED.rpc_url,
    explorer_url = EXCLUDED.explorer_url,
    is_active = EXCLUDED.is_active,
    updated_at = now()
RETURNING ` + chainColumns

type UpsertChainParams struct {
	ChainID      int64
	Name         string
	NativeSymbol string
	RpcUrl       string
	ExplorerUrl  *string
	IsActive     bool
}

func (q *Queries) UpsertChain(ctx context.Context, arg UpsertChainParams) (SupportedChain, error) {
	row := q.db.QueryRow(ctx, upsertChain,
		arg.ChainID,
		arg.Name,
		arg.NativeSymbol,
		arg.RpcUrl,
		arg.ExplorerUrl,
		arg.IsActive,
	)
	return scanChain(row)
}
