package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const challengeColumns = `id, user_id, address, chain_id, nonce, message, expires_at, used_at, created_at`

func scanChallenge(row scanner) (VerificationChallenge, error) {
	var i VerificationChallenge
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.Address,
		&i.ChainID,
		&i.Nonce,
		&i.Message,
		&i.ExpiresAt,
		&i.UsedAt,
		&i.CreatedAt,
	)
	return i, err
}

const createChallenge = `-- name: CreateChallenge :one
INSERT INTO verification_challenges (id, user_id, address, chain_id, nonce, message, expires_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + challengeColumns

type CreateChallengeParams struct {
	ID        int64
	UserID    int64
	Address   string
	ChainID   int64
	Nonce     string
	Message   string
	ExpiresAt pgtype.Timestamptz
}

func (q *Queries) CreateChallenge(ctx context.Context, arg CreateChallengeParams) (VerificationChallenge, error) {
	row := q.db.QueryRow(ctx, createChallenge,
		arg.ID,
		arg.UserID,
		arg.Address,
		arg.ChainID,
		arg.Nonce,
		arg.Message,
		arg.ExpiresAt,
	)
	return scanChallenge(row)
}

const getChallenge = `-- name: GetChallenge :one
SELECT ` + challengeColumns + ` FROM verification_challenges WHERE id = $1`

func (q *Queries) GetChallenge(ctx context.Context, id int64) (VerificationChallenge, error) {
	return scanChallenge(q.db.QueryRow(ctx, getChallenge, id))
}

const markChallengeUsed = `-- name: MarkChallengeUsed :execrows
UPDATE verification_challenges SET used_at = now() WHERE id = $1 AND used_at IS NULL`

func (q *Queries) MarkChallengeUsed(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, markChallengeUsed, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const deleteExpiredChallenges = `-- name: DeleteExpiredChallenges :execrows
DELETE FROM verification_challenges WHERE expires_at <= now()`

func (q *Queries) DeleteExpiredChallenges(ctx context.Context) (int64, error) {
	result, err := q.db.Exec(ctx, deleteExpiredChallenges)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
