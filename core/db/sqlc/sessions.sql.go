package sqlc

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const sessionColumns = `id, user_id, user_agent, ip_address, workos_session_id, expires_at, created_at`

func scanSession(row scanner) (Session, error) {
	var i Session
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.UserAgent,
		&i.IpAddress,
		&i.WorkosSessionID,
		&i.ExpiresAt,
		&i.CreatedAt,
	)
	return i, err
}

const createSession = `-- name: CreateSession :one
INSERT INTO sessions (id, user_id, user_agent, ip_address, workos_session_id, expires_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + sessionColumns

type CreateSessionParams struct {
	ID              int64
	UserID          int64
	UserAgent       *string
	IpAddress       *string
	WorkosSessionID *string
	ExpiresAt       pgtype.Timestamptz
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (Session, error) {
	row := q.db.QueryRow(ctx, createSession,
		arg.ID,
		arg.UserID,
		arg.UserAgent,
		arg.IpAddress,
		arg.WorkosSessionID,
		arg.ExpiresAt,
	)
	return scanSession(row)
}

const getSession = `-- name: GetSession :one
SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1`

func (q *Queries) GetSession(ctx context.Context, id int64) (Session, error) {
	return scanSession(q.db.QueryRow(ctx, getSession, id))
}

const getValidSession = `-- name: GetValidSession :one
SELECT ` + sessionColumns + ` FROM sessions WHERE id = $1 AND expires_at > now()`

func (q *Queries) GetValidSession(ctx context.Context, id int64) (Session, error) {
	return scanSession(q.db.QueryRow(ctx, getValidSession, id))
}

const deleteSession = `-- name: DeleteSession :exec
DELETE FROM sessions WHERE id = $1`

func (q *Queries) DeleteSession(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, deleteSession, id)
	return err
}

const deleteSessionsByUser = `-- name: DeleteSessionsByUser :exec
DELETE FROM sessions WHERE user_id = $1`

func (q *Queries) DeleteSessionsByUser(ctx context.Context, userID int64) error {
	_, err := q.db.Exec(ctx, deleteSessionsByUser, userID)
	return err
}

const deleteExpiredSessions = `-- name: DeleteExpiredSessions :execrows
DELETE FROM sessions WHERE expires_at <= now()`

func (q *Queries) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	result, err := q.db.Exec(ctx, deleteExpiredSessions)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
