package sqlc

import (
	"context"
)

const userColumns = `id, email, name, password_hash, avatar_url, role, is_active, workos_id, last_login_at, created_at, updated_at`

func scanUser(row scanner) (User, error) {
	var i User
	err := row.Scan(
		&i.ID,
		&i.Email,
		&i.Name,
		&i.PasswordHash,
		&i.AvatarUrl,
		&i.Role,
		&i.IsActive,
		&i.WorkosID,
		&i.LastLoginAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (id, email, name, password_hash, avatar_url, role)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns

type CreateUserParams struct {
	ID           int64
	Email        string
	Name         string
	PasswordHash *string
	AvatarUrl    *string
	Role         string
}

func (q *Queries) CreateUser(ctx context.Context, arg CreateUserParams) (User, error) {
	row := q.db.QueryRow(ctx, createUser,
		arg.ID,
		arg.Email,
		arg.Name,
		arg.PasswordHash,
		arg.AvatarUrl,
		arg.Role,
	)
	return scanUser(row)
}

const getUser = `-- name: GetUser :one
SELECT ` + userColumns + ` FROM users WHERE id = $1`

func (q *Queries) GetUser(ctx context.Context, id int64) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUser, id))
}

const getUserByEmail = `-- name: GetUserByEmail :one
SELECT ` + userColumns + ` FROM users WHERE email = $1`

func (q *Queries) GetUserByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByEmail, email))
}

const upsertUserByWorkOSID = `-- name: UpsertUserByWorkOSID :one
INSERT INTO users (id, email, name, avatar_url, workos_id)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (email) DO UPDATE
SET workos_id = EXCLUDED.workos_id,
    avatar_url = COALESCE(users.avatar_url, EXCLUDED.avatar_url),
    updated_at = now()
RETURNING ` + userColumns

type UpsertUserByWorkOSIDParams struct {
	ID        int64
	Email     string
	Name      string
	AvatarUrl *string
	WorkosID  *string
}

func (q *Queries) UpsertUserByWorkOSID(ctx context.Context, arg UpsertUserByWorkOSIDParams) (User, error) {
	row := q.db.QueryRow(ctx, upsertUserByWorkOSID,
		arg.ID,
		arg.Email,
		arg.Name,
		arg.AvatarUrl,
		arg.WorkosID,
	)
	return scanUser(row)
}

const updateUserProfile = `-- name: UpdateUserProfile :one
UPDATE users SET name = $2, avatar_url = $3, updated_at = now()
WHERE id = $1
RETURNING ` + userColumns

type UpdateUserProfileParams struct {
	ID        int64
	Name      string
	AvatarUrl *string
}

func (q *Queries) UpdateUserProfile(ctx context.Context, arg UpdateUserProfileParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, updateUserProfile, arg.ID, arg.Name, arg.AvatarUrl))
}

const updateUserPassword = `-- name: UpdateUserPassword :exec
UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`

func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, passwordHash string) error {
	_, err := q.db.Exec(ctx, updateUserPassword, id, passwordHash)
	return err
}

const touchUserLastLogin = `-- name: TouchUserLastLogin :exec
UPDATE users SET last_login_at = now() WHERE id = $1`

func (q *Queries) TouchUserLastLogin(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, touchUserLastLogin, id)
	return err
}

const updateUserAccess = `-- name: UpdateUserAccess :one
UPDATE users SET role = $2, is_active = $3, updated_at = now()
WHERE id = $1
RETURNING ` + userColumns

type UpdateUserAccessParams struct {
	ID       int64
	Role     string
	IsActive bool
}

func (q *Queries) UpdateUserAccess(ctx context.Context, arg UpdateUserAccessParams) (User, error) {
	return scanUser(q.db.QueryRow(ctx, updateUserAccess, arg.ID, arg.Role, arg.IsActive))
}

const listUsers = `-- name: ListUsers :many
SELECT ` + userColumns + ` FROM users
ORDER BY created_at DESC
LIMIT $1 OFFSET $2`

type ListUsersParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListUsers(ctx context.Context, arg ListUsersParams) ([]User, error) {
	rows, err := q.db.Query(ctx, listUsers, arg.Limit, arg.Offset)
	return collect(rows, err, scanUser)
}

const countUsers = `-- name: CountUsers :one
SELECT count(*) FROM users`

func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRow(ctx, countUsers).Scan(&count)
	return count, err
}
