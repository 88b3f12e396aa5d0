package store

import (
	"context"

	"hktplatform.app/api/core/db/sqlc"
	"hktplatform.app/api/internal/model"
)

type userStore struct {
	queries *sqlc.Queries
}

func newUserStore(queries *sqlc.Queries) UserStore {
	return &userStore{queries: queries}
}

func (s *userStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row, err := s.queries.GetUser(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	row, err := s.queries.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, mapErr(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) Create(ctx context.Context, user *model.User) error {
	role := user.Role
	if role == "" {
		role = model.RoleUser
	}
	row, err := s.queries.CreateUser(ctx, sqlc.CreateUserParams{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		AvatarUrl:    user.AvatarURL,
		Role:         string(role),
	})
	if err != nil {
		return mapErr(err)
	}
	*user = *toUserModel(row)
	return nil
}

func (s *userStore) UpsertByWorkOS(ctx context.Context, user *model.User) error {
	row, err := s.queries.UpsertUserByWorkOSID(ctx, sqlc.UpsertUserByWorkOSIDParams{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		AvatarUrl: user.AvatarURL,
		WorkosID:  user.WorkOSID,
	})
	if err != nil {
		return mapErr(err)
	}
	*user = *toUserModel(row)
	return nil
}

func (s *userStore) UpdateProfile(ctx context.Context, id int64, name string, avatarURL *string) (*model.User, error) {
	row, err := s.queries.UpdateUserProfile(ctx, sqlc.UpdateUserProfileParams{
		ID:        id,
		Name:      name,
		AvatarUrl: avatarURL,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return s.queries.UpdateUserPassword(ctx, id, passwordHash)
}

func (s *userStore) TouchLastLogin(ctx context.Context, id int64) error {
	return s.queries.TouchUserLastLogin(ctx, id)
}

func (s *userStore) UpdateAccess(ctx context.Context, id int64, role model.Role, isActive bool) (*model.User, error) {
	row, err := s.queries.UpdateUserAccess(ctx, sqlc.UpdateUserAccessParams{
		ID:       id,
		Role:     string(role),
		IsActive: isActive,
	})
	if err != nil {
		return nil, mapErr(err)
	}
	return toUserModel(row), nil
}

func (s *userStore) List(ctx context.Context, limit, offset int32) ([]model.User, error) {
	rows, err := s.queries.ListUsers(ctx, sqlc.ListUsersParams{Limit: limit, Offset: offset})
	if err != nil {
		return nil, err
	}
	users := make([]model.User, len(rows))
	for i, row := range rows {
		users[i] = *toUserModel(row)
	}
	return users, nil
}

func (s *userStore) Count(ctx context.Context) (int64, error) {
	return s.queries.CountUsers(ctx)
}

func toUserModel(row sqlc.User) *model.User {
	return &model.User{
		ID:           row.ID,
		Email:        row.Email,
		Name:         row.Name,
		PasswordHash: row.PasswordHash,
		AvatarURL:    row.AvatarUrl,
		Role:         model.Role(row.Role),
		IsActive:     row.IsActive,
		WorkOSID:     row.WorkosID,
		LastLoginAt:  timePtr(row.LastLoginAt),
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
