package store

import (
	"context"

	"hktplatform.app/api/core/db/sqlc"
	"hktplatform.app/api/internal/model"
)

type challengeStore struct {
	queries *sqlc.Queries
}

func newChallengeStore(queries *sqlc.Queries) ChallengeStore {
	return &challengeStore{queries: queries}
}

func (s *challengeStore) GetByID(ctx context.Context, id int64) (*model.VerificationChallenge, error) {
	row, err := s.queries.GetChallenge(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toChallengeModel(row), nil
}

func (s *challengeStore) Create(ctx context.Context, c *model.VerificationChallenge) error {
	row, err := s.queries.CreateChallenge(ctx, sqlc.CreateChallengeParams{
		ID:        c.ID,
		UserID:    c.UserID,
		Address:   c.Address,
		ChainID:   c.ChainID,
		Nonce:     c.Nonce,
		Message:   c.Message,
		ExpiresAt: toTimestamptz(c.ExpiresAt),
	})
	if err != nil {
		return mapErr(err)
	}
	*c = *toChallengeModel(row)
	return nil
}

func (s *challengeStore) MarkUsed(ctx context.Context, id int64) (bool, error) {
	n, err := s.queries.MarkChallengeUsed(ctx, id)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (s *challengeStore) DeleteExpired(ctx context.Context) (int64, error) {
	return s.queries.DeleteExpiredChallenges(ctx)
}

func toChallengeModel(row sqlc.VerificationChallenge) *model.VerificationChallenge {
	return &model.VerificationChallenge{
		ID:        row.ID,
		UserID:    row.UserID,
		Address:   row.Address,
		ChainID:   row.ChainID,
		Nonce:     row.Nonce,
		Message:   row.Message,
		ExpiresAt: row.ExpiresAt.Time,
		UsedAt:    timePtr(row.UsedAt),
		CreatedAt: row.CreatedAt.Time,
	}
}
