package store

import (
	"context"

	"hktplatform.app/api/core/db/sqlc"
	"hktplatform.app/api/internal/model"
)

type walletStore struct {
	queries *sqlc.Queries
}

func newWalletStore(queries *sqlc.Queries) WalletStore {
	return &walletStore{queries: queries}
}

func (s *walletStore) GetByID(ctx context.Context, id int64) (*model.Wallet, error) {
	row, err := s.queries.GetWallet(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toWalletModel(row), nil
}

func (s *walletStore) ListByUser(ctx context.Context, userID int64) ([]model.Wallet, error) {
	rows, err := s.queries.ListWalletsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Wallet, len(rows))
	for i, row := range rows {
		out[i] = *toWalletModel(row)
	}
	return out, nil
}

func (s *walletStore) UpsertVerified(ctx context.Context, w *model.Wallet) error {
	row, err := s.queries.UpsertVerifiedWallet(ctx, sqlc.UpsertVerifiedWalletParams{
		ID:        w.ID,
		UserID:    w.UserID,
		Address:   w.Address,
		ChainID:   w.ChainID,
		Label:     w.Label,
		IsPrimary: w.IsPrimary,
	})
	if err != nil {
		return mapErr(err)
	}
	*w = *toWalletModel(row)
	return nil
}

func (s *walletStore) CountActive(ctx context.Context, userID int64) (int64, error) {
	return s.queries.CountActiveWallets(ctx, userID)
}

func (s *walletStore) ClearPrimary(ctx context.Context, userID int64) error {
	return s.queries.ClearPrimaryWallet(ctx, userID)
}

func (s *walletStore) SetPrimary(ctx context.Context, id, userID int64) (*model.Wallet, error) {
	row, err := s.queries.SetPrimaryWallet(ctx, id, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	return toWalletModel(row), nil
}

func (s *walletStore) Deactivate(ctx context.Context, id, userID int64) error {
	n, err := s.queries.DeactivateWallet(ctx, id, userID)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *walletStore) PromoteOldest(ctx context.Context, userID int64) error {
	return s.queries.PromoteOldestWallet(ctx, userID)
}

func toWalletModel(row sqlc.Wallet) *model.Wallet {
	return &model.Wallet{
		ID:         row.ID,
		UserID:     row.UserID,
		Address:    row.Address,
		ChainID:    row.ChainID,
		Label:      row.Label,
		IsPrimary:  row.IsPrimary,
		IsActive:   row.IsActive,
		VerifiedAt: timePtr(row.VerifiedAt),
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}
