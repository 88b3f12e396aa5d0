package store

import (
	"context"

	"hktplatform.app/api/core/db/sqlc"
	"hktplatform.app/api/internal/model"
)

type chainStore struct {
	queries *sqlc.Queries
}

func newChainStore(queries *sqlc.Queries) ChainStore {
	return &chainStore{queries: queries}
}

func (s *chainStore) Get(ctx context.Context, chainID int64) (*model.SupportedChain, error) {
	row, err := s.queries.GetChain(ctx, chainID)
	if err != nil {
		return nil, mapErr(err)
	}
	return toChainModel(row), nil
}

func (s *chainStore) List(ctx context.Context, includeInactive bool) ([]model.SupportedChain, error) {
	rows, err := s.queries.ListChains(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	out := make([]model.SupportedChain, len(rows))
	for i, row := range rows {
		out[i] = *toChainModel(row)
	}
	return out, nil
}

func (s *chainStore) Upsert(ctx context.Context, chain *model.SupportedChain) error {
	row, err := s.queries.UpsertChain(ctx, sqlc.UpsertChainParams{
		ChainID:      chain.ChainID,
		Name:         chain.Name,
		NativeSymbol: chain.NativeSymbol,
		RpcUrl:       chain.RPCURL,
		ExplorerUrl:  chain.ExplorerURL,
		IsActive:     chain.IsActive,
	})
	if err != nil {
		return mapErr(err)
	}
	*chain = *toChainModel(row)
	return nil
}

func toChainModel(row sqlc.SupportedChain) *model.SupportedChain {
	return &model.SupportedChain{
		ChainID:      row.ChainID,
		Name:         row.Name,
		NativeSymbol: row.NativeSymbol,
		RPCURL:       row.RpcUrl,
		ExplorerURL:  row.ExplorerUrl,
		IsActive:     row.IsActive,
		CreatedAt:    row.CreatedAt.Time,
		UpdatedAt:    row.UpdatedAt.Time,
	}
}
