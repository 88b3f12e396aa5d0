package store

import (
	"context"

	"hktplatform.app/api/core/db/sqlc"
	"hktplatform.app/api/internal/model"
)

type investmentStore struct {
	queries *sqlc.Queries
}

func newInvestmentStore(queries *sqlc.Queries) InvestmentStore {
	return &investmentStore{queries: queries}
}

func (s *investmentStore) GetByID(ctx context.Context, id int64) (*model.Investment, error) {
	row, err := s.queries.GetInvestment(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toInvestmentModel(row), nil
}

func (s *investmentStore) GetForUpdate(ctx context.Context, id int64) (*model.Investment, error) {
	row, err := s.queries.GetInvestmentForUpdate(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	return toInvestmentModel(row), nil
}

func (s *investmentStore) Create(ctx context.Context, inv *model.Investment) error {
	row, err := s.queries.CreateInvestment(ctx, sqlc.CreateInvestmentParams{
		ID:         inv.ID,
		UserID:     inv.UserID,
		PropertyID: inv.PropertyID,
		Tokens:     inv.Tokens,
		Amount:     toNumeric(inv.Amount),
		Status:     string(inv.Status),
		TxHash:     inv.TxHash,
	})
	if err != nil {
		return mapErr(err)
	}
	*inv = *toInvestmentModel(row)
	return nil
}

func (s *investmentStore) ListByUser(ctx context.Context, userID int64) ([]model.Investment, error) {
	rows, err := s.queries.ListInvestmentsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Investment, len(rows))
	for i, row := range rows {
		out[i] = *toInvestmentModel(row)
	}
	return out, nil
}

func (s *investmentStore) UpdateStatus(ctx context.Context, id int64, status model.InvestmentStatus) (*model.Investment, error) {
	row, err := s.queries.UpdateInvestmentStatus(ctx, id, string(status))
	if err != nil {
		return nil, mapErr(err)
	}
	return toInvestmentModel(row), nil
}

func (s *investmentStore) Totals(ctx context.Context, userID *int64) (model.InvestmentTotals, error) {
	row, err := s.queries.SumConfirmedInvestments(ctx, userID)
	if err != nil {
		return model.InvestmentTotals{}, err
	}
	return model.InvestmentTotals{Amount: fromNumeric(row.Amount), Tokens: row.Tokens}, nil
}

func toInvestmentModel(row sqlc.Investment) *model.Investment {
	return &model.Investment{
		ID:         row.ID,
		UserID:     row.UserID,
		PropertyID: row.PropertyID,
		Tokens:     row.Tokens,
		Amount:     fromNumeric(row.Amount),
		Status:     model.InvestmentStatus(row.Status),
		TxHash:     row.TxHash,
		CreatedAt:  row.CreatedAt.Time,
		UpdatedAt:  row.UpdatedAt.Time,
	}
}
